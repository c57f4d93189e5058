package services

import (
	"context"
	"sync"
	"time"

	"github.com/mfigueira/preptrack/internal/errors"
	"github.com/mfigueira/preptrack/internal/logger"
	"github.com/mfigueira/preptrack/internal/metrics"
	"github.com/mfigueira/preptrack/internal/models"
	"github.com/mfigueira/preptrack/internal/repository"
	"github.com/mfigueira/preptrack/internal/scoring"
	"github.com/mfigueira/preptrack/internal/session"
)

// SessionService owns all live interview attempts: it starts
// controllers, drives their countdowns, and archives their results.
type SessionService interface {
	StartSession(ctx context.Context, interviewID string) (models.Session, error)
	GetSession(ctx context.Context, id string) (models.Session, error)
	Answer(ctx context.Context, id string, questionID string, answer models.Answer) (models.Session, error)
	Navigate(ctx context.Context, id string, index int) (models.Session, error)
	Submit(ctx context.Context, id string) (*models.AttemptResult, error)
	AttachFeedback(ctx context.Context, id string, feedback models.Feedback) error
	// SweepExpired force-submits in-progress sessions whose runner
	// missed the deadline and evicts terminal sessions older than the
	// retention TTL. Returns how many sessions it touched.
	SweepExpired(ctx context.Context) int
	Shutdown()
}

type sessionEntry struct {
	ctrl      *session.Controller
	runner    *session.Runner
	createdAt time.Time
}

type sessionService struct {
	mu           sync.RWMutex
	sessions     map[string]*sessionEntry
	catalog      repository.CatalogRepository
	history      repository.HistoryRepository
	evaluator    *scoring.Evaluator
	tickInterval time.Duration
	ttl          time.Duration
	baseCtx      context.Context
}

// SessionOption configures the session service.
type SessionOption func(*sessionService)

// WithTickInterval overrides the one-second countdown cadence, for tests.
func WithTickInterval(d time.Duration) SessionOption {
	return func(s *sessionService) { s.tickInterval = d }
}

// WithRetention overrides how long terminal sessions stay queryable.
func WithRetention(d time.Duration) SessionOption {
	return func(s *sessionService) { s.ttl = d }
}

// WithGrader swaps the free-text/code grading strategy.
func WithGrader(g scoring.Grader) SessionOption {
	return func(s *sessionService) { s.evaluator = scoring.NewEvaluator(g) }
}

// NewSessionService creates a new SessionService. baseCtx bounds the
// lifetime of all countdown runners.
func NewSessionService(baseCtx context.Context, catalog repository.CatalogRepository, history repository.HistoryRepository, opts ...SessionOption) SessionService {
	s := &sessionService{
		sessions:     make(map[string]*sessionEntry),
		catalog:      catalog,
		history:      history,
		evaluator:    scoring.NewEvaluator(nil),
		tickInterval: time.Second,
		ttl:          4 * time.Hour,
		baseCtx:      baseCtx,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *sessionService) StartSession(ctx context.Context, interviewID string) (models.Session, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting session: interview_id=%s", interviewID)

	interview, err := s.catalog.GetInterview(ctx, interviewID)
	if err != nil {
		log.Error("failed to load interview: %v", err)
		return models.Session{}, errors.NewInternalError(err)
	}
	if interview == nil {
		return models.Session{}, errors.NewNotFoundError("interview", interviewID)
	}
	if len(interview.Questions) == 0 {
		return models.Session{}, errors.NewValidationError("interview", "has no questions")
	}

	ctrl := session.New(*interview, s.history,
		session.WithEvaluator(s.evaluator),
		session.WithTimeoutHook(func(models.AttemptResult) {
			metrics.SessionsSubmitted.WithLabelValues("timeout").Inc()
			metrics.ActiveSessions.Dec()
		}),
	)
	ctrl.Start()

	runner := session.NewRunner(ctrl, s.tickInterval)
	runner.Start(s.baseCtx)

	s.mu.Lock()
	s.sessions[ctrl.ID()] = &sessionEntry{ctrl: ctrl, runner: runner, createdAt: time.Now()}
	s.mu.Unlock()

	metrics.SessionsStarted.Inc()
	metrics.ActiveSessions.Inc()

	log.Info("session started: id=%s, interview_id=%s, questions=%d", ctrl.ID(), interviewID, len(interview.Questions))
	return ctrl.Snapshot(), nil
}

func (s *sessionService) GetSession(ctx context.Context, id string) (models.Session, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return models.Session{}, err
	}
	return entry.ctrl.Snapshot(), nil
}

func (s *sessionService) Answer(ctx context.Context, id string, questionID string, answer models.Answer) (models.Session, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return models.Session{}, err
	}
	entry.ctrl.Answer(questionID, answer)
	return entry.ctrl.Snapshot(), nil
}

func (s *sessionService) Navigate(ctx context.Context, id string, index int) (models.Session, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return models.Session{}, err
	}
	entry.ctrl.Navigate(index)
	return entry.ctrl.Snapshot(), nil
}

func (s *sessionService) Submit(ctx context.Context, id string) (*models.AttemptResult, error) {
	log := logger.FromContext(ctx)

	entry, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	result, performed, err := entry.ctrl.Submit(ctx)
	if err != nil {
		if err == session.ErrNotStarted {
			return nil, errors.NewConflictError("session has not started")
		}
		log.Error("failed to submit session %s: %v", id, err)
		return nil, errors.NewInternalError(err)
	}

	// performed is false when a timeout auto-submit won the race, in
	// which case the controller hook already counted the submission.
	if performed {
		metrics.SessionsSubmitted.WithLabelValues("user").Inc()
		metrics.ActiveSessions.Dec()
		entry.runner.Stop()
		snap := entry.ctrl.Snapshot()
		log.Info("session submitted: id=%s, score=%d/%d, answered=%d, elapsed=%ds",
			id, result.Score, result.TotalQuestions, snap.AnsweredCount(),
			scoring.ElapsedSeconds(result.StartTime, result.EndTime))
	}
	return result, nil
}

func (s *sessionService) AttachFeedback(ctx context.Context, id string, feedback models.Feedback) error {
	log := logger.FromContext(ctx)

	entry, err := s.lookup(id)
	if err != nil {
		return err
	}
	if err := entry.ctrl.AttachFeedback(feedback); err != nil {
		return errors.NewValidationError("feedback", err.Error())
	}

	result := entry.ctrl.Result()
	if result == nil {
		return errors.NewConflictError("session has no archived result")
	}
	if err := s.history.SetFeedback(ctx, result.ID, feedback); err != nil {
		log.Error("failed to persist feedback for attempt %s: %v", result.ID, err)
		return errors.NewInternalError(err)
	}
	log.Info("feedback attached: session_id=%s, rating=%d", id, feedback.Rating)
	return nil
}

func (s *sessionService) SweepExpired(ctx context.Context) int {
	log := logger.FromContext(ctx).WithPrefix("sweep")
	now := time.Now()
	touched := 0

	s.mu.Lock()
	entries := make(map[string]*sessionEntry, len(s.sessions))
	for id, e := range s.sessions {
		entries[id] = e
	}
	s.mu.Unlock()

	for id, e := range entries {
		status := e.ctrl.Status()
		switch status {
		case models.StatusInProgress:
			// Runner backstop: force the timeout submit if the deadline
			// passed but the countdown never reached zero.
			if now.After(e.ctrl.Deadline().Add(s.tickInterval)) {
				log.Warn("session %s ran past its deadline, force-submitting", id)
				_, performed, err := e.ctrl.Submit(ctx)
				if err != nil {
					log.Error("failed to force-submit session %s: %v", id, err)
					continue
				}
				if !performed {
					continue
				}
				metrics.SessionsSubmitted.WithLabelValues("sweep").Inc()
				metrics.ActiveSessions.Dec()
				e.runner.Stop()
				touched++
			}
		case models.StatusSubmitted, models.StatusCompleted:
			if now.Sub(e.createdAt) > s.ttl {
				s.evict(id, e)
				touched++
			}
		case models.StatusNotStarted:
			if now.Sub(e.createdAt) > s.ttl {
				s.evict(id, e)
				touched++
			}
		}
	}

	if touched > 0 {
		log.Info("sweep touched %d sessions", touched)
	}
	return touched
}

func (s *sessionService) evict(id string, e *sessionEntry) {
	e.runner.Stop()
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func (s *sessionService) Shutdown() {
	s.mu.Lock()
	entries := make([]*sessionEntry, 0, len(s.sessions))
	for _, e := range s.sessions {
		entries = append(entries, e)
	}
	s.mu.Unlock()

	for _, e := range entries {
		e.runner.Stop()
	}
}

func (s *sessionService) lookup(id string) (*sessionEntry, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.NewNotFoundError("session", id)
	}
	return entry, nil
}
