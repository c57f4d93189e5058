package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mfigueira/preptrack/internal/logger"
	"github.com/mfigueira/preptrack/internal/models"
	"github.com/mfigueira/preptrack/internal/scoring"
)

// ErrNotStarted is returned by Submit on a session that never started.
var ErrNotStarted = errors.New("session not started")

// HistorySink receives the attempt result of a submitted session.
// repository.HistoryRepository satisfies it; tests use an in-memory fake.
type HistorySink interface {
	Append(ctx context.Context, result models.AttemptResult) error
}

// Controller owns the mutable state of one attempt and enforces its
// lifecycle: not_started -> in_progress -> completed -> submitted.
// Mutators on a submitted session are silent no-ops. All methods are
// safe for concurrent use; the per-second ticker and HTTP handlers
// share one controller.
type Controller struct {
	mu        sync.Mutex
	session   models.Session
	evaluator *scoring.Evaluator
	history   HistorySink
	now       func() time.Time
	result    *models.AttemptResult
	onTimeout func(models.AttemptResult)
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithEvaluator replaces the default evaluator.
func WithEvaluator(e *scoring.Evaluator) Option {
	return func(c *Controller) { c.evaluator = e }
}

// WithTimeoutHook registers a callback invoked once when the countdown
// reaching zero submits the session. The hook runs with the controller
// locked and must not call back into it.
func WithTimeoutHook(hook func(models.AttemptResult)) Option {
	return func(c *Controller) { c.onTimeout = hook }
}

// New creates a controller for one attempt at the given interview. The
// interview's questions are snapshotted immediately so later catalog
// edits cannot affect this attempt.
func New(interview models.Interview, history HistorySink, opts ...Option) *Controller {
	questions := make([]models.Question, len(interview.Questions))
	copy(questions, interview.Questions)

	c := &Controller{
		session: models.Session{
			ID:              uuid.NewString(),
			InterviewID:     interview.ID,
			InterviewTitle:  interview.Title,
			DurationSeconds: interview.DurationMinutes * 60,
			Questions:       questions,
			Answers:         make(map[string]models.Answer),
			Status:          models.StatusNotStarted,
		},
		evaluator: scoring.NewEvaluator(nil),
		history:   history,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the session identifier.
func (c *Controller) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.ID
}

// Start moves the session to in_progress and arms the countdown.
// Calling Start on anything but a not_started session is a no-op.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.Status != models.StatusNotStarted {
		return
	}
	c.session.StartedAt = c.now()
	c.session.RemainingSeconds = c.session.DurationSeconds
	c.session.CurrentIndex = 0
	c.session.Status = models.StatusInProgress
}

// Answer upserts the answer for a question in the snapshot. The value's
// shape is not validated; the kind-specific UI owns that. Unknown
// question ids and non-in_progress sessions are silent no-ops.
func (c *Controller) Answer(questionID string, answer models.Answer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.Status != models.StatusInProgress {
		return
	}
	for _, q := range c.session.Questions {
		if q.ID == questionID {
			c.session.Answers[questionID] = answer
			return
		}
	}
}

// Navigate moves the current question pointer. Out-of-range indexes are
// ignored; any question may be revisited.
func (c *Controller) Navigate(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.Status != models.StatusInProgress {
		return
	}
	if index < 0 || index >= len(c.session.Questions) {
		return
	}
	c.session.CurrentIndex = index
}

// Tick advances the countdown by one second. When the clock reaches
// zero the session submits itself; the status transition guarantees
// that happens at most once even if later ticks still observe zero.
func (c *Controller) Tick(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.Status != models.StatusInProgress {
		return
	}
	if c.session.RemainingSeconds > 0 {
		c.session.RemainingSeconds--
	}
	if c.session.RemainingSeconds == 0 {
		log := logger.FromContext(ctx).WithPrefix("session")
		log.Info("time expired, auto-submitting: session_id=%s", c.session.ID)
		result, performed, err := c.submitLocked(ctx)
		if err != nil {
			log.Error("auto-submit failed: %v", err)
			return
		}
		if performed && c.onTimeout != nil {
			c.onTimeout(*result)
		}
	}
}

// Submit finalizes the attempt: scores it and archives the result.
// Submitting an already-submitted session returns the existing result
// without creating a new one. The second return reports whether this
// call performed the transition to submitted, so a caller racing the
// countdown can count the submission exactly once. Submitting with
// zero answers is allowed and scores 0.
func (c *Controller) Submit(ctx context.Context) (*models.AttemptResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitLocked(ctx)
}

// submitLocked runs the completed -> submitted transition. The caller
// holds c.mu. A failed archive append leaves the session completed so
// a later Submit can retry without re-evaluating a different result.
func (c *Controller) submitLocked(ctx context.Context) (*models.AttemptResult, bool, error) {
	switch c.session.Status {
	case models.StatusNotStarted:
		return nil, false, ErrNotStarted
	case models.StatusSubmitted:
		return c.result, false, nil
	case models.StatusInProgress:
		end := c.now()
		c.session.EndedAt = &end
		c.session.Status = models.StatusCompleted
		result := c.evaluator.Evaluate(&c.session, uuid.NewString())
		c.result = &result
	}

	if err := c.history.Append(ctx, *c.result); err != nil {
		return nil, false, err
	}
	c.session.Status = models.StatusSubmitted
	return c.result, true, nil
}

// AttachFeedback stores a rating and comment on a submitted session.
func (c *Controller) AttachFeedback(feedback models.Feedback) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.Status != models.StatusSubmitted {
		return errors.New("feedback requires a submitted session")
	}
	if feedback.Rating < 1 || feedback.Rating > 5 {
		return errors.New("rating must be between 1 and 5")
	}
	fb := feedback
	c.session.Feedback = &fb
	if c.result != nil {
		c.result.Feedback = &fb
	}
	return nil
}

// Snapshot returns a copy of the session state for rendering. The
// answers map is copied so callers cannot mutate controller state.
func (c *Controller) Snapshot() models.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := c.session
	answers := make(map[string]models.Answer, len(c.session.Answers))
	for k, v := range c.session.Answers {
		answers[k] = v
	}
	snap.Answers = answers
	return snap
}

// Result returns the attempt result once submitted, nil before.
func (c *Controller) Result() *models.AttemptResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return nil
	}
	res := *c.result
	return &res
}

// Status returns the current lifecycle state.
func (c *Controller) Status() models.SessionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Status
}

// Deadline reports when the countdown runs out, relative to start.
func (c *Controller) Deadline() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.StartedAt.Add(time.Duration(c.session.DurationSeconds) * time.Second)
}
