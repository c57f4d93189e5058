package services

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/mfigueira/preptrack/internal/logger"
)

// Sweeper runs the session expiry sweep on a cron schedule. It is a
// backstop for countdown runners that died without submitting, and it
// evicts terminal sessions past their retention window.
type Sweeper struct {
	sessions SessionService
	schedule string
	cron     *cron.Cron
	log      *logger.Logger
}

// NewSweeper creates a sweeper with a cron schedule such as
// "@every 1m".
func NewSweeper(sessions SessionService, schedule string) *Sweeper {
	return &Sweeper{
		sessions: sessions,
		schedule: schedule,
		cron:     cron.New(),
		log:      logger.Default().WithPrefix("sweeper"),
	}
}

// Start registers and starts the scheduled sweep.
func (s *Sweeper) Start() error {
	s.log.Info("starting session sweeper with schedule: %s", s.schedule)

	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx := logger.NewContext(context.Background(), s.log)
		s.sessions.SweepExpired(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule session sweep: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("session sweeper stopped")
}
