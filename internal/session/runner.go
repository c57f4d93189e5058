package session

import (
	"context"
	"sync"
	"time"

	"github.com/mfigueira/preptrack/internal/logger"
	"github.com/mfigueira/preptrack/internal/models"
)

// Runner drives a controller's countdown at a fixed cadence. The
// controller itself never schedules anything; the runner owns the
// ticker and is cancelled deterministically when the session leaves
// in_progress, so a discarded session is never mutated by a stale
// timer.
type Runner struct {
	ctrl     *Controller
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
	once     sync.Once
}

// NewRunner creates a runner ticking at the given interval. Anything
// non-positive means one tick per second, the production cadence.
func NewRunner(ctrl *Controller, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = time.Second
	}
	return &Runner{
		ctrl:     ctrl,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start launches the ticking goroutine. It returns immediately; the
// goroutine exits when the session leaves in_progress or the context
// is cancelled.
func (r *Runner) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	log := logger.FromContext(ctx).WithPrefix("session_runner").WithField("session_id", r.ctrl.ID())

	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		log.Debug("runner started")
		for {
			select {
			case <-ctx.Done():
				log.Debug("runner cancelled")
				return
			case <-ticker.C:
				r.ctrl.Tick(logger.NewContext(context.WithoutCancel(ctx), log))
				if r.ctrl.Status() != models.StatusInProgress {
					log.Debug("session left in_progress, runner stopping")
					return
				}
			}
		}
	}()
}

// Stop cancels the ticking goroutine and waits for it to exit. Safe to
// call more than once.
func (r *Runner) Stop() {
	r.once.Do(func() {
		if r.cancel != nil {
			r.cancel()
		}
		<-r.done
	})
}

// Done is closed when the runner's goroutine has exited.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}
