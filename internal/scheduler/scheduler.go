package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Reloader reloads every dataset. *service.Service satisfies it.
type Reloader interface {
	ReloadAll(ctx context.Context) error
	PurgeImages() int
}

// Scheduler periodically reloads datasets so that edited or republished
// documents replace the current charts.
type Scheduler struct {
	scheduler *gocron.Scheduler
	reloader  Reloader
	interval  time.Duration
	timeout   time.Duration
	logger    *zap.SugaredLogger
}

// New creates a new Scheduler. A zero interval disables periodic reloads.
func New(interval, timeout time.Duration, reloader Reloader, logger *zap.SugaredLogger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		reloader:  reloader,
		interval:  interval,
		timeout:   timeout,
		logger:    logger,
	}
}

// Start schedules the reload job and starts the underlying scheduler. The
// first run happens one interval after Start; the initial load is the
// caller's job.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.logger.Infow("scheduler: periodic reload disabled")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 1
	}

	_, err := s.scheduler.Every(minutes).Minutes().WaitForSchedule().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Infow("scheduler: periodic reload started", "every", time.Duration(minutes)*time.Minute)
	return nil
}

func (s *Scheduler) run() {
	s.logger.Debugw("scheduler: running dataset reload job")

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.reloader.ReloadAll(ctx); err != nil {
		s.logger.Warnw("scheduler: reload finished with errors", "error", err)
	}
	if n := s.reloader.PurgeImages(); n > 0 {
		s.logger.Debugw("scheduler: purged expired renders", "count", n)
	}
	s.logger.Debugw("scheduler: completed dataset reload job")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
