package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a unit of scheduled work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler runs jobs on cron specs. A job never overlaps with itself.
type Scheduler struct {
	c       *cron.Cron
	log     *slog.Logger
	timeout time.Duration
}

func NewScheduler(log *slog.Logger) *Scheduler {
	return &Scheduler{
		c:       cron.New(cron.WithChain(cron.Recover(cron.DiscardLogger))),
		log:     log,
		timeout: 10 * time.Minute,
	}
}

// Add registers job under spec. An empty spec leaves the job disabled.
func (s *Scheduler) Add(spec string, job Job) error {
	if spec == "" {
		s.log.Info("Cron job disabled", "job", job.Name())
		return nil
	}

	_, err := s.c.AddJob(spec, cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(func() {
		s.run(job)
	})))
	if err != nil {
		return fmt.Errorf("could not schedule %s: %w", job.Name(), err)
	}
	s.log.Info("Cron job scheduled", "job", job.Name(), "spec", spec)
	return nil
}

func (s *Scheduler) run(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	log := s.log.With("job", job.Name())
	log.Debug("Running cron job")
	if err := job.Run(ctx); err != nil {
		log.Error("Cron job failed", "error", err, "duration", time.Since(start))
		return
	}
	log.Info("Cron job finished", "duration", time.Since(start))
}

func (s *Scheduler) Start() {
	s.c.Start()
}

// Stop waits for running jobs to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.c.Stop().Done():
	case <-ctx.Done():
	}
}
