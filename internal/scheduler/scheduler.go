// Package scheduler repeats posting runs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled posting run.
type Job func(ctx context.Context)

// Scheduler wraps robfig/cron. A run that is still going when the next tick fires
// makes that tick a no-op, so one browser session is open at a time.
type Scheduler struct {
	cron *cron.Cron
	spec string // e.g. "@every 6h" or "0 9 * * *"
	job  Job
}

func New(spec string, job Job) *Scheduler {
	logger := cron.PrintfLogger(log.Default())
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		spec: spec,
		job:  job,
	}
}

// Start registers the job and starts the scheduler. The first run happens right away.
func (s *Scheduler) Start(ctx context.Context) error {
	id, err := s.cron.AddFunc(s.spec, func() { s.run(ctx) })
	if err != nil {
		return fmt.Errorf("cron spec %q: %w", s.spec, err)
	}
	s.cron.Start()
	log.Printf("[scheduler] started, spec: %s", s.spec)

	s.cron.Entry(id).WrappedJob.Run()
	return nil
}

// Run starts the scheduler and blocks until ctx is done and the running job, if any,
// has returned.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return nil
}

// Stop halts the scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Println("[scheduler] stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	log.Println("[scheduler] run started")
	s.job(ctx)
	log.Println("[scheduler] run complete")
}
