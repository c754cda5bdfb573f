package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job is a periodic maintenance task.
type Job struct {
	Name     string
	Interval time.Duration
	Fn       func(ctx context.Context) error
}

// Runner executes registered jobs on their intervals until stopped.
type Runner struct {
	jobs   []Job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

func NewRunner() *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{ctx: ctx, cancel: cancel}
}

func (r *Runner) AddJob(name string, interval time.Duration, fn func(ctx context.Context) error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.jobs = append(r.jobs, Job{Name: name, Interval: interval, Fn: fn})
	slog.Info("Cron job registered", "name", name, "interval", interval)
}

func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, job := range r.jobs {
		r.wg.Add(1)
		go r.run(job)
	}
	slog.Info("Cron runner started", "job_count", len(r.jobs))
}

// Stop gracefully stops all jobs and waits for in-flight runs.
func (r *Runner) Stop() {
	r.cancel()
	r.wg.Wait()
	slog.Info("Cron runner stopped")
}

func (r *Runner) run(job Job) {
	defer r.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	// Run once on start so restarts reconcile immediately.
	r.execute(job)

	for {
		select {
		case <-r.ctx.Done():
			slog.Info("Cron job stopping", "name", job.Name)
			return
		case <-ticker.C:
			r.execute(job)
		}
	}
}

func (r *Runner) execute(job Job) {
	start := time.Now()
	if err := job.Fn(r.ctx); err != nil {
		slog.Error("Cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
		return
	}
	slog.Debug("Cron job completed", "name", job.Name, "duration", time.Since(start))
}
