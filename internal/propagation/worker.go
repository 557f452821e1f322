// Package propagation runs the background worker that copies changed profile
// display fields onto historical posts and repost snapshots.
package propagation

import (
	"context"
	"log/slog"
	"time"

	"pixelaura/internal/middleware"
	"pixelaura/internal/observability"
	"pixelaura/internal/repository"
)

const (
	defaultInterval  = 15 * time.Second
	defaultBatchSize = 50
)

// Worker sweeps pending propagation jobs on an interval. A job that fails to
// apply stays pending and is picked up again on the next sweep.
type Worker struct {
	repo      repository.PropagationRepository
	interval  time.Duration
	batchSize int
	done      chan struct{}
}

// NewWorker creates a propagation worker. Zero interval or batch size fall
// back to the defaults.
func NewWorker(repo repository.PropagationRepository, interval time.Duration, batchSize int) *Worker {
	if interval <= 0 {
		interval = defaultInterval
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Worker{
		repo:      repo,
		interval:  interval,
		batchSize: batchSize,
		done:      make(chan struct{}),
	}
}

// Start launches the sweep loop in a goroutine. The loop stops when ctx is
// cancelled; Done unblocks once the loop has exited.
func (w *Worker) Start(ctx context.Context) {
	go func() {
		defer close(w.done)

		// Drain whatever queued up before the process started
		w.sweep(ctx)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.sweep(ctx)
			}
		}
	}()
}

// Done returns a channel closed when the sweep loop has exited.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

func (w *Worker) sweep(ctx context.Context) {
	applied, err := w.Sweep(ctx)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "propagation sweep failed", slog.String("error", err.Error()))
		return
	}
	if applied > 0 {
		middleware.Logger.InfoContext(ctx, "propagation sweep applied jobs", slog.Int("applied", applied))
	}
}

// Sweep applies one batch of pending jobs and reports how many succeeded.
func (w *Worker) Sweep(ctx context.Context) (int, error) {
	jobs, err := w.repo.Pending(ctx, w.batchSize)
	if err != nil {
		return 0, err
	}

	applied := 0
	for i := range jobs {
		job := &jobs[i]
		if err := w.repo.Apply(ctx, job); err != nil {
			observability.PropagationJobs.WithLabelValues("retry").Inc()
			middleware.Logger.WarnContext(ctx, "propagation apply failed, job stays pending",
				slog.Any("job_id", job.ID),
				slog.Any("user_id", job.UserID),
				slog.Int("attempts", job.Attempts),
				slog.String("error", err.Error()),
			)
			if markErr := w.repo.MarkAttempt(ctx, job); markErr != nil {
				middleware.Logger.ErrorContext(ctx, "failed to record propagation attempt",
					slog.Any("job_id", job.ID),
					slog.String("error", markErr.Error()),
				)
			}
			continue
		}
		observability.PropagationJobs.WithLabelValues("done").Inc()
		applied++
	}

	if count, err := w.repo.PendingCount(ctx); err == nil {
		observability.PropagationPending.Set(float64(count))
	}

	return applied, nil
}
