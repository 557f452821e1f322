package propagation

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"pixelaura/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// propagationRepoStub is a stub for repository.PropagationRepository.
type propagationRepoStub struct {
	pendingFn      func(context.Context, int) ([]models.ProfilePropagation, error)
	pendingCountFn func(context.Context) (int64, error)
	applyFn        func(context.Context, *models.ProfilePropagation) error
	markAttemptFn  func(context.Context, *models.ProfilePropagation) error
	listForUserFn  func(context.Context, uint, int, int) ([]models.ProfilePropagation, error)
}

func (s *propagationRepoStub) Pending(ctx context.Context, limit int) ([]models.ProfilePropagation, error) {
	return s.pendingFn(ctx, limit)
}
func (s *propagationRepoStub) PendingCount(ctx context.Context) (int64, error) {
	return s.pendingCountFn(ctx)
}
func (s *propagationRepoStub) Apply(ctx context.Context, job *models.ProfilePropagation) error {
	return s.applyFn(ctx, job)
}
func (s *propagationRepoStub) MarkAttempt(ctx context.Context, job *models.ProfilePropagation) error {
	return s.markAttemptFn(ctx, job)
}
func (s *propagationRepoStub) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.ProfilePropagation, error) {
	return s.listForUserFn(ctx, userID, limit, offset)
}

func noopPropagationRepo() *propagationRepoStub {
	return &propagationRepoStub{
		pendingFn:      func(_ context.Context, _ int) ([]models.ProfilePropagation, error) { return nil, nil },
		pendingCountFn: func(_ context.Context) (int64, error) { return 0, nil },
		applyFn:        func(_ context.Context, _ *models.ProfilePropagation) error { return nil },
		markAttemptFn:  func(_ context.Context, _ *models.ProfilePropagation) error { return nil },
		listForUserFn: func(_ context.Context, _ uint, _, _ int) ([]models.ProfilePropagation, error) {
			return nil, nil
		},
	}
}

func TestWorker_SweepAppliesPendingJobs(t *testing.T) {
	repo := noopPropagationRepo()
	repo.pendingFn = func(_ context.Context, limit int) ([]models.ProfilePropagation, error) {
		assert.Equal(t, 50, limit)
		return []models.ProfilePropagation{
			{ID: 1, UserID: 10},
			{ID: 2, UserID: 11},
		}, nil
	}
	var applied []uint
	repo.applyFn = func(_ context.Context, job *models.ProfilePropagation) error {
		applied = append(applied, job.ID)
		return nil
	}

	w := NewWorker(repo, 0, 0)
	n, err := w.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []uint{1, 2}, applied)
}

func TestWorker_SweepKeepsFailedJobsPending(t *testing.T) {
	repo := noopPropagationRepo()
	repo.pendingFn = func(_ context.Context, _ int) ([]models.ProfilePropagation, error) {
		return []models.ProfilePropagation{
			{ID: 1, UserID: 10},
			{ID: 2, UserID: 11},
		}, nil
	}
	repo.applyFn = func(_ context.Context, job *models.ProfilePropagation) error {
		if job.ID == 1 {
			return errors.New("deadlock")
		}
		return nil
	}
	var attempts []uint
	repo.markAttemptFn = func(_ context.Context, job *models.ProfilePropagation) error {
		attempts = append(attempts, job.ID)
		return nil
	}

	w := NewWorker(repo, 0, 0)
	n, err := w.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n, "only the successful job counts")
	assert.Equal(t, []uint{1}, attempts, "the failed job records an attempt")
}

func TestWorker_SweepPropagatesListError(t *testing.T) {
	repo := noopPropagationRepo()
	repo.pendingFn = func(_ context.Context, _ int) ([]models.ProfilePropagation, error) {
		return nil, errors.New("db down")
	}

	w := NewWorker(repo, 0, 0)
	_, err := w.Sweep(context.Background())
	assert.Error(t, err)
}

func TestWorker_StartSweepsUntilCancelled(t *testing.T) {
	var sweeps int32
	repo := noopPropagationRepo()
	repo.pendingFn = func(_ context.Context, _ int) ([]models.ProfilePropagation, error) {
		atomic.AddInt32(&sweeps, 1)
		return nil, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := NewWorker(repo, 5*time.Millisecond, 10)
	w.Start(ctx)

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&sweeps) >= 3
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case <-w.Done():
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}

	after := atomic.LoadInt32(&sweeps)
	assert.Never(t, func() bool {
		return atomic.LoadInt32(&sweeps) > after
	}, 50*time.Millisecond, 5*time.Millisecond)
}
