package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lucaspaiva/bazario-backend/internal/orders"
)

type fakeSweeper struct {
	result *orders.SweepResult
	err    error
	calls  int
	at     time.Time
}

func (f *fakeSweeper) AutoConfirmSweep(ctx context.Context, now time.Time) (*orders.SweepResult, error) {
	f.calls++
	f.at = now
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func TestAutoConfirmJobRunsSweep(t *testing.T) {
	sweeper := &fakeSweeper{result: &orders.SweepResult{Scanned: 3, Confirmed: 2, FailedIDs: []uuid.UUID{uuid.New()}}}
	job, err := NewAutoConfirmJob(AutoConfirmJobParams{Logger: testLogger(), Orders: sweeper})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run job: %v", err)
	}
	if sweeper.calls != 1 {
		t.Fatalf("expected one sweep, got %d", sweeper.calls)
	}
	if sweeper.at.IsZero() {
		t.Fatal("sweep must receive the current time")
	}
}

func TestAutoConfirmJobPropagatesSweepError(t *testing.T) {
	sweeper := &fakeSweeper{err: errors.New("db down")}
	job, err := NewAutoConfirmJob(AutoConfirmJobParams{Logger: testLogger(), Orders: sweeper})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error when the sweep fails")
	}
}

func TestNewAutoConfirmJobRequiresOrders(t *testing.T) {
	if _, err := NewAutoConfirmJob(AutoConfirmJobParams{Logger: testLogger()}); err == nil {
		t.Fatal("expected error without the orders service")
	}
}

type fakeCleanupRepo struct {
	deleted int64
	err     error
	cutoff  time.Time
}

func (f *fakeCleanupRepo) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.deleted, f.err
}

func TestNotificationCleanupJobUsesRetention(t *testing.T) {
	repo := &fakeCleanupRepo{deleted: 5}
	job, err := NewNotificationCleanupJob(NotificationCleanupJobParams{
		Logger:     testLogger(),
		Repository: repo,
		Retention:  7,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run job: %v", err)
	}
	wantCutoff := time.Now().UTC().Add(-7 * 24 * time.Hour)
	if repo.cutoff.Sub(wantCutoff).Abs() > time.Minute {
		t.Fatalf("unexpected cutoff %s", repo.cutoff)
	}
}

func TestNotificationCleanupJobWrapsRepoError(t *testing.T) {
	job, err := NewNotificationCleanupJob(NotificationCleanupJobParams{
		Logger:     testLogger(),
		Repository: &fakeCleanupRepo{err: errors.New("boom")},
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error from failed cleanup")
	}
}
