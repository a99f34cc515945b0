package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"callcenter-crm/internal/repositories"
)

type fakeContactRepo struct {
	repositories.ContactRepositoryInterface

	deactivateStreak int
	unassignCutoff   time.Time
}

func (f *fakeContactRepo) DeactivateChronicNoAnswer(ctx context.Context, streak int) (int64, error) {
	f.deactivateStreak = streak
	return 3, nil
}

func (f *fakeContactRepo) UnassignExpiredSales(ctx context.Context, cutoff time.Time) (int64, error) {
	f.unassignCutoff = cutoff
	return 5, nil
}

func TestRunCleanup(t *testing.T) {
	contactRepo := &fakeContactRepo{}
	selectionRepo := &fakeSelectionRepo{}
	logger := zap.NewNop()
	locks := NewLockingService(selectionRepo, time.Hour, logger)
	svc := NewMaintenanceService(contactRepo, locks, logger)

	before := time.Now()
	result, err := svc.RunCleanup(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), result.Deactivated)
	assert.Equal(t, int64(5), result.Unassigned)
	assert.Equal(t, 7, contactRepo.deactivateStreak)
	assert.True(t, selectionRepo.staleSwept)

	// Assignment retention is 90 days after the last sale.
	wantCutoff := before.AddDate(0, 0, -90)
	assert.WithinDuration(t, wantCutoff, contactRepo.unassignCutoff, time.Minute)
}
