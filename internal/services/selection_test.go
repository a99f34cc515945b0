package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"callcenter-crm/internal/dto"
	"callcenter-crm/internal/entities"
	"callcenter-crm/internal/repositories"
	apperrors "callcenter-crm/pkg/errors"
)

// fakeTxManager runs the callback directly; the fakes below never touch the
// tx handle.
type fakeTxManager struct{}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type batchKey struct {
	batch time.Time
	sub   repositories.SubTier
}

type fakeSelectionRepo struct {
	repositories.ContactSelectionRepositoryInterface

	overdue  *entities.Contact
	vip      *entities.Contact
	batches  []time.Time
	perBatch map[batchKey]*entities.Contact

	staleSwept   bool
	ownReleased  []uint64
	lockedID     uint64
	lockedBy     uint64
	seenFilters  []dto.SelectionFilters
	subTierOrder []repositories.SubTier
}

func (f *fakeSelectionRepo) ReleaseStaleLocks(ctx context.Context, olderThan time.Time) (int64, error) {
	f.staleSwept = true
	return 0, nil
}

func (f *fakeSelectionRepo) ReleaseOperatorLock(ctx context.Context, operatorID uint64) error {
	f.ownReleased = append(f.ownReleased, operatorID)
	return nil
}

func (f *fakeSelectionRepo) LockContact(ctx context.Context, tx pgx.Tx, contactID, operatorID uint64, now time.Time) error {
	f.lockedID = contactID
	f.lockedBy = operatorID
	return nil
}

func (f *fakeSelectionRepo) SelectOverdueCallback(ctx context.Context, tx pgx.Tx, operatorID uint64, now, staleBefore time.Time) (*entities.Contact, error) {
	return f.overdue, nil
}

func (f *fakeSelectionRepo) SelectNeglectedVIP(ctx context.Context, tx pgx.Tx, operatorID uint64, now, staleBefore time.Time) (*entities.Contact, error) {
	return f.vip, nil
}

func (f *fakeSelectionRepo) ListImportBatches(ctx context.Context, tx pgx.Tx) ([]time.Time, error) {
	return f.batches, nil
}

func (f *fakeSelectionRepo) SelectFromBatch(ctx context.Context, tx pgx.Tx, batch time.Time, operatorID uint64, now, staleBefore time.Time, filters dto.SelectionFilters, sub repositories.SubTier) (*entities.Contact, error) {
	f.seenFilters = append(f.seenFilters, filters)
	f.subTierOrder = append(f.subTierOrder, sub)
	return f.perBatch[batchKey{batch, sub}], nil
}

type fakeFilterCache struct {
	repositories.FilterCacheRepositoryInterface

	filters dto.SelectionFilters
	err     error
}

func (f *fakeFilterCache) GetFilters(ctx context.Context, operatorID uint64) (dto.SelectionFilters, error) {
	return f.filters, f.err
}

func newSelectionService(repo *fakeSelectionRepo, cache *fakeFilterCache) *SelectionService {
	logger := zap.NewNop()
	locks := NewLockingService(repo, time.Hour, logger)
	return NewSelectionService(repo, cache, &fakeTxManager{}, locks, logger)
}

func TestSelectNextContact_OverdueCallbackWinsFirst(t *testing.T) {
	repo := &fakeSelectionRepo{
		overdue: &entities.Contact{ID: 10},
		vip:     &entities.Contact{ID: 20},
	}
	svc := newSelectionService(repo, &fakeFilterCache{})

	c, err := svc.SelectNextContact(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, uint64(10), c.ID)
	assert.True(t, repo.staleSwept)
	assert.Equal(t, []uint64{7}, repo.ownReleased)
	assert.Equal(t, uint64(10), repo.lockedID)
	assert.Equal(t, uint64(7), repo.lockedBy)
	assert.Equal(t, uint64(7), c.LockedByID.Uint64)
	assert.True(t, c.LockedAt.Valid)
}

func TestSelectNextContact_VIPWhenNoCallbackDue(t *testing.T) {
	repo := &fakeSelectionRepo{vip: &entities.Contact{ID: 20}}
	svc := newSelectionService(repo, &fakeFilterCache{})

	c, err := svc.SelectNextContact(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(20), c.ID)
}

func TestSelectNextContact_FreshPoolWalksBatchesAndSubTiers(t *testing.T) {
	newer := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	older := time.Date(2025, 5, 26, 8, 0, 0, 0, time.UTC)

	repo := &fakeSelectionRepo{
		batches: []time.Time{newer, older},
		perBatch: map[batchKey]*entities.Contact{
			{older, repositories.SubTierLowNoAnswer}: {ID: 30},
		},
	}
	svc := newSelectionService(repo, &fakeFilterCache{})

	c, err := svc.SelectNextContact(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(30), c.ID)

	// The newer batch was exhausted through all four passes before the
	// older batch was touched.
	assert.Equal(t, []repositories.SubTier{
		repositories.SubTierNoHistory, repositories.SubTierPriorSale,
		repositories.SubTierLowNoAnswer, repositories.SubTierAll,
		repositories.SubTierNoHistory, repositories.SubTierPriorSale,
		repositories.SubTierLowNoAnswer,
	}, repo.subTierOrder)
}

func TestSelectNextContact_ExhaustionIsNoContactAvailable(t *testing.T) {
	repo := &fakeSelectionRepo{batches: []time.Time{time.Now()}}
	svc := newSelectionService(repo, &fakeFilterCache{})

	_, err := svc.SelectNextContact(context.Background(), 7)
	assert.ErrorIs(t, err, apperrors.ErrNoContactAvailable)
	assert.Zero(t, repo.lockedID)
}

func TestSelectNextContact_FilterCacheFailureWidensSearch(t *testing.T) {
	batch := time.Now()
	repo := &fakeSelectionRepo{
		batches: []time.Time{batch},
		perBatch: map[batchKey]*entities.Contact{
			{batch, repositories.SubTierNoHistory}: {ID: 40},
		},
	}
	cache := &fakeFilterCache{
		filters: dto.SelectionFilters{Campaign: "SUMMER"},
		err:     errors.New("redis down"),
	}
	svc := newSelectionService(repo, cache)

	c, err := svc.SelectNextContact(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(40), c.ID)
	require.NotEmpty(t, repo.seenFilters)
	assert.True(t, repo.seenFilters[0].Empty(), "broken cache must not leak stale filters")
}

func TestSelectNextContact_FiltersArePassedThrough(t *testing.T) {
	batch := time.Now()
	repo := &fakeSelectionRepo{
		batches: []time.Time{batch},
		perBatch: map[batchKey]*entities.Contact{
			{batch, repositories.SubTierAll}: {ID: 50},
		},
	}
	cache := &fakeFilterCache{filters: dto.SelectionFilters{Campaign: "SUMMER"}}
	svc := newSelectionService(repo, cache)

	c, err := svc.SelectNextContact(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), c.ID)
	assert.Equal(t, "SUMMER", repo.seenFilters[0].Campaign)
}
