package services

import (
	"context"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"callcenter-crm/internal/dto"
	"callcenter-crm/internal/entities"
	"callcenter-crm/internal/repositories"
	apperrors "callcenter-crm/pkg/errors"
)

// SelectionService implements the tiered "give me the next contact" search.
// Tiers are tried in order; the first lockable candidate wins. Exhaustion is
// reported as ErrNoContactAvailable, which is a normal outcome, not a fault.
type SelectionService struct {
	selectionRepo repositories.ContactSelectionRepositoryInterface
	filterCache   repositories.FilterCacheRepositoryInterface
	txManager     repositories.TxManagerInterface
	locks         *LockingService
	logger        *zap.Logger
}

func NewSelectionService(
	selectionRepo repositories.ContactSelectionRepositoryInterface,
	filterCache repositories.FilterCacheRepositoryInterface,
	txManager repositories.TxManagerInterface,
	locks *LockingService,
	logger *zap.Logger,
) *SelectionService {
	return &SelectionService{
		selectionRepo: selectionRepo,
		filterCache:   filterCache,
		txManager:     txManager,
		locks:         locks,
		logger:        logger,
	}
}

// SelectNextContact finds, locks and returns the next contact for the
// operator. The whole tier walk runs in one transaction with skip-locked
// row locking, so concurrent operators converge on disjoint contacts.
func (s *SelectionService) SelectNextContact(ctx context.Context, operatorID uint64) (*entities.Contact, error) {
	now := time.Now()

	if _, err := s.locks.SweepStale(ctx); err != nil {
		return nil, err
	}
	if err := s.locks.ReleaseFor(ctx, operatorID); err != nil {
		return nil, err
	}

	// Filters are advisory; a broken cache widens the search instead of
	// blocking the operator.
	filters, err := s.filterCache.GetFilters(ctx, operatorID)
	if err != nil {
		s.logger.Warn("session filters unavailable, selecting unfiltered",
			zap.Uint64("operatorId", operatorID), zap.Error(err))
		filters = dto.SelectionFilters{}
	}

	staleBefore := s.locks.StaleBefore(now)
	var chosen *entities.Contact

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		c, err := s.selectionRepo.SelectOverdueCallback(ctx, tx, operatorID, now, staleBefore)
		if err != nil {
			return err
		}

		if c == nil {
			c, err = s.selectionRepo.SelectNeglectedVIP(ctx, tx, operatorID, now, staleBefore)
			if err != nil {
				return err
			}
		}

		if c == nil {
			c, err = s.selectFromFreshPool(ctx, tx, operatorID, now, staleBefore, filters)
			if err != nil {
				return err
			}
		}

		if c == nil {
			return apperrors.ErrNoContactAvailable
		}

		if err := s.selectionRepo.LockContact(ctx, tx, c.ID, operatorID, now); err != nil {
			return err
		}
		c.LockedByID = null.Uint64From(operatorID)
		c.LockedAt = null.TimeFrom(now)
		chosen = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("contact selected",
		zap.Uint64("operatorId", operatorID),
		zap.Uint64("contactId", chosen.ID))
	return chosen, nil
}

// selectFromFreshPool is tier 3: walk import batches newest first, and
// within each batch run the four sub-tier passes before giving up on it.
func (s *SelectionService) selectFromFreshPool(ctx context.Context, tx pgx.Tx, operatorID uint64, now, staleBefore time.Time, filters dto.SelectionFilters) (*entities.Contact, error) {
	batches, err := s.selectionRepo.ListImportBatches(ctx, tx)
	if err != nil {
		return nil, err
	}

	for _, batch := range batches {
		for _, sub := range repositories.SubTiers {
			c, err := s.selectionRepo.SelectFromBatch(ctx, tx, batch, operatorID, now, staleBefore, filters, sub)
			if err != nil {
				return nil, err
			}
			if c != nil {
				return c, nil
			}
		}
	}
	return nil, nil
}
