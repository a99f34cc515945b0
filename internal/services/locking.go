package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"callcenter-crm/internal/entities"
	"callcenter-crm/internal/repositories"
	apperrors "callcenter-crm/pkg/errors"
)

// LockingService owns the transient call-session locks on contacts.
// A lock is not an assignment: it only marks a contact as "on an
// operator's screen right now" and expires after the configured TTL.
type LockingService struct {
	selectionRepo repositories.ContactSelectionRepositoryInterface
	lockTTL       time.Duration
	logger        *zap.Logger
}

func NewLockingService(
	selectionRepo repositories.ContactSelectionRepositoryInterface,
	lockTTL time.Duration,
	logger *zap.Logger,
) *LockingService {
	return &LockingService{
		selectionRepo: selectionRepo,
		lockTTL:       lockTTL,
		logger:        logger,
	}
}

func (s *LockingService) LockTTL() time.Duration { return s.lockTTL }

// StaleBefore is the cutoff: locks stamped before it no longer count.
func (s *LockingService) StaleBefore(now time.Time) time.Time {
	return now.Add(-s.lockTTL)
}

// SweepStale releases every lock older than the TTL, cluster-wide.
func (s *LockingService) SweepStale(ctx context.Context) (int64, error) {
	released, err := s.selectionRepo.ReleaseStaleLocks(ctx, s.StaleBefore(time.Now()))
	if err != nil {
		return 0, err
	}
	if released > 0 {
		s.logger.Info("released stale call locks", zap.Int64("count", released))
	}
	return released, nil
}

// ReleaseFor drops any lock the operator still holds from an abandoned
// session, so one operator can never block themselves.
func (s *LockingService) ReleaseFor(ctx context.Context, operatorID uint64) error {
	return s.selectionRepo.ReleaseOperatorLock(ctx, operatorID)
}

// EnsureHeld verifies the contact is not on another operator's screen.
// Used before showing contact detail or accepting an outcome outside the
// selection transaction.
func (s *LockingService) EnsureHeld(c *entities.Contact, operatorID uint64, now time.Time) error {
	if c.LockedByOther(operatorID, now, s.lockTTL) {
		return apperrors.ErrContactLocked
	}
	return nil
}
