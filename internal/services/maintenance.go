package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"callcenter-crm/internal/dto"
	"callcenter-crm/internal/repositories"
	"callcenter-crm/pkg/constants"
)

// MaintenanceService is the periodic sweep. Idempotent: running it twice in
// a row changes nothing the second time.
type MaintenanceService struct {
	contactRepo repositories.ContactRepositoryInterface
	locks       *LockingService
	logger      *zap.Logger
}

func NewMaintenanceService(
	contactRepo repositories.ContactRepositoryInterface,
	locks *LockingService,
	logger *zap.Logger,
) *MaintenanceService {
	return &MaintenanceService{
		contactRepo: contactRepo,
		locks:       locks,
		logger:      logger,
	}
}

// RunCleanup deactivates chronically unreachable contacts, expires
// assignments whose last sale is older than the retention window, and
// releases stale call locks.
func (s *MaintenanceService) RunCleanup(ctx context.Context) (dto.CleanupResultDTO, error) {
	var result dto.CleanupResultDTO

	deactivated, err := s.contactRepo.DeactivateChronicNoAnswer(ctx, constants.NoAnswerDeactivateAt)
	if err != nil {
		return result, err
	}
	result.Deactivated = deactivated

	cutoff := time.Now().AddDate(0, 0, -constants.UnassignAfterSaleDays)
	unassigned, err := s.contactRepo.UnassignExpiredSales(ctx, cutoff)
	if err != nil {
		return result, err
	}
	result.Unassigned = unassigned

	released, err := s.locks.SweepStale(ctx)
	if err != nil {
		return result, err
	}
	result.LocksReleased = released

	s.logger.Info("maintenance sweep finished",
		zap.Int64("deactivated", result.Deactivated),
		zap.Int64("unassigned", result.Unassigned),
		zap.Int64("locksReleased", result.LocksReleased))
	return result, nil
}
