package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"callcenter-crm/internal/dto"
	"callcenter-crm/internal/repositories"
	apperrors "callcenter-crm/pkg/errors"
)

// SessionFilterService manages the per-operator selection filters and the
// option lists the UI builds its filter form from.
type SessionFilterService struct {
	filterCache repositories.FilterCacheRepositoryInterface
	contactRepo repositories.ContactRepositoryInterface
	filterTTL   time.Duration
	logger      *zap.Logger
}

func NewSessionFilterService(
	filterCache repositories.FilterCacheRepositoryInterface,
	contactRepo repositories.ContactRepositoryInterface,
	filterTTL time.Duration,
	logger *zap.Logger,
) *SessionFilterService {
	return &SessionFilterService{
		filterCache: filterCache,
		contactRepo: contactRepo,
		filterTTL:   filterTTL,
		logger:      logger,
	}
}

// SetFilters stores the operator's filter choice. The three filter kinds are
// mutually exclusive; submitting more than one is rejected rather than
// silently resolved, the precedence rule exists only for stored legacy state.
func (s *SessionFilterService) SetFilters(ctx context.Context, operatorID uint64, filters dto.SelectionFilters) error {
	kinds := 0
	if filters.Campaign != "" {
		kinds++
	}
	if len(filters.PrioritySuffixes) > 0 {
		kinds++
	}
	if filters.ReturnsOnly {
		kinds++
	}
	if kinds > 1 {
		verr := apperrors.NewValidationError()
		verr.Add("filters", "campaign, priority suffixes and returns-only are mutually exclusive")
		return verr
	}

	for _, suffix := range filters.PrioritySuffixes {
		if len(suffix) != 2 {
			verr := apperrors.NewValidationError()
			verr.Add("priority_suffixes", "each suffix must be exactly two characters")
			return verr
		}
	}

	if filters.Empty() {
		return s.filterCache.ClearFilters(ctx, operatorID)
	}
	return s.filterCache.SetFilters(ctx, operatorID, filters, s.filterTTL)
}

func (s *SessionFilterService) GetFilters(ctx context.Context, operatorID uint64) (dto.SelectionFilters, error) {
	return s.filterCache.GetFilters(ctx, operatorID)
}

func (s *SessionFilterService) ClearFilters(ctx context.Context, operatorID uint64) error {
	return s.filterCache.ClearFilters(ctx, operatorID)
}

func (s *SessionFilterService) FilterOptions(ctx context.Context) (*dto.FilterOptionsDTO, error) {
	campaigns, err := s.contactRepo.ListCampaigns(ctx)
	if err != nil {
		return nil, err
	}
	suffixes, err := s.contactRepo.ListPrioritySuffixes(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.FilterOptionsDTO{Campaigns: campaigns, PrioritySuffixes: suffixes}, nil
}
