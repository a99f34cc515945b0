package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"callcenter-crm/internal/dto"
)

// FilterCacheRepositoryInterface stores the per-operator session filters.
// Filters are advisory state with a TTL; losing them only widens the next
// selection back to the unfiltered pool.
type FilterCacheRepositoryInterface interface {
	SetFilters(ctx context.Context, operatorID uint64, filters dto.SelectionFilters, ttl time.Duration) error
	GetFilters(ctx context.Context, operatorID uint64) (dto.SelectionFilters, error)
	ClearFilters(ctx context.Context, operatorID uint64) error
}

type filterCacheRepository struct {
	client *redis.Client
}

func NewFilterCacheRepository(client *redis.Client) FilterCacheRepositoryInterface {
	return &filterCacheRepository{client: client}
}

func filterKey(operatorID uint64) string {
	return fmt.Sprintf("session_filters:%d", operatorID)
}

func (r *filterCacheRepository) SetFilters(ctx context.Context, operatorID uint64, filters dto.SelectionFilters, ttl time.Duration) error {
	payload, err := json.Marshal(filters)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, filterKey(operatorID), payload, ttl).Err()
}

func (r *filterCacheRepository) GetFilters(ctx context.Context, operatorID uint64) (dto.SelectionFilters, error) {
	var filters dto.SelectionFilters

	payload, err := r.client.Get(ctx, filterKey(operatorID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return filters, nil
		}
		return filters, err
	}
	if err := json.Unmarshal(payload, &filters); err != nil {
		return dto.SelectionFilters{}, err
	}
	return filters, nil
}

func (r *filterCacheRepository) ClearFilters(ctx context.Context, operatorID uint64) error {
	return r.client.Del(ctx, filterKey(operatorID)).Err()
}
