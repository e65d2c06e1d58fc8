package calendar

import (
	"context"
	"time"

	"github.com/baechuer/trip-service/internal/domain"
)

// TripSource returns trips readable by requesterID (owned or public) whose
// [start_date, end_date] intersects [from, to], ordered by (start_date, id),
// with stops and activities loaded.
type TripSource interface {
	ListVisibleInRange(ctx context.Context, requesterID string, from, to time.Time) ([]*domain.Trip, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, val any, ttl time.Duration) error
}
