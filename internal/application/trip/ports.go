package trip

import (
	"context"
	"time"

	"github.com/baechuer/trip-service/internal/application/regional"
	"github.com/baechuer/trip-service/internal/domain"
)

type Clock interface {
	Now() time.Time
}

// OwnerQuery selects one owner's trips. StartAfter, when set, keeps trips whose
// start_date is strictly after it.
type OwnerQuery struct {
	OwnerID    string
	StartAfter *time.Time
	Sort       domain.TripSortField
	Order      domain.SortOrder
	Limit      int
	Offset     int
}

// TripRepo returns fully loaded graphs: trip -> stops (with city) ->
// activities (with activity), stops by order_index, activities by (date, time).
type TripRepo interface {
	ListByOwner(ctx context.Context, q OwnerQuery) ([]*domain.Trip, int, error)
	ListRegional(ctx context.Context, c regional.Criteria) ([]*domain.Trip, int, error)
	GetGraph(ctx context.Context, id string) (*domain.Trip, error)

	WithTx(ctx context.Context, fn func(r TxTripRepo) error) error
}

// TxTripRepo is the write side. GetTripForUpdate must serialize concurrent
// writers of the same trip until the transaction ends.
type TxTripRepo interface {
	GetTripForUpdate(ctx context.Context, id string) (*domain.Trip, error)
	MaxStopOrder(ctx context.Context, tripID string) (int, error)
	GetStop(ctx context.Context, tripID, stopID string) (*domain.TripStop, error)

	InsertTrip(ctx context.Context, t *domain.Trip) error
	InsertStop(ctx context.Context, s *domain.TripStop) error
	InsertTripActivity(ctx context.Context, a *domain.TripActivity) error
	DeleteStop(ctx context.Context, stopID string) error
	DeleteTrip(ctx context.Context, tripID string) error

	InsertOutbox(ctx context.Context, msg OutboxMessage) error
}

type UserRepo interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, val any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// EventPublisher ships outbox rows to the broker. messageID must be stable
// across retries.
type EventPublisher interface {
	PublishEvent(ctx context.Context, routingKey, messageID string, body []byte) error
}

type OutboxMessage struct {
	MessageID  string
	RoutingKey string
	Body       []byte
	CreatedAt  time.Time
}
