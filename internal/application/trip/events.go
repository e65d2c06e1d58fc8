package trip

import (
	"context"
	"encoding/json"
	"time"

	"github.com/baechuer/trip-service/internal/domain"
	appCtx "github.com/baechuer/trip-service/internal/pkg/context"
	"github.com/google/uuid"
)

const (
	EventVersion  = 1
	EventProducer = "trip-service"

	RoutingTripCreated       = "trip.created"
	RoutingTripDeleted       = "trip.deleted"
	RoutingStopAdded         = "trip.stop_added"
	RoutingStopRemoved       = "trip.stop_removed"
	RoutingActivityScheduled = "trip.activity_added"
)

// DomainEventEnvelope wraps every trip.* message. Consumers dedupe on
// message_id.
type DomainEventEnvelope[T any] struct {
	Version    int       `json:"version"`
	Producer   string    `json:"producer"`
	MessageID  string    `json:"message_id"`
	TraceID    string    `json:"trace_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    T         `json:"payload"`
}

type TripPayload struct {
	TripID    string    `json:"trip_id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	IsPublic  bool      `json:"is_public"`
	Stops     int       `json:"stops"`
}

type StopPayload struct {
	TripID     string    `json:"trip_id"`
	OwnerID    string    `json:"owner_id"`
	StopID     string    `json:"stop_id"`
	CityID     string    `json:"city_id,omitempty"`
	StartDate  time.Time `json:"start_date,omitempty"`
	EndDate    time.Time `json:"end_date,omitempty"`
	OrderIndex int       `json:"order_index"`
}

type ActivityPayload struct {
	TripID         string    `json:"trip_id"`
	OwnerID        string    `json:"owner_id"`
	StopID         string    `json:"stop_id"`
	TripActivityID string    `json:"trip_activity_id"`
	ActivityID     string    `json:"activity_id"`
	Date           time.Time `json:"date"`
	Time           *string   `json:"time,omitempty"`
}

func tripPayload(t *domain.Trip) TripPayload {
	return TripPayload{
		TripID:    t.ID,
		OwnerID:   t.OwnerID,
		Name:      t.Name,
		StartDate: t.StartDate,
		EndDate:   t.EndDate,
		IsPublic:  t.IsPublic,
		Stops:     len(t.Stops),
	}
}

// enqueue writes one envelope into the outbox inside the caller's transaction.
func enqueue[T any](ctx context.Context, r TxTripRepo, routingKey string, now time.Time, payload T) error {
	messageID := uuid.NewString()
	env := DomainEventEnvelope[T]{
		Version:    EventVersion,
		Producer:   EventProducer,
		MessageID:  messageID,
		TraceID:    appCtx.GetRequestID(ctx),
		OccurredAt: now,
		Payload:    payload,
	}
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return r.InsertOutbox(ctx, OutboxMessage{
		MessageID:  messageID,
		RoutingKey: routingKey,
		Body:       body,
		CreatedAt:  now,
	})
}
