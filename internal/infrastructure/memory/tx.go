package memory

import (
	"context"

	"github.com/baechuer/trip-service/internal/application/trip"
	"github.com/baechuer/trip-service/internal/domain"
)

// txRepo works on the locked state owned by WithTx.
type txRepo struct {
	st *state
}

// GetTripForUpdate needs no row lock: WithTx already holds the store lock.
func (r *txRepo) GetTripForUpdate(ctx context.Context, id string) (*domain.Trip, error) {
	t, ok := r.st.trips[id]
	if !ok {
		return nil, domain.ErrTripNotFound()
	}
	return &t, nil
}

func (r *txRepo) MaxStopOrder(ctx context.Context, tripID string) (int, error) {
	last := -1
	for _, s := range r.st.stops {
		if s.TripID == tripID && s.OrderIndex > last {
			last = s.OrderIndex
		}
	}
	return last, nil
}

func (r *txRepo) GetStop(ctx context.Context, tripID, stopID string) (*domain.TripStop, error) {
	s, ok := r.st.stops[stopID]
	if !ok || s.TripID != tripID {
		return nil, domain.ErrNotFound("stop not found")
	}
	return &s, nil
}

func (r *txRepo) InsertTrip(ctx context.Context, t *domain.Trip) error {
	if _, ok := r.st.users[t.OwnerID]; !ok {
		return domain.ErrValidationMeta("unknown owner", map[string]string{"owner_id": t.OwnerID})
	}
	row := *t
	row.Stops = nil
	r.st.trips[t.ID] = row
	return nil
}

func (r *txRepo) InsertStop(ctx context.Context, s *domain.TripStop) error {
	if _, ok := r.st.trips[s.TripID]; !ok {
		return domain.ErrTripNotFound()
	}
	if _, ok := r.st.cities[s.CityID]; !ok {
		return domain.ErrValidationMeta("unknown city", map[string]string{"city_id": s.CityID})
	}
	for _, other := range r.st.stops {
		if other.TripID == s.TripID && other.OrderIndex == s.OrderIndex {
			return domain.ErrInvalidState("stop order already taken")
		}
	}
	row := *s
	row.City, row.Activities = nil, nil
	r.st.stops[s.ID] = row
	return nil
}

func (r *txRepo) InsertTripActivity(ctx context.Context, a *domain.TripActivity) error {
	if _, ok := r.st.stops[a.TripStopID]; !ok {
		return domain.ErrNotFound("stop not found")
	}
	if _, ok := r.st.activities[a.ActivityID]; !ok {
		return domain.ErrValidationMeta("unknown activity", map[string]string{"activity_id": a.ActivityID})
	}
	for _, other := range r.st.tripActs {
		if other.SameSlot(a) {
			return domain.ErrInvalidState("activity already scheduled in this slot")
		}
	}
	row := *a
	row.Activity = nil
	r.st.tripActs[a.ID] = row
	return nil
}

func (r *txRepo) DeleteStop(ctx context.Context, stopID string) error {
	if _, ok := r.st.stops[stopID]; !ok {
		return domain.ErrNotFound("stop not found")
	}
	for id, a := range r.st.tripActs {
		if a.TripStopID == stopID {
			delete(r.st.tripActs, id)
		}
	}
	delete(r.st.stops, stopID)
	return nil
}

func (r *txRepo) DeleteTrip(ctx context.Context, tripID string) error {
	if _, ok := r.st.trips[tripID]; !ok {
		return domain.ErrTripNotFound()
	}
	for id, s := range r.st.stops {
		if s.TripID == tripID {
			if err := r.DeleteStop(ctx, id); err != nil {
				return err
			}
		}
	}
	delete(r.st.trips, tripID)
	return nil
}

func (r *txRepo) InsertOutbox(ctx context.Context, msg trip.OutboxMessage) error {
	r.st.outbox = append(r.st.outbox, msg)
	return nil
}
