package trip

import (
	"context"

	"github.com/baechuer/trip-service/internal/domain"
)

// DeleteStop removes a stop and, by cascade, its activities. Remaining stops
// keep their order_index; gaps are allowed.
func (s *Service) DeleteStop(ctx context.Context, tripID, stopID, actorID string) (err error) {
	defer func() { recordMutation("delete_stop", err) }()

	actorID, err = requireRequester(actorID)
	if err != nil {
		return err
	}

	var owner *domain.Trip
	err = s.repo.WithTx(ctx, func(r TxTripRepo) error {
		t, err := r.GetTripForUpdate(ctx, tripID)
		if err != nil {
			return err
		}
		if err := canMutate(t, actorID); err != nil {
			return err
		}
		stop, err := r.GetStop(ctx, t.ID, stopID)
		if err != nil {
			return err
		}
		if err := r.DeleteStop(ctx, stop.ID); err != nil {
			return err
		}
		owner = t
		return enqueue(ctx, r, RoutingStopRemoved, s.clock.Now().UTC(), StopPayload{
			TripID:     t.ID,
			OwnerID:    t.OwnerID,
			StopID:     stop.ID,
			OrderIndex: stop.OrderIndex,
		})
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, owner.ID, owner.OwnerID, owner.StartDate, owner.EndDate)
	return nil
}

// DeleteTrip removes the trip with all of its stops and activities.
func (s *Service) DeleteTrip(ctx context.Context, tripID, actorID string) (err error) {
	defer func() { recordMutation("delete_trip", err) }()

	actorID, err = requireRequester(actorID)
	if err != nil {
		return err
	}

	var owner *domain.Trip
	err = s.repo.WithTx(ctx, func(r TxTripRepo) error {
		t, err := r.GetTripForUpdate(ctx, tripID)
		if err != nil {
			return err
		}
		if err := canMutate(t, actorID); err != nil {
			return err
		}
		if err := r.DeleteTrip(ctx, t.ID); err != nil {
			return err
		}
		owner = t
		return enqueue(ctx, r, RoutingTripDeleted, s.clock.Now().UTC(), tripPayload(t))
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, owner.ID, owner.OwnerID, owner.StartDate, owner.EndDate)
	return nil
}
