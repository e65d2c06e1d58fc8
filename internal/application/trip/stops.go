package trip

import (
	"context"
	"time"

	"github.com/baechuer/trip-service/internal/domain"
	zlog "github.com/rs/zerolog/log"
)

type AddStopCmd struct {
	TripID    string
	ActorID   string
	CityID    string
	StartDate time.Time
	EndDate   time.Time
}

// AddStop appends a stop after the trip's current last stop. The trip row is
// locked for the whole transaction so concurrent appends get distinct,
// increasing order_index values.
func (s *Service) AddStop(ctx context.Context, cmd AddStopCmd) (_ *domain.TripStop, err error) {
	defer func() { recordMutation("add_stop", err) }()

	actorID, err := requireRequester(cmd.ActorID)
	if err != nil {
		return nil, err
	}

	var (
		out   *domain.TripStop
		owner *domain.Trip
	)
	err = s.repo.WithTx(ctx, func(r TxTripRepo) error {
		t, err := r.GetTripForUpdate(ctx, cmd.TripID)
		if err != nil {
			return err
		}
		if err := canMutate(t, actorID); err != nil {
			return err
		}

		last, err := r.MaxStopOrder(ctx, t.ID)
		if err != nil {
			return err
		}
		stop, err := t.NewStop(cmd.CityID, cmd.StartDate, cmd.EndDate, last+1)
		if err != nil {
			return err
		}
		if err := r.InsertStop(ctx, stop); err != nil {
			return err
		}

		now := s.clock.Now().UTC()
		if err := enqueue(ctx, r, RoutingStopAdded, now, StopPayload{
			TripID:     t.ID,
			OwnerID:    t.OwnerID,
			StopID:     stop.ID,
			CityID:     stop.CityID,
			StartDate:  stop.StartDate,
			EndDate:    stop.EndDate,
			OrderIndex: stop.OrderIndex,
		}); err != nil {
			return err
		}

		out, owner = stop, t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, owner.ID, owner.OwnerID, owner.StartDate, owner.EndDate)
	return s.reloadStop(ctx, out), nil
}

// reloadStop returns the committed stop with its city attached. The inserted
// value is kept when the reload fails or the stop is already gone.
func (s *Service) reloadStop(ctx context.Context, stop *domain.TripStop) *domain.TripStop {
	full, err := s.repo.GetGraph(ctx, stop.TripID)
	if err != nil {
		zlog.Warn().Err(err).Str("trip_id", stop.TripID).Msg("reload stop failed")
		return stop
	}
	for _, st := range full.Stops {
		if st.ID == stop.ID {
			return st
		}
	}
	return stop
}

// invalidate drops cached views after commit. Failures only cost freshness
// until the TTL expires.
func (s *Service) invalidate(ctx context.Context, tripID, ownerID string, start, end time.Time) {
	if s.cache == nil {
		return
	}
	keys := invalidationKeys(tripID, ownerID, start, end)
	if err := s.cache.Delete(ctx, keys...); err != nil {
		zlog.Warn().Err(err).Strs("keys", keys).Msg("cache invalidate failed")
	}
}
