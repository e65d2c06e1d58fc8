package trip

import (
	"context"
	"time"

	"github.com/baechuer/trip-service/internal/domain"
)

type AddActivityCmd struct {
	TripID  string
	StopID  string
	ActorID string

	ActivityID      string
	Date            time.Time
	Time            *string
	MinCostOverride *float64
	MaxCostOverride *float64
}

func (s *Service) AddActivity(ctx context.Context, cmd AddActivityCmd) (_ *domain.TripActivity, err error) {
	defer func() { recordMutation("add_activity", err) }()

	actorID, err := requireRequester(cmd.ActorID)
	if err != nil {
		return nil, err
	}

	var (
		out   *domain.TripActivity
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
		stop, err := r.GetStop(ctx, t.ID, cmd.StopID)
		if err != nil {
			return err
		}

		now := s.clock.Now().UTC()
		a, err := stop.NewActivity(cmd.ActivityID, cmd.Date, cmd.Time, cmd.MinCostOverride, cmd.MaxCostOverride, now)
		if err != nil {
			return err
		}
		if err := r.InsertTripActivity(ctx, a); err != nil {
			return err
		}
		if err := enqueue(ctx, r, RoutingActivityScheduled, now, ActivityPayload{
			TripID:         t.ID,
			OwnerID:        t.OwnerID,
			StopID:         stop.ID,
			TripActivityID: a.ID,
			ActivityID:     a.ActivityID,
			Date:           a.Date,
			Time:           a.Time,
		}); err != nil {
			return err
		}

		out, owner = a, t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, owner.ID, owner.OwnerID, owner.StartDate, owner.EndDate)

	stop := s.reloadStop(ctx, &domain.TripStop{ID: out.TripStopID, TripID: owner.ID})
	for _, a := range stop.Activities {
		if a.ID == out.ID {
			return a, nil
		}
	}
	return out, nil
}
