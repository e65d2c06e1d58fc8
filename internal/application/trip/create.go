package trip

import (
	"context"
	"time"

	"github.com/baechuer/trip-service/internal/application/metrics"
	"github.com/baechuer/trip-service/internal/domain"
)

type CreateActivityCmd struct {
	ActivityID      string
	Date            time.Time
	Time            *string
	MinCostOverride *float64
	MaxCostOverride *float64
}

type CreateStopCmd struct {
	CityID     string
	StartDate  time.Time
	EndDate    time.Time
	Activities []CreateActivityCmd
}

type CreateTripCmd struct {
	ActorID string

	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	IsPublic    bool
	CoverImage  string

	Stops []CreateStopCmd
}

// CreateTrip writes the trip with its nested stops and activities in one
// transaction. Stops get order_index 0..n-1 in request order.
func (s *Service) CreateTrip(ctx context.Context, cmd CreateTripCmd) (_ *TripView, err error) {
	defer func() { recordMutation("create_trip", err) }()

	actorID, err := requireRequester(cmd.ActorID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now().UTC()

	t, err := domain.NewTrip(actorID, cmd.Name, cmd.Description, cmd.StartDate, cmd.EndDate, cmd.IsPublic, cmd.CoverImage, now)
	if err != nil {
		return nil, err
	}
	for i, sc := range cmd.Stops {
		stop, err := t.NewStop(sc.CityID, sc.StartDate, sc.EndDate, i)
		if err != nil {
			return nil, err
		}
		for _, ac := range sc.Activities {
			a, err := stop.NewActivity(ac.ActivityID, ac.Date, ac.Time, ac.MinCostOverride, ac.MaxCostOverride, now)
			if err != nil {
				return nil, err
			}
			for _, prev := range stop.Activities {
				if prev.SameSlot(a) {
					return nil, domain.ErrInvalidState("activity already scheduled in this slot")
				}
			}
			stop.Activities = append(stop.Activities, a)
		}
		t.Stops = append(t.Stops, stop)
	}

	err = s.repo.WithTx(ctx, func(r TxTripRepo) error {
		if err := r.InsertTrip(ctx, t); err != nil {
			return err
		}
		for _, stop := range t.Stops {
			if err := r.InsertStop(ctx, stop); err != nil {
				return err
			}
			for _, a := range stop.Activities {
				if err := r.InsertTripActivity(ctx, a); err != nil {
					return err
				}
			}
		}
		return enqueue(ctx, r, RoutingTripCreated, now, tripPayload(t))
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, t.ID, t.OwnerID, t.StartDate, t.EndDate)

	// Reload so stops and activities carry their city and catalog rows.
	full, err := s.repo.GetGraph(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	m, err := metrics.Compute(full, actorID)
	if err != nil {
		return nil, err
	}
	return &TripView{Trip: full, Metrics: m}, nil
}
