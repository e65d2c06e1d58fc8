package trip

import (
	"context"

	"github.com/baechuer/trip-service/internal/application/metrics"
	"github.com/baechuer/trip-service/internal/application/regional"
	"github.com/baechuer/trip-service/internal/domain"
	zlog "github.com/rs/zerolog/log"
)

// TripView is a loaded trip graph plus its derived numbers.
type TripView struct {
	Trip    *domain.Trip
	Metrics metrics.TripMetrics
}

type TripPage struct {
	Trips      []TripView
	Pagination Pagination
}

type RegionalPage struct {
	TripPage
	Region string
}

func (s *Service) ListMine(ctx context.Context, requesterID string, sort domain.TripSortField, order domain.SortOrder, p PageRequest) (*TripPage, error) {
	requesterID, err := requireRequester(requesterID)
	if err != nil {
		return nil, err
	}
	p = NewPageRequest(p.Page, p.Limit)
	if sort == "" {
		sort = domain.SortCreatedAt
	}
	if order == "" {
		order = domain.OrderDesc
	}
	trips, total, err := s.repo.ListByOwner(ctx, OwnerQuery{
		OwnerID: requesterID,
		Sort:    sort,
		Order:   order,
		Limit:   p.Limit,
		Offset:  p.Offset(),
	})
	if err != nil {
		return nil, err
	}
	return s.page(trips, total, p, requesterID, false)
}

// FindPreviousTrips returns the owner's trips, most recently ended first. No
// date filter is applied: ongoing and future trips are included.
func (s *Service) FindPreviousTrips(ctx context.Context, ownerID string, p PageRequest) (*TripPage, error) {
	ownerID, err := requireRequester(ownerID)
	if err != nil {
		return nil, err
	}
	p = NewPageRequest(p.Page, p.Limit)
	trips, total, err := s.repo.ListByOwner(ctx, OwnerQuery{
		OwnerID: ownerID,
		Sort:    domain.SortEndDate,
		Order:   domain.OrderDesc,
		Limit:   p.Limit,
		Offset:  p.Offset(),
	})
	if err != nil {
		return nil, err
	}
	return s.page(trips, total, p, ownerID, false)
}

// FindUpcomingTrips returns the owner's trips starting strictly after now,
// soonest first, each with a days-until countdown.
func (s *Service) FindUpcomingTrips(ctx context.Context, ownerID string, p PageRequest) (*TripPage, error) {
	ownerID, err := requireRequester(ownerID)
	if err != nil {
		return nil, err
	}
	p = NewPageRequest(p.Page, p.Limit)
	now := s.clock.Now().UTC()
	trips, total, err := s.repo.ListByOwner(ctx, OwnerQuery{
		OwnerID:    ownerID,
		StartAfter: &now,
		Sort:       domain.SortStartDate,
		Order:      domain.OrderAsc,
		Limit:      p.Limit,
		Offset:     p.Offset(),
	})
	if err != nil {
		return nil, err
	}
	return s.page(trips, total, p, ownerID, true)
}

// FindRegionalSelections recommends other travelers' public, not yet ended
// trips from the requester's country.
func (s *Service) FindRegionalSelections(ctx context.Context, requesterID string, p PageRequest) (*RegionalPage, error) {
	requesterID, err := requireRequester(requesterID)
	if err != nil {
		return nil, err
	}
	p = NewPageRequest(p.Page, p.Limit)
	u, err := s.users.GetUser(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	c, err := regional.NewCriteria(requesterID, u.Country, s.clock.Now().UTC(), p.Limit, p.Offset())
	if err != nil {
		return nil, err
	}

	trips, total, err := s.repo.ListRegional(ctx, c)
	if err != nil {
		return nil, err
	}

	// The store matches owner country; everything else is checked again here
	// so a store bug cannot leak a private, own or ended trip.
	kept := trips[:0]
	for _, t := range trips {
		if c.Eligible(t, c.Country) {
			kept = append(kept, t)
			continue
		}
		zlog.Error().Str("trip_id", t.ID).Str("requester_id", requesterID).Msg("store returned ineligible regional trip")
		total--
	}

	out, err := s.page(kept, total, p, requesterID, false)
	if err != nil {
		return nil, err
	}
	return &RegionalPage{TripPage: *out, Region: c.Country}, nil
}

// GetByIDWithDetails returns the trip when the requester owns it or it is
// public. Private trips of others are reported exactly like missing ones.
func (s *Service) GetByIDWithDetails(ctx context.Context, tripID, requesterID string) (*TripView, error) {
	requesterID, err := requireRequester(requesterID)
	if err != nil {
		return nil, err
	}

	t, err := s.loadGraph(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if !t.VisibleTo(requesterID) {
		return nil, domain.ErrTripNotFound()
	}

	m, err := metrics.Compute(t, requesterID)
	if err != nil {
		return nil, err
	}
	return &TripView{Trip: t, Metrics: m}, nil
}

// loadGraph reads through the detail cache. The cached value is the raw graph;
// visibility and metrics are applied per requester by the caller.
func (s *Service) loadGraph(ctx context.Context, tripID string) (*domain.Trip, error) {
	key := cacheKeyTripDetails(tripID)

	if s.cache != nil {
		var cached domain.Trip
		found, err := s.cache.Get(ctx, key, &cached)
		switch {
		case err != nil:
			detailCacheTotal.WithLabelValues("error").Inc()
			zlog.Warn().Err(err).Str("key", key).Msg("cache get failed")
		case found:
			detailCacheTotal.WithLabelValues("hit").Inc()
			zlog.Debug().Str("key", key).Msg("cache hit")
			return &cached, nil
		default:
			detailCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	t, err := s.repo.GetGraph(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, t, s.ttlDetails); err != nil {
			zlog.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}
	return t, nil
}

func (s *Service) page(trips []*domain.Trip, total int, p PageRequest, requesterID string, countdown bool) (*TripPage, error) {
	now := s.clock.Now().UTC()
	views := make([]TripView, 0, len(trips))
	for _, t := range trips {
		var (
			m   metrics.TripMetrics
			err error
		)
		if countdown {
			m, err = metrics.ComputeWithCountdown(t, requesterID, now)
		} else {
			m, err = metrics.Compute(t, requesterID)
		}
		if err != nil {
			return nil, err
		}
		views = append(views, TripView{Trip: t, Metrics: m})
	}
	return &TripPage{Trips: views, Pagination: NewPagination(p, total)}, nil
}
