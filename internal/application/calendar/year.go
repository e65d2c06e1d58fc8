package calendar

import (
	"context"
	"time"

	"github.com/baechuer/trip-service/internal/application/metrics"
	"github.com/baechuer/trip-service/internal/domain"
)

type TripSummary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	OwnerID      string    `json:"owner_id"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	IsPublic     bool      `json:"is_public"`
	DurationDays int       `json:"duration_days"`
	StopsCount   int       `json:"trip_stops_count"`
}

type MonthlyOverview struct {
	Month     int           `json:"month"`
	MonthName string        `json:"month_name"`
	TripCount int           `json:"trip_count"`
	Trips     []TripSummary `json:"trips"`
}

type YearlySummary struct {
	TotalTrips      int             `json:"total_trips"`
	TotalTravelDays int             `json:"total_travel_days"`
	BusiestMonth    MonthlyOverview `json:"busiest_month"`
}

type YearOverview struct {
	Year            int               `json:"year"`
	MonthlyOverview []MonthlyOverview `json:"monthly_overview"`
	YearlySummary   YearlySummary     `json:"yearly_summary"`
}

// YearOverview buckets the requester's visible trips into the 12 months of
// year. A trip spanning several months is listed in each of them but counted
// once in the yearly totals, with its full inclusive day span.
func (s *Service) YearOverview(ctx context.Context, year int, requesterID string) (*YearOverview, error) {
	requesterID, err := requester(requesterID)
	if err != nil {
		return nil, err
	}
	if err := validYear(year); err != nil {
		return nil, err
	}

	key := YearCacheKey(requesterID, year)
	if s.cache != nil {
		var cached YearOverview
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			logCache(err, key, "get")
		} else if found {
			return &cached, nil
		}
	}

	first := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	trips, err := s.trips.ListVisibleInRange(ctx, requesterID, first, last)
	if err != nil {
		return nil, err
	}

	out, err := BuildYearOverview(year, onlyTouching(trips, first, last))
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, out, s.ttl); err != nil {
			logCache(err, key, "set")
		}
	}
	return out, nil
}

// BuildYearOverview is the pure aggregation behind YearOverview. trips must be
// ordered by (start_date, id).
func BuildYearOverview(year int, trips []*domain.Trip) (*YearOverview, error) {
	out := &YearOverview{Year: year, MonthlyOverview: make([]MonthlyOverview, 0, 12)}

	counted := make(map[string]bool, len(trips))
	for m := time.January; m <= time.December; m++ {
		first, last := MonthBounds(year, m)
		mo := MonthlyOverview{Month: int(m), MonthName: m.String(), Trips: []TripSummary{}}

		for _, t := range trips {
			if !t.Overlaps(first, last) {
				continue
			}
			mo.TripCount++
			if len(mo.Trips) < MaxMonthSummaries {
				sum, err := summarize(t)
				if err != nil {
					return nil, err
				}
				mo.Trips = append(mo.Trips, sum)
			}
			if !counted[t.ID] {
				counted[t.ID] = true
				days, err := metrics.TravelDays(t.StartDate, t.EndDate)
				if err != nil {
					return nil, err
				}
				out.YearlySummary.TotalTravelDays += days
			}
		}
		out.MonthlyOverview = append(out.MonthlyOverview, mo)
	}

	out.YearlySummary.TotalTrips = len(counted)
	out.YearlySummary.BusiestMonth = busiest(out.MonthlyOverview)
	return out, nil
}

// busiest picks the highest trip_count; ties go to the earliest month.
func busiest(months []MonthlyOverview) MonthlyOverview {
	best := months[0]
	for _, m := range months[1:] {
		if m.TripCount > best.TripCount {
			best = m
		}
	}
	return best
}

func summarize(t *domain.Trip) (TripSummary, error) {
	dur, err := metrics.DurationDays(t.StartDate, t.EndDate)
	if err != nil {
		return TripSummary{}, err
	}
	return TripSummary{
		ID:           t.ID,
		Name:         t.Name,
		OwnerID:      t.OwnerID,
		StartDate:    t.StartDate,
		EndDate:      t.EndDate,
		IsPublic:     t.IsPublic,
		DurationDays: dur,
		StopsCount:   len(t.Stops),
	}, nil
}
