// Package calendar groups trips by day, month, arbitrary range and year using
// the closed-interval overlap rule on trip bounds.
package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/baechuer/trip-service/internal/application/metrics"
	"github.com/baechuer/trip-service/internal/domain"
	zlog "github.com/rs/zerolog/log"
)

const MaxMonthSummaries = 5

type Service struct {
	trips TripSource
	cache Cache
	ttl   time.Duration
}

func New(trips TripSource, cache Cache, ttl time.Duration) *Service {
	if ttl == 0 {
		ttl = 30 * time.Second
	}
	return &Service{trips: trips, cache: cache, ttl: ttl}
}

func YearCacheKey(requesterID string, year int) string {
	return fmt.Sprintf("calendar:year:%s:%d", requesterID, year)
}

type Entry struct {
	Trip    *domain.Trip
	Metrics metrics.TripMetrics
}

type DayEntry struct {
	Entry
	// Stops are the trip's stops whose own bounds cover the day.
	Stops []*domain.TripStop
}

type DayView struct {
	Date  time.Time
	Trips []DayEntry
	Total int
}

type MonthView struct {
	Year  int
	Month time.Month
	Trips []Entry
	Total int
	// Days maps every day 1..daysInMonth to the ids of trips touching it.
	Days map[int][]string
}

type RangeView struct {
	Start time.Time
	End   time.Time
	Trips []Entry
	Total int
}

func requester(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", domain.ErrUnauthenticated("missing requester")
	}
	return id, nil
}

func validYear(year int) error {
	if year < 1 || year > 9999 {
		return domain.ErrValidationMeta("invalid year", map[string]string{"year": "must be between 1 and 9999"})
	}
	return nil
}

// MonthBounds returns the first and last day of the month.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

func annotate(trips []*domain.Trip, requesterID string) ([]Entry, error) {
	out := make([]Entry, 0, len(trips))
	for _, t := range trips {
		m, err := metrics.Compute(t, requesterID)
		if err != nil {
			return nil, fmt.Errorf("trip %s: %w", t.ID, err)
		}
		out = append(out, Entry{Trip: t, Metrics: m})
	}
	return out, nil
}

func (s *Service) Day(ctx context.Context, day time.Time, requesterID string) (*DayView, error) {
	requesterID, err := requester(requesterID)
	if err != nil {
		return nil, err
	}
	if day.IsZero() {
		return nil, domain.ErrValidation("date is required")
	}
	day = domain.DateOf(day)

	trips, err := s.trips.ListVisibleInRange(ctx, requesterID, day, day)
	if err != nil {
		return nil, err
	}
	entries, err := annotate(onlyTouching(trips, day, day), requesterID)
	if err != nil {
		return nil, err
	}

	out := &DayView{Date: day, Trips: make([]DayEntry, 0, len(entries))}
	for _, e := range entries {
		out.Trips = append(out.Trips, DayEntry{Entry: e, Stops: e.Trip.StopsOn(day)})
	}
	out.Total = len(out.Trips)
	return out, nil
}

func (s *Service) Month(ctx context.Context, year int, month time.Month, requesterID string) (*MonthView, error) {
	requesterID, err := requester(requesterID)
	if err != nil {
		return nil, err
	}
	if err := validYear(year); err != nil {
		return nil, err
	}
	if month < time.January || month > time.December {
		return nil, domain.ErrValidationMeta("invalid month", map[string]string{"month": "must be between 1 and 12"})
	}

	first, last := MonthBounds(year, month)
	trips, err := s.trips.ListVisibleInRange(ctx, requesterID, first, last)
	if err != nil {
		return nil, err
	}
	trips = onlyTouching(trips, first, last)

	entries, err := annotate(trips, requesterID)
	if err != nil {
		return nil, err
	}
	return &MonthView{
		Year:  year,
		Month: month,
		Trips: entries,
		Total: len(entries),
		Days:  DayIndex(trips, first, last),
	}, nil
}

func (s *Service) DateRange(ctx context.Context, start, end time.Time, requesterID string) (*RangeView, error) {
	requesterID, err := requester(requesterID)
	if err != nil {
		return nil, err
	}
	if start.IsZero() || end.IsZero() {
		return nil, domain.ErrValidation("start and end are required")
	}
	start, end = domain.DateOf(start), domain.DateOf(end)
	if end.Before(start) {
		return nil, domain.ErrValidationMeta("invalid date range", map[string]string{
			"end": "must be on or after start",
		})
	}

	trips, err := s.trips.ListVisibleInRange(ctx, requesterID, start, end)
	if err != nil {
		return nil, err
	}
	entries, err := annotate(onlyTouching(trips, start, end), requesterID)
	if err != nil {
		return nil, err
	}
	return &RangeView{Start: start, End: end, Trips: entries, Total: len(entries)}, nil
}

// DayIndex maps each day of [first, last] (by day of month) to the ids of the
// trips touching it, in input order. Every day has an entry, possibly empty.
func DayIndex(trips []*domain.Trip, first, last time.Time) map[int][]string {
	idx := make(map[int][]string, last.Day())
	for d := first; !d.After(last); d = d.Add(domain.Day) {
		idx[d.Day()] = []string{}
	}
	for _, t := range trips {
		from, to := t.StartDate, t.EndDate
		if from.Before(first) {
			from = first
		}
		if to.After(last) {
			to = last
		}
		for d := from; !d.After(to); d = d.Add(domain.Day) {
			idx[d.Day()] = append(idx[d.Day()], t.ID)
		}
	}
	return idx
}

// onlyTouching keeps trips intersecting [from, to]. Stores are expected to
// filter already; this guards the aggregations against a loose query.
func onlyTouching(trips []*domain.Trip, from, to time.Time) []*domain.Trip {
	out := make([]*domain.Trip, 0, len(trips))
	for _, t := range trips {
		if t.Overlaps(from, to) {
			out = append(out, t)
		}
	}
	return out
}

func logCache(err error, key, op string) {
	zlog.Warn().Err(err).Str("key", key).Msg("cache " + op + " failed")
}
