// Package metrics derives summary numbers from a loaded trip graph. Every
// function here is pure.
package metrics

import (
	"math"
	"time"

	"github.com/baechuer/trip-service/internal/domain"
)

// Cost is a min/max price pair. Missing prices count as zero.
type Cost struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (c Cost) Add(o Cost) Cost { return Cost{Min: c.Min + o.Min, Max: c.Max + o.Max} }

type TripMetrics struct {
	DurationDays    int
	StopsCount      int
	TotalActivities int
	IsOwner         *bool
	DaysUntilTrip   *int
	Cost            Cost
	StopCosts       map[string]Cost
}

// DurationDays is ceil((end - start) / 1 day).
func DurationDays(start, end time.Time) (int, error) {
	if start.IsZero() || end.IsZero() {
		return 0, domain.ErrValidation("trip dates are missing")
	}
	if end.Before(start) {
		return 0, domain.ErrValidationMeta("trip ends before it starts", map[string]string{
			"start_date": start.Format(domain.DateLayout),
			"end_date":   end.Format(domain.DateLayout),
		})
	}
	return ceilDays(end.Sub(start)), nil
}

// TravelDays counts calendar days the trip covers, both ends inclusive.
func TravelDays(start, end time.Time) (int, error) {
	d, err := DurationDays(domain.DateOf(start), domain.DateOf(end))
	if err != nil {
		return 0, err
	}
	return d + 1, nil
}

// DaysUntil is ceil((start - now) / 1 day), never negative.
func DaysUntil(start, now time.Time) (int, error) {
	if start.IsZero() || now.IsZero() {
		return 0, domain.ErrValidation("start date and clock are required")
	}
	d := ceilDays(start.Sub(now))
	if d < 0 {
		return 0, nil
	}
	return d, nil
}

func ceilDays(d time.Duration) int {
	return int(math.Ceil(d.Hours() / 24))
}

func StopsCount(t *domain.Trip) int { return len(t.Stops) }

func TotalActivities(t *domain.Trip) int {
	n := 0
	for _, s := range t.Stops {
		n += len(s.Activities)
	}
	return n
}

// ActivityCost resolves one scheduled activity: override, then base, then 0.
func ActivityCost(a *domain.TripActivity) Cost {
	base := a.Activity
	return Cost{
		Min: pick(a.MinCostOverride, base, func(b *domain.Activity) *float64 { return b.MinCost }),
		Max: pick(a.MaxCostOverride, base, func(b *domain.Activity) *float64 { return b.MaxCost }),
	}
}

func pick(override *float64, base *domain.Activity, field func(*domain.Activity) *float64) float64 {
	if override != nil {
		return *override
	}
	if base != nil {
		if v := field(base); v != nil {
			return *v
		}
	}
	return 0
}

func StopCost(s *domain.TripStop) Cost {
	var c Cost
	for _, a := range s.Activities {
		c = c.Add(ActivityCost(a))
	}
	return c
}

func TripCost(t *domain.Trip) (Cost, map[string]Cost) {
	var total Cost
	perStop := make(map[string]Cost, len(t.Stops))
	for _, s := range t.Stops {
		c := StopCost(s)
		perStop[s.ID] = c
		total = total.Add(c)
	}
	return total, perStop
}

// Compute annotates t. IsOwner is only set when requesterID is non-empty.
func Compute(t *domain.Trip, requesterID string) (TripMetrics, error) {
	if t == nil {
		return TripMetrics{}, domain.ErrValidation("trip is nil")
	}
	dur, err := DurationDays(t.StartDate, t.EndDate)
	if err != nil {
		return TripMetrics{}, err
	}
	total, perStop := TripCost(t)

	m := TripMetrics{
		DurationDays:    dur,
		StopsCount:      StopsCount(t),
		TotalActivities: TotalActivities(t),
		Cost:            total,
		StopCosts:       perStop,
	}
	if requesterID != "" {
		owner := t.OwnerID == requesterID
		m.IsOwner = &owner
	}
	return m, nil
}

// ComputeWithCountdown is Compute plus DaysUntilTrip, for the upcoming view.
func ComputeWithCountdown(t *domain.Trip, requesterID string, now time.Time) (TripMetrics, error) {
	m, err := Compute(t, requesterID)
	if err != nil {
		return TripMetrics{}, err
	}
	d, err := DaysUntil(t.StartDate, now)
	if err != nil {
		return TripMetrics{}, err
	}
	m.DaysUntilTrip = &d
	return m, nil
}
