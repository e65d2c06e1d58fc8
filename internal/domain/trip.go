package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Trip struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	IsPublic    bool
	CoverImage  string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Stops is populated by graph loads, ordered by OrderIndex.
	Stops []*TripStop
}

type TripStop struct {
	ID         string
	TripID     string
	CityID     string
	City       *City
	StartDate  time.Time
	EndDate    time.Time
	OrderIndex int

	// Activities is ordered by (Date, Time) with untimed entries last.
	Activities []*TripActivity
}

type TripActivity struct {
	ID              string
	TripStopID      string
	ActivityID      string
	Activity        *Activity
	Date            time.Time
	Time            *string // HH:MM
	MinCostOverride *float64
	MaxCostOverride *float64
	CreatedAt       time.Time
}

func NewTrip(ownerID, name, description string, start, end time.Time, isPublic bool, coverImage string, now time.Time) (*Trip, error) {
	ownerID = strings.TrimSpace(ownerID)
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)

	if ownerID == "" {
		return nil, ErrValidation("owner_id is required")
	}
	if name == "" || len(name) > 120 {
		return nil, ErrValidation("name is required and must be <= 120 chars")
	}
	if len(description) > 4000 {
		return nil, ErrValidation("description must be <= 4000 chars")
	}
	if start.IsZero() || end.IsZero() {
		return nil, ErrValidation("start_date and end_date are required")
	}
	start, end = DateOf(start), DateOf(end)
	if end.Before(start) {
		return nil, ErrValidation("end_date must be on or after start_date")
	}

	return &Trip{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		StartDate:   start,
		EndDate:     end,
		IsPublic:    isPublic,
		CoverImage:  strings.TrimSpace(coverImage),
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}, nil
}

// NewStop builds a stop for t at the given position. The stop range must lie
// within the trip range.
func (t *Trip) NewStop(cityID string, start, end time.Time, orderIndex int) (*TripStop, error) {
	cityID = strings.TrimSpace(cityID)
	if cityID == "" {
		return nil, ErrValidation("city_id is required")
	}
	if start.IsZero() || end.IsZero() {
		return nil, ErrValidation("stop start_date and end_date are required")
	}
	start, end = DateOf(start), DateOf(end)
	if end.Before(start) {
		return nil, ErrValidation("stop end_date must be on or after start_date")
	}
	if start.Before(t.StartDate) || end.After(t.EndDate) {
		return nil, ErrValidationMeta("stop outside trip dates", map[string]string{
			"start_date": t.StartDate.Format(DateLayout),
			"end_date":   t.EndDate.Format(DateLayout),
		})
	}
	if orderIndex < 0 {
		return nil, ErrValidation("order_index must be >= 0")
	}
	return &TripStop{
		ID:         uuid.NewString(),
		TripID:     t.ID,
		CityID:     cityID,
		StartDate:  start,
		EndDate:    end,
		OrderIndex: orderIndex,
	}, nil
}

// NewActivity schedules activityID on the stop. Overrides, when present, must
// be non-negative and min <= max.
func (s *TripStop) NewActivity(activityID string, date time.Time, timeOfDay *string, minOverride, maxOverride *float64, now time.Time) (*TripActivity, error) {
	activityID = strings.TrimSpace(activityID)
	if activityID == "" {
		return nil, ErrValidation("activity_id is required")
	}
	if date.IsZero() {
		return nil, ErrValidation("date is required")
	}
	date = DateOf(date)
	if !Within(date, s.StartDate, s.EndDate) {
		return nil, ErrValidationMeta("activity date outside stop dates", map[string]string{
			"start_date": s.StartDate.Format(DateLayout),
			"end_date":   s.EndDate.Format(DateLayout),
		})
	}

	var tod *string
	if timeOfDay != nil && strings.TrimSpace(*timeOfDay) != "" {
		v, err := NormalizeTimeOfDay(*timeOfDay)
		if err != nil {
			return nil, err
		}
		tod = &v
	}

	if minOverride != nil && *minOverride < 0 {
		return nil, ErrValidation("min_cost_override must be >= 0")
	}
	if maxOverride != nil && *maxOverride < 0 {
		return nil, ErrValidation("max_cost_override must be >= 0")
	}
	if minOverride != nil && maxOverride != nil && *minOverride > *maxOverride {
		return nil, ErrValidation("min_cost_override must be <= max_cost_override")
	}

	return &TripActivity{
		ID:              uuid.NewString(),
		TripStopID:      s.ID,
		ActivityID:      activityID,
		Date:            date,
		Time:            tod,
		MinCostOverride: minOverride,
		MaxCostOverride: maxOverride,
		CreatedAt:       now.UTC(),
	}, nil
}

// VisibleTo is the read rule used by every trip read path.
func (t *Trip) VisibleTo(requesterID string) bool {
	return t.IsPublic || (requesterID != "" && t.OwnerID == requesterID)
}

func (t *Trip) OwnedBy(requesterID string) bool {
	return requesterID != "" && t.OwnerID == requesterID
}

// Touches reports whether the trip's date range includes day.
func (t *Trip) Touches(day time.Time) bool {
	return Within(DateOf(day), t.StartDate, t.EndDate)
}

// Overlaps reports whether the trip's date range intersects [from, to].
func (t *Trip) Overlaps(from, to time.Time) bool {
	return RangesOverlap(t.StartDate, t.EndDate, DateOf(from), DateOf(to))
}

func (s *TripStop) Touches(day time.Time) bool {
	return Within(DateOf(day), s.StartDate, s.EndDate)
}

// StopsOn returns the stops whose own bounds cover day, in itinerary order.
func (t *Trip) StopsOn(day time.Time) []*TripStop {
	var out []*TripStop
	for _, s := range t.Stops {
		if s.Touches(day) {
			out = append(out, s)
		}
	}
	return out
}

func (t *Trip) StopByID(id string) *TripStop {
	for _, s := range t.Stops {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// NextOrderIndex returns one past the highest order_index of the loaded stops.
func (t *Trip) NextOrderIndex() int {
	next := 0
	for _, s := range t.Stops {
		if s.OrderIndex >= next {
			next = s.OrderIndex + 1
		}
	}
	return next
}

// SortGraph puts stops and their activities in itinerary order.
func (t *Trip) SortGraph() {
	sort.SliceStable(t.Stops, func(i, j int) bool {
		return t.Stops[i].OrderIndex < t.Stops[j].OrderIndex
	})
	for _, s := range t.Stops {
		SortActivities(s.Activities)
	}
}

func SortActivities(items []*TripActivity) {
	sort.SliceStable(items, func(i, j int) bool {
		return ActivityLess(items[i], items[j])
	})
}

// ActivityLess orders by date, then time (untimed last), then id.
func ActivityLess(a, b *TripActivity) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	switch {
	case a.Time != nil && b.Time == nil:
		return true
	case a.Time == nil && b.Time != nil:
		return false
	case a.Time != nil && b.Time != nil && *a.Time != *b.Time:
		return *a.Time < *b.Time
	}
	return a.ID < b.ID
}

// SameSlot reports whether two trip activities occupy the same
// (stop, activity, date, time) slot.
func (a *TripActivity) SameSlot(b *TripActivity) bool {
	if a.TripStopID != b.TripStopID || a.ActivityID != b.ActivityID || !a.Date.Equal(b.Date) {
		return false
	}
	if a.Time == nil || b.Time == nil {
		return a.Time == nil && b.Time == nil
	}
	return *a.Time == *b.Time
}
