package dto

import (
	"time"

	"github.com/baechuer/trip-service/internal/application/trip"
)

type CityResp struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Country     string  `json:"country"`
	CostIndex   float64 `json:"cost_index"`
	Popularity  int     `json:"popularity"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
}

type ActivityResp struct {
	ID              string   `json:"id"`
	CityID          string   `json:"city_id"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	MinCost         *float64 `json:"min_cost"`
	MaxCost         *float64 `json:"max_cost"`
	DurationMinutes *int     `json:"duration_minutes,omitempty"`
}

type TripActivityResp struct {
	ID              string        `json:"id"`
	TripStopID      string        `json:"trip_stop_id"`
	ActivityID      string        `json:"activity_id"`
	Activity        *ActivityResp `json:"activity,omitempty"`
	Date            string        `json:"date"`
	Time            *string       `json:"time"`
	MinCostOverride *float64      `json:"min_cost_override"`
	MaxCostOverride *float64      `json:"max_cost_override"`
}

type StopResp struct {
	ID             string             `json:"id"`
	TripID         string             `json:"trip_id"`
	CityID         string             `json:"city_id"`
	City           *CityResp          `json:"city,omitempty"`
	StartDate      string             `json:"start_date"`
	EndDate        string             `json:"end_date"`
	OrderIndex     int                `json:"order_index"`
	MinCost        float64            `json:"min_cost"`
	MaxCost        float64            `json:"max_cost"`
	TripActivities []TripActivityResp `json:"tripActivities"`
}

// TripResp is a trip with its derived metrics. DaysUntilTrip is only set on
// the upcoming listing.
type TripResp struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	IsPublic    bool      `json:"is_public"`
	CoverImage  string    `json:"cover_image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	TripStopsCount  int     `json:"trip_stops_count"`
	DurationDays    int     `json:"duration_days"`
	TotalActivities int     `json:"total_activities"`
	IsOwner         *bool   `json:"is_owner,omitempty"`
	DaysUntilTrip   *int    `json:"days_until_trip,omitempty"`
	TotalMinCost    float64 `json:"total_min_cost"`
	TotalMaxCost    float64 `json:"total_max_cost"`

	TripStops []StopResp `json:"tripStops"`
}

type TripListResp struct {
	Trips      []TripResp      `json:"trips"`
	Pagination trip.Pagination `json:"pagination"`
}

type RegionalResp struct {
	Trips      []TripResp      `json:"trips"`
	Region     string          `json:"region"`
	Pagination trip.Pagination `json:"pagination"`
}

type DayTripResp struct {
	TripResp
	StopsOnDay []StopResp `json:"stops_on_day"`
}

type DayResp struct {
	Date  string        `json:"date"`
	Trips []DayTripResp `json:"trips"`
	Total int           `json:"total"`
}

type MonthResp struct {
	Trips []TripResp `json:"trips"`
	Month int        `json:"month"`
	Year  int        `json:"year"`
	Total int        `json:"total"`
	// Days maps day-of-month to the ids of trips touching that day.
	Days map[int][]string `json:"days"`
}

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type RangeResp struct {
	Trips     []TripResp `json:"trips"`
	DateRange DateRange  `json:"date_range"`
	Total     int        `json:"total"`
}

type TripSummaryResp struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	OwnerID      string `json:"owner_id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	IsPublic     bool   `json:"is_public"`
	DurationDays int    `json:"duration_days"`
	StopsCount   int    `json:"trip_stops_count"`
}

type MonthlyOverviewResp struct {
	Month     int               `json:"month"`
	MonthName string            `json:"month_name"`
	TripCount int               `json:"trip_count"`
	Trips     []TripSummaryResp `json:"trips"`
}

type YearlySummaryResp struct {
	TotalTrips      int                 `json:"total_trips"`
	TotalTravelDays int                 `json:"total_travel_days"`
	BusiestMonth    MonthlyOverviewResp `json:"busiest_month"`
}

type YearOverviewResp struct {
	Year            int                   `json:"year"`
	MonthlyOverview []MonthlyOverviewResp `json:"monthly_overview"`
	YearlySummary   YearlySummaryResp     `json:"yearly_summary"`
}
