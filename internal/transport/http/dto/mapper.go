package dto

import (
	"strconv"
	"time"

	"github.com/baechuer/trip-service/internal/application/calendar"
	"github.com/baechuer/trip-service/internal/application/metrics"
	"github.com/baechuer/trip-service/internal/application/trip"
	"github.com/baechuer/trip-service/internal/domain"
)

func date(t time.Time) string { return t.Format(domain.DateLayout) }

// ParseDateField parses a YYYY-MM-DD request value, reporting failures under
// field in the error meta.
func ParseDateField(field, raw string) (time.Time, error) {
	d, err := domain.ParseDate(raw)
	if err != nil {
		return time.Time{}, domain.ErrValidationMeta("invalid date", map[string]string{
			field: "must be YYYY-MM-DD",
		})
	}
	return d, nil
}

func ToCreateActivityCmd(field string, r CreateActivityReq) (trip.CreateActivityCmd, error) {
	d, err := ParseDateField(field+"date", r.Date)
	if err != nil {
		return trip.CreateActivityCmd{}, err
	}
	return trip.CreateActivityCmd{
		ActivityID:      r.ActivityID,
		Date:            d,
		Time:            r.Time,
		MinCostOverride: r.MinCostOverride,
		MaxCostOverride: r.MaxCostOverride,
	}, nil
}

func ToCreateTripCmd(actorID string, r CreateTripReq) (trip.CreateTripCmd, error) {
	start, err := ParseDateField("start_date", r.StartDate)
	if err != nil {
		return trip.CreateTripCmd{}, err
	}
	end, err := ParseDateField("end_date", r.EndDate)
	if err != nil {
		return trip.CreateTripCmd{}, err
	}
	cmd := trip.CreateTripCmd{
		ActorID:     actorID,
		Name:        r.Name,
		Description: r.Description,
		StartDate:   start,
		EndDate:     end,
		IsPublic:    r.IsPublic,
		CoverImage:  r.CoverImage,
		Stops:       make([]trip.CreateStopCmd, 0, len(r.Stops)),
	}
	for i, s := range r.Stops {
		prefix := "stops[" + strconv.Itoa(i) + "]."
		ss, err := ParseDateField(prefix+"start_date", s.StartDate)
		if err != nil {
			return trip.CreateTripCmd{}, err
		}
		se, err := ParseDateField(prefix+"end_date", s.EndDate)
		if err != nil {
			return trip.CreateTripCmd{}, err
		}
		sc := trip.CreateStopCmd{CityID: s.CityID, StartDate: ss, EndDate: se}
		for j, a := range s.Activities {
			ac, err := ToCreateActivityCmd(prefix+"activities["+strconv.Itoa(j)+"].", a)
			if err != nil {
				return trip.CreateTripCmd{}, err
			}
			sc.Activities = append(sc.Activities, ac)
		}
		cmd.Stops = append(cmd.Stops, sc)
	}
	return cmd, nil
}

func ToCityResp(c *domain.City) *CityResp {
	if c == nil {
		return nil
	}
	return &CityResp{
		ID:          c.ID,
		Name:        c.Name,
		Country:     c.Country,
		CostIndex:   c.CostIndex,
		Popularity:  c.Popularity,
		Description: c.Description,
		ImageURL:    c.ImageURL,
	}
}

func ToActivityResp(a *domain.Activity) *ActivityResp {
	if a == nil {
		return nil
	}
	return &ActivityResp{
		ID:              a.ID,
		CityID:          a.CityID,
		Name:            a.Name,
		Category:        string(a.Category),
		MinCost:         a.MinCost,
		MaxCost:         a.MaxCost,
		DurationMinutes: a.DurationMinutes,
	}
}

func ToTripActivityResp(a *domain.TripActivity) TripActivityResp {
	return TripActivityResp{
		ID:              a.ID,
		TripStopID:      a.TripStopID,
		ActivityID:      a.ActivityID,
		Activity:        ToActivityResp(a.Activity),
		Date:            date(a.Date),
		Time:            a.Time,
		MinCostOverride: a.MinCostOverride,
		MaxCostOverride: a.MaxCostOverride,
	}
}

func ToStopResp(s *domain.TripStop, cost metrics.Cost) StopResp {
	acts := make([]TripActivityResp, 0, len(s.Activities))
	for _, a := range s.Activities {
		acts = append(acts, ToTripActivityResp(a))
	}
	return StopResp{
		ID:             s.ID,
		TripID:         s.TripID,
		CityID:         s.CityID,
		City:           ToCityResp(s.City),
		StartDate:      date(s.StartDate),
		EndDate:        date(s.EndDate),
		OrderIndex:     s.OrderIndex,
		MinCost:        cost.Min,
		MaxCost:        cost.Max,
		TripActivities: acts,
	}
}

func ToTripResp(t *domain.Trip, m metrics.TripMetrics) TripResp {
	stops := make([]StopResp, 0, len(t.Stops))
	for _, s := range t.Stops {
		stops = append(stops, ToStopResp(s, m.StopCosts[s.ID]))
	}
	return TripResp{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Name:        t.Name,
		Description: t.Description,
		StartDate:   date(t.StartDate),
		EndDate:     date(t.EndDate),
		IsPublic:    t.IsPublic,
		CoverImage:  t.CoverImage,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,

		TripStopsCount:  m.StopsCount,
		DurationDays:    m.DurationDays,
		TotalActivities: m.TotalActivities,
		IsOwner:         m.IsOwner,
		DaysUntilTrip:   m.DaysUntilTrip,
		TotalMinCost:    m.Cost.Min,
		TotalMaxCost:    m.Cost.Max,

		TripStops: stops,
	}
}

func ToTripView(v *trip.TripView) TripResp { return ToTripResp(v.Trip, v.Metrics) }

func toTripResps(views []trip.TripView) []TripResp {
	out := make([]TripResp, 0, len(views))
	for i := range views {
		out = append(out, ToTripView(&views[i]))
	}
	return out
}

func ToTripListResp(p *trip.TripPage) TripListResp {
	return TripListResp{Trips: toTripResps(p.Trips), Pagination: p.Pagination}
}

func ToRegionalResp(p *trip.RegionalPage) RegionalResp {
	return RegionalResp{Trips: toTripResps(p.Trips), Region: p.Region, Pagination: p.Pagination}
}

func toEntryResps(entries []calendar.Entry) []TripResp {
	out := make([]TripResp, 0, len(entries))
	for _, e := range entries {
		out = append(out, ToTripResp(e.Trip, e.Metrics))
	}
	return out
}

func ToDayResp(v *calendar.DayView) DayResp {
	trips := make([]DayTripResp, 0, len(v.Trips))
	for _, e := range v.Trips {
		stops := make([]StopResp, 0, len(e.Stops))
		for _, s := range e.Stops {
			stops = append(stops, ToStopResp(s, e.Metrics.StopCosts[s.ID]))
		}
		trips = append(trips, DayTripResp{TripResp: ToTripResp(e.Trip, e.Metrics), StopsOnDay: stops})
	}
	return DayResp{Date: date(v.Date), Trips: trips, Total: v.Total}
}

func ToMonthResp(v *calendar.MonthView) MonthResp {
	return MonthResp{
		Trips: toEntryResps(v.Trips),
		Month: int(v.Month),
		Year:  v.Year,
		Total: v.Total,
		Days:  v.Days,
	}
}

func ToRangeResp(v *calendar.RangeView) RangeResp {
	return RangeResp{
		Trips:     toEntryResps(v.Trips),
		DateRange: DateRange{Start: date(v.Start), End: date(v.End)},
		Total:     v.Total,
	}
}

func toMonthlyOverviewResp(m calendar.MonthlyOverview) MonthlyOverviewResp {
	trips := make([]TripSummaryResp, 0, len(m.Trips))
	for _, t := range m.Trips {
		trips = append(trips, TripSummaryResp{
			ID:           t.ID,
			Name:         t.Name,
			OwnerID:      t.OwnerID,
			StartDate:    date(t.StartDate),
			EndDate:      date(t.EndDate),
			IsPublic:     t.IsPublic,
			DurationDays: t.DurationDays,
			StopsCount:   t.StopsCount,
		})
	}
	return MonthlyOverviewResp{Month: m.Month, MonthName: m.MonthName, TripCount: m.TripCount, Trips: trips}
}

func ToYearOverviewResp(v *calendar.YearOverview) YearOverviewResp {
	months := make([]MonthlyOverviewResp, 0, len(v.MonthlyOverview))
	for _, m := range v.MonthlyOverview {
		months = append(months, toMonthlyOverviewResp(m))
	}
	return YearOverviewResp{
		Year:            v.Year,
		MonthlyOverview: months,
		YearlySummary: YearlySummaryResp{
			TotalTrips:      v.YearlySummary.TotalTrips,
			TotalTravelDays: v.YearlySummary.TotalTravelDays,
			BusiestMonth:    toMonthlyOverviewResp(v.YearlySummary.BusiestMonth),
		},
	}
}
