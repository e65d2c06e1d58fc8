package postgres

import (
	"context"
	"database/sql"

	"github.com/baechuer/trip-service/internal/domain"
	"github.com/lib/pq"
)

// loadGraphs attaches stops (with city) and scheduled activities (with the
// catalog activity) to trips using two batched queries, whatever the number
// of trips.
func loadGraphs(ctx context.Context, q querier, trips []*domain.Trip) error {
	if len(trips) == 0 {
		return nil
	}

	byTrip := make(map[string]*domain.Trip, len(trips))
	tripIDs := make([]string, 0, len(trips))
	for _, t := range trips {
		t.Stops = nil
		byTrip[t.ID] = t
		tripIDs = append(tripIDs, t.ID)
	}

	rows, err := q.QueryContext(ctx, selectStopsSQL, pq.Array(tripIDs))
	if err != nil {
		return err
	}
	byStop := map[string]*domain.TripStop{}
	var stopIDs []string
	err = func() error {
		defer rows.Close()
		for rows.Next() {
			var s domain.TripStop
			var c domain.City
			if err := rows.Scan(
				&s.ID, &s.TripID, &s.CityID, &s.StartDate, &s.EndDate, &s.OrderIndex,
				&c.ID, &c.Name, &c.Country, &c.CostIndex, &c.Popularity, &c.Description, &c.ImageURL,
			); err != nil {
				return err
			}
			s.StartDate, s.EndDate = domain.DateOf(s.StartDate), domain.DateOf(s.EndDate)
			s.City = &c
			if t, ok := byTrip[s.TripID]; ok {
				t.Stops = append(t.Stops, &s)
				byStop[s.ID] = &s
				stopIDs = append(stopIDs, s.ID)
			}
		}
		return rows.Err()
	}()
	if err != nil {
		return err
	}

	if len(stopIDs) > 0 {
		if err := loadStopActivities(ctx, q, stopIDs, byStop); err != nil {
			return err
		}
	}

	for _, t := range trips {
		t.SortGraph()
	}
	return nil
}

func loadStopActivities(ctx context.Context, q querier, stopIDs []string, byStop map[string]*domain.TripStop) error {
	rows, err := q.QueryContext(ctx, selectTripActivitiesSQL, pq.Array(stopIDs))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ta           domain.TripActivity
			a            domain.Activity
			tod          sql.NullString
			minOv, maxOv sql.NullFloat64
			minC, maxC   sql.NullFloat64
			duration     sql.NullInt64
			category     string
		)
		if err := rows.Scan(
			&ta.ID, &ta.TripStopID, &ta.ActivityID, &ta.Date, &tod,
			&minOv, &maxOv, &ta.CreatedAt,
			&a.ID, &a.CityID, &a.Name, &category, &minC, &maxC, &duration,
		); err != nil {
			return err
		}
		ta.Date = domain.DateOf(ta.Date)
		ta.CreatedAt = ta.CreatedAt.UTC()
		if tod.Valid {
			v, err := domain.NormalizeTimeOfDay(tod.String)
			if err != nil {
				return err
			}
			ta.Time = &v
		}
		ta.MinCostOverride = floatPtr(minOv)
		ta.MaxCostOverride = floatPtr(maxOv)

		a.Category = domain.ActivityCategory(category)
		a.MinCost = floatPtr(minC)
		a.MaxCost = floatPtr(maxC)
		if duration.Valid {
			d := int(duration.Int64)
			a.DurationMinutes = &d
		}
		ta.Activity = &a

		if s, ok := byStop[ta.TripStopID]; ok {
			s.Activities = append(s.Activities, &ta)
		}
	}
	return rows.Err()
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}
