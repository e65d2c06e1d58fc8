package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/baechuer/trip-service/internal/application/catalog"
	"github.com/baechuer/trip-service/internal/domain"
)

func (r *Repo) ListCities(ctx context.Context, f catalog.CityFilter) ([]*domain.City, error) {
	where := []string{"TRUE"}
	args := []any{}
	add := func(condFmt string, val any) {
		args = append(args, val)
		where = append(where, fmt.Sprintf(condFmt, len(args)))
	}
	if f.Query != "" {
		add("name ILIKE '%%' || $%d || '%%'", f.Query)
	}
	if f.Country != "" {
		add("lower(country) = lower($%d)", f.Country)
	}
	args = append(args, f.Limit)

	listSQL := `
SELECT id, name, country, cost_index, popularity, description, image_url
FROM cities
WHERE ` + strings.Join(where, " AND ") + `
ORDER BY popularity DESC, name ASC, id ASC
LIMIT $` + fmt.Sprintf("%d", len(args))

	rows, err := r.db.QueryContext(ctx, listSQL, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.City
	for rows.Next() {
		c, err := scanCity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) GetCity(ctx context.Context, id string) (*domain.City, error) {
	c, err := scanCity(r.db.QueryRowContext(ctx, getCitySQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("city not found")
	}
	return c, err
}

func scanCity(s scanner) (*domain.City, error) {
	var c domain.City
	if err := s.Scan(&c.ID, &c.Name, &c.Country, &c.CostIndex, &c.Popularity, &c.Description, &c.ImageURL); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) ListActivities(ctx context.Context, cityID string, category *domain.ActivityCategory) ([]*domain.Activity, error) {
	query := `
SELECT id, city_id, name, category, min_cost, max_cost, duration_minutes
FROM activities
WHERE city_id = $1`
	args := []any{cityID}
	if category != nil {
		query += ` AND category = $2`
		args = append(args, string(*category))
	}
	query += `
ORDER BY name ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Activity{}
	for rows.Next() {
		var (
			a          domain.Activity
			cat        string
			minC, maxC sql.NullFloat64
			duration   sql.NullInt64
		)
		if err := rows.Scan(&a.ID, &a.CityID, &a.Name, &cat, &minC, &maxC, &duration); err != nil {
			return nil, err
		}
		a.Category = domain.ActivityCategory(cat)
		a.MinCost, a.MaxCost = floatPtr(minC), floatPtr(maxC)
		if duration.Valid {
			d := int(duration.Int64)
			a.DurationMinutes = &d
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
