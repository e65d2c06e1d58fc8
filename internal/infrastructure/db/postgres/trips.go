package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/baechuer/trip-service/internal/application/regional"
	"github.com/baechuer/trip-service/internal/application/trip"
	"github.com/baechuer/trip-service/internal/domain"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrip(s scanner) (*domain.Trip, error) {
	var t domain.Trip
	if err := s.Scan(
		&t.ID, &t.OwnerID, &t.Name, &t.Description, &t.StartDate, &t.EndDate,
		&t.IsPublic, &t.CoverImage, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	t.StartDate, t.EndDate = domain.DateOf(t.StartDate), domain.DateOf(t.EndDate)
	t.CreatedAt, t.UpdatedAt = t.CreatedAt.UTC(), t.UpdatedAt.UTC()
	return &t, nil
}

func scanTrips(rows *sql.Rows) ([]*domain.Trip, error) {
	defer rows.Close()
	var out []*domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

var sortColumns = map[domain.TripSortField]string{
	domain.SortCreatedAt: "t.created_at",
	domain.SortStartDate: "t.start_date",
	domain.SortEndDate:   "t.end_date",
	domain.SortName:      "t.name",
}

// ownerOrderBy only ever interpolates values from the closed sort enum.
func ownerOrderBy(field domain.TripSortField, order domain.SortOrder) string {
	col, ok := sortColumns[field]
	if !ok {
		col = sortColumns[domain.SortCreatedAt]
	}
	dir := "DESC"
	if order == domain.OrderAsc {
		dir = "ASC"
	}
	return col + " " + dir + ", t.id ASC"
}

func (r *Repo) ListByOwner(ctx context.Context, q trip.OwnerQuery) ([]*domain.Trip, int, error) {
	where := []string{"t.owner_id = $1"}
	args := []any{q.OwnerID}
	if q.StartAfter != nil {
		args = append(args, q.StartAfter.UTC())
		where = append(where, fmt.Sprintf("t.start_date > $%d", len(args)))
	}
	whereSQL := "WHERE " + strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM trips t "+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listSQL := `
SELECT ` + tripColumns + `
FROM trips t
` + whereSQL + `
ORDER BY ` + ownerOrderBy(q.Sort, q.Order) + fmt.Sprintf(`
LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, q.Limit, q.Offset)

	rows, err := r.db.QueryContext(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	trips, err := scanTrips(rows)
	if err != nil {
		return nil, 0, err
	}
	if err := loadGraphs(ctx, r.db, trips); err != nil {
		return nil, 0, err
	}
	return trips, total, nil
}

func (r *Repo) ListRegional(ctx context.Context, c regional.Criteria) ([]*domain.Trip, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, countRegionalSQL, c.RequesterID, c.Country, c.Today).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx, listRegionalSQL, c.RequesterID, c.Country, c.Today, c.Limit, c.Offset)
	if err != nil {
		return nil, 0, err
	}
	trips, err := scanTrips(rows)
	if err != nil {
		return nil, 0, err
	}
	if err := loadGraphs(ctx, r.db, trips); err != nil {
		return nil, 0, err
	}
	return trips, total, nil
}

func (r *Repo) GetGraph(ctx context.Context, id string) (*domain.Trip, error) {
	t, err := scanTrip(r.db.QueryRowContext(ctx, getTripSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTripNotFound()
	}
	if err != nil {
		return nil, err
	}
	if err := loadGraphs(ctx, r.db, []*domain.Trip{t}); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *Repo) ListVisibleInRange(ctx context.Context, requesterID string, from, to time.Time) ([]*domain.Trip, error) {
	rows, err := r.db.QueryContext(ctx, listVisibleInRangeSQL, requesterID, domain.DateOf(from), domain.DateOf(to))
	if err != nil {
		return nil, err
	}
	trips, err := scanTrips(rows)
	if err != nil {
		return nil, err
	}
	if err := loadGraphs(ctx, r.db, trips); err != nil {
		return nil, err
	}
	return trips, nil
}
