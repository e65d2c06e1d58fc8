package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/baechuer/trip-service/internal/application/trip"
	"github.com/baechuer/trip-service/internal/domain"
)

func (r *Repo) WithTx(ctx context.Context, fn func(tr trip.TxTripRepo) error) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&txRepo{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type txRepo struct {
	tx *sql.Tx
}

// GetTripForUpdate holds the trip row lock until commit, serializing writers
// of the same trip.
func (r *txRepo) GetTripForUpdate(ctx context.Context, id string) (*domain.Trip, error) {
	t, err := scanTrip(r.tx.QueryRowContext(ctx, selectTripForUpdateSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTripNotFound()
	}
	return t, err
}

func (r *txRepo) MaxStopOrder(ctx context.Context, tripID string) (int, error) {
	var n int
	err := r.tx.QueryRowContext(ctx, maxStopOrderSQL, tripID).Scan(&n)
	return n, err
}

func (r *txRepo) GetStop(ctx context.Context, tripID, stopID string) (*domain.TripStop, error) {
	var s domain.TripStop
	err := r.tx.QueryRowContext(ctx, getStopSQL, stopID, tripID).Scan(
		&s.ID, &s.TripID, &s.CityID, &s.StartDate, &s.EndDate, &s.OrderIndex,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("stop not found")
	}
	if err != nil {
		return nil, err
	}
	s.StartDate, s.EndDate = domain.DateOf(s.StartDate), domain.DateOf(s.EndDate)
	return &s, nil
}

func (r *txRepo) InsertTrip(ctx context.Context, t *domain.Trip) error {
	_, err := r.tx.ExecContext(ctx, insertTripSQL,
		t.ID, t.OwnerID, t.Name, t.Description, t.StartDate, t.EndDate,
		t.IsPublic, t.CoverImage, t.CreatedAt, t.UpdatedAt,
	)
	return mapPQError(err)
}

func (r *txRepo) InsertStop(ctx context.Context, s *domain.TripStop) error {
	_, err := r.tx.ExecContext(ctx, insertStopSQL,
		s.ID, s.TripID, s.CityID, s.StartDate, s.EndDate, s.OrderIndex,
	)
	return mapPQError(err)
}

func (r *txRepo) InsertTripActivity(ctx context.Context, a *domain.TripActivity) error {
	_, err := r.tx.ExecContext(ctx, insertTripActivitySQL,
		a.ID, a.TripStopID, a.ActivityID, a.Date, nullString(a.Time),
		nullFloat(a.MinCostOverride), nullFloat(a.MaxCostOverride), a.CreatedAt,
	)
	return mapPQError(err)
}

// DeleteStop relies on ON DELETE CASCADE for the stop's activities.
func (r *txRepo) DeleteStop(ctx context.Context, stopID string) error {
	return r.deleteOne(ctx, deleteStopSQL, stopID, domain.ErrNotFound("stop not found"))
}

// DeleteTrip relies on ON DELETE CASCADE for stops and their activities.
func (r *txRepo) DeleteTrip(ctx context.Context, tripID string) error {
	return r.deleteOne(ctx, deleteTripSQL, tripID, domain.ErrTripNotFound())
}

func (r *txRepo) deleteOne(ctx context.Context, query, id string, notFound error) error {
	res, err := r.tx.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
