package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"

	"github.com/baechuer/trip-service/internal/domain"
	"github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

type Repo struct {
	db *sql.DB
}

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Migrate creates missing tables and indexes. Every statement is idempotent.
func (r *Repo) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schemaSQL)
	return err
}

func (r *Repo) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx, getUserSQL, id).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Country, &u.City, &u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// mapPQError turns integrity violations into domain errors. Anything else is
// returned unchanged and surfaces as an internal error.
func mapPQError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case "23505": // unique_violation
		switch pqErr.Constraint {
		case "trip_stops_order_key":
			return domain.ErrInvalidState("stop order already taken")
		case "trip_activities_slot_key":
			return domain.ErrInvalidState("activity already scheduled in this slot")
		}
		return domain.ErrInvalidState("record already exists")
	case "23503": // foreign_key_violation
		return domain.ErrValidationMeta("referenced record does not exist", map[string]string{
			"constraint": pqErr.Constraint,
		})
	case "23514": // check_violation
		return domain.ErrValidationMeta("value out of range", map[string]string{
			"constraint": pqErr.Constraint,
		})
	}
	return err
}
