// Package catalog serves the read-only city and activity reference data trips
// are built from.
package catalog

import (
	"context"
	"strings"

	"github.com/baechuer/trip-service/internal/domain"
)

const (
	DefaultCityLimit = 20
	MaxCityLimit     = 100
)

// CityFilter matches Query as a case-insensitive substring of the city name and
// Country exactly (case-insensitive). Empty fields match everything.
type CityFilter struct {
	Query   string
	Country string
	Limit   int
}

type Repo interface {
	// ListCities orders by popularity desc, then name.
	ListCities(ctx context.Context, f CityFilter) ([]*domain.City, error)
	GetCity(ctx context.Context, id string) (*domain.City, error)
	// ListActivities orders by name, then id. A nil category matches all.
	ListActivities(ctx context.Context, cityID string, category *domain.ActivityCategory) ([]*domain.Activity, error)
}

type Service struct {
	repo Repo
}

func New(repo Repo) *Service { return &Service{repo: repo} }

func (s *Service) ListCities(ctx context.Context, query, country string, limit int) ([]*domain.City, error) {
	if limit <= 0 {
		limit = DefaultCityLimit
	}
	if limit > MaxCityLimit {
		limit = MaxCityLimit
	}
	return s.repo.ListCities(ctx, CityFilter{
		Query:   strings.TrimSpace(query),
		Country: strings.TrimSpace(country),
		Limit:   limit,
	})
}

// ListActivities lists a city's activities, optionally narrowed to one
// category. rawCategory is parsed against the closed category set.
func (s *Service) ListActivities(ctx context.Context, cityID, rawCategory string) ([]*domain.Activity, error) {
	var category *domain.ActivityCategory
	if strings.TrimSpace(rawCategory) != "" {
		c, err := domain.ParseActivityCategory(rawCategory)
		if err != nil {
			return nil, err
		}
		category = &c
	}
	if _, err := s.repo.GetCity(ctx, cityID); err != nil {
		return nil, err
	}
	return s.repo.ListActivities(ctx, cityID, category)
}
