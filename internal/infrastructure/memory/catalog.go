package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/baechuer/trip-service/internal/application/catalog"
	"github.com/baechuer/trip-service/internal/domain"
)

func (s *Store) ListCities(ctx context.Context, f catalog.CityFilter) ([]*domain.City, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(f.Query)
	var out []*domain.City
	for _, c := range s.st.cities {
		if q != "" && !strings.Contains(strings.ToLower(c.Name), q) {
			continue
		}
		if f.Country != "" && !strings.EqualFold(c.Country, f.Country) {
			continue
		}
		row := c
		out = append(out, &row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Popularity != out[j].Popularity {
			return out[i].Popularity > out[j].Popularity
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return window(out, f.Limit, 0), nil
}

func (s *Store) GetCity(ctx context.Context, id string) (*domain.City, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.st.cities[id]
	if !ok {
		return nil, domain.ErrNotFound("city not found")
	}
	return &c, nil
}

func (s *Store) ListActivities(ctx context.Context, cityID string, category *domain.ActivityCategory) ([]*domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*domain.Activity{}
	for _, a := range s.st.activities {
		if a.CityID != cityID {
			continue
		}
		if category != nil && a.Category != *category {
			continue
		}
		row := a
		out = append(out, &row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
