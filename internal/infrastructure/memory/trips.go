package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/baechuer/trip-service/internal/application/regional"
	"github.com/baechuer/trip-service/internal/application/trip"
	"github.com/baechuer/trip-service/internal/domain"
)

func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.st.users[id]
	if !ok {
		return nil, domain.ErrNotFound("user not found")
	}
	return &u, nil
}

func (s *Store) GetGraph(ctx context.Context, id string) (*domain.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.st.trips[id]
	if !ok {
		return nil, domain.ErrTripNotFound()
	}
	return s.st.graph(t), nil
}

func (s *Store) ListByOwner(ctx context.Context, q trip.OwnerQuery) ([]*domain.Trip, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []domain.Trip
	for _, t := range s.st.trips {
		if t.OwnerID != q.OwnerID {
			continue
		}
		if q.StartAfter != nil && !t.StartDate.After(*q.StartAfter) {
			continue
		}
		rows = append(rows, t)
	}
	sort.Slice(rows, func(i, j int) bool { return ownerLess(rows[i], rows[j], q.Sort, q.Order) })

	return s.st.graphs(window(rows, q.Limit, q.Offset)), len(rows), nil
}

// ownerLess orders by the requested field, then id ascending.
func ownerLess(a, b domain.Trip, field domain.TripSortField, order domain.SortOrder) bool {
	var cmp int
	switch field {
	case domain.SortStartDate:
		cmp = a.StartDate.Compare(b.StartDate)
	case domain.SortEndDate:
		cmp = a.EndDate.Compare(b.EndDate)
	case domain.SortName:
		cmp = strings.Compare(a.Name, b.Name)
	default:
		cmp = a.CreatedAt.Compare(b.CreatedAt)
	}
	if cmp == 0 {
		return a.ID < b.ID
	}
	if order == domain.OrderAsc {
		return cmp < 0
	}
	return cmp > 0
}

func (s *Store) ListRegional(ctx context.Context, c regional.Criteria) ([]*domain.Trip, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	countries := make(map[string]string, len(s.st.users))
	for id, u := range s.st.users {
		countries[id] = u.Country
	}
	all := make([]*domain.Trip, 0, len(s.st.trips))
	for _, t := range s.st.trips {
		row := t
		all = append(all, &row)
	}

	page, total := regional.Select(all, countries, c)
	out := make([]*domain.Trip, 0, len(page))
	for _, t := range page {
		out = append(out, s.st.graph(*t))
	}
	return out, total, nil
}

func (s *Store) ListVisibleInRange(ctx context.Context, requesterID string, from, to time.Time) ([]*domain.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []domain.Trip
	for _, t := range s.st.trips {
		if t.VisibleTo(requesterID) && t.Overlaps(from, to) {
			rows = append(rows, t)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].StartDate.Equal(rows[j].StartDate) {
			return rows[i].StartDate.Before(rows[j].StartDate)
		}
		return rows[i].ID < rows[j].ID
	})
	return s.st.graphs(rows), nil
}

// WithTx runs fn under the store's write lock. Any error restores the state
// from before the call.
func (s *Store) WithTx(ctx context.Context, fn func(r trip.TxTripRepo) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.st.clone()
	if err := fn(&txRepo{st: &s.st}); err != nil {
		s.st = before
		return err
	}
	return nil
}
