// Package memory is an in-process entity store for local runs and tests. It
// enforces the same relational rules as the postgres schema: foreign keys,
// unique stop order per trip, unique activity slots, cascading deletes.
package memory

import (
	"sort"
	"sync"

	"github.com/baechuer/trip-service/internal/application/trip"
	"github.com/baechuer/trip-service/internal/domain"
)

type Store struct {
	mu sync.RWMutex
	st state
}

type state struct {
	users      map[string]domain.User
	cities     map[string]domain.City
	activities map[string]domain.Activity

	trips    map[string]domain.Trip
	stops    map[string]domain.TripStop
	tripActs map[string]domain.TripActivity
	outbox   []trip.OutboxMessage
}

func New() *Store {
	return &Store{st: state{
		users:      map[string]domain.User{},
		cities:     map[string]domain.City{},
		activities: map[string]domain.Activity{},
		trips:      map[string]domain.Trip{},
		stops:      map[string]domain.TripStop{},
		tripActs:   map[string]domain.TripActivity{},
	}}
}

// clone copies the maps so a failed transaction can be rolled back. Rows are
// stored by value and never modified in place, so a shallow copy is enough.
func (s state) clone() state {
	out := state{
		users:      make(map[string]domain.User, len(s.users)),
		cities:     make(map[string]domain.City, len(s.cities)),
		activities: make(map[string]domain.Activity, len(s.activities)),
		trips:      make(map[string]domain.Trip, len(s.trips)),
		stops:      make(map[string]domain.TripStop, len(s.stops)),
		tripActs:   make(map[string]domain.TripActivity, len(s.tripActs)),
		outbox:     append([]trip.OutboxMessage(nil), s.outbox...),
	}
	for k, v := range s.users {
		out.users[k] = v
	}
	for k, v := range s.cities {
		out.cities[k] = v
	}
	for k, v := range s.activities {
		out.activities[k] = v
	}
	for k, v := range s.trips {
		out.trips[k] = v
	}
	for k, v := range s.stops {
		out.stops[k] = v
	}
	for k, v := range s.tripActs {
		out.tripActs[k] = v
	}
	return out
}

func (s *Store) PutUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.users[u.ID] = u
}

func (s *Store) PutCity(c domain.City) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.cities[c.ID] = c
}

func (s *Store) PutActivity(a domain.Activity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.activities[a.ID] = a
}

// Outbox returns a copy of every message written so far.
func (s *Store) Outbox() []trip.OutboxMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]trip.OutboxMessage(nil), s.st.outbox...)
}

// graph assembles a detached copy of the trip with its stops, cities,
// activities and catalog rows. Callers hold at least a read lock.
func (s state) graph(t domain.Trip) *domain.Trip {
	out := t
	out.Stops = nil
	for _, st := range s.stops {
		if st.TripID != t.ID {
			continue
		}
		stop := st
		if c, ok := s.cities[stop.CityID]; ok {
			stop.City = &c
		}
		stop.Activities = nil
		for _, ta := range s.tripActs {
			if ta.TripStopID != stop.ID {
				continue
			}
			a := ta
			if base, ok := s.activities[a.ActivityID]; ok {
				a.Activity = &base
			}
			stop.Activities = append(stop.Activities, &a)
		}
		out.Stops = append(out.Stops, &stop)
	}
	// Map iteration is random; settle ties on id before the itinerary sort.
	sort.Slice(out.Stops, func(i, j int) bool { return out.Stops[i].ID < out.Stops[j].ID })
	out.SortGraph()
	return &out
}

func (s state) graphs(rows []domain.Trip) []*domain.Trip {
	out := make([]*domain.Trip, 0, len(rows))
	for _, t := range rows {
		out = append(out, s.graph(t))
	}
	return out
}

func window[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
