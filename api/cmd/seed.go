package main

import (
	"time"

	"github.com/baechuer/trip-service/internal/domain"
	"github.com/baechuer/trip-service/internal/infrastructure/memory"
)

func cost(v float64) *float64 { return &v }
func minutes(v int) *int      { return &v }

// seedDemo loads a small catalog and two users for STORE_DRIVER=memory.
func seedDemo(st *memory.Store) {
	now := time.Now().UTC()
	st.PutUser(domain.User{ID: "demo-alice", FirstName: "Alice", Country: "Italy", City: "Milan", CreatedAt: now})
	st.PutUser(domain.User{ID: "demo-bruno", FirstName: "Bruno", Country: "Italy", City: "Turin", CreatedAt: now})

	st.PutCity(domain.City{ID: "rome", Name: "Rome", Country: "Italy", CostIndex: 1.2, Popularity: 95})
	st.PutCity(domain.City{ID: "florence", Name: "Florence", Country: "Italy", CostIndex: 1.1, Popularity: 88})
	st.PutCity(domain.City{ID: "kyoto", Name: "Kyoto", Country: "Japan", CostIndex: 1.3, Popularity: 92})

	st.PutActivity(domain.Activity{ID: "colosseum", CityID: "rome", Name: "Colosseum tour", Category: domain.CategorySightseeing, MinCost: cost(20), MaxCost: cost(40), DurationMinutes: minutes(120)})
	st.PutActivity(domain.Activity{ID: "trastevere-food", CityID: "rome", Name: "Trastevere food walk", Category: domain.CategoryFood, MinCost: cost(60), MaxCost: cost(90), DurationMinutes: minutes(180)})
	st.PutActivity(domain.Activity{ID: "uffizi", CityID: "florence", Name: "Uffizi Gallery", Category: domain.CategoryCulture, MinCost: cost(25), MaxCost: cost(25), DurationMinutes: minutes(150)})
	st.PutActivity(domain.Activity{ID: "fushimi-inari", CityID: "kyoto", Name: "Fushimi Inari hike", Category: domain.CategoryNature, MinCost: cost(0), MaxCost: cost(0), DurationMinutes: minutes(180)})
}
