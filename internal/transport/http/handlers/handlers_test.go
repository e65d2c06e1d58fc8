package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/trip-service/internal/application/calendar"
	"github.com/baechuer/trip-service/internal/application/catalog"
	"github.com/baechuer/trip-service/internal/application/trip"
	"github.com/baechuer/trip-service/internal/domain"
	"github.com/baechuer/trip-service/internal/infrastructure/memory"
	"github.com/baechuer/trip-service/internal/transport/http/dto"
	"github.com/baechuer/trip-service/internal/transport/http/middleware"
	"github.com/baechuer/trip-service/internal/transport/http/response"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func f64(v float64) *float64 { return &v }

// testServer wires the handlers onto a bare chi router. The X-User header
// stands in for the auth middleware.
func testServer(t *testing.T) http.Handler {
	t.Helper()
	st := memory.New()
	st.PutUser(domain.User{ID: "u1", Country: "Wonderland"})
	st.PutUser(domain.User{ID: "u2", Country: "Wonderland"})
	st.PutCity(domain.City{ID: "rome", Name: "Rome", Country: "Italy", Popularity: 90})
	st.PutActivity(domain.Activity{ID: "colosseum", CityID: "rome", Name: "Colosseum", Category: domain.CategorySightseeing, MinCost: f64(20), MaxCost: f64(40)})

	clock := fixedClock{t: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	trips := NewTripsHandler(trip.New(st, st, clock, nil, 0))
	cal := NewCalendarHandler(calendar.New(st, nil, 0))
	cat := NewCatalogHandler(catalog.New(st))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if uid := r.Header.Get("X-User"); uid != "" {
				r = r.WithContext(middleware.WithUser(r.Context(), uid, "user"))
			}
			next.ServeHTTP(w, r)
		})
	})
	r.Get("/cities", cat.ListCities)
	r.Get("/cities/{city_id}/activities", cat.ListActivities)
	r.Get("/trips", trips.ListMine)
	r.Post("/trips", trips.Create)
	r.Get("/trips/upcoming", trips.Upcoming)
	r.Get("/trips/previous", trips.Previous)
	r.Get("/trips/regional", trips.Regional)
	r.Get("/trips/{trip_id}", trips.Get)
	r.Delete("/trips/{trip_id}", trips.Delete)
	r.Post("/trips/{trip_id}/stops", trips.AddStop)
	r.Delete("/trips/{trip_id}/stops/{stop_id}", trips.DeleteStop)
	r.Post("/trips/{trip_id}/stops/{stop_id}/activities", trips.AddActivity)
	r.Get("/calendar/day", cal.Day)
	r.Get("/calendar/month", cal.Month)
	r.Get("/calendar/date-range", cal.DateRange)
	r.Get("/calendar/year-overview", cal.YearOverview)
	return r
}

func do(t *testing.T, h http.Handler, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if user != "" {
		req.Header.Set("X-User", user)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeData[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var env struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return env.Data
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), rr.Body.String())
	return body.Error.Code
}

const italyTrip = `{
	"name": "Italy",
	"start_date": "2024-06-01",
	"end_date": "2024-06-10",
	"is_public": true,
	"stops": [{
		"city_id": "rome",
		"start_date": "2024-06-01",
		"end_date": "2024-06-04",
		"activities": [{"activity_id": "colosseum", "date": "2024-06-02", "time": "09:00", "min_cost_override": 50}]
	}]
}`

func createItaly(t *testing.T, h http.Handler) dto.TripResp {
	t.Helper()
	rr := do(t, h, http.MethodPost, "/trips", "u1", italyTrip)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decodeData[dto.TripResp](t, rr)
}

func TestTripsHandler_CreateAndGet(t *testing.T) {
	h := testServer(t)
	created := createItaly(t, h)

	assert.Equal(t, 9, created.DurationDays)
	assert.Equal(t, 1, created.TripStopsCount)
	assert.Equal(t, 50.0, created.TotalMinCost)
	assert.Equal(t, 40.0, created.TotalMaxCost)
	require.Len(t, created.TripStops, 1)
	assert.Equal(t, "Rome", created.TripStops[0].City.Name)

	t.Run("owner_sees_is_owner", func(t *testing.T) {
		rr := do(t, h, http.MethodGet, "/trips/"+created.ID, "u1", "")
		require.Equal(t, http.StatusOK, rr.Code)
		got := decodeData[dto.TripResp](t, rr)
		require.NotNil(t, got.IsOwner)
		assert.True(t, *got.IsOwner)
	})

	t.Run("missing_trip_is_404", func(t *testing.T) {
		rr := do(t, h, http.MethodGet, "/trips/nope", "u1", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "not_found", errorCode(t, rr))
	})
}

func TestTripsHandler_CreateValidation(t *testing.T) {
	h := testServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed_json", `{"name":`},
		{"unknown_field", `{"name":"x","start_date":"2024-06-01","end_date":"2024-06-02","owner_id":"u2"}`},
		{"missing_name", `{"start_date":"2024-06-01","end_date":"2024-06-02"}`},
		{"bad_date", `{"name":"x","start_date":"06/01/2024","end_date":"2024-06-02"}`},
		{"end_before_start", `{"name":"x","start_date":"2024-06-05","end_date":"2024-06-02"}`},
		{"negative_override", `{"name":"x","start_date":"2024-06-01","end_date":"2024-06-02","stops":[{"city_id":"rome","start_date":"2024-06-01","end_date":"2024-06-02","activities":[{"activity_id":"colosseum","date":"2024-06-01","min_cost_override":-1}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, "/trips", "u1", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
			assert.Equal(t, "validation_error", errorCode(t, rr))
		})
	}

	t.Run("anonymous_is_401", func(t *testing.T) {
		rr := do(t, h, http.MethodPost, "/trips", "", italyTrip)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestTripsHandler_StopsAndActivities(t *testing.T) {
	h := testServer(t)
	created := createItaly(t, h)
	base := "/trips/" + created.ID

	rr := do(t, h, http.MethodPost, base+"/stops", "u1", `{"city_id":"rome","start_date":"2024-06-05","end_date":"2024-06-08"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	stop := decodeData[dto.StopResp](t, rr)
	assert.Equal(t, 1, stop.OrderIndex)
	require.NotNil(t, stop.City)
	assert.Equal(t, "Rome", stop.City.Name)

	t.Run("non_owner_is_forbidden", func(t *testing.T) {
		rr := do(t, h, http.MethodPost, base+"/stops", "u2", `{"city_id":"rome","start_date":"2024-06-05","end_date":"2024-06-08"}`)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("add_activity", func(t *testing.T) {
		body := `{"activity_id":"colosseum","date":"2024-06-06","time":"10:00"}`
		rr := do(t, h, http.MethodPost, base+"/stops/"+stop.ID+"/activities", "u1", body)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		a := decodeData[dto.TripActivityResp](t, rr)
		assert.Equal(t, "2024-06-06", a.Date)
		require.NotNil(t, a.Activity)
		assert.Equal(t, "Colosseum", a.Activity.Name)

		rr = do(t, h, http.MethodPost, base+"/stops/"+stop.ID+"/activities", "u1", body)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("delete_stop_then_trip", func(t *testing.T) {
		rr := do(t, h, http.MethodDelete, base+"/stops/"+stop.ID, "u1", "")
		assert.Equal(t, http.StatusNoContent, rr.Code)

		rr = do(t, h, http.MethodDelete, base, "u1", "")
		assert.Equal(t, http.StatusNoContent, rr.Code)

		rr = do(t, h, http.MethodGet, base, "u1", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestTripsHandler_Listings(t *testing.T) {
	h := testServer(t)
	created := createItaly(t, h)

	t.Run("mine_with_garbage_pagination_clamps", func(t *testing.T) {
		rr := do(t, h, http.MethodGet, "/trips?page=-4&limit=abc", "u1", "")
		require.Equal(t, http.StatusOK, rr.Code)
		got := decodeData[dto.TripListResp](t, rr)
		assert.Equal(t, 1, got.Pagination.Page)
		assert.Equal(t, trip.DefaultLimit, got.Pagination.Limit)
		assert.Len(t, got.Trips, 1)
	})

	t.Run("huge_page_returns_empty_page", func(t *testing.T) {
		for _, path := range []string{"/trips", "/trips/previous", "/trips/upcoming", "/trips/regional"} {
			user := "u1"
			if path == "/trips/regional" {
				user = "u2"
			}
			rr := do(t, h, http.MethodGet, path+"?page=9223372036854775807&limit=10", user, "")
			require.Equal(t, http.StatusOK, rr.Code, path+": "+rr.Body.String())
			got := decodeData[dto.TripListResp](t, rr)
			assert.Empty(t, got.Trips, path)
			assert.Equal(t, 1, got.Pagination.Total, path)
			assert.False(t, got.Pagination.HasNext, path)
		}
	})

	t.Run("mine_rejects_unknown_sort", func(t *testing.T) {
		rr := do(t, h, http.MethodGet, "/trips?sort=owner_id", "u1", "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("upcoming_has_countdown", func(t *testing.T) {
		rr := do(t, h, http.MethodGet, "/trips/upcoming", "u1", "")
		require.Equal(t, http.StatusOK, rr.Code)
		got := decodeData[dto.TripListResp](t, rr)
		require.Len(t, got.Trips, 1)
		require.NotNil(t, got.Trips[0].DaysUntilTrip)
		assert.Equal(t, 31, *got.Trips[0].DaysUntilTrip)
	})

	t.Run("regional_for_neighbour", func(t *testing.T) {
		rr := do(t, h, http.MethodGet, "/trips/regional", "u2", "")
		require.Equal(t, http.StatusOK, rr.Code)
		got := decodeData[dto.RegionalResp](t, rr)
		assert.Equal(t, "Wonderland", got.Region)
		require.Len(t, got.Trips, 1)
		assert.Equal(t, created.ID, got.Trips[0].ID)
	})
}

func TestCalendarHandler(t *testing.T) {
	h := testServer(t)
	created := createItaly(t, h)

	t.Run("day", func(t *testing.T) {
		rr := do(t, h, http.MethodGet, "/calendar/day?date=2024-06-02", "u1", "")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		got := decodeData[dto.DayResp](t, rr)
		assert.Equal(t, 1, got.Total)
		require.Len(t, got.Trips[0].StopsOnDay, 1)
	})

	t.Run("month", func(t *testing.T) {
		rr := do(t, h, http.MethodGet, "/calendar/month?year=2024&month=6", "u1", "")
		require.Equal(t, http.StatusOK, rr.Code)
		got := decodeData[dto.MonthResp](t, rr)
		assert.Equal(t, 1, got.Total)
		assert.Equal(t, []string{created.ID}, got.Days[10])
		assert.Empty(t, got.Days[11])
		assert.Len(t, got.Days, 30)
	})

	t.Run("date_range", func(t *testing.T) {
		rr := do(t, h, http.MethodGet, "/calendar/date-range?start=2024-06-09&end=2024-07-01", "u1", "")
		require.Equal(t, http.StatusOK, rr.Code)
		got := decodeData[dto.RangeResp](t, rr)
		assert.Equal(t, "2024-06-09", got.DateRange.Start)
		assert.Equal(t, 1, got.Total)
	})

	t.Run("year_overview", func(t *testing.T) {
		rr := do(t, h, http.MethodGet, "/calendar/year-overview?year=2024", "u1", "")
		require.Equal(t, http.StatusOK, rr.Code)
		got := decodeData[dto.YearOverviewResp](t, rr)
		assert.Len(t, got.MonthlyOverview, 12)
		assert.Equal(t, "June", got.YearlySummary.BusiestMonth.MonthName)
		assert.Equal(t, 10, got.YearlySummary.TotalTravelDays)
	})

	bad := []struct{ name, path string }{
		{"day_missing_date", "/calendar/day"},
		{"month_not_a_number", "/calendar/month?year=2024&month=june"},
		{"month_out_of_range", "/calendar/month?year=2024&month=13"},
		{"range_inverted", "/calendar/date-range?start=2024-06-10&end=2024-06-01"},
		{"year_missing", "/calendar/year-overview"},
	}
	for _, tc := range bad {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(t, h, http.MethodGet, tc.path, "u1", "")
			assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
		})
	}
}

func TestCatalogHandler(t *testing.T) {
	h := testServer(t)

	rr := do(t, h, http.MethodGet, "/cities?q=ro", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	cities := decodeData[[]dto.CityResp](t, rr)
	require.Len(t, cities, 1)
	assert.Equal(t, "rome", cities[0].ID)

	rr = do(t, h, http.MethodGet, "/cities/rome/activities?category=sightseeing", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeData[[]dto.ActivityResp](t, rr), 1)

	rr = do(t, h, http.MethodGet, "/cities/rome/activities?category=gambling", "", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodGet, "/cities/atlantis/activities", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestFail_HidesInternalErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(middleware.WithUser(context.Background(), "u1", "user"))

	fail(rr, req, "get_trip", errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "internal_error", errorCode(t, rr))
	assert.NotContains(t, rr.Body.String(), "connection refused")
}
