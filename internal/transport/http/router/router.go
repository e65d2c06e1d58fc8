package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/baechuer/trip-service/internal/config"
	"github.com/baechuer/trip-service/internal/transport/http/handlers"
	appmw "github.com/baechuer/trip-service/internal/transport/http/middleware"
)

func New(
	trips *handlers.TripsHandler,
	cal *handlers.CalendarHandler,
	cat *handlers.CatalogHandler,
	auth *appmw.AuthMiddleware,
	z *handlers.HealthHandler,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	r.Use(appmw.RequestID)
	r.Use(appmw.SecurityHeaders)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(appmw.Metrics)
	r.Use(appmw.AccessLog)

	if cfg.RLEnabled {
		r.Use(httprate.LimitByIP(cfg.RLLimit, cfg.RLWindow))
	}

	r.Get("/healthz", z.Healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/cities", cat.ListCities)
		r.Get("/cities/{city_id}/activities", cat.ListActivities)
		r.Get("/activity-categories", cat.Categories)

		r.Group(func(r chi.Router) {
			r.Use(auth.Require)

			r.Get("/trips", trips.ListMine)
			r.Post("/trips", trips.Create)
			r.Get("/trips/previous", trips.Previous)
			r.Get("/trips/upcoming", trips.Upcoming)
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
		})
	})

	return r
}
