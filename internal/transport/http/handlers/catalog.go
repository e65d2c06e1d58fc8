package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/trip-service/internal/application/catalog"
	"github.com/baechuer/trip-service/internal/domain"
	"github.com/baechuer/trip-service/internal/transport/http/dto"
	"github.com/baechuer/trip-service/internal/transport/http/response"
)

type CatalogHandler struct {
	svc *catalog.Service
}

func NewCatalogHandler(svc *catalog.Service) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func (h *CatalogHandler) ListCities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	cities, err := h.svc.ListCities(r.Context(), q.Get("q"), q.Get("country"), limit)
	if err != nil {
		fail(w, r, "list_cities", err)
		return
	}
	out := make([]*dto.CityResp, 0, len(cities))
	for _, c := range cities {
		out = append(out, dto.ToCityResp(c))
	}
	response.Data(w, http.StatusOK, out)
}

func (h *CatalogHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	acts, err := h.svc.ListActivities(r.Context(), chi.URLParam(r, "city_id"), r.URL.Query().Get("category"))
	if err != nil {
		fail(w, r, "list_activities", err)
		return
	}
	out := make([]*dto.ActivityResp, 0, len(acts))
	for _, a := range acts {
		out = append(out, dto.ToActivityResp(a))
	}
	response.Data(w, http.StatusOK, out)
}

// Categories lists the closed set of activity categories.
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	out := make([]string, 0, len(domain.ActivityCategories()))
	for _, c := range domain.ActivityCategories() {
		out = append(out, string(c))
	}
	response.Data(w, http.StatusOK, out)
}
