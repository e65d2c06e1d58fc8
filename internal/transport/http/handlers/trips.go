package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/trip-service/internal/application/metrics"
	"github.com/baechuer/trip-service/internal/application/trip"
	"github.com/baechuer/trip-service/internal/domain"
	"github.com/baechuer/trip-service/internal/transport/http/dto"
	"github.com/baechuer/trip-service/internal/transport/http/middleware"
	"github.com/baechuer/trip-service/internal/transport/http/response"
)

type TripsHandler struct {
	svc *trip.Service
}

func NewTripsHandler(svc *trip.Service) *TripsHandler {
	return &TripsHandler{svc: svc}
}

func (h *TripsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sort, order, err := domain.ParseTripSort(q.Get("sort"), q.Get("order"))
	if err != nil {
		fail(w, r, "list_mine", err)
		return
	}
	page, err := h.svc.ListMine(r.Context(), middleware.UserID(r), sort, order, pageRequest(r))
	if err != nil {
		fail(w, r, "list_mine", err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToTripListResp(page))
}

func (h *TripsHandler) Previous(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.FindPreviousTrips(r.Context(), middleware.UserID(r), pageRequest(r))
	if err != nil {
		fail(w, r, "find_previous", err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToTripListResp(page))
}

func (h *TripsHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.FindUpcomingTrips(r.Context(), middleware.UserID(r), pageRequest(r))
	if err != nil {
		fail(w, r, "find_upcoming", err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToTripListResp(page))
}

func (h *TripsHandler) Regional(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.FindRegionalSelections(r.Context(), middleware.UserID(r), pageRequest(r))
	if err != nil {
		fail(w, r, "find_regional", err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToRegionalResp(page))
}

func (h *TripsHandler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.GetByIDWithDetails(r.Context(), chi.URLParam(r, "trip_id"), middleware.UserID(r))
	if err != nil {
		fail(w, r, "get_trip", err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToTripView(v))
}

func (h *TripsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTripReq
	if err := decode(r, &req); err != nil {
		fail(w, r, "create_trip", err)
		return
	}
	cmd, err := dto.ToCreateTripCmd(middleware.UserID(r), req)
	if err != nil {
		fail(w, r, "create_trip", err)
		return
	}
	v, err := h.svc.CreateTrip(r.Context(), cmd)
	if err != nil {
		fail(w, r, "create_trip", err)
		return
	}
	response.Data(w, http.StatusCreated, dto.ToTripView(v))
}

func (h *TripsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTrip(r.Context(), chi.URLParam(r, "trip_id"), middleware.UserID(r)); err != nil {
		fail(w, r, "delete_trip", err)
		return
	}
	response.NoContent(w)
}

func (h *TripsHandler) AddStop(w http.ResponseWriter, r *http.Request) {
	var req dto.AddStopReq
	if err := decode(r, &req); err != nil {
		fail(w, r, "add_stop", err)
		return
	}
	start, err := dto.ParseDateField("start_date", req.StartDate)
	if err != nil {
		fail(w, r, "add_stop", err)
		return
	}
	end, err := dto.ParseDateField("end_date", req.EndDate)
	if err != nil {
		fail(w, r, "add_stop", err)
		return
	}

	stop, err := h.svc.AddStop(r.Context(), trip.AddStopCmd{
		TripID:    chi.URLParam(r, "trip_id"),
		ActorID:   middleware.UserID(r),
		CityID:    req.CityID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		fail(w, r, "add_stop", err)
		return
	}
	response.Data(w, http.StatusCreated, dto.ToStopResp(stop, metrics.StopCost(stop)))
}

func (h *TripsHandler) DeleteStop(w http.ResponseWriter, r *http.Request) {
	err := h.svc.DeleteStop(r.Context(), chi.URLParam(r, "trip_id"), chi.URLParam(r, "stop_id"), middleware.UserID(r))
	if err != nil {
		fail(w, r, "delete_stop", err)
		return
	}
	response.NoContent(w)
}

func (h *TripsHandler) AddActivity(w http.ResponseWriter, r *http.Request) {
	var req dto.AddActivityReq
	if err := decode(r, &req); err != nil {
		fail(w, r, "add_activity", err)
		return
	}
	ac, err := dto.ToCreateActivityCmd("", req)
	if err != nil {
		fail(w, r, "add_activity", err)
		return
	}

	a, err := h.svc.AddActivity(r.Context(), trip.AddActivityCmd{
		TripID:          chi.URLParam(r, "trip_id"),
		StopID:          chi.URLParam(r, "stop_id"),
		ActorID:         middleware.UserID(r),
		ActivityID:      ac.ActivityID,
		Date:            ac.Date,
		Time:            ac.Time,
		MinCostOverride: ac.MinCostOverride,
		MaxCostOverride: ac.MaxCostOverride,
	})
	if err != nil {
		fail(w, r, "add_activity", err)
		return
	}
	response.Data(w, http.StatusCreated, dto.ToTripActivityResp(a))
}
