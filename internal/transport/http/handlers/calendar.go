package handlers

import (
	"net/http"
	"time"

	"github.com/baechuer/trip-service/internal/application/calendar"
	"github.com/baechuer/trip-service/internal/transport/http/dto"
	"github.com/baechuer/trip-service/internal/transport/http/middleware"
	"github.com/baechuer/trip-service/internal/transport/http/response"
)

type CalendarHandler struct {
	svc *calendar.Service
}

func NewCalendarHandler(svc *calendar.Service) *CalendarHandler {
	return &CalendarHandler{svc: svc}
}

func (h *CalendarHandler) Day(w http.ResponseWriter, r *http.Request) {
	day, err := requiredDate(r, "date")
	if err != nil {
		fail(w, r, "calendar_day", err)
		return
	}
	v, err := h.svc.Day(r.Context(), day, middleware.UserID(r))
	if err != nil {
		fail(w, r, "calendar_day", err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToDayResp(v))
}

func (h *CalendarHandler) Month(w http.ResponseWriter, r *http.Request) {
	year, err := requiredInt(r, "year")
	if err != nil {
		fail(w, r, "calendar_month", err)
		return
	}
	month, err := requiredInt(r, "month")
	if err != nil {
		fail(w, r, "calendar_month", err)
		return
	}
	v, err := h.svc.Month(r.Context(), year, time.Month(month), middleware.UserID(r))
	if err != nil {
		fail(w, r, "calendar_month", err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToMonthResp(v))
}

func (h *CalendarHandler) DateRange(w http.ResponseWriter, r *http.Request) {
	start, err := requiredDate(r, "start")
	if err != nil {
		fail(w, r, "calendar_range", err)
		return
	}
	end, err := requiredDate(r, "end")
	if err != nil {
		fail(w, r, "calendar_range", err)
		return
	}
	v, err := h.svc.DateRange(r.Context(), start, end, middleware.UserID(r))
	if err != nil {
		fail(w, r, "calendar_range", err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToRangeResp(v))
}

func (h *CalendarHandler) YearOverview(w http.ResponseWriter, r *http.Request) {
	year, err := requiredInt(r, "year")
	if err != nil {
		fail(w, r, "calendar_year", err)
		return
	}
	v, err := h.svc.YearOverview(r.Context(), year, middleware.UserID(r))
	if err != nil {
		fail(w, r, "calendar_year", err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToYearOverviewResp(v))
}
