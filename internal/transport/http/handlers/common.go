package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/baechuer/trip-service/internal/application/trip"
	"github.com/baechuer/trip-service/internal/domain"
	"github.com/baechuer/trip-service/internal/logger"
	"github.com/baechuer/trip-service/internal/transport/http/dto"
	"github.com/baechuer/trip-service/internal/transport/http/middleware"
	"github.com/baechuer/trip-service/internal/transport/http/response"
	"github.com/baechuer/trip-service/internal/transport/http/validate"
)

// fail writes err. Non-domain errors are logged with the operation and the
// requester before the generic 500 goes out.
func fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if err == nil || domain.CodeOf(err) != "" {
		response.Err(w, r, err)
		return
	}
	logger.Ctx(r.Context()).Error().Err(err).
		Str("op", op).
		Str("requester_id", middleware.UserID(r)).
		Msg("request failed")
	response.Fail(w, http.StatusInternalServerError, "internal_error", "internal error", nil, response.RequestIDFromRequest(r))
}

// pageRequest never rejects: garbage page/limit values fall back to defaults.
func pageRequest(r *http.Request) trip.PageRequest {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return trip.NewPageRequest(page, limit)
}

func requiredInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, domain.ErrValidationMeta("missing query param", map[string]string{name: "is required"})
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ErrValidationMeta("invalid query param", map[string]string{name: "must be an integer"})
	}
	return v, nil
}

func requiredDate(r *http.Request, name string) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return time.Time{}, domain.ErrValidationMeta("missing query param", map[string]string{name: "is required"})
	}
	return dto.ParseDateField(name, raw)
}

// decode reads and validates a JSON body into dst.
func decode(r *http.Request, dst any) error {
	if err := validate.DecodeJSON(r, dst); err != nil {
		return domain.ErrValidationMeta("invalid json body", map[string]string{
			"body": "malformed JSON or invalid fields",
		})
	}
	return validate.Struct(dst)
}
