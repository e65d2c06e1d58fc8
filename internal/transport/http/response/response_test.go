package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/baechuer/trip-service/internal/domain"
	appCtx "github.com/baechuer/trip-service/internal/pkg/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErr(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not_found", domain.ErrTripNotFound(), http.StatusNotFound, "not_found"},
		{"validation", domain.ErrValidation("bad date"), http.StatusBadRequest, "validation_error"},
		{"unauthorized", domain.ErrUnauthenticated("missing requester"), http.StatusUnauthorized, "unauthorized"},
		{"forbidden", domain.ErrForbidden("not your trip"), http.StatusForbidden, "forbidden"},
		{"conflict", domain.ErrInvalidState("slot taken"), http.StatusConflict, "invalid_state"},
		{"wrapped_domain_error", fmt.Errorf("add stop: %w", domain.ErrNotFound("city")), http.StatusNotFound, "not_found"},
		{"generic_error", errors.New("db crash"), http.StatusInternalServerError, "internal_error"},
		{"nil_error", nil, http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/trips", nil)
			Err(rr, req, tt.err)

			assert.Equal(t, tt.wantStatus, rr.Code)

			var body ErrorBody
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}

	t.Run("internal_error_hides_details", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		Err(rr, req, errors.New("pq: password authentication failed"))
		assert.NotContains(t, rr.Body.String(), "password")
	})

	t.Run("meta_and_request_id_are_included", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(appCtx.WithRequestID(req.Context(), "req-1"))

		Err(rr, req, domain.ErrValidationMeta("invalid query param", map[string]string{"date": "must be YYYY-MM-DD"}))

		var body ErrorBody
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "req-1", body.Error.RequestID)
		assert.Equal(t, "must be YYYY-MM-DD", body.Error.Meta["date"])
	})
}

func TestData(t *testing.T) {
	rr := httptest.NewRecorder()
	Data(rr, http.StatusCreated, map[string]string{"id": "123"})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))

	var env Envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	dataMap := env.Data.(map[string]any)
	assert.Equal(t, "123", dataMap["id"])
}

func TestRequestIDFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, RequestIDFromRequest(req))

	req.Header.Set("X-Request-Id", "from-header")
	assert.Equal(t, "from-header", RequestIDFromRequest(req))

	req = req.WithContext(appCtx.WithRequestID(req.Context(), "from-ctx"))
	assert.Equal(t, "from-ctx", RequestIDFromRequest(req))
}
