package validate

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/baechuer/trip-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Name string `json:"name"`
	}

	t.Run("valid_json_decoding", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Italy"}`))
		var dst body
		require.NoError(t, DecodeJSON(req, &dst))
		assert.Equal(t, "Italy", dst.Name)
	})

	t.Run("fail_on_unknown_fields", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"x","owner_id":"u9"}`))
		var dst body
		err := DecodeJSON(req, &dst)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown field")
	})

	t.Run("fail_on_malformed_json", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":`))
		var dst body
		assert.Error(t, DecodeJSON(req, &dst))
	})
}

func TestStruct(t *testing.T) {
	type child struct {
		CityID string `json:"city_id" validate:"required"`
	}
	type req struct {
		Name      string  `json:"name" validate:"required,max=5"`
		StartDate string  `json:"start_date" validate:"required,datetime=2006-01-02"`
		Cost      float64 `json:"cost" validate:"gte=0"`
		Stops     []child `json:"stops" validate:"dive"`
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, Struct(&req{Name: "Alps", StartDate: "2024-06-01"}))
	})

	t.Run("reports_json_field_paths", func(t *testing.T) {
		err := Struct(&req{Name: "Too long", StartDate: "06/01/2024", Cost: -1, Stops: []child{{}}})
		require.Error(t, err)
		assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))

		var ae *domain.AppError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, "must be at most 5", ae.Meta["name"])
		assert.Equal(t, "must be YYYY-MM-DD", ae.Meta["start_date"])
		assert.Equal(t, "must be >= 0", ae.Meta["cost"])
		assert.Equal(t, "is required", ae.Meta["stops[0].city_id"])
	})
}
