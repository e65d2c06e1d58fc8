package validate

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/baechuer/trip-service/internal/domain"
)

const maxBodyBytes = 1 << 20

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		// Report json field names in error meta.
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return v
}

func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// Struct runs validator tags on dst and turns failures into a validation
// AppError keyed by json field path.
func Struct(dst any) error {
	err := instance().Struct(dst)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return domain.ErrValidation("invalid request body")
	}
	meta := make(map[string]string, len(ves))
	for _, fe := range ves {
		meta[fieldPath(fe.Namespace())] = describe(fe)
	}
	return domain.ErrValidationMeta("invalid request body", meta)
}

// fieldPath drops the root struct name: "CreateTripReq.stops[0].city_id"
// becomes "stops[0].city_id".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param()
	case "gte":
		return "must be >= " + fe.Param()
	case "datetime":
		return "must be YYYY-MM-DD"
	default:
		return "failed " + fe.Tag()
	}
}
