// Package validation wraps go-playground/validator so every caller reports
// failures the same way: fields under their JSON names, as apperr.ValidationError.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wolfman30/voice-booking-demo/internal/apperr"
)

var std = New()

// New returns a validator that names fields by their JSON tag, falling back
// to the Go field name when the tag is absent or "-".
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Struct validates v. Missing required fields are reported together; the
// first other failure is reported alone.
func Struct(v any) error {
	err := std.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	var missing []string
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			missing = append(missing, fe.Field())
		case "max":
			return apperr.Validation("%s exceeds %s characters", fe.Field(), fe.Param())
		default:
			return apperr.Validation("%s is invalid", fe.Field())
		}
	}
	if len(missing) == 1 {
		return apperr.Validation("%s is required", missing[0])
	}
	return apperr.MissingFields(missing...)
}
