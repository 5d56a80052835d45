// Package inputval validates decoded request bodies before they reach the store.
//
// Rules are declared with `validate` struct tags and checked by a single
// go-playground validator instance. Field names in messages use the json
// tag, so a client sees the same name it sent (price.amount, dlc[0].title).
package inputval

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/dalemusser/gamecatalog/internal/domain/models"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("platform", func(fl validator.FieldLevel) bool {
		return IsValidPlatform(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		switch f.Kind() {
		case reflect.String:
			return strings.TrimSpace(f.String()) != ""
		case reflect.Slice, reflect.Map, reflect.Array:
			return f.Len() > 0
		default:
			return !f.IsZero()
		}
	})
	return v
}

// FieldError is one failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result collects the failures of one Validate call.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message, or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// Err returns the result as a *ValidationError, or nil when valid.
func (r *Result) Err() error {
	if !r.HasErrors() {
		return nil
	}
	return &ValidationError{Message: r.All(), Fields: r.Errors}
}

// ValidationError is returned for any input the API refuses to store.
// Handlers map it to 400.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError builds a ValidationError with no per-field detail.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// Validate runs the struct's `validate` tags.
func Validate(s any) *Result {
	res := &Result{}
	err := validate.Struct(s)
	if err == nil {
		return res
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		res.Errors = append(res.Errors, FieldError{Message: err.Error()})
		return res
	}
	for _, fe := range verrs {
		field := fieldPath(fe.Namespace())
		res.Errors = append(res.Errors, FieldError{
			Field:   field,
			Message: message(field, fe),
		})
	}
	return res
}

// Struct validates s and returns a *ValidationError on failure.
func Struct(s any) error {
	return Validate(s).Err()
}

// fieldPath drops the leading struct type name from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func message(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "platform":
		return fmt.Sprintf("%s must be one of %s", field, strings.Join(models.Platforms, ", "))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// IsValidPlatform reports whether p is one of the canonical platform names.
// Matching is exact.
func IsValidPlatform(p string) bool {
	return slices.Contains(models.Platforms, p)
}
