// Package decoder decodes JSON request bodies strictly: one object, no
// unknown keys, bounded size.
package decoder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MaxBodyBytes bounds every decoded request body.
const MaxBodyBytes = 1_048_576

// RequestError is a client mistake in the request body. Handlers map it to 400.
type RequestError struct {
	Message string
	Err     error
}

func (e *RequestError) Error() string { return e.Message }

func (e *RequestError) Unwrap() error { return e.Err }

func badRequest(err error, format string, args ...any) *RequestError {
	return &RequestError{Message: fmt.Sprintf(format, args...), Err: err}
}

// DecodeJSONBody decodes r's body into dst. Any failure caused by the body
// itself is returned as a *RequestError.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return badRequest(err, "Request body contains badly-formed JSON (at character %d)", syntaxError.Offset)

		case errors.Is(err, io.ErrUnexpectedEOF):
			return badRequest(err, "Request body contains badly-formed JSON")

		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return badRequest(err, "Request body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return badRequest(err, "Request body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)

		case errors.Is(err, io.EOF):
			return badRequest(err, "Request body must not be empty")

		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return badRequest(err, "Request body contains unknown key %s", fieldName)

		case errors.As(err, &maxBytesError):
			return badRequest(err, "Request body must not be larger than %d bytes", maxBytesError.Limit)

		case errors.As(err, &invalidUnmarshalError):
			panic(err)

		default:
			// Errors from custom UnmarshalJSON methods (dates, amounts) carry
			// a message meant for the client.
			return badRequest(err, "%s", err.Error())
		}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return badRequest(err, "Request body must only contain a single JSON object")
	}
	return nil
}
