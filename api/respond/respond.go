// Package respond writes JSON responses and maps domain errors to HTTP
// status codes.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/kilianp07/ecocommute/core/ecoscore"
	"github.com/kilianp07/ecocommute/core/monitoring"
	"github.com/kilianp07/ecocommute/core/session"
)

const maxBodyBytes = 1 << 20

// ErrorBody is the payload of every error response.
type ErrorBody struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// RequestError reports a malformed or invalid request.
type RequestError struct {
	Message string
	Details map[string]string
}

func (e *RequestError) Error() string { return e.Message }

// BadRequest returns a RequestError with a formatted message.
func BadRequest(format string, args ...any) error {
	return &RequestError{Message: fmt.Sprintf(format, args...)}
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// Error maps err to a status code and writes an ErrorBody. Unexpected
// errors are reported to the monitor and their message is not exposed.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	body := ErrorBody{RequestID: middleware.GetReqID(r.Context())}
	status := http.StatusInternalServerError

	var reqErr *RequestError
	var legErr *ecoscore.InvalidLegError
	switch {
	case errors.As(err, &legErr):
		status = http.StatusUnprocessableEntity
		body.Code = "invalid_leg"
		body.Message = legErr.Error()
		body.Details = map[string]string{
			"index":  fmt.Sprint(legErr.Index),
			"reason": legErr.Reason,
		}
	case errors.Is(err, ecoscore.ErrInvalidLeg):
		status = http.StatusUnprocessableEntity
		body.Code = "invalid_leg"
		body.Message = err.Error()
	case errors.As(err, &reqErr):
		status = http.StatusBadRequest
		body.Code = "bad_request"
		body.Message = reqErr.Message
		body.Details = reqErr.Details
	case errors.Is(err, session.ErrNotFound):
		status = http.StatusNotFound
		body.Code = "not_found"
		body.Message = err.Error()
	case errors.Is(err, session.ErrIndexOutOfRange):
		status = http.StatusBadRequest
		body.Code = "index_out_of_range"
		body.Message = err.Error()
	default:
		body.Code = "internal"
		body.Message = "an unexpected error occurred"
		monitoring.CaptureException(err, map[string]string{"route": r.URL.Path})
	}
	JSON(w, status, body)
}

// DecodeJSON reads a single JSON object into dst. Unknown fields are
// rejected.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return BadRequest("request body is empty")
		case errors.As(err, &maxErr):
			return BadRequest("request body exceeds %d bytes", maxErr.Limit)
		default:
			return BadRequest("invalid JSON: %v", err)
		}
	}
	if dec.More() {
		return BadRequest("request body must contain a single JSON object")
	}
	return nil
}

var validate = newValidator()

// newValidator reports fields by their JSON name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the validate tags of v and reports violations per field.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	details := make(map[string]string, len(verrs))
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := jsonPath(fe.Namespace())
		details[name] = fe.Tag()
		fields = append(fields, name)
	}
	return &RequestError{
		Message: "invalid fields: " + strings.Join(fields, ", "),
		Details: details,
	}
}

// jsonPath drops the struct name from a validator namespace, e.g.
// "addLegRequest.from.lat" -> "from.lat".
func jsonPath(ns string) string {
	_, rest, ok := strings.Cut(ns, ".")
	if !ok {
		return ns
	}
	return rest
}
