package errresponse

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/news/internal/model"
)

// ErrResponse renderer type for handling all sorts of errors.
//
// Err keeps the low-level cause for logging; it is never serialized, so store
// and driver details do not reach the client.
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText string             `json:"status"`          // user-level status message
	ErrorText  string             `json:"error,omitempty"` // application-level error message
	Fields     []model.FieldError `json:"errors,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)

	return nil
}

// Internal reports whether the response hides a server-side failure.
func (e *ErrResponse) Internal() bool {
	return e.HTTPStatusCode >= http.StatusInternalServerError
}

func ErrInvalidRequest(err error) *ErrResponse {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrValidation(err *model.ValidationError) *ErrResponse {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Validation failed.",
		Fields:         err.Fields,
	}
}

func ErrUnauthorized(err error) *ErrResponse {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusUnauthorized,
		StatusText:     "Not authorized.",
	}
}

func ErrInternal(err error) *ErrResponse {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     "Internal server error.",
	}
}

func ErrTooManyRequests() *ErrResponse {
	return &ErrResponse{
		HTTPStatusCode: http.StatusTooManyRequests,
		StatusText:     "Too many requests.",
	}
}

// ErrNotFound is the shared 404 payload.
var ErrNotFound = &ErrResponse{HTTPStatusCode: http.StatusNotFound, StatusText: "News not found."}

// From maps an operation error onto its response.
func From(err error) *ErrResponse {
	var verr *model.ValidationError

	switch {
	case errors.As(err, &verr):
		return ErrValidation(verr)
	case errors.Is(err, model.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, model.ErrUnauthorized):
		return ErrUnauthorized(err)
	default:
		return ErrInternal(err)
	}
}
