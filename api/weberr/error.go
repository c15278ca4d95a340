package weberr

import (
	"net/http"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
	Missing []string          `json:"missing,omitempty"`
}

type RequestError struct {
	Err error
}

func (r *RequestError) Error() string { return r.Err.Error() }

func (e *RequestError) Unwrap() error { return e.Err }

func NewError(err error, msg string, status int, opts ...Opt) error {
	return newError(err, &ErrorResponse{Error: msg}, status, opts...)
}

func newError(err error, body *ErrorResponse, status int, opts ...Opt) error {
	e := &RequestError{Err: err}
	opts = append(opts, WithResponse(body, status))

	return Wrap(e, opts...)
}

func NotFound(err error, opts ...Opt) error {
	return NewError(
		err,
		"the resource could not be found",
		http.StatusNotFound,
		opts...,
	)
}

func NotAuthorized(err error, opts ...Opt) error {
	return NewError(
		err,
		"not authorized to access resource",
		http.StatusUnauthorized,
		opts...,
	)
}

func InternalError(err error, opts ...Opt) error {
	return NewError(
		err,
		"the server encountered a problem and could not process your request",
		http.StatusInternalServerError,
		opts...,
	)
}

func BadRequest(err error, opts ...Opt) error {
	return NewError(
		err,
		"bad request",
		http.StatusBadRequest,
		opts...,
	)
}

// Invalid is a bad request whose body lists every rejected field.
func Invalid(err error, fields map[string]string, opts ...Opt) error {
	return newError(
		err,
		&ErrorResponse{Error: "invalid input", Fields: fields},
		http.StatusBadRequest,
		opts...,
	)
}

// PreconditionFailed lists every requirement the resource is missing.
func PreconditionFailed(err error, missing []string, opts ...Opt) error {
	return newError(
		err,
		&ErrorResponse{Error: "the resource does not meet the requirements", Missing: missing},
		http.StatusPreconditionFailed,
		opts...,
	)
}

func TooManyRequests(err error, opts ...Opt) error {
	return NewError(
		err,
		"rate limit exceeded",
		http.StatusTooManyRequests,
		opts...,
	)
}
