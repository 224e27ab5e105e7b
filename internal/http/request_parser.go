package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxBodyBytes caps request bodies; a full snapshot is a few kilobytes.
const maxBodyBytes = 1 << 20

// requestError is a client error carrying the status to answer with.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string { return e.msg }

// DecodeJSON decodes exactly one JSON value from the body into v. Unknown
// object keys are rejected.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return classifyDecodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return &requestError{status: http.StatusBadRequest, msg: "request body must contain a single JSON value"}
	}
	return nil
}

func classifyDecodeError(err error) error {
	var (
		maxErr    *http.MaxBytesError
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &maxErr):
		return &requestError{status: http.StatusRequestEntityTooLarge, msg: fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit)}
	case errors.Is(err, io.EOF):
		return &requestError{status: http.StatusBadRequest, msg: "request body is empty"}
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return &requestError{status: http.StatusBadRequest, msg: "request body is not valid JSON"}
	case errors.As(err, &typeErr):
		return &requestError{status: http.StatusBadRequest, msg: fmt.Sprintf("field %q has the wrong type", typeErr.Field)}
	default:
		// DisallowUnknownFields reports `json: unknown field "x"`.
		return &requestError{status: http.StatusBadRequest, msg: err.Error()}
	}
}
