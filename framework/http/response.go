package http

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/km-arc/simpledi/framework/container"
)

// Response writes the inspector's JSON bodies.
type Response struct {
	w http.ResponseWriter
}

// NewResponse wraps a ResponseWriter.
func NewResponse(w http.ResponseWriter) *Response {
	return &Response{w: w}
}

// JSON sends data as-is with status.
func (res *Response) JSON(status int, data any) {
	res.w.Header().Set("Content-Type", "application/json")
	res.w.WriteHeader(status)
	_ = json.NewEncoder(res.w).Encode(data)
}

// Success sends 200 {"data": v}.
func (res *Response) Success(v any) {
	res.JSON(http.StatusOK, envelope{"data": v})
}

// Error sends {"message": message} with status.
func (res *Response) Error(status int, message string) {
	res.JSON(status, envelope{"message": message})
}

// NotFound sends 404, "Not found." unless a message is given.
func (res *Response) NotFound(message ...string) {
	msg := "Not found."
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}
	res.Error(http.StatusNotFound, msg)
}

// Fail reports a container error: {"message": err, "error": code}, with
// the status matching the error's kind.
//
//	res.Fail(&container.UnknownDependencyError{Name: "Car"}) // 404 unknown_dependency
func (res *Response) Fail(err error) {
	status, code := classify(err)
	res.JSON(status, envelope{"message": err.Error(), "error": code})
}

type envelope map[string]any

var failures = []struct {
	target error
	status int
	code   string
}{
	{container.ErrUnknownDependency, http.StatusNotFound, "unknown_dependency"},
	{container.ErrDuplicateName, http.StatusConflict, "duplicate_name"},
	{container.ErrInvalidName, http.StatusBadRequest, "invalid_name"},
	{container.ErrInvalidProducer, http.StatusBadRequest, "invalid_producer"},
	{container.ErrInvalidDependencyList, http.StatusBadRequest, "invalid_dependency_list"},
	{container.ErrCircularDependency, http.StatusConflict, "circular_dependency"},
	{container.ErrRedundantArgs, http.StatusConflict, "redundant_args"},
	{container.ErrArgument, http.StatusUnprocessableEntity, "argument"},
	{container.ErrProducer, http.StatusInternalServerError, "producer"},
}

func classify(err error) (int, string) {
	for _, f := range failures {
		if errors.Is(err, f.target) {
			return f.status, f.code
		}
	}
	return http.StatusInternalServerError, "internal"
}
