package models

import (
	"errors"
	"net/http"

	"github.com/droplets-system/epoch/state/protocol"
)

// StatusError provides custom error with http status.
type StatusError interface {
	error                // this is the actual error that occurred
	Status() int         // the HTTP status code to return
	UserMessage() string // the error message to return to the client
	Reason() string      // a stable label of the error kind
}

// NewRestError creates an error returned to user with provided status
// user displayed message and internal error
func NewRestError(status int, msg string, err error) *Error {
	return &Error{
		status:      status,
		userMessage: msg,
		reason:      "internal",
		err:         err,
	}
}

// NewNotFoundError creates a new not found rest error.
func NewNotFoundError(msg string, err error) *Error {
	return &Error{
		status:      http.StatusNotFound,
		userMessage: msg,
		reason:      "not_found",
		err:         err,
	}
}

// NewBadRequestError creates a new bad request rest error.
func NewBadRequestError(err error) *Error {
	return &Error{
		status:      http.StatusBadRequest,
		userMessage: err.Error(),
		reason:      "bad_request",
		err:         err,
	}
}

// ErrorToStatusError maps an error returned by the engine to the HTTP status
// reported to the client. Rejections keep their message, anything else is
// an internal error whose details are not exposed.
func ErrorToStatusError(err error) StatusError {
	var statusErr StatusError
	if errors.As(err, &statusErr) {
		return statusErr
	}
	if !protocol.IsRejection(err) {
		return NewRestError(http.StatusInternalServerError, "internal error", err)
	}

	status := http.StatusUnprocessableEntity
	switch {
	case protocol.IsUnauthorizedError(err):
		status = http.StatusForbidden
	case protocol.IsEpochNotFoundError(err),
		errors.Is(err, protocol.ErrOracleNotFound),
		errors.Is(err, protocol.ErrUnknownAccount),
		errors.Is(err, protocol.ErrNoCommitFound):
		status = http.StatusNotFound
	case errors.Is(err, protocol.ErrOracleAlreadyExists),
		errors.Is(err, protocol.ErrAlreadyCommitted),
		errors.Is(err, protocol.ErrAlreadyRevealed),
		errors.Is(err, protocol.ErrAlreadyInitialized),
		errors.Is(err, protocol.ErrEpochAlreadyCompleted):
		status = http.StatusConflict
	case errors.Is(err, protocol.ErrSystemDisabled):
		status = http.StatusServiceUnavailable
	}
	return &Error{
		status:      status,
		userMessage: err.Error(),
		reason:      protocol.RejectionReason(err),
		err:         err,
	}
}

// Error is implementation of status error.
type Error struct {
	status      int
	userMessage string
	reason      string
	err         error
}

func (e *Error) UserMessage() string {
	return e.userMessage
}

// Status returns error http status code.
func (e *Error) Status() int {
	return e.status
}

func (e *Error) Reason() string {
	return e.reason
}

func (e *Error) Error() string {
	return e.err.Error()
}

func (e *Error) Unwrap() error {
	return e.err
}

// ModelError is the body of an error response.
type ModelError struct {
	Code      int    `json:"code"`
	Reason    string `json:"reason"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}
