package fetch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorMarker prefixes every failure label. Callers that receive an outcome
// string treat anything starting with it as "nothing was fetched".
const ErrorMarker = "Error:"

// Fixed failure labels.
const (
	LabelTimeout    = ErrorMarker + " request timed out"
	LabelCanceled   = ErrorMarker + " request was canceled"
	LabelNetwork    = ErrorMarker + " network failure"
	LabelUnexpected = ErrorMarker + " unexpected failure"
	labelStatus     = ErrorMarker + " unexpected status"
)

// Failure kinds returned (wrapped) by Client.Get.
var (
	ErrTimeout    = errors.New("request timed out")
	ErrCanceled   = errors.New("request was canceled")
	ErrNetwork    = errors.New("network failure")
	ErrUnexpected = errors.New("unexpected failure")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// StatusLabel returns the failure label for a non-2xx status code.
func StatusLabel(code int) string {
	return fmt.Sprintf("%s %d", labelStatus, code)
}

// Label converts an error from Client.Get into its fixed outcome label.
func Label(err error) string {
	var statusErr *StatusError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &statusErr):
		return StatusLabel(statusErr.Code)
	case errors.Is(err, ErrTimeout):
		return LabelTimeout
	case errors.Is(err, ErrCanceled):
		return LabelCanceled
	case errors.Is(err, ErrNetwork):
		return LabelNetwork
	default:
		return LabelUnexpected
	}
}

// IsError reports whether an outcome string is a failure label.
func IsError(outcome string) bool {
	return strings.HasPrefix(outcome, ErrorMarker)
}

func outcomeName(err error) string {
	var statusErr *StatusError
	switch {
	case err == nil:
		return outcomeOK
	case errors.As(err, &statusErr):
		return outcomeStatus
	case errors.Is(err, ErrTimeout):
		return outcomeTimeout
	case errors.Is(err, ErrCanceled):
		return outcomeCanceled
	case errors.Is(err, ErrNetwork):
		return outcomeNetwork
	default:
		return outcomeUnexpected
	}
}
