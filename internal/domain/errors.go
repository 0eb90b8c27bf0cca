package domain

import (
	"errors"
	"fmt"
)

var (
	ErrConfigurationMissing = errors.New("no statistics server configured")
	ErrPollTimeout          = errors.New("statistics computation timed out")
	ErrPollTransientFailure = errors.New("statistics status check failed")
	ErrTransportFailure     = errors.New("statistics request failed")
)

// StatsError carries the failure kind (one of the sentinels above) together
// with the underlying cause. errors.Is matches both.
type StatsError struct {
	Attempts int
	Cause    error
	Kind     error
}

func (e *StatsError) Error() string {
	msg := e.Kind.Error()
	if e.Attempts > 0 {
		msg = fmt.Sprintf("%s after %d attempts", msg, e.Attempts)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *StatsError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}
