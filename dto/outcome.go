package dto

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidFormat      = errors.New("invalid format")
	ErrCodeParse          = errors.New("code parse error")
	ErrDataParse          = errors.New("data parse error")
	ErrEmptyData          = errors.New("empty data")
	ErrNetworkUnavailable = errors.New("network unavailable")
)

type OutcomeKind string

const (
	OutcomeSuccess        OutcomeKind = "success"
	OutcomeServiceError   OutcomeKind = "service_error"
	OutcomeTransportError OutcomeKind = "transport_error"
)

// ServiceError is a well-formed envelope whose code is not the success code.
type ServiceError struct {
	Code    int
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service error %d: %s", e.Code, e.Message)
}

// TransportError covers network faults, missing connectivity and malformed
// envelopes. Cause is one of the Err* sentinels or the underlying transport
// error.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	if e.Cause == nil {
		return "transport error"
	}
	return "transport error: " + e.Cause.Error()
}

func (e *TransportError) Unwrap() error { return e.Cause }

// Outcome is the result of resolving one request emission.
type Outcome[T any] struct {
	Kind  OutcomeKind
	Value T
	Err   error
}

func Success[T any](v T) Outcome[T] {
	return Outcome[T]{Kind: OutcomeSuccess, Value: v}
}

func ServiceFailure[T any](code int, message string) Outcome[T] {
	return Outcome[T]{Kind: OutcomeServiceError, Err: &ServiceError{Code: code, Message: message}}
}

func TransportFailure[T any](cause error) Outcome[T] {
	var te *TransportError
	if errors.As(cause, &te) {
		return Outcome[T]{Kind: OutcomeTransportError, Err: te}
	}
	return Outcome[T]{Kind: OutcomeTransportError, Err: &TransportError{Cause: cause}}
}

// FailureOf carries a failed outcome over to another value type.
func FailureOf[T, U any](o Outcome[U]) Outcome[T] {
	return Outcome[T]{Kind: o.Kind, Err: o.Err}
}

func (o Outcome[T]) OK() bool { return o.Kind == OutcomeSuccess }

// Get mirrors the (value, error) convention.
func (o Outcome[T]) Get() (T, error) {
	if o.Kind == OutcomeSuccess {
		return o.Value, nil
	}
	var zero T
	return zero, o.Err
}

// ServiceCode returns the envelope code of a service error.
func (o Outcome[T]) ServiceCode() (int, bool) {
	var se *ServiceError
	if errors.As(o.Err, &se) {
		return se.Code, true
	}
	return 0, false
}
