// Package transport holds the failure taxonomy shared by registry
// transports. A transport reports every failure as an *Error so the client
// can describe it without knowing how the bytes moved.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorCategory defines the normalized failure taxonomy
type ErrorCategory string

const (
	// ErrorTimeout indicates the registry took too long to respond
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorProviderOutage indicates the registry is unreachable or answered
	// with a server error
	ErrorProviderOutage ErrorCategory = "provider_outage"

	// ErrorBadData indicates the reply could not be decoded
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorProtocolFault indicates the registry answered with a SOAP fault
	ErrorProtocolFault ErrorCategory = "protocol_fault"

	// ErrorCanceled indicates the caller gave up
	ErrorCanceled ErrorCategory = "canceled"

	// ErrorInternal indicates an unexpected internal error
	ErrorInternal ErrorCategory = "internal"
)

// Error wraps transport failures with normalized categorization
type Error struct {
	Category   ErrorCategory
	Endpoint   string
	Message    string
	Underlying error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("registry %s [%s]: %s: %v", e.Endpoint, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("registry %s [%s]: %s", e.Endpoint, e.Category, e.Message)
}

// Unwrap supports error unwrapping
func (e *Error) Unwrap() error {
	return e.Underlying
}

// Detail is the short description carried by a TransportFailure outcome.
func (e *Error) Detail() string {
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

// NewError creates a new normalized transport error
func NewError(category ErrorCategory, endpoint, message string, underlying error) *Error {
	return &Error{
		Category:   category,
		Endpoint:   endpoint,
		Message:    message,
		Underlying: underlying,
	}
}

// GetCategory extracts the error category from an error
func GetCategory(err error) ErrorCategory {
	var te *Error
	if errors.As(err, &te) {
		return te.Category
	}
	return ErrorInternal
}

// Normalize returns err as an *Error, categorizing errors that are not one
// already. Cancellation and deadlines are recognized through wrapping.
func Normalize(err error, endpoint string) *Error {
	if err == nil {
		return nil
	}
	var te *Error
	if errors.As(err, &te) {
		return te
	}

	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		return NewError(ErrorCanceled, endpoint, "request canceled", err)
	case errors.Is(err, context.DeadlineExceeded):
		return NewError(ErrorTimeout, endpoint, "deadline exceeded", err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return NewError(ErrorTimeout, endpoint, "network timeout", err)
	default:
		return NewError(ErrorProviderOutage, endpoint, "registry unavailable", err)
	}
}

// Detail describes err for a TransportFailure outcome.
func Detail(err error) string {
	if err == nil {
		return ""
	}
	return Normalize(err, "").Detail()
}
