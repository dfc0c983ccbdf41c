package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
)

// ErrorType classifies service errors for logging and HTTP mapping
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeContextCancelled
	ErrorTypeProviderFailed
	ErrorTypeNetworkError
	ErrorTypeInvalidResponse
	ErrorTypeRateUnavailable
	ErrorTypeInvalidAmount
)

func (errorType ErrorType) String() string {
	switch errorType {
	case ErrorTypeContextCancelled:
		return "context_cancelled"
	case ErrorTypeProviderFailed:
		return "provider_failed"
	case ErrorTypeNetworkError:
		return "network_error"
	case ErrorTypeInvalidResponse:
		return "invalid_response"
	case ErrorTypeRateUnavailable:
		return "rate_unavailable"
	case ErrorTypeInvalidAmount:
		return "invalid_amount"
	default:
		return "unknown"
	}
}

var (
	// ErrRateUnavailable is returned when the target currency has no rate
	ErrRateUnavailable = errors.New("rate unavailable")
	// ErrInvalidAmount is returned for NaN, infinite or negative amounts
	ErrInvalidAmount = errors.New("invalid amount")
)

// ServiceError represents a service-specific error with type information
type ServiceError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// classifyError maps a fetch error to an ErrorType
func classifyError(err error) ErrorType {
	if err == nil {
		return ErrorTypeUnknown
	}

	var serviceError *ServiceError
	if errors.As(err, &serviceError) {
		return serviceError.Type
	}

	var (
		syntaxError *json.SyntaxError
		typeError   *json.UnmarshalTypeError
		netError    net.Error
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorTypeContextCancelled
	case errors.As(err, &syntaxError), errors.As(err, &typeError):
		return ErrorTypeInvalidResponse
	case errors.As(err, &netError):
		return ErrorTypeNetworkError
	default:
		return ErrorTypeUnknown
	}
}
