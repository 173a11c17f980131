package domain

import (
	"context"
	"errors"
	"net/http"
)

var (
	ErrSigning               = errors.New("signing failed")
	ErrDecode                = errors.New("malformed merchant parameters")
	ErrAuthentication        = errors.New("signature verification failed")
	ErrOrderNotFound         = errors.New("order not found")
	ErrPaymentNotFound       = errors.New("payment not found")
	ErrDuplicateNotification = errors.New("notification already processed")
	ErrOrderFinalized        = errors.New("order already in terminal status")
	ErrPersistence           = errors.New("persistence fault")
	ErrInvalidOrder          = errors.New("invalid order")
	ErrOrderRefTooLong       = errors.New("order reference longer than 12 characters")
)

// ValidationError carries field-level details and unwraps to ErrInvalidOrder.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "invalid order"
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidOrder
}

func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSigning):
		return "signing_error"
	case errors.Is(err, ErrDecode):
		return "decode_error"
	case errors.Is(err, ErrAuthentication):
		return "authentication_failure"
	case errors.Is(err, ErrOrderNotFound), errors.Is(err, ErrPaymentNotFound):
		return "not_found"
	case errors.Is(err, ErrDuplicateNotification), errors.Is(err, ErrOrderFinalized):
		return "duplicate_notification"
	case errors.Is(err, ErrPersistence):
		return "persistence_fault"
	case errors.Is(err, ErrInvalidOrder), errors.Is(err, ErrOrderRefTooLong):
		return "invalid_order"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "internal"
	}
}

func HTTPStatus(err error) int {
	switch Kind(err) {
	case "":
		return http.StatusOK
	case "invalid_order", "decode_error":
		return http.StatusBadRequest
	case "authentication_failure":
		return http.StatusForbidden
	case "not_found":
		return http.StatusNotFound
	case "duplicate_notification":
		return http.StatusOK
	case "timeout":
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
