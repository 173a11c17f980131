package usecase

import (
	"context"

	"github.com/LavaJover/shvark-redsys-service/internal/redsys"
)

// Auditor appends forensic entries. Implementations must not fail the caller.
type Auditor interface {
	Log(ctx context.Context, event, orderID string, payload any, cause error)
}

type IDGenerator interface {
	OrderID() string
	NewID() string
}

type CallbackURLBuilder interface {
	CallbackURLs(orderID string) redsys.CallbackURLs
}
