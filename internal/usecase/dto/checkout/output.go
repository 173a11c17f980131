package checkoutdto

import (
	"time"

	"github.com/LavaJover/shvark-redsys-service/internal/redsys"
)

type CreateOrderOutput struct {
	OrderID string `json:"order_id"`
	*redsys.PaymentRequest
}

type OrderStatusOutput struct {
	OrderID     string    `json:"order_id"`
	Status      string    `json:"status"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
}
