package domain

import (
	"context"
	"time"
)

type Message struct {
	Key   []byte
	Value []byte
}

type PublisherPort interface {
	Publish(ctx context.Context, topic string, msgs ...Message) error
}

type SubscriberPort interface {
	Subscribe(ctx context.Context, topic, groupID string) (<-chan Message, error)
}

// PaymentEvent is emitted after a notification has been committed.
type PaymentEvent struct {
	OrderID      string      `json:"order_id"`
	Reference    string      `json:"reference"`
	Status       OrderStatus `json:"status"`
	ResponseCode string      `json:"response_code"`
	AuthCode     string      `json:"auth_code"`
	AmountMinor  int64       `json:"amount_minor"`
	Currency     string      `json:"currency"`
	ProcessedAt  time.Time   `json:"processed_at"`
}

type PaymentEventPublisher interface {
	PublishPaymentEvent(ctx context.Context, event PaymentEvent) error
}
