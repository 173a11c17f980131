package domain

import "context"

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) error
	GetOrderByID(ctx context.Context, orderID string) (*Order, error)
	FindOrderByReference(ctx context.Context, reference string) (*Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, newStatus OrderStatus) error
}

type PaymentRepository interface {
	FindPayment(ctx context.Context, orderID, provider string) (*Payment, error)
	// RecordPayment inserts the payment and moves the order out of PENDING in one transaction.
	// A second payment for the same (order, provider) fails with ErrDuplicateNotification.
	RecordPayment(ctx context.Context, payment *Payment, newStatus OrderStatus) error
}

type AuditRepository interface {
	AppendAudit(ctx context.Context, entry *AuditEntry) error
}
