package domain

import "time"

const (
	EventOrderCreated          = "order_created"
	EventNotifyMissingFields   = "notify_missing_fields"
	EventNotifySignatureFailed = "notify_signature_failed"
	EventNotifyDecodeFailed    = "notify_decode_failed"
	EventNotifyMissingOrder    = "notify_missing_order"
	EventNotifyOrderNotFound   = "notify_order_not_found"
	EventNotifyDuplicate       = "notify_duplicate"
	EventNotifyPaid            = "notify_paid"
	EventNotifyFailed          = "notify_failed"
	EventNotifyError           = "notify_error"
)

// AuditEntry is an append-only forensic record. OrderID and Error may be empty.
type AuditEntry struct {
	ID        string
	Event     string
	OrderID   string
	Payload   []byte
	Error     string
	CreatedAt time.Time
}
