package domain

import "time"

const ProviderRedsys = "redsys"

// Payment is the outcome of one gateway notification for one order.
// There is at most one Payment per (OrderID, Provider).
type Payment struct {
	ID              string
	OrderID         string
	Provider        string
	ResponseCode    string
	AuthCode        string
	RawNotification []byte
	CreatedAt       time.Time
}
