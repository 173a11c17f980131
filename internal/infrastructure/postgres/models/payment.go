package models

import (
	"time"

	"gorm.io/datatypes"
)

// PaymentModel holds one gateway outcome. The unique index on (order_id, provider)
// is what makes notification processing idempotent.
type PaymentModel struct {
	ID              string `gorm:"primaryKey;type:varchar(36)"`
	OrderID         string `gorm:"type:varchar(32);not null;uniqueIndex:idx_payments_order_provider"`
	Provider        string `gorm:"type:varchar(32);not null;uniqueIndex:idx_payments_order_provider"`
	ResponseCode    string `gorm:"type:text"`
	AuthCode        string `gorm:"type:text"`
	RawNotification datatypes.JSON
	CreatedAt       time.Time
}

func (PaymentModel) TableName() string {
	return "payments"
}
