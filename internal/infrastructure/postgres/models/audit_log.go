package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditLogModel struct {
	ID        string  `gorm:"primaryKey;type:varchar(36)"`
	Event     string  `gorm:"type:varchar(64);not null;index:idx_audit_logs_event"`
	OrderID   *string `gorm:"type:varchar(32);index:idx_audit_logs_order"`
	Payload   datatypes.JSON
	Error     string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"index:idx_audit_logs_created_at"`
}

func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// All lists every model of the service in dependency order.
func All() []any {
	return []any{&OrderModel{}, &OrderItemModel{}, &PaymentModel{}, &AuditLogModel{}}
}
