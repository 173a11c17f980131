package models

import (
	"time"

	"github.com/LavaJover/shvark-redsys-service/internal/domain"
)

type OrderModel struct {
	ID                 string             `gorm:"primaryKey;type:varchar(32)"`
	Reference          string             `gorm:"type:varchar(12);not null;uniqueIndex:idx_orders_reference"`
	Status             domain.OrderStatus `gorm:"type:varchar(16);not null;index:idx_orders_status"`
	AmountMinor        int64              `gorm:"not null"`
	Currency           string             `gorm:"type:varchar(3);not null"`
	CustomerName       string
	CustomerEmail      string
	CustomerPhone      string
	CustomerAddress    string
	CustomerPostalCode string `gorm:"type:varchar(5)"`
	CustomerCity       string
	CustomerProvince   string
	Notes              string           `gorm:"type:text"`
	Items              []OrderItemModel `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt          time.Time        `gorm:"index:idx_orders_created_at"`
	UpdatedAt          time.Time
}

func (OrderModel) TableName() string {
	return "orders"
}

type OrderItemModel struct {
	ID             string `gorm:"primaryKey;type:varchar(36)"`
	OrderID        string `gorm:"type:varchar(32);not null;index:idx_order_items_order"`
	ProductSlug    string `gorm:"not null"`
	ProductName    string `gorm:"not null"`
	VariantID      string
	VariantName    string
	Size           string
	Quantity       int   `gorm:"not null"`
	UnitPriceMinor int64 `gorm:"not null"`
}

func (OrderItemModel) TableName() string {
	return "order_items"
}
