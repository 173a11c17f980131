package domain

import "time"

type OrderStatus string

const (
	StatusPending OrderStatus = "PENDING"
	StatusPaid    OrderStatus = "PAID"
	StatusFailed  OrderStatus = "FAILED"
)

// IsTerminal reports whether the status can no longer be changed by a gateway notification.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusPaid || s == StatusFailed
}

type Customer struct {
	Name       string
	Email      string
	Phone      string
	Address    string
	PostalCode string
	City       string
	Province   string
}

type Order struct {
	ID          string
	Reference   string
	Status      OrderStatus
	AmountMinor int64
	Currency    string
	Customer    Customer
	Notes       string
	Items       []OrderItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderItem keeps a snapshot of the catalog entry at order time.
type OrderItem struct {
	ID             string
	OrderID        string
	ProductSlug    string
	ProductName    string
	VariantID      string
	VariantName    string
	Size           string
	Quantity       int
	UnitPriceMinor int64
}

func (i OrderItem) Total() int64 {
	return int64(i.Quantity) * i.UnitPriceMinor
}

// ItemsTotal sums quantity * unit price over all items.
func (o *Order) ItemsTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Total()
	}
	return total
}
