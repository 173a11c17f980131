package mappers

import (
	"github.com/LavaJover/shvark-redsys-service/internal/domain"
	"github.com/LavaJover/shvark-redsys-service/internal/infrastructure/postgres/models"
)

func ToDomainOrder(model *models.OrderModel) *domain.Order {
	order := &domain.Order{
		ID:          model.ID,
		Reference:   model.Reference,
		Status:      model.Status,
		AmountMinor: model.AmountMinor,
		Currency:    model.Currency,
		Customer: domain.Customer{
			Name:       model.CustomerName,
			Email:      model.CustomerEmail,
			Phone:      model.CustomerPhone,
			Address:    model.CustomerAddress,
			PostalCode: model.CustomerPostalCode,
			City:       model.CustomerCity,
			Province:   model.CustomerProvince,
		},
		Notes:     model.Notes,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
	for i := range model.Items {
		order.Items = append(order.Items, ToDomainOrderItem(&model.Items[i]))
	}
	return order
}

func ToGORMOrder(order *domain.Order) *models.OrderModel {
	model := &models.OrderModel{
		ID:                 order.ID,
		Reference:          order.Reference,
		Status:             order.Status,
		AmountMinor:        order.AmountMinor,
		Currency:           order.Currency,
		CustomerName:       order.Customer.Name,
		CustomerEmail:      order.Customer.Email,
		CustomerPhone:      order.Customer.Phone,
		CustomerAddress:    order.Customer.Address,
		CustomerPostalCode: order.Customer.PostalCode,
		CustomerCity:       order.Customer.City,
		CustomerProvince:   order.Customer.Province,
		Notes:              order.Notes,
		CreatedAt:          order.CreatedAt,
		UpdatedAt:          order.UpdatedAt,
	}
	for _, item := range order.Items {
		model.Items = append(model.Items, ToGORMOrderItem(order.ID, item))
	}
	return model
}

func ToDomainOrderItem(model *models.OrderItemModel) domain.OrderItem {
	return domain.OrderItem{
		ID:             model.ID,
		OrderID:        model.OrderID,
		ProductSlug:    model.ProductSlug,
		ProductName:    model.ProductName,
		VariantID:      model.VariantID,
		VariantName:    model.VariantName,
		Size:           model.Size,
		Quantity:       model.Quantity,
		UnitPriceMinor: model.UnitPriceMinor,
	}
}

func ToGORMOrderItem(orderID string, item domain.OrderItem) models.OrderItemModel {
	return models.OrderItemModel{
		ID:             item.ID,
		OrderID:        orderID,
		ProductSlug:    item.ProductSlug,
		ProductName:    item.ProductName,
		VariantID:      item.VariantID,
		VariantName:    item.VariantName,
		Size:           item.Size,
		Quantity:       item.Quantity,
		UnitPriceMinor: item.UnitPriceMinor,
	}
}
