package mappers

import (
	"github.com/LavaJover/shvark-redsys-service/internal/domain"
	"github.com/LavaJover/shvark-redsys-service/internal/infrastructure/postgres/models"
	"gorm.io/datatypes"
)

func ToDomainPayment(model *models.PaymentModel) *domain.Payment {
	return &domain.Payment{
		ID:              model.ID,
		OrderID:         model.OrderID,
		Provider:        model.Provider,
		ResponseCode:    model.ResponseCode,
		AuthCode:        model.AuthCode,
		RawNotification: []byte(model.RawNotification),
		CreatedAt:       model.CreatedAt,
	}
}

func ToGORMPayment(payment *domain.Payment) *models.PaymentModel {
	return &models.PaymentModel{
		ID:              payment.ID,
		OrderID:         payment.OrderID,
		Provider:        payment.Provider,
		ResponseCode:    payment.ResponseCode,
		AuthCode:        payment.AuthCode,
		RawNotification: datatypes.JSON(payment.RawNotification),
		CreatedAt:       payment.CreatedAt,
	}
}

func ToGORMAuditLog(entry *domain.AuditEntry) *models.AuditLogModel {
	model := &models.AuditLogModel{
		ID:        entry.ID,
		Event:     entry.Event,
		Payload:   datatypes.JSON(entry.Payload),
		Error:     entry.Error,
		CreatedAt: entry.CreatedAt,
	}
	if entry.OrderID != "" {
		orderID := entry.OrderID
		model.OrderID = &orderID
	}
	return model
}

func ToDomainAuditEntry(model *models.AuditLogModel) *domain.AuditEntry {
	entry := &domain.AuditEntry{
		ID:        model.ID,
		Event:     model.Event,
		Payload:   []byte(model.Payload),
		Error:     model.Error,
		CreatedAt: model.CreatedAt,
	}
	if model.OrderID != nil {
		entry.OrderID = *model.OrderID
	}
	return entry
}
