package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-redsys-service/internal/domain"
	"github.com/LavaJover/shvark-redsys-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-redsys-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultPaymentRepository struct {
	DB *gorm.DB
}

func NewDefaultPaymentRepository(db *gorm.DB) *DefaultPaymentRepository {
	return &DefaultPaymentRepository{DB: db}
}

func (r *DefaultPaymentRepository) FindPayment(ctx context.Context, orderID, provider string) (*domain.Payment, error) {
	var payment models.PaymentModel
	err := r.DB.WithContext(ctx).
		Where("order_id = ? AND provider = ?", orderID, provider).
		First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s/%s", domain.ErrPaymentNotFound, orderID, provider)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find payment %s: %v", domain.ErrPersistence, orderID, err)
	}
	return mappers.ToDomainPayment(&payment), nil
}

func (r *DefaultPaymentRepository) RecordPayment(ctx context.Context, payment *domain.Payment, newStatus domain.OrderStatus) error {
	paymentModel := mappers.ToGORMPayment(payment)

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(paymentModel).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrDuplicateNotification
			}
			return err
		}

		result := tx.Model(&models.OrderModel{}).
			Where("id = ? AND status = ?", payment.OrderID, domain.StatusPending).
			Updates(map[string]any{"status": newStatus, "updated_at": time.Now().UTC()})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrOrderFinalized
		}
		return nil
	})

	switch {
	case err == nil:
		payment.CreatedAt = paymentModel.CreatedAt
		return nil
	case errors.Is(err, domain.ErrDuplicateNotification), errors.Is(err, domain.ErrOrderFinalized):
		return fmt.Errorf("order %s: %w", payment.OrderID, err)
	default:
		return fmt.Errorf("%w: record payment %s: %v", domain.ErrPersistence, payment.OrderID, err)
	}
}
