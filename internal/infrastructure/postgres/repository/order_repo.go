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

type DefaultOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultOrderRepository(db *gorm.DB) *DefaultOrderRepository {
	return &DefaultOrderRepository{DB: db}
}

// CreateOrder stores the order and its items in one transaction.
func (r *DefaultOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	orderModel := mappers.ToGORMOrder(order)
	items := orderModel.Items
	orderModel.Items = nil

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(orderModel).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: create order %s: %v", domain.ErrPersistence, order.ID, err)
	}

	order.CreatedAt = orderModel.CreatedAt
	order.UpdatedAt = orderModel.UpdatedAt
	return nil
}

func (r *DefaultOrderRepository) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	var order models.OrderModel
	if err := r.DB.WithContext(ctx).Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		return nil, orderLookupError(orderID, err)
	}
	return mappers.ToDomainOrder(&order), nil
}

func (r *DefaultOrderRepository) FindOrderByReference(ctx context.Context, reference string) (*domain.Order, error) {
	var order models.OrderModel
	if err := r.DB.WithContext(ctx).First(&order, "reference = ?", reference).Error; err != nil {
		return nil, orderLookupError(reference, err)
	}
	return mappers.ToDomainOrder(&order), nil
}

func (r *DefaultOrderRepository) UpdateOrderStatus(ctx context.Context, orderID string, newStatus domain.OrderStatus) error {
	result := r.DB.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ?", orderID).
		Updates(map[string]any{"status": newStatus, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return fmt.Errorf("%w: update order %s: %v", domain.ErrPersistence, orderID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrOrderNotFound, orderID)
	}
	return nil
}

func orderLookupError(key string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", domain.ErrOrderNotFound, key)
	}
	return fmt.Errorf("%w: find order %s: %v", domain.ErrPersistence, key, err)
}
