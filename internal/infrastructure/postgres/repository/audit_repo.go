package repository

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-redsys-service/internal/domain"
	"github.com/LavaJover/shvark-redsys-service/internal/infrastructure/postgres/mappers"
	"gorm.io/gorm"
)

type DefaultAuditRepository struct {
	DB *gorm.DB
}

func NewDefaultAuditRepository(db *gorm.DB) *DefaultAuditRepository {
	return &DefaultAuditRepository{DB: db}
}

func (r *DefaultAuditRepository) AppendAudit(ctx context.Context, entry *domain.AuditEntry) error {
	if err := r.DB.WithContext(ctx).Create(mappers.ToGORMAuditLog(entry)).Error; err != nil {
		return fmt.Errorf("%w: append audit %s: %v", domain.ErrPersistence, entry.Event, err)
	}
	return nil
}
