package setup

import (
	"fmt"

	"github.com/LavaJover/shvark-redsys-service/internal/config"
	"github.com/LavaJover/shvark-redsys-service/internal/domain"
	"github.com/LavaJover/shvark-redsys-service/internal/infrastructure/idgen"
	publisher "github.com/LavaJover/shvark-redsys-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-redsys-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-redsys-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-redsys-service/internal/infrastructure/postgres/repository"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config     *config.RedsysServiceConfig
	DB         *gorm.DB
	Logger     *zap.Logger
	Metrics    *metrics.GatewayMetrics
	IDs        *idgen.Generator
	Auditor    *logger.AuditLogger
	Publisher  *publisher.DefaultKafkaPublisher
	Subscriber *publisher.DefaultKafkaSubscriber

	Repositories *Repositories
}

type Repositories struct {
	OrderRepo   domain.OrderRepository
	PaymentRepo domain.PaymentRepository
	AuditRepo   domain.AuditRepository
}

// InitializeDependencies wires storage, messaging and observability around an open db.
// Kafka clients stay nil when kafka-service.enabled is false.
func InitializeDependencies(cfg *config.RedsysServiceConfig, db *gorm.DB, zapLogger *zap.Logger, reg prometheus.Registerer) (*Dependencies, error) {
	ids, err := idgen.New()
	if err != nil {
		return nil, fmt.Errorf("id generator: %w", err)
	}

	repos := &Repositories{
		OrderRepo:   repository.NewDefaultOrderRepository(db),
		PaymentRepo: repository.NewDefaultPaymentRepository(db),
		AuditRepo:   repository.NewDefaultAuditRepository(db),
	}

	deps := &Dependencies{
		Config:       cfg,
		DB:           db,
		Logger:       zapLogger,
		Metrics:      metrics.NewGatewayMetrics(reg),
		IDs:          ids,
		Auditor:      logger.NewAuditLogger(repos.AuditRepo, zapLogger.With(zap.String("component", "audit"))),
		Repositories: repos,
	}

	if cfg.KafkaService.Enabled {
		brokers := cfg.KafkaService.Brokers()
		deps.Publisher = publisher.NewDefaultKafkaPublisher(brokers, cfg.KafkaService.Topic)
		deps.Subscriber = publisher.NewDefaultKafkaSubscriber(brokers)
	}

	return deps, nil
}

func (d *Dependencies) Close() {
	if d.Publisher != nil {
		if err := d.Publisher.Close(); err != nil {
			d.Logger.Warn("failed to close kafka publisher", zap.Error(err))
		}
	}
	if sqlDB, err := d.DB.DB(); err == nil {
		sqlDB.Close()
	}
}
