package repository

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/LavaJover/shvark-redsys-service/internal/domain"
	"github.com/LavaJover/shvark-redsys-service/internal/infrastructure/postgres/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "redsys.db") + "?_busy_timeout=5000&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func sampleOrder(id string) *domain.Order {
	return &domain.Order{
		ID:          id,
		Reference:   id,
		Status:      domain.StatusPending,
		AmountMinor: 32900,
		Currency:    "EUR",
		Customer: domain.Customer{
			Name:       "Ana García",
			Email:      "ana@example.com",
			Phone:      "600000000",
			Address:    "Calle Mayor 1",
			PostalCode: "28001",
			City:       "Madrid",
			Province:   "Madrid",
		},
		Items: []domain.OrderItem{
			{ID: id + "-1", ProductSlug: "colchon-viscoelastico", ProductName: "Colchón", Size: "150x190", Quantity: 1, UnitPriceMinor: 29900},
			{ID: id + "-2", ProductSlug: "almohada", ProductName: "Almohada", Quantity: 2, UnitPriceMinor: 1500},
		},
	}
}

func TestOrderRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewDefaultOrderRepository(newTestDB(t))

	order := sampleOrder("000000000042")
	require.NoError(t, repo.CreateOrder(ctx, order))
	assert.False(t, order.CreatedAt.IsZero())

	got, err := repo.GetOrderByID(ctx, "000000000042")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Equal(t, int64(32900), got.AmountMinor)
	assert.Equal(t, "28001", got.Customer.PostalCode)
	require.Len(t, got.Items, 2)
	assert.Equal(t, got.AmountMinor, got.ItemsTotal())

	byRef, err := repo.FindOrderByReference(ctx, "000000000042")
	require.NoError(t, err)
	assert.Equal(t, order.ID, byRef.ID)

	require.NoError(t, repo.UpdateOrderStatus(ctx, order.ID, domain.StatusFailed))
	got, err = repo.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, got.Status)
}

func TestOrderRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewDefaultOrderRepository(newTestDB(t))

	_, err := repo.FindOrderByReference(ctx, "999999999999")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	_, err = repo.GetOrderByID(ctx, "999999999999")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	err = repo.UpdateOrderStatus(ctx, "999999999999", domain.StatusPaid)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestPaymentRepositoryRecordPayment(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	orders := NewDefaultOrderRepository(db)
	payments := NewDefaultPaymentRepository(db)

	require.NoError(t, orders.CreateOrder(ctx, sampleOrder("000000000042")))

	_, err := payments.FindPayment(ctx, "000000000042", domain.ProviderRedsys)
	assert.ErrorIs(t, err, domain.ErrPaymentNotFound)

	payment := &domain.Payment{
		ID:              "p-1",
		OrderID:         "000000000042",
		Provider:        domain.ProviderRedsys,
		ResponseCode:    "0000",
		AuthCode:        "123456",
		RawNotification: []byte(`{"Ds_Order":"000000000042"}`),
	}
	require.NoError(t, payments.RecordPayment(ctx, payment, domain.StatusPaid))

	stored, err := payments.FindPayment(ctx, "000000000042", domain.ProviderRedsys)
	require.NoError(t, err)
	assert.Equal(t, "0000", stored.ResponseCode)
	assert.Equal(t, "123456", stored.AuthCode)
	assert.JSONEq(t, `{"Ds_Order":"000000000042"}`, string(stored.RawNotification))

	order, err := orders.GetOrderByID(ctx, "000000000042")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, order.Status)

	duplicate := *payment
	duplicate.ID = "p-2"
	duplicate.ResponseCode = "0190"
	err = payments.RecordPayment(ctx, &duplicate, domain.StatusFailed)
	assert.ErrorIs(t, err, domain.ErrDuplicateNotification)

	order, err = orders.GetOrderByID(ctx, "000000000042")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, order.Status)

	var count int64
	require.NoError(t, db.Model(&models.PaymentModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPaymentRepositoryKeepsLongGatewayCodes(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	orders := NewDefaultOrderRepository(db)
	payments := NewDefaultPaymentRepository(db)
	require.NoError(t, orders.CreateOrder(ctx, sampleOrder("000000000042")))

	columns, err := db.Migrator().ColumnTypes(&models.PaymentModel{})
	require.NoError(t, err)
	for _, c := range columns {
		if c.Name() == "response_code" || c.Name() == "auth_code" {
			assert.True(t, strings.EqualFold("text", c.DatabaseTypeName()), "%s is %s", c.Name(), c.DatabaseTypeName())
		}
	}

	longCode := strings.Repeat("9", 40)
	require.NoError(t, payments.RecordPayment(ctx, &domain.Payment{
		ID:           "p-1",
		OrderID:      "000000000042",
		Provider:     domain.ProviderRedsys,
		ResponseCode: longCode,
		AuthCode:     longCode,
	}, domain.StatusFailed))

	stored, err := payments.FindPayment(ctx, "000000000042", domain.ProviderRedsys)
	require.NoError(t, err)
	assert.Equal(t, longCode, stored.ResponseCode)
	assert.Equal(t, longCode, stored.AuthCode)
}

func TestPaymentRepositoryFinalizedOrder(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	orders := NewDefaultOrderRepository(db)
	payments := NewDefaultPaymentRepository(db)

	order := sampleOrder("000000000043")
	order.Status = domain.StatusFailed
	require.NoError(t, orders.CreateOrder(ctx, order))

	err := payments.RecordPayment(ctx, &domain.Payment{
		ID:           "p-1",
		OrderID:      order.ID,
		Provider:     domain.ProviderRedsys,
		ResponseCode: "0000",
	}, domain.StatusPaid)
	assert.ErrorIs(t, err, domain.ErrOrderFinalized)

	var count int64
	require.NoError(t, db.Model(&models.PaymentModel{}).Count(&count).Error)
	assert.Zero(t, count, "payment insert must roll back")
}

func TestPaymentRepositoryConcurrentRecord(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	orders := NewDefaultOrderRepository(db)
	payments := NewDefaultPaymentRepository(db)
	require.NoError(t, orders.CreateOrder(ctx, sampleOrder("000000000044")))

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = payments.RecordPayment(ctx, &domain.Payment{
				ID:           "p-" + string(rune('a'+i)),
				OrderID:      "000000000044",
				Provider:     domain.ProviderRedsys,
				ResponseCode: "0000",
			}, domain.StatusPaid)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrDuplicateNotification)
	}
	assert.Equal(t, 1, succeeded)
}

func TestAuditRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewDefaultAuditRepository(db)

	require.NoError(t, repo.AppendAudit(ctx, &domain.AuditEntry{
		ID:      "a-1",
		Event:   domain.EventNotifySignatureFailed,
		Payload: []byte(`{"signature":"x"}`),
		Error:   "signature verification failed",
	}))
	require.NoError(t, repo.AppendAudit(ctx, &domain.AuditEntry{
		ID:      "a-2",
		Event:   domain.EventOrderCreated,
		OrderID: "000000000042",
	}))

	var rows []models.AuditLogModel
	require.NoError(t, db.Order("id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Nil(t, rows[0].OrderID)
	assert.JSONEq(t, `{"signature":"x"}`, string(rows[0].Payload))
	require.NotNil(t, rows[1].OrderID)
	assert.Equal(t, "000000000042", *rows[1].OrderID)
}
