package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/LavaJover/shvark-redsys-service/internal/domain"
	"github.com/LavaJover/shvark-redsys-service/internal/infrastructure/postgres/models"
	"github.com/LavaJover/shvark-redsys-service/internal/infrastructure/postgres/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "c2VjcmV0a2V5MTIzNDU2"

type auditRecord struct {
	Event   string
	OrderID string
	Payload string
	Cause   error
}

type fakeAuditor struct {
	mu      sync.Mutex
	records []auditRecord
}

func (a *fakeAuditor) Log(_ context.Context, event, orderID string, payload any, cause error) {
	raw, _ := json.Marshal(payload)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, auditRecord{Event: event, OrderID: orderID, Payload: string(raw), Cause: cause})
}

func (a *fakeAuditor) events() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.records))
	for _, r := range a.records {
		out = append(out, r.Event)
	}
	return out
}

func (a *fakeAuditor) last() auditRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.records[len(a.records)-1]
}

type sequentialIDs struct {
	n atomic.Int64
}

func (g *sequentialIDs) OrderID() string {
	return fmt.Sprintf("%012d", g.n.Add(1))
}

func (g *sequentialIDs) NewID() string {
	return fmt.Sprintf("id-%d", g.n.Add(1))
}

type fakeEventPublisher struct {
	events chan domain.PaymentEvent
}

func newFakeEventPublisher() *fakeEventPublisher {
	return &fakeEventPublisher{events: make(chan domain.PaymentEvent, 16)}
}

func (p *fakeEventPublisher) PublishPaymentEvent(_ context.Context, event domain.PaymentEvent) error {
	p.events <- event
	return nil
}

type fakeOrderRepo struct {
	createOrder          func(ctx context.Context, order *domain.Order) error
	getOrderByID         func(ctx context.Context, orderID string) (*domain.Order, error)
	findOrderByReference func(ctx context.Context, reference string) (*domain.Order, error)
}

func (f *fakeOrderRepo) CreateOrder(ctx context.Context, order *domain.Order) error {
	return f.createOrder(ctx, order)
}

func (f *fakeOrderRepo) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	return f.getOrderByID(ctx, orderID)
}

func (f *fakeOrderRepo) FindOrderByReference(ctx context.Context, reference string) (*domain.Order, error) {
	return f.findOrderByReference(ctx, reference)
}

func (f *fakeOrderRepo) UpdateOrderStatus(context.Context, string, domain.OrderStatus) error {
	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "redsys.db") + "?_busy_timeout=5000"
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

func seedOrder(t *testing.T, db *gorm.DB, id string, amount int64) *domain.Order {
	t.Helper()
	order := &domain.Order{
		ID:          id,
		Reference:   id,
		Status:      domain.StatusPending,
		AmountMinor: amount,
		Currency:    "EUR",
		Items: []domain.OrderItem{
			{ID: id + "-item", ProductSlug: "colchon", ProductName: "Colchón", Quantity: 1, UnitPriceMinor: amount},
		},
	}
	require.NoError(t, repository.NewDefaultOrderRepository(db).CreateOrder(context.Background(), order))
	return order
}

func orderStatus(t *testing.T, db *gorm.DB, id string) domain.OrderStatus {
	t.Helper()
	order, err := repository.NewDefaultOrderRepository(db).GetOrderByID(context.Background(), id)
	require.NoError(t, err)
	return order.Status
}

func paymentCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.PaymentModel{}).Count(&count).Error)
	return count
}
