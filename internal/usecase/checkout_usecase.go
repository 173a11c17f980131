package usecase

import (
	"context"
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/LavaJover/shvark-redsys-service/internal/domain"
	"github.com/LavaJover/shvark-redsys-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-redsys-service/internal/redsys"
	checkoutdto "github.com/LavaJover/shvark-redsys-service/internal/usecase/dto/checkout"
	"go.uber.org/zap"
)

var postalCodePattern = regexp.MustCompile(`^\d{5}$`)

type CheckoutUsecase interface {
	CreateOrder(ctx context.Context, input *checkoutdto.CreateOrderInput) (*checkoutdto.CreateOrderOutput, error)
	GetOrderStatus(ctx context.Context, orderID string) (*checkoutdto.OrderStatusOutput, error)
}

type DefaultCheckoutUsecase struct {
	orderRepo domain.OrderRepository
	builder   *redsys.RequestBuilder
	callbacks CallbackURLBuilder
	auditor   Auditor
	metrics   *metrics.GatewayMetrics
	ids       IDGenerator
	logger    *zap.Logger
	currency  string
}

func NewDefaultCheckoutUsecase(
	orderRepo domain.OrderRepository,
	builder *redsys.RequestBuilder,
	callbacks CallbackURLBuilder,
	auditor Auditor,
	gatewayMetrics *metrics.GatewayMetrics,
	ids IDGenerator,
	logger *zap.Logger,
	currency string,
) *DefaultCheckoutUsecase {
	return &DefaultCheckoutUsecase{
		orderRepo: orderRepo,
		builder:   builder,
		callbacks: callbacks,
		auditor:   auditor,
		metrics:   gatewayMetrics,
		ids:       ids,
		logger:    logger,
		currency:  currency,
	}
}

// CreateOrder persists a PENDING order with its items and returns the signed form the
// browser must POST to the gateway.
func (uc *DefaultCheckoutUsecase) CreateOrder(ctx context.Context, input *checkoutdto.CreateOrderInput) (*checkoutdto.CreateOrderOutput, error) {
	if err := validateCheckout(input); err != nil {
		return nil, err
	}

	orderID := uc.ids.OrderID()
	order := &domain.Order{
		ID:        orderID,
		Reference: redsys.PadOrderRef(orderID),
		Status:    domain.StatusPending,
		Currency:  uc.currency,
		Customer: domain.Customer{
			Name:       strings.TrimSpace(input.Customer.Name),
			Email:      strings.TrimSpace(input.Customer.Email),
			Phone:      strings.TrimSpace(input.Customer.Phone),
			Address:    strings.TrimSpace(input.Customer.Address),
			PostalCode: strings.TrimSpace(input.Customer.PostalCode),
			City:       strings.TrimSpace(input.Customer.City),
			Province:   strings.TrimSpace(input.Customer.Province),
		},
		Notes: input.Notes,
	}
	for _, item := range input.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ID:             uc.ids.NewID(),
			OrderID:        orderID,
			ProductSlug:    item.ProductSlug,
			ProductName:    item.ProductName,
			VariantID:      item.VariantID,
			VariantName:    item.VariantName,
			Size:           item.Size,
			Quantity:       item.Quantity,
			UnitPriceMinor: item.UnitPriceCents,
		})
	}
	order.AmountMinor = order.ItemsTotal()

	// Build before persisting so a misconfigured secret leaves no orphan order.
	paymentRequest, err := uc.builder.Build(order, uc.callbacks.CallbackURLs(orderID))
	if err != nil {
		return nil, fmt.Errorf("failed to build payment request for order %s: %w", orderID, err)
	}

	if err := uc.orderRepo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	uc.auditor.Log(ctx, domain.EventOrderCreated, orderID, map[string]any{
		"orderId":     orderID,
		"amountCents": order.AmountMinor,
	}, nil)
	uc.metrics.RecordOrderCreated(order.Currency)
	uc.metrics.RecordPaymentRequest(string(uc.builder.Environment()))
	uc.logger.Info("order created",
		zap.String("order_id", orderID),
		zap.Int64("amount_minor", order.AmountMinor),
		zap.Int("items", len(order.Items)),
	)

	return &checkoutdto.CreateOrderOutput{OrderID: orderID, PaymentRequest: paymentRequest}, nil
}

func (uc *DefaultCheckoutUsecase) GetOrderStatus(ctx context.Context, orderID string) (*checkoutdto.OrderStatusOutput, error) {
	order, err := uc.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &checkoutdto.OrderStatusOutput{
		OrderID:     order.ID,
		Status:      string(order.Status),
		AmountCents: order.AmountMinor,
		Currency:    order.Currency,
		CreatedAt:   order.CreatedAt,
	}, nil
}

func validateCheckout(input *checkoutdto.CreateOrderInput) error {
	var details []string
	required := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			details = append(details, field+": required")
		}
	}

	c := input.Customer
	required("customer.name", c.Name)
	required("customer.phone", c.Phone)
	required("customer.address", c.Address)
	required("customer.city", c.City)
	required("customer.province", c.Province)
	if _, err := mail.ParseAddress(strings.TrimSpace(c.Email)); err != nil {
		details = append(details, "customer.email: invalid email")
	}
	if !postalCodePattern.MatchString(strings.TrimSpace(c.PostalCode)) {
		details = append(details, "customer.postal_code: must be 5 digits")
	}

	if len(input.Items) == 0 {
		details = append(details, "items: at least one item is required")
	}
	var total int64
	for i, item := range input.Items {
		prefix := fmt.Sprintf("items[%d]", i)
		required(prefix+".product_slug", item.ProductSlug)
		required(prefix+".product_name", item.ProductName)
		if item.Quantity <= 0 {
			details = append(details, prefix+".quantity: must be positive")
		}
		if item.UnitPriceCents <= 0 {
			details = append(details, prefix+".unit_price_cents: must be positive")
		}
		total += int64(item.Quantity) * item.UnitPriceCents
	}
	if len(input.Items) > 0 && total <= 0 {
		details = append(details, "total: must be positive")
	}

	if len(details) > 0 {
		return &domain.ValidationError{Details: details}
	}
	return nil
}
