package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/LavaJover/shvark-redsys-service/internal/domain"
	"github.com/LavaJover/shvark-redsys-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-redsys-service/internal/redsys"
	"go.uber.org/zap"
)

const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Outcome is what the notification endpoint answers to the gateway.
type Outcome struct {
	HTTPStatus int
	Status     string
	Event      string
	Message    string
}

type NotificationUsecase interface {
	ProcessNotification(ctx context.Context, rawBody []byte) Outcome
}

type NotificationConfig struct {
	SecretKey      string
	Provider       string
	AlwaysAccept   bool
	PublishTimeout time.Duration
}

type DefaultNotificationUsecase struct {
	orderRepo   domain.OrderRepository
	paymentRepo domain.PaymentRepository
	auditor     Auditor
	events      domain.PaymentEventPublisher
	metrics     *metrics.GatewayMetrics
	ids         IDGenerator
	logger      *zap.Logger
	cfg         NotificationConfig
}

// NewDefaultNotificationUsecase builds the processor. events may be nil when no broker is
// configured.
func NewDefaultNotificationUsecase(
	orderRepo domain.OrderRepository,
	paymentRepo domain.PaymentRepository,
	auditor Auditor,
	events domain.PaymentEventPublisher,
	gatewayMetrics *metrics.GatewayMetrics,
	ids IDGenerator,
	logger *zap.Logger,
	cfg NotificationConfig,
) *DefaultNotificationUsecase {
	if cfg.Provider == "" {
		cfg.Provider = domain.ProviderRedsys
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 10 * time.Second
	}
	return &DefaultNotificationUsecase{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		auditor:     auditor,
		events:      events,
		metrics:     gatewayMetrics,
		ids:         ids,
		logger:      logger,
		cfg:         cfg,
	}
}

// ProcessNotification never fails: every fault, panics included, ends as an accepting
// outcome with a notify_error audit entry. Caller cancellation does not abort processing.
func (uc *DefaultNotificationUsecase) ProcessNotification(ctx context.Context, rawBody []byte) (outcome Outcome) {
	ctx = context.WithoutCancel(ctx)
	start := time.Now()
	var orderRef string

	defer func() {
		if r := recover(); r != nil {
			outcome = uc.fault(ctx, rawBody, orderRef, fmt.Errorf("panic: %v", r))
		}
		uc.metrics.RecordNotification(outcome.Event, time.Since(start))
	}()

	var err error
	outcome, err = uc.process(ctx, rawBody, &orderRef)
	if err != nil {
		return uc.fault(ctx, rawBody, orderRef, err)
	}
	return outcome
}

func (uc *DefaultNotificationUsecase) process(ctx context.Context, rawBody []byte, orderRef *string) (Outcome, error) {
	form, err := url.ParseQuery(string(rawBody))
	if err != nil {
		uc.logger.Debug("notification body is not clean form encoding", zap.Error(err))
	}
	version := form.Get(redsys.FormSignatureVersion)
	encodedParams := form.Get(redsys.FormMerchantParameters)
	signature := form.Get(redsys.FormSignature)

	// 1. required fields
	if version == "" || encodedParams == "" || signature == "" {
		uc.auditor.Log(ctx, domain.EventNotifyMissingFields, "", map[string]bool{
			redsys.FormSignatureVersion:   version != "",
			redsys.FormMerchantParameters: encodedParams != "",
			redsys.FormSignature:          signature != "",
		}, nil)
		uc.logger.Warn("notification without signature fields")
		return uc.reject(http.StatusBadRequest, domain.EventNotifyMissingFields, "Missing signature fields"), nil
	}

	// 2. authenticity, before anything in the payload is trusted
	if version != redsys.SignatureVersion || !redsys.Verify(encodedParams, signature, uc.cfg.SecretKey) {
		// raw inputs go in as bytes, which JSON stores base64-encoded and byte-exact
		uc.auditor.Log(ctx, domain.EventNotifySignatureFailed, "", map[string][]byte{
			"dsSignatureVersion":   []byte(version),
			"dsMerchantParameters": []byte(encodedParams),
			"dsSignature":          []byte(signature),
		}, domain.ErrAuthentication)
		uc.logger.Error("notification signature verification failed", zap.String("signature_version", version))
		return uc.reject(http.StatusForbidden, domain.EventNotifySignatureFailed, "Signature verification failed"), nil
	}

	// 3. decode
	params, err := redsys.DecodeParameters(encodedParams)
	if err != nil {
		uc.auditor.Log(ctx, domain.EventNotifyDecodeFailed, "", map[string][]byte{
			"dsMerchantParameters": []byte(encodedParams),
		}, err)
		uc.logger.Error("failed to decode authentic notification", zap.Error(err))
		return uc.reject(http.StatusBadRequest, domain.EventNotifyDecodeFailed, "Malformed merchant parameters"), nil
	}
	ref := redsys.OrderReference(params)
	responseCode := params.Get(redsys.FieldNotifyResponse)
	authCode := params.Get(redsys.FieldNotifyAuthCode)

	// 4. order reference present
	if ref == "" {
		uc.auditor.Log(ctx, domain.EventNotifyMissingOrder, "", params, nil)
		uc.logger.Warn("notification without order reference")
		return uc.reject(http.StatusBadRequest, domain.EventNotifyMissingOrder, "Missing order ID"), nil
	}
	*orderRef = ref

	// 5. order lookup
	order, err := uc.orderRepo.FindOrderByReference(ctx, ref)
	if errors.Is(err, domain.ErrOrderNotFound) {
		uc.auditor.Log(ctx, domain.EventNotifyOrderNotFound, ref, params, nil)
		uc.logger.Warn("notification for unknown order", zap.String("order_ref", ref))
		return uc.reject(http.StatusNotFound, domain.EventNotifyOrderNotFound, "Order not found"), nil
	}
	if err != nil {
		return Outcome{}, err
	}
	*orderRef = order.ID

	// 6. idempotency
	_, err = uc.paymentRepo.FindPayment(ctx, order.ID, uc.cfg.Provider)
	switch {
	case err == nil:
		return uc.duplicate(ctx, order, params), nil
	case !errors.Is(err, domain.ErrPaymentNotFound):
		return Outcome{}, err
	}

	// 7. payment and status in one transaction
	newStatus := domain.StatusFailed
	if redsys.IsSuccessfulResponse(responseCode) {
		newStatus = domain.StatusPaid
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to marshal notification: %w", err)
	}
	payment := &domain.Payment{
		ID:              uc.ids.NewID(),
		OrderID:         order.ID,
		Provider:        uc.cfg.Provider,
		ResponseCode:    responseCode,
		AuthCode:        authCode,
		RawNotification: raw,
	}
	err = uc.paymentRepo.RecordPayment(ctx, payment, newStatus)
	if errors.Is(err, domain.ErrDuplicateNotification) || errors.Is(err, domain.ErrOrderFinalized) {
		return uc.duplicate(ctx, order, params), nil
	}
	if err != nil {
		return Outcome{}, err
	}

	// 8. outcome
	event := domain.EventNotifyPaid
	result := "paid"
	if newStatus == domain.StatusFailed {
		event = domain.EventNotifyFailed
		result = "failed"
	}
	uc.auditor.Log(ctx, event, order.ID, map[string]any{
		"responseCode":  responseCode,
		"authCode":      authCode,
		"decodedParams": params,
	}, nil)
	uc.metrics.RecordSettlement(order.Currency, result, order.AmountMinor)
	uc.logger.Info("notification processed",
		zap.String("order_id", order.ID),
		zap.String("status", string(newStatus)),
		zap.String("response_code", responseCode),
	)

	uc.publish(domain.PaymentEvent{
		OrderID:      order.ID,
		Reference:    ref,
		Status:       newStatus,
		ResponseCode: responseCode,
		AuthCode:     authCode,
		AmountMinor:  order.AmountMinor,
		Currency:     order.Currency,
		ProcessedAt:  time.Now().UTC(),
	})

	// 9. accept
	return Outcome{HTTPStatus: http.StatusOK, Status: OutcomeOK, Event: event}, nil
}

func (uc *DefaultNotificationUsecase) duplicate(ctx context.Context, order *domain.Order, params *redsys.Parameters) Outcome {
	uc.auditor.Log(ctx, domain.EventNotifyDuplicate, order.ID, params, nil)
	uc.logger.Info("payment already recorded", zap.String("order_id", order.ID))
	return Outcome{HTTPStatus: http.StatusOK, Status: OutcomeOK, Event: domain.EventNotifyDuplicate}
}

func (uc *DefaultNotificationUsecase) reject(status int, event, message string) Outcome {
	if uc.cfg.AlwaysAccept {
		status = http.StatusOK
	}
	return Outcome{HTTPStatus: status, Status: OutcomeRejected, Event: event, Message: message}
}

func (uc *DefaultNotificationUsecase) fault(ctx context.Context, rawBody []byte, orderRef string, cause error) Outcome {
	uc.logger.Error("error processing notification",
		zap.String("order_ref", orderRef),
		zap.String("kind", domain.Kind(cause)),
		zap.Error(cause),
	)
	uc.auditor.Log(ctx, domain.EventNotifyError, orderRef, map[string][]byte{"rawBody": rawBody}, cause)
	return Outcome{HTTPStatus: http.StatusOK, Status: OutcomeError, Event: domain.EventNotifyError}
}

// publish hands the committed transition to the broker without delaying the response.
func (uc *DefaultNotificationUsecase) publish(event domain.PaymentEvent) {
	if uc.events == nil {
		return
	}
	go func(event domain.PaymentEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), uc.cfg.PublishTimeout)
		defer cancel()
		if err := uc.events.PublishPaymentEvent(ctx, event); err != nil {
			uc.logger.Error("failed to publish payment event",
				zap.String("order_id", event.OrderID),
				zap.Error(err),
			)
		}
	}(event)
}
