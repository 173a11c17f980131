package setup

import (
	"github.com/LavaJover/shvark-redsys-service/internal/app/background"
	"github.com/LavaJover/shvark-redsys-service/internal/domain"
	"github.com/LavaJover/shvark-redsys-service/internal/infrastructure/notifier"
	"github.com/LavaJover/shvark-redsys-service/internal/redsys"
	"github.com/LavaJover/shvark-redsys-service/internal/usecase"
	"go.uber.org/zap"
)

type UseCases struct {
	NotificationUsecase usecase.NotificationUsecase
	CheckoutUsecase     usecase.CheckoutUsecase
}

func InitializeUseCases(deps *Dependencies) *UseCases {
	cfg := deps.Config

	var events domain.PaymentEventPublisher
	if deps.Publisher != nil {
		events = deps.Publisher
	}

	notificationUc := usecase.NewDefaultNotificationUsecase(
		deps.Repositories.OrderRepo,
		deps.Repositories.PaymentRepo,
		deps.Auditor,
		events,
		deps.Metrics,
		deps.IDs,
		deps.Logger.With(zap.String("component", "notification")),
		usecase.NotificationConfig{
			SecretKey:    cfg.Redsys.SecretKey,
			Provider:     cfg.Notify.Provider,
			AlwaysAccept: cfg.Notify.AlwaysAccept(),
		},
	)

	checkoutUc := usecase.NewDefaultCheckoutUsecase(
		deps.Repositories.OrderRepo,
		redsys.NewRequestBuilder(cfg.MerchantConfig()),
		&cfg.Callbacks,
		deps.Auditor,
		deps.Metrics,
		deps.IDs,
		deps.Logger.With(zap.String("component", "checkout")),
		cfg.Redsys.CurrencyCode,
	)

	return &UseCases{
		NotificationUsecase: notificationUc,
		CheckoutUsecase:     checkoutUc,
	}
}

// InitializeBackgroundTasks returns nil unless both a broker and a back-office URL are set.
func InitializeBackgroundTasks(deps *Dependencies) *background.BackgroundTasks {
	cfg := deps.Config
	if deps.Subscriber == nil || cfg.Callbacks.BackofficeURL == "" {
		return nil
	}

	sender := notifier.NewCallbackNotifier(cfg.Callbacks.BackofficeURL, cfg.Callbacks.BackofficeSecret, cfg.HTTPServer.WriteTimeout)
	return background.NewBackgroundTasks(
		deps.Subscriber,
		sender,
		cfg.KafkaService.Topic,
		cfg.KafkaService.GroupID,
		deps.Logger.With(zap.String("component", "backoffice")),
	)
}
