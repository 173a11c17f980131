package background

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-redsys-service/internal/domain"
	"go.uber.org/zap"
)

type CallbackSender interface {
	SendCallback(ctx context.Context, body []byte) error
}

type BackgroundTasks struct {
	Subscriber domain.SubscriberPort
	Sender     CallbackSender
	Topic      string
	GroupID    string
	Logger     *zap.Logger

	Attempts int
	Backoff  time.Duration
}

func NewBackgroundTasks(sub domain.SubscriberPort, sender CallbackSender, topic, groupID string, logger *zap.Logger) *BackgroundTasks {
	return &BackgroundTasks{
		Subscriber: sub,
		Sender:     sender,
		Topic:      topic,
		GroupID:    groupID,
		Logger:     logger,
		Attempts:   3,
		Backoff:    time.Second,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go func() {
		if err := bt.RunBackofficeCallbacks(ctx); err != nil {
			bt.Logger.Error("back-office callback worker stopped", zap.Error(err))
		}
	}()
}

// RunBackofficeCallbacks forwards every payment event to the back office until the
// subscription ends.
func (bt *BackgroundTasks) RunBackofficeCallbacks(ctx context.Context) error {
	msgs, err := bt.Subscriber.Subscribe(ctx, bt.Topic, bt.GroupID)
	if err != nil {
		return err
	}

	for msg := range msgs {
		bt.deliver(ctx, msg)
	}
	return nil
}

func (bt *BackgroundTasks) deliver(ctx context.Context, msg domain.Message) {
	attempts := bt.Attempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		err := bt.Sender.SendCallback(ctx, msg.Value)
		if err == nil {
			bt.Logger.Info("back-office callback sent", zap.ByteString("order_id", msg.Key))
			return
		}
		bt.Logger.Warn("back-office callback failed",
			zap.ByteString("order_id", msg.Key),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(attempt) * bt.Backoff):
		}
	}
	bt.Logger.Error("back-office callback dropped", zap.ByteString("order_id", msg.Key))
}
