package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/LavaJover/shvark-redsys-service/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	written []kafka.Message
	err     error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.written = append(w.written, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestPublishPaymentEvent(t *testing.T) {
	w := &fakeWriter{}
	p := &DefaultKafkaPublisher{writer: w, topic: "payment-events"}

	event := domain.PaymentEvent{
		OrderID:      "000000000042",
		Reference:    "000000000042",
		Status:       domain.StatusPaid,
		ResponseCode: "0000",
		AuthCode:     "123456",
		AmountMinor:  32900,
		Currency:     "EUR",
		ProcessedAt:  time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, p.PublishPaymentEvent(context.Background(), event))

	require.Len(t, w.written, 1)
	msg := w.written[0]
	assert.Equal(t, "payment-events", msg.Topic)
	assert.Equal(t, "000000000042", string(msg.Key))

	var decoded domain.PaymentEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event, decoded)
}

func TestPublishWrapsWriterError(t *testing.T) {
	p := &DefaultKafkaPublisher{writer: &fakeWriter{err: errors.New("no brokers")}, topic: "payment-events"}

	err := p.Publish(context.Background(), "payment-events", domain.Message{Key: []byte("k"), Value: []byte("v")})
	assert.ErrorContains(t, err, "no brokers")
}
