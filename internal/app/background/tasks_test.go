package background

import (
	"context"
	"errors"
	"testing"

	"github.com/LavaJover/shvark-redsys-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSubscriber struct {
	msgs []domain.Message
	err  error

	topic, groupID string
}

func (s *fakeSubscriber) Subscribe(_ context.Context, topic, groupID string) (<-chan domain.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.topic, s.groupID = topic, groupID
	out := make(chan domain.Message, len(s.msgs))
	for _, m := range s.msgs {
		out <- m
	}
	close(out)
	return out, nil
}

type senderFunc func(ctx context.Context, body []byte) error

func (f senderFunc) SendCallback(ctx context.Context, body []byte) error {
	return f(ctx, body)
}

func TestRunBackofficeCallbacksForwardsEvents(t *testing.T) {
	sub := &fakeSubscriber{msgs: []domain.Message{
		{Key: []byte("000000000001"), Value: []byte(`{"order_id":"000000000001"}`)},
		{Key: []byte("000000000002"), Value: []byte(`{"order_id":"000000000002"}`)},
	}}
	var sent []string
	bt := NewBackgroundTasks(sub, senderFunc(func(_ context.Context, body []byte) error {
		sent = append(sent, string(body))
		return nil
	}), "payment-events", "redsys-backoffice", zap.NewNop())

	require.NoError(t, bt.RunBackofficeCallbacks(context.Background()))

	assert.Equal(t, "payment-events", sub.topic)
	assert.Equal(t, "redsys-backoffice", sub.groupID)
	assert.Equal(t, []string{`{"order_id":"000000000001"}`, `{"order_id":"000000000002"}`}, sent)
}

func TestRunBackofficeCallbacksRetries(t *testing.T) {
	sub := &fakeSubscriber{msgs: []domain.Message{{Key: []byte("k"), Value: []byte(`{}`)}}}
	calls := 0
	bt := NewBackgroundTasks(sub, senderFunc(func(context.Context, []byte) error {
		calls++
		if calls < 3 {
			return errors.New("503")
		}
		return nil
	}), "payment-events", "redsys-backoffice", zap.NewNop())
	bt.Backoff = 0

	require.NoError(t, bt.RunBackofficeCallbacks(context.Background()))
	assert.Equal(t, 3, calls)
}

func TestRunBackofficeCallbacksGivesUp(t *testing.T) {
	sub := &fakeSubscriber{msgs: []domain.Message{{Key: []byte("k"), Value: []byte(`{}`)}}}
	calls := 0
	bt := NewBackgroundTasks(sub, senderFunc(func(context.Context, []byte) error {
		calls++
		return errors.New("down")
	}), "payment-events", "redsys-backoffice", zap.NewNop())
	bt.Backoff = 0
	bt.Attempts = 2

	require.NoError(t, bt.RunBackofficeCallbacks(context.Background()))
	assert.Equal(t, 2, calls)
}

func TestRunBackofficeCallbacksSubscribeError(t *testing.T) {
	bt := NewBackgroundTasks(&fakeSubscriber{err: errors.New("no brokers")}, senderFunc(nil), "t", "g", zap.NewNop())
	assert.ErrorContains(t, bt.RunBackofficeCallbacks(context.Background()), "no brokers")
}
