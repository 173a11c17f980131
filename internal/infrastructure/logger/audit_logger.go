package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/LavaJover/shvark-redsys-service/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuditLogger writes forensic events to the audit repository. A failed write is logged and
// swallowed so that auditing never changes the outcome of the caller.
type AuditLogger struct {
	repo   domain.AuditRepository
	logger *zap.Logger
}

func NewAuditLogger(repo domain.AuditRepository, logger *zap.Logger) *AuditLogger {
	return &AuditLogger{repo: repo, logger: logger}
}

func (l *AuditLogger) Log(ctx context.Context, event, orderID string, payload any, cause error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		l.logger.Error("failed to marshal audit payload", zap.String("event", event), zap.Error(err))
		raw = []byte("null")
	}
	raw = storablePayload(raw)

	entry := &domain.AuditEntry{
		ID:        uuid.New().String(),
		Event:     event,
		OrderID:   orderID,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}
	if cause != nil {
		entry.Error = cause.Error()
	}

	if err := l.repo.AppendAudit(ctx, entry); err != nil {
		l.logger.Error("failed to append audit entry",
			zap.String("event", event),
			zap.String("order_id", orderID),
			zap.ByteString("payload", raw),
			zap.Error(err),
		)
	}
}

// storablePayload wraps JSON that a Postgres jsonb column would refuse (the \u0000 escape)
// into a base64 envelope, so the entry is still written.
func storablePayload(raw []byte) []byte {
	if !bytes.Contains(raw, []byte(`\u0000`)) {
		return raw
	}
	wrapped, err := json.Marshal(struct {
		Encoding string `json:"encoding"`
		Data     []byte `json:"data"`
	}{Encoding: "base64", Data: raw})
	if err != nil {
		return []byte("null")
	}
	return wrapped
}
