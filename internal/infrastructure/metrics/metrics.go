package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// GatewayMetrics holds the counters of the payment gateway integration.
type GatewayMetrics struct {
	NotificationsTotal   *prometheus.CounterVec
	NotificationDuration *prometheus.HistogramVec
	PaymentRequestsTotal *prometheus.CounterVec
	PaymentsAmountTotal  *prometheus.CounterVec
	OrdersCreatedTotal   *prometheus.CounterVec
}

// NewGatewayMetrics registers the metrics on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func NewGatewayMetrics(reg prometheus.Registerer) *GatewayMetrics {
	factory := promauto.With(reg)
	return &GatewayMetrics{
		NotificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "redsys_notifications_total",
				Help: "Gateway notifications by resulting audit event",
			},
			[]string{"event"},
		),
		NotificationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "redsys_notification_duration_seconds",
				Help:    "Time spent processing a gateway notification",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"event"},
		),
		PaymentRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "redsys_payment_requests_total",
				Help: "Signed payment requests built",
			},
			[]string{"environment"},
		),
		PaymentsAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "redsys_payments_amount_minor_total",
				Help: "Amount in minor units of orders settled by notifications",
			},
			[]string{"currency", "result"},
		),
		OrdersCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "redsys_orders_created_total",
				Help: "Orders created through checkout",
			},
			[]string{"currency"},
		),
	}
}

func (m *GatewayMetrics) RecordNotification(event string, elapsed time.Duration) {
	m.NotificationsTotal.WithLabelValues(event).Inc()
	m.NotificationDuration.WithLabelValues(event).Observe(elapsed.Seconds())
}

func (m *GatewayMetrics) RecordPaymentRequest(environment string) {
	m.PaymentRequestsTotal.WithLabelValues(environment).Inc()
}

// RecordSettlement adds the order amount under result "paid" or "failed".
func (m *GatewayMetrics) RecordSettlement(currency, result string, amountMinor int64) {
	m.PaymentsAmountTotal.WithLabelValues(currency, result).Add(float64(amountMinor))
}

func (m *GatewayMetrics) RecordOrderCreated(currency string) {
	m.OrdersCreatedTotal.WithLabelValues(currency).Inc()
}
