package metrics

import "github.com/prometheus/client_golang/prometheus"

// OrderMetrics counts lifecycle events the operations team watches.
type OrderMetrics struct {
	created    prometheus.Counter
	delivered  prometheus.Counter
	cancelled  prometheus.Counter
	otpFailure prometheus.Counter
}

// NewOrderMetrics registers the order lifecycle counters.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders created at checkout.",
	})
	delivered := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_delivered_total",
		Help: "Orders that reached the Delivered state.",
	})
	cancelled := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_cancelled_total",
		Help: "Orders cancelled through the refund workflow.",
	})
	otpFailure := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_otp_failures_total",
		Help: "Rejected delivery OTP attempts.",
	})
	reg.MustRegister(created, delivered, cancelled, otpFailure)
	return &OrderMetrics{
		created:    created,
		delivered:  delivered,
		cancelled:  cancelled,
		otpFailure: otpFailure,
	}
}

func (m *OrderMetrics) IncCreated() {
	if m == nil || m.created == nil {
		return
	}
	m.created.Inc()
}

func (m *OrderMetrics) IncDelivered() {
	if m == nil || m.delivered == nil {
		return
	}
	m.delivered.Inc()
}

func (m *OrderMetrics) IncCancelled() {
	if m == nil || m.cancelled == nil {
		return
	}
	m.cancelled.Inc()
}

func (m *OrderMetrics) IncOTPFailure() {
	if m == nil || m.otpFailure == nil {
		return
	}
	m.otpFailure.Inc()
}
