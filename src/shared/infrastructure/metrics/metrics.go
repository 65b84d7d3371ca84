package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SalesMetrics contadores Prometheus de las operaciones del ledger
type SalesMetrics struct {
	SalesCreated   *prometheus.CounterVec
	SalesCancelled prometheus.Counter
	Refunds        prometheus.Counter
}

// NewSalesMetrics registra los contadores en el registry por defecto
func NewSalesMetrics() *SalesMetrics {
	return &SalesMetrics{
		SalesCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sales_created_total",
			Help: "Ventas creadas, por tipo de venta",
		}, []string{"sale_type"}),
		SalesCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sales_cancelled_total",
			Help: "Ventas canceladas",
		}),
		Refunds: promauto.NewCounter(prometheus.CounterOpts{
			Name: "refunds_total",
			Help: "Devoluciones registradas",
		}),
	}
}

// SaleCreated incrementa el contador de ventas creadas (nil-safe)
func (m *SalesMetrics) SaleCreated(saleType string) {
	if m == nil {
		return
	}
	m.SalesCreated.WithLabelValues(saleType).Inc()
}

// SaleCancelled incrementa el contador de cancelaciones (nil-safe)
func (m *SalesMetrics) SaleCancelled() {
	if m == nil {
		return
	}
	m.SalesCancelled.Inc()
}

// RefundRecorded incrementa el contador de devoluciones (nil-safe)
func (m *SalesMetrics) RefundRecorded() {
	if m == nil {
		return
	}
	m.Refunds.Inc()
}
