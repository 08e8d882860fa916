// Package metrics содержит prometheus-метрики исходящих запросов API-клиента.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ClientMetrics объединяет метрики HTTP-клиента.
type ClientMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New регистрирует метрики в переданном Registerer.
// Код "0" означает, что ответ не был получен (транспортная ошибка).
func New(reg prometheus.Registerer) *ClientMetrics {
	factory := promauto.With(reg)
	return &ClientMetrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "realty_client_requests_total",
			Help: "Total number of outgoing API requests",
		}, []string{"method", "code"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "realty_client_request_duration_seconds",
			Help:    "Duration of outgoing API requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

// Observe фиксирует завершённый запрос.
func (m *ClientMetrics) Observe(method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}
