// Package metrics собирает метрики front сервиса в формате Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace префикс всех метрик.
const Namespace = "tco_front"

// Значения метки result.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultSkipped = "skipped"
)

// Metrics набор коллекторов сервиса. Нулевой указатель допустим и ничего не записывает.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests      *prometheus.CounterVec
	apiDuration      *prometheus.HistogramVec
	refreshes        *prometheus.CounterVec
	retryTransitions *prometheus.CounterVec
	siteDataFetches  *prometheus.CounterVec
	breakerOpen      prometheus.Gauge
}

// New создает метрики на отдельном реестре.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "api_requests_total",
			Help:      "Total number of requests sent to the TCO API.",
		}, []string{"method", "status"}),
		apiDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "api_request_duration_seconds",
			Help:      "TCO API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "session_refreshes_total",
			Help:      "Token refresh attempts by result.",
		}, []string{"result"}),
		retryTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "retry_transitions_total",
			Help:      "Authorization retry state machine transitions by target state.",
		}, []string{"state"}),
		siteDataFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "site_data_fetches_total",
			Help:      "Shared site data fetches by result.",
		}, []string{"result"}),
		breakerOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "circuit_breaker_open",
			Help:      "1 when the TCO API circuit breaker is open.",
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests,
		m.apiDuration,
		m.refreshes,
		m.retryTransitions,
		m.siteDataFetches,
		m.breakerOpen,
	)

	return m
}

// Registry возвращает реестр метрик.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler возвращает HTTP обработчик для сбора метрик.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveAPIRequest учитывает запрос к API. status 0 означает ошибку транспорта.
func (m *Metrics) ObserveAPIRequest(method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.apiRequests.WithLabelValues(method, label).Inc()
	m.apiDuration.WithLabelValues(method).Observe(d.Seconds())
}

// IncRefresh учитывает попытку обновления токенов.
func (m *Metrics) IncRefresh(result string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(result).Inc()
}

// IncRetryTransition учитывает переход автомата повторов.
func (m *Metrics) IncRetryTransition(state string) {
	if m == nil {
		return
	}
	m.retryTransitions.WithLabelValues(state).Inc()
}

// IncSiteDataFetch учитывает загрузку общих данных.
func (m *Metrics) IncSiteDataFetch(result string) {
	if m == nil {
		return
	}
	m.siteDataFetches.WithLabelValues(result).Inc()
}

// SetBreakerOpen отмечает состояние circuit breaker.
func (m *Metrics) SetBreakerOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.breakerOpen.Set(1)
		return
	}
	m.breakerOpen.Set(0)
}
