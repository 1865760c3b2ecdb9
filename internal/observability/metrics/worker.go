package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	indexTotal    *prometheus.CounterVec
	indexDuration *prometheus.HistogramVec
	indexInFlight prometheus.Gauge
	queueLag      *prometheus.HistogramVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	m := &WorkerMetrics{
		registry: prometheus.NewRegistry(),

		indexTotal: newCounterVec("worker", "recipe_index_total",
			"Total indexed recipes by status.",
			"service", "status"),
		indexDuration: newHistogramVec("worker", "recipe_index_duration_seconds",
			"Recipe indexing duration in seconds by status.", nil,
			"service", "status"),
		indexInFlight: newServiceGauge(service, "worker", "recipe_index_in_flight",
			"Number of in-flight recipe indexing tasks."),
		queueLag: newHistogramVec("worker", "queue_lag_seconds",
			"Delay between recipe ingestion and indexing start.",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
			"service"),
	}

	m.registry.MustRegister(m.indexTotal, m.indexDuration, m.indexInFlight, m.queueLag)
	return m
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartRecipe() {
	m.indexInFlight.Inc()
}

func (m *WorkerMetrics) FinishRecipe(service string, duration time.Duration, err error) {
	m.indexInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.indexTotal.WithLabelValues(service, status).Inc()
	m.indexDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}
