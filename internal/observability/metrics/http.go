package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ra"

// HTTPServerMetrics carries the API-side instruments: request plumbing,
// retrieval outcomes, chat turns and the session gauge. Everything lives on a
// private registry so /metrics only exposes what this process owns.
type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	retrievalTotal      *prometheus.CounterVec
	retrievalHitTotal   *prometheus.CounterVec
	retrievalEmptyTotal *prometheus.CounterVec
	retrievedRecipes    *prometheus.HistogramVec
	retrievalDuration   *prometheus.HistogramVec
	chatTurnsTotal      *prometheus.CounterVec
	chatDegradedTotal   *prometheus.CounterVec
	sessionsActive      prometheus.Gauge
	sessionsPrunedTotal prometheus.Counter
}

func newCounterVec(subsystem, name, help string, labels ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, labels)
}

func newHistogramVec(subsystem, name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}, labels)
}

func newServiceGauge(service, subsystem, name, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: prometheus.Labels{"service": service},
	})
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	m := &HTTPServerMetrics{
		registry: prometheus.NewRegistry(),

		requestTotal: newCounterVec("http", "requests_total",
			"Total HTTP requests processed.",
			"service", "method", "path", "status"),
		requestDuration: newHistogramVec("http", "request_duration_seconds",
			"HTTP request duration in seconds.", nil,
			"service", "method", "path"),
		requestInFlight: newServiceGauge(service, "http", "in_flight_requests",
			"Number of in-flight HTTP requests."),

		retrievalTotal: newCounterVec("retrieval", "requests_total",
			"Total completed retrieval requests.",
			"service", "endpoint"),
		retrievalHitTotal: newCounterVec("retrieval", "hit_total",
			"Total retrieval requests returning at least one recipe.",
			"service", "endpoint"),
		retrievalEmptyTotal: newCounterVec("retrieval", "empty_total",
			"Total retrieval requests returning no recipes.",
			"service", "endpoint"),
		retrievedRecipes: newHistogramVec("retrieval", "returned_recipes",
			"Distribution of recipes returned per retrieval request.",
			[]float64{0, 1, 2, 3, 5, 8, 13, 21},
			"service", "endpoint"),
		retrievalDuration: newHistogramVec("retrieval", "duration_seconds",
			"Retrieval execution duration in seconds.", nil,
			"service", "endpoint"),

		chatTurnsTotal: newCounterVec("chat", "turns_total",
			"Total completed chat turns by detected intent.",
			"service", "intent"),
		chatDegradedTotal: newCounterVec("chat", "degraded_turns_total",
			"Total chat turns answered in degraded mode.",
			"service"),

		sessionsActive: newServiceGauge(service, "sessions", "active",
			"Number of live conversation sessions."),
		sessionsPrunedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "sessions",
			Name:        "pruned_total",
			Help:        "Total idle sessions removed by the janitor.",
			ConstLabels: prometheus.Labels{"service": service},
		}),
	}

	m.registry.MustRegister(
		m.requestTotal, m.requestDuration, m.requestInFlight,
		m.retrievalTotal, m.retrievalHitTotal, m.retrievalEmptyTotal,
		m.retrievedRecipes, m.retrievalDuration,
		m.chatTurnsTotal, m.chatDegradedTotal,
		m.sessionsActive, m.sessionsPrunedTotal,
	)
	return m
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		path := normalizePath(r.URL.Path)
		rec := &observedResponse{ResponseWriter: w, status: http.StatusOK}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(rec, r)

		m.requestTotal.
			WithLabelValues(service, r.Method, path, strconv.Itoa(rec.status)).
			Inc()
		m.requestDuration.
			WithLabelValues(service, r.Method, path).
			Observe(time.Since(started).Seconds())
	})
}

// normalizePath collapses per-session URLs into one label value so session
// ids never leak into metric cardinality.
func normalizePath(path string) string {
	if strings.HasPrefix(path, "/v1/sessions/") {
		return "/v1/sessions/{session_id}"
	}
	return path
}

func (m *HTTPServerMetrics) RecordRetrieval(service, endpoint string, returned int, duration time.Duration) {
	m.retrievalTotal.WithLabelValues(service, endpoint).Inc()
	m.retrievedRecipes.WithLabelValues(service, endpoint).Observe(float64(returned))
	m.retrievalDuration.WithLabelValues(service, endpoint).Observe(duration.Seconds())

	if returned > 0 {
		m.retrievalHitTotal.WithLabelValues(service, endpoint).Inc()
		return
	}
	m.retrievalEmptyTotal.WithLabelValues(service, endpoint).Inc()
}

func (m *HTTPServerMetrics) RecordChatTurn(service, intent string, degraded bool) {
	if intent == "" {
		intent = "unknown"
	}
	m.chatTurnsTotal.WithLabelValues(service, intent).Inc()
	if degraded {
		m.chatDegradedTotal.WithLabelValues(service).Inc()
	}
}

func (m *HTTPServerMetrics) SetActiveSessions(count int) {
	m.sessionsActive.Set(float64(count))
}

func (m *HTTPServerMetrics) RecordPrunedSessions(count int) {
	if count <= 0 {
		return
	}
	m.sessionsPrunedTotal.Add(float64(count))
}

// observedResponse captures the status code for request labeling.
type observedResponse struct {
	http.ResponseWriter
	status int
}

func (w *observedResponse) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *observedResponse) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (w *observedResponse) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hijacker.Hijack()
}
