package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medisage",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "medisage",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint", "status"},
	)

	LLMDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "medisage",
			Subsystem: "api",
			Name:      "llm_duration_seconds",
			Help:      "Upstream model call duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"model", "provider", "kind"},
	)

	ProviderErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medisage",
			Subsystem: "api",
			Name:      "provider_errors_total",
			Help:      "Total provider call failures",
		},
		[]string{"provider", "error_type"},
	)

	TokensPromptTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medisage",
			Subsystem: "api",
			Name:      "tokens_prompt_total",
			Help:      "Total prompt tokens consumed",
		},
		[]string{"model", "provider"},
	)

	TokensCompletionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medisage",
			Subsystem: "api",
			Name:      "tokens_completion_total",
			Help:      "Total completion tokens generated",
		},
		[]string{"model", "provider"},
	)

	CapabilityDeniedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medisage",
			Subsystem: "api",
			Name:      "capability_denied_total",
			Help:      "Requests rejected because the tier lacks the capability",
		},
		[]string{"tier", "capability"},
	)

	HistoryWriteFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medisage",
			Subsystem: "history",
			Name:      "write_failures_total",
			Help:      "Best-effort history writes that were dropped",
		},
		[]string{"kind", "reason"},
	)

	HistoryQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "medisage",
			Subsystem: "history",
			Name:      "queue_depth",
			Help:      "History records waiting to be written",
		},
	)

	ProviderHealth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "medisage",
			Subsystem: "api",
			Name:      "provider_health",
			Help:      "Provider health status (1=healthy, 0=unhealthy)",
		},
		[]string{"provider"},
	)

	AuthRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medisage",
			Subsystem: "api",
			Name:      "auth_requests_total",
			Help:      "Total authentication requests",
		},
		[]string{"action", "status"},
	)
)

// RecordRequest records HTTP request metrics
func RecordRequest(method, endpoint, status string, duration float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint, status).Observe(duration)
}

// RecordLLMCall records the duration of one upstream model call.
func RecordLLMCall(model, provider, kind string, duration float64) {
	LLMDuration.WithLabelValues(model, provider, kind).Observe(duration)
}

// RecordTokens records prompt/completion token usage.
func RecordTokens(model, provider string, promptTokens, completionTokens int) {
	if promptTokens > 0 {
		TokensPromptTotal.WithLabelValues(model, provider).Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		TokensCompletionTotal.WithLabelValues(model, provider).Add(float64(completionTokens))
	}
}

// RecordProviderError records a provider failure.
func RecordProviderError(provider, errorType string) {
	ProviderErrorsTotal.WithLabelValues(provider, normalizeLabel(errorType)).Inc()
}

// RecordCapabilityDenied records a tier gate rejection.
func RecordCapabilityDenied(tier, capability string) {
	CapabilityDeniedTotal.WithLabelValues(tier, capability).Inc()
}

// RecordHistoryWriteFailure records a dropped best-effort history write.
func RecordHistoryWriteFailure(kind, reason string) {
	HistoryWriteFailuresTotal.WithLabelValues(kind, normalizeLabel(reason)).Inc()
}

// SetProviderHealth updates provider health status
func SetProviderHealth(provider string, healthy bool) {
	value := 0.0
	if healthy {
		value = 1.0
	}
	ProviderHealth.WithLabelValues(provider).Set(value)
}

// RecordAuthRequest records an authentication attempt.
func RecordAuthRequest(action, status string) {
	AuthRequestsTotal.WithLabelValues(action, status).Inc()
}

func normalizeLabel(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return "unknown"
	}
	return strings.ReplaceAll(value, " ", "_")
}
