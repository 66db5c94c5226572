// Package metrics provides Prometheus metrics for the chatbot service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the chatbot.
type Metrics struct {
	// HTTP request metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	RateLimitedTotal    prometheus.Counter

	// Reply pipeline metrics
	RepliesTotal       *prometheus.CounterVec
	ReplyDuration      *prometheus.HistogramVec
	ReplyTokensTotal   *prometheus.CounterVec
	EnrichmentFailures *prometheus.CounterVec
	KnowledgeHitsTotal prometheus.Counter

	// Learning metrics
	FeedbackTotal *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{}

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatbot_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	m.RateLimitedTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "chatbot_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)

	m.RepliesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_replies_total",
			Help: "Total number of replies by responder mode, intent and outcome",
		},
		[]string{"mode", "intent", "status"},
	)

	m.ReplyDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatbot_reply_duration_seconds",
			Help:    "Duration of reply generation in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"mode"},
	)

	m.ReplyTokensTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_reply_tokens_total",
			Help: "Total number of completion tokens reported by providers",
		},
		[]string{"model"},
	)

	m.EnrichmentFailures = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_enrichment_failures_total",
			Help: "Total number of best-effort lookups that failed",
		},
		[]string{"step"},
	)

	m.KnowledgeHitsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "chatbot_knowledge_hits_total",
			Help: "Total number of replies that had knowledge context",
		},
	)

	m.FeedbackTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_feedback_total",
			Help: "Total number of feedback submissions",
		},
		[]string{"type"},
	)

	return m
}

// RecordHTTPRequest records a handled HTTP request.
func (m *Metrics) RecordHTTPRequest(route, method, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(route, method, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordReply records one reply attempt.
func (m *Metrics) RecordReply(mode, intent, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RepliesTotal.WithLabelValues(mode, intent, status).Inc()
	m.ReplyDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

func (m *Metrics) RecordTokens(model string, tokens int) {
	if m == nil || tokens <= 0 {
		return
	}
	m.ReplyTokensTotal.WithLabelValues(model).Add(float64(tokens))
}

func (m *Metrics) RecordEnrichmentFailure(step string) {
	if m == nil {
		return
	}
	m.EnrichmentFailures.WithLabelValues(step).Inc()
}

func (m *Metrics) RecordKnowledgeHit() {
	if m == nil {
		return
	}
	m.KnowledgeHitsTotal.Inc()
}

func (m *Metrics) RecordFeedback(feedbackType string) {
	if m == nil {
		return
	}
	m.FeedbackTotal.WithLabelValues(feedbackType).Inc()
}

func (m *Metrics) RecordRateLimited() {
	if m == nil {
		return
	}
	m.RateLimitedTotal.Inc()
}
