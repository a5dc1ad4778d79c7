package metrics

import "github.com/prometheus/client_golang/prometheus"

// ChatMetrics exposes counters/histograms for the assistant chat flow.
type ChatMetrics struct {
	messagesTotal  *prometheus.CounterVec
	llmFallback    *prometheus.CounterVec
	followUpTotal  *prometheus.CounterVec
	composeLatency prometheus.Histogram
}

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vitanest",
			Subsystem: "chat",
			Name:      "messages_total",
			Help:      "Total chat messages appended to history",
		}, []string{"role"}),
		llmFallback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vitanest",
			Subsystem: "chat",
			Name:      "llm_fallback_total",
			Help:      "Replies composed locally instead of by the hosted LLM",
		}, []string{"reason"}),
		followUpTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vitanest",
			Subsystem: "chat",
			Name:      "followup_total",
			Help:      "Follow-up tip delivery outcomes",
		}, []string{"status"}),
		composeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vitanest",
			Subsystem: "chat",
			Name:      "compose_latency_seconds",
			Help:      "Latency of reply composition including the LLM attempt",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.messagesTotal, m.llmFallback, m.followUpTotal, m.composeLatency)
	return m
}

func (m *ChatMetrics) ObserveMessage(role string) {
	if m == nil {
		return
	}
	m.messagesTotal.WithLabelValues(role).Inc()
}

func (m *ChatMetrics) ObserveLLMFallback(reason string) {
	if m == nil {
		return
	}
	m.llmFallback.WithLabelValues(reason).Inc()
}

func (m *ChatMetrics) ObserveFollowUp(status string) {
	if m == nil {
		return
	}
	m.followUpTotal.WithLabelValues(status).Inc()
}

func (m *ChatMetrics) ObserveComposeLatency(seconds float64) {
	if m == nil {
		return
	}
	m.composeLatency.Observe(seconds)
}
