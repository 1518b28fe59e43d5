package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	Registry          *prometheus.Registry
	AdsSubmitted      prometheus.Counter
	ImagesUploaded    prometheus.Counter
	ModerationActions *prometheus.CounterVec
	AccountActions    *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
}

// New registers every collector on a fresh registry.
func New(namespace string) *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		AdsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ads_submitted_total",
			Help:      "Ads created through the submission workflow.",
		}),
		ImagesUploaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ad_images_uploaded_total",
			Help:      "Images stored in object storage.",
		}),
		ModerationActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ad_moderation_actions_total",
			Help:      "Successful admin actions on ads by action.",
		}, []string{"action"}),
		AccountActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "account_actions_total",
			Help:      "Successful admin actions on accounts by action.",
		}, []string{"action"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method, route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.Registry.MustRegister(
		m.AdsSubmitted,
		m.ImagesUploaded,
		m.ModerationActions,
		m.AccountActions,
		m.RequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}

// ModerationAction counts one ad action; safe on a nil receiver.
func (m *Metrics) ModerationAction(action string) {
	if m == nil {
		return
	}
	m.ModerationActions.WithLabelValues(action).Inc()
}

// AccountAction counts one account action; safe on a nil receiver.
func (m *Metrics) AccountAction(action string) {
	if m == nil {
		return
	}
	m.AccountActions.WithLabelValues(action).Inc()
}

// AdSubmitted counts one created ad; safe on a nil receiver.
func (m *Metrics) AdSubmitted() {
	if m == nil {
		return
	}
	m.AdsSubmitted.Inc()
}

// ImageUploaded counts one stored image; safe on a nil receiver.
func (m *Metrics) ImageUploaded() {
	if m == nil {
		return
	}
	m.ImagesUploaded.Inc()
}
