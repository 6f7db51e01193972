// Package metrics exposes prometheus collectors for the HTTP surface,
// login attempts and assignment notifications.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"lawfirm-cms/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	reg prometheus.Gatherer

	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	inFlight      prometheus.Gauge
	logins        *prometheus.CounterVec
	notifications *prometheus.CounterVec
}

// New registers all collectors on reg. Pass prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		reg: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lawfirm_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lawfirm_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lawfirm_http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lawfirm_login_attempts_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lawfirm_assignment_notifications_total",
			Help: "Assignment emails by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.requests, m.duration, m.inFlight, m.logins, m.notifications)
	return m
}

// Middleware records request count and latency. The route label is the
// matched gin pattern so path parameters do not explode cardinality.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.inFlight.Inc()
		start := time.Now()
		c.Next()
		m.inFlight.Dec()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.requests.WithLabelValues(c.Request.Method, route, status).Inc()
		m.duration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// LoginAttempt counts one authentication outcome (success, invalid, rate_limited, error).
func (m *Metrics) LoginAttempt(outcome string) {
	m.logins.WithLabelValues(outcome).Inc()
}

// WrapNotifier counts sent and failed assignment emails.
func (m *Metrics) WrapNotifier(n notify.Notifier) notify.Notifier {
	return countingNotifier{next: n, counter: m.notifications}
}

type countingNotifier struct {
	next    notify.Notifier
	counter *prometheus.CounterVec
}

func (n countingNotifier) NotifyAssignment(ctx context.Context, a notify.AssignmentNotice) error {
	err := n.next.NotifyAssignment(ctx, a)
	result := "sent"
	if err != nil {
		result = "failed"
	}
	n.counter.WithLabelValues(result).Inc()
	return err
}
