// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gym_payroll"

// Metrics is nil-safe: every method is a no-op on a nil receiver.
type Metrics struct {
	batchItems    *prometheus.CounterVec
	reportLatency *prometheus.HistogramVec
	notifications *prometheus.CounterVec
	cronRuns      *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		batchItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payroll_batch_items_total",
			Help:      "Employees processed by payroll batch runs, by operation and outcome.",
		}, []string{"operation", "outcome"}),
		reportLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "financial_report_duration_seconds",
			Help:      "Time spent building financial reports.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind", "cache"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notifications by result.",
		}, []string{"result"}),
		cronRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cron_job_runs_total",
			Help:      "Scheduled job runs by job and result.",
		}, []string{"job", "result"}),
	}
	reg.MustRegister(m.batchItems, m.reportLatency, m.notifications, m.cronRuns)
	return m
}

func (m *Metrics) BatchItem(operation, outcome string) {
	if m == nil {
		return
	}
	m.batchItems.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) ObserveReport(kind string, cached bool, since time.Time) {
	if m == nil {
		return
	}
	cache := "miss"
	if cached {
		cache = "hit"
	}
	m.reportLatency.WithLabelValues(kind, cache).Observe(time.Since(since).Seconds())
}

// Notification counts queued, stored, dropped and failed notifications.
func (m *Metrics) Notification(result string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(result).Inc()
}

func (m *Metrics) CronRun(job string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.cronRuns.WithLabelValues(job, result).Inc()
}
