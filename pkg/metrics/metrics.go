package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	NotificationsCreated prometheus.Counter
	NotificationsSkipped prometheus.Counter
	MentionFanouts       prometheus.Histogram

	ReportsCreated *prometheus.CounterVec
	ReportReviews  *prometheus.CounterVec
	ReportConflicts prometheus.Counter
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		NotificationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "notifications_created_total",
			Help:      "Total number of notification records written",
		}),
		NotificationsSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "notifications_skipped_total",
			Help:      "Total number of notification payloads dropped by validation",
		}),
		MentionFanouts: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "mention_fanout_recipients",
			Help:      "Recipients notified per mention fan-out",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),
		ReportsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reports_created_total",
			Help:      "Total number of content reports filed",
		}, []string{"entity_type"}),
		ReportReviews: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "report_reviews_total",
			Help:      "Total number of report review transitions",
		}, []string{"status"}),
		ReportConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "report_conflicts_total",
			Help:      "Total number of duplicate open-report rejections",
		}),
	}
}
