package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the tracker's Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "kanso",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kanso",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kanso",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)

	habitsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "kanso",
			Subsystem: "habits",
			Name:      "created_total",
			Help:      "Total number of habits registered.",
		},
	)

	progressRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kanso",
			Subsystem: "progress",
			Name:      "recorded_total",
			Help:      "Total number of progress submissions, by whether the daily goal was met afterwards.",
		},
		[]string{"goal_met"},
	)

	progressPurged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "kanso",
			Subsystem: "progress",
			Name:      "purged_entries_total",
			Help:      "Total number of progress entries removed by retention.",
		},
	)

	maintenanceRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kanso",
			Subsystem: "workers",
			Name:      "runs_total",
			Help:      "Total number of background job runs.",
		},
		[]string{"job", "success"},
	)

	maintenanceDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kanso",
			Subsystem: "workers",
			Name:      "run_duration_seconds",
			Help:      "Duration of background job runs.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"job"},
	)

	reportsGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "kanso",
			Subsystem: "reports",
			Name:      "generated_total",
			Help:      "Total number of weekly report batches generated.",
		},
	)

	remindersSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "kanso",
			Subsystem: "reminders",
			Name:      "deliveries_total",
			Help:      "Total number of reminder messages written to clients.",
		},
	)

	wsClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "kanso",
			Subsystem: "reminders",
			Name:      "connected_clients",
			Help:      "Current number of connected WebSocket clients.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		habitsCreated,
		progressRecorded,
		progressPurged,
		maintenanceRuns,
		maintenanceDuration,
		reportsGenerated,
		remindersSent,
		wsClients,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler exposes the registered collectors.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latencies per matched gin route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

func RecordHabitCreated() {
	habitsCreated.Inc()
}

func RecordProgress(goalMet bool) {
	progressRecorded.WithLabelValues(strconv.FormatBool(goalMet)).Inc()
}

func RecordPurge(removed int64) {
	if removed > 0 {
		progressPurged.Add(float64(removed))
	}
}

func RecordReportGenerated() {
	reportsGenerated.Inc()
}

func RecordReminderDeliveries(n int) {
	if n > 0 {
		remindersSent.Add(float64(n))
	}
}

func SetConnectedClients(n int) {
	wsClients.Set(float64(n))
}

// RecordJobRun records a background job execution.
func RecordJobRun(job string, duration time.Duration, success bool) {
	if duration <= 0 {
		duration = time.Millisecond
	}
	maintenanceRuns.WithLabelValues(job, strconv.FormatBool(success)).Inc()
	maintenanceDuration.WithLabelValues(job).Observe(duration.Seconds())
}
