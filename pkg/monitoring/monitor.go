package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// EnrollmentEvents counts enroll and unenroll outcomes.
	EnrollmentEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "course_enrollment_events_total",
			Help: "Enrollment state changes by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	// CourseMutations counts writes to courses and their lessons.
	CourseMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "course_mutations_total",
			Help: "Course and lesson writes by operation",
		},
		[]string{"operation"},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(EnrollmentEvents)
		prometheus.MustRegister(CourseMutations)
	})
}

// RecordEnrollment records the result of an enroll or unenroll attempt.
func RecordEnrollment(action string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	EnrollmentEvents.WithLabelValues(action, outcome).Inc()
}

func RecordCourseMutation(operation string) {
	CourseMutations.WithLabelValues(operation).Inc()
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
