package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	KernelCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hexface_kernel_calls_total",
		Help: "Face kernel invocations",
	}, []string{"operation", "face"})

	KernelDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hexface_kernel_duration_seconds",
		Help:    "Time spent in face kernels per element batch",
		Buckets: prometheus.ExponentialBuckets(1.e-6, 4, 12),
	}, []string{"operation"})

	ElementsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hexface_elements_processed_total",
		Help: "Elements for which all faces were gathered and scattered",
	})

	CheckFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hexface_check_failures_total",
		Help: "Verification checks exceeding tolerance",
	}, []string{"check"})
)

func RecordKernel(operation string, faceID int, elapsed time.Duration) {
	KernelCalls.WithLabelValues(operation, strconv.Itoa(faceID)).Inc()
	KernelDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// Serve exposes /metrics on addr. It returns once the listener fails.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
