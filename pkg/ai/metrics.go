package ai

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	providerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gema",
		Subsystem: "ai",
		Name:      "provider_call_duration_seconds",
		Help:      "Duration of outbound provider calls",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
	}, []string{"provider", "task"})

	providerFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gema",
		Subsystem: "ai",
		Name:      "provider_call_failures_total",
		Help:      "Number of failed provider calls",
	}, []string{"provider", "task"})
)

func observeCall(provider string, req Request, duration time.Duration) {
	providerDuration.WithLabelValues(provider, string(req.Task)).Observe(duration.Seconds())
}

func recordFailure(span trace.Span, provider string, req Request, err error) {
	providerFailures.WithLabelValues(provider, string(req.Task)).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
