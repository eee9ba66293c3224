package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ImagesAnalyzed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "faceattr",
		Name:      "images_analyzed_total",
		Help:      "Total number of images run through the attribute pipeline",
	}, []string{"outcome"})

	FacesDetected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "faceattr",
		Name:      "faces_detected_total",
		Help:      "Total number of faces reported by the external detector",
	})

	DetectorFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "faceattr",
		Name:      "detector_failures_total",
		Help:      "Total number of failed calls to the external face detector",
	})

	InferenceDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "faceattr",
		Name:      "inference_duration_seconds",
		Help:      "Duration of pipeline stages",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
	}, []string{"stage"})

	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "faceattr",
		Name:      "queue_depth",
		Help:      "Number of pending analyze tasks in queue",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "faceattr",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "faceattr",
		Name:      "ws_connections",
		Help:      "Number of active WebSocket connections",
	})
)
