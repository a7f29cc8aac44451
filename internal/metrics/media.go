package metrics

import "github.com/prometheus/client_golang/prometheus"

// Media host and seeder Prometheus metrics.
var (
	MediaRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vidshare",
			Name:      "media_requests_total",
			Help:      "Total number of media host operations",
		},
		[]string{"backend", "op", "status"}, // op: upload / release
	)

	MediaRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vidshare",
			Name:      "media_request_duration_seconds",
			Help:      "Media host operation duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"backend", "op"},
	)

	MediaUploadBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vidshare",
			Name:      "media_upload_bytes_total",
			Help:      "Bytes forwarded to the media host",
		},
		[]string{"backend", "kind"},
	)

	ProxyRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vidshare",
			Name:      "media_proxy_requests_total",
			Help:      "Media proxy requests by outcome",
		},
		[]string{"result"}, // "ok" / "denied" / "upstream_error"
	)

	SeedRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vidshare",
			Name:      "seed_records_total",
			Help:      "Fixture records processed by the seeder",
		},
		[]string{"collection", "action"}, // action: imported / skipped / fallback / destroyed / exported
	)
)

var registered bool

// Register registers every collector of the package. Must be called once from main.
func Register() {
	if registered {
		return
	}
	prometheus.MustRegister(
		httpRequestDuration,
		httpRequestsTotal,
		httpResponseBytes,
		httpInFlight,
		MediaRequestsTotal,
		MediaRequestDuration,
		MediaUploadBytes,
		ProxyRequestsTotal,
		SeedRecordsTotal,
	)
	registered = true
}
