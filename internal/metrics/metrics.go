package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Video processing metrics
var (
	// VideosProcessedTotal counts videos by outcome: "success", "skipped" or "failed".
	VideosProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "channelsubs_videos_processed_total",
			Help: "Total number of videos processed.",
		},
		[]string{"status"},
	)

	// CaptionDownloadsTotal counts caption file downloads by outcome: "success" or "error".
	CaptionDownloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "channelsubs_caption_downloads_total",
			Help: "Total number of caption file downloads.",
		},
		[]string{"status"},
	)

	// RetriesTotal counts retried platform requests.
	RetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "channelsubs_retries_total",
			Help: "Total number of retried platform requests.",
		},
	)

	// APIRequestsTotal counts platform API requests per endpoint and outcome.
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "channelsubs_api_requests_total",
			Help: "Total number of platform API requests.",
		},
		[]string{"endpoint", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		VideosProcessedTotal,
		CaptionDownloadsTotal,
		RetriesTotal,
		APIRequestsTotal,
	)
}
