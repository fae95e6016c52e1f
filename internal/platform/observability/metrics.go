package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PostsScanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "goalwatch_posts_scanned_total",
		Help: "The total number of feed posts examined",
	})

	GoalsDetected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "goalwatch_goals_detected_total",
		Help: "The total number of goal events detected, by source",
	}, []string{"source"})

	DuplicatesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "goalwatch_duplicates_dropped_total",
		Help: "The total number of goal sightings dropped as duplicates, by reason",
	}, []string{"reason"})

	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "goalwatch_notifications_total",
		Help: "The total number of webhook notifications, by origin and status",
	}, []string{"origin", "status"})

	VideosResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "goalwatch_videos_resolved_total",
		Help: "The total number of clip resolution outcomes",
	}, []string{"status"})

	PendingGoals = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "goalwatch_pending_goals",
		Help: "Number of scoreboard goals waiting out the grace period",
	})

	FeedFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "goalwatch_feed_fetch_duration_seconds",
		Help:    "Duration of upstream feed fetches",
		Buckets: prometheus.DefBuckets,
	}, []string{"feed"})
)
