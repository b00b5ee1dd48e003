package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counts how many posts have been scanned in total.
var PostsScanned = promauto.NewCounter(prometheus.CounterOpts{
	Name: "spamscan_posts_scanned_total",
	Help: "Total number of posts evaluated against the rule set",
})

// Counts how many scanned posts produced at least one reason.
var PostsFlagged = promauto.NewCounter(prometheus.CounterOpts{
	Name: "spamscan_posts_flagged_total",
	Help: "Total number of posts that matched at least one rule",
})

// Counts rule hits per reason template.
var RuleHits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "spamscan_rule_hits_total",
		Help: "Total number of rule hits, labeled by reason template",
	},
	[]string{"reason"},
)

// Counts detector panics recovered at the rule boundary.
var DetectorPanics = promauto.NewCounter(prometheus.CounterOpts{
	Name: "spamscan_detector_panics_total",
	Help: "Total number of detector panics recovered during evaluation",
})

// Counts failures of external lookups (DNS, phone metadata).
var LookupFailures = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "spamscan_lookup_failures_total",
		Help: "Total number of external lookup failures, labeled by kind",
	},
	[]string{"kind"},
)

// Measures wall time spent evaluating a single post.
var ScanLatency = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "spamscan_scan_latency_seconds",
	Help:    "Time taken to evaluate one post against the full rule set",
	Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
})
