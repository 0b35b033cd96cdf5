package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	promNamespace = "music_gen"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: promNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: promNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	// Track generation metrics
	TrackGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: promNamespace,
			Subsystem: "tracks",
			Name:      "generations_total",
			Help:      "Total number of track generations",
		},
		[]string{"mode", "genre", "status"},
	)

	TrackGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: promNamespace,
			Subsystem: "tracks",
			Name:      "generation_duration_seconds",
			Help:      "Track generation duration in seconds",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"mode"},
	)

	// Preset store metrics
	PresetOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: promNamespace,
			Subsystem: "presets",
			Name:      "operations_total",
			Help:      "Total number of preset store operations",
		},
		[]string{"operation", "status"},
	)
)

// Genres reported under their own label value. Anything else is "other".
var knownGenres = map[string]struct{}{
	"rock":       {},
	"pop":        {},
	"jazz":       {},
	"electronic": {},
	"classical":  {},
	"hip-hop":    {},
	"country":    {},
	"ambient":    {},
}

const otherGenre = "other"

// genreLabel folds free-form genres onto a fixed set so that client input
// cannot grow the number of series.
func genreLabel(genre string) string {
	g := strings.ToLower(strings.TrimSpace(genre))
	if _, ok := knownGenres[g]; ok {
		return g
	}
	return otherGenre
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
