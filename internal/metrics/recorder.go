package metrics

import (
	"context"
	"strconv"
	"time"
)

// Recorder fans every measurement out to Prometheus, Sentry and CloudWatch.
// A nil Recorder still updates the Prometheus collectors.
type Recorder struct {
	sentry     *SentryMetrics
	cloudwatch *Client
}

// NewRecorder builds a recorder. cloudwatch may be nil.
func NewRecorder(cloudwatch *Client) *Recorder {
	return &Recorder{
		sentry:     NewSentryMetrics(),
		cloudwatch: cloudwatch,
	}
}

// RecordAPIRequest records one completed HTTP request. path should be the
// route template so label cardinality stays bounded.
func (r *Recorder) RecordAPIRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	if r == nil {
		return
	}
	r.sentry.RecordAPIRequest(ctx, path, statusCode, duration)
	r.cloudwatch.RecordAPIRequest(path, statusCode, duration)
}

// RecordGeneration records one track generation
func (r *Recorder) RecordGeneration(ctx context.Context, mode, genre string, duration time.Duration, success bool) {
	TrackGenerationsTotal.WithLabelValues(mode, genreLabel(genre), statusLabel(success)).Inc()
	TrackGenerationDuration.WithLabelValues(mode).Observe(duration.Seconds())

	if r == nil {
		return
	}
	r.sentry.RecordGeneration(ctx, mode, genre, duration, success)
	r.cloudwatch.RecordGeneration(mode, genre, duration, success)
}

// RecordPresetOperation counts a preset store call (save, load, list, delete)
func (r *Recorder) RecordPresetOperation(operation string, success bool) {
	PresetOperationsTotal.WithLabelValues(operation, statusLabel(success)).Inc()
}
