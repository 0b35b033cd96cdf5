package metrics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordGenerationCountsPerModeAndGenre(t *testing.T) {
	counter := TrackGenerationsTotal.WithLabelValues("counts-test", "rock", "success")
	before := testutil.ToFloat64(counter)

	r := NewRecorder(NewClient(context.Background(), "test"))
	r.RecordGeneration(context.Background(), "counts-test", "rock", 5*time.Millisecond, true)
	r.RecordGeneration(context.Background(), "counts-test", " Rock ", 5*time.Millisecond, true)

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestGenerationSeriesStayBounded(t *testing.T) {
	r := NewRecorder(nil)
	r.RecordGeneration(context.Background(), "bounded-test", "warmup", time.Millisecond, true)
	before := testutil.CollectAndCount(TrackGenerationsTotal)
	other := TrackGenerationsTotal.WithLabelValues("bounded-test", otherGenre, "success")
	otherBefore := testutil.ToFloat64(other)

	for i := 0; i < 50; i++ {
		r.RecordGeneration(context.Background(), "bounded-test", fmt.Sprintf("made-up-genre-%d", i), time.Millisecond, true)
	}

	assert.Equal(t, before, testutil.CollectAndCount(TrackGenerationsTotal))
	assert.Equal(t, otherBefore+50, testutil.ToFloat64(other))
}

func TestGenreLabel(t *testing.T) {
	assert.Equal(t, "jazz", genreLabel("jazz"))
	assert.Equal(t, "electronic", genreLabel("  Electronic"))
	assert.Equal(t, otherGenre, genreLabel("polka"))
	assert.Equal(t, otherGenre, genreLabel(""))
}

func TestNilRecorderStillCounts(t *testing.T) {
	var r *Recorder
	counter := HTTPRequestsTotal.WithLabelValues("GET", "/nil-recorder", "200")
	before := testutil.ToFloat64(counter)

	assert.NotPanics(t, func() {
		r.RecordAPIRequest(context.Background(), "GET", "/nil-recorder", 200, time.Millisecond)
		r.RecordGeneration(context.Background(), "simulate", "nil", time.Millisecond, false)
		r.RecordPresetOperation("load", false)
	})
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestCloudWatchDisabledOutsideProduction(t *testing.T) {
	c := NewClient(context.Background(), "development")
	assert.False(t, c.Enabled())

	var nilClient *Client
	assert.False(t, nilClient.Enabled())
	assert.NotPanics(t, func() {
		nilClient.RecordAPIRequest("/x", 500, time.Second)
		nilClient.RecordGeneration("gcp", "rock", time.Second, true)
	})
}

func TestPresetOperationCounter(t *testing.T) {
	counter := PresetOperationsTotal.WithLabelValues("save", "error")
	before := testutil.ToFloat64(counter)

	NewRecorder(nil).RecordPresetOperation("save", false)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "success", statusLabel(true))
	assert.Equal(t, "error", statusLabel(false))
}

func dimensionMap(d types.MetricDatum) map[string]string {
	out := map[string]string{}
	for _, dim := range d.Dimensions {
		out[aws.ToString(dim.Name)] = aws.ToString(dim.Value)
	}
	return out
}

func TestAPIRequestDataSplitsServerErrors(t *testing.T) {
	c := &Client{environment: "production"}
	at := time.Unix(1700000000, 0)

	ok := c.apiRequestData("/presets", 404, 120*time.Millisecond, at)
	require.Len(t, ok, 2)
	assert.Equal(t, "APIRequests", aws.ToString(ok[0].MetricName))
	assert.Equal(t, "APILatency", aws.ToString(ok[1].MetricName))
	assert.InDelta(t, 120.0, aws.ToFloat64(ok[1].Value), 1e-9)
	assert.Equal(t, map[string]string{"Endpoint": "/presets", "Environment": "production"}, dimensionMap(ok[0]))

	failed := c.apiRequestData("/presets", 503, time.Millisecond, at)
	assert.Equal(t, "APIErrors", aws.ToString(failed[0].MetricName))
	assert.Equal(t, at, aws.ToTime(failed[0].Timestamp))
}

func TestGenerationData(t *testing.T) {
	c := &Client{environment: "production"}

	data := c.generationData("gcp", "jazz", 2*time.Second, false, time.Now())
	other := c.generationData("gcp", "sea shanty", time.Second, true, time.Now())
	require.Len(t, data, 3)

	assert.Equal(t, "TrackGenerations", aws.ToString(data[0].MetricName))
	assert.Equal(t, map[string]string{"Mode": "gcp", "Success": "false", "Environment": "production"}, dimensionMap(data[0]))
	assert.Equal(t, types.StandardUnitMilliseconds, data[1].Unit)
	assert.InDelta(t, 2000.0, aws.ToFloat64(data[1].Value), 1e-9)
	assert.Equal(t, map[string]string{"Genre": "jazz", "Environment": "production"}, dimensionMap(data[2]))
	assert.Equal(t, map[string]string{"Genre": otherGenre, "Environment": "production"}, dimensionMap(other[2]))
}
