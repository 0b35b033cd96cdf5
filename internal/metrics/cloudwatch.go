package metrics

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

const (
	cloudwatchNamespace   = "MusicTrackGenerator/API"
	cloudwatchTimeout     = 5 * time.Second
	httpStatusServerError = 500
	environmentProduction = "production"
)

// Client wraps CloudWatch client for custom metrics
type Client struct {
	client      *cloudwatch.Client
	enabled     bool
	environment string
}

// NewClient creates a new CloudWatch metrics client. Metrics are only
// shipped in production; elsewhere the client is a no-op.
func NewClient(ctx context.Context, environment string) *Client {
	if environment != environmentProduction {
		log.Printf("📊 CloudWatch Metrics: DISABLED (environment: %s)", environment)
		return &Client{
			enabled:     false,
			environment: environment,
		}
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		log.Printf("⚠️  Failed to load AWS config for CloudWatch: %v", err)
		return &Client{enabled: false, environment: environment}
	}

	log.Printf("📊 CloudWatch Metrics: ✅ ENABLED (namespace: %s)", cloudwatchNamespace)
	return &Client{
		client:      cloudwatch.NewFromConfig(cfg),
		enabled:     true,
		environment: environment,
	}
}

// Enabled reports whether metrics are shipped
func (m *Client) Enabled() bool {
	return m != nil && m.enabled && m.client != nil
}

func dimension(name, value string) types.Dimension {
	return types.Dimension{Name: aws.String(name), Value: aws.String(value)}
}

func datum(name string, value float64, unit types.StandardUnit, at time.Time, dims ...types.Dimension) types.MetricDatum {
	return types.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(value),
		Unit:       unit,
		Timestamp:  aws.Time(at),
		Dimensions: dims,
	}
}

// apiRequestData counts the request as APIRequests, or APIErrors on a 5xx,
// plus its latency.
func (m *Client) apiRequestData(endpoint string, statusCode int, duration time.Duration, at time.Time) []types.MetricDatum {
	name := "APIRequests"
	if statusCode >= httpStatusServerError {
		name = "APIErrors"
	}
	dims := []types.Dimension{dimension("Endpoint", endpoint), dimension("Environment", m.environment)}
	return []types.MetricDatum{
		datum(name, 1, types.StandardUnitCount, at, dims...),
		datum("APILatency", float64(duration.Milliseconds()), types.StandardUnitMilliseconds, at, dims...),
	}
}

func (m *Client) generationData(mode, genre string, duration time.Duration, success bool, at time.Time) []types.MetricDatum {
	env := dimension("Environment", m.environment)
	dims := []types.Dimension{dimension("Mode", mode), dimension("Success", strconv.FormatBool(success)), env}
	return []types.MetricDatum{
		datum("TrackGenerations", 1, types.StandardUnitCount, at, dims...),
		datum("GenerationDuration", float64(duration.Milliseconds()), types.StandardUnitMilliseconds, at, dims...),
		datum("GenerationsByGenre", 1, types.StandardUnitCount, at, dimension("Genre", genreLabel(genre)), env),
	}
}

// RecordAPIRequest ships request metrics in the background
func (m *Client) RecordAPIRequest(endpoint string, statusCode int, duration time.Duration) {
	if !m.Enabled() {
		return
	}
	go m.put(m.apiRequestData(endpoint, statusCode, duration, time.Now()))
}

// RecordGeneration ships generation metrics in the background
func (m *Client) RecordGeneration(mode, genre string, duration time.Duration, success bool) {
	if !m.Enabled() {
		return
	}
	go m.put(m.generationData(mode, genre, duration, success, time.Now()))
}

// put sends one batch; failures are logged and dropped
func (m *Client) put(data []types.MetricDatum) {
	ctx, cancel := context.WithTimeout(context.Background(), cloudwatchTimeout)
	defer cancel()

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(cloudwatchNamespace),
		MetricData: data,
	})
	if err != nil {
		log.Printf("⚠️  Failed to put %d CloudWatch metrics: %v", len(data), err)
	}
}
