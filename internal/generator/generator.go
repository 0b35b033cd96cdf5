package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/auth/credentials"
	"github.com/Conceptual-Machines/music-track-generator/internal/config"
	"github.com/Conceptual-Machines/music-track-generator/internal/logger"
	"github.com/Conceptual-Machines/music-track-generator/internal/metrics"
	"github.com/Conceptual-Machines/music-track-generator/internal/models"
	"github.com/Conceptual-Machines/music-track-generator/internal/observability"
	"github.com/Conceptual-Machines/music-track-generator/internal/prompt"
	"google.golang.org/genai"
)

const (
	// StatusSimulated is the only status this generator produces
	StatusSimulated = "simulated"

	baseCostUSD      = 0.01
	costPerSecondUSD = 0.0001
	costNote         = "Actual costs may vary based on GCP pricing and usage"

	metadataExt     = ".json"
	dirPerm         = 0o755
	filePerm        = 0o644
	jsonIndent      = "  "
	cloudScope      = "https://www.googleapis.com/auth/cloud-platform"
	defaultMode     = config.ModeSimulate
	defaultLocation = "us-central1"
	levelError      = "ERROR"
)

const (
	messageSimulate = "Track generation simulated. Set MUSIC_GEN_MODE=gcp to target " +
		"Google Cloud Vertex AI music generation."
	messageGCP = "Track generation simulated. In production, this would call " +
		"Google Cloud Vertex AI music generation API with the generated prompt."
)

// ConfigurationError is returned when a generator cannot be built for the
// requested mode. It is never downgraded to simulate mode.
type ConfigurationError struct {
	Mode   string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s generator configuration: %s: %v", e.Mode, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid %s generator configuration: %s", e.Mode, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

type clientFactory func(ctx context.Context, cc *genai.ClientConfig) (*genai.Client, error)

// Options selects the mode and backend connection of a generator
type Options struct {
	Mode            string // "simulate" or "gcp"
	ProjectID       string // Required in gcp mode
	Location        string
	CredentialsPath string // Optional service account JSON; ADC otherwise

	Tracer  *observability.LangfuseClient
	Metrics *metrics.Recorder

	newClient clientFactory
}

// OptionsFromConfig projects the generator-relevant part of the configuration
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Mode:            cfg.Mode,
		ProjectID:       cfg.GoogleCloudProject,
		Location:        cfg.GoogleCloudRegion,
		CredentialsPath: cfg.GoogleApplicationCredentials,
	}
}

func (o Options) withDefaults() Options {
	if o.Mode == "" {
		o.Mode = defaultMode
	}
	if o.Location == "" {
		o.Location = defaultLocation
	}
	if o.newClient == nil {
		o.newClient = genai.NewClient
	}
	return o
}

// Generator renders track configurations into prompts and result records.
// It is safe for concurrent use.
type Generator struct {
	mode      string
	projectID string
	location  string
	builder   *prompt.Builder
	client    *genai.Client // gcp mode only; held but never called
	tracer    *observability.LangfuseClient
	metrics   *metrics.Recorder
}

// New builds a generator bound to opts.Mode. In gcp mode a project id is
// required and the Vertex AI client must be constructible; either failure is
// a *ConfigurationError.
func New(ctx context.Context, opts Options) (*Generator, error) {
	opts = opts.withDefaults()

	g := &Generator{
		mode:     opts.Mode,
		location: opts.Location,
		builder:  prompt.NewPromptBuilder(),
		tracer:   opts.Tracer,
		metrics:  opts.Metrics,
	}

	switch opts.Mode {
	case config.ModeSimulate:
		return g, nil
	case config.ModeGCP:
		client, err := newVertexClient(ctx, opts)
		if err != nil {
			return nil, err
		}
		g.projectID = opts.ProjectID
		g.client = client
		logger.Info("Initialized generator", logger.Fields{
			"mode":     opts.Mode,
			"project":  opts.ProjectID,
			"location": opts.Location,
		})
		return g, nil
	default:
		return nil, &ConfigurationError{Mode: opts.Mode, Reason: "unknown mode"}
	}
}

func newVertexClient(ctx context.Context, opts Options) (*genai.Client, error) {
	if opts.ProjectID == "" {
		return nil, &ConfigurationError{
			Mode:   config.ModeGCP,
			Reason: "GCP project ID not provided; set GOOGLE_CLOUD_PROJECT or pass a project id",
		}
	}

	cc := &genai.ClientConfig{
		Backend:  genai.BackendVertexAI,
		Project:  opts.ProjectID,
		Location: opts.Location,
	}
	if opts.CredentialsPath != "" {
		creds, err := credentials.DetectDefault(&credentials.DetectOptions{
			CredentialsFile: opts.CredentialsPath,
			Scopes:          []string{cloudScope},
		})
		if err != nil {
			return nil, &ConfigurationError{Mode: config.ModeGCP, Reason: "failed to load credentials", Err: err}
		}
		cc.Credentials = creds
	}

	client, err := opts.newClient(ctx, cc)
	if err != nil {
		return nil, &ConfigurationError{Mode: config.ModeGCP, Reason: "failed to create Vertex AI client", Err: err}
	}
	return client, nil
}

// Mode returns the mode the generator was built for
func (g *Generator) Mode() string {
	return g.mode
}

// ResultMetadata is the configuration echoed back in a Result
type ResultMetadata struct {
	Structure       models.SongStructure   `json:"structure"`
	StyleReferences models.StyleReferences `json:"style_references"`
	Temperature     float64                `json:"temperature"`
}

// Result is the record produced by Generate
type Result struct {
	Status          string         `json:"status"`
	Mode            string         `json:"mode"`
	Genre           string         `json:"genre"`
	DurationSeconds int            `json:"duration_seconds"`
	Prompt          string         `json:"prompt"`
	Metadata        ResultMetadata `json:"metadata"`
	Message         string         `json:"message"`
	MetadataPath    string         `json:"metadata_path,omitempty"`
}

// Generate renders cfg into a prompt and returns a simulated result. When
// outputPath is non-empty the result is also written as JSON next to it and
// the written path is set on the returned record.
func (g *Generator) Generate(ctx context.Context, cfg models.TrackConfig, outputPath string) (*Result, error) {
	start := time.Now()

	result, err := g.generate(ctx, cfg, outputPath)

	elapsed := time.Since(start)
	g.metrics.RecordGeneration(ctx, g.mode, cfg.Genre, elapsed, err == nil)
	if err != nil {
		return nil, err
	}

	fields := logger.Fields{}
	if result.MetadataPath != "" {
		fields["metadata_path"] = result.MetadataPath
	}
	logger.LogGeneration(ctx, g.mode, cfg.Genre, cfg.DurationSeconds, elapsed, fields)
	return result, nil
}

func (g *Generator) generate(ctx context.Context, cfg models.TrackConfig, outputPath string) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	text, err := g.builder.BuildPrompt(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build prompt: %w", err)
	}

	trace := g.tracer.StartTrace(ctx, "track.generate", map[string]interface{}{
		"mode":  g.mode,
		"genre": cfg.Genre,
	})
	defer trace.Finish()

	gen := trace.Generation("prompt.render", map[string]interface{}{
		"duration_seconds": cfg.DurationSeconds,
		"temperature":      cfg.Temperature,
	})
	gen.Input(cfg.ToMap())
	defer gen.Finish()

	result := &Result{
		Status:          StatusSimulated,
		Mode:            g.mode,
		Genre:           cfg.Genre,
		DurationSeconds: cfg.DurationSeconds,
		Prompt:          text,
		Metadata: ResultMetadata{
			Structure:       cfg.Structure,
			StyleReferences: cfg.StyleReferences.Clone(),
			Temperature:     cfg.Temperature,
		},
		Message: g.message(),
	}

	if outputPath != "" {
		path, err := writeMetadata(result, outputPath)
		if err != nil {
			gen.SetLevel(levelError)
			return nil, err
		}
		result.MetadataPath = path
	}

	gen.Output(text)
	return result, nil
}

func (g *Generator) message() string {
	if g.mode == config.ModeGCP {
		return messageGCP
	}
	return messageSimulate
}

// MetadataPath derives the JSON side file for a track output path by
// replacing its extension.
func MetadataPath(outputPath string) string {
	base := filepath.Base(outputPath)
	ext := filepath.Ext(base)
	if ext == base {
		ext = ""
	}
	return strings.TrimSuffix(outputPath, ext) + metadataExt
}

// writeMetadata writes the record without its own path, matching what a
// caller reading the file back would expect.
func writeMetadata(result *Result, outputPath string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), dirPerm); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(result, "", jsonIndent)
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}

	path := MetadataPath(outputPath)
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return "", fmt.Errorf("failed to write metadata %s: %w", path, err)
	}
	logger.Info("Saved metadata", logger.Fields{"path": path})
	return path, nil
}

// CostEstimate is an indicative price for one generation
type CostEstimate struct {
	BaseCostUSD       float64 `json:"base_cost_usd"`
	DurationCostUSD   float64 `json:"duration_cost_usd"`
	EstimatedTotalUSD float64 `json:"estimated_total_usd"`
	Note              string  `json:"note"`
}

// EstimateCost prices a configuration at a flat base plus a per-second rate
func EstimateCost(cfg models.TrackConfig) CostEstimate {
	durationCost := float64(cfg.DurationSeconds) * costPerSecondUSD
	return CostEstimate{
		BaseCostUSD:       baseCostUSD,
		DurationCostUSD:   durationCost,
		EstimatedTotalUSD: baseCostUSD + durationCost,
		Note:              costNote,
	}
}

// EstimateCost prices a configuration
func (g *Generator) EstimateCost(cfg models.TrackConfig) CostEstimate {
	return EstimateCost(cfg)
}
