package observability

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/Conceptual-Machines/music-track-generator/internal/config"
	langfuse "github.com/henomis/langfuse-go"
	"github.com/henomis/langfuse-go/model"
)

// LangfuseClient wraps the Langfuse client with our configuration.
// A nil or disabled client turns every call into a no-op.
type LangfuseClient struct {
	client  *langfuse.Langfuse
	enabled bool
}

// NewLangfuseClient creates the Langfuse client when tracing is configured
func NewLangfuseClient(ctx context.Context, cfg *config.Config) *LangfuseClient {
	if !cfg.LangfuseEnabled || cfg.LangfuseSecretKey == "" {
		log.Println("⚠️  Langfuse not configured (LANGFUSE_ENABLED=false or LANGFUSE_SECRET_KEY not set)")
		return Disabled()
	}

	// The SDK only reads its credentials from the environment, so values that
	// came from a config file are exported before the client is built.
	exportIfUnset("LANGFUSE_PUBLIC_KEY", cfg.LangfusePublicKey)
	exportIfUnset("LANGFUSE_SECRET_KEY", cfg.LangfuseSecretKey)
	exportIfUnset("LANGFUSE_HOST", cfg.LangfuseHost)

	lf := langfuse.New(ctx)
	log.Printf("✅ Langfuse initialized (host: %s)", cfg.LangfuseHost)

	return &LangfuseClient{
		client:  lf,
		enabled: true,
	}
}

// Disabled returns a client that records nothing
func Disabled() *LangfuseClient {
	return &LangfuseClient{enabled: false}
}

func exportIfUnset(key, value string) {
	if value == "" || os.Getenv(key) != "" {
		return
	}
	if err := os.Setenv(key, value); err != nil {
		log.Printf("⚠️  Failed to export %s: %v", key, err)
	}
}

// IsEnabled returns whether Langfuse is enabled
func (c *LangfuseClient) IsEnabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// StartTrace starts a new trace in Langfuse
func (c *LangfuseClient) StartTrace(ctx context.Context, name string, metadata map[string]interface{}) *Trace {
	if !c.IsEnabled() {
		return &Trace{enabled: false, ctx: ctx}
	}

	trace, err := c.client.Trace(&model.Trace{
		Name:     name,
		Metadata: metadata,
	})
	if err != nil {
		log.Printf("⚠️  Failed to create Langfuse trace: %v", err)
		return &Trace{enabled: false, ctx: ctx}
	}

	return &Trace{
		trace:   trace,
		enabled: true,
		ctx:     ctx,
		client:  c.client,
	}
}

// Trace represents a Langfuse trace
type Trace struct {
	trace   *model.Trace
	enabled bool
	ctx     context.Context
	client  *langfuse.Langfuse
}

// ID returns the Langfuse trace id, or "" when tracing is off
func (t *Trace) ID() string {
	if !t.enabled || t.trace == nil || t.trace.ID == nil {
		return ""
	}
	return *t.trace.ID
}

// Generation creates a new generation span within the trace
func (t *Trace) Generation(name string, metadata map[string]interface{}) *Generation {
	if !t.enabled {
		return &Generation{enabled: false}
	}

	now := time.Now()
	gen, err := t.client.Generation(&model.Generation{
		TraceID:   t.trace.ID,
		Name:      name,
		StartTime: &now,
		Metadata:  metadata,
	}, nil)
	if err != nil {
		log.Printf("⚠️  Failed to create Langfuse generation: %v", err)
		return &Generation{enabled: false}
	}

	return &Generation{
		generation: gen,
		enabled:    true,
		client:     t.client,
	}
}

// Finish flushes queued events for the trace
func (t *Trace) Finish() {
	if t.enabled && t.client != nil {
		t.client.Flush(t.ctx)
	}
}

// Generation represents a Langfuse generation span
type Generation struct {
	generation *model.Generation
	enabled    bool
	client     *langfuse.Langfuse
}

// Input sets the input for the generation
func (g *Generation) Input(input interface{}) {
	if g.enabled && g.generation != nil {
		g.generation.Input = input
	}
}

// Output sets the output for the generation
func (g *Generation) Output(output interface{}) {
	if g.enabled && g.generation != nil {
		g.generation.Output = output
	}
}

// Metadata merges metadata into the generation
func (g *Generation) Metadata(metadata map[string]interface{}) {
	if !g.enabled || g.generation == nil {
		return
	}
	md, ok := g.generation.Metadata.(map[string]interface{})
	if !ok || md == nil {
		md = make(map[string]interface{}, len(metadata))
	}
	for k, v := range metadata {
		md[k] = v
	}
	g.generation.Metadata = md
}

// SetLevel sets the level of the generation
func (g *Generation) SetLevel(level string) {
	if g.enabled && g.generation != nil {
		g.generation.Level = model.ObservationLevel(level)
	}
}

// Finish completes the generation and queues it for sending
func (g *Generation) Finish() {
	if !g.enabled || g.generation == nil || g.client == nil {
		return
	}
	now := time.Now()
	g.generation.EndTime = &now
	if _, err := g.client.GenerationEnd(g.generation); err != nil {
		log.Printf("⚠️  Failed to end Langfuse generation: %v", err)
	}
}
