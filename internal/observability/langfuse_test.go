package observability

import (
	"context"
	"testing"

	"github.com/Conceptual-Machines/music-track-generator/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestNewLangfuseClientDisabledWithoutSecret(t *testing.T) {
	c := NewLangfuseClient(context.Background(), &config.Config{LangfuseEnabled: true})
	assert.False(t, c.IsEnabled())

	c = NewLangfuseClient(context.Background(), &config.Config{LangfuseSecretKey: "sk"})
	assert.False(t, c.IsEnabled())
}

func TestDisabledTracingIsNoop(t *testing.T) {
	var nilClient *LangfuseClient

	for _, c := range []*LangfuseClient{nilClient, Disabled()} {
		assert.False(t, c.IsEnabled())
		assert.NotPanics(t, func() {
			trace := c.StartTrace(context.Background(), "track.generate", map[string]interface{}{"mode": "simulate"})
			assert.Empty(t, trace.ID())

			gen := trace.Generation("prompt.render", nil)
			gen.Input(map[string]any{"genre": "rock"})
			gen.Metadata(map[string]interface{}{"k": "v"})
			gen.SetLevel("ERROR")
			gen.Output("prompt")
			gen.Finish()
			trace.Finish()
		})
	}
}
