package prompt

import (
	"strings"
	"testing"

	"github.com/Conceptual-Machines/music-track-generator/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rockConfig() models.TrackConfig {
	return models.TrackConfig{
		TextInput:       "We are the champions",
		Genre:           "rock",
		DurationSeconds: 185,
		Structure: models.SongStructure{
			Intro: true, VerseCount: 2, ChorusCount: 3, Bridge: true, Outro: true,
		},
		StyleReferences: models.StyleReferences{
			{Type: "style", Value: "arena rock"},
			{Type: "artist", Value: "Queen"},
		},
		Temperature: 0.8,
	}
}

func TestNewPromptBuilder(t *testing.T) {
	builder := NewPromptBuilder()
	if builder == nil {
		t.Fatal("NewPromptBuilder() returned nil")
		return
	}
	if builder.tmpl == nil {
		t.Fatal("NewPromptBuilder() created builder without a template")
	}
}

func TestStructureSectionsInterleaves(t *testing.T) {
	s := models.SongStructure{Intro: false, VerseCount: 2, ChorusCount: 3}
	assert.Equal(t, []string{"verse 1", "chorus", "verse 2", "chorus", "chorus"}, StructureSections(s))
	assert.Equal(t, "verse 1 -> chorus -> verse 2 -> chorus -> chorus", StructureString(s))
}

func TestStructureSections(t *testing.T) {
	tests := []struct {
		name      string
		structure models.SongStructure
		expected  string
	}{
		{
			name:      "full layout",
			structure: models.SongStructure{Intro: true, VerseCount: 2, ChorusCount: 3, Bridge: true, Outro: true},
			expected:  "intro -> verse 1 -> chorus -> verse 2 -> chorus -> chorus -> bridge -> outro",
		},
		{
			name:      "more verses than choruses",
			structure: models.SongStructure{VerseCount: 3, ChorusCount: 1, Outro: true},
			expected:  "verse 1 -> chorus -> verse 2 -> verse 3 -> outro",
		},
		{
			name:      "minimal",
			structure: models.SongStructure{VerseCount: 1, ChorusCount: 1},
			expected:  "verse 1 -> chorus",
		},
		{
			name:      "bridge without outro",
			structure: models.SongStructure{Intro: true, VerseCount: 2, ChorusCount: 2, Bridge: true},
			expected:  "intro -> verse 1 -> chorus -> verse 2 -> chorus -> bridge",
		},
		{
			name:      "maximum",
			structure: models.SongStructure{VerseCount: 5, ChorusCount: 4},
			expected:  "verse 1 -> chorus -> verse 2 -> chorus -> verse 3 -> chorus -> verse 4 -> chorus -> verse 5",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StructureString(tt.structure))
		})
	}
}

func TestStyleBlock(t *testing.T) {
	assert.Empty(t, StyleBlock(nil))
	assert.Empty(t, StyleBlock(models.StyleReferences{}))

	block := StyleBlock(models.StyleReferences{
		{Type: "sound", Value: "brushed drums"},
		{Type: "sound", Value: "brushed drums"},
	})
	assert.Equal(t, "\nStyle references:\n- sound: brushed drums\n- sound: brushed drums", block)
}

func TestBuildPrompt(t *testing.T) {
	builder := NewPromptBuilder()
	prompt, err := builder.BuildPrompt(rockConfig())
	require.NoError(t, err)

	expected := `Generate a rock music track with the following specifications:

Duration: 185 seconds (3 minutes 5 seconds)

Song structure: intro -> verse 1 -> chorus -> verse 2 -> chorus -> chorus -> bridge -> outro

Lyrics/Text input:
We are the champions

Style references:
- style: arena rock
- artist: Queen

Create a track that follows this structure and incorporates the provided text and style references.
Temperature: 0.8
`
	assert.Equal(t, expected, prompt)
}

func TestBuildPromptWithoutStyleReferences(t *testing.T) {
	cfg := rockConfig()
	cfg.StyleReferences = nil

	prompt, err := NewPromptBuilder().BuildPrompt(cfg)
	require.NoError(t, err)

	assert.NotContains(t, prompt, "Style references")
	assert.Contains(t, prompt, "We are the champions\n\n\nCreate a track")
}

func TestBuildPromptIsDeterministic(t *testing.T) {
	builder := NewPromptBuilder()
	first, err := builder.BuildPrompt(rockConfig())
	require.NoError(t, err)

	second, err := NewPromptBuilder().BuildPrompt(rockConfig())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuildPromptSectionOrder(t *testing.T) {
	prompt, err := NewPromptBuilder().BuildPrompt(rockConfig())
	require.NoError(t, err)

	markers := []string{"rock", "Duration:", "Song structure:", "We are the champions", "Style references:", "Temperature:"}
	last := -1
	for _, marker := range markers {
		idx := strings.Index(prompt, marker)
		require.GreaterOrEqual(t, idx, 0, "missing %q", marker)
		assert.Greater(t, idx, last, "%q out of order", marker)
		last = idx
	}
}

func TestFormatTemperature(t *testing.T) {
	assert.Equal(t, "0.7", formatTemperature(0.7))
	assert.Equal(t, "0.0", formatTemperature(0))
	assert.Equal(t, "1.0", formatTemperature(1))
	assert.Equal(t, "0.85", formatTemperature(0.85))
}
