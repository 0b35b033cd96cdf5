package prompt

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/Conceptual-Machines/music-track-generator/internal/models"
)

const (
	sectionIntro   = "intro"
	sectionChorus  = "chorus"
	sectionBridge  = "bridge"
	sectionOutro   = "outro"
	sectionVerse   = "verse %d"
	sectionJoiner  = " -> "
	styleHeader    = "Style references:"
	secondsPerMin  = 60
	templateName   = "track_prompt"
	decimalPoint   = "."
	wholeSuffix    = ".0"
	floatPrecision = -1
)

// Builder renders track configurations into generation prompts
type Builder struct {
	tmpl *template.Template
}

// NewPromptBuilder creates a new prompt builder. It panics if the embedded
// template does not parse.
func NewPromptBuilder() *Builder {
	text, err := NewPromptLoader().GetTrackPromptTemplate()
	if err != nil {
		panic(fmt.Sprintf("prompt: failed to load template: %v", err))
	}
	return &Builder{
		tmpl: template.Must(template.New(templateName).Parse(text)),
	}
}

type promptData struct {
	Genre           string
	DurationSeconds int
	Minutes         int
	Seconds         int
	Structure       string
	TextInput       string
	StyleBlock      string
	Temperature     string
}

// BuildPrompt renders cfg. The output depends only on cfg, so identical
// configurations always produce identical prompts.
func (b *Builder) BuildPrompt(cfg models.TrackConfig) (string, error) {
	data := promptData{
		Genre:           cfg.Genre,
		DurationSeconds: cfg.DurationSeconds,
		Minutes:         cfg.DurationSeconds / secondsPerMin,
		Seconds:         cfg.DurationSeconds % secondsPerMin,
		Structure:       StructureString(cfg.Structure),
		TextInput:       cfg.TextInput,
		StyleBlock:      StyleBlock(cfg.StyleReferences),
		Temperature:     formatTemperature(cfg.Temperature),
	}

	var sb strings.Builder
	if err := b.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return sb.String(), nil
}

// StructureSections returns the ordered section tokens. Verses and choruses
// are interleaved; when one kind runs out the other keeps going.
func StructureSections(s models.SongStructure) []string {
	sections := make([]string, 0, s.VerseCount+s.ChorusCount+3)
	if s.Intro {
		sections = append(sections, sectionIntro)
	}

	for i := 0; i < max(s.VerseCount, s.ChorusCount); i++ {
		if i < s.VerseCount {
			sections = append(sections, fmt.Sprintf(sectionVerse, i+1))
		}
		if i < s.ChorusCount {
			sections = append(sections, sectionChorus)
		}
	}

	if s.Bridge {
		sections = append(sections, sectionBridge)
	}
	if s.Outro {
		sections = append(sections, sectionOutro)
	}
	return sections
}

// StructureString joins StructureSections with " -> "
func StructureString(s models.SongStructure) string {
	return strings.Join(StructureSections(s), sectionJoiner)
}

// StyleBlock renders the labeled reference list, or "" when there are none
func StyleBlock(refs models.StyleReferences) string {
	if len(refs) == 0 {
		return ""
	}
	lines := make([]string, 0, len(refs))
	for _, ref := range refs {
		lines = append(lines, fmt.Sprintf("- %s: %s", ref.Type, ref.Value))
	}
	return "\n" + styleHeader + "\n" + strings.Join(lines, "\n")
}

// formatTemperature prints the shortest exact form, always with a decimal point
func formatTemperature(t float64) string {
	s := strconv.FormatFloat(t, 'f', floatPrecision, 64)
	if !strings.Contains(s, decimalPoint) {
		s += wholeSuffix
	}
	return s
}
