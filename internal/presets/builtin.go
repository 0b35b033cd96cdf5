package presets

import "github.com/Conceptual-Machines/music-track-generator/internal/models"

// Built-in preset names
const (
	RockAnthem          = "rock_anthem"
	JazzSmooth          = "jazz_smooth"
	ElectronicDance     = "electronic_dance"
	ClassicalOrchestral = "classical_orchestral"
	PopCatchy           = "pop_catchy"
)

// Builtins returns the seed set written into an empty store.
// A fresh slice is returned on every call.
func Builtins() []models.PresetConfig {
	return []models.PresetConfig{
		{
			Name:        RockAnthem,
			Description: "High-energy rock anthem with powerful vocals",
			Genre:       "rock",
			Structure:   models.SongStructure{Intro: true, VerseCount: 2, ChorusCount: 3, Bridge: true, Outro: true},
			StyleReferences: models.StyleReferences{
				{Type: models.StyleTypeStyle, Value: "arena rock"},
				{Type: models.StyleTypeSound, Value: "distorted electric guitars with powerful drums"},
			},
			Temperature: 0.8,
			Tips:        "Use energetic and empowering lyrics. Great for anthems and motivational songs.",
		},
		{
			Name:        JazzSmooth,
			Description: "Smooth jazz with relaxed tempo",
			Genre:       "jazz",
			Structure:   models.SongStructure{Intro: true, VerseCount: 2, ChorusCount: 2, Bridge: true, Outro: true},
			StyleReferences: models.StyleReferences{
				{Type: models.StyleTypeStyle, Value: "smooth jazz"},
				{Type: models.StyleTypeSound, Value: "saxophone and piano with brushed drums"},
			},
			Temperature: 0.6,
			Tips:        "Focus on sophisticated, laid-back lyrics. Perfect for evening moods.",
		},
		{
			Name:        ElectronicDance,
			Description: "Upbeat electronic dance music",
			Genre:       "electronic",
			Structure:   models.SongStructure{Intro: true, VerseCount: 2, ChorusCount: 3, Bridge: true, Outro: true},
			StyleReferences: models.StyleReferences{
				{Type: models.StyleTypeStyle, Value: "EDM"},
				{Type: models.StyleTypeSound, Value: "synthesizers with heavy bass and electronic beats"},
			},
			Temperature: 0.9,
			Tips:        "Keep lyrics simple and repetitive. Build energy through structure.",
		},
		{
			Name:        ClassicalOrchestral,
			Description: "Classical orchestral composition",
			Genre:       "classical",
			Structure:   models.SongStructure{Intro: true, VerseCount: 3, ChorusCount: 2, Bridge: true, Outro: true},
			StyleReferences: models.StyleReferences{
				{Type: models.StyleTypeStyle, Value: "romantic era classical"},
				{Type: models.StyleTypeSound, Value: "full orchestra with strings and brass"},
			},
			Temperature: 0.5,
			Tips:        "Use poetic and dramatic text. Focus on emotional depth and dynamics.",
		},
		{
			Name:        PopCatchy,
			Description: "Catchy pop song with radio-friendly structure",
			Genre:       "pop",
			Structure:   models.SongStructure{Intro: true, VerseCount: 2, ChorusCount: 3, Bridge: true, Outro: false},
			StyleReferences: models.StyleReferences{
				{Type: models.StyleTypeStyle, Value: "contemporary pop"},
				{Type: models.StyleTypeSound, Value: "bright synths with acoustic elements"},
			},
			Temperature: 0.7,
			Tips:        "Focus on memorable hooks and relatable themes. Keep it upbeat and accessible.",
		},
	}
}
