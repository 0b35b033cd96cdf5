package models

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Track configuration bounds and defaults
const (
	MinVerseCount  = 1
	MaxVerseCount  = 5
	MinChorusCount = 1
	MaxChorusCount = 4

	MinDurationSeconds     = 60
	MaxDurationSeconds     = 240
	DefaultDurationSeconds = 180

	MinTemperature     = 0.0
	MaxTemperature     = 1.0
	DefaultTemperature = 0.7

	defaultVerseCount  = 2
	defaultChorusCount = 2
)

// Conventional style reference kinds. The set is not closed.
const (
	StyleTypeStyle     = "style"
	StyleTypeSound     = "sound"
	StyleTypeArtist    = "artist"
	StyleTypeSimilarTo = "similar_to"
)

// SongStructure describes the section layout of a track
type SongStructure struct {
	Intro       bool `json:"intro" yaml:"intro"`
	VerseCount  int  `json:"verse_count" yaml:"verse_count"`   // 1-5
	ChorusCount int  `json:"chorus_count" yaml:"chorus_count"` // 1-4
	Bridge      bool `json:"bridge" yaml:"bridge"`
	Outro       bool `json:"outro" yaml:"outro"`
}

// DefaultSongStructure returns the layout used when none is given
func DefaultSongStructure() SongStructure {
	return SongStructure{
		Intro:       true,
		VerseCount:  defaultVerseCount,
		ChorusCount: defaultChorusCount,
		Bridge:      true,
		Outro:       true,
	}
}

// NewSongStructure validates and returns a structure. Out-of-range counts are
// rejected, never clamped.
func NewSongStructure(intro bool, verseCount, chorusCount int, bridge, outro bool) (SongStructure, error) {
	s := SongStructure{
		Intro:       intro,
		VerseCount:  verseCount,
		ChorusCount: chorusCount,
		Bridge:      bridge,
		Outro:       outro,
	}
	if err := s.Validate(); err != nil {
		return SongStructure{}, err
	}
	return s, nil
}

// Validate checks the verse and chorus bounds
func (s SongStructure) Validate() error {
	v := NewValidator("")
	s.ValidateInto(v)
	return v.Err()
}

// ValidateInto records violations on an existing validator
func (s SongStructure) ValidateInto(v *Validator) {
	v.IntRange("verse_count", s.VerseCount, MinVerseCount, MaxVerseCount)
	v.IntRange("chorus_count", s.ChorusCount, MinChorusCount, MaxChorusCount)
}

// ToMap returns the plain keyed form
func (s SongStructure) ToMap() map[string]any {
	return map[string]any{
		"intro":        s.Intro,
		"verse_count":  s.VerseCount,
		"chorus_count": s.ChorusCount,
		"bridge":       s.Bridge,
		"outro":        s.Outro,
	}
}

// UnmarshalJSON fills absent fields from DefaultSongStructure
func (s *SongStructure) UnmarshalJSON(data []byte) error {
	type plain SongStructure
	out := plain(DefaultSongStructure())
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*s = SongStructure(out)
	return nil
}

// UnmarshalYAML fills absent fields from DefaultSongStructure
func (s *SongStructure) UnmarshalYAML(node *yaml.Node) error {
	type plain SongStructure
	out := plain(DefaultSongStructure())
	if err := node.Decode(&out); err != nil {
		return err
	}
	*s = SongStructure(out)
	return nil
}

// StyleReference is a typed hint steering the character of a track
type StyleReference struct {
	Type  string `json:"type" yaml:"type"`   // style, sound, artist, similar_to, ...
	Value string `json:"value" yaml:"value"` // e.g. "arena rock"
}

// ToMap returns the plain keyed form
func (r StyleReference) ToMap() map[string]any {
	return map[string]any{
		"type":  r.Type,
		"value": r.Value,
	}
}

// StyleReferences is an ordered list of references. Order is significant and
// duplicates are kept. A nil list encodes as [] and an empty decoded list
// normalizes back to nil.
type StyleReferences []StyleReference

// MarshalJSON encodes nil as []
func (r StyleReferences) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]StyleReference(r))
}

// ToMaps returns the plain keyed form, never nil
func (r StyleReferences) ToMaps() []map[string]any {
	out := make([]map[string]any, 0, len(r))
	for _, ref := range r {
		out = append(out, ref.ToMap())
	}
	return out
}

// Clone returns an independent copy
func (r StyleReferences) Clone() StyleReferences {
	if len(r) == 0 {
		return nil
	}
	out := make(StyleReferences, len(r))
	copy(out, r)
	return out
}

func (r StyleReferences) normalized() StyleReferences {
	if len(r) == 0 {
		return nil
	}
	return r
}

// TrackConfig is the full set of parameters for one generation request.
// It is built per request and never persisted on its own.
type TrackConfig struct {
	TextInput       string          `json:"text_input"`
	Genre           string          `json:"genre"`
	DurationSeconds int             `json:"duration_seconds"` // 60-240
	Structure       SongStructure   `json:"structure"`
	StyleReferences StyleReferences `json:"style_references"`
	Temperature     float64         `json:"temperature"` // 0.0-1.0
}

// NewTrackConfig validates and returns a track configuration
func NewTrackConfig(
	textInput, genre string, durationSeconds int, structure SongStructure,
	styleReferences []StyleReference, temperature float64,
) (TrackConfig, error) {
	cfg := TrackConfig{
		TextInput:       textInput,
		Genre:           genre,
		DurationSeconds: durationSeconds,
		Structure:       structure,
		StyleReferences: StyleReferences(styleReferences).Clone(),
		Temperature:     temperature,
	}
	if err := cfg.Validate(); err != nil {
		return TrackConfig{}, err
	}
	return cfg, nil
}

// Validate checks every bound of the configuration
func (c TrackConfig) Validate() error {
	v := NewValidator("")
	c.ValidateInto(v)
	return v.Err()
}

// ValidateInto records violations on an existing validator
func (c TrackConfig) ValidateInto(v *Validator) {
	v.NonEmpty("text_input", c.TextInput)
	v.IntRange("duration_seconds", c.DurationSeconds, MinDurationSeconds, MaxDurationSeconds)
	c.Structure.ValidateInto(v.Nested("structure"))
	v.FloatRange("temperature", c.Temperature, MinTemperature, MaxTemperature)
}

// ToMap returns the plain keyed form
func (c TrackConfig) ToMap() map[string]any {
	return map[string]any{
		"text_input":       c.TextInput,
		"genre":            c.Genre,
		"duration_seconds": c.DurationSeconds,
		"structure":        c.Structure.ToMap(),
		"style_references": c.StyleReferences.ToMaps(),
		"temperature":      c.Temperature,
	}
}

// UnmarshalJSON applies the documented defaults for absent fields
func (c *TrackConfig) UnmarshalJSON(data []byte) error {
	type plain TrackConfig
	out := plain{
		DurationSeconds: DefaultDurationSeconds,
		Structure:       DefaultSongStructure(),
		Temperature:     DefaultTemperature,
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*c = TrackConfig(out)
	c.StyleReferences = c.StyleReferences.normalized()
	return nil
}

// TrackConfigFromMap is the inverse of TrackConfig.ToMap
func TrackConfigFromMap(m map[string]any) (TrackConfig, error) {
	var cfg TrackConfig
	if err := decodeMap(m, &cfg); err != nil {
		return TrackConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return TrackConfig{}, err
	}
	return cfg, nil
}
