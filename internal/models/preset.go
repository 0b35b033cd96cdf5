package models

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// PresetConfig is a named, reusable track configuration template.
// Name doubles as the storage key.
type PresetConfig struct {
	Name            string          `json:"name" yaml:"name"`
	Description     string          `json:"description" yaml:"description"`
	Genre           string          `json:"genre" yaml:"genre"`
	Structure       SongStructure   `json:"structure" yaml:"structure"`
	StyleReferences StyleReferences `json:"style_references" yaml:"style_references"`
	Temperature     float64         `json:"temperature" yaml:"temperature"`
	Tips            string          `json:"tips" yaml:"tips"`
}

// PresetMetadata is the listing projection of a preset
type PresetMetadata struct {
	Name        string `json:"name"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
}

// ValidatePresetName checks that name can be used as a file stem
func ValidatePresetName(name string) error {
	v := NewValidator("")
	validatePresetName(v, name)
	return v.Err()
}

func validatePresetName(v *Validator, name string) {
	switch {
	case strings.TrimSpace(name) == "":
		v.Add("name", "Field required", ErrTypeMissing)
	case name == "." || name == "..":
		v.Add("name", "Preset name must not be a relative path element", ErrTypeInvalidValue)
	case strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0):
		v.Add("name", "Preset name must not contain path separators", ErrTypeInvalidValue)
	}
}

// Validate checks the name, genre, structure and temperature
func (p PresetConfig) Validate() error {
	v := NewValidator("")
	p.ValidateInto(v)
	return v.Err()
}

// ValidateInto records violations on an existing validator
func (p PresetConfig) ValidateInto(v *Validator) {
	validatePresetName(v, p.Name)
	v.Required("genre", p.Genre)
	p.Structure.ValidateInto(v.Nested("structure"))
	v.FloatRange("temperature", p.Temperature, MinTemperature, MaxTemperature)
}

// Metadata returns the listing projection
func (p PresetConfig) Metadata() PresetMetadata {
	return PresetMetadata{
		Name:        p.Name,
		Genre:       p.Genre,
		Description: p.Description,
	}
}

// ToTrackConfig derives a track configuration. Genre, structure, style
// references and temperature are copied verbatim; the result is validated.
func (p PresetConfig) ToTrackConfig(textInput string, durationSeconds int) (TrackConfig, error) {
	return NewTrackConfig(textInput, p.Genre, durationSeconds, p.Structure, p.StyleReferences, p.Temperature)
}

// ToMap returns the plain keyed form
func (p PresetConfig) ToMap() map[string]any {
	return map[string]any{
		"name":             p.Name,
		"description":      p.Description,
		"genre":            p.Genre,
		"structure":        p.Structure.ToMap(),
		"style_references": p.StyleReferences.ToMaps(),
		"temperature":      p.Temperature,
		"tips":             p.Tips,
	}
}

func newPresetDefaults() PresetConfig {
	return PresetConfig{
		Structure:   DefaultSongStructure(),
		Temperature: DefaultTemperature,
	}
}

// UnmarshalJSON applies the documented defaults for absent fields
func (p *PresetConfig) UnmarshalJSON(data []byte) error {
	type plain PresetConfig
	out := plain(newPresetDefaults())
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*p = PresetConfig(out)
	p.StyleReferences = p.StyleReferences.normalized()
	return nil
}

// UnmarshalYAML applies the documented defaults for absent fields
func (p *PresetConfig) UnmarshalYAML(node *yaml.Node) error {
	type plain PresetConfig
	out := plain(newPresetDefaults())
	if err := node.Decode(&out); err != nil {
		return err
	}
	*p = PresetConfig(out)
	p.StyleReferences = p.StyleReferences.normalized()
	return nil
}

// PresetConfigFromMap is the inverse of PresetConfig.ToMap
func PresetConfigFromMap(m map[string]any) (PresetConfig, error) {
	var p PresetConfig
	if err := decodeMap(m, &p); err != nil {
		return PresetConfig{}, err
	}
	if err := p.Validate(); err != nil {
		return PresetConfig{}, err
	}
	return p, nil
}
