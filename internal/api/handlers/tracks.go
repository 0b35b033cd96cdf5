package handlers

import (
	"net/http"

	"github.com/Conceptual-Machines/music-track-generator/internal/generator"
	"github.com/Conceptual-Machines/music-track-generator/internal/models"
	"github.com/Conceptual-Machines/music-track-generator/internal/presets"
	"github.com/gin-gonic/gin"
)

// TrackHandler serves track generation
type TrackHandler struct {
	store      *presets.Store
	generators *generator.Cache
	genOpts    generator.Options
}

func NewTrackHandler(store *presets.Store, generators *generator.Cache, genOpts generator.Options) *TrackHandler {
	return &TrackHandler{
		store:      store,
		generators: generators,
		genOpts:    genOpts,
	}
}

// GenerateTrackRequest is a track configuration where everything a preset can
// supply is optional. Pointer fields distinguish "absent" from zero values.
type GenerateTrackRequest struct {
	TextInput       string                  `json:"text_input"`
	Genre           string                  `json:"genre"`
	DurationSeconds *int                    `json:"duration_seconds"`
	PresetName      string                  `json:"preset_name"`
	Structure       *models.SongStructure   `json:"structure"`
	StyleReferences []models.StyleReference `json:"style_references"`
	Temperature     *float64                `json:"temperature"`
}

func (r GenerateTrackRequest) durationSeconds() int {
	if r.DurationSeconds == nil {
		return models.DefaultDurationSeconds
	}
	return *r.DurationSeconds
}

// validate reports every request-level violation at once under "body."
func (r GenerateTrackRequest) validate() error {
	v := models.NewValidator(bodyPrefix)
	v.NonEmpty("text_input", r.TextInput)
	v.IntRange("duration_seconds", r.durationSeconds(), models.MinDurationSeconds, models.MaxDurationSeconds)
	if r.Temperature != nil {
		v.FloatRange("temperature", *r.Temperature, models.MinTemperature, models.MaxTemperature)
	}
	if r.Structure != nil {
		r.Structure.ValidateInto(v.Nested("structure"))
	}

	if r.PresetName == "" {
		v.Required("genre", r.Genre)
		if r.Structure == nil {
			v.Add("structure", "Either preset_name or structure must be provided", models.ErrTypeMissing)
		}
	}
	return v.Err()
}

// trackConfig builds the configuration, starting from the named preset when
// one is given. Overrides replace preset fields wholesale.
func (h *TrackHandler) trackConfig(r GenerateTrackRequest) (models.TrackConfig, error) {
	if r.PresetName == "" {
		temperature := models.DefaultTemperature
		if r.Temperature != nil {
			temperature = *r.Temperature
		}
		return models.NewTrackConfig(r.TextInput, r.Genre, r.durationSeconds(), *r.Structure, r.StyleReferences, temperature)
	}

	preset, err := h.store.Load(r.PresetName)
	if err != nil {
		return models.TrackConfig{}, err
	}

	structure := preset.Structure
	if r.Structure != nil {
		structure = *r.Structure
	}
	refs := []models.StyleReference(preset.StyleReferences)
	if len(r.StyleReferences) > 0 {
		refs = r.StyleReferences
	}
	temperature := preset.Temperature
	if r.Temperature != nil {
		temperature = *r.Temperature
	}

	return models.NewTrackConfig(r.TextInput, preset.Genre, r.durationSeconds(), structure, refs, temperature)
}

// Generate handles POST /tracks/generate
func (h *TrackHandler) Generate(c *gin.Context) {
	var req GenerateTrackRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := req.validate(); err != nil {
		respondError(c, err, req.PresetName, "generate_track")
		return
	}

	cfg, err := h.trackConfig(req)
	if err != nil {
		respondError(c, err, req.PresetName, "generate_track")
		return
	}

	gen, err := h.generators.Get(c.Request.Context(), h.genOpts)
	if err != nil {
		respondError(c, err, req.PresetName, "generate_track")
		return
	}

	result, err := gen.Generate(c.Request.Context(), cfg, "")
	if err != nil {
		respondError(c, err, req.PresetName, "generate_track")
		return
	}

	c.JSON(http.StatusOK, result)
}
