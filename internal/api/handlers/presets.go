package handlers

import (
	"fmt"
	"net/http"

	"github.com/Conceptual-Machines/music-track-generator/internal/logger"
	"github.com/Conceptual-Machines/music-track-generator/internal/metrics"
	"github.com/Conceptual-Machines/music-track-generator/internal/models"
	"github.com/Conceptual-Machines/music-track-generator/internal/presets"
	"github.com/gin-gonic/gin"
)

// PresetHandler serves CRUD over the preset store
type PresetHandler struct {
	store   *presets.Store
	metrics *metrics.Recorder
}

func NewPresetHandler(store *presets.Store, recorder *metrics.Recorder) *PresetHandler {
	return &PresetHandler{
		store:   store,
		metrics: recorder,
	}
}

// List handles GET /presets
func (h *PresetHandler) List(c *gin.Context) {
	items, err := h.store.ListWithMetadata()
	h.metrics.RecordPresetOperation("list", err == nil)
	if err != nil {
		respondError(c, err, "", "list_presets")
		return
	}
	c.JSON(http.StatusOK, items)
}

// Get handles GET /presets/:name
func (h *PresetHandler) Get(c *gin.Context) {
	name := c.Param("name")

	preset, err := h.store.Load(name)
	h.metrics.RecordPresetOperation("load", err == nil)
	if err != nil {
		respondError(c, err, name, "get_preset")
		return
	}
	c.JSON(http.StatusOK, preset)
}

// Create handles POST /presets. An existing preset of the same name is
// overwritten.
func (h *PresetHandler) Create(c *gin.Context) {
	var preset models.PresetConfig
	if !bindJSON(c, &preset) {
		return
	}

	v := models.NewValidator(bodyPrefix)
	preset.ValidateInto(v)
	if err := v.Err(); err != nil {
		respondError(c, err, preset.Name, "create_preset")
		return
	}

	path, err := h.store.Save(preset)
	h.metrics.RecordPresetOperation("save", err == nil)
	if err != nil {
		respondError(c, err, preset.Name, "create_preset")
		return
	}

	fields := logger.WithContext(c)
	fields["name"] = preset.Name
	fields["file"] = path
	logger.Info("Preset saved", fields)

	c.JSON(http.StatusOK, preset)
}

// Delete handles DELETE /presets/:name
func (h *PresetHandler) Delete(c *gin.Context) {
	name := c.Param("name")

	deleted, err := h.store.Delete(name)
	h.metrics.RecordPresetOperation("delete", err == nil)
	if err != nil {
		respondError(c, err, name, "delete_preset")
		return
	}
	if !deleted {
		presetNotFound(c, name)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Preset '%s' deleted successfully", name)})
}
