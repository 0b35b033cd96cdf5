package handlers

import (
	"errors"
	"net/http"

	"github.com/Conceptual-Machines/music-track-generator/internal/logger"
	"github.com/Conceptual-Machines/music-track-generator/internal/presets"
	"github.com/gin-gonic/gin"
)

// PromptTip is the guidance text attached to a preset
type PromptTip struct {
	PresetName string `json:"preset_name"`
	Genre      string `json:"genre"`
	Tips       string `json:"tips"`
}

// TipsHandler serves prompt tips extracted from presets
type TipsHandler struct {
	store *presets.Store
}

func NewTipsHandler(store *presets.Store) *TipsHandler {
	return &TipsHandler{store: store}
}

// PromptTips handles GET /prompt-tips. With preset_name it returns that
// preset's tips (404 if absent); otherwise every preset with tips, by name.
func (h *TipsHandler) PromptTips(c *gin.Context) {
	if name := c.Query("preset_name"); name != "" {
		preset, err := h.store.Load(name)
		if err != nil {
			respondError(c, err, name, "prompt_tips")
			return
		}
		c.JSON(http.StatusOK, []PromptTip{{PresetName: preset.Name, Genre: preset.Genre, Tips: preset.Tips}})
		return
	}

	names, err := h.store.List()
	if err != nil {
		respondError(c, err, "", "prompt_tips")
		return
	}

	tips := make([]PromptTip, 0, len(names))
	for _, name := range names {
		preset, err := h.store.Load(name)
		if err != nil {
			if !errors.Is(err, presets.ErrNotFound) {
				logger.Warn("Skipping unreadable preset", logger.Fields{"name": name, "error": err.Error()})
			}
			continue
		}
		if preset.Tips == "" {
			continue
		}
		tips = append(tips, PromptTip{PresetName: preset.Name, Genre: preset.Genre, Tips: preset.Tips})
	}

	c.JSON(http.StatusOK, tips)
}
