package handlers

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/Conceptual-Machines/music-track-generator/internal/config"
	"github.com/Conceptual-Machines/music-track-generator/internal/generator"
	"github.com/Conceptual-Machines/music-track-generator/internal/presets"
	"github.com/gin-gonic/gin"
)

type MetricsHandler struct {
	startTime  time.Time
	version    string
	cfg        *config.Config
	store      *presets.Store
	generators *generator.Cache
}

func NewMetricsHandler(cfg *config.Config, store *presets.Store, generators *generator.Cache, version string) *MetricsHandler {
	return &MetricsHandler{
		startTime:  time.Now(),
		version:    version,
		cfg:        cfg,
		store:      store,
		generators: generators,
	}
}

const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
)

// formatUptime formats the uptime duration with seconds rounded to 2 decimal places
func formatUptime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % secondsPerMinute
	seconds := d.Seconds() - float64(hours*secondsPerHour) - float64(minutes*secondsPerMinute)

	if hours > 0 {
		return fmt.Sprintf("%dh%dm%.2fs", hours, minutes, seconds)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm%.2fs", minutes, seconds)
	}
	return fmt.Sprintf("%.2fs", seconds)
}

type MetricsResponse struct {
	Status    string        `json:"status"`
	Uptime    string        `json:"uptime"`
	Timestamp string        `json:"timestamp"`
	Version   string        `json:"version"`
	StartTime string        `json:"start_time"`
	System    SystemMetrics `json:"system"`
	Service   ServiceStats  `json:"service"`
}

type SystemMetrics struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	MemAllocMB   uint64 `json:"mem_alloc_mb"`
	MemTotalMB   uint64 `json:"mem_total_mb"`
	NumGC        uint32 `json:"num_gc"`
}

type ServiceStats struct {
	Mode             string `json:"mode"`
	PresetsStored    int    `json:"presets_stored"`
	GeneratorsCached int    `json:"generators_cached"`
	AuthEnabled      bool   `json:"auth_enabled"`
}

const (
	bytesToMB = 1024 * 1024
)

func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(h.startTime)

	presetCount := 0
	if names, err := h.store.List(); err == nil {
		presetCount = len(names)
	}

	metrics := MetricsResponse{
		Status:    "healthy",
		Uptime:    formatUptime(uptime),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
		StartTime: h.startTime.UTC().Format(time.RFC3339),
		System: SystemMetrics{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			MemAllocMB:   m.Alloc / bytesToMB,
			MemTotalMB:   m.TotalAlloc / bytesToMB,
			NumGC:        m.NumGC,
		},
		Service: ServiceStats{
			Mode:             h.cfg.Mode,
			PresetsStored:    presetCount,
			GeneratorsCached: h.generators.Len(),
			AuthEnabled:      h.cfg.AuthEnabled(),
		},
	}

	c.JSON(http.StatusOK, metrics)
}
