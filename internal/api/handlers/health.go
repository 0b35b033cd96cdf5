package handlers

import (
	"net/http"

	"github.com/Conceptual-Machines/music-track-generator/internal/config"
	"github.com/Conceptual-Machines/music-track-generator/internal/presets"
	"github.com/gin-gonic/gin"
)

const serviceName = "Music Track Generator API"

// ServiceHandler serves the banner, liveness and configuration endpoints
type ServiceHandler struct {
	cfg     *config.Config
	store   *presets.Store
	version string
}

func NewServiceHandler(cfg *config.Config, store *presets.Store, version string) *ServiceHandler {
	return &ServiceHandler{
		cfg:     cfg,
		store:   store,
		version: version,
	}
}

// Root returns the service banner and active mode
func (h *ServiceHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": serviceName,
		"version": h.version,
		"docs":    "/docs",
		"mode":    h.cfg.Mode,
	})
}

// HealthCheck returns the health status of the API
func (h *ServiceHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"mode":   h.cfg.Mode,
	})
}

// ConfigResponse describes the running configuration without secrets
type ConfigResponse struct {
	Mode             string   `json:"mode"`
	Region           *string  `json:"region"`
	Project          *string  `json:"project"`
	PresetsAvailable []string `json:"presets_available"`
	AuthEnabled      bool     `json:"auth_enabled"`
}

// Config reports mode, gcp location (gcp mode only), preset names and auth state
func (h *ServiceHandler) Config(c *gin.Context) {
	names, err := h.store.List()
	if err != nil {
		respondError(c, err, "", "list_presets")
		return
	}

	resp := ConfigResponse{
		Mode:             h.cfg.Mode,
		PresetsAvailable: names,
		AuthEnabled:      h.cfg.AuthEnabled(),
	}
	if h.cfg.IsGCPMode() {
		region := h.cfg.GoogleCloudRegion
		resp.Region = &region
		if h.cfg.GoogleCloudProject != "" {
			project := h.cfg.GoogleCloudProject
			resp.Project = &project
		}
	}

	c.JSON(http.StatusOK, resp)
}

// RouteInfo is one entry of the route listing
type RouteInfo struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

// Docs lists the registered routes
func Docs(routes func() gin.RoutesInfo) gin.HandlerFunc {
	return func(c *gin.Context) {
		info := routes()
		out := make([]RouteInfo, 0, len(info))
		for _, r := range info {
			out = append(out, RouteInfo{Method: r.Method, Path: r.Path})
		}
		c.JSON(http.StatusOK, gin.H{
			"service": serviceName,
			"routes":  out,
		})
	}
}
