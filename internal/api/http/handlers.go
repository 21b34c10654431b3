package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/glasspane/workspaced/internal/domain/layout"
	"github.com/glasspane/workspaced/internal/domain/workspace"
	"github.com/glasspane/workspaced/internal/shared/types"
)

// Handlers contains all HTTP handlers for the workspace API.
type Handlers struct {
	manager  *workspace.Manager
	geometry *layout.Geometry
}

// NewHandlers creates a new handler set.
func NewHandlers(manager *workspace.Manager, geometry *layout.Geometry) *Handlers {
	return &Handlers{
		manager:  manager,
		geometry: geometry,
	}
}

// Root handles the basic health check.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "workspaced",
		"version": "0.3.0",
	})
}

// Health handles the detailed health check.
func (h *Handlers) Health(c *gin.Context) {
	stats, err := h.manager.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"workspace": stats,
	})
}

// ListApps lists registry entries, optionally filtered by status
// and/or uuid query parameters.
func (h *Handlers) ListApps(c *gin.Context) {
	var filter *types.Filter
	if status, id := c.Query("status"), c.Query("uuid"); status != "" || id != "" {
		filter = &types.Filter{}
		if status != "" {
			s := types.Status(status)
			filter.Status = &s
		}
		if id != "" {
			filter.UUID = &id
		}
	}

	apps, err := h.manager.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"apps": apps, "count": len(apps)})
}

// ListOpenApps lists every entry whose status is not closed.
func (h *Handlers) ListOpenApps(c *gin.Context) {
	apps, err := h.manager.ListOpen(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"apps": apps, "count": len(apps)})
}

// GetApp returns a single entry by identity.
func (h *Handlers) GetApp(c *gin.Context) {
	app, found, err := h.manager.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "application not found"})
		return
	}
	c.JSON(http.StatusOK, app)
}

// OpenApp creates or updates an application entry from the request
// body. A missing uuid means "open a brand new window" and one is
// minted here; the state engine itself always requires an identity.
func (h *Handlers) OpenApp(c *gin.Context) {
	var patch types.ApplicationPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if patch.UUID == "" {
		patch.UUID = uuid.New().String()
	}
	h.update(c, patch)
}

// UpdateApp applies a partial update to the entry named in the path.
func (h *Handlers) UpdateApp(c *gin.Context) {
	var patch types.ApplicationPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	patch.UUID = c.Param("id")
	h.update(c, patch)
}

// CloseApp removes the entry named in the path. Closing an absent
// entry succeeds.
func (h *Handlers) CloseApp(c *gin.Context) {
	appID := c.Param("id")
	if err := h.manager.Close(c.Request.Context(), appID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "uuid": appID})
}

// MinimumLayout returns the hard geometry floor.
func (h *Handlers) MinimumLayout(c *gin.Context) {
	c.JSON(http.StatusOK, layout.Minimum())
}

// DefaultLayout returns the bounded, centered baseline layout for the
// viewport given in the query (falling back per the geometry rules).
func (h *Handlers) DefaultLayout(c *gin.Context) {
	vp, err := viewportQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.geometry.Default(vp))
}

// MaximumLayout returns the viewport-filling layout.
func (h *Handlers) MaximumLayout(c *gin.Context) {
	vp, err := viewportQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.geometry.Maximum(vp))
}

func (h *Handlers) update(c *gin.Context, patch types.ApplicationPatch) {
	app, err := h.manager.Update(c.Request.Context(), patch)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if app == nil {
		// The patch was a close.
		c.JSON(http.StatusOK, gin.H{"success": true, "uuid": patch.UUID})
		return
	}
	c.JSON(http.StatusOK, app)
}

// viewportQuery parses optional height/width query parameters into an
// explicit viewport. Zero is a valid size, absence is not.
func viewportQuery(c *gin.Context) (*layout.Viewport, error) {
	heightStr, widthStr := c.Query("height"), c.Query("width")
	if heightStr == "" && widthStr == "" {
		return nil, nil
	}

	height, err := strconv.ParseFloat(heightStr, 64)
	if err != nil {
		return nil, err
	}
	width, err := strconv.ParseFloat(widthStr, 64)
	if err != nil {
		return nil, err
	}
	return &layout.Viewport{Height: height, Width: width}, nil
}
