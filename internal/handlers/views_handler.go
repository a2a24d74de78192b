package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetHistory handles GET /history
// Returns the viewed-entity snapshots, oldest first.
func (h *Handler) GetHistory(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.JSON(http.StatusOK, h.store.History())
}

// GetPrioritized handles GET /prioritized
// Returns scheduled tasks and subtasks ordered by start time.
func (h *Handler) GetPrioritized(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.JSON(http.StatusOK, h.store.Prioritized())
}
