package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"task-tracker-api/internal/models"
)

// CreateEpicRequest represents the request payload for creating an epic.
// Status and time fields are derived from subtasks and cannot be supplied.
type CreateEpicRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// UpdateEpicRequest represents the request payload for updating an epic.
// Only name and description are caller-owned; everything else is recomputed.
type UpdateEpicRequest struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GetEpics handles GET /epics
func (h *Handler) GetEpics(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.JSON(http.StatusOK, h.store.Epics())
}

// GetEpicByID handles GET /epics/:id
func (h *Handler) GetEpicByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	epic, err := h.store.EpicByID(id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, epic)
}

// GetEpicSubtasks handles GET /epics/:id/subtasks
// An unknown epic id yields an empty list; this is a query, not a lookup
// failure.
func (h *Handler) GetEpicSubtasks(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	c.JSON(http.StatusOK, h.store.SubtasksByEpic(id))
}

// CreateEpic handles POST /epics
func (h *Handler) CreateEpic(c *gin.Context) {
	var req CreateEpicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	epic := models.NewEpic(req.Name, req.Description)

	h.mu.Lock()
	defer h.mu.Unlock()
	id, err := h.store.AddEpic(epic)
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.broadcast(eventName(models.TypeEpic, "created"), id)
	c.JSON(http.StatusCreated, epic)
}

// UpdateEpic handles POST /epics/:id
func (h *Handler) UpdateEpic(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateEpicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ID != id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Id in URL and body do not match"})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	existing, err := h.store.EpicByID(id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	merged := existing.Clone()
	if req.Name != "" {
		merged.Name = req.Name
	}
	if req.Description != "" {
		merged.Description = req.Description
	}
	if err := h.store.UpdateEpic(merged); err != nil {
		h.renderError(c, err)
		return
	}

	h.broadcast(eventName(models.TypeEpic, "updated"), id)
	c.JSON(http.StatusCreated, merged)
}

// DeleteEpic handles DELETE /epics/:id
// Deleting an epic cascades to all of its subtasks.
func (h *Handler) DeleteEpic(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.store.DeleteEpic(id); err != nil {
		h.renderError(c, err)
		return
	}

	h.broadcast(eventName(models.TypeEpic, "deleted"), id)
	c.JSON(http.StatusOK, gin.H{
		"message": "Epic deleted successfully",
		"id":      id,
	})
}

// DeleteAllEpics handles DELETE /epics
func (h *Handler) DeleteAllEpics(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.store.DeleteAllEpics(); err != nil {
		h.renderError(c, err)
		return
	}

	h.broadcast("epics_cleared", 0)
	c.JSON(http.StatusOK, gin.H{"message": "All epics deleted"})
}
