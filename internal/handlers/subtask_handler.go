package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"task-tracker-api/internal/models"
)

// CreateSubtaskRequest represents the request payload for creating a subtask
type CreateSubtaskRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Status      models.Status   `json:"status"`
	EpicID      int             `json:"epicId" binding:"required"`
	StartTime   *time.Time      `json:"startTime"`
	Duration    models.Duration `json:"duration"`
}

// UpdateSubtaskRequest represents the request payload for updating a subtask.
// Zero-valued fields are left untouched on the stored subtask.
type UpdateSubtaskRequest struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Status      models.Status   `json:"status"`
	EpicID      int             `json:"epicId"`
	StartTime   *time.Time      `json:"startTime"`
	Duration    models.Duration `json:"duration"`
}

// GetSubtasks handles GET /subtasks
func (h *Handler) GetSubtasks(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.JSON(http.StatusOK, h.store.Subtasks())
}

// GetSubtaskByID handles GET /subtasks/:id
func (h *Handler) GetSubtaskByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	subtask, err := h.store.SubtaskByID(id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, subtask)
}

// CreateSubtask handles POST /subtasks
func (h *Handler) CreateSubtask(c *gin.Context) {
	var req CreateSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subtask := models.NewSubtask(req.Name, req.Description, req.Status, req.EpicID, req.StartTime, req.Duration)

	h.mu.Lock()
	defer h.mu.Unlock()
	id, err := h.store.AddSubtask(subtask)
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.broadcast(eventName(models.TypeSubtask, "created"), id)
	c.JSON(http.StatusCreated, subtask)
}

// UpdateSubtask handles POST /subtasks/:id
// The body is merged onto the stored subtask; a zero epicId keeps the current
// epic link. The body id must match the path id.
func (h *Handler) UpdateSubtask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateSubtaskRequest
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
	existing, err := h.store.SubtaskByID(id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	merged := existing.Clone()
	merged.UpdateFrom(&models.Subtask{
		Task: models.Task{
			Name:        req.Name,
			Description: req.Description,
			Status:      req.Status,
			StartTime:   req.StartTime,
			Duration:    req.Duration,
		},
		EpicID: req.EpicID,
	})
	if err := h.store.UpdateSubtask(merged); err != nil {
		h.renderError(c, err)
		return
	}

	h.broadcast(eventName(models.TypeSubtask, "updated"), id)
	c.JSON(http.StatusCreated, merged)
}

// DeleteSubtask handles DELETE /subtasks/:id
func (h *Handler) DeleteSubtask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.store.DeleteSubtask(id); err != nil {
		h.renderError(c, err)
		return
	}

	h.broadcast(eventName(models.TypeSubtask, "deleted"), id)
	c.JSON(http.StatusOK, gin.H{
		"message": "Subtask deleted successfully",
		"id":      id,
	})
}

// DeleteAllSubtasks handles DELETE /subtasks
func (h *Handler) DeleteAllSubtasks(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.store.DeleteAllSubtasks(); err != nil {
		h.renderError(c, err)
		return
	}

	h.broadcast("subtasks_cleared", 0)
	c.JSON(http.StatusOK, gin.H{"message": "All subtasks deleted"})
}
