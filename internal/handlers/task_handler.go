package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"task-tracker-api/internal/models"
)

// CreateTaskRequest represents the request payload for creating a task
type CreateTaskRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Status      models.Status   `json:"status"`
	StartTime   *time.Time      `json:"startTime"`
	Duration    models.Duration `json:"duration"`
}

// UpdateTaskRequest represents the request payload for updating a task.
// Zero-valued fields are left untouched on the stored task.
type UpdateTaskRequest struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Status      models.Status   `json:"status"`
	StartTime   *time.Time      `json:"startTime"`
	Duration    models.Duration `json:"duration"`
}

// GetTasks handles GET /tasks
func (h *Handler) GetTasks(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.JSON(http.StatusOK, h.store.Tasks())
}

// GetTaskByID handles GET /tasks/:id
func (h *Handler) GetTaskByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	task, err := h.store.TaskByID(id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// CreateTask handles POST /tasks
func (h *Handler) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task := models.NewTask(req.Name, req.Description, req.Status, req.StartTime, req.Duration)

	h.mu.Lock()
	defer h.mu.Unlock()
	id, err := h.store.AddTask(task)
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.broadcast(eventName(models.TypeTask, "created"), id)
	c.JSON(http.StatusCreated, task)
}

// UpdateTask handles POST /tasks/:id
// The body is merged onto the stored task: absent or zero fields keep their
// current values. The body id must match the path id.
func (h *Handler) UpdateTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateTaskRequest
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
	existing, err := h.store.TaskByID(id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	merged := existing.Clone()
	merged.UpdateFrom(&models.Task{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		StartTime:   req.StartTime,
		Duration:    req.Duration,
	})
	if err := h.store.UpdateTask(merged); err != nil {
		h.renderError(c, err)
		return
	}

	h.broadcast(eventName(models.TypeTask, "updated"), id)
	c.JSON(http.StatusCreated, merged)
}

// DeleteTask handles DELETE /tasks/:id
func (h *Handler) DeleteTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.store.DeleteTask(id); err != nil {
		h.renderError(c, err)
		return
	}

	h.broadcast(eventName(models.TypeTask, "deleted"), id)
	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
		"id":      id,
	})
}

// DeleteAllTasks handles DELETE /tasks
func (h *Handler) DeleteAllTasks(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.store.DeleteAllTasks(); err != nil {
		h.renderError(c, err)
		return
	}

	h.broadcast("tasks_cleared", 0)
	c.JSON(http.StatusOK, gin.H{"message": "All tasks deleted"})
}
