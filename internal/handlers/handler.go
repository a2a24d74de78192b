package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"task-tracker-api/internal/manager"
	"task-tracker-api/internal/models"
	"task-tracker-api/internal/realtime"
	"task-tracker-api/internal/storage"
)

// Handler serves the task, subtask, epic, history and prioritized resources.
// The store requires exclusive single-threaded access, so every operation
// runs under the handler's mutex; this is the concurrency boundary between
// gin's per-request goroutines and the engine.
type Handler struct {
	mu    sync.Mutex
	store manager.Service
	hub   *realtime.Hub
	log   *zap.SugaredLogger
}

// New builds a handler. hub may be nil to disable event broadcasting.
func New(store manager.Service, hub *realtime.Hub, log *zap.SugaredLogger) *Handler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Handler{store: store, hub: hub, log: log}
}

// renderError maps engine errors onto the response contract: 404 unknown id,
// 400 invalid reference, 406 time conflict, 500 persistence or unexpected
// failure.
func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, manager.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, manager.ErrInvalidReference):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, manager.ErrTimeConflict):
		c.JSON(http.StatusNotAcceptable, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrPersistence):
		h.log.Errorw("snapshot persistence failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		h.log.Errorw("unexpected failure", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// broadcast publishes a mutation event to websocket clients.
func (h *Handler) broadcast(event string, id int) {
	if h.hub == nil {
		return
	}
	evt := map[string]any{
		"type": event,
		"id":   id,
	}
	if bytes, err := json.Marshal(evt); err == nil {
		h.hub.Broadcast(bytes)
	}
}

// pathID extracts the numeric id path parameter, responding 400 on garbage.
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id in path"})
		return 0, false
	}
	return id, true
}

func eventName(kind models.EntityType, action string) string {
	return strings.ToLower(string(kind)) + "_" + action
}
