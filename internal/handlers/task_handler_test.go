package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"task-tracker-api/internal/manager"
	"task-tracker-api/internal/models"
	"task-tracker-api/internal/testutil"
)

// newAPI wires a handler over a fresh in-memory store with every resource
// route registered, mirroring the production router minus middleware.
func newAPI(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := New(manager.New(manager.Options{}), nil, nil)
	r := gin.New()

	r.GET("/tasks", h.GetTasks)
	r.GET("/tasks/:id", h.GetTaskByID)
	r.POST("/tasks", h.CreateTask)
	r.POST("/tasks/:id", h.UpdateTask)
	r.DELETE("/tasks", h.DeleteAllTasks)
	r.DELETE("/tasks/:id", h.DeleteTask)

	r.GET("/subtasks", h.GetSubtasks)
	r.GET("/subtasks/:id", h.GetSubtaskByID)
	r.POST("/subtasks", h.CreateSubtask)
	r.POST("/subtasks/:id", h.UpdateSubtask)
	r.DELETE("/subtasks/:id", h.DeleteSubtask)

	r.GET("/epics", h.GetEpics)
	r.GET("/epics/:id", h.GetEpicByID)
	r.GET("/epics/:id/subtasks", h.GetEpicSubtasks)
	r.POST("/epics", h.CreateEpic)
	r.POST("/epics/:id", h.UpdateEpic)
	r.DELETE("/epics/:id", h.DeleteEpic)

	r.GET("/history", h.GetHistory)
	r.GET("/prioritized", h.GetPrioritized)

	return r
}

func do(t *testing.T, r *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeTask(t *testing.T, w *httptest.ResponseRecorder) models.Task {
	t.Helper()
	var task models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	return task
}

func TestCreateTask_Success(t *testing.T) {
	r := newAPI(t)

	w := do(t, r, http.MethodPost, "/tasks", map[string]any{
		"name":        "Write report",
		"description": "Quarterly numbers",
		"startTime":   testutil.At(10, 15),
		"duration":    45,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	created := decodeTask(t, w)
	require.Equal(t, 1, created.ID)
	require.Equal(t, models.StatusNew, created.Status)
	require.Equal(t, models.Minutes(45), created.Duration)
}

func TestCreateTask_MissingFields(t *testing.T) {
	r := newAPI(t)

	w := do(t, r, http.MethodPost, "/tasks", map[string]any{"name": "no description"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTaskByID(t *testing.T) {
	r := newAPI(t)
	do(t, r, http.MethodPost, "/tasks", map[string]any{"name": "a", "description": "d"})

	w := do(t, r, http.MethodGet, "/tasks/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "a", decodeTask(t, w).Name)

	w = do(t, r, http.MethodGet, "/tasks/99", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, "/tasks/banana", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateTask_MergesPartialBody(t *testing.T) {
	r := newAPI(t)
	do(t, r, http.MethodPost, "/tasks", map[string]any{"name": "a", "description": "d"})

	w := do(t, r, http.MethodPost, "/tasks/1", map[string]any{"id": 1, "status": "DONE"})
	require.Equal(t, http.StatusCreated, w.Code)

	updated := decodeTask(t, w)
	require.Equal(t, models.StatusDone, updated.Status)
	require.Equal(t, "a", updated.Name)
}

func TestUpdateTask_IDMismatch(t *testing.T) {
	r := newAPI(t)
	do(t, r, http.MethodPost, "/tasks", map[string]any{"name": "a", "description": "d"})

	w := do(t, r, http.MethodPost, "/tasks/1", map[string]any{"id": 2, "status": "DONE"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTask_TimeConflict(t *testing.T) {
	r := newAPI(t)

	w := do(t, r, http.MethodPost, "/tasks", map[string]any{
		"name": "a", "description": "d", "startTime": testutil.At(10, 15), "duration": 45,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, r, http.MethodPost, "/tasks", map[string]any{
		"name": "b", "description": "d", "startTime": testutil.At(10, 35), "duration": 5,
	})
	require.Equal(t, http.StatusNotAcceptable, w.Code)

	// Touching intervals are allowed.
	w = do(t, r, http.MethodPost, "/tasks", map[string]any{
		"name": "c", "description": "d", "startTime": testutil.At(11, 0), "duration": 5,
	})
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestDeleteTask(t *testing.T) {
	r := newAPI(t)
	do(t, r, http.MethodPost, "/tasks", map[string]any{"name": "a", "description": "d"})

	w := do(t, r, http.MethodDelete, "/tasks/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/tasks/1", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodDelete, "/tasks/1", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteAllTasks(t *testing.T) {
	r := newAPI(t)
	do(t, r, http.MethodPost, "/tasks", map[string]any{"name": "a", "description": "d"})
	do(t, r, http.MethodPost, "/tasks", map[string]any{"name": "b", "description": "d"})

	w := do(t, r, http.MethodDelete, "/tasks", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/tasks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, "[]", w.Body.String())
}
