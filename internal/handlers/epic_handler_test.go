package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"task-tracker-api/internal/models"
	"task-tracker-api/internal/testutil"
)

func decodeEpic(t *testing.T, w *httptest.ResponseRecorder) models.Epic {
	t.Helper()
	var epic models.Epic
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &epic))
	return epic
}

func decodeSubtask(t *testing.T, w *httptest.ResponseRecorder) models.Subtask {
	t.Helper()
	var sub models.Subtask
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sub))
	return sub
}

func TestCreateEpicAndSubtask(t *testing.T) {
	r := newAPI(t)

	w := do(t, r, http.MethodPost, "/epics", map[string]any{"name": "release", "description": "v2"})
	require.Equal(t, http.StatusCreated, w.Code)
	epic := decodeEpic(t, w)
	require.Equal(t, 1, epic.ID)
	require.Equal(t, models.StatusNew, epic.Status)

	w = do(t, r, http.MethodPost, "/subtasks", map[string]any{
		"name": "ship", "description": "d", "epicId": epic.ID,
		"status": "DONE", "startTime": testutil.At(9, 0), "duration": 60,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	sub := decodeSubtask(t, w)
	require.Equal(t, 2, sub.ID)
	require.Equal(t, epic.ID, sub.EpicID)

	// The epic derives status and timing from its only subtask.
	w = do(t, r, http.MethodGet, "/epics/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	epic = decodeEpic(t, w)
	require.Equal(t, models.StatusDone, epic.Status)
	require.Equal(t, []int{2}, epic.SubtaskIDs)
	require.Equal(t, *testutil.At(9, 0), *epic.StartTime)
	require.Equal(t, models.Minutes(60), epic.Duration)
}

func TestCreateSubtask_UnknownEpic(t *testing.T) {
	r := newAPI(t)

	w := do(t, r, http.MethodPost, "/subtasks", map[string]any{
		"name": "orphan", "description": "d", "epicId": 42,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateEpic_OnlyNameAndDescription(t *testing.T) {
	r := newAPI(t)
	do(t, r, http.MethodPost, "/epics", map[string]any{"name": "release", "description": "v2"})
	do(t, r, http.MethodPost, "/subtasks", map[string]any{
		"name": "ship", "description": "d", "epicId": 1, "status": "DONE",
	})

	w := do(t, r, http.MethodPost, "/epics/1", map[string]any{
		"id": 1, "name": "release v2", "status": "NEW",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	epic := decodeEpic(t, w)
	require.Equal(t, "release v2", epic.Name)
	// Status stays derived from the subtasks, not the request body.
	require.Equal(t, models.StatusDone, epic.Status)
}

func TestGetEpicSubtasks(t *testing.T) {
	r := newAPI(t)
	do(t, r, http.MethodPost, "/epics", map[string]any{"name": "e", "description": "d"})
	do(t, r, http.MethodPost, "/subtasks", map[string]any{"name": "s1", "description": "d", "epicId": 1})
	do(t, r, http.MethodPost, "/subtasks", map[string]any{"name": "s2", "description": "d", "epicId": 1})

	w := do(t, r, http.MethodGet, "/epics/1/subtasks", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var subs []models.Subtask
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &subs))
	require.Len(t, subs, 2)
	require.Equal(t, "s1", subs[0].Name)
	require.Equal(t, "s2", subs[1].Name)

	// Unknown epics yield an empty list rather than an error.
	w = do(t, r, http.MethodGet, "/epics/99/subtasks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, "[]", w.Body.String())
}

func TestDeleteEpic_CascadesToSubtasks(t *testing.T) {
	r := newAPI(t)
	do(t, r, http.MethodPost, "/epics", map[string]any{"name": "e", "description": "d"})
	do(t, r, http.MethodPost, "/subtasks", map[string]any{"name": "s", "description": "d", "epicId": 1})

	w := do(t, r, http.MethodDelete, "/epics/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/subtasks/2", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateSubtask_MovesBetweenEpics(t *testing.T) {
	r := newAPI(t)
	do(t, r, http.MethodPost, "/epics", map[string]any{"name": "a", "description": "d"})
	do(t, r, http.MethodPost, "/epics", map[string]any{"name": "b", "description": "d"})
	do(t, r, http.MethodPost, "/subtasks", map[string]any{"name": "s", "description": "d", "epicId": 1})

	w := do(t, r, http.MethodPost, "/subtasks/3", map[string]any{"id": 3, "epicId": 2})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, 2, decodeSubtask(t, w).EpicID)

	w = do(t, r, http.MethodGet, "/epics/1", nil)
	require.Empty(t, decodeEpic(t, w).SubtaskIDs)
	w = do(t, r, http.MethodGet, "/epics/2", nil)
	require.Equal(t, []int{3}, decodeEpic(t, w).SubtaskIDs)
}
