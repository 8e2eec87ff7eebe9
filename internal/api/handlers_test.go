package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/dailytasks/internal/api"
	"github.com/nhle/dailytasks/internal/model"
	"github.com/nhle/dailytasks/tests/testutil"
)

const wednesday = "2026-10-14"

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _ := testutil.NewTestService(t, wednesday)
	return api.New(svc, &api.Config{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}).Handler()
}

func do(t *testing.T, h http.Handler, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set(api.UserHeader, user)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestRequireUser(t *testing.T) {
	t.Parallel()
	h := newTestServer(t)

	w := do(t, h, http.MethodGet, "/api/tasks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, h, http.MethodGet, "/api/tasks", "not-a-uuid", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, h, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDueTodayEmptyArray(t *testing.T) {
	t.Parallel()
	h := newTestServer(t)

	w := do(t, h, http.MethodGet, "/api/tasks", testutil.TestUser, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(t, h, http.MethodGet, "/api/tasks/all", testutil.TestUser, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestTaskLifecycle(t *testing.T) {
	t.Parallel()
	h := newTestServer(t)
	user := testutil.TestUser

	w := do(t, h, http.MethodPost, "/api/tasks", user, map[string]any{
		"title": "Report", "days": []int{3}, "subtasks": []string{"A", "B"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	task := decode[model.Task](t, w)
	require.Len(t, task.Subtasks, 2)

	base := "/api/tasks/" + itoa(task.ID)
	for _, st := range task.Subtasks {
		w = do(t, h, http.MethodPost, base+"/subtasks/"+itoa(st.ID)+"/toggle", user, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"completed": true}`, w.Body.String())
	}

	w = do(t, h, http.MethodGet, "/api/tasks", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	views := decode[[]model.TaskView](t, w)
	require.Len(t, views, 1)
	assert.True(t, views[0].Completed)
	assert.Equal(t, 100, views[0].SubtaskCompletion)

	w = do(t, h, http.MethodPatch, base, user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"active": false}`, w.Body.String())

	w = do(t, h, http.MethodDelete, base, user, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, base, user, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "TASK_NOT_FOUND", decode[api.APIError](t, w).Code)
}

func TestToggleTask(t *testing.T) {
	t.Parallel()
	h := newTestServer(t)
	user := testutil.TestUser

	w := do(t, h, http.MethodPost, "/api/tasks", user, map[string]any{"title": "Gym", "days": []int{3}})
	require.Equal(t, http.StatusCreated, w.Code)
	task := decode[model.Task](t, w)

	path := "/api/tasks/" + itoa(task.ID) + "/toggle"
	w = do(t, h, http.MethodPost, path, user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"completed": true}`, w.Body.String())

	w = do(t, h, http.MethodPost, path, testutil.OtherUser, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateTaskAndSubtasks(t *testing.T) {
	t.Parallel()
	h := newTestServer(t)
	user := testutil.TestUser

	w := do(t, h, http.MethodPost, "/api/tasks", user, map[string]any{"title": "Read", "days": []int{1}})
	require.Equal(t, http.StatusCreated, w.Code)
	task := decode[model.Task](t, w)
	base := "/api/tasks/" + itoa(task.ID)

	w = do(t, h, http.MethodPut, base, user, map[string]any{
		"title": "Read a book", "days": []int{3, 1}, "subtasks": []string{"ch. 1", " "},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[model.Task](t, w)
	assert.Equal(t, "Read a book", updated.Title)
	assert.Equal(t, []int{1, 3}, updated.Days)
	require.Len(t, updated.Subtasks, 1)

	w = do(t, h, http.MethodPost, base+"/subtasks", user, map[string]any{"title": "ch. 2"})
	require.Equal(t, http.StatusCreated, w.Code)
	sub := decode[model.Subtask](t, w)
	assert.Equal(t, 1, sub.Priority)

	w = do(t, h, http.MethodPatch, base+"/subtasks/"+itoa(sub.ID), user, map[string]any{"completed": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[model.Subtask](t, w).Completed)

	w = do(t, h, http.MethodDelete, base+"/subtasks/"+itoa(sub.ID), user, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodDelete, base+"/subtasks/"+itoa(sub.ID), user, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "SUBTASK_NOT_FOUND", decode[api.APIError](t, w).Code)
}

func TestValidationErrors(t *testing.T) {
	t.Parallel()
	h := newTestServer(t)
	user := testutil.TestUser

	w := do(t, h, http.MethodPost, "/api/tasks", user, map[string]any{"title": " ", "days": []int{1}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_FAILED", decode[api.APIError](t, w).Code)

	w = do(t, h, http.MethodPost, "/api/tasks", user, map[string]any{"title": "x", "days": []int{8}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/api/tasks/abc", user, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReorderAndStats(t *testing.T) {
	t.Parallel()
	h := newTestServer(t)
	user := testutil.TestUser

	var ids []int64
	for _, title := range []string{"A", "B"} {
		w := do(t, h, http.MethodPost, "/api/tasks", user, map[string]any{"title": title, "days": []int{3}})
		require.Equal(t, http.StatusCreated, w.Code)
		ids = append(ids, decode[model.Task](t, w).ID)
	}

	w := do(t, h, http.MethodPost, "/api/tasks/reorder", user, map[string]any{"task_ids": []int64{ids[1], ids[0]}})
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, "/api/tasks", user, nil)
	views := decode[[]model.TaskView](t, w)
	require.Len(t, views, 2)
	assert.Equal(t, ids[1], views[0].ID)

	w = do(t, h, http.MethodPost, "/api/tasks/reorder", testutil.OtherUser, map[string]any{"task_ids": ids})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodPost, "/api/tasks/"+itoa(ids[0])+"/toggle", user, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodGet, "/api/stats", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[model.Stats](t, w)
	assert.Len(t, stats.History, model.HistoryDays)
	assert.Equal(t, 50, stats.Summary.TodayPercent)
	assert.Equal(t, 2, stats.Summary.TotalCreated)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
