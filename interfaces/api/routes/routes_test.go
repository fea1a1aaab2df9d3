package routes_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmanager/application/serviceimpl"
	"taskmanager/domain/dto"
	"taskmanager/infrastructure/postgres"
	"taskmanager/interfaces/api/handlers"
	"taskmanager/interfaces/api/middleware"
	"taskmanager/interfaces/api/routes"
	"taskmanager/pkg/scheduler"
	"taskmanager/pkg/testutil"
)

const testSecret = "test-secret"

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string              `json:"code"`
		Message string              `json:"message"`
		Details map[string][]string `json:"details"`
	} `json:"error"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db := testutil.NewTestDB(t)
	taskRepo := postgres.NewTaskRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	feed := serviceimpl.NewNotificationService(taskRepo, notificationRepo, nil, 0, nil)
	svc := &handlers.Services{
		TaskService:         serviceimpl.NewTaskService(taskRepo, notificationRepo, nil, feed, nil),
		SubtaskService:      serviceimpl.NewSubtaskService(postgres.NewSubtaskRepository(db), taskRepo, feed, nil),
		NotificationService: feed,
		UserService:         serviceimpl.NewUserService(postgres.NewUserRepository(db), testSecret, time.Hour),
		Scheduler:           scheduler.NewEventScheduler(),
		AppName:             "Task Manager API",
	}

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(false)})
	routes.SetupRoutes(app, handlers.NewHandlers(svc), routes.Options{JWTSecret: testSecret})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, headers ...string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			encoded, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(encoded)
		}
		reader = bytes.NewBufferString(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestTaskRoutes(t *testing.T) {
	app := newTestApp(t)

	status, env := doJSON(t, app, http.MethodPost, "/api/v1/tasks", map[string]any{
		"title":    "Preparar presentación",
		"priority": "Alta",
		"due_date": "2030-05-01T10:00",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Tarea creada exitosamente.", env.Message)
	created := decode[dto.TaskResponse](t, env.Data)
	assert.Equal(t, "Pendiente", created.Status)
	require.NotNil(t, created.DueDate)
	assert.Equal(t, time.Date(2030, 5, 1, 10, 0, 0, 0, time.UTC), created.DueDate.UTC())
	assert.NotNil(t, created.Subtasks)

	taskPath := "/api/v1/tasks/" + created.ID.String()

	status, env = doJSON(t, app, http.MethodPost, "/api/v1/subtasks", map[string]any{
		"task_id":      created.ID.String(),
		"title":        "Diapositivas",
		"is_completed": true,
	})
	require.Equal(t, http.StatusCreated, status)
	mutation := decode[dto.SubtaskMutationResponse](t, env.Data)
	require.NotNil(t, mutation.Task)
	assert.Equal(t, "Completado", mutation.Task.Status)

	status, env = doJSON(t, app, http.MethodGet, taskPath, nil)
	require.Equal(t, http.StatusOK, status)
	fetched := decode[dto.TaskResponse](t, env.Data)
	assert.Equal(t, 1, fetched.SubtasksCount)
	assert.Equal(t, 1, fetched.CompletedSubtasks)

	status, env = doJSON(t, app, http.MethodGet, "/api/v1/tasks?status=Completado&page=abc", nil)
	require.Equal(t, http.StatusOK, status)
	list := decode[dto.TaskListResponse](t, env.Data)
	assert.Equal(t, 1, list.Meta.CurrentPage)
	assert.EqualValues(t, 1, list.Meta.Total)
	assert.EqualValues(t, 1, list.Stats.ByStatus["Completado"])
	assert.Contains(t, list.Stats.ByPriority, "Baja")
	assert.Nil(t, list.All)

	status, env = doJSON(t, app, http.MethodPatch, taskPath+"/reschedule", map[string]any{"due_date": "2030-06-01"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Reprogramada", decode[dto.TaskResponse](t, env.Data).Status)

	status, env = doJSON(t, app, http.MethodPost, taskPath+"/recompute", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Completado", decode[dto.TaskResponse](t, env.Data).Status)

	status, _ = doJSON(t, app, http.MethodDelete, taskPath, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = doJSON(t, app, http.MethodGet, taskPath, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "La tarea no existe.", env.Error.Message)
}

func TestTaskRoutes_Errors(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{"missing title", http.MethodPost, "/api/v1/tasks", map[string]any{"priority": "Alta"}, http.StatusBadRequest, "VALIDATION_ERROR", "title"},
		{"unknown priority", http.MethodPost, "/api/v1/tasks", map[string]any{"title": "x", "priority": "Urgente"}, http.StatusBadRequest, "VALIDATION_ERROR", "priority"},
		{"unparseable due date", http.MethodPost, "/api/v1/tasks", map[string]any{"title": "x", "priority": "Alta", "due_date": "mañana"}, http.StatusBadRequest, "VALIDATION_ERROR", "due_date"},
		{"malformed json", http.MethodPost, "/api/v1/tasks", `{"title":`, http.StatusBadRequest, "BAD_REQUEST", ""},
		{"bad status filter", http.MethodGet, "/api/v1/tasks?status=Cerrada", nil, http.StatusBadRequest, "VALIDATION_ERROR", "status"},
		{"malformed task id", http.MethodGet, "/api/v1/tasks/123", nil, http.StatusNotFound, "NOT_FOUND", ""},
		{"unknown task", http.MethodPut, "/api/v1/tasks/" + uuid.NewString(), map[string]any{"title": "x"}, http.StatusNotFound, "NOT_FOUND", ""},
		{"subtask for unknown task", http.MethodPost, "/api/v1/subtasks", map[string]any{"task_id": uuid.NewString(), "title": "x"}, http.StatusNotFound, "NOT_FOUND", ""},
		{"unknown subtask", http.MethodDelete, "/api/v1/subtasks/" + uuid.NewString(), nil, http.StatusNotFound, "NOT_FOUND", ""},
		{"unknown route", http.MethodGet, "/api/v1/nada", nil, http.StatusNotFound, "NOT_FOUND", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := doJSON(t, app, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, status)
			require.NotNil(t, env.Error)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantCode, env.Error.Code)
			if tt.wantField != "" {
				assert.NotEmpty(t, env.Error.Details[tt.wantField])
			}
		})
	}
}

func TestTaskRoutes_BlankTitles(t *testing.T) {
	app := newTestApp(t)

	status, env := doJSON(t, app, http.MethodPost, "/api/v1/tasks", map[string]any{"title": "Original", "priority": "Media"})
	require.Equal(t, http.StatusCreated, status)
	task := decode[dto.TaskResponse](t, env.Data)
	taskPath := "/api/v1/tasks/" + task.ID.String()

	status, env = doJSON(t, app, http.MethodPost, "/api/v1/subtasks", map[string]any{"task_id": task.ID.String(), "title": "Paso"})
	require.Equal(t, http.StatusCreated, status)
	subtask := decode[dto.SubtaskMutationResponse](t, env.Data).Subtask
	require.NotNil(t, subtask)

	tests := []struct {
		name   string
		method string
		path   string
		body   map[string]any
	}{
		{"create task", http.MethodPost, "/api/v1/tasks", map[string]any{"title": "   ", "priority": "Alta"}},
		{"update task", http.MethodPut, taskPath, map[string]any{"title": "   "}},
		{"create subtask", http.MethodPost, "/api/v1/subtasks", map[string]any{"task_id": task.ID.String(), "title": "\t "}},
		{"update subtask", http.MethodPut, "/api/v1/subtasks/" + subtask.ID.String(), map[string]any{"title": "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := doJSON(t, app, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			require.NotNil(t, env.Error)
			assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
			assert.NotEmpty(t, env.Error.Details["title"])
		})
	}

	status, env = doJSON(t, app, http.MethodGet, taskPath, nil)
	require.Equal(t, http.StatusOK, status)
	fetched := decode[dto.TaskResponse](t, env.Data)
	assert.Equal(t, "Original", fetched.Title)
	require.Len(t, fetched.Subtasks, 1)
	assert.Equal(t, "Paso", fetched.Subtasks[0].Title)

	status, env = doJSON(t, app, http.MethodGet, "/api/v1/tasks", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, decode[dto.TaskListResponse](t, env.Data).Meta.Total)
}

func TestTaskRoutes_PageBeyondRange(t *testing.T) {
	app := newTestApp(t)

	for _, title := range []string{"Uno", "Dos", "Tres"} {
		status, _ := doJSON(t, app, http.MethodPost, "/api/v1/tasks", map[string]any{"title": title, "priority": "Baja"})
		require.Equal(t, http.StatusCreated, status)
	}

	for _, page := range []string{"2", "1844674407370955162", "9223372036854775807"} {
		t.Run(page, func(t *testing.T) {
			status, env := doJSON(t, app, http.MethodGet, "/api/v1/tasks?page="+page, nil)
			require.Equal(t, http.StatusOK, status)
			list := decode[dto.TaskListResponse](t, env.Data)
			assert.Empty(t, list.Tasks)
			assert.Equal(t, 1, list.Meta.LastPage)
			assert.EqualValues(t, 3, list.Meta.Total)
			assert.EqualValues(t, 3, list.Stats.Total)
		})
	}
}

func TestNotificationRoutes(t *testing.T) {
	app := newTestApp(t)

	soon := time.Now().UTC().Add(2 * time.Hour).Format(time.RFC3339)
	status, env := doJSON(t, app, http.MethodPost, "/api/v1/tasks", map[string]any{
		"title": "Enviar factura", "priority": "Media", "due_date": soon,
	})
	require.Equal(t, http.StatusCreated, status)
	task := decode[dto.TaskResponse](t, env.Data)

	status, env = doJSON(t, app, http.MethodGet, "/api/v1/notifications", nil)
	require.Equal(t, http.StatusOK, status)
	feed := decode[dto.NotificationFeed](t, env.Data)
	require.Len(t, feed.DueSoon, 1)
	assert.Equal(t, task.ID, feed.DueSoon[0].ID)
	assert.Empty(t, feed.Overdue)

	status, env = doJSON(t, app, http.MethodPost, "/api/v1/notifications", map[string]any{
		"task_id": task.ID.String(), "message": "Llamar al cliente",
	})
	require.Equal(t, http.StatusCreated, status)
	created := decode[dto.NotificationResponse](t, env.Data)
	assert.Equal(t, "custom", created.Type)

	status, env = doJSON(t, app, http.MethodGet, "/api/v1/notifications/history?task_id="+task.ID.String(), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]dto.NotificationResponse](t, env.Data), 1)

	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/notifications/history?task_id=xyz", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, app, http.MethodDelete, "/api/v1/notifications/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, app, http.MethodDelete, "/api/v1/notifications/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAuthRoutes(t *testing.T) {
	app := newTestApp(t)

	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"name": "Luis", "email": "luis@example.com", "password": "secreta123",
	})
	require.Equal(t, http.StatusCreated, status)

	status, env := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"name": "Luis", "email": "luis@example.com", "password": "secreta123",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email": "luis@example.com", "password": "equivocada",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email": "luis@example.com", "password": "secreta123",
	})
	require.Equal(t, http.StatusOK, status)
	login := decode[dto.LoginResponse](t, env.Data)
	require.NotEmpty(t, login.Token)

	status, env = doJSON(t, app, http.MethodGet, "/api/v1/user", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Falta el encabezado de autorización.", env.Error.Message)

	status, env = doJSON(t, app, http.MethodGet, "/api/v1/user", nil, "Authorization", "Bearer "+login.Token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "luis@example.com", decode[dto.UserResponse](t, env.Data).Email)
}

func TestHealthRoutes(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Status string                     `json:"status"`
		Jobs   map[string]json.RawMessage `json:"jobs"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body.Status)

	status, _ := doJSON(t, app, http.MethodGet, "/health/storage", nil)
	assert.Equal(t, http.StatusNotFound, status)
}
