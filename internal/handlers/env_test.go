package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"github.com/yukikurage/task-tracker-api/internal/testutil"
	"github.com/yukikurage/task-tracker-api/internal/utils"
	"gorm.io/gorm"
)

const testInviteToken = "admin-invite"

type testEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	tokens      *utils.TokenIssuer
	authService *services.AuthService
	generator   *stubGenerator
}

type stubGenerator struct {
	tasks []services.GeneratedTask
	err   error
}

func (g *stubGenerator) GenerateTasksFromText(_ context.Context, _ string) ([]services.GeneratedTask, error) {
	return g.tasks, g.err
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)
	tokens := utils.NewTokenIssuer("test-secret", time.Hour)
	generator := &stubGenerator{}
	authService := services.NewAuthService(userRepo, tokens, testInviteToken)

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	RegisterRoutes(r, Handlers{
		Auth:      NewAuthHandler(authService),
		Task:      NewTaskHandler(services.NewTaskService(taskRepo, userRepo, generator)),
		Dashboard: NewDashboardHandler(services.NewDashboardService(taskRepo)),
		Report:    NewReportHandler(services.NewReportService(taskRepo, userRepo)),
		User:      NewUserHandler(services.NewUserService(userRepo, taskRepo)),
	}, tokens)

	return &testEnv{
		db:          db,
		router:      r,
		tokens:      tokens,
		authService: authService,
		generator:   generator,
	}
}

// request performs an HTTP request, authenticated as user when non-nil
func (e *testEnv) request(t *testing.T, method, path string, user *models.User, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		payload, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		token, err := e.tokens.Issue(user)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	decodeJSON(t, w, &body)
	return body.Code
}
