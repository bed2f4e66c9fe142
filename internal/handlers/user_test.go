package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/testutil"
)

func TestUserHandler_ListUsers(t *testing.T) {
	env := setupTestEnv(t)
	admin := testutil.CreateUser(t, env.db, "admin", models.RoleAdmin)
	alice := testutil.CreateUser(t, env.db, "alice", models.RoleMember)
	testutil.CreateTask(t, env.db, "t", admin.ID, []uint64{alice.ID}, testutil.WithStatus(models.TaskStatusInProgress))

	w := env.request(t, http.MethodGet, "/api/users", alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodGet, "/api/users", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var members []dto.MemberDTO
	decodeJSON(t, w, &members)
	require.Len(t, members, 1)
	assert.Equal(t, "alice", members[0].Name)
	assert.Equal(t, int64(1), members[0].InProgressTasks)
}

func TestUserHandler_GetUser(t *testing.T) {
	env := setupTestEnv(t)
	alice := testutil.CreateUser(t, env.db, "alice", models.RoleMember)

	w := env.request(t, http.MethodGet, fmt.Sprintf("/api/users/%d", alice.ID), alice, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var user dto.UserDTO
	decodeJSON(t, w, &user)
	assert.Equal(t, "alice@example.com", user.Email)

	w = env.request(t, http.MethodGet, "/api/users/999", alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.request(t, http.MethodGet, "/api/users/abc", alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
