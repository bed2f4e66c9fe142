package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"github.com/yukikurage/task-tracker-api/internal/testutil"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	env   *testEnv
	admin *models.User
	alice *models.User
	bob   *models.User
}

type taskEnvelope struct {
	Message string      `json:"message"`
	Task    dto.TaskDTO `json:"task"`
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	suite.env = setupTestEnv(suite.T())
	suite.admin = testutil.CreateUser(suite.T(), suite.env.db, "admin", models.RoleAdmin)
	suite.alice = testutil.CreateUser(suite.T(), suite.env.db, "alice", models.RoleMember)
	suite.bob = testutil.CreateUser(suite.T(), suite.env.db, "bob", models.RoleMember)
}

func (suite *TaskHandlerTestSuite) createTask(title string, assignees ...uint64) *models.Task {
	return testutil.CreateTask(suite.T(), suite.env.db, title, suite.admin.ID, assignees)
}

func (suite *TaskHandlerTestSuite) TestCreateTask() {
	w := suite.env.request(suite.T(), http.MethodPost, "/api/tasks", suite.admin, map[string]interface{}{
		"title":      "Write docs",
		"priority":   "High",
		"dueDate":    "2026-11-01T00:00:00Z",
		"assignedTo": []uint64{suite.alice.ID, suite.alice.ID},
		"todoChecklist": []map[string]interface{}{
			{"text": "outline", "completed": true},
			{"text": "draft", "completed": false},
		},
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var response taskEnvelope
	decodeJSON(suite.T(), w, &response)
	suite.Equal("Write docs", response.Task.Title)
	suite.Equal(models.TaskPriorityHigh, response.Task.Priority)
	suite.Equal(50, response.Task.Progress)
	suite.Equal(models.TaskStatusInProgress, response.Task.Status)
	suite.Equal(1, response.Task.CompletedTodoCount)
	suite.Equal(suite.admin.ID, response.Task.CreatedBy)
	suite.Require().Len(response.Task.AssignedTo, 1)
	suite.Equal("alice@example.com", response.Task.AssignedTo[0].Email)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_AssignedToMustBeArray() {
	for _, body := range []string{
		`{"title":"x","assignedTo":"1"}`,
		`{"title":"x","assignedTo":1}`,
		`{"title":"x","assignedTo":null}`,
		`{"title":"x"}`,
	} {
		w := suite.env.request(suite.T(), http.MethodPost, "/api/tasks", suite.admin, body)
		suite.Equal(http.StatusBadRequest, w.Code, body)
		suite.Contains(w.Body.String(), "assignedTo must be an array of user IDs")
	}
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Errors() {
	w := suite.env.request(suite.T(), http.MethodPost, "/api/tasks", suite.alice, map[string]interface{}{
		"title": "x", "assignedTo": []uint64{},
	})
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.env.request(suite.T(), http.MethodPost, "/api/tasks", suite.admin, map[string]interface{}{
		"title": "x", "assignedTo": []uint64{9999},
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.env.request(suite.T(), http.MethodPost, "/api/tasks", suite.admin, map[string]interface{}{
		"title": "x", "priority": "Critical", "assignedTo": []uint64{},
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.env.request(suite.T(), http.MethodPost, "/api/tasks", nil, map[string]interface{}{
		"title": "x", "assignedTo": []uint64{},
	})
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGetTask() {
	task := suite.createTask("Visible", suite.alice.ID)

	// Any authenticated user can read a task
	w := suite.env.request(suite.T(), http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), suite.bob, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var response dto.TaskDTO
	decodeJSON(suite.T(), w, &response)
	suite.Equal("Visible", response.Title)
	suite.Empty(response.TodoChecklist)
	suite.Require().Len(response.AssignedTo, 1)
	suite.Equal(suite.alice.ID, response.AssignedTo[0].ID)
	suite.Contains(w.Body.String(), `"todoChecklist":[]`)

	w = suite.env.request(suite.T(), http.MethodGet, "/api/tasks/4040", suite.bob, nil)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("NOT_FOUND", errorCode(suite.T(), w))

	w = suite.env.request(suite.T(), http.MethodGet, "/api/tasks/abc", suite.bob, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasks() {
	suite.createTask("alice task", suite.alice.ID)
	suite.createTask("bob task", suite.bob.ID)

	w := suite.env.request(suite.T(), http.MethodGet, "/api/tasks", suite.alice, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var mine dto.TaskListResponse
	decodeJSON(suite.T(), w, &mine)
	suite.Require().Len(mine.Tasks, 1)
	suite.Equal("alice task", mine.Tasks[0].Title)
	suite.Equal(int64(1), mine.StatusSummary.All)

	w = suite.env.request(suite.T(), http.MethodGet, "/api/tasks?page=1&limit=1", suite.admin, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var all dto.TaskListResponse
	decodeJSON(suite.T(), w, &all)
	suite.Len(all.Tasks, 1)
	suite.Equal(int64(2), all.Total)
	suite.Equal(2, all.TotalPages)
	suite.Equal(int64(2), all.StatusSummary.PendingTasks)

	w = suite.env.request(suite.T(), http.MethodGet, "/api/tasks?status=Archived", suite.admin, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask() {
	task := suite.createTask("Original", suite.alice.ID)
	path := fmt.Sprintf("/api/tasks/%d", task.ID)

	w := suite.env.request(suite.T(), http.MethodPut, path, suite.admin, map[string]interface{}{
		"title":      "Renamed",
		"dueDate":    nil,
		"assignedTo": []uint64{suite.bob.ID},
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var response taskEnvelope
	decodeJSON(suite.T(), w, &response)
	suite.Equal("Renamed", response.Task.Title)
	suite.Equal("Original description", response.Task.Description)
	suite.Nil(response.Task.DueDate)
	suite.Require().Len(response.Task.AssignedTo, 1)
	suite.Equal(suite.bob.ID, response.Task.AssignedTo[0].ID)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_Errors() {
	task := suite.createTask("Original", suite.alice.ID)
	path := fmt.Sprintf("/api/tasks/%d", task.ID)

	w := suite.env.request(suite.T(), http.MethodPut, path, suite.admin, `{"assignedTo":"bob"}`)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "assignedTo must be an array of user IDs")

	w = suite.env.request(suite.T(), http.MethodPut, path, suite.admin, `{"dueDate":"tomorrow"}`)
	suite.Equal(http.StatusBadRequest, w.Code)
	var body struct {
		Details map[string]string `json:"details"`
	}
	decodeJSON(suite.T(), w, &body)
	suite.Equal("dueDate", body.Details["field"])

	w = suite.env.request(suite.T(), http.MethodPut, path, suite.admin, `{"priority":3}`)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), `"field":"priority"`)

	// Existence is checked before the admin requirement
	w = suite.env.request(suite.T(), http.MethodPut, "/api/tasks/999", suite.alice, `{"title":"x"}`)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.env.request(suite.T(), http.MethodPut, path, suite.alice, `{"title":"x"}`)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask() {
	task := suite.createTask("Doomed", suite.alice.ID)
	path := fmt.Sprintf("/api/tasks/%d", task.ID)

	w := suite.env.request(suite.T(), http.MethodDelete, path, suite.alice, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.env.request(suite.T(), http.MethodDelete, path, suite.admin, nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.env.request(suite.T(), http.MethodDelete, path, suite.admin, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateStatus() {
	task := testutil.CreateTask(suite.T(), suite.env.db, "Task", suite.admin.ID, []uint64{suite.alice.ID},
		testutil.WithChecklist(models.ChecklistItem{Text: "a"}, models.ChecklistItem{Text: "b"}))
	path := fmt.Sprintf("/api/tasks/%d/status", task.ID)

	w := suite.env.request(suite.T(), http.MethodPut, path, suite.bob, map[string]string{"status": "Completed"})
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.env.request(suite.T(), http.MethodPut, path, suite.alice, map[string]string{"status": "Done"})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.env.request(suite.T(), http.MethodPut, path, suite.alice, map[string]string{"status": "Completed"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var response taskEnvelope
	decodeJSON(suite.T(), w, &response)
	suite.Equal(models.TaskStatusCompleted, response.Task.Status)
	suite.Equal(100, response.Task.Progress)
	suite.Equal(2, response.Task.CompletedTodoCount)

	w = suite.env.request(suite.T(), http.MethodPut, "/api/tasks/999/status", suite.alice, map[string]string{"status": "Completed"})
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateChecklist() {
	task := suite.createTask("Task", suite.alice.ID)
	path := fmt.Sprintf("/api/tasks/%d/todo", task.ID)

	w := suite.env.request(suite.T(), http.MethodPut, path, suite.alice, map[string]interface{}{
		"todoChecklist": []map[string]interface{}{
			{"text": "a", "completed": true},
			{"text": "b", "completed": true},
			{"text": "c", "completed": false},
		},
		"version": task.Version,
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var response taskEnvelope
	decodeJSON(suite.T(), w, &response)
	suite.Equal(67, response.Task.Progress)
	suite.Equal(models.TaskStatusInProgress, response.Task.Status)
	suite.Equal(task.Version+1, response.Task.Version)

	// A second write with the old version is stale
	w = suite.env.request(suite.T(), http.MethodPut, path, suite.alice, map[string]interface{}{
		"todoChecklist": []map[string]interface{}{},
		"version":       task.Version,
	})
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.env.request(suite.T(), http.MethodPut, path, suite.alice, `{}`)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.env.request(suite.T(), http.MethodPut, path, suite.bob, map[string]interface{}{
		"todoChecklist": []map[string]interface{}{},
	})
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGenerateTasks() {
	due := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	suite.env.generator.tasks = []services.GeneratedTask{
		{Title: "Book venue", Priority: "High", DueDate: &due},
	}

	w := suite.env.request(suite.T(), http.MethodPost, "/api/tasks/generate", suite.alice, map[string]string{"text": "plan"})
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.env.request(suite.T(), http.MethodPost, "/api/tasks/generate", suite.admin, map[string]string{"text": "plan"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var response struct {
		Tasks []services.GeneratedTask `json:"tasks"`
	}
	decodeJSON(suite.T(), w, &response)
	suite.Require().Len(response.Tasks, 1)
	suite.Equal("Book venue", response.Tasks[0].Title)

	w = suite.env.request(suite.T(), http.MethodPost, "/api/tasks/generate", suite.admin, `{}`)
	suite.Equal(http.StatusBadRequest, w.Code)

	suite.env.generator.err = services.ErrAIUnavailable
	w = suite.env.request(suite.T(), http.MethodPost, "/api/tasks/generate", suite.admin, map[string]string{"text": "plan"})
	suite.Equal(http.StatusServiceUnavailable, w.Code)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
