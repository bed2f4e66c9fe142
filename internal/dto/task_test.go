package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

func TestToTaskDTO_EmptyCollectionsSerializeAsArrays(t *testing.T) {
	body, err := json.Marshal(ToTaskDTO(models.Task{ID: 1, Title: "t"}))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, []interface{}{}, decoded["todoChecklist"])
	assert.Equal(t, []interface{}{}, decoded["attachments"])
	assert.Equal(t, []interface{}{}, decoded["assignedTo"])
	assert.Nil(t, decoded["dueDate"])
}

func TestToTaskDTO_AssigneesAndCounts(t *testing.T) {
	task := models.Task{
		ID:            3,
		TodoChecklist: []models.ChecklistItem{{Text: "a", Completed: true}, {Text: "b"}},
		Assignments: []models.TaskAssignment{
			{UserID: 1, User: models.User{ID: 1, Name: "alice", Email: "alice@example.com"}},
			{UserID: 2},
		},
	}

	got := ToTaskDTO(task)
	assert.Equal(t, 1, got.CompletedTodoCount)
	require.Len(t, got.AssignedTo, 1, "deleted users are left out")
	assert.Equal(t, "alice", got.AssignedTo[0].Name)
}

func TestToTaskListResponse_TotalPages(t *testing.T) {
	list := &services.TaskList{
		Tasks:    []models.Task{{ID: 1}, {ID: 2}},
		Total:    21,
		Page:     2,
		PageSize: 10,
		Summary:  services.StatusSummary{All: 21, Pending: 20, Completed: 1},
	}

	got := ToTaskListResponse(list)
	assert.Equal(t, 3, got.TotalPages)
	assert.Equal(t, 10, got.Limit)
	assert.Len(t, got.Tasks, 2)
	assert.Equal(t, StatusSummaryDTO{All: 21, PendingTasks: 20, CompletedTasks: 1}, got.StatusSummary)
}
