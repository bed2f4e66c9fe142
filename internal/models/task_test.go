package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestTaskStatus_Key(t *testing.T) {
	assert.Equal(t, "Pending", TaskStatusPending.Key())
	assert.Equal(t, "InProgress", TaskStatusInProgress.Key())
	assert.Equal(t, "Completed", TaskStatusCompleted.Key())
}

func TestTaskStatus_Valid(t *testing.T) {
	assert.True(t, TaskStatus("In Progress").Valid())
	assert.False(t, TaskStatus("InProgress").Valid())
	assert.False(t, TaskStatus("").Valid())
	assert.True(t, TaskPriority("High").Valid())
	assert.False(t, TaskPriority("high").Valid())
}

func TestTask_ChecklistColumn(t *testing.T) {
	task := Task{TodoChecklist: []ChecklistItem{{Text: "write tests", Completed: true}, {Text: "ship"}}}

	value, err := task.TodoChecklist.Value()
	require.NoError(t, err)

	var scanned datatypes.JSONSlice[ChecklistItem]
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, task.TodoChecklist, scanned)
	assert.Equal(t, 1, task.Checklist().CompletedCount())
	assert.Equal(t, 0, (&Task{}).Checklist().CompletedCount())
}

func TestTask_BeforeSaveStoresDueDateInUTC(t *testing.T) {
	newYork := time.FixedZone("EDT", -4*60*60)
	due := time.Date(2026, 10, 18, 9, 0, 0, 0, newYork)
	task := Task{DueDate: &due}

	require.NoError(t, task.BeforeSave(nil))
	assert.Equal(t, time.UTC, task.DueDate.Location())
	assert.True(t, task.DueDate.Equal(due))
	assert.Equal(t, 13, task.DueDate.Hour())
}

func TestTask_IsAssignedTo(t *testing.T) {
	task := Task{Assignments: []TaskAssignment{{UserID: 3}, {UserID: 7}}}

	assert.True(t, task.IsAssignedTo(7))
	assert.False(t, task.IsAssignedTo(4))
	assert.Equal(t, []uint64{3, 7}, task.AssigneeIDs())
}
