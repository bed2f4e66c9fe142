package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusCompleted  TaskStatus = "Completed"
)

// TaskStatuses lists every status in display order
var TaskStatuses = []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted}

// Valid reports whether s is one of the enumerated statuses
func (s TaskStatus) Valid() bool {
	for _, status := range TaskStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Key returns the status name with whitespace removed ("In Progress" -> "InProgress")
func (s TaskStatus) Key() string {
	return strings.Join(strings.Fields(string(s)), "")
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "Low"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityHigh   TaskPriority = "High"
)

// TaskPriorities lists every priority in display order
var TaskPriorities = []TaskPriority{TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh}

// Valid reports whether p is one of the enumerated priorities
func (p TaskPriority) Valid() bool {
	for _, priority := range TaskPriorities {
		if p == priority {
			return true
		}
	}
	return false
}

// ChecklistItem is a single todo entry of a task
type ChecklistItem struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Checklist is the todo list of a task
type Checklist []ChecklistItem

// CompletedCount returns the number of completed items
func (c Checklist) CompletedCount() int {
	count := 0
	for _, item := range c {
		if item.Completed {
			count++
		}
	}
	return count
}

type Task struct {
	ID            uint64                             `gorm:"primarykey" json:"id"`
	Title         string                             `gorm:"not null" json:"title"`
	Description   string                             `gorm:"type:text" json:"description"`
	Priority      TaskPriority                       `gorm:"type:varchar(20);not null;default:'Medium'" json:"priority"`
	Status        TaskStatus                         `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	DueDate       *time.Time                         `json:"dueDate"`
	Progress      int                                `gorm:"not null;default:0" json:"progress"`
	TodoChecklist datatypes.JSONSlice[ChecklistItem] `json:"todoChecklist"`
	Attachments   datatypes.JSONSlice[string]        `json:"attachments"`
	CreatorID     uint64                             `gorm:"not null" json:"createdBy"`
	Version       uint64                             `gorm:"not null;default:1" json:"version"`
	CreatedAt     time.Time                          `json:"createdAt"`
	UpdatedAt     time.Time                          `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt                     `gorm:"index" json:"-"`

	// Relations
	Creator     User             `gorm:"foreignKey:CreatorID" json:"-"`
	Assignments []TaskAssignment `gorm:"foreignKey:TaskID" json:"-"`
}

// BeforeSave stores due dates in UTC
func (t *Task) BeforeSave(tx *gorm.DB) error {
	if t.DueDate != nil {
		due := t.DueDate.UTC()
		t.DueDate = &due
	}
	return nil
}

// Checklist returns the task's todo list
func (t *Task) Checklist() Checklist {
	return Checklist(t.TodoChecklist)
}

// AssigneeIDs returns the ids of all assigned users
func (t *Task) AssigneeIDs() []uint64 {
	ids := make([]uint64, 0, len(t.Assignments))
	for _, a := range t.Assignments {
		ids = append(ids, a.UserID)
	}
	return ids
}

// IsAssignedTo reports whether userID is in the task's assignee set
func (t *Task) IsAssignedTo(userID uint64) bool {
	for _, a := range t.Assignments {
		if a.UserID == userID {
			return true
		}
	}
	return false
}
