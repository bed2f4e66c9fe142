// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker-api/internal/database"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Password is the plain-text password of every user created by CreateUser
const Password = "supersecret"

// NewDB opens a migrated in-memory SQLite database. The pool is limited to
// one connection so every query sees the same in-memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig(logger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(database.Models()...))
	database.SetDB(db)

	return db
}

// CreateUser inserts a user with the given role
func CreateUser(t *testing.T, db *gorm.DB, name string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// TaskOption customizes a task created by CreateTask
type TaskOption func(*models.Task)

// WithStatus sets the task status
func WithStatus(status models.TaskStatus) TaskOption {
	return func(t *models.Task) { t.Status = status }
}

// WithPriority sets the task priority
func WithPriority(priority models.TaskPriority) TaskOption {
	return func(t *models.Task) { t.Priority = priority }
}

// WithDueDate sets the task due date
func WithDueDate(due time.Time) TaskOption {
	return func(t *models.Task) { t.DueDate = &due }
}

// WithCreatedAt sets the creation time
func WithCreatedAt(at time.Time) TaskOption {
	return func(t *models.Task) { t.CreatedAt = at }
}

// WithChecklist sets the checklist without deriving progress
func WithChecklist(items ...models.ChecklistItem) TaskOption {
	return func(t *models.Task) { t.TodoChecklist = items }
}

// CreateTask inserts a task created by creatorID and assigned to assignees
func CreateTask(t *testing.T, db *gorm.DB, title string, creatorID uint64, assignees []uint64, opts ...TaskOption) *models.Task {
	t.Helper()

	task := &models.Task{
		Title:       title,
		Description: title + " description",
		Priority:    models.TaskPriorityMedium,
		Status:      models.TaskStatusPending,
		CreatorID:   creatorID,
		Version:     1,
	}
	for _, opt := range opts {
		opt(task)
	}
	require.NoError(t, db.Create(task).Error)

	for _, userID := range assignees {
		require.NoError(t, db.Create(&models.TaskAssignment{TaskID: task.ID, UserID: userID}).Error)
	}

	return task
}
