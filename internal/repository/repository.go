package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/models"
)

// ErrStaleVersion is returned when a conditional write finds a newer version
var ErrStaleVersion = errors.New("task repository: stale version")

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task together with its assignments
	Create(ctx context.Context, task *models.Task, assigneeIDs []uint64) error

	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// ListAll retrieves every task with assignees resolved
	ListAll(ctx context.Context) ([]models.Task, error)

	// Update saves all task fields; assignments are replaced when assigneeIDs is non-nil
	Update(ctx context.Context, task *models.Task, assigneeIDs []uint64) error

	// SaveProgress writes status, progress and checklist. When expectedVersion
	// is set the write only succeeds if the stored version still matches.
	SaveProgress(ctx context.Context, task *models.Task, expectedVersion *uint64) error

	// Delete soft deletes a task and removes its assignments
	Delete(ctx context.Context, id uint64) error

	// Count counts tasks in scope
	Count(ctx context.Context, scope TaskScope) (int64, error)

	// CountByStatus groups tasks in scope by status
	CountByStatus(ctx context.Context, scope TaskScope) (map[models.TaskStatus]int64, error)

	// CountByPriority groups tasks in scope by priority
	CountByPriority(ctx context.Context, scope TaskScope) (map[models.TaskPriority]int64, error)

	// CountOverdue counts unfinished tasks in scope due before now
	CountOverdue(ctx context.Context, scope TaskScope, now time.Time) (int64, error)

	// Recent returns the most recently created tasks in scope
	Recent(ctx context.Context, scope TaskScope, limit int) ([]models.Task, error)

	// CountByAssigneeAndStatus groups assigned tasks by assignee and status
	CountByAssigneeAndStatus(ctx context.Context) ([]AssigneeStatusCount, error)
}

// TaskScope restricts aggregate queries
type TaskScope struct {
	AssignedUserID *uint64
}

// AllTasks is the unrestricted scope
var AllTasks = TaskScope{}

// AssignedTo scopes queries to tasks assigned to userID
func AssignedTo(userID uint64) TaskScope {
	return TaskScope{AssignedUserID: &userID}
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Scope    TaskScope
	Status   *models.TaskStatus
	Page     int
	PageSize int
}

// AssigneeStatusCount is one row of CountByAssigneeAndStatus
type AssigneeStatusCount struct {
	UserID uint64
	Status models.TaskStatus
	Count  int64
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// List lists users ordered by ID, optionally filtered by role
	List(ctx context.Context, role *models.UserRole) ([]models.User, error)

	// CountByIDs counts how many of the given user IDs exist
	CountByIDs(ctx context.Context, ids []uint64) (int64, error)
}
