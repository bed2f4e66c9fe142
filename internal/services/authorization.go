package services

import (
	"errors"

	"github.com/yukikurage/task-tracker-api/internal/models"
)

var (
	ErrTaskPermissionDenied = errors.New("user does not have permission to modify this task")
	ErrAdminRequired        = errors.New("admin role is required")
)

// Actor is the authenticated principal performing an operation
type Actor struct {
	UserID uint64
	Role   models.UserRole
}

// IsAdmin reports whether the actor has the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// CanMutate reports whether actor may change the status or checklist of task.
// Admins may change any task; members only the tasks assigned to them.
func CanMutate(task *models.Task, actor Actor) bool {
	return actor.IsAdmin() || task.IsAssignedTo(actor.UserID)
}

func requireAdmin(actor Actor) error {
	if !actor.IsAdmin() {
		return ErrAdminRequired
	}
	return nil
}
