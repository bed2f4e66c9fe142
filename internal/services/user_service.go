package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"gorm.io/gorm"
)

// MemberSummary is a member together with their task counts
type MemberSummary struct {
	User            models.User
	PendingTasks    int64
	InProgressTasks int64
	CompletedTasks  int64
}

// UserService handles user queries
type UserService struct {
	userRepo repository.UserRepository
	taskRepo repository.TaskRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, taskRepo repository.TaskRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		taskRepo: taskRepo,
	}
}

// ListMembers returns every member with their task counts. Admin only.
func (s *UserService) ListMembers(ctx context.Context, actor Actor) ([]MemberSummary, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	role := models.RoleMember
	users, err := s.userRepo.List(ctx, &role)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	rows, err := s.taskRepo.CountByAssigneeAndStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count assigned tasks: %w", err)
	}

	counts := make(map[uint64]map[models.TaskStatus]int64)
	for _, row := range rows {
		if counts[row.UserID] == nil {
			counts[row.UserID] = make(map[models.TaskStatus]int64)
		}
		counts[row.UserID][row.Status] += row.Count
	}

	members := make([]MemberSummary, 0, len(users))
	for _, user := range users {
		byStatus := counts[user.ID]
		members = append(members, MemberSummary{
			User:            user,
			PendingTasks:    byStatus[models.TaskStatusPending],
			InProgressTasks: byStatus[models.TaskStatusInProgress],
			CompletedTasks:  byStatus[models.TaskStatusCompleted],
		})
	}

	return members, nil
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
