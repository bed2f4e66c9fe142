package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
)

var ErrUserIDRequired = errors.New("user id is required")

// GlobalDashboard is the chart data over every task
type GlobalDashboard struct {
	Distribution map[string]int64
	RecentTasks  []models.Task
}

// UserDashboard is the chart data over the tasks assigned to one user
type UserDashboard struct {
	TotalTasks     int64
	PendingTasks   int64
	CompletedTasks int64
	OverdueTasks   int64
	Distribution   map[string]int64
	Priorities     map[string]int64
	RecentTasks    []models.Task
}

// DashboardService aggregates task counts for the dashboards
type DashboardService struct {
	taskRepo repository.TaskRepository
	now      func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(taskRepo repository.TaskRepository) *DashboardService {
	return &DashboardService{
		taskRepo: taskRepo,
		now:      time.Now,
	}
}

// Global counts every task by status and returns the most recent tasks.
// The keys are fixed: All, Pending, InProgress, Completed.
func (s *DashboardService) Global(ctx context.Context) (*GlobalDashboard, error) {
	counts, err := s.taskRepo.CountByStatus(ctx, repository.AllTasks)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by status: %w", err)
	}

	pending := counts[models.TaskStatusPending]
	inProgress := counts[models.TaskStatusInProgress]
	completed := counts[models.TaskStatusCompleted]

	recent, err := s.taskRepo.Recent(ctx, repository.AllTasks, constants.RecentTasksLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent tasks: %w", err)
	}

	return &GlobalDashboard{
		Distribution: map[string]int64{
			"All":        pending + inProgress + completed,
			"Pending":    pending,
			"InProgress": inProgress,
			"Completed":  completed,
		},
		RecentTasks: recent,
	}, nil
}

// ForUser aggregates the tasks assigned to userID. Every status and
// priority key is present even when its count is zero.
func (s *DashboardService) ForUser(ctx context.Context, userID uint64) (*UserDashboard, error) {
	if userID == 0 {
		return nil, ErrUserIDRequired
	}
	scope := repository.AssignedTo(userID)

	total, err := s.taskRepo.Count(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	byStatus, err := s.taskRepo.CountByStatus(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by status: %w", err)
	}

	byPriority, err := s.taskRepo.CountByPriority(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by priority: %w", err)
	}

	overdue, err := s.taskRepo.CountOverdue(ctx, scope, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to count overdue tasks: %w", err)
	}

	recent, err := s.taskRepo.Recent(ctx, scope, constants.RecentTasksLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent tasks: %w", err)
	}

	distribution := make(map[string]int64, len(models.TaskStatuses)+1)
	for _, status := range models.TaskStatuses {
		distribution[status.Key()] = byStatus[status]
	}
	distribution["ALL"] = total

	priorities := make(map[string]int64, len(models.TaskPriorities))
	for _, priority := range models.TaskPriorities {
		priorities[string(priority)] = byPriority[priority]
	}

	return &UserDashboard{
		TotalTasks:     total,
		PendingTasks:   byStatus[models.TaskStatusPending],
		CompletedTasks: byStatus[models.TaskStatusCompleted],
		OverdueTasks:   overdue,
		Distribution:   distribution,
		Priorities:     priorities,
		RecentTasks:    recent,
	}, nil
}
