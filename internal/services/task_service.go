package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/progress"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrInvalidStatus          = errors.New("status must be one of Pending, In Progress, Completed")
	ErrInvalidPriority        = errors.New("priority must be one of Low, Medium, High")
	ErrTitleRequired          = errors.New("title is required")
	ErrTitleEmpty             = errors.New("title cannot be empty")
	ErrInvalidTaskAssignee    = errors.New("one or more assigned users do not exist")
	ErrVersionConflict        = errors.New("task was modified by another request")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
	ErrAITooManyTasks         = fmt.Errorf("AI generated too many tasks (max %d)", constants.MaxAIGeneratedTasks)
)

// taskDetailPreloads resolves assignees for single-task responses
var taskDetailPreloads = []string{"Assignments.User"}

// TaskService handles task business logic
type TaskService struct {
	taskRepo  repository.TaskRepository
	userRepo  repository.UserRepository
	generator TaskGenerator
	now       func() time.Time
}

// NewTaskService creates a new TaskService. generator may be nil when no
// OpenAI key is configured.
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, generator TaskGenerator) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		userRepo:  userRepo,
		generator: generator,
		now:       time.Now,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Actor    Actor
	Status   *models.TaskStatus
	Page     int
	PageSize int
}

// StatusSummary counts the tasks visible to the actor by status
type StatusSummary struct {
	All        int64
	Pending    int64
	InProgress int64
	Completed  int64
}

// TaskList is a page of tasks plus the status summary of the whole scope
type TaskList struct {
	Tasks    []models.Task
	Total    int64
	Page     int
	PageSize int
	Summary  StatusSummary
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title         string
	Description   string
	Priority      models.TaskPriority
	DueDate       *time.Time
	AssignedTo    []uint64
	Attachments   []string
	TodoChecklist models.Checklist
}

// UpdateTaskInput represents a partial task update. Nil fields are left
// unchanged; a non-nil empty AssignedTo unassigns everyone.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Priority      *models.TaskPriority
	DueDate       *time.Time
	ClearDueDate  bool
	AssignedTo    []uint64
	Attachments   []string
	TodoChecklist models.Checklist
}

// scopeFor returns the tasks visible to actor: all of them for admins,
// the assigned ones for members
func scopeFor(actor Actor) repository.TaskScope {
	if actor.IsAdmin() {
		return repository.AllTasks
	}
	return repository.AssignedTo(actor.UserID)
}

// ListTasks returns a page of the tasks visible to the actor
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) (*TaskList, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	params := utils.NewPaginationParams(input.Page, input.PageSize)
	scope := scopeFor(input.Actor)

	tasks, total, err := s.taskRepo.List(ctx, repository.TaskFilter{
		Scope:    scope,
		Status:   input.Status,
		Page:     params.Page,
		PageSize: params.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	counts, err := s.taskRepo.CountByStatus(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	summary := StatusSummary{
		Pending:    counts[models.TaskStatusPending],
		InProgress: counts[models.TaskStatusInProgress],
		Completed:  counts[models.TaskStatusCompleted],
	}
	summary.All = summary.Pending + summary.InProgress + summary.Completed

	return &TaskList{
		Tasks:    tasks,
		Total:    total,
		Page:     params.Page,
		PageSize: params.Limit,
		Summary:  summary,
	}, nil
}

// GetTask returns a task with its assignees resolved
func (s *TaskService) GetTask(ctx context.Context, taskID uint64) (*models.Task, error) {
	return s.findTask(ctx, taskID, taskDetailPreloads...)
}

// CreateTask validates input and creates a task. Progress and status are
// derived from the checklist, so a task without one starts Pending at 0.
func (s *TaskService) CreateTask(ctx context.Context, actor Actor, input CreateTaskInput) (*models.Task, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	priority := input.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}
	if !priority.Valid() {
		return nil, ErrInvalidPriority
	}

	assignees := uniqueUint64(input.AssignedTo)
	if err := s.ensureUsersExist(ctx, assignees); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       title,
		Description: input.Description,
		Priority:    priority,
		DueDate:     input.DueDate,
		Attachments: input.Attachments,
		CreatorID:   actor.UserID,
		Version:     1,
	}
	progress.ApplyChecklist(task, input.TodoChecklist)

	if err := s.taskRepo.Create(ctx, task, assignees); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.findTask(ctx, task.ID, taskDetailPreloads...)
}

// UpdateTask applies a partial update to an existing task
func (s *TaskService) UpdateTask(ctx context.Context, actor Actor, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = title
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}

	var assignees []uint64
	if input.AssignedTo != nil {
		assignees = uniqueUint64(input.AssignedTo)
		if err := s.ensureUsersExist(ctx, assignees); err != nil {
			return nil, err
		}
	}

	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Attachments != nil {
		task.Attachments = input.Attachments
	}
	if input.TodoChecklist != nil {
		progress.ApplyChecklist(task, input.TodoChecklist)
	}

	if err := s.taskRepo.Update(ctx, task, assignees); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.findTask(ctx, task.ID, taskDetailPreloads...)
}

// DeleteTask deletes a task and its assignments
func (s *TaskService) DeleteTask(ctx context.Context, actor Actor, taskID uint64) error {
	if _, err := s.findTask(ctx, taskID); err != nil {
		return err
	}
	if err := requireAdmin(actor); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// UpdateStatus sets the task status directly. When expectedVersion is set
// the write fails with ErrVersionConflict if the task changed meanwhile.
func (s *TaskService) UpdateStatus(ctx context.Context, actor Actor, taskID uint64, status models.TaskStatus, expectedVersion *uint64) (*models.Task, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	task, err := s.findMutableTask(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}

	progress.ApplyStatus(task, status)

	if err := s.saveProgress(ctx, task, expectedVersion); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateChecklist replaces the checklist and recomputes progress and status
func (s *TaskService) UpdateChecklist(ctx context.Context, actor Actor, taskID uint64, items models.Checklist, expectedVersion *uint64) (*models.Task, error) {
	task, err := s.findMutableTask(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}

	progress.ApplyChecklist(task, items)

	if err := s.saveProgress(ctx, task, expectedVersion); err != nil {
		return nil, err
	}
	return task, nil
}

// GenerateTasks uses AI to draft tasks from text. Drafts are returned to
// the caller and not persisted.
func (s *TaskService) GenerateTasks(ctx context.Context, actor Actor, text string) ([]GeneratedTask, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if s.generator == nil {
		return nil, ErrAIServiceNotConfigured
	}

	aiTasks, err := s.generator.GenerateTasksFromText(ctx, text)
	if err != nil {
		if errors.Is(err, ErrAIUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		return nil, ErrAITooManyTasks
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	cutoff := s.now().Add(-24 * time.Hour)
	for _, aiTask := range aiTasks {
		aiTask.Title = strings.TrimSpace(aiTask.Title)
		if aiTask.Title == "" {
			continue
		}

		if !models.TaskPriority(aiTask.Priority).Valid() {
			aiTask.Priority = string(models.TaskPriorityMedium)
		}
		if aiTask.DueDate != nil && aiTask.DueDate.Before(cutoff) {
			aiTask.DueDate = nil
		}

		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validTasks, nil
}

// findTask loads a task, mapping a missing row to ErrTaskNotFound
func (s *TaskService) findTask(ctx context.Context, taskID uint64, preload ...string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// findMutableTask loads a task with its assignments and checks CanMutate
func (s *TaskService) findMutableTask(ctx context.Context, actor Actor, taskID uint64) (*models.Task, error) {
	task, err := s.findTask(ctx, taskID, taskDetailPreloads...)
	if err != nil {
		return nil, err
	}
	if !CanMutate(task, actor) {
		return nil, ErrTaskPermissionDenied
	}
	return task, nil
}

func (s *TaskService) saveProgress(ctx context.Context, task *models.Task, expectedVersion *uint64) error {
	if err := s.taskRepo.SaveProgress(ctx, task, expectedVersion); err != nil {
		switch {
		case errors.Is(err, repository.ErrStaleVersion):
			return ErrVersionConflict
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ErrTaskNotFound
		default:
			return fmt.Errorf("failed to save task progress: %w", err)
		}
	}
	return nil
}

// ensureUsersExist verifies that every id refers to an existing user
func (s *TaskService) ensureUsersExist(ctx context.Context, userIDs []uint64) error {
	if len(userIDs) == 0 {
		return nil
	}

	count, err := s.userRepo.CountByIDs(ctx, userIDs)
	if err != nil {
		return fmt.Errorf("failed to verify users: %w", err)
	}
	if int(count) != len(userIDs) {
		return ErrInvalidTaskAssignee
	}
	return nil
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
