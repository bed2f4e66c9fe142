package dto

import (
	"time"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

// AssigneeDTO represents an assigned user in task responses
type AssigneeDTO struct {
	ID              uint64 `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	ProfileImageURL string `json:"profileImageUrl"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID                 uint64                 `json:"id"`
	Title              string                 `json:"title"`
	Description        string                 `json:"description"`
	Priority           models.TaskPriority    `json:"priority"`
	Status             models.TaskStatus      `json:"status"`
	DueDate            *time.Time             `json:"dueDate"`
	Progress           int                    `json:"progress"`
	AssignedTo         []AssigneeDTO          `json:"assignedTo"`
	TodoChecklist      []models.ChecklistItem `json:"todoChecklist"`
	CompletedTodoCount int                    `json:"completedTodoCount"`
	Attachments        []string               `json:"attachments"`
	CreatedBy          uint64                 `json:"createdBy"`
	Version            uint64                 `json:"version"`
	CreatedAt          time.Time              `json:"createdAt"`
	UpdatedAt          time.Time              `json:"updatedAt"`
}

// RecentTaskDTO is the projection of a task shown on dashboards
type RecentTaskDTO struct {
	ID        uint64              `json:"id"`
	Title     string              `json:"title"`
	Status    models.TaskStatus   `json:"status"`
	Priority  models.TaskPriority `json:"priority"`
	DueDate   *time.Time          `json:"dueDate"`
	CreatedAt time.Time           `json:"createdAt"`
}

// StatusSummaryDTO counts the visible tasks by status
type StatusSummaryDTO struct {
	All             int64 `json:"all"`
	PendingTasks    int64 `json:"pendingTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks         []TaskDTO        `json:"tasks"`
	StatusSummary StatusSummaryDTO `json:"statusSummary"`
	Page          int              `json:"page"`
	Limit         int              `json:"limit"`
	Total         int64            `json:"total"`
	TotalPages    int              `json:"totalPages"`
}

// Conversion functions

// ToAssigneeDTOs resolves assignments to users, leaving out users that no
// longer exist
func ToAssigneeDTOs(assignments []models.TaskAssignment) []AssigneeDTO {
	assignees := make([]AssigneeDTO, 0, len(assignments))
	for _, assignment := range assignments {
		if assignment.User.ID == 0 {
			continue
		}
		assignees = append(assignees, AssigneeDTO{
			ID:              assignment.User.ID,
			Name:            assignment.User.Name,
			Email:           assignment.User.Email,
			ProfileImageURL: assignment.User.ProfileImageURL,
		})
	}
	return assignees
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	checklist := []models.ChecklistItem(task.TodoChecklist)
	if checklist == nil {
		checklist = []models.ChecklistItem{}
	}
	attachments := []string(task.Attachments)
	if attachments == nil {
		attachments = []string{}
	}

	return TaskDTO{
		ID:                 task.ID,
		Title:              task.Title,
		Description:        task.Description,
		Priority:           task.Priority,
		Status:             task.Status,
		DueDate:            task.DueDate,
		Progress:           task.Progress,
		AssignedTo:         ToAssigneeDTOs(task.Assignments),
		TodoChecklist:      checklist,
		CompletedTodoCount: task.Checklist().CompletedCount(),
		Attachments:        attachments,
		CreatedBy:          task.CreatorID,
		Version:            task.Version,
		CreatedAt:          task.CreatedAt,
		UpdatedAt:          task.UpdatedAt,
	}
}

// ToRecentTaskDTOs projects tasks for the dashboards
func ToRecentTaskDTOs(tasks []models.Task) []RecentTaskDTO {
	items := make([]RecentTaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = RecentTaskDTO{
			ID:        task.ID,
			Title:     task.Title,
			Status:    task.Status,
			Priority:  task.Priority,
			DueDate:   task.DueDate,
			CreatedAt: task.CreatedAt,
		}
	}
	return items
}

// ToTaskListResponse converts a page of tasks to TaskListResponse
func ToTaskListResponse(list *services.TaskList) TaskListResponse {
	items := make([]TaskDTO, len(list.Tasks))
	for i, task := range list.Tasks {
		items[i] = ToTaskDTO(task)
	}

	totalPages := int(list.Total) / list.PageSize
	if int(list.Total)%list.PageSize > 0 {
		totalPages++
	}

	return TaskListResponse{
		Tasks: items,
		StatusSummary: StatusSummaryDTO{
			All:             list.Summary.All,
			PendingTasks:    list.Summary.Pending,
			InProgressTasks: list.Summary.InProgress,
			CompletedTasks:  list.Summary.Completed,
		},
		Page:       list.Page,
		Limit:      list.PageSize,
		Total:      list.Total,
		TotalPages: totalPages,
	}
}
