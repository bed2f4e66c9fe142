package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"github.com/yukikurage/task-tracker-api/internal/utils"
)

const assignedToNotArray = "assignedTo must be an array of user IDs"

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the tasks visible to the current user.
// Admins see every task, members the tasks assigned to them.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	input := services.ListTasksInput{
		Actor:    actor,
		Page:     params.Page,
		PageSize: params.Limit,
	}
	if status := c.Query("status"); status != "" {
		s := models.TaskStatus(status)
		input.Status = &s
	}

	list, err := h.taskService.ListTasks(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(list))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, err := h.taskService.GetTask(c.Request.Context(), middleware.GetTaskID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Title         string                 `json:"title" binding:"required"`
		Description   string                 `json:"description"`
		Priority      models.TaskPriority    `json:"priority"`
		DueDate       *time.Time             `json:"dueDate"`
		AssignedTo    json.RawMessage        `json:"assignedTo"`
		Attachments   []string               `json:"attachments"`
		TodoChecklist []models.ChecklistItem `json:"todoChecklist"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	assignedTo, ok := decodeAssignedTo(req.AssignedTo)
	if !ok {
		apierrors.BadRequest(c, assignedToNotArray)
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), actor, services.CreateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		Priority:      req.Priority,
		DueDate:       req.DueDate,
		AssignedTo:    assignedTo,
		Attachments:   req.Attachments,
		TodoChecklist: req.TodoChecklist,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"task":    dto.ToTaskDTO(*task),
	})
}

// UpdateTask updates the fields present in the request body
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	// Parse raw JSON to detect which fields were sent
	var rawReq map[string]json.RawMessage
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input, ok := parseUpdateTask(c, rawReq)
	if !ok {
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), actor, middleware.GetTaskID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task updated successfully",
		"task":    dto.ToTaskDTO(*task),
	})
}

// parseUpdateTask decodes the fields of a partial update, answering 400 on
// the first malformed one
func parseUpdateTask(c *gin.Context, rawReq map[string]json.RawMessage) (services.UpdateTaskInput, bool) {
	var input services.UpdateTaskInput

	fields := []struct {
		key  string
		dest interface{}
	}{
		{"title", &input.Title},
		{"description", &input.Description},
		{"priority", &input.Priority},
		{"attachments", &input.Attachments},
		{"todoChecklist", &input.TodoChecklist},
	}
	for _, f := range fields {
		raw, ok := rawReq[f.key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, f.dest); err != nil {
			invalidField(c, f.key, "Invalid value for "+f.key)
			return input, false
		}
	}

	if raw, ok := rawReq["dueDate"]; ok {
		// dueDate was provided (might be null)
		if string(raw) == "null" {
			input.ClearDueDate = true
		} else {
			var due time.Time
			if err := json.Unmarshal(raw, &due); err != nil {
				invalidField(c, "dueDate", "Invalid value for dueDate")
				return input, false
			}
			input.DueDate = &due
		}
	}

	if raw, ok := rawReq["assignedTo"]; ok {
		ids, valid := decodeAssignedTo(raw)
		if !valid {
			invalidField(c, "assignedTo", assignedToNotArray)
			return input, false
		}
		input.AssignedTo = ids
	}

	return input, true
}

// invalidField answers 400 naming the offending field in the details
func invalidField(c *gin.Context, field, message string) {
	apierrors.BadRequestWithDetails(c, message, gin.H{"field": field})
}

// decodeAssignedTo accepts only a JSON array of user IDs
func decodeAssignedTo(raw json.RawMessage) ([]uint64, bool) {
	var ids []uint64
	if err := json.Unmarshal(raw, &ids); err != nil || ids == nil {
		return nil, false
	}
	return ids, true
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), actor, middleware.GetTaskID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// UpdateStatus sets the task status directly
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	type UpdateStatusRequest struct {
		Status  models.TaskStatus `json:"status" binding:"required"`
		Version *uint64           `json:"version"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateStatus(c.Request.Context(), actor, middleware.GetTaskID(c), req.Status, req.Version)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task status updated",
		"task":    dto.ToTaskDTO(*task),
	})
}

// UpdateChecklist replaces the task checklist
func (h *TaskHandler) UpdateChecklist(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	type UpdateChecklistRequest struct {
		TodoChecklist []models.ChecklistItem `json:"todoChecklist" binding:"required"`
		Version       *uint64                `json:"version"`
	}

	var req UpdateChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateChecklist(c.Request.Context(), actor, middleware.GetTaskID(c), req.TodoChecklist, req.Version)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task checklist updated",
		"task":    dto.ToTaskDTO(*task),
	})
}

// GenerateTasks drafts tasks from free text using AI
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	type GenerateTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	generatedTasks, err := h.taskService.GenerateTasks(c.Request.Context(), actor, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": generatedTasks,
	})
}
