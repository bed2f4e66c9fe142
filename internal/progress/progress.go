// Package progress derives a task's progress and status from its checklist.
package progress

import "github.com/yukikurage/task-tracker-api/internal/models"

// Complete is the progress value of a finished task
const Complete = 100

// Result holds the values derived from a checklist
type Result struct {
	Completed int
	Total     int
	Progress  int
	Status    models.TaskStatus
}

// Percent returns 100*completed/total rounded half up, or 0 for an empty checklist
func Percent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	if completed < 0 {
		completed = 0
	}
	if completed > total {
		completed = total
	}
	return (200*completed + total) / (2 * total)
}

// StatusFor maps a progress value to the derived status
func StatusFor(progress int) models.TaskStatus {
	switch {
	case progress >= Complete:
		return models.TaskStatusCompleted
	case progress <= 0:
		return models.TaskStatusPending
	default:
		return models.TaskStatusInProgress
	}
}

// Compute derives progress and status for the given checklist
func Compute(items models.Checklist) Result {
	completed := items.CompletedCount()
	pct := Percent(completed, len(items))
	return Result{
		Completed: completed,
		Total:     len(items),
		Progress:  pct,
		Status:    StatusFor(pct),
	}
}

// ApplyChecklist replaces the task's checklist and recomputes progress and status
func ApplyChecklist(task *models.Task, items models.Checklist) Result {
	checklist := make([]models.ChecklistItem, len(items))
	copy(checklist, items)

	result := Compute(checklist)
	task.TodoChecklist = checklist
	task.Progress = result.Progress
	task.Status = result.Status
	return result
}

// ApplyStatus sets the status directly. Moving to Completed marks every
// checklist item done and sets progress to 100; other targets leave the
// checklist and progress untouched.
func ApplyStatus(task *models.Task, status models.TaskStatus) {
	task.Status = status
	if status != models.TaskStatusCompleted {
		return
	}

	checklist := make([]models.ChecklistItem, len(task.TodoChecklist))
	for i, item := range task.TodoChecklist {
		item.Completed = true
		checklist[i] = item
	}
	task.TodoChecklist = checklist
	task.Progress = Complete
}
