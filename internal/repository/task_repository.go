package repository

import (
	"context"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/database"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task together with its assignments
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task, assigneeIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(task).Error; err != nil {
			return err
		}
		return replaceAssignments(tx, task.ID, assigneeIDs)
	})
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.WithContext(ctx)

	// Apply preloading if specified
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.scoped(ctx, filter.Scope)
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Scopes(database.NewestFirst, database.Paginate(filter.Page, filter.PageSize))
	if err := listQuery.Preload("Assignments.User").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// ListAll retrieves every task with assignees resolved
func (r *GormTaskRepository) ListAll(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.WithContext(ctx).
		Preload("Assignments.User").
		Order("tasks.id ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update saves all task fields; assignments are replaced when assigneeIDs is non-nil
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task, assigneeIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		task.Version++
		if err := tx.Omit(clause.Associations).Save(task).Error; err != nil {
			return err
		}
		if assigneeIDs == nil {
			return nil
		}
		return replaceAssignments(tx, task.ID, assigneeIDs)
	})
}

// SaveProgress writes status, progress and checklist, then mirrors the new
// version and update time onto task
func (r *GormTaskRepository) SaveProgress(ctx context.Context, task *models.Task, expectedVersion *uint64) error {
	now := r.db.NowFunc()
	query := r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", task.ID)
	if expectedVersion != nil {
		query = query.Where("version = ?", *expectedVersion)
	}

	result := query.Updates(map[string]interface{}{
		"status":         task.Status,
		"progress":       task.Progress,
		"todo_checklist": task.TodoChecklist,
		"version":        gorm.Expr("version + ?", 1),
		"updated_at":     now,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if expectedVersion != nil {
			return ErrStaleVersion
		}
		return gorm.ErrRecordNotFound
	}

	task.Version++
	task.UpdatedAt = now
	return nil
}

// Delete soft deletes a task and removes its assignments
func (r *GormTaskRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}

// Count counts tasks in scope
func (r *GormTaskRepository) Count(ctx context.Context, scope TaskScope) (int64, error) {
	var count int64
	err := r.scoped(ctx, scope).Count(&count).Error
	return count, err
}

// CountByStatus groups tasks in scope by status
func (r *GormTaskRepository) CountByStatus(ctx context.Context, scope TaskScope) (map[models.TaskStatus]int64, error) {
	var rows []struct {
		Status models.TaskStatus
		Count  int64
	}
	if err := r.scoped(ctx, scope).
		Select("tasks.status AS status, COUNT(*) AS count").
		Group("tasks.status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[models.TaskStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CountByPriority groups tasks in scope by priority
func (r *GormTaskRepository) CountByPriority(ctx context.Context, scope TaskScope) (map[models.TaskPriority]int64, error) {
	var rows []struct {
		Priority models.TaskPriority
		Count    int64
	}
	if err := r.scoped(ctx, scope).
		Select("tasks.priority AS priority, COUNT(*) AS count").
		Group("tasks.priority").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[models.TaskPriority]int64, len(rows))
	for _, row := range rows {
		counts[row.Priority] = row.Count
	}
	return counts, nil
}

// CountOverdue counts unfinished tasks in scope due before now
func (r *GormTaskRepository) CountOverdue(ctx context.Context, scope TaskScope, now time.Time) (int64, error) {
	var count int64
	err := r.scoped(ctx, scope).
		Where("tasks.due_date IS NOT NULL AND tasks.due_date < ?", now.UTC()).
		Where("tasks.status <> ?", models.TaskStatusCompleted).
		Count(&count).Error
	return count, err
}

// Recent returns the most recently created tasks in scope
func (r *GormTaskRepository) Recent(ctx context.Context, scope TaskScope, limit int) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.scoped(ctx, scope).
		Scopes(database.NewestFirst).
		Limit(limit).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// CountByAssigneeAndStatus groups assigned tasks by assignee and status
func (r *GormTaskRepository) CountByAssigneeAndStatus(ctx context.Context) ([]AssigneeStatusCount, error) {
	var rows []AssigneeStatusCount
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Select("task_assignments.user_id AS user_id, tasks.status AS status, COUNT(*) AS count").
		Joins("JOIN task_assignments ON task_assignments.task_id = tasks.id").
		Group("task_assignments.user_id, tasks.status").
		Scan(&rows).Error
	return rows, err
}

// scoped starts a task query restricted to scope
func (r *GormTaskRepository) scoped(ctx context.Context, scope TaskScope) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Task{})
	if scope.AssignedUserID != nil {
		query = query.Scopes(database.AssignedTo(*scope.AssignedUserID))
	}
	return query
}

// replaceAssignments makes userIDs the task's full assignee set
func replaceAssignments(tx *gorm.DB, taskID uint64, userIDs []uint64) error {
	if err := tx.Where("task_id = ?", taskID).Delete(&models.TaskAssignment{}).Error; err != nil {
		return err
	}
	if len(userIDs) == 0 {
		return nil
	}

	assignments := make([]models.TaskAssignment, len(userIDs))
	for i, userID := range userIDs {
		assignments[i] = models.TaskAssignment{
			TaskID: taskID,
			UserID: userID,
		}
	}

	return tx.Create(&assignments).Error
}
