package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/task-tracker-api/internal/utils"
)

// Paginate limits a query to one page. A zero page or limit leaves the
// query unpaginated.
func Paginate(page, limit int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page <= 0 || limit <= 0 {
			return db
		}
		params := utils.NewPaginationParams(page, limit)
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// NewestFirst orders tasks by creation time, newest first, breaking ties
// by descending ID
func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("tasks.created_at DESC, tasks.id DESC")
}

// AssignedTo restricts a task query to tasks assigned to userID
func AssignedTo(userID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Joins("JOIN task_assignments ON task_assignments.task_id = tasks.id AND task_assignments.user_id = ?", userID)
	}
}
