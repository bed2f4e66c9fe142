package database

import (
	"fmt"
	"strings"

	"github.com/yukikurage/task-tracker-api/internal/logging"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

type indexDef struct {
	model   interface{}
	name    string
	columns []string
}

// dashboardIndexes back the filters and orderings used by list and dashboard queries
var dashboardIndexes = []indexDef{
	{&models.Task{}, "idx_tasks_status", []string{"status"}},
	{&models.Task{}, "idx_tasks_priority", []string{"priority"}},
	{&models.Task{}, "idx_tasks_due_date", []string{"due_date"}},
	{&models.Task{}, "idx_tasks_created_at", []string{"created_at", "id"}},
	{&models.Task{}, "idx_tasks_creator_id", []string{"creator_id"}},
	{&models.TaskAssignment{}, "idx_task_assignments_user_id", []string{"user_id"}},
}

// AddIndexes creates the dashboard indexes that do not exist yet
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()

	for _, idx := range dashboardIndexes {
		if migrator.HasIndex(idx.model, idx.name) {
			continue
		}

		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(idx.model); err != nil {
			return fmt.Errorf("failed to parse model for index %s: %w", idx.name, err)
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, stmt.Schema.Table, strings.Join(idx.columns, ", "))
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logging.Logger.WithField("index", idx.name).Info("Created index")
	}

	return nil
}
