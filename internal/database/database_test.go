package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker-api/internal/config"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestDialector(t *testing.T) {
	for _, driver := range []string{"mysql", "postgres", "sqlite", ""} {
		d, err := Dialector(&config.Config{DBDriver: driver, DBName: "tasks"})
		require.NoError(t, err, driver)
		assert.NotNil(t, d)
	}

	_, err := Dialector(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestMigrate_CreatesTablesAndIndexes(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), GormConfig(logger.Silent))
	require.NoError(t, err)
	SetDB(db)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	require.NoError(t, Migrate())

	migrator := db.Migrator()
	assert.True(t, migrator.HasTable(&models.User{}))
	assert.True(t, migrator.HasTable(&models.Task{}))
	assert.True(t, migrator.HasTable(&models.TaskAssignment{}))
	assert.True(t, migrator.HasIndex(&models.Task{}, "idx_tasks_status"))
	assert.True(t, migrator.HasIndex(&models.TaskAssignment{}, "idx_task_assignments_user_id"))

	// Second run must skip existing indexes
	require.NoError(t, AddIndexes(db))
}

func TestScopes(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), GormConfig(logger.Silent))
	require.NoError(t, err)
	dry := db.Session(&gorm.Session{DryRun: true})

	var tasks []models.Task
	sql := dry.Scopes(AssignedTo(7), NewestFirst, Paginate(3, 10)).Find(&tasks).Statement.SQL.String()
	assert.Contains(t, sql, "JOIN task_assignments ON task_assignments.task_id = tasks.id AND task_assignments.user_id = ?")
	assert.Contains(t, sql, "ORDER BY tasks.created_at DESC, tasks.id DESC")
	assert.Contains(t, sql, "LIMIT 10 OFFSET 20")

	sql = dry.Scopes(Paginate(0, 0)).Find(&tasks).Statement.SQL.String()
	assert.NotContains(t, sql, "LIMIT")
}
