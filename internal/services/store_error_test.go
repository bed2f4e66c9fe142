package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker-api/internal/database"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestServices_WrapStoreErrors(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), database.GormConfig(logger.Silent))
	require.NoError(t, err)

	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)
	storeErr := errors.New("deadlock detected")
	admin := Actor{UserID: 1, Role: models.RoleAdmin}

	mock.ExpectQuery("SELECT count").WillReturnError(storeErr)
	_, err = NewTaskService(taskRepo, userRepo, nil).ListTasks(context.Background(), ListTasksInput{Actor: admin})
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.Contains(t, err.Error(), "failed to list tasks")

	mock.ExpectQuery("SELECT").WillReturnError(storeErr)
	_, err = NewReportService(taskRepo, userRepo).TasksReport(context.Background())
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, ErrNothingToExport)

	assert.NoError(t, mock.ExpectationsWereMet())
}
