package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/report"
	"github.com/yukikurage/task-tracker-api/internal/repository"
)

var ErrNothingToExport = errors.New("no data available for report")

// Export is a workbook ready to be written to the client
type Export struct {
	Filename string
	Sheet    report.Sheet
}

// ReportService builds the spreadsheet exports
type ReportService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *ReportService {
	return &ReportService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		now:      time.Now,
	}
}

// TasksReport exports every task with its assignees
func (s *ReportService) TasksReport(ctx context.Context) (*Export, error) {
	tasks, err := s.taskRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	if len(tasks) == 0 {
		return nil, ErrNothingToExport
	}

	return &Export{
		Filename: fmt.Sprintf("tasks_report_%d.xlsx", s.now().UnixMilli()),
		Sheet: report.Sheet{
			Name:    "Tasks Report",
			Columns: report.TaskColumns,
			Rows:    report.TaskRows(tasks),
		},
	}, nil
}

// UsersReport exports per-user task counts. Admin only.
func (s *ReportService) UsersReport(ctx context.Context, actor Actor) (*Export, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	users, err := s.userRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	tasks, err := s.taskRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	if len(users) == 0 || len(tasks) == 0 {
		return nil, ErrNothingToExport
	}

	return &Export{
		Filename: fmt.Sprintf("users_report_%d.xlsx", s.now().UnixMilli()),
		Sheet: report.Sheet{
			Name:    "User Task Report",
			Columns: report.UserColumns,
			Rows:    report.UserRows(users, tasks),
		},
	}, nil
}
