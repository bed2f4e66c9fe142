// Package report projects tasks and users into spreadsheet rows and writes
// them as xlsx workbooks.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"github.com/yukikurage/task-tracker-api/internal/models"
)

// ContentType is the MIME type of the generated workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	dueDateLayout = "1/2/2006"
	dueDateUnset  = "Not Set"
	unassigned    = "Unassigned"
)

// Column is a sheet column header and its display width
type Column struct {
	Header string
	Width  float64
}

// Sheet is a single worksheet: a header row followed by data rows
type Sheet struct {
	Name    string
	Columns []Column
	Rows    [][]interface{}
}

// TaskColumns are the columns of the tasks report
var TaskColumns = []Column{
	{Header: "Task ID", Width: 25},
	{Header: "Title", Width: 30},
	{Header: "Description", Width: 50},
	{Header: "Status", Width: 20},
	{Header: "Priority", Width: 20},
	{Header: "Due Date", Width: 20},
	{Header: "Assigned To", Width: 30},
}

// UserColumns are the columns of the user summary report
var UserColumns = []Column{
	{Header: "User Name", Width: 30},
	{Header: "Email", Width: 40},
	{Header: "Total Assigned Tasks", Width: 20},
	{Header: "Pending Tasks", Width: 20},
	{Header: "In Progress Tasks", Width: 20},
	{Header: "Completed Tasks", Width: 20},
}

// TaskRows builds one row per task. Tasks must have Assignments.User
// preloaded; assignees whose user no longer exists are left out.
func TaskRows(tasks []models.Task) [][]interface{} {
	rows := make([][]interface{}, 0, len(tasks))
	for _, task := range tasks {
		dueDate := dueDateUnset
		if task.DueDate != nil {
			dueDate = task.DueDate.Format(dueDateLayout)
		}

		rows = append(rows, []interface{}{
			task.ID,
			task.Title,
			task.Description,
			string(task.Status),
			string(task.Priority),
			dueDate,
			assigneeLabel(task.Assignments),
		})
	}
	return rows
}

func assigneeLabel(assignments []models.TaskAssignment) string {
	names := make([]string, 0, len(assignments))
	for _, a := range assignments {
		if a.User.ID == 0 {
			continue
		}
		names = append(names, fmt.Sprintf("%s (%s)", a.User.Name, a.User.Email))
	}
	if len(names) == 0 {
		return unassigned
	}
	return strings.Join(names, ", ")
}

// userSummary accumulates the task counts of one user
type userSummary struct {
	name       string
	email      string
	total      int
	pending    int
	inProgress int
	completed  int
}

// UserRows builds one row per user, in the order given, counting the tasks
// assigned to each user by status. Assignments to users not in users are
// ignored.
func UserRows(users []models.User, tasks []models.Task) [][]interface{} {
	summaries := make([]*userSummary, len(users))
	byID := make(map[uint64]*userSummary, len(users))
	for i, user := range users {
		summaries[i] = &userSummary{name: user.Name, email: user.Email}
		byID[user.ID] = summaries[i]
	}

	for _, task := range tasks {
		for _, a := range task.Assignments {
			summary, ok := byID[a.UserID]
			if !ok {
				continue
			}
			summary.total++
			switch task.Status {
			case models.TaskStatusPending:
				summary.pending++
			case models.TaskStatusInProgress:
				summary.inProgress++
			case models.TaskStatusCompleted:
				summary.completed++
			}
		}
	}

	rows := make([][]interface{}, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []interface{}{s.name, s.email, s.total, s.pending, s.inProgress, s.completed})
	}
	return rows
}

// WriteXLSX writes sheet as a single-worksheet workbook to w
func WriteXLSX(w io.Writer, sheet Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(sheet.Columns))
	for i, col := range sheet.Columns {
		header[i] = col.Header

		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet.Name, name, name, col.Width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet.Name, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
