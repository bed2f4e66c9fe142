package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/report"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// ExportTasks downloads every task as a spreadsheet
func (h *ReportHandler) ExportTasks(c *gin.Context) {
	export, err := h.reportService.TasksReport(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	h.sendWorkbook(c, export)
}

// ExportUsers downloads the per-user task summary as a spreadsheet
func (h *ReportHandler) ExportUsers(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	export, err := h.reportService.UsersReport(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	h.sendWorkbook(c, export)
}

func (h *ReportHandler) sendWorkbook(c *gin.Context, export *services.Export) {
	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, export.Sheet); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", export.Filename))
	c.Data(http.StatusOK, report.ContentType, buf.Bytes())
}
