package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexpase322/jornixs-backend/internal/service"
	pkgerrors "github.com/alexpase322/jornixs-backend/pkg/errors"
	"github.com/alexpase322/jornixs-backend/pkg/response"
)

// ReportHandler 薪酬报表 HTTP 处理器
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// MyWeeklySummary 查询自己某周的工时与薪酬汇总
// GET /api/v1/reports/my-week?date=YYYY-MM-DD
func (h *ReportHandler) MyWeeklySummary(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(c, 14001, "日期参数无效，格式应为 YYYY-MM-DD")
			return
		}
		date = parsed
	}

	summary, err := h.reportSvc.MyWeeklySummary(c.Request.Context(), userID, companyID, date)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, summary)
}

// Consolidated 管理员汇总报表
// GET /api/v1/admin/reports/consolidated?start_date=&end_date=
func (h *ReportHandler) Consolidated(c *gin.Context) {
	start, end, ok := bindDateRange(c)
	if !ok {
		return
	}

	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	report, err := h.reportSvc.Consolidated(c.Request.Context(), companyID, start, end)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, report)
}

// Detailed 管理员单人明细报表
// GET /api/v1/admin/reports/workers/:id?start_date=&end_date=
func (h *ReportHandler) Detailed(c *gin.Context) {
	workerID := c.Param("id")
	if workerID == "" {
		response.BadRequest(c, 14001, "员工ID不能为空")
		return
	}

	start, end, ok := bindDateRange(c)
	if !ok {
		return
	}

	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	report, err := h.reportSvc.Detailed(c.Request.Context(), companyID, workerID, start, end)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, report)
}

// Dashboard 管理员首页统计
// GET /api/v1/admin/reports/dashboard
func (h *ReportHandler) Dashboard(c *gin.Context) {
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	stats, err := h.reportSvc.Dashboard(c.Request.Context(), companyID)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, stats)
}

func (h *ReportHandler) handleReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrWorkerNotFound):
		response.NotFound(c, 14101, "员工不存在")
	case errors.Is(err, pkgerrors.ErrCrossCompany):
		response.Forbidden(c, 10003, "无权访问该资源")
	default:
		response.InternalError(c)
	}
}
