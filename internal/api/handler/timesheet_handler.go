package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexpase322/jornixs-backend/internal/dto"
	"github.com/alexpase322/jornixs-backend/internal/service"
	pkgerrors "github.com/alexpase322/jornixs-backend/pkg/errors"
	"github.com/alexpase322/jornixs-backend/pkg/response"
)

// TimesheetHandler 考勤表工作流 HTTP 处理器
type TimesheetHandler struct {
	timesheetSvc service.TimesheetService
}

// NewTimesheetHandler 创建 TimesheetHandler
func NewTimesheetHandler(timesheetSvc service.TimesheetService) *TimesheetHandler {
	return &TimesheetHandler{timesheetSvc: timesheetSvc}
}

// Submit 提交考勤表
// POST /api/v1/timesheets/submit
func (h *TimesheetHandler) Submit(c *gin.Context) {
	var req dto.SubmitTimesheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	ts, err := h.timesheetSvc.Submit(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleTimesheetError(c, err)
		return
	}

	response.OK(c, ts)
}

// Approve 审批通过
// POST /api/v1/admin/timesheets/:id/approve
func (h *TimesheetHandler) Approve(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 13001, "考勤表ID不能为空")
		return
	}

	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	ts, err := h.timesheetSvc.Approve(c.Request.Context(), adminID, companyID, id)
	if err != nil {
		h.handleTimesheetError(c, err)
		return
	}

	response.OK(c, ts)
}

// Reject 驳回
// POST /api/v1/admin/timesheets/:id/reject
func (h *TimesheetHandler) Reject(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 13001, "考勤表ID不能为空")
		return
	}

	var req dto.RejectTimesheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13001, "驳回理由不能为空")
		return
	}

	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	ts, err := h.timesheetSvc.Reject(c.Request.Context(), adminID, companyID, id, &req)
	if err != nil {
		h.handleTimesheetError(c, err)
		return
	}

	response.OK(c, ts)
}

// Reopen 重新打开被驳回的考勤表
// POST /api/v1/timesheets/:id/reopen
func (h *TimesheetHandler) Reopen(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 13001, "考勤表ID不能为空")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	ts, err := h.timesheetSvc.Reopen(c.Request.Context(), userID, id)
	if err != nil {
		h.handleTimesheetError(c, err)
		return
	}

	response.OK(c, ts)
}

// GetMine 查询自己某日所在周的考勤表
// GET /api/v1/timesheets/mine?date=YYYY-MM-DD
func (h *TimesheetHandler) GetMine(c *gin.Context) {
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
			response.BadRequest(c, 13001, "日期参数无效，格式应为 YYYY-MM-DD")
			return
		}
		date = parsed
	}

	ts, err := h.timesheetSvc.GetMine(c.Request.Context(), userID, companyID, date)
	if err != nil {
		h.handleTimesheetError(c, err)
		return
	}

	response.OK(c, ts)
}

// List 管理员考勤表列表
// GET /api/v1/admin/timesheets?status=&worker_id=
func (h *TimesheetHandler) List(c *gin.Context) {
	var req dto.TimesheetListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	sheets, err := h.timesheetSvc.List(c.Request.Context(), companyID, &req)
	if err != nil {
		h.handleTimesheetError(c, err)
		return
	}

	response.OK(c, gin.H{"list": sheets})
}

// handleTimesheetError 统一处理考勤表模块业务错误
func (h *TimesheetHandler) handleTimesheetError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTimesheetNotFound):
		response.NotFound(c, 13101, "考勤表不存在")
	case errors.Is(err, service.ErrWorkWeekNotFound):
		response.NotFound(c, 13102, "工作周不存在")
	case errors.Is(err, service.ErrTimesheetNotOpen):
		response.Conflict(c, 13103, "考勤表非待填写状态，不可提交")
	case errors.Is(err, service.ErrTimesheetNotSubmitted):
		response.Conflict(c, 13104, "考勤表非待审批状态，不可执行此操作")
	case errors.Is(err, service.ErrTimesheetNotRejected):
		response.Conflict(c, 13105, "考勤表非已驳回状态，不可重新打开")
	case errors.Is(err, service.ErrRejectReasonRequired):
		response.BadRequest(c, 13107, "驳回理由不能为空")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 13106, "数据已被其他操作修改，请刷新后重试")
	case errors.Is(err, pkgerrors.ErrCrossCompany):
		response.Forbidden(c, 10003, "无权访问该资源")
	default:
		response.InternalError(c)
	}
}
