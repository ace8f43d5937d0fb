package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/alexpase322/jornixs-backend/internal/dto"
	"github.com/alexpase322/jornixs-backend/internal/service"
	pkgerrors "github.com/alexpase322/jornixs-backend/pkg/errors"
	"github.com/alexpase322/jornixs-backend/pkg/response"
)

// WorkerHandler 员工管理 HTTP 处理器（仅管理员）
type WorkerHandler struct {
	workerSvc service.WorkerService
}

// NewWorkerHandler 创建 WorkerHandler
func NewWorkerHandler(workerSvc service.WorkerService) *WorkerHandler {
	return &WorkerHandler{workerSvc: workerSvc}
}

// Create 创建员工账号
// POST /api/v1/admin/workers
func (h *WorkerHandler) Create(c *gin.Context) {
	var req dto.CreateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 15001, "参数校验失败")
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

	worker, err := h.workerSvc.Create(c.Request.Context(), adminID, companyID, &req)
	if err != nil {
		h.handleWorkerError(c, err)
		return
	}

	response.Created(c, worker)
}

// List 员工列表
// GET /api/v1/admin/workers?active_only=
func (h *WorkerHandler) List(c *gin.Context) {
	var req dto.WorkerListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 15001, "参数校验失败")
		return
	}

	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	workers, err := h.workerSvc.List(c.Request.Context(), companyID, req.ActiveOnly)
	if err != nil {
		h.handleWorkerError(c, err)
		return
	}

	response.OK(c, gin.H{"list": workers})
}

// Get 员工详情
// GET /api/v1/admin/workers/:id
func (h *WorkerHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 15001, "员工ID不能为空")
		return
	}

	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	worker, err := h.workerSvc.Get(c.Request.Context(), companyID, id)
	if err != nil {
		h.handleWorkerError(c, err)
		return
	}

	response.OK(c, worker)
}

// Update 更新员工信息
// PUT /api/v1/admin/workers/:id
func (h *WorkerHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 15001, "员工ID不能为空")
		return
	}

	var req dto.UpdateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 15001, "参数校验失败")
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

	worker, err := h.workerSvc.Update(c.Request.Context(), adminID, companyID, id, &req)
	if err != nil {
		h.handleWorkerError(c, err)
		return
	}

	response.OK(c, worker)
}

// Deactivate 停用员工账号
// DELETE /api/v1/admin/workers/:id
func (h *WorkerHandler) Deactivate(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 15001, "员工ID不能为空")
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

	if err := h.workerSvc.Deactivate(c.Request.Context(), adminID, companyID, id); err != nil {
		h.handleWorkerError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *WorkerHandler) handleWorkerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrWorkerNotFound):
		response.NotFound(c, 15101, "员工不存在")
	case errors.Is(err, service.ErrEmailTaken):
		response.Conflict(c, 15102, "该邮箱已被注册")
	case errors.Is(err, service.ErrLocationNotFound):
		response.NotFound(c, 15103, "工作地点不存在")
	case errors.Is(err, pkgerrors.ErrCrossCompany):
		response.Forbidden(c, 10003, "无权访问该资源")
	default:
		response.InternalError(c)
	}
}
