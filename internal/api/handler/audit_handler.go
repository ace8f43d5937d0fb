package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/alexpase322/jornixs-backend/internal/dto"
	"github.com/alexpase322/jornixs-backend/internal/service"
	"github.com/alexpase322/jornixs-backend/pkg/response"
)

// AuditHandler 审计日志 HTTP 处理器（仅管理员）
type AuditHandler struct {
	auditSvc service.AuditService
}

// NewAuditHandler 创建 AuditHandler
func NewAuditHandler(auditSvc service.AuditService) *AuditHandler {
	return &AuditHandler{auditSvc: auditSvc}
}

// List 分页查询审计日志
// GET /api/v1/admin/audit-logs?page=&page_size=
func (h *AuditHandler) List(c *gin.Context) {
	var req dto.AuditListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 17001, "参数校验失败")
		return
	}

	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	entries, total, err := h.auditSvc.List(c.Request.Context(), companyID, req.Page, req.PageSize)
	if err != nil {
		response.InternalError(c)
		return
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	response.OKPage(c, entries, total, page, pageSize)
}
