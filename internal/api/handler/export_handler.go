package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/alexpase322/jornixs-backend/internal/service"
	"github.com/alexpase322/jornixs-backend/pkg/response"
)

// ExportHandler 薪酬报表导出 HTTP 处理器（仅管理员）
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportConsolidated 导出薪酬汇总 Excel
// GET /api/v1/admin/reports/consolidated/export?start_date=&end_date=
func (h *ExportHandler) ExportConsolidated(c *gin.Context) {
	start, end, ok := bindDateRange(c)
	if !ok {
		return
	}

	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportConsolidated(c.Request.Context(), companyID, start, end)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoData):
		response.NotFound(c, 17101, "所选区间内没有可导出的数据")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.Error(c, http.StatusInternalServerError, 17102, "报表生成失败，请稍后重试")
	default:
		response.InternalError(c)
	}
}
