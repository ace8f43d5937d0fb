package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/alexpase322/jornixs-backend/internal/dto"
	"github.com/alexpase322/jornixs-backend/internal/service"
	pkgerrors "github.com/alexpase322/jornixs-backend/pkg/errors"
	"github.com/alexpase322/jornixs-backend/pkg/response"
)

// LocationHandler 工作地点管理 HTTP 处理器（仅管理员）
type LocationHandler struct {
	locationSvc service.LocationService
}

// NewLocationHandler 创建 LocationHandler
func NewLocationHandler(locationSvc service.LocationService) *LocationHandler {
	return &LocationHandler{locationSvc: locationSvc}
}

// Create 创建工作地点
// POST /api/v1/admin/locations
func (h *LocationHandler) Create(c *gin.Context) {
	var req dto.CreateWorkLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 16001, "参数校验失败")
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

	loc, err := h.locationSvc.Create(c.Request.Context(), adminID, companyID, &req)
	if err != nil {
		h.handleLocationError(c, err)
		return
	}

	response.Created(c, loc)
}

// List 工作地点列表
// GET /api/v1/admin/locations
func (h *LocationHandler) List(c *gin.Context) {
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	locs, err := h.locationSvc.List(c.Request.Context(), companyID)
	if err != nil {
		h.handleLocationError(c, err)
		return
	}

	response.OK(c, gin.H{"list": locs})
}

// Get 工作地点详情
// GET /api/v1/admin/locations/:id
func (h *LocationHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 16001, "地点ID不能为空")
		return
	}

	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	loc, err := h.locationSvc.Get(c.Request.Context(), companyID, id)
	if err != nil {
		h.handleLocationError(c, err)
		return
	}

	response.OK(c, loc)
}

// Update 更新工作地点
// PUT /api/v1/admin/locations/:id
func (h *LocationHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 16001, "地点ID不能为空")
		return
	}

	var req dto.UpdateWorkLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 16001, "参数校验失败")
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

	loc, err := h.locationSvc.Update(c.Request.Context(), adminID, companyID, id, &req)
	if err != nil {
		h.handleLocationError(c, err)
		return
	}

	response.OK(c, loc)
}

// Delete 删除工作地点
// DELETE /api/v1/admin/locations/:id
func (h *LocationHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 16001, "地点ID不能为空")
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

	if err := h.locationSvc.Delete(c.Request.Context(), adminID, companyID, id); err != nil {
		h.handleLocationError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *LocationHandler) handleLocationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLocationNotFound):
		response.NotFound(c, 16101, "工作地点不存在")
	case errors.Is(err, service.ErrIncompleteGeofence):
		response.BadRequest(c, 16102, "电子围栏参数不完整，经度、纬度与半径必须同时提供")
	case errors.Is(err, pkgerrors.ErrCrossCompany):
		response.Forbidden(c, 10003, "无权访问该资源")
	default:
		response.InternalError(c)
	}
}
