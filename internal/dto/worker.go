package dto

import "github.com/shopspring/decimal"

// ── 员工管理模块 DTO ──

// CreateWorkerRequest 管理员创建员工账号请求
type CreateWorkerRequest struct {
	FullName   string          `json:"full_name"   binding:"required,max=100"`
	Email      string          `json:"email"       binding:"required,email"`
	Password   string          `json:"password"    binding:"required,min=8,max=72"`
	HourlyRate decimal.Decimal `json:"hourly_rate" binding:"required"`
	LocationID *string         `json:"location_id" binding:"omitempty,uuid"`
}

// UpdateWorkerRequest 管理员更新员工资料请求，空指针字段不更新
type UpdateWorkerRequest struct {
	FullName   *string          `json:"full_name"   binding:"omitempty,max=100"`
	HourlyRate *decimal.Decimal `json:"hourly_rate"`
	LocationID *string          `json:"location_id" binding:"omitempty,uuid"`
}

// WorkerListRequest 员工列表筛选
type WorkerListRequest struct {
	ActiveOnly bool `form:"active_only"`
}

// WorkerResponse 员工响应
type WorkerResponse struct {
	ID           string                `json:"id"`
	FullName     string                `json:"full_name"`
	Email        string                `json:"email"`
	Role         string                `json:"role"`
	HourlyRate   decimal.Decimal       `json:"hourly_rate"`
	Active       bool                  `json:"active"`
	WorkLocation *WorkLocationResponse `json:"work_location,omitempty"`
}
