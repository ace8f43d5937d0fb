package dto

// ── 工作地点模块 DTO ──

// CreateWorkLocationRequest 创建工作地点请求
// 三个围栏字段要么全为空（不启用围栏），要么全部给出
type CreateWorkLocationRequest struct {
	Name            string   `json:"name"              binding:"required,max=100"`
	Address         string   `json:"address"           binding:"max=255"`
	Latitude        *float64 `json:"latitude"          binding:"omitempty,min=-90,max=90"`
	Longitude       *float64 `json:"longitude"         binding:"omitempty,min=-180,max=180"`
	GeofenceRadiusM *float64 `json:"geofence_radius_m" binding:"omitempty,gt=0"`
}

// UpdateWorkLocationRequest 更新工作地点请求
type UpdateWorkLocationRequest struct {
	Name            *string  `json:"name"              binding:"omitempty,max=100"`
	Address         *string  `json:"address"           binding:"omitempty,max=255"`
	Latitude        *float64 `json:"latitude"          binding:"omitempty,min=-90,max=90"`
	Longitude       *float64 `json:"longitude"         binding:"omitempty,min=-180,max=180"`
	GeofenceRadiusM *float64 `json:"geofence_radius_m" binding:"omitempty,gt=0"`
}

// WorkLocationResponse 工作地点响应
type WorkLocationResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Address         string   `json:"address"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	GeofenceRadiusM *float64 `json:"geofence_radius_m,omitempty"`
}
