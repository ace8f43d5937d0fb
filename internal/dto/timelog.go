package dto

import "time"

// ── 考勤事件模块 DTO ──

// ClockInRequest 上班打卡请求（唯一携带坐标的事件：围栏只在上班打卡时校验）
type ClockInRequest struct {
	Latitude  *float64 `json:"latitude"  binding:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"required,min=-180,max=180"`
}

// SimpleEventRequest 午休开始/结束、下班打卡请求
type SimpleEventRequest struct {
	EventType string `json:"event_type" binding:"required,oneof=lunch_start lunch_end clock_out"`
}

// CorrectionRequest 员工自助修正请求
// time_log_id 为空时创建新事件，否则编辑已有事件
type CorrectionRequest struct {
	EventType string    `json:"event_type"  binding:"required,oneof=clock_in lunch_start lunch_end clock_out"`
	Timestamp time.Time `json:"timestamp"   binding:"required"`
	TimeLogID *string   `json:"time_log_id" binding:"omitempty,uuid"`
}

// ManualCorrectionRequest 管理员人工修正请求
type ManualCorrectionRequest struct {
	WorkerID  string    `json:"worker_id"   binding:"required,uuid"`
	EventType string    `json:"event_type"  binding:"required,oneof=clock_in lunch_start lunch_end clock_out"`
	Timestamp time.Time `json:"timestamp"   binding:"required"`
	TimeLogID *string   `json:"time_log_id" binding:"omitempty,uuid"`
}

// LogRangeRequest 按日期范围查询考勤事件
type LogRangeRequest struct {
	StartDate string `form:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `form:"end_date"   binding:"required,datetime=2006-01-02"`
}

// TimeLogResponse 考勤事件响应
type TimeLogResponse struct {
	ID         string `json:"id"`
	EventType  string `json:"event_type"`
	OccurredAt string `json:"occurred_at"`
	WorkWeekID string `json:"work_week_id"`
}
