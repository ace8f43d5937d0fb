package dto

// ── 周考勤表模块 DTO ──

// SubmitTimesheetRequest 员工提交周考勤表请求
type SubmitTimesheetRequest struct {
	WorkWeekID string `json:"work_week_id" binding:"required,uuid"`
}

// RejectTimesheetRequest 管理员驳回请求（驳回理由必填）
type RejectTimesheetRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// TimesheetListRequest 管理员考勤表列表筛选
type TimesheetListRequest struct {
	Status   string `form:"status"    binding:"omitempty,oneof=open submitted approved rejected"`
	WorkerID string `form:"worker_id" binding:"omitempty,uuid"`
}

// TimesheetResponse 周考勤表响应
type TimesheetResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	WorkerName      string  `json:"worker_name,omitempty"`
	WorkWeekID      string  `json:"work_week_id"`
	WeekStart       string  `json:"week_start"`
	WeekEnd         string  `json:"week_end"`
	Status          string  `json:"status"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	SubmittedAt     *string `json:"submitted_at,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	Version         int     `json:"version"`
}
