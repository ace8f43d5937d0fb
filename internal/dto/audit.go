package dto

// ── 审计日志模块 DTO ──

// AuditListRequest 审计日志分页查询
type AuditListRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// AuditEntryResponse 审计日志响应
type AuditEntryResponse struct {
	ID           string  `json:"id"`
	UserID       *string `json:"user_id,omitempty"`
	Action       string  `json:"action"`
	TargetEntity string  `json:"target_entity"`
	TargetID     *string `json:"target_id,omitempty"`
	Details      string  `json:"details,omitempty"`
	CreatedAt    string  `json:"created_at"`
}
