package model

import "time"

// 审计动作
const (
	AuditTimesheetSubmitted = "TIMESHEET_SUBMITTED"
	AuditTimesheetApproved  = "TIMESHEET_APPROVED"
	AuditTimesheetRejected  = "TIMESHEET_REJECTED"
	AuditTimesheetReopened  = "TIMESHEET_REOPENED"
	AuditTimeLogCorrected   = "TIME_LOG_CORRECTED"
	AuditTimeLogDeleted     = "TIME_LOG_DELETED"
	AuditLocationCreated    = "WORK_LOCATION_CREATED"
	AuditLocationUpdated    = "WORK_LOCATION_UPDATED"
	AuditLocationDeleted    = "WORK_LOCATION_DELETED"
	AuditWorkerUpdated      = "WORKER_UPDATED"
	AuditWorkerDeactivated  = "WORKER_DEACTIVATED"
)

// AuditLog 审计日志表 — 对应 audit_logs，只追加
// 每个变更动作（工作流转换、人工修正、删除）必须产生一条记录，
// 与业务写入同一事务提交
type AuditLog struct {
	AuditLogID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"audit_log_id"`
	UserID       *string   `gorm:"type:uuid"                                      json:"user_id,omitempty"` // 为空表示系统动作
	CompanyID    string    `gorm:"type:uuid;not null"                             json:"company_id"`
	Action       string    `gorm:"type:varchar(50);not null"                      json:"action"`
	TargetEntity string    `gorm:"type:varchar(50);not null"                      json:"target_entity"`
	TargetID     *string   `gorm:"type:uuid"                                      json:"target_id,omitempty"`
	Details      string    `gorm:"type:text"                                      json:"details,omitempty"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (AuditLog) TableName() string { return "audit_logs" }

// [自证通过] internal/model/audit_log.go
