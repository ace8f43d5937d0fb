package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/alexpase322/jornixs-backend/internal/model"
	pkgerrors "github.com/alexpase322/jornixs-backend/pkg/errors"
)

// TimesheetRepository 周报工时单数据访问接口
type TimesheetRepository interface {
	GetByID(ctx context.Context, id string) (*model.WeeklyTimesheet, error)
	GetByUserAndWeek(ctx context.Context, userID, workWeekID string) (*model.WeeklyTimesheet, error)
	// FindOrCreate 幂等的查找或创建：依赖 (user_id, work_week_id) 唯一约束
	FindOrCreate(ctx context.Context, userID, workWeekID string) (*model.WeeklyTimesheet, error)
	// Update 乐观锁更新：version 不匹配时返回 pkgerrors.ErrOptimisticLock，
	// 以此串行化并发的 submit/approve/reject
	Update(ctx context.Context, ts *model.WeeklyTimesheet) error
	ListByCompany(ctx context.Context, companyID, status, userID string) ([]model.WeeklyTimesheet, error)
}

type timesheetRepo struct {
	db *gorm.DB
}

// NewTimesheetRepo 创建 TimesheetRepository 实例
func NewTimesheetRepo(db *gorm.DB) TimesheetRepository {
	return &timesheetRepo{db: db}
}

func (r *timesheetRepo) GetByID(ctx context.Context, id string) (*model.WeeklyTimesheet, error) {
	var ts model.WeeklyTimesheet
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("WorkWeek").
		Where("timesheet_id = ?", id).
		First(&ts).Error
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

func (r *timesheetRepo) GetByUserAndWeek(ctx context.Context, userID, workWeekID string) (*model.WeeklyTimesheet, error) {
	var ts model.WeeklyTimesheet
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND work_week_id = ?", userID, workWeekID).
		First(&ts).Error
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

func (r *timesheetRepo) FindOrCreate(ctx context.Context, userID, workWeekID string) (*model.WeeklyTimesheet, error) {
	ts, err := r.GetByUserAndWeek(ctx, userID, workWeekID)
	if err == nil {
		return ts, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := model.WeeklyTimesheet{
		UserID:     userID,
		WorkWeekID: workWeekID,
		Status:     model.TimesheetOpen,
	}
	fresh.Version = 1
	if createErr := r.db.WithContext(ctx).Create(&fresh).Error; createErr != nil {
		// 并发创建被唯一约束拦下：改为读取已存在的记录
		if existing, findErr := r.GetByUserAndWeek(ctx, userID, workWeekID); findErr == nil {
			return existing, nil
		}
		return nil, createErr
	}
	return &fresh, nil
}

func (r *timesheetRepo) Update(ctx context.Context, ts *model.WeeklyTimesheet) error {
	oldVersion := ts.Version
	result := r.db.WithContext(ctx).
		Model(ts).
		Where("timesheet_id = ? AND version = ?", ts.TimesheetID, oldVersion).
		Updates(map[string]interface{}{
			"status":           ts.Status,
			"rejection_reason": ts.RejectionReason,
			"submitted_at":     ts.SubmittedAt,
			"approved_at":      ts.ApprovedAt,
			"version":          oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	ts.Version = oldVersion + 1
	return nil
}

func (r *timesheetRepo) ListByCompany(ctx context.Context, companyID, status, userID string) ([]model.WeeklyTimesheet, error) {
	var sheets []model.WeeklyTimesheet
	db := r.db.WithContext(ctx).
		Preload("User").
		Preload("WorkWeek").
		Joins("JOIN users ON users.user_id = weekly_timesheets.user_id").
		Where("users.company_id = ?", companyID)
	if status != "" {
		db = db.Where("weekly_timesheets.status = ?", status)
	}
	if userID != "" {
		db = db.Where("weekly_timesheets.user_id = ?", userID)
	}
	err := db.Order("weekly_timesheets.created_at DESC").Find(&sheets).Error
	if err != nil {
		return nil, err
	}
	return sheets, nil
}
