package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/alexpase322/jornixs-backend/internal/model"
)

// WorkWeekRepository 工作周数据访问接口
type WorkWeekRepository interface {
	GetByID(ctx context.Context, id string) (*model.WorkWeek, error)
	// FindOrCreate 幂等的查找或创建：依赖 (company_id, start_date) 唯一约束，
	// 并发插入冲突时重新查找而不是报错
	FindOrCreate(ctx context.Context, companyID string, start, end time.Time) (*model.WorkWeek, error)
	// ListOverlapping 列出与 [rangeStart, rangeEnd] 有交集的工作周
	// 判定条件：week.start ≤ rangeEnd AND week.end ≥ rangeStart
	ListOverlapping(ctx context.Context, companyID string, rangeStart, rangeEnd time.Time) ([]model.WorkWeek, error)
}

type workWeekRepo struct {
	db *gorm.DB
}

// NewWorkWeekRepo 创建 WorkWeekRepository 实例
func NewWorkWeekRepo(db *gorm.DB) WorkWeekRepository {
	return &workWeekRepo{db: db}
}

func (r *workWeekRepo) GetByID(ctx context.Context, id string) (*model.WorkWeek, error) {
	var week model.WorkWeek
	err := r.db.WithContext(ctx).
		Where("work_week_id = ?", id).
		First(&week).Error
	if err != nil {
		return nil, err
	}
	return &week, nil
}

func (r *workWeekRepo) FindOrCreate(ctx context.Context, companyID string, start, end time.Time) (*model.WorkWeek, error) {
	var week model.WorkWeek
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND start_date = ?", companyID, start).
		First(&week).Error
	if err == nil {
		return &week, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	week = model.WorkWeek{
		CompanyID: companyID,
		StartDate: start,
		EndDate:   end,
	}
	if createErr := r.db.WithContext(ctx).Create(&week).Error; createErr != nil {
		// 并发创建被唯一约束拦下：改为读取已存在的记录
		var existing model.WorkWeek
		if findErr := r.db.WithContext(ctx).
			Where("company_id = ? AND start_date = ?", companyID, start).
			First(&existing).Error; findErr == nil {
			return &existing, nil
		}
		return nil, createErr
	}
	return &week, nil
}

func (r *workWeekRepo) ListOverlapping(ctx context.Context, companyID string, rangeStart, rangeEnd time.Time) ([]model.WorkWeek, error) {
	var weeks []model.WorkWeek
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND start_date <= ? AND end_date >= ?", companyID, rangeEnd, rangeStart).
		Order("start_date ASC").
		Find(&weeks).Error
	if err != nil {
		return nil, err
	}
	return weeks, nil
}
