package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/alexpase322/jornixs-backend/internal/model"
)

// WorkLocationRepository 工作地点数据访问接口
type WorkLocationRepository interface {
	Create(ctx context.Context, loc *model.WorkLocation) error
	GetByID(ctx context.Context, id string) (*model.WorkLocation, error)
	ListByCompany(ctx context.Context, companyID string) ([]model.WorkLocation, error)
	Update(ctx context.Context, loc *model.WorkLocation) error
	Delete(ctx context.Context, id string) error
}

type workLocationRepo struct {
	db *gorm.DB
}

// NewWorkLocationRepo 创建 WorkLocationRepository 实例
func NewWorkLocationRepo(db *gorm.DB) WorkLocationRepository {
	return &workLocationRepo{db: db}
}

func (r *workLocationRepo) Create(ctx context.Context, loc *model.WorkLocation) error {
	return r.db.WithContext(ctx).Create(loc).Error
}

func (r *workLocationRepo) GetByID(ctx context.Context, id string) (*model.WorkLocation, error) {
	var loc model.WorkLocation
	err := r.db.WithContext(ctx).
		Where("work_location_id = ?", id).
		First(&loc).Error
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *workLocationRepo) ListByCompany(ctx context.Context, companyID string) ([]model.WorkLocation, error) {
	var locs []model.WorkLocation
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&locs).Error
	if err != nil {
		return nil, err
	}
	return locs, nil
}

func (r *workLocationRepo) Update(ctx context.Context, loc *model.WorkLocation) error {
	return r.db.WithContext(ctx).Save(loc).Error
}

func (r *workLocationRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("work_location_id = ?", id).
		Delete(&model.WorkLocation{}).Error
}
