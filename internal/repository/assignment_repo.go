package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/alexpase322/jornixs-backend/internal/model"
)

// AssignmentRepository 用户-工作地点分配数据访问接口
// 历史表只追加：换地点 = ClearCurrent + Create
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *model.UserLocationAssignment) error
	GetCurrentByUser(ctx context.Context, userID string) (*model.UserLocationAssignment, error)
	ClearCurrent(ctx context.Context, userID string) error
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, assignment *model.UserLocationAssignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepo) GetCurrentByUser(ctx context.Context, userID string) (*model.UserLocationAssignment, error) {
	var assignment model.UserLocationAssignment
	err := r.db.WithContext(ctx).
		Preload("WorkLocation").
		Where("user_id = ? AND is_current = ?", userID, true).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) ClearCurrent(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Model(&model.UserLocationAssignment{}).
		Where("user_id = ? AND is_current = ?", userID, true).
		Update("is_current", false).Error
}
