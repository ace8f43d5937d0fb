package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/alexpase322/jornixs-backend/internal/model"
)

// AuditLogRepository 审计日志数据访问接口（只追加）
type AuditLogRepository interface {
	Create(ctx context.Context, log *model.AuditLog) error
	ListByCompany(ctx context.Context, companyID string, offset, limit int) ([]model.AuditLog, int64, error)
}

type auditLogRepo struct {
	db *gorm.DB
}

// NewAuditLogRepo 创建 AuditLogRepository 实例
func NewAuditLogRepo(db *gorm.DB) AuditLogRepository {
	return &auditLogRepo{db: db}
}

func (r *auditLogRepo) Create(ctx context.Context, log *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *auditLogRepo) ListByCompany(ctx context.Context, companyID string, offset, limit int) ([]model.AuditLog, int64, error) {
	var logs []model.AuditLog
	var total int64

	db := r.db.WithContext(ctx).Model(&model.AuditLog{}).
		Where("company_id = ?", companyID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
