package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/alexpase322/jornixs-backend/internal/dto"
	"github.com/alexpase322/jornixs-backend/internal/model"
	"github.com/alexpase322/jornixs-backend/internal/repository"
)

// ── 审计模块 ──

// writeAudit 在当前事务内落一条审计记录
// 审计与业务写入同事务提交：审计失败则整个操作回滚
func writeAudit(ctx context.Context, r *repository.Repository, entry model.AuditLog) error {
	return r.AuditLog.Create(ctx, &entry)
}

// AuditService 审计日志查询接口
type AuditService interface {
	List(ctx context.Context, companyID string, page, pageSize int) ([]dto.AuditEntryResponse, int64, error)
}

type auditService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAuditService 创建 AuditService 实例
func NewAuditService(repo *repository.Repository, logger *zap.Logger) AuditService {
	return &auditService{repo: repo, logger: logger}
}

func (s *auditService) List(ctx context.Context, companyID string, page, pageSize int) ([]dto.AuditEntryResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	logs, total, err := s.repo.AuditLog.ListByCompany(ctx, companyID, (page-1)*pageSize, pageSize)
	if err != nil {
		s.logger.Error("查询审计日志失败", zap.Error(err))
		return nil, 0, err
	}

	resp := make([]dto.AuditEntryResponse, 0, len(logs))
	for i := range logs {
		l := &logs[i]
		resp = append(resp, dto.AuditEntryResponse{
			ID:           l.AuditLogID,
			UserID:       l.UserID,
			Action:       l.Action,
			TargetEntity: l.TargetEntity,
			TargetID:     l.TargetID,
			Details:      l.Details,
			CreatedAt:    l.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp, total, nil
}
