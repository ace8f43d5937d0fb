package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/alexpase322/jornixs-backend/internal/dto"
	"github.com/alexpase322/jornixs-backend/internal/model"
	"github.com/alexpase322/jornixs-backend/internal/repository"
	pkgerrors "github.com/alexpase322/jornixs-backend/pkg/errors"
)

// ── 员工管理模块业务错误 ──

var (
	ErrWorkerNotFound = errors.New("员工不存在")
	ErrEmailTaken     = errors.New("该邮箱已被注册")
)

// WorkerService 员工账号管理接口（仅管理员可用）
type WorkerService interface {
	Create(ctx context.Context, adminID, companyID string, req *dto.CreateWorkerRequest) (*dto.WorkerResponse, error)
	List(ctx context.Context, companyID string, activeOnly bool) ([]dto.WorkerResponse, error)
	Get(ctx context.Context, companyID, workerID string) (*dto.WorkerResponse, error)
	// Update 更新资料；location_id 变化时翻转旧分配并追加新分配记录
	Update(ctx context.Context, adminID, companyID, workerID string, req *dto.UpdateWorkerRequest) (*dto.WorkerResponse, error)
	// Deactivate 停用账号：保留历史数据，登录与打卡被拒绝
	Deactivate(ctx context.Context, adminID, companyID, workerID string) error
}

type workerService struct {
	repo   *repository.Repository
	tx     repository.TxRunner
	logger *zap.Logger
}

// NewWorkerService 创建 WorkerService 实例
func NewWorkerService(repo *repository.Repository, tx repository.TxRunner, logger *zap.Logger) WorkerService {
	return &workerService{repo: repo, tx: tx, logger: logger}
}

func (s *workerService) Create(ctx context.Context, adminID, companyID string, req *dto.CreateWorkerRequest) (*dto.WorkerResponse, error) {
	// 邮箱全局唯一
	if _, err := s.repo.User.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	worker := &model.User{
		CompanyID:     companyID,
		FullName:      req.FullName,
		Email:         req.Email,
		PasswordHash:  string(hash),
		Role:          model.RoleWorker,
		HourlyRate:    req.HourlyRate,
		AccountActive: true,
	}

	err = s.tx.Transaction(ctx, func(r *repository.Repository) error {
		if err := r.User.Create(ctx, worker); err != nil {
			return err
		}
		if req.LocationID != nil {
			if err := s.assignLocation(ctx, r, companyID, worker.UserID, *req.LocationID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("员工账号已创建",
		zap.String("worker_id", worker.UserID),
		zap.String("email", worker.Email))
	return s.toResponse(ctx, worker), nil
}

func (s *workerService) List(ctx context.Context, companyID string, activeOnly bool) ([]dto.WorkerResponse, error) {
	workers, err := s.repo.User.ListWorkersByCompany(ctx, companyID, activeOnly)
	if err != nil {
		s.logger.Error("查询员工列表失败", zap.Error(err))
		return nil, err
	}

	resp := make([]dto.WorkerResponse, 0, len(workers))
	for i := range workers {
		resp = append(resp, *s.toResponse(ctx, &workers[i]))
	}
	return resp, nil
}

func (s *workerService) Get(ctx context.Context, companyID, workerID string) (*dto.WorkerResponse, error) {
	worker, err := s.loadWorker(ctx, companyID, workerID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, worker), nil
}

func (s *workerService) Update(ctx context.Context, adminID, companyID, workerID string, req *dto.UpdateWorkerRequest) (*dto.WorkerResponse, error) {
	worker, err := s.loadWorker(ctx, companyID, workerID)
	if err != nil {
		return nil, err
	}

	var changes []string
	if req.FullName != nil {
		worker.FullName = *req.FullName
		changes = append(changes, "full_name")
	}
	if req.HourlyRate != nil {
		worker.HourlyRate = *req.HourlyRate
		changes = append(changes, "hourly_rate")
	}

	err = s.tx.Transaction(ctx, func(r *repository.Repository) error {
		if len(changes) > 0 {
			if err := r.User.Update(ctx, worker); err != nil {
				return err
			}
		}
		if req.LocationID != nil {
			if err := s.assignLocation(ctx, r, companyID, worker.UserID, *req.LocationID); err != nil {
				return err
			}
			changes = append(changes, "work_location")
		}
		if len(changes) == 0 {
			return nil
		}
		return writeAudit(ctx, r, model.AuditLog{
			UserID:       &adminID,
			CompanyID:    companyID,
			Action:       model.AuditWorkerUpdated,
			TargetEntity: "user",
			TargetID:     &worker.UserID,
			Details:      fmt.Sprintf("更新字段: %v", changes),
		})
	})
	if err != nil {
		return nil, err
	}

	return s.toResponse(ctx, worker), nil
}

func (s *workerService) Deactivate(ctx context.Context, adminID, companyID, workerID string) error {
	worker, err := s.loadWorker(ctx, companyID, workerID)
	if err != nil {
		return err
	}
	if !worker.AccountActive {
		return nil // 幂等
	}

	worker.AccountActive = false
	return s.tx.Transaction(ctx, func(r *repository.Repository) error {
		if err := r.User.Update(ctx, worker); err != nil {
			return err
		}
		return writeAudit(ctx, r, model.AuditLog{
			UserID:       &adminID,
			CompanyID:    companyID,
			Action:       model.AuditWorkerDeactivated,
			TargetEntity: "user",
			TargetID:     &worker.UserID,
		})
	})
}

// ── 辅助 ──

// loadWorker 读取员工并校验公司归属
func (s *workerService) loadWorker(ctx context.Context, companyID, workerID string) (*model.User, error) {
	worker, err := s.repo.User.GetByID(ctx, workerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, err
	}
	if worker.CompanyID != companyID {
		return nil, pkgerrors.ErrCrossCompany
	}
	return worker, nil
}

// assignLocation 切换工作地点：旧分配翻转 is_current 后追加新记录
func (s *workerService) assignLocation(ctx context.Context, r *repository.Repository, companyID, workerID, locationID string) error {
	loc, err := r.WorkLocation.GetByID(ctx, locationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLocationNotFound
		}
		return err
	}
	if loc.CompanyID != companyID {
		return pkgerrors.ErrCrossCompany
	}

	if err := r.Assignment.ClearCurrent(ctx, workerID); err != nil {
		return err
	}
	return r.Assignment.Create(ctx, &model.UserLocationAssignment{
		UserID:         workerID,
		WorkLocationID: locationID,
		IsCurrent:      true,
	})
}

func (s *workerService) toResponse(ctx context.Context, worker *model.User) *dto.WorkerResponse {
	resp := &dto.WorkerResponse{
		ID:         worker.UserID,
		FullName:   worker.FullName,
		Email:      worker.Email,
		Role:       worker.Role,
		HourlyRate: worker.HourlyRate,
		Active:     worker.AccountActive,
	}

	if assignment, err := s.repo.Assignment.GetCurrentByUser(ctx, worker.UserID); err == nil && assignment.WorkLocation != nil {
		resp.WorkLocation = toLocationResponse(assignment.WorkLocation)
	}
	return resp
}
