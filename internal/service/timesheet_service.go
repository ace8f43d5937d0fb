package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/alexpase322/jornixs-backend/internal/dto"
	"github.com/alexpase322/jornixs-backend/internal/model"
	"github.com/alexpase322/jornixs-backend/internal/repository"
	pkgerrors "github.com/alexpase322/jornixs-backend/pkg/errors"
	"github.com/alexpase322/jornixs-backend/pkg/mailer"
)

// ── 考勤表工作流业务错误 ──

var (
	ErrTimesheetNotFound     = errors.New("考勤表不存在")
	ErrWorkWeekNotFound      = errors.New("工作周不存在")
	ErrTimesheetNotOpen      = errors.New("考勤表非待填写状态，不可提交")
	ErrTimesheetNotSubmitted = errors.New("考勤表非待审批状态，不可执行此操作")
	ErrTimesheetNotRejected  = errors.New("考勤表非已驳回状态，不可重新打开")
	ErrRejectReasonRequired  = errors.New("驳回理由不能为空")
)

// TimesheetService 考勤表工作流接口
//
// 状态机：open → submitted → {approved, rejected}，rejected → open
// 所有状态转换走乐观锁更新，并发冲突返回 ErrOptimisticLock
type TimesheetService interface {
	// Submit 员工提交本周考勤（仅 open → submitted）
	Submit(ctx context.Context, userID string, req *dto.SubmitTimesheetRequest) (*dto.TimesheetResponse, error)
	// Approve 管理员审批通过（submitted → approved），通过后该周事件冻结
	Approve(ctx context.Context, adminID, companyID, timesheetID string) (*dto.TimesheetResponse, error)
	// Reject 管理员驳回（submitted → rejected），驳回理由必填
	Reject(ctx context.Context, adminID, companyID, timesheetID string, req *dto.RejectTimesheetRequest) (*dto.TimesheetResponse, error)
	// Reopen 员工重新打开被驳回的考勤表（rejected → open）
	Reopen(ctx context.Context, userID, timesheetID string) (*dto.TimesheetResponse, error)
	// GetMine 查询自己某日所在周的考勤表
	GetMine(ctx context.Context, userID, companyID string, date time.Time) (*dto.TimesheetResponse, error)
	// List 管理员按状态/员工筛选考勤表
	List(ctx context.Context, companyID string, req *dto.TimesheetListRequest) ([]dto.TimesheetResponse, error)
}

type timesheetService struct {
	repo   *repository.Repository
	tx     repository.TxRunner
	mail   mailer.Sender
	logger *zap.Logger
}

// NewTimesheetService 创建 TimesheetService 实例
func NewTimesheetService(repo *repository.Repository, tx repository.TxRunner, mail mailer.Sender, logger *zap.Logger) TimesheetService {
	return &timesheetService{repo: repo, tx: tx, mail: mail, logger: logger}
}

// ════════════════════════════════════════════════════════════
// Submit — 提交考勤表
// ════════════════════════════════════════════════════════════

func (s *timesheetService) Submit(ctx context.Context, userID string, req *dto.SubmitTimesheetRequest) (*dto.TimesheetResponse, error) {
	var result *model.WeeklyTimesheet
	err := s.tx.Transaction(ctx, func(r *repository.Repository) error {
		week, err := r.WorkWeek.GetByID(ctx, req.WorkWeekID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWorkWeekNotFound
			}
			return err
		}

		ts, err := r.Timesheet.FindOrCreate(ctx, userID, week.WorkWeekID)
		if err != nil {
			return err
		}
		// 只能从待填写状态提交；被驳回的表须先重新打开
		if ts.Status != model.TimesheetOpen {
			return ErrTimesheetNotOpen
		}

		now := time.Now()
		ts.Status = model.TimesheetSubmitted
		ts.SubmittedAt = &now
		if err := r.Timesheet.Update(ctx, ts); err != nil {
			return err
		}

		if err := writeAudit(ctx, r, model.AuditLog{
			UserID:       &userID,
			CompanyID:    week.CompanyID,
			Action:       model.AuditTimesheetSubmitted,
			TargetEntity: "weekly_timesheet",
			TargetID:     &ts.TimesheetID,
			Details:      fmt.Sprintf("提交 %s 起始周的考勤表", week.StartDate.Format("2006-01-02")),
		}); err != nil {
			return err
		}

		result = ts
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("考勤表已提交",
		zap.String("user_id", userID),
		zap.String("timesheet_id", result.TimesheetID))
	return s.toResponse(ctx, result), nil
}

// ════════════════════════════════════════════════════════════
// Approve / Reject — 管理员审批
// ════════════════════════════════════════════════════════════

func (s *timesheetService) Approve(ctx context.Context, adminID, companyID, timesheetID string) (*dto.TimesheetResponse, error) {
	var result *model.WeeklyTimesheet
	err := s.tx.Transaction(ctx, func(r *repository.Repository) error {
		ts, err := s.loadForReview(ctx, r, companyID, timesheetID)
		if err != nil {
			return err
		}
		if ts.Status != model.TimesheetSubmitted {
			return ErrTimesheetNotSubmitted
		}

		now := time.Now()
		ts.Status = model.TimesheetApproved
		ts.ApprovedAt = &now
		if err := r.Timesheet.Update(ctx, ts); err != nil {
			return err
		}

		if err := writeAudit(ctx, r, model.AuditLog{
			UserID:       &adminID,
			CompanyID:    companyID,
			Action:       model.AuditTimesheetApproved,
			TargetEntity: "weekly_timesheet",
			TargetID:     &ts.TimesheetID,
		}); err != nil {
			return err
		}

		result = ts
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyWorker(result, "考勤表已通过审批",
		"<p>你提交的周考勤表已通过审批，该周记录已冻结。</p>")
	return s.toResponse(ctx, result), nil
}

func (s *timesheetService) Reject(ctx context.Context, adminID, companyID, timesheetID string, req *dto.RejectTimesheetRequest) (*dto.TimesheetResponse, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, ErrRejectReasonRequired
	}

	var result *model.WeeklyTimesheet
	err := s.tx.Transaction(ctx, func(r *repository.Repository) error {
		ts, err := s.loadForReview(ctx, r, companyID, timesheetID)
		if err != nil {
			return err
		}
		if ts.Status != model.TimesheetSubmitted {
			return ErrTimesheetNotSubmitted
		}

		ts.Status = model.TimesheetRejected
		ts.RejectionReason = &reason
		if err := r.Timesheet.Update(ctx, ts); err != nil {
			return err
		}

		if err := writeAudit(ctx, r, model.AuditLog{
			UserID:       &adminID,
			CompanyID:    companyID,
			Action:       model.AuditTimesheetRejected,
			TargetEntity: "weekly_timesheet",
			TargetID:     &ts.TimesheetID,
			Details:      reason,
		}); err != nil {
			return err
		}

		result = ts
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyWorker(result, "考勤表被驳回",
		fmt.Sprintf("<p>你提交的周考勤表被驳回：%s</p><p>请修正后重新提交。</p>", reason))
	return s.toResponse(ctx, result), nil
}

// loadForReview 读取待审批的考勤表并做公司归属校验
func (s *timesheetService) loadForReview(ctx context.Context, r *repository.Repository, companyID, timesheetID string) (*model.WeeklyTimesheet, error) {
	ts, err := r.Timesheet.GetByID(ctx, timesheetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimesheetNotFound
		}
		return nil, err
	}
	if ts.User == nil || ts.User.CompanyID != companyID {
		return nil, pkgerrors.ErrCrossCompany
	}
	return ts, nil
}

// ════════════════════════════════════════════════════════════
// Reopen — 重新打开被驳回的考勤表
// ════════════════════════════════════════════════════════════

func (s *timesheetService) Reopen(ctx context.Context, userID, timesheetID string) (*dto.TimesheetResponse, error) {
	var result *model.WeeklyTimesheet
	err := s.tx.Transaction(ctx, func(r *repository.Repository) error {
		ts, err := r.Timesheet.GetByID(ctx, timesheetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTimesheetNotFound
			}
			return err
		}
		if ts.UserID != userID {
			return pkgerrors.ErrCrossCompany
		}
		if ts.Status != model.TimesheetRejected {
			return ErrTimesheetNotRejected
		}

		ts.Status = model.TimesheetOpen
		ts.RejectionReason = nil
		if err := r.Timesheet.Update(ctx, ts); err != nil {
			return err
		}

		companyID := ""
		if ts.User != nil {
			companyID = ts.User.CompanyID
		}
		if err := writeAudit(ctx, r, model.AuditLog{
			UserID:       &userID,
			CompanyID:    companyID,
			Action:       model.AuditTimesheetReopened,
			TargetEntity: "weekly_timesheet",
			TargetID:     &ts.TimesheetID,
		}); err != nil {
			return err
		}

		result = ts
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, result), nil
}

// ── 查询 ──

func (s *timesheetService) GetMine(ctx context.Context, userID, companyID string, date time.Time) (*dto.TimesheetResponse, error) {
	d := model.DateOnly(date)
	weeks, err := s.repo.WorkWeek.ListOverlapping(ctx, companyID, d, d)
	if err != nil {
		s.logger.Error("查询工作周失败", zap.Error(err))
		return nil, err
	}
	if len(weeks) == 0 {
		return nil, ErrTimesheetNotFound
	}

	ts, err := s.repo.Timesheet.GetByUserAndWeek(ctx, userID, weeks[0].WorkWeekID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimesheetNotFound
		}
		return nil, err
	}
	ts.WorkWeek = &weeks[0]
	return s.toResponse(ctx, ts), nil
}

func (s *timesheetService) List(ctx context.Context, companyID string, req *dto.TimesheetListRequest) ([]dto.TimesheetResponse, error) {
	sheets, err := s.repo.Timesheet.ListByCompany(ctx, companyID, req.Status, req.WorkerID)
	if err != nil {
		s.logger.Error("查询考勤表列表失败", zap.Error(err))
		return nil, err
	}

	resp := make([]dto.TimesheetResponse, 0, len(sheets))
	for i := range sheets {
		resp = append(resp, *s.toResponse(ctx, &sheets[i]))
	}
	return resp, nil
}

// ── 辅助 ──

// notifyWorker 审批结果邮件通知，发送失败只记日志不影响业务结果
func (s *timesheetService) notifyWorker(ts *model.WeeklyTimesheet, subject, body string) {
	if ts.User == nil || ts.User.Email == "" {
		return
	}
	email := ts.User.Email
	go func() {
		if err := s.mail.Send(email, subject, body); err != nil {
			s.logger.Warn("审批通知邮件发送失败",
				zap.String("to", email),
				zap.Error(err))
		}
	}()
}

func (s *timesheetService) toResponse(ctx context.Context, ts *model.WeeklyTimesheet) *dto.TimesheetResponse {
	resp := &dto.TimesheetResponse{
		ID:              ts.TimesheetID,
		UserID:          ts.UserID,
		WorkWeekID:      ts.WorkWeekID,
		Status:          ts.Status,
		RejectionReason: ts.RejectionReason,
		Version:         ts.Version,
	}
	if ts.User != nil {
		resp.WorkerName = ts.User.FullName
	}

	week := ts.WorkWeek
	if week == nil {
		if w, err := s.repo.WorkWeek.GetByID(ctx, ts.WorkWeekID); err == nil {
			week = w
		}
	}
	if week != nil {
		resp.WeekStart = week.StartDate.Format("2006-01-02")
		resp.WeekEnd = week.EndDate.Format("2006-01-02")
	}

	if ts.SubmittedAt != nil {
		v := ts.SubmittedAt.Format(time.RFC3339)
		resp.SubmittedAt = &v
	}
	if ts.ApprovedAt != nil {
		v := ts.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	return resp
}
