package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/alexpase322/jornixs-backend/internal/dto"
	"github.com/alexpase322/jornixs-backend/internal/model"
	"github.com/alexpase322/jornixs-backend/internal/repository"
	pkgerrors "github.com/alexpase322/jornixs-backend/pkg/errors"
	"github.com/alexpase322/jornixs-backend/pkg/geo"
)

// ── 考勤事件模块业务错误 ──

var (
	ErrInvalidSequence      = errors.New("事件顺序不合法")
	ErrAlreadyClockedIn     = errors.New("今日已打过上班卡")
	ErrOutsideGeofence      = errors.New("不在工作地点围栏范围内，打卡失败")
	ErrNoAssignment         = errors.New("未分配工作地点，无法打卡")
	ErrWeekLocked           = errors.New("该周考勤已审批通过，不可修改")
	ErrTimesheetNotEditable = errors.New("该周考勤表已提交待审批，不可修改")
	ErrTimeLogNotFound      = errors.New("考勤事件不存在")
)

// TimeLogService 考勤事件业务接口
type TimeLogService interface {
	// ClockIn 上班打卡：唯一做围栏校验的事件
	ClockIn(ctx context.Context, userID, companyID string, req *dto.ClockInRequest) (*dto.TimeLogResponse, error)
	// RecordEvent 记录午休开始/结束、下班打卡
	RecordEvent(ctx context.Context, userID, companyID string, req *dto.SimpleEventRequest) (*dto.TimeLogResponse, error)
	// Correct 员工自助修正：补录或编辑自己的事件
	Correct(ctx context.Context, userID, companyID string, req *dto.CorrectionRequest) (*dto.TimeLogResponse, error)
	// AdminCorrect 管理员人工修正：可操作 submitted 状态的周
	AdminCorrect(ctx context.Context, adminID, companyID string, req *dto.ManualCorrectionRequest) (*dto.TimeLogResponse, error)
	// AdminDeleteLog 管理员删除事件
	AdminDeleteLog(ctx context.Context, adminID, companyID, timeLogID string) error
	// ListLogs 按日期范围查询某用户的事件（升序）
	ListLogs(ctx context.Context, userID string, start, end time.Time) ([]dto.TimeLogResponse, error)
}

type timeLogService struct {
	repo   *repository.Repository
	tx     repository.TxRunner
	logger *zap.Logger
}

// NewTimeLogService 创建 TimeLogService 实例
func NewTimeLogService(repo *repository.Repository, tx repository.TxRunner, logger *zap.Logger) TimeLogService {
	return &timeLogService{repo: repo, tx: tx, logger: logger}
}

// ── 事件顺序校验 ──

// 每种事件允许的后继事件。顺序链不按自然日截断：
// 前一天未打下班卡时，新的一天也不能重新打上班卡
var allowedNext = map[string]map[string]bool{
	model.EventClockIn:    {model.EventLunchStart: true, model.EventClockOut: true},
	model.EventLunchStart: {model.EventLunchEnd: true},
	model.EventLunchEnd:   {model.EventLunchStart: true, model.EventClockOut: true},
	model.EventClockOut:   {model.EventClockIn: true},
}

// validateNextEvent 校验新事件能否跟在用户最近一条事件之后
// last 为 nil 表示从未打过卡：只允许上班打卡
func validateNextEvent(last *model.TimeLog, eventType string) error {
	if last == nil {
		if eventType == model.EventClockIn {
			return nil
		}
		return ErrInvalidSequence
	}
	if !allowedNext[last.EventType][eventType] {
		return ErrInvalidSequence
	}
	return nil
}

// sameDay 两个时刻是否落在同一自然日
func sameDay(a, b time.Time) bool {
	return model.DateOnly(a).Equal(model.DateOnly(b))
}

// dayBounds 自然日的起止时刻（含两端）
func dayBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return start, start.Add(24*time.Hour - time.Nanosecond)
}

// timesheetLockedErr 把不可修改的考勤表状态映射为业务错误
func timesheetLockedErr(status string) error {
	if status == model.TimesheetApproved {
		return ErrWeekLocked
	}
	return ErrTimesheetNotEditable
}

// ════════════════════════════════════════════════════════════
// ClockIn — 上班打卡（围栏校验 + 每日一次 + 惰性建周）
// ════════════════════════════════════════════════════════════

func (s *timeLogService) ClockIn(ctx context.Context, userID, companyID string, req *dto.ClockInRequest) (*dto.TimeLogResponse, error) {
	// 1. 围栏校验：无分配拒绝，地点未配置坐标放行
	if err := s.checkGeofence(ctx, userID, *req.Latitude, *req.Longitude); err != nil {
		return nil, err
	}

	// 2. 事务内：行锁串行化同一用户的并发打卡，再做顺序与每日上限校验
	now := time.Now()
	var created *model.TimeLog
	err := s.tx.Transaction(ctx, func(r *repository.Repository) error {
		// 每日一次上限独立于顺序校验，先查（数据库部分唯一索引兜底）
		dayStart, dayEnd := dayBounds(now)
		exists, err := r.TimeLog.HasClockInBetween(ctx, userID, dayStart, dayEnd)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyClockedIn
		}

		last, err := r.TimeLog.GetLastByUser(ctx, userID, true)
		if err != nil {
			s.logger.Error("查询最近事件失败", zap.Error(err))
			return err
		}
		if err := validateNextEvent(last, model.EventClockIn); err != nil {
			return err
		}

		log, err := s.appendEvent(ctx, r, userID, companyID, model.RoleWorker, model.EventClockIn, now)
		if err != nil {
			return err
		}
		created = log
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("上班打卡成功",
		zap.String("user_id", userID),
		zap.Time("occurred_at", now))
	return toTimeLogResponse(created), nil
}

// ════════════════════════════════════════════════════════════
// RecordEvent — 午休开始/结束、下班打卡
// ════════════════════════════════════════════════════════════

func (s *timeLogService) RecordEvent(ctx context.Context, userID, companyID string, req *dto.SimpleEventRequest) (*dto.TimeLogResponse, error) {
	now := time.Now()
	var created *model.TimeLog
	err := s.tx.Transaction(ctx, func(r *repository.Repository) error {
		last, err := r.TimeLog.GetLastByUser(ctx, userID, true)
		if err != nil {
			s.logger.Error("查询最近事件失败", zap.Error(err))
			return err
		}
		if err := validateNextEvent(last, req.EventType); err != nil {
			return err
		}

		log, err := s.appendEvent(ctx, r, userID, companyID, model.RoleWorker, req.EventType, now)
		if err != nil {
			return err
		}
		created = log
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toTimeLogResponse(created), nil
}

// appendEvent 在事务内落一条事件：惰性创建工作周与考勤表，校验可修改性
func (s *timeLogService) appendEvent(ctx context.Context, r *repository.Repository, userID, companyID, actorRole, eventType string, occurredAt time.Time) (*model.TimeLog, error) {
	weekStart, weekEnd := model.WeekBoundsFor(occurredAt)
	week, err := r.WorkWeek.FindOrCreate(ctx, companyID, weekStart, weekEnd)
	if err != nil {
		s.logger.Error("查找或创建工作周失败", zap.Error(err))
		return nil, err
	}

	ts, err := r.Timesheet.FindOrCreate(ctx, userID, week.WorkWeekID)
	if err != nil {
		s.logger.Error("查找或创建考勤表失败", zap.Error(err))
		return nil, err
	}
	if !ts.CanModifyEvents(actorRole) {
		return nil, timesheetLockedErr(ts.Status)
	}

	log := &model.TimeLog{
		UserID:     userID,
		WorkWeekID: week.WorkWeekID,
		EventType:  eventType,
		OccurredAt: occurredAt,
	}
	if err := r.TimeLog.Create(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

// ════════════════════════════════════════════════════════════
// Correct / AdminCorrect — 补录与编辑
// ════════════════════════════════════════════════════════════
//
// 修正走人工通道，不重放顺序校验：补录历史事件时当日完整序列
// 由修正者自行负责，每日一次上班卡仍由唯一索引兜底。

func (s *timeLogService) Correct(ctx context.Context, userID, companyID string, req *dto.CorrectionRequest) (*dto.TimeLogResponse, error) {
	return s.applyCorrection(ctx, userID, userID, companyID, model.RoleWorker, req.EventType, req.Timestamp, req.TimeLogID)
}

func (s *timeLogService) AdminCorrect(ctx context.Context, adminID, companyID string, req *dto.ManualCorrectionRequest) (*dto.TimeLogResponse, error) {
	// 目标员工必须属于同一公司
	worker, err := s.repo.User.GetByID(ctx, req.WorkerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrCrossCompany
		}
		return nil, err
	}
	if worker.CompanyID != companyID {
		return nil, pkgerrors.ErrCrossCompany
	}
	return s.applyCorrection(ctx, adminID, req.WorkerID, companyID, model.RoleAdmin, req.EventType, req.Timestamp, req.TimeLogID)
}

func (s *timeLogService) applyCorrection(ctx context.Context, actorID, targetUserID, companyID, actorRole, eventType string, timestamp time.Time, timeLogID *string) (*dto.TimeLogResponse, error) {
	var result *model.TimeLog
	err := s.tx.Transaction(ctx, func(r *repository.Repository) error {
		// 上班卡补录仍受每日一次上限约束
		if eventType == model.EventClockIn {
			dayStart, dayEnd := dayBounds(timestamp)
			exists, err := r.TimeLog.HasClockInBetween(ctx, targetUserID, dayStart, dayEnd)
			if err != nil {
				return err
			}
			// 编辑已有上班卡且停留在同一天时不算重复
			editingSameClockIn := false
			if exists && timeLogID != nil {
				old, err := r.TimeLog.GetByID(ctx, *timeLogID)
				if err == nil && old.EventType == model.EventClockIn && sameDay(old.OccurredAt, timestamp) {
					editingSameClockIn = true
				}
			}
			if exists && !editingSameClockIn {
				return ErrAlreadyClockedIn
			}
		}

		if timeLogID == nil {
			log, err := s.appendEvent(ctx, r, targetUserID, companyID, actorRole, eventType, timestamp)
			if err != nil {
				return err
			}
			result = log
		} else {
			log, err := s.editEvent(ctx, r, targetUserID, companyID, actorRole, *timeLogID, eventType, timestamp)
			if err != nil {
				return err
			}
			result = log
		}

		return writeAudit(ctx, r, model.AuditLog{
			UserID:       &actorID,
			CompanyID:    companyID,
			Action:       model.AuditTimeLogCorrected,
			TargetEntity: "time_log",
			TargetID:     &result.TimeLogID,
			Details:      fmt.Sprintf("事件修正为 %s @ %s", eventType, timestamp.Format(time.RFC3339)),
		})
	})
	if err != nil {
		return nil, err
	}
	return toTimeLogResponse(result), nil
}

// editEvent 在事务内编辑已有事件：原周与目标周都必须可修改
func (s *timeLogService) editEvent(ctx context.Context, r *repository.Repository, targetUserID, companyID, actorRole, timeLogID, eventType string, timestamp time.Time) (*model.TimeLog, error) {
	log, err := r.TimeLog.GetByID(ctx, timeLogID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimeLogNotFound
		}
		return nil, err
	}
	if log.UserID != targetUserID {
		return nil, pkgerrors.ErrCrossCompany
	}

	// 原所属周可修改性
	oldTs, err := r.Timesheet.GetByUserAndWeek(ctx, log.UserID, log.WorkWeekID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if oldTs != nil && !oldTs.CanModifyEvents(actorRole) {
		return nil, timesheetLockedErr(oldTs.Status)
	}

	// 时间戳可能移入另一周：目标周同样要可修改
	weekStart, weekEnd := model.WeekBoundsFor(timestamp)
	week, err := r.WorkWeek.FindOrCreate(ctx, companyID, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	if week.WorkWeekID != log.WorkWeekID {
		newTs, err := r.Timesheet.FindOrCreate(ctx, log.UserID, week.WorkWeekID)
		if err != nil {
			return nil, err
		}
		if !newTs.CanModifyEvents(actorRole) {
			return nil, timesheetLockedErr(newTs.Status)
		}
	}

	log.EventType = eventType
	log.OccurredAt = timestamp
	log.WorkWeekID = week.WorkWeekID
	if err := r.TimeLog.Update(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

// ════════════════════════════════════════════════════════════
// AdminDeleteLog — 删除事件
// ════════════════════════════════════════════════════════════

func (s *timeLogService) AdminDeleteLog(ctx context.Context, adminID, companyID, timeLogID string) error {
	return s.tx.Transaction(ctx, func(r *repository.Repository) error {
		log, err := r.TimeLog.GetByID(ctx, timeLogID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTimeLogNotFound
			}
			return err
		}

		owner, err := r.User.GetByID(ctx, log.UserID)
		if err != nil {
			return err
		}
		if owner.CompanyID != companyID {
			return pkgerrors.ErrCrossCompany
		}

		ts, err := r.Timesheet.GetByUserAndWeek(ctx, log.UserID, log.WorkWeekID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if ts != nil && !ts.CanModifyEvents(model.RoleAdmin) {
			return timesheetLockedErr(ts.Status)
		}

		if err := r.TimeLog.Delete(ctx, timeLogID); err != nil {
			return err
		}

		return writeAudit(ctx, r, model.AuditLog{
			UserID:       &adminID,
			CompanyID:    companyID,
			Action:       model.AuditTimeLogDeleted,
			TargetEntity: "time_log",
			TargetID:     &timeLogID,
			Details:      fmt.Sprintf("删除事件 %s @ %s", log.EventType, log.OccurredAt.Format(time.RFC3339)),
		})
	})
}

// ListLogs 查询事件列表
func (s *timeLogService) ListLogs(ctx context.Context, userID string, start, end time.Time) ([]dto.TimeLogResponse, error) {
	logs, err := s.repo.TimeLog.ListByUserBetween(ctx, userID, start, end)
	if err != nil {
		s.logger.Error("查询事件列表失败", zap.Error(err))
		return nil, err
	}

	resp := make([]dto.TimeLogResponse, 0, len(logs))
	for i := range logs {
		resp = append(resp, *toTimeLogResponse(&logs[i]))
	}
	return resp, nil
}

// ── 围栏校验 ──

// checkGeofence 打卡坐标必须落在当前分配地点的围栏内
// 无分配拒绝；地点未配置完整围栏（坐标/半径缺失）视为不限制
func (s *timeLogService) checkGeofence(ctx context.Context, userID string, lat, lon float64) error {
	assignment, err := s.repo.Assignment.GetCurrentByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoAssignment
		}
		s.logger.Error("查询工作地点分配失败", zap.Error(err))
		return err
	}

	loc := assignment.WorkLocation
	if loc == nil || !loc.HasGeofence() {
		return nil
	}
	if !geo.WithinRadius(*loc.Latitude, *loc.Longitude, *loc.GeofenceRadiusM, lat, lon) {
		return ErrOutsideGeofence
	}
	return nil
}

func toTimeLogResponse(log *model.TimeLog) *dto.TimeLogResponse {
	return &dto.TimeLogResponse{
		ID:         log.TimeLogID,
		EventType:  log.EventType,
		OccurredAt: log.OccurredAt.Format(time.RFC3339),
		WorkWeekID: log.WorkWeekID,
	}
}
