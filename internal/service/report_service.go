package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/alexpase322/jornixs-backend/internal/dto"
	"github.com/alexpase322/jornixs-backend/internal/model"
	"github.com/alexpase322/jornixs-backend/internal/repository"
	pkgerrors "github.com/alexpase322/jornixs-backend/pkg/errors"
)

// ReportService 工时薪酬报表接口
type ReportService interface {
	// MyWeeklySummary 查询自己某日所在周的工时与薪酬
	MyWeeklySummary(ctx context.Context, userID, companyID string, date time.Time) (*dto.WeeklyPaySummary, error)
	// Consolidated 全公司汇总报表：时段内每个在职员工一行
	Consolidated(ctx context.Context, companyID string, start, end time.Time) (*dto.ConsolidatedReport, error)
	// Detailed 单人明细报表：逐周逐日展开
	Detailed(ctx context.Context, companyID, workerID string, start, end time.Time) (*dto.DetailedReport, error)
	// Dashboard 管理员首页统计
	Dashboard(ctx context.Context, companyID string) (*dto.DashboardStats, error)
}

type reportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(repo *repository.Repository, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, logger: logger}
}

// weekQueryBounds 工作周的查询时刻区间（含两端）
func weekQueryBounds(week *model.WorkWeek) (time.Time, time.Time) {
	start := model.DateOnly(week.StartDate)
	end := model.DateOnly(week.EndDate).Add(24*time.Hour - time.Nanosecond)
	return start, end
}

// ════════════════════════════════════════════════════════════
// MyWeeklySummary
// ════════════════════════════════════════════════════════════

func (s *reportService) MyWeeklySummary(ctx context.Context, userID, companyID string, date time.Time) (*dto.WeeklyPaySummary, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	weekStart, weekEnd := model.WeekBoundsFor(date)

	// 该周尚无任何事件时返回全零汇总而不是报错
	d := model.DateOnly(date)
	weeks, err := s.repo.WorkWeek.ListOverlapping(ctx, companyID, d, d)
	if err != nil {
		s.logger.Error("查询工作周失败", zap.Error(err))
		return nil, err
	}
	if len(weeks) == 0 {
		empty := computeWeeklyPay(nil, user.HourlyRate)
		return paySummaryResponse("", weekStart, weekEnd, model.TimesheetOpen, empty), nil
	}

	week := &weeks[0]
	qStart, qEnd := weekQueryBounds(week)
	logs, err := s.repo.TimeLog.ListByUserBetween(ctx, userID, qStart, qEnd)
	if err != nil {
		s.logger.Error("查询考勤事件失败", zap.Error(err))
		return nil, err
	}

	summary := computeWeeklyPay(logs, user.HourlyRate)
	status := s.timesheetStatus(ctx, userID, week.WorkWeekID)
	return paySummaryResponse(week.WorkWeekID, week.StartDate, week.EndDate, status, summary), nil
}

// timesheetStatus 查询某周考勤表状态；尚未建表时视为待填写
func (s *reportService) timesheetStatus(ctx context.Context, userID, workWeekID string) string {
	ts, err := s.repo.Timesheet.GetByUserAndWeek(ctx, userID, workWeekID)
	if err != nil || ts == nil {
		return model.TimesheetOpen
	}
	return ts.Status
}

// ════════════════════════════════════════════════════════════
// Consolidated — 全公司薪酬汇总
// ════════════════════════════════════════════════════════════

func (s *reportService) Consolidated(ctx context.Context, companyID string, start, end time.Time) (*dto.ConsolidatedReport, error) {
	workers, err := s.repo.User.ListWorkersByCompany(ctx, companyID, true)
	if err != nil {
		s.logger.Error("查询员工列表失败", zap.Error(err))
		return nil, err
	}

	weeks, err := s.repo.WorkWeek.ListOverlapping(ctx, companyID, model.DateOnly(start), model.DateOnly(end))
	if err != nil {
		s.logger.Error("查询工作周失败", zap.Error(err))
		return nil, err
	}

	report := &dto.ConsolidatedReport{
		StartDate:     model.DateOnly(start).Format("2006-01-02"),
		EndDate:       model.DateOnly(end).Format("2006-01-02"),
		Entries:       make([]dto.ConsolidatedEntry, 0, len(workers)),
		GrandTotalPay: decimal.Zero,
	}

	for i := range workers {
		w := &workers[i]
		entry := dto.ConsolidatedEntry{
			UserID:     w.UserID,
			FullName:   w.FullName,
			Email:      w.Email,
			HourlyRate: w.HourlyRate,
			TotalPay:   decimal.Zero,
		}

		// 薪酬按周结算：时段内每个交叠周独立计薪后累加
		for j := range weeks {
			qStart, qEnd := weekQueryBounds(&weeks[j])
			logs, err := s.repo.TimeLog.ListByUserBetween(ctx, w.UserID, qStart, qEnd)
			if err != nil {
				s.logger.Error("查询考勤事件失败", zap.Error(err))
				return nil, err
			}
			if len(logs) == 0 {
				continue
			}
			summary := computeWeeklyPay(logs, w.HourlyRate)
			entry.RegularHours = round2(entry.RegularHours + summary.RegularHours)
			entry.OvertimeHours = round2(entry.OvertimeHours + summary.OvertimeHours)
			entry.TotalHours = round2(entry.TotalHours + summary.TotalHours)
			entry.TotalPay = entry.TotalPay.Add(summary.TotalPay)
		}

		report.Entries = append(report.Entries, entry)
		report.GrandTotalPay = report.GrandTotalPay.Add(entry.TotalPay)
	}

	return report, nil
}

// ════════════════════════════════════════════════════════════
// Detailed — 单人明细报表
// ════════════════════════════════════════════════════════════

func (s *reportService) Detailed(ctx context.Context, companyID, workerID string, start, end time.Time) (*dto.DetailedReport, error) {
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

	weeks, err := s.repo.WorkWeek.ListOverlapping(ctx, companyID, model.DateOnly(start), model.DateOnly(end))
	if err != nil {
		s.logger.Error("查询工作周失败", zap.Error(err))
		return nil, err
	}

	report := &dto.DetailedReport{
		UserID:    worker.UserID,
		FullName:  worker.FullName,
		StartDate: model.DateOnly(start).Format("2006-01-02"),
		EndDate:   model.DateOnly(end).Format("2006-01-02"),
		Weeks:     make([]dto.DetailedWeek, 0, len(weeks)),
		TotalPay:  decimal.Zero,
	}

	for i := range weeks {
		week := &weeks[i]
		qStart, qEnd := weekQueryBounds(week)
		logs, err := s.repo.TimeLog.ListByUserBetween(ctx, worker.UserID, qStart, qEnd)
		if err != nil {
			s.logger.Error("查询考勤事件失败", zap.Error(err))
			return nil, err
		}
		if len(logs) == 0 {
			continue
		}

		summary := computeWeeklyPay(logs, worker.HourlyRate)
		status := s.timesheetStatus(ctx, worker.UserID, week.WorkWeekID)
		report.Weeks = append(report.Weeks, dto.DetailedWeek{
			Summary: *paySummaryResponse(week.WorkWeekID, week.StartDate, week.EndDate, status, summary),
			Days:    dailySummaries(logs, worker.HourlyRate),
		})
		report.TotalPay = report.TotalPay.Add(summary.TotalPay)
	}

	return report, nil
}

// dailySummaries 按日拆分事件，取每类事件的首次时刻并计当日工时
func dailySummaries(logs []model.TimeLog, hourlyRate decimal.Decimal) []dto.DailySummary {
	byDay, days := groupByDay(logs)

	summaries := make([]dto.DailySummary, 0, len(days))
	for _, day := range days {
		dayLogs := byDay[day]
		hours := round2(float64(workedMinutes(dayLogs)) / 60.0)
		ds := dto.DailySummary{
			Date:  day.Format("2006-01-02"),
			Hours: hours,
			// 日薪按平时薪率折算，加班溢价只在周汇总层体现
			Pay: hourlyRate.Mul(decimal.NewFromFloat(hours)).Round(2),
		}
		for i := range dayLogs {
			t := dayLogs[i].OccurredAt.Format("15:04")
			switch dayLogs[i].EventType {
			case model.EventClockIn:
				if ds.ClockIn == nil {
					ds.ClockIn = &t
				}
			case model.EventLunchStart:
				if ds.LunchStart == nil {
					ds.LunchStart = &t
				}
			case model.EventLunchEnd:
				if ds.LunchEnd == nil {
					ds.LunchEnd = &t
				}
			case model.EventClockOut:
				if ds.ClockOut == nil {
					ds.ClockOut = &t
				}
			}
		}
		summaries = append(summaries, ds)
	}
	return summaries
}

// ════════════════════════════════════════════════════════════
// Dashboard
// ════════════════════════════════════════════════════════════

func (s *reportService) Dashboard(ctx context.Context, companyID string) (*dto.DashboardStats, error) {
	totalWorkers, err := s.repo.User.CountWorkersByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	dayStart, dayEnd := dayBounds(time.Now())
	activeToday, err := s.repo.TimeLog.CountActiveUsersBetween(ctx, companyID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	pending, err := s.repo.Timesheet.ListByCompany(ctx, companyID, model.TimesheetSubmitted, "")
	if err != nil {
		return nil, err
	}

	// 本周工时与预估薪酬：对在职员工逐人按本周事件计算
	weekStart, weekEnd := model.WeekBoundsFor(time.Now())
	qEnd := weekEnd.Add(24*time.Hour - time.Nanosecond)

	workers, err := s.repo.User.ListWorkersByCompany(ctx, companyID, true)
	if err != nil {
		return nil, err
	}

	hoursThisWeek := 0.0
	estimated := decimal.Zero
	for i := range workers {
		logs, err := s.repo.TimeLog.ListByUserBetween(ctx, workers[i].UserID, weekStart, qEnd)
		if err != nil {
			return nil, err
		}
		if len(logs) == 0 {
			continue
		}
		summary := computeWeeklyPay(logs, workers[i].HourlyRate)
		hoursThisWeek += summary.TotalHours
		estimated = estimated.Add(summary.TotalPay)
	}

	return &dto.DashboardStats{
		TotalWorkers:      totalWorkers,
		ActiveToday:       activeToday,
		PendingTimesheets: int64(len(pending)),
		HoursThisWeek:     round2(hoursThisWeek),
		EstimatedPayroll:  estimated,
	}, nil
}

func paySummaryResponse(workWeekID string, weekStart, weekEnd time.Time, status string, p PaySummary) *dto.WeeklyPaySummary {
	return &dto.WeeklyPaySummary{
		WorkWeekID:    workWeekID,
		WeekStart:     model.DateOnly(weekStart).Format("2006-01-02"),
		WeekEnd:       model.DateOnly(weekEnd).Format("2006-01-02"),
		Status:        status,
		RegularHours:  p.RegularHours,
		OvertimeHours: p.OvertimeHours,
		TotalHours:    p.TotalHours,
		RegularPay:    p.RegularPay,
		OvertimePay:   p.OvertimePay,
		TotalPay:      p.TotalPay,
	}
}
