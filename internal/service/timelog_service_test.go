package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/alexpase322/jornixs-backend/internal/dto"
	"github.com/alexpase322/jornixs-backend/internal/model"
	pkgerrors "github.com/alexpase322/jornixs-backend/pkg/errors"
)

// ── 测试辅助 ──

func setupTimeLogService() (TimeLogService, *testRepos) {
	repos := newTestRepos()
	repoAgg := repos.toRepository()
	svc := NewTimeLogService(repoAgg, &mockTxRunner{repo: repoAgg}, zap.NewNop())
	return svc, repos
}

func f64(v float64) *float64 { return &v }

// seedWorker 种一个员工，分配到带围栏的地点 (10.0, 10.0) 半径 100m
func seedWorker(repos *testRepos, userID, companyID string, withGeofence bool) {
	repos.user.users[userID] = &model.User{
		UserID:        userID,
		CompanyID:     companyID,
		FullName:      "测试员工",
		Email:         userID + "@jornixs.test",
		Role:          model.RoleWorker,
		HourlyRate:    decimal.RequireFromString("20"),
		AccountActive: true,
	}

	loc := &model.WorkLocation{
		WorkLocationID: "loc-" + userID,
		CompanyID:      companyID,
		Name:           "主仓库",
	}
	if withGeofence {
		loc.Latitude = f64(10.0)
		loc.Longitude = f64(10.0)
		loc.GeofenceRadiusM = f64(100)
	}
	repos.location.locs[loc.WorkLocationID] = loc

	repos.assignment.assignments = append(repos.assignment.assignments, &model.UserLocationAssignment{
		AssignmentID:   "assign-" + userID,
		UserID:         userID,
		WorkLocationID: loc.WorkLocationID,
		IsCurrent:      true,
	})
}

// seedTimesheetForNow 预置当前周的考勤表并置为指定状态
func seedTimesheetForNow(t *testing.T, repos *testRepos, userID, companyID, status string) *model.WeeklyTimesheet {
	t.Helper()
	ctx := context.Background()
	start, end := model.WeekBoundsFor(time.Now())
	week, err := repos.workWeek.FindOrCreate(ctx, companyID, start, end)
	if err != nil {
		t.Fatalf("FindOrCreate week: %v", err)
	}
	ts, err := repos.timesheet.FindOrCreate(ctx, userID, week.WorkWeekID)
	if err != nil {
		t.Fatalf("FindOrCreate timesheet: %v", err)
	}
	ts.Status = status
	return ts
}

// ── 事件顺序校验 ──

func TestValidateNextEvent(t *testing.T) {
	cases := []struct {
		name    string
		last    string // 空串表示从未打过卡
		next    string
		wantErr error
	}{
		{"首个事件必须是上班卡", "", model.EventClockIn, nil},
		{"未打上班卡不能午休", "", model.EventLunchStart, ErrInvalidSequence},
		{"未打上班卡不能下班", "", model.EventClockOut, ErrInvalidSequence},
		{"上班后可午休", model.EventClockIn, model.EventLunchStart, nil},
		{"上班后可直接下班", model.EventClockIn, model.EventClockOut, nil},
		{"上班后不能重复上班", model.EventClockIn, model.EventClockIn, ErrInvalidSequence},
		{"午休中只能结束午休", model.EventLunchStart, model.EventLunchEnd, nil},
		{"午休中不能下班", model.EventLunchStart, model.EventClockOut, ErrInvalidSequence},
		{"午休中不能重新上班", model.EventLunchStart, model.EventClockIn, ErrInvalidSequence},
		{"午休结束可再次午休", model.EventLunchEnd, model.EventLunchStart, nil},
		{"午休结束可下班", model.EventLunchEnd, model.EventClockOut, nil},
		{"下班后可再次上班", model.EventClockOut, model.EventClockIn, nil},
		{"下班后不能再午休", model.EventClockOut, model.EventLunchStart, ErrInvalidSequence},
		{"下班后不能再下班", model.EventClockOut, model.EventClockOut, ErrInvalidSequence},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var last *model.TimeLog
			if c.last != "" {
				last = &model.TimeLog{EventType: c.last, OccurredAt: time.Now()}
			}
			err := validateNextEvent(last, c.next)
			if !errors.Is(err, c.wantErr) {
				t.Errorf("validateNextEvent(%q → %q) = %v, want %v", c.last, c.next, err, c.wantErr)
			}
		})
	}
}

// ── 上班打卡 ──

func TestClockIn_Success(t *testing.T) {
	svc, repos := setupTimeLogService()
	seedWorker(repos, "user-1", "comp-1", true)

	resp, err := svc.ClockIn(context.Background(), "user-1", "comp-1", &dto.ClockInRequest{
		Latitude: f64(10.0), Longitude: f64(10.0),
	})
	if err != nil {
		t.Fatalf("ClockIn: %v", err)
	}
	if resp.EventType != model.EventClockIn {
		t.Errorf("EventType = %s", resp.EventType)
	}

	// 惰性创建了工作周与考勤表
	if len(repos.workWeek.weeks) != 1 {
		t.Errorf("工作周数量 = %d, want 1", len(repos.workWeek.weeks))
	}
	if len(repos.timesheet.sheets) != 1 {
		t.Errorf("考勤表数量 = %d, want 1", len(repos.timesheet.sheets))
	}
	for _, ts := range repos.timesheet.sheets {
		if ts.Status != model.TimesheetOpen {
			t.Errorf("考勤表状态 = %s, want open", ts.Status)
		}
	}
}

func TestClockIn_Twice(t *testing.T) {
	svc, repos := setupTimeLogService()
	seedWorker(repos, "user-1", "comp-1", true)
	req := &dto.ClockInRequest{Latitude: f64(10.0), Longitude: f64(10.0)}

	if _, err := svc.ClockIn(context.Background(), "user-1", "comp-1", req); err != nil {
		t.Fatalf("首次 ClockIn: %v", err)
	}
	if _, err := svc.ClockIn(context.Background(), "user-1", "comp-1", req); !errors.Is(err, ErrAlreadyClockedIn) {
		t.Errorf("二次 ClockIn = %v, want ErrAlreadyClockedIn", err)
	}
}

func TestClockIn_OutsideGeofence(t *testing.T) {
	svc, repos := setupTimeLogService()
	seedWorker(repos, "user-1", "comp-1", true)

	// 纬度偏移 0.01° ≈ 1113m，远超 100m 半径
	_, err := svc.ClockIn(context.Background(), "user-1", "comp-1", &dto.ClockInRequest{
		Latitude: f64(10.01), Longitude: f64(10.0),
	})
	if !errors.Is(err, ErrOutsideGeofence) {
		t.Errorf("ClockIn = %v, want ErrOutsideGeofence", err)
	}
	if len(repos.timeLog.logs) != 0 {
		t.Errorf("围栏外打卡不应落事件")
	}
}

func TestClockIn_NoAssignment(t *testing.T) {
	svc, repos := setupTimeLogService()
	repos.user.users["user-1"] = &model.User{
		UserID: "user-1", CompanyID: "comp-1", Role: model.RoleWorker, AccountActive: true,
	}

	_, err := svc.ClockIn(context.Background(), "user-1", "comp-1", &dto.ClockInRequest{
		Latitude: f64(10.0), Longitude: f64(10.0),
	})
	if !errors.Is(err, ErrNoAssignment) {
		t.Errorf("ClockIn = %v, want ErrNoAssignment", err)
	}
}

func TestClockIn_LocationWithoutGeofence(t *testing.T) {
	// 地点未配置坐标：放行任意打卡位置
	svc, repos := setupTimeLogService()
	seedWorker(repos, "user-1", "comp-1", false)

	_, err := svc.ClockIn(context.Background(), "user-1", "comp-1", &dto.ClockInRequest{
		Latitude: f64(-77.03), Longitude: f64(-12.04),
	})
	if err != nil {
		t.Errorf("ClockIn = %v, want nil", err)
	}
}

func TestClockIn_WeekApproved(t *testing.T) {
	svc, repos := setupTimeLogService()
	seedWorker(repos, "user-1", "comp-1", true)
	seedTimesheetForNow(t, repos, "user-1", "comp-1", model.TimesheetApproved)

	_, err := svc.ClockIn(context.Background(), "user-1", "comp-1", &dto.ClockInRequest{
		Latitude: f64(10.0), Longitude: f64(10.0),
	})
	if !errors.Is(err, ErrWeekLocked) {
		t.Errorf("ClockIn = %v, want ErrWeekLocked", err)
	}
}

// ── 简单事件 ──

func TestRecordEvent_WithoutClockIn(t *testing.T) {
	svc, repos := setupTimeLogService()
	seedWorker(repos, "user-1", "comp-1", true)

	_, err := svc.RecordEvent(context.Background(), "user-1", "comp-1", &dto.SimpleEventRequest{
		EventType: model.EventLunchStart,
	})
	if !errors.Is(err, ErrInvalidSequence) {
		t.Errorf("RecordEvent = %v, want ErrInvalidSequence", err)
	}
}

func TestRecordEvent_FullDay(t *testing.T) {
	svc, repos := setupTimeLogService()
	seedWorker(repos, "user-1", "comp-1", true)
	ctx := context.Background()

	if _, err := svc.ClockIn(ctx, "user-1", "comp-1", &dto.ClockInRequest{
		Latitude: f64(10.0), Longitude: f64(10.0),
	}); err != nil {
		t.Fatalf("ClockIn: %v", err)
	}

	for _, eventType := range []string{model.EventLunchStart, model.EventLunchEnd, model.EventClockOut} {
		if _, err := svc.RecordEvent(ctx, "user-1", "comp-1", &dto.SimpleEventRequest{EventType: eventType}); err != nil {
			t.Fatalf("RecordEvent(%s): %v", eventType, err)
		}
	}

	// 下班后不允许再记事件
	if _, err := svc.RecordEvent(ctx, "user-1", "comp-1", &dto.SimpleEventRequest{
		EventType: model.EventClockOut,
	}); !errors.Is(err, ErrInvalidSequence) {
		t.Errorf("下班后 RecordEvent = %v, want ErrInvalidSequence", err)
	}

	if got := len(repos.timeLog.logs); got != 4 {
		t.Errorf("事件数量 = %d, want 4", got)
	}
}

// seedOvernightClockIn 种一条昨天未闭合的上班卡
func seedOvernightClockIn(t *testing.T, repos *testRepos, userID, companyID string) {
	t.Helper()
	ctx := context.Background()
	yesterday := time.Now().Add(-24 * time.Hour)
	start, end := model.WeekBoundsFor(yesterday)
	week, err := repos.workWeek.FindOrCreate(ctx, companyID, start, end)
	if err != nil {
		t.Fatalf("FindOrCreate week: %v", err)
	}
	if err := repos.timeLog.Create(ctx, &model.TimeLog{
		UserID: userID, WorkWeekID: week.WorkWeekID,
		EventType: model.EventClockIn, OccurredAt: yesterday,
	}); err != nil {
		t.Fatalf("seed clock_in: %v", err)
	}
}

// 跨日夜班：昨天的上班卡没有闭合，今天仍可直接打下班卡
func TestRecordEvent_OvernightClockOut(t *testing.T) {
	svc, repos := setupTimeLogService()
	seedWorker(repos, "user-1", "comp-1", true)
	seedOvernightClockIn(t, repos, "user-1", "comp-1")

	if _, err := svc.RecordEvent(context.Background(), "user-1", "comp-1", &dto.SimpleEventRequest{
		EventType: model.EventClockOut,
	}); err != nil {
		t.Errorf("跨日 RecordEvent(clock_out) = %v, want nil", err)
	}
}

// 昨天未打下班卡时，今天不能重新打上班卡
func TestClockIn_PreviousDayUnclosed(t *testing.T) {
	svc, repos := setupTimeLogService()
	seedWorker(repos, "user-1", "comp-1", true)
	seedOvernightClockIn(t, repos, "user-1", "comp-1")

	_, err := svc.ClockIn(context.Background(), "user-1", "comp-1", &dto.ClockInRequest{
		Latitude: f64(10.0), Longitude: f64(10.0),
	})
	if !errors.Is(err, ErrInvalidSequence) {
		t.Errorf("跨日 ClockIn = %v, want ErrInvalidSequence", err)
	}
}

// ── 修正 ──

func TestCorrect_SubmittedWeek(t *testing.T) {
	svc, repos := setupTimeLogService()
	seedWorker(repos, "user-1", "comp-1", true)
	seedTimesheetForNow(t, repos, "user-1", "comp-1", model.TimesheetSubmitted)

	// 员工不能改已提交的周
	_, err := svc.Correct(context.Background(), "user-1", "comp-1", &dto.CorrectionRequest{
		EventType: model.EventClockIn,
		Timestamp: time.Now(),
	})
	if !errors.Is(err, ErrTimesheetNotEditable) {
		t.Errorf("Correct = %v, want ErrTimesheetNotEditable", err)
	}

	// 管理员可以
	resp, err := svc.AdminCorrect(context.Background(), "admin-1", "comp-1", &dto.ManualCorrectionRequest{
		WorkerID:  "user-1",
		EventType: model.EventClockIn,
		Timestamp: time.Now(),
	})
	if err != nil {
		t.Fatalf("AdminCorrect: %v", err)
	}
	if resp.EventType != model.EventClockIn {
		t.Errorf("EventType = %s", resp.EventType)
	}

	// 修正必须留审计
	if len(repos.audit.entries) != 1 {
		t.Fatalf("审计条数 = %d, want 1", len(repos.audit.entries))
	}
	if repos.audit.entries[0].Action != model.AuditTimeLogCorrected {
		t.Errorf("审计动作 = %s", repos.audit.entries[0].Action)
	}
}

func TestCorrect_DuplicateClockIn(t *testing.T) {
	svc, repos := setupTimeLogService()
	seedWorker(repos, "user-1", "comp-1", true)
	ctx := context.Background()

	ts := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
	if _, err := svc.Correct(ctx, "user-1", "comp-1", &dto.CorrectionRequest{
		EventType: model.EventClockIn, Timestamp: ts,
	}); err != nil {
		t.Fatalf("首次补录: %v", err)
	}

	_, err := svc.Correct(ctx, "user-1", "comp-1", &dto.CorrectionRequest{
		EventType: model.EventClockIn, Timestamp: ts.Add(time.Hour),
	})
	if !errors.Is(err, ErrAlreadyClockedIn) {
		t.Errorf("同日二次补录上班卡 = %v, want ErrAlreadyClockedIn", err)
	}
}

func TestCorrect_EditExisting(t *testing.T) {
	svc, repos := setupTimeLogService()
	seedWorker(repos, "user-1", "comp-1", true)
	ctx := context.Background()

	ts := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
	created, err := svc.Correct(ctx, "user-1", "comp-1", &dto.CorrectionRequest{
		EventType: model.EventClockIn, Timestamp: ts,
	})
	if err != nil {
		t.Fatalf("补录: %v", err)
	}

	// 把打卡时间改到 8:30
	edited, err := svc.Correct(ctx, "user-1", "comp-1", &dto.CorrectionRequest{
		EventType: model.EventClockIn,
		Timestamp: ts.Add(-30 * time.Minute),
		TimeLogID: &created.ID,
	})
	if err != nil {
		t.Fatalf("编辑: %v", err)
	}
	if edited.ID != created.ID {
		t.Errorf("编辑不应产生新事件")
	}
	if len(repos.timeLog.logs) != 1 {
		t.Errorf("事件数量 = %d, want 1", len(repos.timeLog.logs))
	}
}

func TestAdminCorrect_CrossCompany(t *testing.T) {
	svc, repos := setupTimeLogService()
	seedWorker(repos, "user-1", "comp-1", true)

	_, err := svc.AdminCorrect(context.Background(), "admin-2", "comp-2", &dto.ManualCorrectionRequest{
		WorkerID:  "user-1",
		EventType: model.EventClockIn,
		Timestamp: time.Now(),
	})
	if !errors.Is(err, pkgerrors.ErrCrossCompany) {
		t.Errorf("AdminCorrect = %v, want ErrCrossCompany", err)
	}
}

// ── 删除 ──

func TestAdminDeleteLog(t *testing.T) {
	svc, repos := setupTimeLogService()
	seedWorker(repos, "user-1", "comp-1", true)
	ctx := context.Background()

	created, err := svc.Correct(ctx, "user-1", "comp-1", &dto.CorrectionRequest{
		EventType: model.EventClockIn,
		Timestamp: time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("补录: %v", err)
	}

	if err := svc.AdminDeleteLog(ctx, "admin-1", "comp-1", created.ID); err != nil {
		t.Fatalf("AdminDeleteLog: %v", err)
	}
	if len(repos.timeLog.logs) != 0 {
		t.Errorf("事件未被删除")
	}

	found := false
	for _, e := range repos.audit.entries {
		if e.Action == model.AuditTimeLogDeleted {
			found = true
		}
	}
	if !found {
		t.Errorf("缺少删除审计记录")
	}
}

func TestAdminDeleteLog_ApprovedWeek(t *testing.T) {
	svc, repos := setupTimeLogService()
	seedWorker(repos, "user-1", "comp-1", true)
	ctx := context.Background()

	created, err := svc.Correct(ctx, "user-1", "comp-1", &dto.CorrectionRequest{
		EventType: model.EventClockIn,
		Timestamp: time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("补录: %v", err)
	}

	// 审批通过后该周冻结，管理员也不能删
	for _, sheet := range repos.timesheet.sheets {
		sheet.Status = model.TimesheetApproved
	}
	if err := svc.AdminDeleteLog(ctx, "admin-1", "comp-1", created.ID); !errors.Is(err, ErrWeekLocked) {
		t.Errorf("AdminDeleteLog = %v, want ErrWeekLocked", err)
	}
}
