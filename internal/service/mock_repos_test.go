package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/alexpase322/jornixs-backend/internal/model"
	"github.com/alexpase322/jornixs-backend/internal/repository"
	pkgerrors "github.com/alexpase322/jornixs-backend/pkg/errors"
)

// ── Mock TxRunner ──
//
// 直接用同一组 mock repo 执行回调，不模拟回滚

type mockTxRunner struct {
	repo *repository.Repository
}

func (m *mockTxRunner) Transaction(_ context.Context, fn repository.TxFunc) error {
	return fn(m.repo)
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%d", len(m.users)+1)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) ListWorkersByCompany(_ context.Context, companyID string, activeOnly bool) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.CompanyID != companyID || u.Role != model.RoleWorker {
			continue
		}
		if activeOnly && !u.AccountActive {
			continue
		}
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FullName < result[j].FullName })
	return result, nil
}

func (m *mockUserRepo) CountWorkersByCompany(_ context.Context, companyID string) (int64, error) {
	var n int64
	for _, u := range m.users {
		if u.CompanyID == companyID && u.Role == model.RoleWorker {
			n++
		}
	}
	return n, nil
}

// ── Mock WorkLocationRepository ──

type mockWorkLocationRepo struct {
	locs map[string]*model.WorkLocation
}

func newMockWorkLocationRepo() *mockWorkLocationRepo {
	return &mockWorkLocationRepo{locs: make(map[string]*model.WorkLocation)}
}

func (m *mockWorkLocationRepo) Create(_ context.Context, loc *model.WorkLocation) error {
	if loc.WorkLocationID == "" {
		loc.WorkLocationID = fmt.Sprintf("loc-%d", len(m.locs)+1)
	}
	m.locs[loc.WorkLocationID] = loc
	return nil
}

func (m *mockWorkLocationRepo) GetByID(_ context.Context, id string) (*model.WorkLocation, error) {
	if l, ok := m.locs[id]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkLocationRepo) ListByCompany(_ context.Context, companyID string) ([]model.WorkLocation, error) {
	var result []model.WorkLocation
	for _, l := range m.locs {
		if l.CompanyID == companyID {
			result = append(result, *l)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockWorkLocationRepo) Update(_ context.Context, loc *model.WorkLocation) error {
	m.locs[loc.WorkLocationID] = loc
	return nil
}

func (m *mockWorkLocationRepo) Delete(_ context.Context, id string) error {
	delete(m.locs, id)
	return nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	assignments []*model.UserLocationAssignment
	locs        *mockWorkLocationRepo
}

func newMockAssignmentRepo(locs *mockWorkLocationRepo) *mockAssignmentRepo {
	return &mockAssignmentRepo{locs: locs}
}

func (m *mockAssignmentRepo) Create(_ context.Context, a *model.UserLocationAssignment) error {
	if a.AssignmentID == "" {
		a.AssignmentID = fmt.Sprintf("assign-%d", len(m.assignments)+1)
	}
	m.assignments = append(m.assignments, a)
	return nil
}

func (m *mockAssignmentRepo) GetCurrentByUser(_ context.Context, userID string) (*model.UserLocationAssignment, error) {
	for _, a := range m.assignments {
		if a.UserID == userID && a.IsCurrent {
			// 模拟 Preload
			if a.WorkLocation == nil {
				if loc, ok := m.locs.locs[a.WorkLocationID]; ok {
					a.WorkLocation = loc
				}
			}
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) ClearCurrent(_ context.Context, userID string) error {
	for _, a := range m.assignments {
		if a.UserID == userID {
			a.IsCurrent = false
		}
	}
	return nil
}

// ── Mock WorkWeekRepository ──

type mockWorkWeekRepo struct {
	weeks map[string]*model.WorkWeek
}

func newMockWorkWeekRepo() *mockWorkWeekRepo {
	return &mockWorkWeekRepo{weeks: make(map[string]*model.WorkWeek)}
}

func (m *mockWorkWeekRepo) GetByID(_ context.Context, id string) (*model.WorkWeek, error) {
	if w, ok := m.weeks[id]; ok {
		return w, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkWeekRepo) FindOrCreate(_ context.Context, companyID string, start, end time.Time) (*model.WorkWeek, error) {
	for _, w := range m.weeks {
		if w.CompanyID == companyID && w.StartDate.Equal(start) {
			return w, nil
		}
	}
	week := &model.WorkWeek{
		WorkWeekID: fmt.Sprintf("week-%d", len(m.weeks)+1),
		CompanyID:  companyID,
		StartDate:  start,
		EndDate:    end,
	}
	m.weeks[week.WorkWeekID] = week
	return week, nil
}

func (m *mockWorkWeekRepo) ListOverlapping(_ context.Context, companyID string, rangeStart, rangeEnd time.Time) ([]model.WorkWeek, error) {
	var result []model.WorkWeek
	for _, w := range m.weeks {
		if w.CompanyID != companyID {
			continue
		}
		if !w.StartDate.After(rangeEnd) && !w.EndDate.Before(rangeStart) {
			result = append(result, *w)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.Before(result[j].StartDate) })
	return result, nil
}

// ── Mock TimeLogRepository ──

type mockTimeLogRepo struct {
	logs  map[string]*model.TimeLog
	users *mockUserRepo
	seq   int
}

func newMockTimeLogRepo(users *mockUserRepo) *mockTimeLogRepo {
	return &mockTimeLogRepo{logs: make(map[string]*model.TimeLog), users: users}
}

func (m *mockTimeLogRepo) Create(_ context.Context, log *model.TimeLog) error {
	if log.TimeLogID == "" {
		m.seq++
		log.TimeLogID = fmt.Sprintf("log-%d", m.seq)
	}
	m.logs[log.TimeLogID] = log
	return nil
}

func (m *mockTimeLogRepo) GetByID(_ context.Context, id string) (*model.TimeLog, error) {
	if l, ok := m.logs[id]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimeLogRepo) Update(_ context.Context, log *model.TimeLog) error {
	m.logs[log.TimeLogID] = log
	return nil
}

func (m *mockTimeLogRepo) Delete(_ context.Context, id string) error {
	delete(m.logs, id)
	return nil
}

func (m *mockTimeLogRepo) GetLastByUser(_ context.Context, userID string, _ bool) (*model.TimeLog, error) {
	var last *model.TimeLog
	for _, l := range m.logs {
		if l.UserID != userID {
			continue
		}
		if last == nil || l.OccurredAt.After(last.OccurredAt) {
			last = l
		}
	}
	return last, nil
}

func (m *mockTimeLogRepo) HasClockInBetween(_ context.Context, userID string, start, end time.Time) (bool, error) {
	for _, l := range m.logs {
		if l.UserID == userID && l.EventType == model.EventClockIn &&
			!l.OccurredAt.Before(start) && !l.OccurredAt.After(end) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockTimeLogRepo) ListByUserBetween(_ context.Context, userID string, start, end time.Time) ([]model.TimeLog, error) {
	var result []model.TimeLog
	for _, l := range m.logs {
		if l.UserID == userID && !l.OccurredAt.Before(start) && !l.OccurredAt.After(end) {
			result = append(result, *l)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].OccurredAt.Before(result[j].OccurredAt) })
	return result, nil
}

func (m *mockTimeLogRepo) ListByCompanyBetween(_ context.Context, companyID string, start, end time.Time) ([]model.TimeLog, error) {
	var result []model.TimeLog
	for _, l := range m.logs {
		u, ok := m.users.users[l.UserID]
		if !ok || u.CompanyID != companyID {
			continue
		}
		if !l.OccurredAt.Before(start) && !l.OccurredAt.After(end) {
			result = append(result, *l)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].OccurredAt.Before(result[j].OccurredAt) })
	return result, nil
}

func (m *mockTimeLogRepo) CountActiveUsersBetween(_ context.Context, companyID string, start, end time.Time) (int64, error) {
	seen := make(map[string]bool)
	for _, l := range m.logs {
		u, ok := m.users.users[l.UserID]
		if !ok || u.CompanyID != companyID {
			continue
		}
		if !l.OccurredAt.Before(start) && !l.OccurredAt.After(end) {
			seen[l.UserID] = true
		}
	}
	return int64(len(seen)), nil
}

// ── Mock TimesheetRepository ──

type mockTimesheetRepo struct {
	sheets map[string]*model.WeeklyTimesheet
	users  *mockUserRepo
	weeks  *mockWorkWeekRepo
	seq    int
}

func newMockTimesheetRepo(users *mockUserRepo, weeks *mockWorkWeekRepo) *mockTimesheetRepo {
	return &mockTimesheetRepo{sheets: make(map[string]*model.WeeklyTimesheet), users: users, weeks: weeks}
}

func (m *mockTimesheetRepo) GetByID(_ context.Context, id string) (*model.WeeklyTimesheet, error) {
	ts, ok := m.sheets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	// 模拟 Preload
	if ts.User == nil {
		if u, ok := m.users.users[ts.UserID]; ok {
			ts.User = u
		}
	}
	if ts.WorkWeek == nil {
		if w, ok := m.weeks.weeks[ts.WorkWeekID]; ok {
			ts.WorkWeek = w
		}
	}
	return ts, nil
}

func (m *mockTimesheetRepo) GetByUserAndWeek(_ context.Context, userID, workWeekID string) (*model.WeeklyTimesheet, error) {
	for _, ts := range m.sheets {
		if ts.UserID == userID && ts.WorkWeekID == workWeekID {
			return ts, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimesheetRepo) FindOrCreate(ctx context.Context, userID, workWeekID string) (*model.WeeklyTimesheet, error) {
	if ts, err := m.GetByUserAndWeek(ctx, userID, workWeekID); err == nil {
		return ts, nil
	}
	m.seq++
	ts := &model.WeeklyTimesheet{
		TimesheetID: fmt.Sprintf("ts-%d", m.seq),
		UserID:      userID,
		WorkWeekID:  workWeekID,
		Status:      model.TimesheetOpen,
	}
	ts.Version = 1
	m.sheets[ts.TimesheetID] = ts
	return ts, nil
}

func (m *mockTimesheetRepo) Update(_ context.Context, ts *model.WeeklyTimesheet) error {
	existing, ok := m.sheets[ts.TimesheetID]
	if !ok || existing.Version != ts.Version {
		return pkgerrors.ErrOptimisticLock
	}
	ts.Version++
	m.sheets[ts.TimesheetID] = ts
	return nil
}

func (m *mockTimesheetRepo) ListByCompany(_ context.Context, companyID, status, userID string) ([]model.WeeklyTimesheet, error) {
	var result []model.WeeklyTimesheet
	for _, ts := range m.sheets {
		u, ok := m.users.users[ts.UserID]
		if !ok || u.CompanyID != companyID {
			continue
		}
		if status != "" && ts.Status != status {
			continue
		}
		if userID != "" && ts.UserID != userID {
			continue
		}
		copied := *ts
		copied.User = u
		if w, ok := m.weeks.weeks[ts.WorkWeekID]; ok {
			copied.WorkWeek = w
		}
		result = append(result, copied)
	}
	return result, nil
}

// ── Mock AuditLogRepository ──

type mockAuditLogRepo struct {
	entries []model.AuditLog
}

func newMockAuditLogRepo() *mockAuditLogRepo {
	return &mockAuditLogRepo{}
}

func (m *mockAuditLogRepo) Create(_ context.Context, log *model.AuditLog) error {
	if log.AuditLogID == "" {
		log.AuditLogID = fmt.Sprintf("audit-%d", len(m.entries)+1)
	}
	m.entries = append(m.entries, *log)
	return nil
}

func (m *mockAuditLogRepo) ListByCompany(_ context.Context, companyID string, offset, limit int) ([]model.AuditLog, int64, error) {
	var all []model.AuditLog
	for _, e := range m.entries {
		if e.CompanyID == companyID {
			all = append(all, e)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	endIdx := offset + limit
	if endIdx > len(all) {
		endIdx = len(all)
	}
	return all[offset:endIdx], total, nil
}

// ── 聚合 ──

// testRepos 聚合所有 mock repo 便于 seed 数据
type testRepos struct {
	user       *mockUserRepo
	location   *mockWorkLocationRepo
	assignment *mockAssignmentRepo
	workWeek   *mockWorkWeekRepo
	timeLog    *mockTimeLogRepo
	timesheet  *mockTimesheetRepo
	audit      *mockAuditLogRepo
}

func newTestRepos() *testRepos {
	user := newMockUserRepo()
	location := newMockWorkLocationRepo()
	workWeek := newMockWorkWeekRepo()
	return &testRepos{
		user:       user,
		location:   location,
		assignment: newMockAssignmentRepo(location),
		workWeek:   workWeek,
		timeLog:    newMockTimeLogRepo(user),
		timesheet:  newMockTimesheetRepo(user, workWeek),
		audit:      newMockAuditLogRepo(),
	}
}

func (r *testRepos) toRepository() *repository.Repository {
	return &repository.Repository{
		User:         r.user,
		WorkLocation: r.location,
		Assignment:   r.assignment,
		WorkWeek:     r.workWeek,
		TimeLog:      r.timeLog,
		Timesheet:    r.timesheet,
		AuditLog:     r.audit,
	}
}
