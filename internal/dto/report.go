package dto

import "github.com/shopspring/decimal"

// ── 工时薪酬报表模块 DTO ──

// DateRangeRequest 报表通用日期范围（含两端）
type DateRangeRequest struct {
	StartDate string `form:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `form:"end_date"   binding:"required,datetime=2006-01-02"`
}

// WeeklyPaySummary 单人单周工时与薪酬汇总
type WeeklyPaySummary struct {
	WorkWeekID    string          `json:"work_week_id"`
	WeekStart     string          `json:"week_start"`
	WeekEnd       string          `json:"week_end"`
	Status        string          `json:"status"`
	RegularHours  float64         `json:"regular_hours"`
	OvertimeHours float64         `json:"overtime_hours"`
	TotalHours    float64         `json:"total_hours"`
	RegularPay    decimal.Decimal `json:"regular_pay"`
	OvertimePay   decimal.Decimal `json:"overtime_pay"`
	TotalPay      decimal.Decimal `json:"total_pay"`
}

// ConsolidatedEntry 汇总报表中单个员工的行
type ConsolidatedEntry struct {
	UserID        string          `json:"user_id"`
	FullName      string          `json:"full_name"`
	Email         string          `json:"email"`
	HourlyRate    decimal.Decimal `json:"hourly_rate"`
	RegularHours  float64         `json:"regular_hours"`
	OvertimeHours float64         `json:"overtime_hours"`
	TotalHours    float64         `json:"total_hours"`
	TotalPay      decimal.Decimal `json:"total_pay"`
}

// ConsolidatedReport 全公司薪酬汇总报表
type ConsolidatedReport struct {
	StartDate     string              `json:"start_date"`
	EndDate       string              `json:"end_date"`
	Entries       []ConsolidatedEntry `json:"entries"`
	GrandTotalPay decimal.Decimal     `json:"grand_total_pay"`
}

// DailySummary 单日事件汇总（首次出现的各类事件时刻 + 当日工时）
type DailySummary struct {
	Date       string          `json:"date"`
	ClockIn    *string         `json:"clock_in,omitempty"`
	LunchStart *string         `json:"lunch_start,omitempty"`
	LunchEnd   *string         `json:"lunch_end,omitempty"`
	ClockOut   *string         `json:"clock_out,omitempty"`
	Hours      float64         `json:"hours"`
	Pay        decimal.Decimal `json:"pay"`
}

// DetailedWeek 明细报表中的一周
type DetailedWeek struct {
	Summary WeeklyPaySummary `json:"summary"`
	Days    []DailySummary   `json:"days"`
}

// DetailedReport 单人明细报表（按周展开到每日）
type DetailedReport struct {
	UserID    string          `json:"user_id"`
	FullName  string          `json:"full_name"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Weeks     []DetailedWeek  `json:"weeks"`
	TotalPay  decimal.Decimal `json:"total_pay"`
}

// DashboardStats 管理员首页统计
type DashboardStats struct {
	TotalWorkers      int64           `json:"total_workers"`
	ActiveToday       int64           `json:"active_today"`
	PendingTimesheets int64           `json:"pending_timesheets"`
	HoursThisWeek     float64         `json:"hours_this_week"`
	EstimatedPayroll  decimal.Decimal `json:"estimated_payroll"`
}
