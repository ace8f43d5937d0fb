package service

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alexpase322/jornixs-backend/internal/model"
)

// ── 工时与薪酬计算核心 ──
//
// 工时 = 事件流按时间排序后做区间配对：
//   clock_in / lunch_end  打开一个工作区间
//   lunch_start / clock_out 关闭当前区间
// 未闭合的区间（只打了上班卡没打下班卡）不计入工时。
// 周工时先取整分钟再换算小时，四舍五入保留两位。

const weeklyOvertimeThreshold = 40.0 // 周加班门槛（小时）

// 加班倍率 1.5x
var overtimeRate = decimal.NewFromFloat(1.5)

// workedMinutes 把一组事件配对成工作区间并累计总分钟数
// 输入顺序任意，内部自行排序，乱序输入结果不变
func workedMinutes(logs []model.TimeLog) int {
	sorted := make([]model.TimeLog, len(logs))
	copy(sorted, logs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].OccurredAt.Before(sorted[j].OccurredAt)
	})

	var total int
	var open *time.Time
	for i := range sorted {
		switch sorted[i].EventType {
		case model.EventClockIn, model.EventLunchEnd:
			if open == nil {
				t := sorted[i].OccurredAt
				open = &t
			}
		case model.EventLunchStart, model.EventClockOut:
			if open != nil {
				total += int(sorted[i].OccurredAt.Sub(*open).Minutes())
				open = nil
			}
		}
	}
	return total
}

// round2 四舍五入保留两位小数
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// PaySummary 单周工时与薪酬计算结果
type PaySummary struct {
	RegularHours  float64
	OvertimeHours float64
	TotalHours    float64
	RegularPay    decimal.Decimal
	OvertimePay   decimal.Decimal
	TotalPay      decimal.Decimal
}

// computeWeeklyPay 计算单周薪酬
// 超过 40 小时的部分按 1.5 倍时薪计；总薪酬由未舍入的分项求和后
// 统一做一次最终舍入，避免分项各自舍入产生的累计偏差
func computeWeeklyPay(logs []model.TimeLog, hourlyRate decimal.Decimal) PaySummary {
	totalHours := round2(float64(workedMinutes(logs)) / 60.0)
	regularHours := math.Min(totalHours, weeklyOvertimeThreshold)
	overtimeHours := math.Max(0, totalHours-weeklyOvertimeThreshold)

	regularPay := hourlyRate.Mul(decimal.NewFromFloat(regularHours))
	overtimePay := hourlyRate.Mul(overtimeRate).Mul(decimal.NewFromFloat(overtimeHours))
	totalPay := regularPay.Add(overtimePay).Round(2)

	return PaySummary{
		RegularHours:  regularHours,
		OvertimeHours: overtimeHours,
		TotalHours:    totalHours,
		RegularPay:    regularPay.Round(2),
		OvertimePay:   overtimePay.Round(2),
		TotalPay:      totalPay,
	}
}

// groupByDay 按日期（本地日历日）拆分事件，返回排序后的日期键
func groupByDay(logs []model.TimeLog) (map[time.Time][]model.TimeLog, []time.Time) {
	byDay := make(map[time.Time][]model.TimeLog)
	for _, l := range logs {
		d := model.DateOnly(l.OccurredAt)
		byDay[d] = append(byDay[d], l)
	}
	days := make([]time.Time, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return byDay, days
}
