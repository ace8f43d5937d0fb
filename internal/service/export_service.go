package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoData       = errors.New("该时段无可导出的数据")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 汇总报表导出为 Excel (.xlsx)，供财务做工资发放
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportConsolidated 导出时段内全公司薪酬汇总
	ExportConsolidated(ctx context.Context, companyID string, start, end time.Time) (*bytes.Buffer, string, error)
}

type exportService struct {
	reports ReportService
	logger  *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(reports ReportService, logger *zap.Logger) ExportService {
	return &exportService{reports: reports, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportConsolidated — 导出薪酬汇总为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单 Sheet "薪酬汇总"
//   - 列：姓名 / 邮箱 / 时薪 / 正常工时 / 加班工时 / 总工时 / 应发工资
//   - 末行：总计
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportConsolidated(ctx context.Context, companyID string, start, end time.Time) (*bytes.Buffer, string, error) {
	report, err := s.reports.Consolidated(ctx, companyID, start, end)
	if err != nil {
		return nil, "", err
	}
	if len(report.Entries) == 0 {
		return nil, "", ErrExportNoData
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "薪酬汇总"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"姓名", "邮箱", "时薪", "正常工时", "加班工时", "总工时", "应发工资"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			s.logger.Error("写入表头失败", zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}
	}

	for row, entry := range report.Entries {
		values := []interface{}{
			entry.FullName,
			entry.Email,
			entry.HourlyRate.String(),
			entry.RegularHours,
			entry.OvertimeHours,
			entry.TotalHours,
			entry.TotalPay.String(),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				s.logger.Error("写入数据行失败", zap.Error(err))
				return nil, "", ErrExportGenerateFail
			}
		}
	}

	totalRow := len(report.Entries) + 2
	nameCell, _ := excelize.CoordinatesToCellName(1, totalRow)
	payCell, _ := excelize.CoordinatesToCellName(len(headers), totalRow)
	_ = f.SetCellValue(sheet, nameCell, "总计")
	_ = f.SetCellValue(sheet, payCell, report.GrandTotalPay.String())

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("序列化 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("payroll_%s_%s.xlsx", report.StartDate, report.EndDate)
	return buf, filename, nil
}
