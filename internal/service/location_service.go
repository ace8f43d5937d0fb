package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/alexpase322/jornixs-backend/internal/dto"
	"github.com/alexpase322/jornixs-backend/internal/model"
	"github.com/alexpase322/jornixs-backend/internal/repository"
	pkgerrors "github.com/alexpase322/jornixs-backend/pkg/errors"
)

// ── 工作地点模块业务错误 ──

var (
	ErrLocationNotFound   = errors.New("工作地点不存在")
	ErrIncompleteGeofence = errors.New("围栏配置不完整：纬度、经度、半径必须同时提供")
)

// LocationService 工作地点管理接口（仅管理员可用）
type LocationService interface {
	Create(ctx context.Context, adminID, companyID string, req *dto.CreateWorkLocationRequest) (*dto.WorkLocationResponse, error)
	List(ctx context.Context, companyID string) ([]dto.WorkLocationResponse, error)
	Get(ctx context.Context, companyID, locationID string) (*dto.WorkLocationResponse, error)
	Update(ctx context.Context, adminID, companyID, locationID string, req *dto.UpdateWorkLocationRequest) (*dto.WorkLocationResponse, error)
	Delete(ctx context.Context, adminID, companyID, locationID string) error
}

type locationService struct {
	repo   *repository.Repository
	tx     repository.TxRunner
	logger *zap.Logger
}

// NewLocationService 创建 LocationService 实例
func NewLocationService(repo *repository.Repository, tx repository.TxRunner, logger *zap.Logger) LocationService {
	return &locationService{repo: repo, tx: tx, logger: logger}
}

// validGeofence 围栏三要素要么全空要么全有
func validGeofence(lat, lon, radius *float64) bool {
	set := 0
	for _, v := range []*float64{lat, lon, radius} {
		if v != nil {
			set++
		}
	}
	return set == 0 || set == 3
}

func (s *locationService) Create(ctx context.Context, adminID, companyID string, req *dto.CreateWorkLocationRequest) (*dto.WorkLocationResponse, error) {
	if !validGeofence(req.Latitude, req.Longitude, req.GeofenceRadiusM) {
		return nil, ErrIncompleteGeofence
	}

	loc := &model.WorkLocation{
		CompanyID:       companyID,
		Name:            req.Name,
		Address:         req.Address,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		GeofenceRadiusM: req.GeofenceRadiusM,
	}

	err := s.tx.Transaction(ctx, func(r *repository.Repository) error {
		if err := r.WorkLocation.Create(ctx, loc); err != nil {
			return err
		}
		return writeAudit(ctx, r, model.AuditLog{
			UserID:       &adminID,
			CompanyID:    companyID,
			Action:       model.AuditLocationCreated,
			TargetEntity: "work_location",
			TargetID:     &loc.WorkLocationID,
			Details:      loc.Name,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("工作地点已创建",
		zap.String("location_id", loc.WorkLocationID),
		zap.String("name", loc.Name))
	return toLocationResponse(loc), nil
}

func (s *locationService) List(ctx context.Context, companyID string) ([]dto.WorkLocationResponse, error) {
	locs, err := s.repo.WorkLocation.ListByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("查询工作地点列表失败", zap.Error(err))
		return nil, err
	}

	resp := make([]dto.WorkLocationResponse, 0, len(locs))
	for i := range locs {
		resp = append(resp, *toLocationResponse(&locs[i]))
	}
	return resp, nil
}

func (s *locationService) Get(ctx context.Context, companyID, locationID string) (*dto.WorkLocationResponse, error) {
	loc, err := s.loadLocation(ctx, companyID, locationID)
	if err != nil {
		return nil, err
	}
	return toLocationResponse(loc), nil
}

func (s *locationService) Update(ctx context.Context, adminID, companyID, locationID string, req *dto.UpdateWorkLocationRequest) (*dto.WorkLocationResponse, error) {
	loc, err := s.loadLocation(ctx, companyID, locationID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		loc.Name = *req.Name
	}
	if req.Address != nil {
		loc.Address = *req.Address
	}
	if req.Latitude != nil {
		loc.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		loc.Longitude = req.Longitude
	}
	if req.GeofenceRadiusM != nil {
		loc.GeofenceRadiusM = req.GeofenceRadiusM
	}
	if !validGeofence(loc.Latitude, loc.Longitude, loc.GeofenceRadiusM) {
		return nil, ErrIncompleteGeofence
	}

	err = s.tx.Transaction(ctx, func(r *repository.Repository) error {
		if err := r.WorkLocation.Update(ctx, loc); err != nil {
			return err
		}
		return writeAudit(ctx, r, model.AuditLog{
			UserID:       &adminID,
			CompanyID:    companyID,
			Action:       model.AuditLocationUpdated,
			TargetEntity: "work_location",
			TargetID:     &loc.WorkLocationID,
			Details:      loc.Name,
		})
	})
	if err != nil {
		return nil, err
	}
	return toLocationResponse(loc), nil
}

func (s *locationService) Delete(ctx context.Context, adminID, companyID, locationID string) error {
	loc, err := s.loadLocation(ctx, companyID, locationID)
	if err != nil {
		return err
	}

	return s.tx.Transaction(ctx, func(r *repository.Repository) error {
		if err := r.WorkLocation.Delete(ctx, locationID); err != nil {
			return err
		}
		return writeAudit(ctx, r, model.AuditLog{
			UserID:       &adminID,
			CompanyID:    companyID,
			Action:       model.AuditLocationDeleted,
			TargetEntity: "work_location",
			TargetID:     &locationID,
			Details:      loc.Name,
		})
	})
}

func (s *locationService) loadLocation(ctx context.Context, companyID, locationID string) (*model.WorkLocation, error) {
	loc, err := s.repo.WorkLocation.GetByID(ctx, locationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	if loc.CompanyID != companyID {
		return nil, pkgerrors.ErrCrossCompany
	}
	return loc, nil
}

func toLocationResponse(loc *model.WorkLocation) *dto.WorkLocationResponse {
	return &dto.WorkLocationResponse{
		ID:              loc.WorkLocationID,
		Name:            loc.Name,
		Address:         loc.Address,
		Latitude:        loc.Latitude,
		Longitude:       loc.Longitude,
		GeofenceRadiusM: loc.GeofenceRadiusM,
	}
}
