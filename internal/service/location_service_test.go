package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/alexpase322/jornixs-backend/internal/dto"
	"github.com/alexpase322/jornixs-backend/internal/model"
	pkgerrors "github.com/alexpase322/jornixs-backend/pkg/errors"
)

func setupLocationService() (LocationService, *testRepos) {
	repos := newTestRepos()
	repoAgg := repos.toRepository()
	svc := NewLocationService(repoAgg, &mockTxRunner{repo: repoAgg}, zap.NewNop())
	return svc, repos
}

func TestCreateLocation_WithGeofence(t *testing.T) {
	svc, repos := setupLocationService()

	resp, err := svc.Create(context.Background(), "admin-1", "comp-1", &dto.CreateWorkLocationRequest{
		Name:            "主仓库",
		Address:         "Av. Industrial 742",
		Latitude:        f64(-12.0464),
		Longitude:       f64(-77.0428),
		GeofenceRadiusM: f64(150),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.GeofenceRadiusM == nil || *resp.GeofenceRadiusM != 150 {
		t.Errorf("围栏半径 = %v", resp.GeofenceRadiusM)
	}
	if len(repos.audit.entries) != 1 || repos.audit.entries[0].Action != model.AuditLocationCreated {
		t.Errorf("审计 = %+v", repos.audit.entries)
	}
}

func TestCreateLocation_IncompleteGeofence(t *testing.T) {
	svc, _ := setupLocationService()

	// 只给纬度不给经度半径
	_, err := svc.Create(context.Background(), "admin-1", "comp-1", &dto.CreateWorkLocationRequest{
		Name:     "残缺围栏",
		Latitude: f64(-12.0),
	})
	if !errors.Is(err, ErrIncompleteGeofence) {
		t.Errorf("Create = %v, want ErrIncompleteGeofence", err)
	}
}

func TestCreateLocation_NoGeofence(t *testing.T) {
	// 三要素全空是合法的：该地点打卡不做围栏校验
	svc, _ := setupLocationService()

	resp, err := svc.Create(context.Background(), "admin-1", "comp-1", &dto.CreateWorkLocationRequest{
		Name: "外勤点",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.Latitude != nil || resp.GeofenceRadiusM != nil {
		t.Errorf("未配置围栏的地点不应有坐标")
	}
}

func TestUpdateLocation(t *testing.T) {
	svc, repos := setupLocationService()
	repos.location.locs["loc-1"] = &model.WorkLocation{
		WorkLocationID: "loc-1", CompanyID: "comp-1", Name: "旧名",
		Latitude: f64(10), Longitude: f64(10), GeofenceRadiusM: f64(100),
	}
	name := "新名"
	radius := float64(250)

	resp, err := svc.Update(context.Background(), "admin-1", "comp-1", "loc-1", &dto.UpdateWorkLocationRequest{
		Name:            &name,
		GeofenceRadiusM: &radius,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if resp.Name != "新名" || *resp.GeofenceRadiusM != 250 {
		t.Errorf("Update 结果 = %+v", resp)
	}
}

func TestDeleteLocation_CrossCompany(t *testing.T) {
	svc, repos := setupLocationService()
	repos.location.locs["loc-1"] = &model.WorkLocation{
		WorkLocationID: "loc-1", CompanyID: "comp-1", Name: "主仓库",
	}

	if err := svc.Delete(context.Background(), "admin-2", "comp-2", "loc-1"); !errors.Is(err, pkgerrors.ErrCrossCompany) {
		t.Errorf("Delete = %v, want ErrCrossCompany", err)
	}
	if _, ok := repos.location.locs["loc-1"]; !ok {
		t.Errorf("跨公司删除不应生效")
	}
}

func TestDeleteLocation(t *testing.T) {
	svc, repos := setupLocationService()
	repos.location.locs["loc-1"] = &model.WorkLocation{
		WorkLocationID: "loc-1", CompanyID: "comp-1", Name: "主仓库",
	}

	if err := svc.Delete(context.Background(), "admin-1", "comp-1", "loc-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(repos.location.locs) != 0 {
		t.Errorf("地点未删除")
	}
	if len(repos.audit.entries) != 1 || repos.audit.entries[0].Action != model.AuditLocationDeleted {
		t.Errorf("审计 = %+v", repos.audit.entries)
	}
}
