package geo

import (
	"math"
	"testing"
)

func TestDistanceMeters_SamePoint(t *testing.T) {
	d := DistanceMeters(-12.0464, -77.0428, -12.0464, -77.0428)
	if d != 0 {
		t.Errorf("同一坐标距离应为0，实际=%f", d)
	}
}

func TestDistanceMeters_KnownDistance(t *testing.T) {
	// 赤道上纬度偏移 0.0005° ≈ 55.66 米
	d := DistanceMeters(0, 0, 0.0005, 0)
	if math.Abs(d-55.66) > 1 {
		t.Errorf("期望约55.66米，实际=%f", d)
	}

	// 纬度偏移 0.01° ≈ 1113 米
	d = DistanceMeters(0, 0, 0.01, 0)
	if math.Abs(d-1113.2) > 5 {
		t.Errorf("期望约1113米，实际=%f", d)
	}
}

func TestWithinRadius(t *testing.T) {
	tests := []struct {
		name   string
		lat    float64
		lon    float64
		radius float64
		want   bool
	}{
		{"围栏内约55米", 0.0005, 0, 100, true},
		{"围栏外约1113米", 0.01, 0, 100, false},
		{"圆心本身", 0, 0, 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WithinRadius(0, 0, tt.radius, tt.lat, tt.lon)
			if got != tt.want {
				t.Errorf("WithinRadius=%v，期望=%v", got, tt.want)
			}
		})
	}
}
