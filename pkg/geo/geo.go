package geo

import "math"

// earthRadiusKm 地球平均半径（千米）
const earthRadiusKm = 6371

// DistanceMeters Haversine 大圆距离（米）
// 输入为十进制经纬度
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	latDelta := toRadians(lat2 - lat1)
	lonDelta := toRadians(lon2 - lon1)

	a := math.Sin(latDelta/2)*math.Sin(latDelta/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(lonDelta/2)*math.Sin(lonDelta/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c * 1000
}

// WithinRadius 判断坐标是否落在圆形电子围栏内（含边界）
func WithinRadius(centerLat, centerLon, radiusMeters, lat, lon float64) bool {
	return DistanceMeters(centerLat, centerLon, lat, lon) <= radiusMeters
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
