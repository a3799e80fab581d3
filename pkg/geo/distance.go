// Package geo holds the great-circle math behind safe-zone containment.
package geo

import "math"

const EarthRadiusMeters = 6371000.0

type Circle struct {
	CenterLatitude  float64
	CenterLongitude float64
	RadiusMeters    float64
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// DistanceMeters is the haversine distance between two WGS84 coordinates.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := toRadians(lat1)
	lat2Rad := toRadians(lat2)
	deltaLat := toRadians(lat2 - lat1)
	deltaLon := toRadians(lon2 - lon1)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	// rounding can push a past 1 for antipodal points
	a = math.Min(1, math.Max(0, a))

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// IsInsideCircle counts the boundary itself as inside.
func IsInsideCircle(pointLat, pointLon, centerLat, centerLon, radiusMeters float64) bool {
	return DistanceMeters(pointLat, pointLon, centerLat, centerLon) <= radiusMeters
}

// InsideAny is the union test: one containing circle is enough.
func InsideAny(pointLat, pointLon float64, circles []Circle) bool {
	for _, c := range circles {
		if IsInsideCircle(pointLat, pointLon, c.CenterLatitude, c.CenterLongitude, c.RadiusMeters) {
			return true
		}
	}
	return false
}
