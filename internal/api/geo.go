package api

import "math"

const earthRadiusKm = 6371

// DistanceKm returns the haversine great-circle distance between two
// lat/lng pairs in kilometres.
func DistanceKm(aLat, aLng, bLat, bLng float64) float64 {
	dLat := toRad(bLat - aLat)
	dLng := toRad(bLng - aLng)
	la1 := toRad(aLat)
	la2 := toRad(bLat)
	x := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(la1)*math.Cos(la2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(x), math.Sqrt(1-x))
}

func toRad(d float64) float64 { return d * math.Pi / 180 }
