// Package geo holds the great-circle math used to score worker/job proximity.
package geo

import "math"

// EarthRadiusMeters is the mean Earth radius used by the Haversine formula.
const EarthRadiusMeters = 6371e3

const metersPerDegreeLat = EarthRadiusMeters * math.Pi / 180

type Point struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

func (p Point) Valid() bool {
	if math.IsNaN(p.Longitude) || math.IsNaN(p.Latitude) {
		return false
	}
	return p.Longitude >= -180 && p.Longitude <= 180 && p.Latitude >= -90 && p.Latitude <= 90
}

// DistanceMeters returns the Haversine distance between a and b.
func DistanceMeters(a, b Point) float64 {
	phi1 := toRadians(a.Latitude)
	phi2 := toRadians(b.Latitude)
	dPhi := toRadians(b.Latitude - a.Latitude)
	dLambda := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	if h > 1 {
		h = 1
	}
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

func Within(a, b Point, radiusKm float64) bool {
	if radiusKm <= 0 {
		return false
	}
	return DistanceMeters(a, b) <= radiusKm*1000
}

// Box is a lat/lon envelope. It is only a coarse prefilter for store queries;
// callers still check Within on the rows it returns.
type Box struct {
	MinLongitude float64
	MinLatitude  float64
	MaxLongitude float64
	MaxLatitude  float64
}

func BoundingBox(center Point, radiusKm float64) Box {
	if radiusKm < 0 {
		radiusKm = 0
	}
	dLat := radiusKm * 1000 / metersPerDegreeLat

	minLat := math.Max(center.Latitude-dLat, -90)
	maxLat := math.Min(center.Latitude+dLat, 90)

	// Near the poles a longitude span stops being meaningful.
	cosLat := math.Cos(toRadians(center.Latitude))
	if minLat <= -90 || maxLat >= 90 || cosLat < 1e-9 {
		return Box{MinLongitude: -180, MinLatitude: minLat, MaxLongitude: 180, MaxLatitude: maxLat}
	}

	dLon := dLat / cosLat
	minLon := center.Longitude - dLon
	maxLon := center.Longitude + dLon
	if minLon < -180 || maxLon > 180 {
		// TODO: split antimeridian-crossing boxes into two ranges instead of widening to the full band.
		minLon, maxLon = -180, 180
	}

	return Box{MinLongitude: minLon, MinLatitude: minLat, MaxLongitude: maxLon, MaxLatitude: maxLat}
}

func (b Box) Contains(p Point) bool {
	return p.Latitude >= b.MinLatitude && p.Latitude <= b.MaxLatitude &&
		p.Longitude >= b.MinLongitude && p.Longitude <= b.MaxLongitude
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
