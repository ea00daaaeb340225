package astro

import "math"

// EarthRadiusKm is the mean Earth radius (IUGG).
const EarthRadiusKm = 6371.0088

// coincidentDeg is the separation below which two points are the same place.
const coincidentDeg = 1e-9

// Bearing is a compass direction in whole degrees, clockwise from true
// north, in [0, 360).
type Bearing int

// Cardinal returns the nearest of the 16 compass points.
func (b Bearing) Cardinal() string {
	points := [...]string{
		"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
		"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
	}
	idx := int(math.Round(float64(b)/22.5)) % len(points)
	return points[idx]
}

// ComputeBearing returns the initial great-circle bearing from observer to
// target on a spherical Earth.
//
// When observer and target are the same physical point the direction is
// undefined; the result is 0 and no error is returned. This includes one
// meridian written as both 180 and -180, and a pole reached at any longitude.
func ComputeBearing(observer, target GeoCoordinate) (Bearing, error) {
	if err := observer.Validate(); err != nil {
		return 0, err
	}
	if err := target.Validate(); err != nil {
		return 0, err
	}
	if AngularSeparation(observer.Longitude, observer.Latitude, target.Longitude, target.Latitude) <= coincidentDeg {
		return 0, nil
	}

	phi1 := degToRad(observer.Latitude)
	phi2 := degToRad(target.Latitude)
	dLambda := degToRad(target.Longitude - observer.Longitude)

	y := math.Sin(dLambda)
	x := math.Cos(phi1)*math.Tan(phi2) - math.Sin(phi1)*math.Cos(dLambda)

	theta := math.Mod(radToDeg(math.Atan2(y, x))+360, 360)
	if math.IsNaN(theta) {
		return 0, nil
	}
	deg := int(math.Round(theta))
	if deg == 360 {
		deg = 0
	}
	return Bearing(deg), nil
}

// GreatCircleDistanceKm returns the haversine distance between two points.
func GreatCircleDistanceKm(a, b GeoCoordinate) float64 {
	return degToRad(AngularSeparation(a.Longitude, a.Latitude, b.Longitude, b.Latitude)) * EarthRadiusKm
}
