package astro

import (
	"math"
	"time"
)

// SunPosition calculates the apparent equatorial coordinates of the Sun.
// Uses a simplified solar ephemeris based on the Astronomical Almanac.
// Accuracy: ~0.01 degrees for RA, ~0.001 degrees for Dec.
func SunPosition(t time.Time) (raDeg, decDeg float64) {
	T := julianCenturies(julianDate(t))

	// Apparent longitude (correcting for aberration and nutation)
	omega := 125.04 - 1934.136*T
	sunLonApp := sunEclipticLongitude(T) - 0.00569 - 0.00478*math.Sin(degToRad(omega))

	// Mean obliquity of the ecliptic, corrected for nutation
	eps := meanObliquity(T) + 0.00256*math.Cos(degToRad(omega))

	return eclipticToEquatorial(sunLonApp, 0, eps)
}

// sunEclipticLongitude returns the Sun's geometric ecliptic longitude in
// degrees for T Julian centuries since J2000.0.
func sunEclipticLongitude(T float64) float64 {
	L0 := normalizeAngle360(280.46646 + 36000.76983*T + 0.0003032*T*T)

	M := normalizeAngle360(357.52911 + 35999.05029*T - 0.0001537*T*T)
	Mrad := degToRad(M)

	// Equation of center
	C := (1.914602 - 0.004817*T - 0.000014*T*T) * math.Sin(Mrad)
	C += (0.019993 - 0.000101*T) * math.Sin(2*Mrad)
	C += 0.000289 * math.Sin(3*Mrad)

	return normalizeAngle360(L0 + C)
}

// meanObliquity returns the mean obliquity of the ecliptic in degrees.
func meanObliquity(T float64) float64 {
	return 23.439291 - 0.0130042*T - 0.00000016*T*T + 0.000000504*T*T*T
}

// eclipticToEquatorial converts ecliptic longitude and latitude to right
// ascension [0, 360) and declination, all in degrees.
func eclipticToEquatorial(lonDeg, latDeg, epsDeg float64) (raDeg, decDeg float64) {
	lon := degToRad(lonDeg)
	lat := degToRad(latDeg)
	eps := degToRad(epsDeg)

	ra := math.Atan2(math.Sin(lon)*math.Cos(eps)-math.Tan(lat)*math.Sin(eps), math.Cos(lon))
	dec := math.Asin(math.Sin(lat)*math.Cos(eps) + math.Cos(lat)*math.Sin(eps)*math.Sin(lon))

	return normalizeAngle360(radToDeg(ra)), radToDeg(dec)
}

// AngularSeparation calculates the angular separation between two points on
// a sphere. All coordinates in degrees. Returns separation in degrees.
func AngularSeparation(ra1, dec1, ra2, dec2 float64) float64 {
	ra1Rad := degToRad(ra1)
	dec1Rad := degToRad(dec1)
	ra2Rad := degToRad(ra2)
	dec2Rad := degToRad(dec2)

	// Haversine formula
	dRA := ra2Rad - ra1Rad
	dDec := dec2Rad - dec1Rad

	a := math.Sin(dDec/2)*math.Sin(dDec/2) +
		math.Cos(dec1Rad)*math.Cos(dec2Rad)*math.Sin(dRA/2)*math.Sin(dRA/2)

	if a > 1 {
		a = 1
	}

	return radToDeg(2 * math.Asin(math.Sqrt(a)))
}

// SunAltitude returns the Sun's elevation above the horizon in degrees.
func SunAltitude(t time.Time, obs GeoCoordinate) float64 {
	ra, dec := SunPosition(t)
	return EquatorialToHorizontal(SkyCoord{RAdeg: ra, DecDeg: dec}, obs, t).ElDeg
}
