package astro

import (
	"math"
	"time"
)

// SynodicMonth is the mean length of the lunar cycle in days.
const SynodicMonth = 29.530588853

// MoonIllumination describes the Moon's phase at an instant.
type MoonIllumination struct {
	// PhaseFraction is the fraction of the synodic month elapsed since the
	// last new moon, in [0, 1): 0 new, ~0.5 full.
	PhaseFraction float64 `json:"phase_fraction"`

	// IlluminatedFraction is the lit fraction of the disc, in [0, 1].
	IlluminatedFraction float64 `json:"illuminated_fraction"`
}

// AgeDays is the approximate number of days since the last new moon.
func (m MoonIllumination) AgeDays() float64 {
	return m.PhaseFraction * SynodicMonth
}

// Waxing reports whether the lit fraction is growing.
func (m MoonIllumination) Waxing() bool {
	return m.PhaseFraction < 0.5
}

// PhaseLabel names one of the eight conventional lunar phases.
type PhaseLabel int

const (
	NewMoon PhaseLabel = iota
	FirstCrescent
	FirstQuarter
	WaxingGibbous
	FullMoon
	WaningGibbous
	LastQuarter
	LastCrescent
)

var phaseNames = [...]string{
	NewMoon:       "New Moon",
	FirstCrescent: "First Crescent",
	FirstQuarter:  "First Quarter",
	WaxingGibbous: "Waxing Gibbous",
	FullMoon:      "Full Moon",
	WaningGibbous: "Waning Gibbous",
	LastQuarter:   "Last Quarter",
	LastCrescent:  "Last Crescent",
}

func (p PhaseLabel) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "Unknown"
	}
	return phaseNames[p]
}

// MarshalText implements encoding.TextMarshaler.
func (p PhaseLabel) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// phaseThresholds are exclusive upper bounds, checked in order.
var phaseThresholds = []struct {
	upper float64
	label PhaseLabel
}{
	{0.03, NewMoon},
	{0.22, FirstCrescent},
	{0.28, FirstQuarter},
	{0.47, WaxingGibbous},
	{0.53, FullMoon},
	{0.72, WaningGibbous},
	{0.78, LastQuarter},
	{0.97, LastCrescent},
}

// ClassifyPhaseFraction maps a phase fraction in [0, 1) to its label.
func ClassifyPhaseFraction(phase float64) PhaseLabel {
	for _, th := range phaseThresholds {
		if phase < th.upper {
			return th.label
		}
	}
	return NewMoon
}

// MoonIlluminationAt computes the phase and lit fraction from the geocentric
// elongation of the Moon from the Sun along the ecliptic.
func MoonIlluminationAt(t time.Time) MoonIllumination {
	T := julianCenturies(julianDate(t))

	elongation := normalizeAngle360(moonEclipticLongitude(T) - sunEclipticLongitude(T))
	phase := elongation / 360
	if phase >= 1 {
		phase = 0
	}

	return MoonIllumination{
		PhaseFraction:       phase,
		IlluminatedFraction: (1 - math.Cos(degToRad(elongation))) / 2,
	}
}

// ClassifyMoonPhase returns the phase label and the illuminated percentage
// (0-100) at t.
func ClassifyMoonPhase(t time.Time) (PhaseLabel, int) {
	m := MoonIlluminationAt(t)
	return ClassifyPhaseFraction(m.PhaseFraction), int(math.Round(m.IlluminatedFraction * 100))
}

// MoonPosition returns the Moon's geocentric equatorial position of date.
// Distance is filled in RangeKm.
func MoonPosition(t time.Time) SkyCoord {
	T := julianCenturies(julianDate(t))
	ra, dec := eclipticToEquatorial(moonEclipticLongitude(T), moonEclipticLatitude(T), meanObliquity(T))
	return SkyCoord{RAdeg: ra, DecDeg: dec, RangeKm: moonDistanceKm(T)}
}

// Fundamental lunar arguments in degrees (Meeus ch. 47).
func moonMeanLongitude(T float64) float64 {
	return 218.3164477 + 481267.88123421*T - 0.0015786*T*T + T*T*T/538841 - T*T*T*T/65194000
}

func moonMeanElongation(T float64) float64 {
	return 297.8501921 + 445267.1114034*T - 0.0018819*T*T + T*T*T/545868 - T*T*T*T/113065000
}

func moonMeanAnomaly(T float64) float64 {
	return 134.9633964 + 477198.8675055*T + 0.0087414*T*T + T*T*T/69699 - T*T*T*T/14712000
}

func moonArgumentOfLatitude(T float64) float64 {
	return 93.2720950 + 483202.0175233*T - 0.0036539*T*T - T*T*T/3526000 + T*T*T*T/863310000
}

func sunMeanAnomaly(T float64) float64 {
	return 357.5291092 + 35999.0502909*T - 0.0001536*T*T + T*T*T/24490000
}

// eccentricityFactor scales terms that involve the Sun's anomaly.
func eccentricityFactor(T float64) float64 {
	return 1 - 0.002516*T - 0.0000074*T*T
}

// moonEclipticLongitude sums the periodic terms of Meeus table 47.A with
// amplitudes above 0.03°.
func moonEclipticLongitude(T float64) float64 {
	D := degToRad(normalizeAngle360(moonMeanElongation(T)))
	M := degToRad(normalizeAngle360(sunMeanAnomaly(T)))
	Mp := degToRad(normalizeAngle360(moonMeanAnomaly(T)))
	F := degToRad(normalizeAngle360(moonArgumentOfLatitude(T)))
	E := eccentricityFactor(T)

	lon := moonMeanLongitude(T) +
		6.288774*math.Sin(Mp) +
		1.274027*math.Sin(2*D-Mp) +
		0.658314*math.Sin(2*D) +
		0.213618*math.Sin(2*Mp) -
		0.185116*E*math.Sin(M) -
		0.114332*math.Sin(2*F) +
		0.058793*math.Sin(2*D-2*Mp) +
		0.057066*E*math.Sin(2*D-M-Mp) +
		0.053322*math.Sin(2*D+Mp) +
		0.045758*E*math.Sin(2*D-M) -
		0.040923*E*math.Sin(M-Mp) -
		0.034720*math.Sin(D) -
		0.030383*E*math.Sin(M+Mp)

	return normalizeAngle360(lon)
}

// moonEclipticLatitude sums the leading terms of Meeus table 47.B.
func moonEclipticLatitude(T float64) float64 {
	F := degToRad(normalizeAngle360(moonArgumentOfLatitude(T)))
	D := degToRad(normalizeAngle360(moonMeanElongation(T)))
	Mp := degToRad(normalizeAngle360(moonMeanAnomaly(T)))

	return 5.128122*math.Sin(F) +
		0.280602*math.Sin(Mp+F) +
		0.277693*math.Sin(Mp-F) +
		0.173237*math.Sin(2*D-F) +
		0.055413*math.Sin(2*D-Mp+F) +
		0.046271*math.Sin(2*D-Mp-F)
}

func moonDistanceKm(T float64) float64 {
	D := degToRad(normalizeAngle360(moonMeanElongation(T)))
	Mp := degToRad(normalizeAngle360(moonMeanAnomaly(T)))

	return 385000.56 -
		20905.355*math.Cos(Mp) -
		3699.111*math.Cos(2*D-Mp) -
		2955.968*math.Cos(2*D) -
		569.925*math.Cos(2*Mp)
}
