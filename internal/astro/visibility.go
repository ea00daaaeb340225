package astro

import (
	"errors"
	"math"
	"time"
)

// ElevationSample is a body's elevation at one instant.
type ElevationSample struct {
	Time  time.Time
	ElDeg float64
}

// VisibilityWindow is one rise-transit-set cycle of a body over a day.
type VisibilityWindow struct {
	Rise         Moment
	Transit      Moment
	Set          Moment
	MaxElevation float64

	AlwaysUp   bool // above the threshold for every sample
	AlwaysDown bool // below the threshold for every sample
}

// MoonHorizon is the Moon's apparent rise/set altitude: refraction less
// the mean semidiameter, plus horizontal parallax.
const MoonHorizon = 0.125

// moonSampleStep keeps interpolation error under a minute.
const moonSampleStep = 10 * time.Minute

// ErrInsufficientSamples is returned when fewer than three samples exist.
var ErrInsufficientSamples = errors.New("insufficient samples for visibility calculation")

// RiseSet finds the first upward and downward crossings of threshold in
// chronologically ordered samples, and the refined peak.
func RiseSet(samples []ElevationSample, threshold float64) (VisibilityWindow, error) {
	if len(samples) < 3 {
		return VisibilityWindow{}, ErrInsufficientSamples
	}

	minEl, maxEl := 90.0, -90.0
	for _, s := range samples {
		minEl = math.Min(minEl, s.ElDeg)
		maxEl = math.Max(maxEl, s.ElDeg)
	}

	transit, peak := peakElevation(samples)
	w := VisibilityWindow{MaxElevation: peak, Transit: At(transit)}

	switch {
	case minEl > threshold:
		w.AlwaysUp = true
		return w, nil
	case maxEl < threshold:
		w.AlwaysDown = true
		w.Transit = Unavailable()
		return w, nil
	}

	for i := 1; i < len(samples); i++ {
		prev, curr := samples[i-1], samples[i]
		if !w.Rise.Available() && prev.ElDeg <= threshold && curr.ElDeg > threshold {
			w.Rise = At(interpolateCrossing(prev.Time, curr.Time, prev.ElDeg, curr.ElDeg, threshold))
		}
		if !w.Set.Available() && prev.ElDeg > threshold && curr.ElDeg <= threshold {
			w.Set = At(interpolateCrossing(prev.Time, curr.Time, prev.ElDeg, curr.ElDeg, threshold))
		}
	}
	return w, nil
}

// MoonRiseSet samples the Moon's topocentric-ish elevation across the
// calendar day of date (in date's location) and returns its window.
// Moments are in date's location.
func MoonRiseSet(date time.Time, observer GeoCoordinate) (VisibilityWindow, error) {
	if err := observer.Validate(); err != nil {
		return VisibilityWindow{}, err
	}
	loc := date.Location()
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)

	var samples []ElevationSample
	for t := start; !t.After(end); t = t.Add(moonSampleStep) {
		samples = append(samples, ElevationSample{Time: t, ElDeg: MoonElevation(t, observer)})
	}

	w, err := RiseSet(samples, MoonHorizon)
	if err != nil {
		return VisibilityWindow{}, err
	}
	w.Rise = w.Rise.In(loc)
	w.Transit = w.Transit.In(loc)
	w.Set = w.Set.In(loc)
	return w, nil
}

// MoonElevation returns the Moon's elevation in degrees, corrected for
// horizontal parallax.
func MoonElevation(t time.Time, observer GeoCoordinate) float64 {
	pos := MoonPosition(t)
	el := EquatorialToHorizontal(pos, observer, t).ElDeg
	parallax := radToDeg(math.Asin(EarthRadiusKm / pos.RangeKm))
	return el - parallax*math.Cos(degToRad(el))
}

// peakElevation returns the refined time and elevation of the maximum.
func peakElevation(samples []ElevationSample) (time.Time, float64) {
	idx := 0
	for i, s := range samples {
		if s.ElDeg > samples[idx].ElDeg {
			idx = i
		}
	}
	if idx == 0 || idx == len(samples)-1 {
		return samples[idx].Time, samples[idx].ElDeg
	}

	// Parabola through the three samples around the peak, t in {-1, 0, 1}.
	y0, y1, y2 := samples[idx-1].ElDeg, samples[idx].ElDeg, samples[idx+1].ElDeg
	a := (y0+y2)/2 - y1
	b := (y2 - y0) / 2
	if a >= 0 {
		return samples[idx].Time, y1
	}
	tMax := math.Max(-1, math.Min(1, -b/(2*a)))
	dt := samples[idx].Time.Sub(samples[idx-1].Time)
	return samples[idx].Time.Add(time.Duration(float64(dt) * tMax)), a*tMax*tMax + b*tMax + y1
}

// interpolateCrossing finds the time when elevation crosses a threshold.
func interpolateCrossing(t1, t2 time.Time, el1, el2, threshold float64) time.Time {
	if math.Abs(el2-el1) < 0.0001 {
		return t1
	}
	fraction := (threshold - el1) / (el2 - el1)
	fraction = math.Max(0, math.Min(1, fraction))
	return t1.Add(time.Duration(float64(t2.Sub(t1)) * fraction))
}

// ElevationTier categorizes elevation for display.
type ElevationTier int

const (
	ElevationNone   ElevationTier = iota // below horizon
	ElevationLow                         // 0-15 degrees
	ElevationMedium                      // 15-45 degrees
	ElevationHigh                        // 45+ degrees
)

// GetElevationTier returns the tier for a given elevation.
func GetElevationTier(elDeg float64) ElevationTier {
	switch {
	case elDeg <= 0:
		return ElevationNone
	case elDeg < 15:
		return ElevationLow
	case elDeg < 45:
		return ElevationMedium
	default:
		return ElevationHigh
	}
}
