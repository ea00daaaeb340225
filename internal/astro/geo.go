// Package astro provides the celestial time engine: moon phase, qibla
// bearing, solar events and prayer schedules.
//
// Every function in this package is a pure function of its arguments.
// Nothing reads the wall clock; callers supply the instant.
package astro

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Errors returned by the engine.
var (
	// ErrInvalidInput reports a non-finite or out-of-range coordinate or an
	// unparsable timestamp.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEventUnavailable reports a solar event that does not occur on the
	// requested date at the requested place (polar day or night).
	ErrEventUnavailable = errors.New("solar event unavailable")
)

// GeoCoordinate is a position on the Earth in degrees (WGS 84).
type GeoCoordinate struct {
	Latitude  float64 `json:"lat" yaml:"lat"`
	Longitude float64 `json:"lon" yaml:"lon"`
}

// Known reference coordinates.
var (
	Mecca = GeoCoordinate{Latitude: 21.4225, Longitude: 39.8262}
	Dakar = GeoCoordinate{Latitude: 14.6937, Longitude: -17.4441}
)

// NewGeoCoordinate returns a validated coordinate.
func NewGeoCoordinate(lat, lon float64) (GeoCoordinate, error) {
	c := GeoCoordinate{Latitude: lat, Longitude: lon}
	if err := c.Validate(); err != nil {
		return GeoCoordinate{}, err
	}
	return c, nil
}

// Validate fails if either component is non-finite or out of range.
// Values are never clamped.
func (c GeoCoordinate) Validate() error {
	switch {
	case math.IsNaN(c.Latitude) || math.IsInf(c.Latitude, 0):
		return fmt.Errorf("latitude %v is not finite: %w", c.Latitude, ErrInvalidInput)
	case math.IsNaN(c.Longitude) || math.IsInf(c.Longitude, 0):
		return fmt.Errorf("longitude %v is not finite: %w", c.Longitude, ErrInvalidInput)
	case c.Latitude < -90 || c.Latitude > 90:
		return fmt.Errorf("latitude %v outside [-90, 90]: %w", c.Latitude, ErrInvalidInput)
	case c.Longitude < -180 || c.Longitude > 180:
		return fmt.Errorf("longitude %v outside [-180, 180]: %w", c.Longitude, ErrInvalidInput)
	}
	return nil
}

// String formats the coordinate as "14.6937°N, 17.4441°W".
func (c GeoCoordinate) String() string {
	ns, ew := "N", "E"
	lat, lon := c.Latitude, c.Longitude
	if lat < 0 {
		ns, lat = "S", -lat
	}
	if lon < 0 {
		ew, lon = "W", -lon
	}
	return fmt.Sprintf("%.4f°%s, %.4f°%s", lat, ns, lon, ew)
}

// ParseTimestamp accepts RFC 3339 timestamps, or a bare date
// (2006-01-02) which resolves to midnight in loc. A nil loc means UTC.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("timestamp %q is neither RFC 3339 nor YYYY-MM-DD: %w", s, ErrInvalidInput)
}
