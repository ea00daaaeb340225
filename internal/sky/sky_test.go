package sky

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-qamar/internal/astro"
	"github.com/litescript/ls-qamar/internal/calendar"
)

var dakar = Place{Name: "Dakar", Coord: astro.Dakar, Location: time.UTC}

func TestCompute(t *testing.T) {
	now := time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC)
	r, err := Compute(now, dakar, astro.Mecca)
	require.NoError(t, err)

	assert.Equal(t, astro.Bearing(74), r.Qibla)
	assert.Equal(t, calendar.HijriDate{Year: 1445, Month: 9, Day: 10}, r.Hijri)
	assert.Equal(t, "Mars 2024", r.Month)
	assert.Equal(t, astro.JuneSolstice, r.Season.Kind)
	assert.InDelta(t, 6070, r.QiblaDistKm, 100)

	require.True(t, r.HasNext)
	assert.Equal(t, astro.Dhuhr, r.Next.Prayer)
	assert.False(t, r.Next.Tomorrow)

	d, ok := r.Until()
	require.True(t, ok)
	assert.Greater(t, d, 3*time.Hour)
	assert.Less(t, d, 4*time.Hour)
}

func TestComputeAfterIsha(t *testing.T) {
	r, err := Compute(time.Date(2024, 3, 20, 23, 30, 0, 0, time.UTC), dakar, astro.Mecca)
	require.NoError(t, err)
	require.True(t, r.HasNext)
	assert.Equal(t, astro.Fajr, r.Next.Prayer)
	assert.True(t, r.Next.Tomorrow)
}

func TestComputeInvalidPlace(t *testing.T) {
	bad := Place{Name: "nowhere", Coord: astro.GeoCoordinate{Latitude: 123}}
	_, err := Compute(time.Now(), bad, astro.Mecca)
	assert.ErrorIs(t, err, astro.ErrInvalidInput)
}

func TestComputePolarNight(t *testing.T) {
	arctic := Place{Name: "Arctic", Coord: astro.GeoCoordinate{Latitude: 89}, Location: time.UTC}
	r, err := Compute(time.Date(2024, 12, 21, 6, 0, 0, 0, time.UTC), arctic, astro.Mecca)
	require.NoError(t, err)

	e := Export(r)
	clocks := map[string]string{}
	for _, p := range e.Prayers {
		clocks[p.Name] = p.Clock
		if p.Clock == astro.UnavailableText {
			assert.Nil(t, p.At, p.Name)
		}
	}
	assert.Equal(t, astro.UnavailableText, clocks["Fajr"])
	assert.NotEqual(t, astro.UnavailableText, clocks["Dhuhr"])
}

func TestExportJSON(t *testing.T) {
	r, err := Compute(time.Date(2024, 1, 25, 18, 0, 0, 0, time.UTC), dakar, astro.Mecca)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Export(r).WriteJSON(&buf))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	moon := decoded["moon"].(map[string]any)
	assert.Equal(t, "Full Moon", moon["phase"])
	qibla := decoded["qibla"].(map[string]any)
	assert.EqualValues(t, 74, qibla["bearing"])
	assert.Equal(t, "ENE", qibla["cardinal"])
	assert.Len(t, decoded["prayers"], 5)
	assert.Contains(t, decoded, "next_prayer")
}

func TestExportNil(t *testing.T) {
	assert.NotNil(t, Export(nil))
}

func TestWriteSummaryAndNow(t *testing.T) {
	r, err := Compute(time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC), dakar, astro.Mecca)
	require.NoError(t, err)

	var buf bytes.Buffer
	WriteSummary(&buf, r)
	out := buf.String()
	assert.Contains(t, out, "Qibla")
	assert.Contains(t, out, "74° ENE")
	assert.Contains(t, out, "10 Ramadan 1445 AH")
	assert.Contains(t, out, "▶ Dhuhr")

	buf.Reset()
	WriteNow(&buf, r)
	line := buf.String()
	assert.True(t, strings.HasSuffix(line, "\n"))
	assert.Equal(t, 1, strings.Count(line, "\n"))
	assert.Contains(t, line, "qibla 74° ENE")
	assert.Contains(t, line, "Dhuhr")
}

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0m"},
		{-time.Minute, "0m"},
		{12 * time.Minute, "12m"},
		{2*time.Hour + 5*time.Minute, "2h05m"},
		{59*time.Minute + 40*time.Second, "1h00m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCountdown(tt.d), tt.d.String())
	}
}

func TestLoadLocation(t *testing.T) {
	assert.Equal(t, time.UTC, LoadLocation(""))
	assert.Equal(t, time.UTC, LoadLocation("Not/AZone"))
}
