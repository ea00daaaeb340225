package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-qamar/internal/astro"
	"github.com/litescript/ls-qamar/internal/dashboard"
	"github.com/litescript/ls-qamar/internal/sky"
	"github.com/litescript/ls-qamar/internal/store"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type tokens map[string]string

func (t tokens) Verify(token string) (string, error) {
	if sub, ok := t[token]; ok {
		return sub, nil
	}
	return "", errors.New("invalid token")
}

var fixedNow = time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

func newTestServer(ds store.DataStore) *gin.Engine {
	return New(Options{
		Place:    sky.Place{Name: "Dakar", Coord: astro.Dakar, Location: time.UTC},
		Store:    ds,
		Verifier: tokens{"tok-1": "u-1"},
		Now:      func() time.Time { return fixedNow },
	}).Handler()
}

func do(t *testing.T, h http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHealthz(t *testing.T) {
	w := do(t, newTestServer(nil), http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestQibla(t *testing.T) {
	h := newTestServer(nil)

	w := do(t, h, http.MethodGet, "/api/qibla", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got qiblaResponse
	decode(t, w, &got)
	assert.Equal(t, 74, got.Bearing)
	assert.Equal(t, "ENE", got.Cardinal)
	assert.Equal(t, astro.Mecca, got.To)

	w = do(t, h, http.MethodGet, "/api/qibla?lat=21.4225&lon=39.8262", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &got)
	assert.Equal(t, 0, got.Bearing)
	assert.Zero(t, got.DistanceKm)
}

func TestBadInput(t *testing.T) {
	h := newTestServer(nil)
	for _, target := range []string{
		"/api/qibla?lat=100&lon=0",
		"/api/qibla?lat=10",
		"/api/moon?lat=abc&lon=0",
		"/api/prayers?tz=Mars/Olympus",
		"/api/sky?date=yesterday",
		"/api/sites?lat=0&lon=181",
	} {
		t.Run(target, func(t *testing.T) {
			w := do(t, h, http.MethodGet, target, "", "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			var body map[string]string
			decode(t, w, &body)
			assert.Contains(t, body["error"], "invalid input")
		})
	}
}

func TestPrayers(t *testing.T) {
	h := newTestServer(nil)

	w := do(t, h, http.MethodGet, "/api/prayers?date=2024-03-10&tz=UTC", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got prayersResponse
	decode(t, w, &got)
	assert.Equal(t, "2024-03-10", got.Date)
	assert.Equal(t, "UTC", got.TimeZone)
	assert.Len(t, got.Times, 5)
	assert.Empty(t, got.Unavailable)
	assert.Equal(t, "Fajr", got.Next, "midnight comes before every prayer")

	w = do(t, h, http.MethodGet, "/api/prayers?lat=89&lon=0&date=2024-12-21", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &got)
	assert.Equal(t, []string{"Fajr", "Asr", "Maghrib", "Isha"}, got.Unavailable)
	assert.Equal(t, astro.UnavailableText, got.Times["Isha"])
	assert.NotEqual(t, astro.UnavailableText, got.Times["Dhuhr"])
}

func TestMoon(t *testing.T) {
	w := do(t, newTestServer(nil), http.MethodGet, "/api/moon?date=2024-01-25T17:54:00Z", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got moonResponse
	decode(t, w, &got)
	assert.Equal(t, "Full Moon", got.Phase)
	assert.GreaterOrEqual(t, got.Illumination, 99)
	assert.InDelta(t, 0.5, got.PhaseFraction, 0.02)
}

func TestSky(t *testing.T) {
	w := do(t, newTestServer(nil), http.MethodGet, "/api/sky", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got sky.ReportExport
	decode(t, w, &got)
	assert.Equal(t, "Dakar", got.Place.Name)
	assert.Equal(t, 74, got.Qibla.Bearing)
	assert.Len(t, got.Prayers, 5)
	assert.True(t, got.Timestamp.Equal(fixedNow))
}

func TestSitesSorted(t *testing.T) {
	w := do(t, newTestServer(nil), http.MethodGet, "/api/sites?sort=distance", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got []struct {
		Name string `json:"name"`
	}
	decode(t, w, &got)
	require.Len(t, got, 12)
	assert.Equal(t, "Grande Mosquée de Djenné", got[0].Name)
}

func TestCalendar(t *testing.T) {
	w := do(t, newTestServer(nil), http.MethodGet, "/api/calendar", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got calendarResponse
	decode(t, w, &got)
	assert.Equal(t, "Mars 2024", got.Title)
	assert.Len(t, got.Days, 31)
	assert.True(t, got.Days[9].IsToday)
}

func TestContentRoutesNeedStore(t *testing.T) {
	w := do(t, newTestServer(nil), http.MethodGet, "/api/articles", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestJournalRoutes(t *testing.T) {
	h := newTestServer(store.NewMemoryStore())

	w := do(t, h, http.MethodGet, "/api/journal", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = do(t, h, http.MethodGet, "/api/journal", "forged", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, h, http.MethodPost, "/api/journal", "tok-1", `{"title":"","content":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/api/journal", "tok-1",
		`{"title":"Hilal","content":"Premier croissant","observation_type":"celestial"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, h, http.MethodGet, "/api/journal", "tok-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var entries []struct {
		Title           string `json:"title"`
		UserID          string `json:"user_id"`
		ObservationType string `json:"observation_type"`
	}
	decode(t, w, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, "Hilal", entries[0].Title)
	assert.Equal(t, "u-1", entries[0].UserID)
	assert.Equal(t, "celestial", entries[0].ObservationType)
}

func TestWeekendRoutes(t *testing.T) {
	ds := store.NewMemoryStore()
	require.NoError(t, ds.Insert(t.Context(), store.TableWeekends,
		dashboard.Weekend{Title: "Passé", StartDate: fixedNow.Add(-48 * time.Hour)},
		dashboard.Weekend{Title: "Bientôt", StartDate: fixedNow.Add(42 * time.Hour)},
	))
	h := newTestServer(ds)

	w := do(t, h, http.MethodGet, "/api/weekends", "tok-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got []struct {
		Title     string `json:"title"`
		Available bool   `json:"available"`
		Countdown string `json:"countdown"`
	}
	decode(t, w, &got)
	require.Len(t, got, 2)
	assert.Equal(t, "Bientôt", got[0].Title)
	assert.False(t, got[0].Available)
	assert.Equal(t, "2 jours et 18 heures", got[0].Countdown)
	assert.True(t, got[1].Available)
	assert.Empty(t, got[1].Countdown)
}

func TestCORS(t *testing.T) {
	h := New(Options{CORSOrigins: []string{"https://qamar.example"}}).Handler()
	req := httptest.NewRequest(http.MethodOptions, "/api/moon", nil)
	req.Header.Set("Origin", "https://qamar.example")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "https://qamar.example", w.Header().Get("Access-Control-Allow-Origin"))
}
