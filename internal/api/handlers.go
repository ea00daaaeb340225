package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/litescript/ls-qamar/internal/astro"
	"github.com/litescript/ls-qamar/internal/auth"
	"github.com/litescript/ls-qamar/internal/calendar"
	"github.com/litescript/ls-qamar/internal/content"
	"github.com/litescript/ls-qamar/internal/dashboard"
	"github.com/litescript/ls-qamar/internal/quiz"
	"github.com/litescript/ls-qamar/internal/sky"
	"github.com/litescript/ls-qamar/internal/store"
)

// request reads lat, lon, tz and date. Missing values fall back to the
// configured place and the current time.
func (s *Server) request(c *gin.Context) (sky.Place, time.Time, error) {
	place := s.opts.Place

	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr != "" || lonStr != "" {
		if latStr == "" || lonStr == "" {
			return place, time.Time{}, fmt.Errorf("lat and lon must be given together: %w", astro.ErrInvalidInput)
		}
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return place, time.Time{}, fmt.Errorf("lat %q: %w", latStr, astro.ErrInvalidInput)
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return place, time.Time{}, fmt.Errorf("lon %q: %w", lonStr, astro.ErrInvalidInput)
		}
		coord, err := astro.NewGeoCoordinate(lat, lon)
		if err != nil {
			return place, time.Time{}, err
		}
		place.Coord = coord
		place.Name = coord.String()
	}

	if tz := c.Query("tz"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return place, time.Time{}, fmt.Errorf("tz %q: %w", tz, astro.ErrInvalidInput)
		}
		place.Location = loc
	}

	now := s.opts.Now()
	if d := c.Query("date"); d != "" {
		t, err := astro.ParseTimestamp(d, place.Location)
		if err != nil {
			return place, time.Time{}, err
		}
		now = t
	}
	return place, now.In(place.Location), nil
}

func computeError(err error) *Error {
	if errors.Is(err, astro.ErrInvalidInput) {
		return badRequest(err)
	}
	return &Error{Code: http.StatusInternalServerError, Message: err.Error()}
}

func storeError(err error) *Error {
	switch {
	case errors.Is(err, auth.ErrNotAuthenticated), errors.Is(err, store.ErrUnauthorized):
		return &Error{Code: http.StatusUnauthorized, Message: err.Error()}
	case errors.Is(err, store.ErrNotFound):
		return &Error{Code: http.StatusNotFound, Message: err.Error()}
	}
	return &Error{Code: http.StatusBadGateway, Message: err.Error()}
}

// GET /api/sky
func (s *Server) getSky(c *gin.Context) (any, *Error) {
	place, now, err := s.request(c)
	if err != nil {
		return nil, badRequest(err)
	}
	r, err := sky.Compute(now, place, s.opts.Target)
	if err != nil {
		return nil, computeError(err)
	}
	return sky.Export(r), nil
}

type moonResponse struct {
	At            time.Time `json:"at"`
	Phase         string    `json:"phase"`
	Illumination  int       `json:"illumination_percent"`
	PhaseFraction float64   `json:"phase_fraction"`
	AgeDays       float64   `json:"age_days"`
	Waxing        bool      `json:"waxing"`
	Rise          string    `json:"rise"`
	Set           string    `json:"set"`
}

// GET /api/moon
func (s *Server) getMoon(c *gin.Context) (any, *Error) {
	place, now, err := s.request(c)
	if err != nil {
		return nil, badRequest(err)
	}
	win, err := astro.MoonRiseSet(now, place.Coord)
	if err != nil {
		return nil, computeError(err)
	}
	ill := astro.MoonIlluminationAt(now)
	phase, pct := astro.ClassifyMoonPhase(now)
	return moonResponse{
		At:            now,
		Phase:         phase.String(),
		Illumination:  pct,
		PhaseFraction: ill.PhaseFraction,
		AgeDays:       ill.AgeDays(),
		Waxing:        ill.Waxing(),
		Rise:          win.Rise.Clock(place.Location),
		Set:           win.Set.Clock(place.Location),
	}, nil
}

type qiblaResponse struct {
	From       astro.GeoCoordinate `json:"from"`
	To         astro.GeoCoordinate `json:"to"`
	Bearing    int                 `json:"bearing"`
	Cardinal   string              `json:"cardinal"`
	DistanceKm float64             `json:"distance_km"`
}

// GET /api/qibla
func (s *Server) getQibla(c *gin.Context) (any, *Error) {
	place, _, err := s.request(c)
	if err != nil {
		return nil, badRequest(err)
	}
	b, err := astro.ComputeBearing(place.Coord, s.opts.Target)
	if err != nil {
		return nil, computeError(err)
	}
	return qiblaResponse{
		From:       place.Coord,
		To:         s.opts.Target,
		Bearing:    int(b),
		Cardinal:   b.Cardinal(),
		DistanceKm: astro.GreatCircleDistanceKm(place.Coord, s.opts.Target),
	}, nil
}

type prayersResponse struct {
	Date        string            `json:"date"`
	TimeZone    string            `json:"tz"`
	Times       map[string]string `json:"times"`
	Unavailable []string          `json:"unavailable"`
	Next        string            `json:"next,omitempty"`
}

// GET /api/prayers
func (s *Server) getPrayers(c *gin.Context) (any, *Error) {
	place, now, err := s.request(c)
	if err != nil {
		return nil, badRequest(err)
	}
	ps, err := astro.ComputePrayerSchedule(now, place.Coord)
	if err != nil {
		return nil, computeError(err)
	}
	resp := prayersResponse{
		Date:        now.Format("2006-01-02"),
		TimeZone:    place.Location.String(),
		Times:       ps.Clocks(),
		Unavailable: []string{},
	}
	for _, p := range ps.Unavailable() {
		resp.Unavailable = append(resp.Unavailable, p.String())
	}
	if p, _, ok := ps.Next(now); ok {
		resp.Next = p.String()
	}
	return resp, nil
}

// GET /api/sites
func (s *Server) getSites(c *gin.Context) (any, *Error) {
	place, _, err := s.request(c)
	if err != nil {
		return nil, badRequest(err)
	}
	views, err := content.SitesFrom(place.Coord)
	if err != nil {
		return nil, computeError(err)
	}
	if c.Query("sort") == "distance" {
		views = content.ByDistance(views)
	}
	return views, nil
}

type calendarDay struct {
	Day     int                `json:"day"`
	Hijri   calendar.HijriDate `json:"hijri"`
	IsToday bool               `json:"is_today,omitempty"`
}

type calendarResponse struct {
	Title string             `json:"title"`
	Today calendar.HijriDate `json:"today"`
	Days  []calendarDay      `json:"days"`
}

// GET /api/calendar
func (s *Server) getCalendar(c *gin.Context) (any, *Error) {
	_, now, err := s.request(c)
	if err != nil {
		return nil, badRequest(err)
	}
	grid := calendar.MonthGrid(calendar.MonthOf(now), now)
	resp := calendarResponse{Title: grid.Month.String(), Today: calendar.ToHijri(now)}
	for _, week := range grid.Weeks {
		for _, cell := range week {
			if cell.Blank {
				continue
			}
			resp.Days = append(resp.Days, calendarDay{Day: cell.Day, Hijri: cell.Hijri, IsToday: cell.IsToday})
		}
	}
	return resp, nil
}

// GET /api/articles
func (s *Server) getArticles(c *gin.Context) (any, *Error) {
	articles, err := content.NewLibrary(s.opts.Store).Published(c.Request.Context())
	if err != nil {
		return nil, storeError(err)
	}
	if cat := c.Query("category"); cat != "" {
		articles = content.Filter(articles, cat)
	}
	if articles == nil {
		articles = []content.Article{}
	}
	return articles, nil
}

// GET /api/journal
func (s *Server) getJournal(c *gin.Context, user *auth.User) (any, *Error) {
	entries, err := content.NewJournal(s.opts.Store).List(c.Request.Context(), user)
	if err != nil {
		return nil, storeError(err)
	}
	if entries == nil {
		entries = []content.Entry{}
	}
	return entries, nil
}

type journalRequest struct {
	Title           string `json:"title"`
	Content         string `json:"content"`
	VerseReference  string `json:"verse_reference"`
	ObservationType string `json:"observation_type"`
}

// POST /api/journal
func (s *Server) postJournal(c *gin.Context, user *auth.User) (any, *Error) {
	var req journalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, badRequest(err)
	}
	e, err := content.NewEntry(req.Title, req.Content, req.VerseReference, content.ObservationType(req.ObservationType))
	if err != nil {
		return nil, badRequest(err)
	}
	e.CreatedAt = s.opts.Now().UTC()
	if err := content.NewJournal(s.opts.Store).Add(c.Request.Context(), user, e); err != nil {
		return nil, storeError(err)
	}
	s.log.Info("journal entry added for %s", user.ID)
	return gin.H{"status": "created"}, nil
}

type weekendResponse struct {
	dashboard.Weekend
	Available bool   `json:"available"`
	Countdown string `json:"countdown,omitempty"`
}

// GET /api/weekends
func (s *Server) getWeekends(c *gin.Context, user *auth.User) (any, *Error) {
	weekends, err := dashboard.NewService(s.opts.Store).List(c.Request.Context(), user)
	if err != nil {
		return nil, storeError(err)
	}
	now := s.opts.Now()
	out := make([]weekendResponse, 0, len(weekends))
	for _, w := range weekends {
		cd := w.Countdown(now)
		r := weekendResponse{Weekend: w, Available: cd.Available}
		if !cd.Available {
			r.Countdown = cd.String()
		}
		out = append(out, r)
	}
	return out, nil
}

// GET /api/quiz/attempts
func (s *Server) getAttempts(c *gin.Context, user *auth.User) (any, *Error) {
	attempts, err := quiz.NewService(s.opts.Store).History(c.Request.Context(), user)
	if err != nil {
		return nil, storeError(err)
	}
	if attempts == nil {
		attempts = []quiz.Attempt{}
	}
	return attempts, nil
}
