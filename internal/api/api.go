// Package api serves the celestial engine and the shared content over a
// JSON HTTP interface.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/litescript/ls-qamar/internal/astro"
	"github.com/litescript/ls-qamar/internal/auth"
	"github.com/litescript/ls-qamar/internal/logging"
	"github.com/litescript/ls-qamar/internal/sky"
	"github.com/litescript/ls-qamar/internal/store"
)

// Error is a handler failure rendered as {"error": Message}.
type Error struct {
	Code    int
	Message string
}

func badRequest(err error) *Error {
	return &Error{Code: http.StatusBadRequest, Message: err.Error()}
}

// HandlerFunc returns a JSON body or an error.
type HandlerFunc func(c *gin.Context) (any, *Error)

// HandlerFuncWithUser is a HandlerFunc that runs after token checks.
type HandlerFuncWithUser func(c *gin.Context, user *auth.User) (any, *Error)

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Options configure a Server.
type Options struct {
	Place       sky.Place
	Target      astro.GeoCoordinate
	CORSOrigins []string
	Logger      *logging.Logger

	// Store backs the content endpoints. Without it only the sky
	// endpoints are mounted.
	Store store.DataStore

	// Verifier guards the per-user endpoints. Without it they are not
	// mounted.
	Verifier TokenVerifier

	// Now defaults to time.Now.
	Now func() time.Time
}

// Server holds the handler state.
type Server struct {
	opts Options
	log  *logging.Logger
}

// New creates a server. A zero Target means Mecca.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Target == (astro.GeoCoordinate{}) {
		opts.Target = astro.Mecca
	}
	if opts.Place.Location == nil {
		opts.Place.Location = time.UTC
	}
	return &Server{opts: opts, log: opts.Logger}
}

// Handler builds the gin engine with every route mounted.
func (s *Server) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())
	r.Use(cors.New(s.corsConfig()))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	grp := r.Group("/api")
	grp.GET("/sky", resolve(s.getSky))
	grp.GET("/moon", resolve(s.getMoon))
	grp.GET("/qibla", resolve(s.getQibla))
	grp.GET("/prayers", resolve(s.getPrayers))
	grp.GET("/sites", resolve(s.getSites))
	grp.GET("/calendar", resolve(s.getCalendar))

	if s.opts.Store != nil {
		grp.GET("/articles", resolve(s.getArticles))
		if s.opts.Verifier != nil {
			private := grp.Group("", bearer(s.opts.Verifier))
			private.GET("/journal", resolveWithUser(s.getJournal))
			private.POST("/journal", resolveWithUser(s.postJournal))
			private.GET("/weekends", resolveWithUser(s.getWeekends))
			private.GET("/quiz/attempts", resolveWithUser(s.getAttempts))
		}
	}
	return r
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	origins := s.opts.CORSOrigins
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

func resolve(h HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, apiErr := h(c)
		if apiErr != nil {
			c.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

const userKey = "currentUser"

func resolveWithUser(h HandlerFuncWithUser) gin.HandlerFunc {
	return resolve(func(c *gin.Context) (any, *Error) {
		v, ok := c.Get(userKey)
		user, _ := v.(*auth.User)
		if !ok || user == nil {
			return nil, &Error{Code: http.StatusUnauthorized, Message: auth.ErrNotAuthenticated.Error()}
		}
		return h(c, user)
	})
}

// bearer checks "Authorization: Bearer <token>" and stores the user.
func bearer(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || scheme != "Bearer" || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		sub, err := v.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set(userKey, &auth.User{ID: sub})
		c.Next()
	}
}
