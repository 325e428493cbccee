package middleware

import (
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/hasandi22/Final-year-research---Data-Collection/utils"
)

const (
	// SessionCookie carries the session token for browsers that do not set headers.
	SessionCookie = "survey_session"
	// SessionIDKey is the gin context key holding the authenticated session id.
	SessionIDKey = "session_id"
)

// Logger logs one line per request with status, latency and private errors.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		errs := c.Errors.ByType(gin.ErrorTypePrivate).String()
		if errs == "" {
			errs = "None"
		}
		c.Writer.Header().Set("X-Response-Time", latency.String())
		log.Printf("[GIN] %3d | %13v | %15s | %-7s %s | errors: %s",
			c.Writer.Status(),
			latency,
			c.ClientIP(),
			c.Request.Method,
			c.Request.URL.Path,
			errs,
		)
	}
}

// Cors allows the survey front-end to call the API from another origin with credentials.
func Cors(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Response-Time"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// SessionAuth resolves the session token from the Authorization header or the
// session cookie and stores the session id in the context.
func SessionAuth(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		} else if cookie, err := c.Cookie(SessionCookie); err == nil {
			token = cookie
		}
		if token == "" {
			utils.SendJSONError(c, http.StatusUnauthorized, "No survey session. Start a new session first.", nil)
			return
		}
		id, err := tokens.Parse(token)
		if err != nil {
			utils.SendJSONError(c, http.StatusUnauthorized, "Invalid or expired survey session.", err)
			return
		}
		c.Set(SessionIDKey, id)
		c.Next()
	}
}

// RateLimit allows perMinute requests per session (or client IP when no session is
// known) with a burst of the same size.
func RateLimit(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiters := newLimiterSet(perMinute)
	return func(c *gin.Context) {
		key := c.GetString(SessionIDKey)
		if key == "" {
			key = c.ClientIP()
		}
		if !limiters.allow(key, time.Now()) {
			utils.SendJSONError(c, http.StatusTooManyRequests, "Too many audio requests. Please wait a moment and try again.", nil)
			return
		}
		c.Next()
	}
}

// limiterSet keeps one token bucket per key. A bucket idle for a full refill period
// is full again, so it is dropped and recreated on the next request.
type limiterSet struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	idle      time.Duration
	entries   map[string]*limiterEntry
	lastSweep time.Time
}

type limiterEntry struct {
	limiter *rate.Limiter
	seen    time.Time
}

func newLimiterSet(perMinute int) *limiterSet {
	return &limiterSet{
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   perMinute,
		idle:    time.Minute,
		entries: make(map[string]*limiterEntry),
	}
}

func (s *limiterSet) allow(key string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) >= s.idle {
		for k, e := range s.entries {
			if now.Sub(e.seen) >= s.idle {
				delete(s.entries, k)
			}
		}
		s.lastSweep = now
	}

	e, ok := s.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.entries[key] = e
	}
	e.seen = now
	return e.limiter.AllowN(now, 1)
}
