package middleware

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bagasta/addressbook/internal/config"
	"github.com/bagasta/addressbook/internal/service"
	"github.com/bagasta/addressbook/internal/utils"
)

type contextKey string

// UserIDKey carries the authenticated user's id through the request context.
const UserIDKey contextKey = "user_id"

type Middleware struct {
	Config       *config.Config
	Users        service.UserStore
	Logger       zerolog.Logger
	rateLimiters sync.Map
}

func NewMiddleware(cfg *config.Config, users service.UserStore, logger zerolog.Logger) *Middleware {
	return &Middleware{
		Config: cfg,
		Users:  users,
		Logger: logger,
	}
}

// Auth accepts either "Authorization: Bearer <jwt>", "Authorization: Pin <pin>"
// or an "X-Pin" header.
func (m *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if authHeader := r.Header.Get("Authorization"); authHeader != "" {
			userID, err := m.parseTokenOrPin(authHeader)
			if err == nil {
				ctx := context.WithValue(r.Context(), UserIDKey, userID)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}

		if pin := strings.TrimSpace(r.Header.Get("X-Pin")); pin != "" {
			userID, err := m.userIDFromPIN(pin)
			if err == nil {
				ctx := context.WithValue(r.Context(), UserIDKey, userID)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}

		utils.ErrorResponse(w, http.StatusUnauthorized, "Missing or invalid credentials")
	})
}

func (m *Middleware) parseTokenOrPin(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 {
		return "", errors.New("invalid authorization format")
	}

	switch parts[0] {
	case "Bearer":
		return utils.ParseUserIDFromToken(parts[1], m.Config.JWTSecret)
	case "Pin", "PIN", "pin":
		return m.userIDFromPIN(parts[1])
	default:
		return "", errors.New("invalid authorization format")
	}
}

func (m *Middleware) userIDFromPIN(pin string) (string, error) {
	if m.Users == nil {
		return "", errors.New("user store not configured")
	}

	user, err := m.Users.GetUserByPIN(strings.TrimSpace(pin))
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", errors.New("invalid credentials")
	}
	return user.ID, nil
}

func (m *Middleware) CORS(next http.Handler) http.Handler {
	allowed := m.Config.AllowedOrigins
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(origin, allowed) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else if len(allowed) == 1 && allowed[0] == "*" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Pin")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func originAllowed(origin string, allowed []string) bool {
	if origin == "" {
		return true // non-browser clients
	}
	for _, o := range allowed {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

// RequestLogger logs each request with a generated request id.
func (m *Middleware) RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		m.Logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack keeps websocket upgrades working behind the logger.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return hj.Hijack()
}

// simple token bucket per IP
type limiter struct {
	mu         sync.Mutex
	tokens     int
	lastRefill time.Time
}

func (m *Middleware) RateLimit(next http.Handler) http.Handler {
	const (
		maxTokens    = 60
		refillPeriod = time.Minute
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		val, _ := m.rateLimiters.LoadOrStore(ip, &limiter{tokens: maxTokens, lastRefill: time.Now()})
		lim := val.(*limiter)

		lim.mu.Lock()
		now := time.Now()
		if since := now.Sub(lim.lastRefill); since > refillPeriod {
			lim.tokens = maxTokens
			lim.lastRefill = now
		}

		if lim.tokens <= 0 {
			lim.mu.Unlock()
			utils.ErrorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		}
		lim.tokens--
		lim.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}
