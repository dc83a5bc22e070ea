package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/igor47/smrs/internal/token"
)

const (
	// Version is reported in the SMRS-Version response header.
	Version = "0.0.1"

	sessionCookieName   = "smrs_session_id"
	sessionCookieMaxAge = 60 * 60 * 24 * 365 // 1 year
)

type contextKey string

const (
	sessionContextKey   contextKey = "session"
	requestIDContextKey contextKey = "request_id"
)

// SessionFromContext returns the session identity the middleware
// attached to the request, or "" when the middleware did not run.
func SessionFromContext(ctx context.Context) string {
	s, _ := ctx.Value(sessionContextKey).(string)
	return s
}

type Middleware struct {
	logger *zap.Logger
	secure bool

	// newSession is swappable so tests can control identities.
	newSession func() string
}

func NewMiddleware(logger *zap.Logger, secure bool) *Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Middleware{
		logger:     logger,
		secure:     secure,
		newSession: func() string { return token.Generate(token.Session) },
	}
}

// Session ensures every request carries a session identity. An existing
// smrs_session_id cookie is adopted verbatim; otherwise a fresh
// session token is minted and set. The value is opaque to everything
// downstream.
func (m *Middleware) Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := ""
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			session = cookie.Value
		}
		if session == "" {
			session = m.newSession()
		}

		setSessionCookie(w, session, m.secure)
		ctx := context.WithValue(r.Context(), sessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// setSessionCookie (re)issues the session cookie so its lifetime slides
// forward on every request. Not HttpOnly: the frontend reads it.
func setSessionCookie(w http.ResponseWriter, session string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session,
		Path:     "/",
		MaxAge:   sessionCookieMaxAge,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// RequestID tags each invocation with a fresh ID, stamps the version
// header, and logs the incoming request line.
func (m *Middleware) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("SMRS-Version", Version)
		w.Header().Set("X-Request-Id", id)

		m.logger.Info("request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path))

		ctx := context.WithValue(r.Context(), requestIDContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
