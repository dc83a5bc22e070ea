package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/igor47/smrs/internal/ports"
	"github.com/igor47/smrs/pkg/config"
)

// NewRouter creates and configures the main application router. Every
// route runs behind the request-ID and session middleware, so handlers
// always find an identity in the request context.
func NewRouter(cfg *config.Config, service ports.LinkService, logger *zap.Logger) http.Handler {
	secure := cfg.AppEnv == "production"

	h := NewHTTPHandler(service, logger, secure)
	mw := NewMiddleware(logger, secure)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		res := map[string]string{
			"message": "ok",
		}
		_ = json.NewEncoder(w).Encode(&res)
	})

	mux.HandleFunc("GET /env", h.Env)
	mux.HandleFunc("GET /session", h.Session)
	mux.HandleFunc("POST /session", h.SetSession)

	mux.HandleFunc("POST /links", h.Create)
	mux.HandleFunc("GET /links", h.List)
	mux.HandleFunc("DELETE /links/{token}", h.Delete)

	// The literal routes above outrank this wildcard regardless of
	// registration order.
	mux.HandleFunc("GET /{token}", h.Redirect)

	return mw.RequestID(mw.Session(mux))
}
