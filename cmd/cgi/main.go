// The cgi binary handles exactly one request per invocation: the web
// server execs it, the store is opened fresh, the response goes to
// stdout, and the process exits. No state survives between requests
// beyond the database file.
package main

import (
	"net/http"
	"net/http/cgi"
	"os"

	"go.uber.org/zap"

	"github.com/igor47/smrs/internal/adapters/handler"
	"github.com/igor47/smrs/internal/adapters/repository/sqlite"
	"github.com/igor47/smrs/internal/core/services"
	"github.com/igor47/smrs/internal/logger"
	"github.com/igor47/smrs/pkg/config"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	repo, err := sqlite.New(cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to open store", zap.Error(err))
		// Still answer the request; the gateway expects a response on
		// stdout either way.
		_ = cgi.Serve(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}))
		os.Exit(1)
	}
	defer repo.Close()

	service := services.NewLinkService(repo, log)
	router := handler.NewRouter(cfg, service, log)

	if err := cgi.Serve(router); err != nil {
		log.Error("serve failed", zap.Error(err))
		os.Exit(1)
	}
}
