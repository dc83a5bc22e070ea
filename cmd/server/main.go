// The server binary runs smrs as a long-lived HTTP server, mainly for
// local development. Production deploys through cmd/cgi.
package main

import (
	"net/http"
	"os"
	"time"

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
		log.Fatal("failed to open store", zap.Error(err))
	}
	defer repo.Close()

	service := services.NewLinkService(repo, log)
	router := handler.NewRouter(cfg, service, log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("server starting", zap.String("port", cfg.Port))
	if err := server.ListenAndServe(); err != nil {
		log.Fatal("serve failed", zap.Error(err))
	}
}
