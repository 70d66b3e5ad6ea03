package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/emilythestrangee/whispr/backend/internal/config"
	"github.com/emilythestrangee/whispr/backend/internal/logging"
	"github.com/emilythestrangee/whispr/backend/internal/server"
)

func main() {
	cfg := config.Load()
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	logging.Logger.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server error: %v", err)
	}
}
