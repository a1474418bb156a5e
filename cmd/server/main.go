package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/plowline/backoffice/internal/config"
	"github.com/plowline/backoffice/internal/db"
	"github.com/plowline/backoffice/internal/mail"
	"github.com/plowline/backoffice/internal/pdf"
	"github.com/plowline/backoffice/internal/server"
)

func withLogging(logger zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()
	_ = godotenv.Load()
	cfg := config.Load()

	logger := log.Logger
	if cfg.Env == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	dbConn, err := db.ConnectAndMigrate(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	if *migrateOnlyFlag {
		logger.Info().Msg("migrations completed; exiting as requested")
		return
	}

	renderer := pdf.NewWKRenderer()
	mailer := mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	if !mailer.Configured() {
		logger.Warn().Msg("smtp credentials not set; document sends will fail at the email step")
	}

	handler := server.New(dbConn, renderer, mailer, logger)
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: withLogging(logger, handler)}

	go func() {
		logger.Info().Str("env", cfg.Env).Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("error during shutdown")
	}
	logger.Info().Msg("server gracefully stopped")
}
