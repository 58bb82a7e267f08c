package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"github.com/maildeck/maildeck/internal/account"
	"github.com/maildeck/maildeck/internal/api"
	"github.com/maildeck/maildeck/internal/audit"
	"github.com/maildeck/maildeck/internal/config"
	"github.com/maildeck/maildeck/internal/database"
	"github.com/maildeck/maildeck/internal/mailtm"
	"github.com/maildeck/maildeck/internal/monitor"
	"github.com/maildeck/maildeck/internal/notify"
	"github.com/maildeck/maildeck/internal/parser"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup logger
	logger := setupLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	logger.Info("starting maildeck")

	// Connect to database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run migrations
	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("database migrations completed")

	// Create components
	mailClient := mailtm.NewClient(mailtm.Config{
		BaseURL:  cfg.MailBaseURL,
		Password: cfg.AccountPassword,
		Timeout:  cfg.MailTimeout,
	})
	htmlParser := parser.NewHTMLParser()
	codeDetector := parser.NewCodeDetector()

	dispatcher := notify.NewDispatcher(db, logger,
		notify.WebService{},
		notify.NewDesktopService(cfg.DesktopNotifyCmd, logger),
		notify.NewSoundService(cfg.SoundNotifyCmd, cfg.SoundFile),
	)
	coordinator := monitor.NewCoordinator(db, mailClient, dispatcher, cfg.PollInterval, logger)
	auditSvc := audit.New(db, logger)
	accountSvc := account.NewService(db, mailClient, coordinator, auditSvc, logger)
	janitor := account.NewJanitor(db, accountSvc, cfg.SweepInterval, logger)

	// Restore monitoring for accounts flagged in the database
	if err := coordinator.RestoreAll(ctx); err != nil {
		logger.Error("failed to restore monitoring", "error", err)
		os.Exit(1)
	}

	// Assemble the HTTP API
	router := api.NewRouter(
		api.NewAccountHandler(db, accountSvc),
		api.NewMonitoringHandler(db, coordinator, auditSvc),
		api.NewMessageHandler(db, mailClient, htmlParser, codeDetector),
		api.NewNotificationHandler(dispatcher),
		api.NewSettingsHandler(db),
		api.NewAuditHandler(auditSvc),
	)
	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	runCtx, cancel := context.WithCancel(ctx)
	go janitor.Run(runCtx)

	// Setup graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh

		logger.Info("received shutdown signal", "signal", sig)
		logger.Info("shutting down...")

		coordinator.StopAll()
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
	}()

	logger.Info("listening", "addr", cfg.ListenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("maildeck stopped")
}

func setupLogger(level, format string) *slog.Logger {
	var handler slog.Handler
	logLevel := parseLevel(level)

	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLevel,
		})
	} else {
		// Pretty colored output for console
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.DateTime,
			NoColor:    false,
		})
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
