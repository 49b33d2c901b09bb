package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msplaco/quote-api/internal/auth"
	"github.com/msplaco/quote-api/internal/config"
	"github.com/msplaco/quote-api/internal/http/handler"
	"github.com/msplaco/quote-api/internal/http/middleware"
	"github.com/msplaco/quote-api/internal/http/router"
	"github.com/msplaco/quote-api/internal/jobs"
	"github.com/msplaco/quote-api/internal/logger"
	"github.com/msplaco/quote-api/internal/mailer"
	"github.com/msplaco/quote-api/internal/service"
	"github.com/msplaco/quote-api/internal/store"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	// Open the quote store. A corrupt document fails here, at startup,
	// rather than being served as an empty list.
	quoteStore, err := store.New(cfg.Store.Path, log)
	if err != nil {
		return fmt.Errorf("failed to open quote store: %w", err)
	}

	// Mail transport and notification dispatch
	smtpMailer := mailer.NewSMTPMailer(&cfg.Mail, log)
	if !smtpMailer.Enabled() {
		log.Warn("mail relay not configured, notifications will be logged only")
	}
	notifier := mailer.NewQuoteNotifier(smtpMailer, &cfg.Mail, log)

	// Services
	quoteService := service.NewQuoteService(quoteStore, notifier, cfg.Form.PhonePlaceholder, log)

	// Admin gate
	tokenIssuer := auth.NewTokenIssuer(&cfg.Auth)
	authMiddleware := auth.NewMiddleware(tokenIssuer, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Handlers
	quoteHandler := handler.NewQuoteHandler(quoteService, log)
	authHandler := handler.NewAuthHandler(&cfg.Auth, tokenIssuer, log)
	pagesHandler := handler.NewPagesHandler(&cfg.Site, log)

	rt := router.NewRouter(
		cfg,
		log,
		quoteStore,
		authMiddleware,
		rateLimiter,
		quoteHandler,
		authHandler,
		pagesHandler,
	)

	// Periodic store backups
	var scheduler *jobs.Scheduler
	if cfg.Backup.Enabled {
		scheduler = jobs.NewScheduler(log)
		if err := jobs.RegisterBackupJob(scheduler, quoteStore, &cfg.Backup, log); err != nil {
			log.Error("failed to register backup job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("scheduler started with store backup job",
				zap.String("cron_expr", cfg.Backup.CronExpr),
				zap.String("backup_dir", cfg.Backup.Dir),
			)
		}
	} else {
		log.Info("store backups disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
		IdleTimeout:  cfg.Server.IdleTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
