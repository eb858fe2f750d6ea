// Package main is the entry point for the personal finance tracker API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/abhishek991-rag/PFM-Backend/internal/api"
	"github.com/abhishek991-rag/PFM-Backend/internal/auth"
	"github.com/abhishek991-rag/PFM-Backend/internal/config"
	"github.com/abhishek991-rag/PFM-Backend/internal/database"
	"github.com/abhishek991-rag/PFM-Backend/internal/logger"
	"github.com/abhishek991-rag/PFM-Backend/internal/notify"
	"github.com/abhishek991-rag/PFM-Backend/internal/report"
	"github.com/abhishek991-rag/PFM-Backend/internal/repository"
	"github.com/abhishek991-rag/PFM-Backend/internal/service"
	"github.com/abhishek991-rag/PFM-Backend/internal/telemetry"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("pfm-backend %s (commit: %s, built: %s)\n", version, commit, date)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx, telemetry.Config{
		Exporter:       cfg.OTelExporter,
		ServiceName:    cfg.OTelServiceName,
		ServiceVersion: version,
	})
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			log.Warn().Err(err).Msg("Failed to flush telemetry")
		}
	}()

	metrics, err := telemetry.NewGlobalMetrics()
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL, database.PoolOptions{
		MaxConns:        cfg.DBMaxConns,
		MaxConnIdleTime: cfg.DBMaxConnIdleTime,
	})
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	log.Info().Msg("Database initialized successfully")

	hasher := logger.NewHasher(cfg.LogHashSalt)
	users := repository.NewUserRepository(pool)
	expenses := repository.NewExpenseRepository(pool)
	incomes := repository.NewIncomeRepository(pool)
	budgets := repository.NewBudgetRepository(pool)
	goals := repository.NewGoalRepository(pool)

	engine := report.NewEngine(expenses, incomes, budgets, metrics)
	mailer := notify.NewLogMailer(log)

	accounts := service.NewAccountService(service.AccountDeps{
		Users:           users,
		Owned:           []service.OwnedRecords{expenses, incomes, budgets, goals},
		Tokens:          auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL),
		Mailer:          mailer,
		DefaultCurrency: cfg.DefaultCurrency,
	}, log, hasher)

	gin.SetMode(cfg.GinMode)
	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: api.NewRouter(api.Deps{
			Accounts:    accounts,
			Expenses:    service.NewExpenseService(expenses, log, hasher),
			Incomes:     service.NewIncomeService(incomes, log, hasher),
			Budgets:     service.NewBudgetService(budgets, engine, log, hasher),
			Goals:       service.NewGoalService(goals, log, hasher),
			Reports:     engine,
			DB:          pool,
			Log:         log,
			ServiceName: cfg.OTelServiceName,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.GoalReminderEnabled {
		reminder := notify.NewGoalReminder(goals, users, mailer, notify.ReminderConfig{
			Hour:      cfg.GoalReminderHour,
			DaysAhead: cfg.GoalReminderDaysAhead,
			Location:  cfg.ReminderLocation(),
		}, log, hasher, metrics)
		g.Go(func() error { return reminder.Run(gctx) })
	}

	return g.Wait()
}
