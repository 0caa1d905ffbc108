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

	"crm-platform/internal/agreements"
	"crm-platform/internal/audit"
	"crm-platform/internal/auth"
	"crm-platform/internal/clients"
	"crm-platform/internal/config"
	"crm-platform/internal/documents"
	"crm-platform/internal/expenses"
	"crm-platform/internal/httpapi"
	"crm-platform/internal/invoices"
	"crm-platform/internal/proposals"
	"crm-platform/internal/reporting"
	"crm-platform/internal/taxes"
	"crm-platform/internal/users"
	"crm-platform/pkg/logger"
	"crm-platform/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// .env is for local development only; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	codec, err := auth.NewCodec(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	userRepo := users.NewPostgresRepo(db)
	sessions := auth.NewSessions(codec, userRepo, auth.WithRotation(cfg.Auth.RotateRefreshTokens))
	cookies := auth.NewCookieWriter(cfg.Auth, cfg.IsProduction())
	limiter := auth.NewLoginLimiter(rdb, cfg.Auth.LoginAttemptLimit, cfg.Auth.LoginAttemptWindow)

	presigner, err := documents.NewS3Presigner(rootCtx, cfg.S3)
	if err != nil {
		log.Error("s3 init failed", "err", err)
		os.Exit(1)
	}

	taxSvc := taxes.NewService(taxes.NewPostgresRepo(db))
	proposalSvc := proposals.NewService(proposals.NewPostgresRepo(db))

	h := httpapi.Handlers{
		Sessions: sessions,
		Cookies:  cookies,
		Limiter:  limiter,
		Audit:    audit.NewService(audit.NewPostgresRepo(db)),

		Users:      users.NewService(userRepo),
		Clients:    clients.NewService(clients.NewPostgresRepo(db)),
		Proposals:  proposalSvc,
		Agreements: agreements.NewService(agreements.NewPostgresRepo(db), proposalSvc),
		Invoices:   invoices.NewService(db, taxSvc),
		Expenses:   expenses.NewService(expenses.NewPostgresRepo(db)),
		Documents:  documents.NewService(documents.NewPostgresRepo(db), presigner),
		Taxes:      taxSvc,
		Reports:    reporting.NewService(reporting.NewPostgresRepo(db)),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, h, sessions, cookies)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}

	_ = logger.ShutdownFlush(shutdownCtx, 2*time.Second)
}
