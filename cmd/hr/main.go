package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/hr_records/internal/httpserver"
	"github.com/Skotchmaster/hr_records/internal/limiter"
	"github.com/Skotchmaster/hr_records/internal/models"
	"github.com/Skotchmaster/hr_records/internal/repo"
	"github.com/Skotchmaster/hr_records/internal/search"
	"github.com/Skotchmaster/hr_records/internal/service"
	"github.com/Skotchmaster/hr_records/pkg/config"
	pkgdb "github.com/Skotchmaster/hr_records/pkg/db"
	"github.com/Skotchmaster/hr_records/pkg/events"
	pkg_hash "github.com/Skotchmaster/hr_records/pkg/hash"
	"github.com/Skotchmaster/hr_records/pkg/logging"
	middleware "github.com/Skotchmaster/hr_records/pkg/middleware/auth"
	"github.com/Skotchmaster/hr_records/pkg/tokens"
)

func main() {
	cfg := config.Load()
	cfg.MustValid()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	var publisher events.Publisher = events.Nop{}
	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
		publisher = producer
		logger.Info("kafka_enabled", "brokers", cfg.KafkaBrokers)
	}

	var rdb *redis.Client
	var loginLimiter *limiter.LoginLimiter
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		loginLimiter = limiter.New(rdb, cfg.LoginMaxAttempts, cfg.LoginLockout)
		logger.Info("login_limiter_enabled", "max_attempts", cfg.LoginMaxAttempts, "window", cfg.LoginLockout)
	}

	rp := &repo.GormRepo{DB: db}
	tm := &tokens.Manager{
		AccessSecret:  cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
	}

	authSvc := &service.AuthService{
		Repo:    rp,
		Hasher:  pkg_hash.New(cfg.BcryptCost),
		Tokens:  tm,
		Limiter: loginLimiter,
		Events:  publisher,
	}
	usersSvc := &service.UserService{Repo: rp, Events: publisher}
	employeeSvc := &service.EmployeeService{Repo: rp, Events: publisher}

	if cfg.ESURL != "" {
		if ix, err := openSearchIndex(cfg); err != nil {
			logger.Warn("search_disabled", "error", err)
		} else {
			employeeSvc.Index = ix
			logger.Info("search_enabled", "index", cfg.ESIndex)
		}
	}

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := authSvc.EnsureAdmin(logging.IntoContext(ctx, logger), cfg.AdminEmail, cfg.AdminPassword)
		cancel()
		if err != nil {
			log.Fatalf("bootstrap admin: %v", err)
		}
	}

	e := httpserver.New(logger, cfg.CORSOrigin)
	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:     &httpserver.AuthHTTP{Svc: authSvc, CookieSecure: cfg.CookieSecure},
		UsersHandler:    &httpserver.UsersHTTP{Svc: usersSvc},
		EmployeeHandler: &httpserver.EmployeeHTTP{Svc: employeeSvc},
		Gate: &middleware.Gate{
			Tokens:       tm,
			Lookup:       httpserver.IdentityLookup(usersSvc),
			CookieSecure: cfg.CookieSecure,
		},
		Ready: func(ctx context.Context) error { return pkgdb.Ping(ctx, db) },
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_failed", "error", err)
	}
	if producer != nil {
		_ = producer.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	_ = pkgdb.Close(db)

	logger.Info("stopped")
}

func openSearchIndex(cfg config.Config) (*search.Index, error) {
	client, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
	if err != nil {
		return nil, err
	}
	ix := &search.Index{ES: client, Index: cfg.ESIndex}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := ix.Ping(ctx); err != nil {
		return nil, err
	}
	if err := ix.EnsureIndex(ctx); err != nil {
		return nil, err
	}
	return ix, nil
}
