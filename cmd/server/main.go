package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"authrel-demo/internal/auth"
	"authrel-demo/internal/config"
	"authrel-demo/internal/domain"
	apphttp "authrel-demo/internal/http"
	"authrel-demo/internal/logging"
	"authrel-demo/internal/orm"
	"authrel-demo/internal/repository"
	"authrel-demo/internal/repository/memory"
	"authrel-demo/internal/repository/sqlite"
	"authrel-demo/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, nil)

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tokens, err := buildTokenManager(cfg)
	if err != nil {
		logger.Fatalf("setup tokens: %v", err)
	}

	users, closeDirectory, err := buildDirectory(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup user directory: %v", err)
	}
	defer closeDirectory()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(service.NewUserService(users), tokens, logger)
	handler.RegisterRoutes(router, cfg.Server.Prefix)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s (prefix %s, %s tokens)", cfg.Server.Addr, cfg.Server.Prefix, tokens.Algorithm())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func buildTokenManager(cfg config.Config) (*auth.TokenManager, error) {
	ttl := time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute
	switch cfg.Auth.Algorithm {
	case "RS256":
		return auth.NewRS256FromFiles(cfg.Auth.PrivateKeyPath, cfg.Auth.PublicKeyPath, ttl)
	case "HS256":
		return auth.NewHS256(cfg.Auth.JWTSecret, ttl)
	default:
		return nil, fmt.Errorf("unsupported auth algorithm %q", cfg.Auth.Algorithm)
	}
}

func buildDirectory(ctx context.Context, cfg config.Config, logger *logrus.Logger) (repository.UserRepository, func(), error) {
	seeds, err := service.SeedUsers(bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}
	markInactive(seeds, cfg.Auth.InactiveUsers)

	if cfg.Auth.Directory == "memory" {
		logger.Infof("using in-memory user directory (%d users)", len(seeds))
		return memory.NewUserRepository(seeds...), func() {}, nil
	}

	db, err := orm.Connect(ctx, cfg.Database.Driver, cfg.Database.DSN, cfg.Database.MaxOpenConns)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	closeDB := func() { _ = db.Close() }

	repo := sqlite.NewUserRepository(db)
	if err := repo.Init(ctx); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("init user repository: %w", err)
	}
	if err := repo.Seed(ctx, seeds...); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("seed user repository: %w", err)
	}
	// Seed keeps existing rows, so the active flags are applied explicitly
	for _, user := range seeds {
		if err := repo.SetActive(ctx, user.Username, user.Active); err != nil {
			closeDB()
			return nil, nil, fmt.Errorf("set active %s: %w", user.Username, err)
		}
	}
	logger.Infof("using sqlite user directory at %s", cfg.Database.DSN)
	return repo, closeDB, nil
}

func markInactive(users []domain.User, inactive []string) {
	off := make(map[string]bool, len(inactive))
	for _, name := range inactive {
		off[name] = true
	}
	for i := range users {
		users[i].Active = !off[users[i].Username]
	}
}
