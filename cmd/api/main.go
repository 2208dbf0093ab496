package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/medrec-hq/medrec-api/internal/config"
	authHandler "github.com/medrec-hq/medrec-api/internal/handler/auth"
	departmentHandler "github.com/medrec-hq/medrec-api/internal/handler/department"
	healthHandler "github.com/medrec-hq/medrec-api/internal/handler/health"
	profileHandler "github.com/medrec-hq/medrec-api/internal/handler/profile"
	recordHandler "github.com/medrec-hq/medrec-api/internal/handler/record"
	"github.com/medrec-hq/medrec-api/internal/middleware"
	"github.com/medrec-hq/medrec-api/internal/repository/postgres"
	redisrepo "github.com/medrec-hq/medrec-api/internal/repository/redis"
	"github.com/medrec-hq/medrec-api/internal/router"
	authService "github.com/medrec-hq/medrec-api/internal/service/auth"
	departmentService "github.com/medrec-hq/medrec-api/internal/service/department"
	profileService "github.com/medrec-hq/medrec-api/internal/service/profile"
	recordService "github.com/medrec-hq/medrec-api/internal/service/record"
	"github.com/medrec-hq/medrec-api/pkg/auth"
	"github.com/medrec-hq/medrec-api/pkg/logger"
	"github.com/medrec-hq/medrec-api/pkg/metrics"
	"github.com/medrec-hq/medrec-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Setup(logger.Config{Level: cfg.Server.LogLevel, Pretty: cfg.Server.LogPretty})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	tokenStore, err := redisrepo.NewTokenStore(redisrepo.Config{
		URL:          cfg.Redis.URL,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}

	m := metrics.NewMetrics("medrec")

	// Repositories
	base := postgres.NewBaseRepository(db, m)
	userRepo := postgres.NewUserRepository(base)
	deptRepo := postgres.NewDepartmentRepository(base)
	profileRepo := postgres.NewProfileRepository(base)
	recordRepo := postgres.NewRecordRepository(base)

	// Services
	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:        cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		Expiry:        time.Duration(cfg.JWT.ExpiryHours) * time.Hour,
		RefreshExpiry: time.Duration(cfg.JWT.RefreshExpiryHours) * time.Hour,
	})
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)

	authSvc := authService.NewService(userRepo, profileRepo, jwtSvc, tokenStore, hasher)
	deptSvc := departmentService.NewService(deptRepo, profileRepo)
	profileSvc := profileService.NewService(profileRepo, deptRepo, m)
	recordSvc := recordService.NewService(recordRepo, profileRepo, m)

	// Middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	authH := authHandler.NewHandler(authSvc)
	departmentH := departmentHandler.NewHandler(deptSvc)
	profileH := profileHandler.NewHandler(profileSvc, authMiddleware)
	recordH := recordHandler.NewHandler(recordSvc)
	healthH := healthHandler.NewHandler(db)

	r := router.NewRouter(authMiddleware, authH, departmentH, profileH, recordH, healthH, m, router.Config{
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
	})
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
