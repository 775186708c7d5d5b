package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/hassam391/stead-backend/config"
	"github.com/hassam391/stead-backend/controllers"
	"github.com/hassam391/stead-backend/middlewares"
	"github.com/hassam391/stead-backend/routes"
	"github.com/hassam391/stead-backend/services"
	"github.com/hassam391/stead-backend/store"
	"github.com/hassam391/stead-backend/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		st     store.Store
		pinger controllers.Pinger
	)
	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Warn("using in-memory store; data is lost on restart")
		st = store.NewMemoryStore()
	default:
		db, err := config.InitDB(cfg)
		if err != nil {
			log.WithError(err).Fatal("database init failed")
		}
		gs := store.NewGormStore(db)
		st, pinger = gs, gs
	}

	verifier, err := newVerifier(cfg)
	if err != nil {
		log.WithError(err).Fatal("token verifier init failed")
	}

	opts := []services.Option{services.WithLogger(log)}
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.WithError(err).Fatal("invalid REDIS_URL")
		}
		rdb := redis.NewClient(redisOpts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.WithError(err).Warn("redis unreachable; leaderboard cache will fall back to the store")
		}
		opts = append(opts, services.WithLeaderboardCache(services.NewRedisLeaderboardCache(rdb, cfg.LeaderboardCacheTTL)))
	}

	var notifier services.Notifier
	if cfg.SESEmail != "" && cfg.FeedbackEmailTo != "" {
		mailer, err := utils.NewSESMailer(ctx, cfg.AWSRegion, cfg.SESEmail)
		if err != nil {
			log.WithError(err).Warn("SES unavailable; feedback will not be emailed")
		} else {
			notifier = mailer
		}
	}

	router := routes.SetupRouter(routes.Deps{
		Log:            log,
		Verifier:       verifier,
		Limiter:        middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, log),
		DB:             pinger,
		AllowedOrigins: cfg.Origins(),
		Users:          services.NewUserService(st, opts...),
		Logs:           services.NewLogService(st, opts...),
		Metrics:        services.NewMetricsService(st, opts...),
		Leaderboard:    services.NewLeaderboardService(st, opts...),
		Feedback:       services.NewFeedbackService(st, notifier, cfg.FeedbackEmailTo, opts...),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

func newVerifier(cfg *config.Config) (*utils.JWTVerifier, error) {
	jc := utils.JWTConfig{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.AuthIssuer,
		Audience: cfg.AuthAudience,
	}
	if cfg.AuthPublicKeyFile != "" {
		pem, err := os.ReadFile(cfg.AuthPublicKeyFile)
		if err != nil {
			return nil, err
		}
		jc.PublicKeyPEM = pem
	}
	return utils.NewJWTVerifier(jc)
}
