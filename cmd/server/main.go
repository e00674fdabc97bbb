package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/coursin/marketing-api/internal/api"
	"github.com/coursin/marketing-api/internal/core/ports"
	"github.com/coursin/marketing-api/internal/core/ratelimit"
	"github.com/coursin/marketing-api/internal/core/service"
	"github.com/coursin/marketing-api/internal/core/token"
	"github.com/coursin/marketing-api/internal/infrastructure/db/memory"
	"github.com/coursin/marketing-api/internal/infrastructure/db/mongo"
	"github.com/coursin/marketing-api/internal/infrastructure/db/redis"
	"github.com/coursin/marketing-api/internal/infrastructure/email"
	"github.com/coursin/marketing-api/internal/infrastructure/queue"
	"github.com/coursin/marketing-api/internal/pkg/config"
	"github.com/coursin/marketing-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.IsDevelopment(),
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Persistence ---
	var (
		users   ports.UserRepository
		mongoDB *gomongo.Database
	)
	switch cfg.Store {
	case "memory":
		users = memory.NewUserRepository()
		log.Warn().Msg("using in-memory user store, data will not survive a restart")
	default:
		client, db, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to mongodb")
		}
		defer func() {
			_ = client.Disconnect(context.Background())
		}()

		repo, err := mongo.NewUserRepository(ctx, db)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialise user repository")
		}
		users = repo
		mongoDB = db
	}

	// --- Rate limiter ---
	var (
		limiter     ratelimit.Limiter
		redisClient *goredis.Client
	)
	switch cfg.RateLimit.Store {
	case "redis":
		client, err := redis.Connect(ctx, redis.Config{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer func() {
			_ = client.Close()
		}()
		limiter = redis.NewRateLimitStore(client, cfg.RateLimit.Limit, cfg.RateLimit.Window)
		redisClient = client
	default:
		mem := ratelimit.NewMemoryLimiter(cfg.RateLimit.Limit, cfg.RateLimit.Window)
		mem.StartSweeper(ctx, time.Minute)
		limiter = mem
	}

	// --- Email pipeline ---
	mailer, err := email.NewSMTPMailer(email.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise smtp mailer")
	}

	renderer, err := email.NewRenderer(cfg.SMTP.AdminEmail, cfg.SMTP.FrontendURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse email templates")
	}

	dispatcher := queue.NewDispatcher(0, mailer, log)
	dispatcher.Start(ctx)

	// --- Services & router ---
	tokens := token.NewService(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(users, tokens, log)
	contactService := service.NewContactService(renderer, dispatcher, log)

	e := api.NewRouter(api.Dependencies{
		Config:         cfg,
		AuthService:    authService,
		ContactService: contactService,
		Tokens:         tokens,
		Limiter:        limiter,
		Mongo:          mongoDB,
		Redis:          redisClient,
		Log:            log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
