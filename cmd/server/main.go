package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"github.com/csemotors/dealership/internal/api"
	"github.com/csemotors/dealership/internal/api/handler"
	"github.com/csemotors/dealership/internal/core/service"
	"github.com/csemotors/dealership/internal/infrastructure/db/mongo"
	"github.com/csemotors/dealership/internal/infrastructure/db/postgres"
	"github.com/csemotors/dealership/internal/infrastructure/db/redis"
	"github.com/csemotors/dealership/internal/infrastructure/queue"
	"github.com/csemotors/dealership/internal/infrastructure/security"
	"github.com/csemotors/dealership/internal/pkg/config"
	"github.com/csemotors/dealership/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "cse-motors",
	})

	ctx := context.Background()

	pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL, MaxConns: cfg.Postgres.MaxConns})
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection failed")
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("postgres schema failed")
	}

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}

	mongoClient, mdb, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, AppName: "cse-motors"})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	auditRepo := mongo.NewAuditRepository(mdb)
	if err := auditRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("audit index creation failed")
	}

	// --- Audit workers ---
	workerCtx, stopWorkers := context.WithCancel(ctx)
	audit := queue.NewDispatcher(cfg.Audit.Workers, auditRepo, logger.Component("audit"))
	audit.Start(workerCtx)

	// --- Core services ---
	tokens, err := security.NewJWTManager(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("token manager misconfigured")
	}
	accounts := postgres.NewAccountRepository(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)

	auth := service.NewAuthService(
		accounts,
		security.NewBcryptHasher(cfg.Auth.BcryptCost),
		tokens,
		redis.NewTokenDenylist(rdb),
		audit,
		logger.Component("auth"),
	)
	inventory := service.NewInventoryService(inventoryRepo, logger.Component("inventory"))
	favorites := service.NewFavoritesService(postgres.NewFavoritesRepository(pool), inventoryRepo)

	e, err := api.NewRouter(api.Config{
		CookieName:     cfg.Auth.CookieName,
		SecureCookies:  !cfg.IsDevelopment(),
		TokenTTL:       cfg.Auth.TokenTTL,
		SessionSecret:  cfg.Auth.SessionSecret,
		LoginRateLimit: cfg.Auth.LoginRateLimit,
	}, api.Services{
		Auth:      auth,
		Inventory: inventory,
		Favorites: favorites,
		Checks: map[string]handler.Check{
			"postgres": postgres.Ping(pool),
			"redis":    redis.Ping(rdb),
			"mongodb":  mongo.Ping(mdb),
		},
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("router setup failed")
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	wait := gfshutdown.GracefulShutdown(ctx, shutdownTimeout, map[string]gfshutdown.Operation{
		// stores close after the server and the audit workers have stopped
		"cse-motors": func(ctx context.Context) error {
			var errs []error
			if err := e.Shutdown(ctx); err != nil {
				errs = append(errs, err)
			}
			stopWorkers()
			audit.Wait()
			pool.Close()
			if err := rdb.Close(); err != nil {
				errs = append(errs, err)
			}
			if err := mongoClient.Disconnect(ctx); err != nil {
				errs = append(errs, err)
			}
			return errors.Join(errs...)
		},
	})

	code := <-wait
	log.Info().Int("exit_code", code).Msg("server stopped")
	os.Exit(code)
}
