package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/api"
	"github.com/csemotors/dealership/internal/core/ports"
	"github.com/csemotors/dealership/internal/core/security"
	"github.com/csemotors/dealership/internal/core/service"
	"github.com/csemotors/dealership/internal/infrastructure/config"
	"github.com/csemotors/dealership/internal/infrastructure/db/mongo"
	"github.com/csemotors/dealership/internal/infrastructure/db/postgres"
	"github.com/csemotors/dealership/internal/infrastructure/db/redis"
	"github.com/csemotors/dealership/internal/infrastructure/http/handlers"
	"github.com/csemotors/dealership/internal/infrastructure/queue"
	"github.com/csemotors/dealership/migrations"
	"github.com/csemotors/dealership/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// stores is the repository set of whichever driver is configured.
type stores struct {
	accounts  ports.AccountRepository
	comments  ports.CommentRepository
	inventory ports.InventoryRepository
	audit     ports.AuditRepository
	pinger    handlers.Pinger
	close     func(context.Context) error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is not configured yet; fall back to a bare one.
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "dealership",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.close(closeCtx); err != nil {
			log.Error().Err(err).Msg("store close failed")
		}
	}()

	var (
		rdb      *goredis.Client
		throttle ports.LoginThrottle
	)
	if cfg.ThrottleEnabled() {
		rdb, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		throttle = redis.NewLoginThrottle(rdb, cfg.Login.MaxAttempts, cfg.Login.Lockout)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("login throttling enabled")
	}

	// --- Audit pipeline ---
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, service.NewAuditService(st.audit, log), log)
	dispatcher.Start(ctx)
	defer dispatcher.Close()

	// --- Services ---
	inventory := service.NewInventoryService(st.inventory, log)
	e, err := api.NewRouter(api.Dependencies{
		Accounts:  service.NewAccountService(st.accounts, throttle, dispatcher, log),
		Comments:  service.NewCommentService(st.comments, st.inventory, dispatcher, log),
		Inventory: inventory,
		Codec:     security.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL),
		Secure:    cfg.IsProduction(),
		FlashKey:  cfg.FlashKey,
		Readiness: handlers.NewHealthDependenciesHandler(cfg.StoreDriver, st.pinger, rdb),
		Log:       log,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Str("store", cfg.StoreDriver).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
		if err != nil {
			return nil, err
		}
		if err := migrations.Migrate(db); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info().Msg("postgres connected, migrations applied")
		return &stores{
			accounts:  postgres.NewAccountRepository(db),
			comments:  postgres.NewCommentRepository(db),
			inventory: postgres.NewInventoryRepository(db),
			audit:     postgres.NewAuditRepository(db),
			pinger:    db,
			close:     func(context.Context) error { return db.Close() },
		}, nil

	default:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected, indexes ensured")
		return &stores{
			accounts:  mongo.NewAccountRepository(db),
			comments:  mongo.NewCommentRepository(db),
			inventory: mongo.NewInventoryRepository(db),
			audit:     mongo.NewAuditRepository(db),
			pinger:    mongo.NewPinger(db),
			close:     client.Disconnect,
		}, nil
	}
}
