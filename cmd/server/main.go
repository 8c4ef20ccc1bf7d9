// @title                       Accounts Service API
// @version                     1.0
// @description                 Registration, login, token refresh, self-service profile and admin user directory.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
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

	"github.com/rs/zerolog"

	"github.com/99minutos/accounts-service/internal/api"
	"github.com/99minutos/accounts-service/internal/api/handler"
	"github.com/99minutos/accounts-service/internal/core/ports"
	"github.com/99minutos/accounts-service/internal/core/service"
	mongostore "github.com/99minutos/accounts-service/internal/infrastructure/db/mongo"
	redisstore "github.com/99minutos/accounts-service/internal/infrastructure/db/redis"
	sqlitestore "github.com/99minutos/accounts-service/internal/infrastructure/db/sqlite"
	"github.com/99minutos/accounts-service/internal/infrastructure/queue"
	"github.com/99minutos/accounts-service/internal/infrastructure/token"
	"github.com/99minutos/accounts-service/internal/pkg/config"
	"github.com/99minutos/accounts-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "accounts-service",
		Env:     cfg.Env,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

// store is the slice of a backend the server needs.
type store struct {
	users  ports.UserRepository
	events ports.AccountEventRepository
	check  handler.Checker
	close  func(ctx context.Context) error
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, string, error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		s, err := sqlitestore.Open(ctx, cfg.SQLite.Path, logger.Component("sqlite"))
		if err != nil {
			return nil, "", fmt.Errorf("open sqlite: %w", err)
		}
		log.Info().Str("path", cfg.SQLite.Path).Msg("sqlite store ready")
		return &store{
			users:  s.Users,
			events: s.Events,
			check:  s,
			close:  func(context.Context) error { return s.Close() },
		}, "sqlite", nil
	default:
		s, err := mongostore.Open(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, "", fmt.Errorf("open mongo: %w", err)
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo store ready")
		return &store{users: s.Users, events: s.Events, check: s, close: s.Close}, "mongodb", nil
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, storeName, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("store close failed")
		}
	}()

	checks := map[string]handler.Checker{storeName: st.check}

	// --- Audit trail ---
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, service.NewAuditService(st.events, logger.Component("audit")), logger.Component("dispatcher"))
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)
	defer func() {
		stopWorkers()
		dispatcher.Wait()
	}()

	// --- Credential core ---
	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	issuer := service.NewTokenIssuer(
		token.NewSigner(cfg.JWT.Secret, token.WithIssuer(cfg.JWT.Issuer)),
		cfg.JWT.AccessTTL,
		cfg.JWT.RefreshTTL,
	)

	opts := []service.CredentialOption{
		service.WithAuditRecorder(dispatcher),
		service.WithRoleSelection(cfg.AllowRoleSelection),
	}
	if cfg.Redis.Enabled {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, uniqueness relies on store constraints only")
		} else {
			defer rdb.Close()
			guard := redisstore.NewClaimGuard(rdb, cfg.Redis.ClaimTTL)
			opts = append(opts, service.WithClaimGuard(guard))
			checks["redis"] = guard
		}
	}

	credentials := service.NewCredentialService(st.users, hasher, issuer, logger.Component("credentials"), opts...)

	if _, err := service.SeedAdmin(ctx, st.users, hasher, service.AdminSeed{
		Name:      cfg.Admin.Name,
		Surnames:  cfg.Admin.Surnames,
		Email:     cfg.Admin.Email,
		Telephone: cfg.Admin.Telephone,
		Password:  cfg.Admin.Password,
	}, log); err != nil {
		return err
	}

	e := api.NewRouter(api.Dependencies{
		Credentials: credentials,
		Directory:   service.NewUserDirectory(st.users),
		Tokens:      issuer,
		Checks:      checks,
		Log:         logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", storeName).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	log.Info().Msg("http server stopped")
	return nil
}
