package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/epicevents/crm/internal/cli"
	"github.com/epicevents/crm/internal/config"
	"github.com/epicevents/crm/internal/events"
	"github.com/epicevents/crm/internal/observability"
	"github.com/epicevents/crm/internal/persistence"
	"github.com/epicevents/crm/internal/repository"
	"github.com/epicevents/crm/internal/service"
	"github.com/epicevents/crm/internal/session"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(os.Getenv("EPICEVENTS_ENV_FILE"))
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return 1
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Printf("failed to init logger: %v", err)
		return 1
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open session store", zap.String("store", cfg.Session.Store), zap.Error(err))
		return 1
	}
	defer closeStore()

	secretKey, err := session.LoadSecretKey(ctx, store)
	if err != nil {
		logger.Error("failed to load secret key", zap.Error(err))
		return 1
	}
	codec, err := session.NewCodec(secretKey,
		session.WithTTL(cfg.Session.TTL()),
		session.WithIssuer(cfg.Session.Issuer),
	)
	if err != nil {
		logger.Error("failed to build token codec", zap.Error(err))
		return 1
	}

	pg, dbErr := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if dbErr != nil {
		logger.Warn("postgres unavailable", zap.Error(dbErr))
	}
	defer pg.Close()

	pool := pg.PoolHandle()
	collaboratorRepo := repository.NewCollaboratorRepository(pool)
	clientRepo := repository.NewClientRepository(pool)
	contractRepo := repository.NewContractRepository(pool)
	eventRepo := repository.NewEventRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	observability.RegisterAuditLog(dispatcher, logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		Collaborators: collaboratorRepo,
		Store:         store,
		Codec:         codec,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})
	crmService := service.NewCRMService(*cfg, service.CRMDependencies{
		Collaborators: collaboratorRepo,
		Clients:       clientRepo,
		Contracts:     contractRepo,
		Events:        eventRepo,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})

	app := cli.New(cli.Config{
		Name:    cfg.App.Name,
		Version: version,
		Auth:    authService,
		CRM:     crmService,
		Store:   store,
		Database: func() error {
			if dbErr != nil {
				return dbErr
			}
			if pool == nil {
				return persistence.ErrNoDatabase
			}
			return nil
		},
		Migrate: func(ctx context.Context) (int, error) {
			return persistence.RunMigrations(ctx, pool, logger)
		},
		Logger: logger,
	})
	return app.Run(ctx, os.Args)
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (session.Store, func(), error) {
	if cfg.Session.Store == config.StoreRedis {
		rdb, err := persistence.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStore(rdb.Client), rdb.Close, nil
	}
	return session.NewEnvFileStore(cfg.Session.EnvFile), func() {}, nil
}
