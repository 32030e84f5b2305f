package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"

	"errandgo/internal/auth"
	"errandgo/internal/config"
	"errandgo/internal/dashboard"
	"errandgo/internal/database/migration"
	"errandgo/internal/database/seeder"
	"errandgo/internal/delivery/http/handler"
	"errandgo/internal/delivery/http/middleware"
	"errandgo/internal/delivery/http/routes"
	"errandgo/internal/domain/profile"
	"errandgo/internal/infrastructure/persistence/postgres"
	sessioninfra "errandgo/internal/infrastructure/session"
	"errandgo/internal/pkg/jwt"
	"errandgo/internal/storage"
	"errandgo/internal/usecase/guard"
	"errandgo/internal/usecase/login"
	"errandgo/internal/usecase/registration"
	"errandgo/internal/ws"
)

type App struct {
	Fiber *fiber.App
}

// Bootstrap wires the whole service: postgres (with migrations), redis
// sessions, blob storage, the three core flows, and the HTTP surface. The
// returned cleanup closes every connection it opened.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	db, err := postgres.Connect(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres connect: %w", err)
	}

	migCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := (migration.Runner{Dir: "migrations"}).Run(migCtx, db.SQLDB()); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}

	if cfg.App.SeedDemoAccounts {
		run := seeder.Runner{Seeders: []seeder.Seeder{seeder.DemoAccountsSeeder{}}}
		if err := run.Run(migCtx, db.SQLDB()); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("seed: %w", err)
		}
		logger.Printf("demo accounts seeded")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
	})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancelPing()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = db.Close()
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis connect: %w", err)
	}

	blobs, err := storage.NewFilesystemStore(cfg.Storage.RootDir)
	if err != nil {
		_ = db.Close()
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("storage root: %w", err)
	}

	identityRepo, err := postgres.NewIdentityRepository(db)
	if err != nil {
		_ = db.Close()
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("identity repository: %w", err)
	}
	profileRepo, err := postgres.NewProfileRepository(db)
	if err != nil {
		_ = identityRepo.Close()
		_ = db.Close()
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("profile repository: %w", err)
	}

	sessionStore := sessioninfra.NewStore(rdb, logger)
	tokenSvc := jwt.NewHMACService(cfg.JWT.Secret)
	authSvc := auth.NewService(identityRepo, sessionStore, tokenSvc, cfg.JWT.SessionTTL, logger)

	regSvc := registration.NewService(
		authSvc, blobs, profileRepo,
		registration.AvatarFailurePolicy(cfg.Registration.AvatarFailurePolicy),
		logger,
	)
	loginSvc := login.NewService(authSvc, profileRepo, logger)

	senderGuard := guard.New(profile.RoleSender, authSvc, profileRepo, logger)
	runnerGuard := guard.New(profile.RoleRunner, authSvc, profileRepo, logger)
	senderGuardMw := middleware.NewGuardMiddleware(senderGuard)
	runnerGuardMw := middleware.NewGuardMiddleware(runnerGuard)

	catalog := dashboard.NewCatalog()

	registry := routes.NewRegistry(
		handler.NewHomeHandler(cfg.App.AppName),
		handler.NewAuthHandler(regSvc, loginSvc, authSvc),
		handler.NewDashboardHandler(profile.RoleSender, senderGuardMw, catalog),
		handler.NewDashboardHandler(profile.RoleRunner, runnerGuardMw, catalog),
		ws.NewSessionEventsHandler(profile.RoleSender, senderGuard, senderGuardMw, logger),
		ws.NewSessionEventsHandler(profile.RoleRunner, runnerGuard, runnerGuardMw, logger),
	)

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})
	f.Use(middleware.NewErrorMiddleware().Middleware())
	f.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	registry.Register(f)

	cleanup := func() error {
		var firstErr error
		for _, c := range []func() error{identityRepo.Close, profileRepo.Close, db.Close, rdb.Close} {
			if err := c(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}

	return &App{Fiber: f}, cleanup, nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
