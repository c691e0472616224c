// Package bootstrap builds the service graph shared by the HTTP and gRPC
// servers from a loaded configuration.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"product-resource/internal/auth"
	"product-resource/internal/config"
	"product-resource/internal/database"
	"product-resource/internal/logger"
	"product-resource/internal/policy"
	"product-resource/internal/repository"
	"product-resource/internal/service"
)

type Stores struct {
	Products service.ProductRepository
	Users    service.UserRepository
	Health   map[string]service.Pinger
	Close    func(ctx context.Context)
}

// OpenStores connects the store selected by STORE_DRIVER and prepares its
// indexes or schema.
func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		db, err := database.Instance(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		products := repository.NewProductRepository(db.Database)
		users := repository.NewUserRepository(db.Database)
		if err := products.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("product indexes: %w", err)
		}
		if err := users.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("user indexes: %w", err)
		}
		return &Stores{
			Products: products,
			Users:    users,
			Health:   map[string]service.Pinger{"mongodb": db},
			Close: func(ctx context.Context) {
				if err := db.Close(ctx); err != nil {
					logger.Error(ctx, "Failed to disconnect MongoDB", slog.String("error", err.Error()))
				}
			},
		}, nil

	case config.StorePostgres:
		pg, err := database.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := repository.Migrate(pg.DB.WithContext(ctx)); err != nil {
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		return &Stores{
			Products: repository.NewGormProductRepository(pg.DB),
			Users:    repository.NewGormUserRepository(pg.DB),
			Health:   map[string]service.Pinger{"postgres": pg},
			Close: func(ctx context.Context) {
				if err := pg.Close(); err != nil {
					logger.Error(ctx, "Failed to close Postgres", slog.String("error", err.Error()))
				}
			},
		}, nil

	case config.StoreMemory:
		logger.Warn(ctx, "Using in-memory store; data is lost on exit")
		products := repository.NewMemoryProductRepository()
		return &Stores{
			Products: products,
			Users:    repository.NewMemoryUserRepository(),
			Health:   map[string]service.Pinger{"memory": products},
			Close:    func(context.Context) {},
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

type App struct {
	Stores   *Stores
	Products *service.ProductService
	Auth     *service.AuthService
	Health   *service.HealthService
	Sessions *auth.Sessions
	ACL      *policy.ACL
}

// NewApp wires the services over stores and seeds the admin account when
// ADMIN_USERNAME is set.
func NewApp(ctx context.Context, cfg *config.Config, stores *Stores) (*App, error) {
	authService := service.NewAuthService(stores.Users)
	app := &App{
		Stores:   stores,
		Products: service.NewProductService(stores.Products, stores.Users),
		Auth:     authService,
		Health:   service.NewHealthService(stores.Health),
		Sessions: auth.NewSessions(cfg.SessionSecret, authService),
		ACL:      policy.ProductsACL(),
	}

	if cfg.AdminUsername != "" {
		admin, created, err := authService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword, cfg.AdminDisplayName)
		if err != nil {
			return nil, fmt.Errorf("seed admin: %w", err)
		}
		if created {
			logger.Info(ctx, "Admin user created", slog.String("username", admin.Username))
		}
	}
	return app, nil
}
