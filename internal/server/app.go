// Package server wires configuration, the database, object storage and the
// services together and runs the Foodgram HTTP API.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/foodgram/internal/logging"
	"github.com/dmitrijs2005/foodgram/internal/server/config"
	"github.com/dmitrijs2005/foodgram/internal/server/httpapi"
	"github.com/dmitrijs2005/foodgram/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/foodgram/internal/server/services"
	"github.com/dmitrijs2005/foodgram/internal/server/storage"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.HTTPServer
}

// OpenDB connects to PostgreSQL and applies pending migrations.
func OpenDB(ctx context.Context, cfg *config.Config) (*sql.DB, repomanager.RepositoryManager, error) {
	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, rm, nil
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, cfg.LogLevel)

	db, rm, err := OpenDB(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	images, err := storage.NewS3Store(ctx, cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	svc := httpapi.Services{
		Users:         services.NewUserService(db, rm, images, cfg, logger),
		Ingredients:   services.NewIngredientService(db, rm),
		Recipes:       services.NewRecipeService(db, rm, images, cfg.BaseURL, logger),
		Marks:         services.NewMarkService(db, rm),
		ShoppingList:  services.NewShoppingListService(db, rm, logger),
		Subscriptions: services.NewSubscriptionService(db, rm),
	}

	return &App{
		config: cfg,
		logger: logger,
		db:     db,
		server: httpapi.NewHTTPServer(cfg, logger, svc),
	}, nil
}

// Run serves until SIGINT, SIGTERM or SIGQUIT arrives or ctx is cancelled.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.server.Run(ctx)
	})

	err := g.Wait()
	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(ctx, "db close", "error", cerr)
	}
	app.logger.Info(ctx, "App stopped")
	return err
}
