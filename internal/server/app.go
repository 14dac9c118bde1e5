// Package server wires the document server: Postgres storage, S3 presigning,
// the gRPC document store and the ops endpoint.
package server

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/growthjournal/internal/common"
	"github.com/dmitrijs2005/growthjournal/internal/logging"
	"github.com/dmitrijs2005/growthjournal/internal/server/config"
	"github.com/dmitrijs2005/growthjournal/internal/server/metrics"
	"github.com/dmitrijs2005/growthjournal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/growthjournal/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/growthjournal/internal/server/grpc"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	documents *services.DocumentService
	metrics   *metrics.Metrics
}

// EnsureSecret fills an empty SecretKey with a random per-process value.
func EnsureSecret(ctx context.Context, c *config.Config, logger logging.Logger) error {
	if c.SecretKey != "" {
		return nil
	}
	secret, err := common.MakeRandHexString(32)
	if err != nil {
		return fmt.Errorf("generate secret: %w", err)
	}
	c.SecretKey = secret
	logger.Warn(ctx, "no secret key configured, using a random one; issued tokens stop working on restart")
	return nil
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := EnsureSecret(ctx, c, logger); err != nil {
		return nil, err
	}

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	presigner, err := services.NewS3Presigner(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config:    c,
		logger:    logger,
		db:        db,
		documents: services.NewDocumentService(db, rm, presigner, logger),
		metrics:   metrics.New(),
	}, nil
}

// Run serves gRPC and, when configured, the ops endpoint until ctx ends or
// either server fails.
func (app *App) Run(ctx context.Context) error {
	defer app.db.Close()

	app.logger.Info(ctx, "Starting app...")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.documents, app.metrics, app.config.SecretKey)
		return s.Run(ctx)
	})

	if app.config.OpsAddr != "" {
		g.Go(func() error {
			router := metrics.NewRouter(app.metrics, app.db)
			return metrics.NewOpsServer(app.config.OpsAddr, router, app.logger).Run(ctx)
		})
	}

	err := g.Wait()
	if err != nil {
		app.logger.Error(ctx, "server stopped", "error", err)
	}
	return err
}
