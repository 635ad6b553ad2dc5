// Package bootstrap wires repositories and services for the API server and
// the admin CLI.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"kovil/internal/adapter/memstore"
	"kovil/internal/adapter/repo"
	"kovil/internal/dashboard"
	"kovil/internal/domain"
	"kovil/internal/donation"
	"kovil/internal/donor"
	"kovil/internal/http/handlers"
	"kovil/internal/importer"
	"kovil/internal/infra"
	"kovil/internal/infra/credentials"
	"kovil/internal/infra/geoip"
	"kovil/internal/middleware"
	"kovil/internal/receipt"
	"kovil/internal/storage"
)

// Container holds the long-lived services of one process.
type Container struct {
	Config *infra.Config
	Logger infra.Logger

	Donations   *donation.Service
	Receipts    *receipt.Allocator
	Donors      *donor.Aggregator
	Dashboard   *dashboard.Service
	Importer    *importer.Pipeline
	Credentials *credentials.Store
	GeoIP       *geoip.Resolver

	pool   *pgxpool.Pool
	runner *infra.SQLRunner
}

type repositories struct {
	donations domain.DonationRepository
	receipts  domain.ReceiptSequenceRepository
	admins    domain.AdminRepository
}

// New connects storage for cfg.StorageDriver, applies migrations when asked
// and seeds the configured administrators.
func New(ctx context.Context, cfg *infra.Config, logger infra.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	repos, err := c.openStorage(ctx)
	if err != nil {
		return nil, err
	}

	loc := cfg.Location
	c.Donations = donation.NewService(repos.donations, donation.NewValidator(repos.donations, loc), logger)
	c.Receipts = receipt.NewAllocator(repos.receipts, cfg.ReceiptPadWidth, loc)
	c.Donors = donor.NewAggregator(repos.donations)
	c.Dashboard = dashboard.NewService(c.Donations, cfg.DashboardCacheTTL, loc, logger)
	c.Donations.OnChange(c.Dashboard.Invalidate)
	c.Importer = importer.NewPipeline(c.Donations, cfg.ImportMaxBytes, logger)
	c.Credentials = credentials.NewStore(repos.admins, logger)

	if len(cfg.AdminSeeds) > 0 {
		created, err := c.Credentials.Seed(ctx, cfg.AdminSeeds)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("seed admins: %w", err)
		}
		if created > 0 {
			logger.Info().Int("created", created).Msg("admin accounts seeded")
		}
	}

	c.GeoIP, err = geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.GeoIPDBPath).Msg("geoip disabled")
	}
	return c, nil
}

func (c *Container) openStorage(ctx context.Context) (repositories, error) {
	cfg := c.Config
	if cfg.StorageDriver == infra.StorageDriverMemory {
		c.Logger.Warn().Msg("using in-memory storage; data is lost on restart")
		store := memstore.New()
		return repositories{donations: store.Donations(), receipts: store.Receipts(), admins: store.Admins()}, nil
	}

	if cfg.MigrateOnStart {
		if _, err := infra.Migrate(ctx, cfg.DatabaseURL, c.Logger); err != nil {
			return repositories{}, err
		}
	}
	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		return repositories{}, fmt.Errorf("connect database: %w", err)
	}
	c.pool = pool
	runner := infra.NewSQLRunner(pool, c.Logger).WithSlowThreshold(cfg.SlowQueryThreshold)
	c.runner = runner
	return repositories{
		donations: repo.NewDonationRepository(runner),
		receipts:  repo.NewReceiptSequenceRepository(runner),
		admins:    repo.NewAdminRepository(runner),
	}, nil
}

// App builds the HTTP handler set over the container's services.
func (c *Container) App() *handlers.App {
	cfg := c.Config
	app := &handlers.App{
		Config:      cfg,
		Logger:      c.Logger,
		Location:    cfg.Location,
		Donations:   c.Donations,
		Receipts:    c.Receipts,
		Donors:      c.Donors,
		Dashboard:   c.Dashboard,
		Importer:    c.Importer,
		Credentials: c.Credentials,
		Sessions:    middleware.NewSessions(cfg.SessionSecret, cfg.SessionTTL, cfg.SessionCookieSecure),
	}
	if c.runner != nil {
		app.Ping = c.runner.Ping
	}
	return app
}

// Archives returns the export sinks named by the configuration, with the
// overrides taking precedence when non-empty.
func (c *Container) Archives(ctx context.Context, dir, bucket string) ([]storage.Archive, error) {
	if dir == "" {
		dir = c.Config.ExportArchiveDir
	}
	if bucket == "" {
		bucket = c.Config.ExportS3Bucket
	}
	var sinks []storage.Archive
	if dir != "" {
		fs, err := storage.NewFileStore(dir)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, fs)
	}
	if bucket != "" {
		s3, err := storage.NewS3Store(ctx, bucket, c.Config.AWSRegion)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s3)
	}
	return sinks, nil
}

// Close releases the database pool and geoip reader.
func (c *Container) Close() {
	if c.GeoIP != nil {
		if err := c.GeoIP.Close(); err != nil {
			c.Logger.Warn().Err(err).Msg("close geoip")
		}
	}
	if c.pool != nil {
		c.pool.Close()
	}
}
