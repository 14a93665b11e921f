// Package app assembles the search pipeline from configuration. Both the HTTP
// server and the CLI build on it.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/coursedex/internal/config"
	"github.com/kailas-cloud/coursedex/internal/db"
	"github.com/kailas-cloud/coursedex/internal/db/elastic"
	dbRedis "github.com/kailas-cloud/coursedex/internal/db/redis"
	"github.com/kailas-cloud/coursedex/internal/domain/search/filter"
	"github.com/kailas-cloud/coursedex/internal/metrics"
	"github.com/kailas-cloud/coursedex/internal/repository/catalog"
	"github.com/kailas-cloud/coursedex/internal/repository/respcache"
	healthuc "github.com/kailas-cloud/coursedex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/coursedex/internal/usecase/search"
)

// App holds the wired components. Cache is nil when the response cache is disabled.
type App struct {
	Index    *elastic.Client
	Catalog  *catalog.Store
	Cache    db.Store
	Subjects *searchuc.SubjectCache
	Search   *searchuc.Service
	Health   *healthuc.Service
}

// New connects to the backing services and builds the search service.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	index, err := elastic.NewClient(elastic.Config{
		Addresses: cfg.Index.Addresses,
		Username:  cfg.Index.Username,
		Password:  cfg.Index.Password,
		APIKey:    cfg.Index.APIKey,
		Timeout:   time.Duration(cfg.Index.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("index client: %w", err)
	}

	store, err := catalog.Open(ctx, catalog.Config{Driver: cfg.Catalog.Driver, DSN: cfg.Catalog.DSN})
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	if cfg.Catalog.Migrate {
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("catalog migrate: %w", err)
		}
	}
	logger.Info("Connected to catalog", zap.String("driver", cfg.Catalog.Driver))

	a := &App{Index: index, Catalog: store}

	var searcher searchuc.MultiSearcher = index
	if cfg.Cache.Enabled {
		cache, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
			Timeout:  time.Duration(cfg.Cache.TimeoutMs) * time.Millisecond,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("cache store: %w", err)
		}
		a.Cache = cache
		if err := cache.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			a.Close()
			return nil, fmt.Errorf("cache not ready: %w", err)
		}
		searcher = respcache.New(index, cache,
			time.Duration(cfg.Cache.TTLSec)*time.Second, metrics.SearchCacheTotal, logger)
		logger.Info("Response cache enabled",
			zap.Strings("addrs", cfg.Cache.Addrs),
			zap.Int("ttl_sec", cfg.Cache.TTLSec),
		)
	}

	a.Subjects = searchuc.NewSubjectCache(store)
	compiler := searchuc.NewCompiler(filter.Default(), a.Subjects)
	executor := searchuc.NewExecutor(searcher, cfg.Index.CourseIndex, cfg.Index.EmployeeIndex)
	a.Search = searchuc.New(compiler, executor, store)

	// A nil db.Store converts to a nil Pinger, which health skips.
	a.Health = healthuc.New(index, store, a.Cache)
	return a, nil
}

// Close releases every connection the App opened.
func (a *App) Close() {
	if a.Cache != nil {
		a.Cache.Close()
	}
	if a.Catalog != nil {
		_ = a.Catalog.Close()
	}
}
