package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"gazette/internal/assets"
	"gazette/internal/citations"
	"gazette/internal/config"
	"gazette/internal/dataset"
	"gazette/internal/logging"
	"gazette/internal/registry"
	"gazette/internal/resolver"
	"gazette/internal/services"
	"gazette/internal/services/gemini"
	"gazette/internal/services/pollinations"
)

// lockFileName is created under the dataset root while a mutating pass runs.
const lockFileName = ".gazette.lock"

// Summary aggregates the results of a full pipeline run.
type Summary struct {
	Resolution       resolver.Result
	CitationsCleaned int
	Sync             assets.Stats
}

// Pipeline wires the consistency passes together in their fixed order:
// identifier resolution, citation cleanup, asset synchronization. Execution
// is sequential and single-instance per dataset root.
type Pipeline struct {
	cfg       *config.Config
	store     *dataset.Store
	describer assets.Describer
	generator assets.Generator
	logger    *slog.Logger
	lock      *flock.Flock
}

// New constructs a pipeline for the configured dataset root and generation
// backend.
func New(cfg *config.Config, logger *slog.Logger) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.New("pipeline requires a config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	describer, generator, err := buildBackend(cfg)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:       cfg,
		store:     dataset.NewStore(cfg.Paths.DatasetDir, logger),
		describer: describer,
		generator: generator,
		logger:    logging.NewComponentLogger(logger, "pipeline"),
		lock:      flock.New(filepath.Join(cfg.Paths.DatasetDir, lockFileName)),
	}, nil
}

func buildBackend(cfg *config.Config) (assets.Describer, assets.Generator, error) {
	policy := services.RetryPolicy{
		MaxAttempts: cfg.Retry.MaxAttempts,
		BaseDelay:   time.Duration(cfg.Retry.BaseDelaySecs) * time.Second,
		Multiplier:  cfg.Retry.Multiplier,
		MaxDelay:    time.Duration(cfg.Retry.MaxDelaySeconds) * time.Second,
	}

	switch cfg.Generation.Provider {
	case "pollinations":
		client := pollinations.NewClient(pollinations.Config{
			TextBaseURL:    cfg.Pollinations.TextBaseURL,
			ImageBaseURL:   cfg.Pollinations.ImageBaseURL,
			Model:          cfg.Pollinations.Model,
			Width:          cfg.Pollinations.Width,
			Height:         cfg.Pollinations.Height,
			TimeoutSeconds: cfg.Pollinations.TimeoutSeconds,
		}, pollinations.WithRetryPolicy(policy))
		return client, client, nil
	case "gemini":
		client := gemini.NewClient(gemini.Config{
			APIKey:         cfg.Gemini.APIKey,
			BaseURL:        cfg.Gemini.BaseURL,
			TextModel:      cfg.Gemini.TextModel,
			ImageModel:     cfg.Gemini.ImageModel,
			TimeoutSeconds: cfg.Gemini.TimeoutSeconds,
		}, gemini.WithRetryPolicy(policy))
		return client, client, nil
	default:
		return nil, nil, services.Wrap(services.ErrConfiguration, "pipeline", "build backend",
			fmt.Sprintf("unknown provider %q", cfg.Generation.Provider), nil)
	}
}

// Store exposes the underlying dataset store.
func (p *Pipeline) Store() *dataset.Store {
	return p.store
}

// Run executes the full pipeline: resolve duplicate ids, scrub citations,
// then populate missing illustrations.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	var summary Summary
	err := p.withLock(func() error {
		files, err := p.loadTree()
		if err != nil {
			return err
		}

		reg := registry.Build(files)
		summary.Resolution, err = resolver.New(p.store, p.logger).Resolve(reg)
		if err != nil {
			return err
		}

		summary.CitationsCleaned, err = citations.NewCleaner(p.store, p.logger).Clean(files)
		if err != nil {
			return err
		}

		summary.Sync, err = p.newSynchronizer(reg).SyncAll(ctx, files)
		return err
	})
	return summary, err
}

// ResolveIDs runs only the collision-resolution pass.
func (p *Pipeline) ResolveIDs(ctx context.Context) (resolver.Result, error) {
	var result resolver.Result
	err := p.withLock(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		files, err := p.loadTree()
		if err != nil {
			return err
		}
		result, err = resolver.New(p.store, p.logger).Resolve(registry.Build(files))
		return err
	})
	return result, err
}

// CleanCitations runs only the citation scrub.
func (p *Pipeline) CleanCitations(ctx context.Context) (int, error) {
	var cleaned int
	err := p.withLock(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		files, err := p.loadTree()
		if err != nil {
			return err
		}
		cleaned, err = citations.NewCleaner(p.store, p.logger).Clean(files)
		return err
	})
	return cleaned, err
}

// SyncImages runs only the asset-synchronization pass.
func (p *Pipeline) SyncImages(ctx context.Context) (assets.Stats, error) {
	var stats assets.Stats
	err := p.withLock(func() error {
		files, err := p.loadTree()
		if err != nil {
			return err
		}
		stats, err = p.newSynchronizer(registry.Build(files)).SyncAll(ctx, files)
		return err
	})
	return stats, err
}

// Adopt points records at derived-path assets that already exist on disk.
func (p *Pipeline) Adopt(ctx context.Context) (assets.AdoptStats, error) {
	var stats assets.AdoptStats
	err := p.withLock(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		files, err := p.loadTree()
		if err != nil {
			return err
		}
		stats, err = assets.NewAdopter(p.store, p.logger).Adopt(files)
		return err
	})
	return stats, err
}

// Report builds the asset-coverage report. Read-only, no lock taken.
func (p *Pipeline) Report(ctx context.Context) (assets.Report, error) {
	if err := ctx.Err(); err != nil {
		return assets.Report{}, err
	}
	files, err := p.loadTree()
	if err != nil {
		return assets.Report{}, err
	}
	return assets.BuildReport(p.store.Root(), files), nil
}

func (p *Pipeline) newSynchronizer(reg *registry.Registry) *assets.Synchronizer {
	return assets.NewSynchronizer(p.store, reg, p.describer, p.generator, p.logger,
		assets.WithPause(time.Duration(p.cfg.Generation.RateLimitSeconds)*time.Second))
}

func (p *Pipeline) loadTree() ([]*dataset.File, error) {
	if info, err := os.Stat(p.store.Root()); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("dataset directory %s not found", p.store.Root())
	}
	return p.store.LoadAll()
}

// withLock guards mutating passes with a dataset-level file lock so two
// gazette processes cannot rewrite the same tree at once.
func (p *Pipeline) withLock(fn func() error) error {
	ok, err := p.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire dataset lock: %w", err)
	}
	if !ok {
		return errors.New("another gazette run is already in progress for this dataset")
	}
	defer func() {
		if err := p.lock.Unlock(); err != nil {
			p.logger.Warn("failed to release dataset lock", logging.Error(err))
		}
	}()
	return fn()
}
