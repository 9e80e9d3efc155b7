package assets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gazette/internal/dataset"
	"gazette/internal/logging"
	"gazette/internal/registry"
)

// Describer produces a short image-generation prompt for an article.
type Describer interface {
	Describe(ctx context.Context, title, summary string) (string, error)
}

// Generator produces raw image bytes for a prompt. Implementations apply
// their own bounded-retry policy; a returned error means retries are spent.
type Generator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// Stats summarizes a synchronization pass.
type Stats struct {
	RecordsVisited int
	Generated      int
	Skipped        int
	Failed         int
}

// Synchronizer populates missing illustrations. Records advance through
// missing asset -> prompted -> generated -> saved -> synced; any failure
// drops the record back to missing for the next run, with nothing persisted
// for it.
type Synchronizer struct {
	store     *dataset.Store
	registry  *registry.Registry
	describer Describer
	generator Generator
	logger    *slog.Logger
	pause     time.Duration
	sleep     func(time.Duration)
}

// SyncOption customizes the synchronizer.
type SyncOption func(*Synchronizer)

// WithPause sets the rate-limiting pause between generated records.
func WithPause(pause time.Duration) SyncOption {
	return func(s *Synchronizer) {
		s.pause = pause
	}
}

// WithSleep overrides how the pause is performed (useful for tests).
func WithSleep(sleep func(time.Duration)) SyncOption {
	return func(s *Synchronizer) {
		s.sleep = sleep
	}
}

// NewSynchronizer creates a synchronizer over the given store and backends.
// The registry must cover every file the pass will visit; it is consulted
// when minting ids for records that lack one.
func NewSynchronizer(store *dataset.Store, reg *registry.Registry, describer Describer, generator Generator, logger *slog.Logger, opts ...SyncOption) *Synchronizer {
	s := &Synchronizer{
		store:     store,
		registry:  reg,
		describer: describer,
		generator: generator,
		logger:    logging.NewComponentLogger(logger, "assets"),
		pause:     5 * time.Second,
		sleep:     time.Sleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NeedsAsset reports whether a record lacks a verified-present illustration:
// image_url empty or missing, or the referenced file absent on disk.
// Metadata alone is never trusted.
func NeedsAsset(root string, record *dataset.Record) bool {
	rel := record.ImageURLString()
	if rel == "" {
		return true
	}
	_, err := os.Stat(dataset.ResolveRelPath(root, rel))
	return err != nil
}

// SyncAll processes every file in order. Per-record failures skip that
// record only; the pass always continues to the next file.
func (s *Synchronizer) SyncAll(ctx context.Context, files []*dataset.File) (Stats, error) {
	var total Stats
	for _, file := range files {
		stats, err := s.SyncFile(ctx, file)
		total.RecordsVisited += stats.RecordsVisited
		total.Generated += stats.Generated
		total.Skipped += stats.Skipped
		total.Failed += stats.Failed
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// SyncFile visits each record in file order and fills in missing assets.
// The owning file is persisted immediately after every completed record, so
// an interruption loses at most the in-flight one. Only context cancellation
// aborts the pass.
func (s *Synchronizer) SyncFile(ctx context.Context, file *dataset.File) (Stats, error) {
	var stats Stats
	logger := s.logger.With(logging.String(logging.FieldFile, filepath.Base(file.Path)))

	for idx, record := range file.Records {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.RecordsVisited++

		if !NeedsAsset(s.store.Root(), record) {
			stats.Skipped++
			continue
		}

		if err := s.syncRecord(ctx, file, idx, logger); err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			stats.Failed++
			continue
		}
		stats.Generated++

		if s.pause > 0 {
			s.sleep(s.pause)
		}
	}
	return stats, nil
}

func (s *Synchronizer) syncRecord(ctx context.Context, file *dataset.File, idx int, logger *slog.Logger) error {
	record := file.Records[idx]
	logger.Info("generating image", logging.String("title", truncate(record.Title, 50)))

	prompt, err := s.describer.Describe(ctx, record.Title, record.Summary)
	if err != nil {
		logger.Warn("prompt generation failed, skipping record",
			logging.String(logging.FieldRecordID, record.ID),
			logging.Error(err))
		return err
	}

	image, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		logger.Warn("image generation failed, skipping record",
			logging.String(logging.FieldRecordID, record.ID),
			logging.Error(err))
		return err
	}

	if record.ID == "" {
		minted, err := s.registry.MintID()
		if err != nil {
			logger.Warn("id minting failed, skipping record", logging.Error(err))
			return err
		}
		record.ID = minted
		s.registry.Reserve(minted, registry.Occurrence{File: file, Index: idx})
		logger.Info("minted missing id", logging.String(logging.FieldRecordID, minted))
	}

	target := dataset.ImageAbsPath(s.store.Root(), file.Path, record.ID)
	if err := writeImage(target, image); err != nil {
		logger.Warn("image write failed, skipping record",
			logging.String(logging.FieldRecordID, record.ID),
			logging.Error(err))
		return err
	}

	record.SetImageURL(dataset.ImageRelPath(file.Path, record.ID))
	record.SetImagePrompt(prompt)

	if err := s.store.Save(file); err != nil {
		logger.Error("dataset save failed after image write",
			logging.String(logging.FieldRecordID, record.ID),
			logging.Error(err))
		return err
	}

	logger.Info("image synced",
		logging.String(logging.FieldRecordID, record.ID),
		logging.String("image_url", record.ImageURLString()))
	return nil
}

func writeImage(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create image directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	return nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
