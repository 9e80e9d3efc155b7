package assets

import (
	"log/slog"
	"os"
	"path/filepath"

	"gazette/internal/dataset"
	"gazette/internal/logging"
)

// AdoptStats summarizes an adoption pass.
type AdoptStats struct {
	RecordsUpdated int
	FilesRewritten int
}

// Adopter reconciles records with illustrations that already exist on disk,
// pointing image_url at the derived path without calling any backend. It
// covers assets produced out of band as well as the inconsistency window a
// failed rename during collision resolution leaves behind.
type Adopter struct {
	store  *dataset.Store
	logger *slog.Logger
}

// NewAdopter creates an adopter over the given store.
func NewAdopter(store *dataset.Store, logger *slog.Logger) *Adopter {
	return &Adopter{
		store:  store,
		logger: logging.NewComponentLogger(logger, "assets"),
	}
}

// Adopt scans every record with an id: when the derived asset exists on disk
// but image_url disagrees, image_url is rewritten to the derived path. Each
// changed file is rewritten once.
func (a *Adopter) Adopt(files []*dataset.File) (AdoptStats, error) {
	var stats AdoptStats
	for _, file := range files {
		updated := 0
		for _, record := range file.Records {
			if record.ID == "" {
				continue
			}
			derived := dataset.ImageRelPath(file.Path, record.ID)
			if record.ImageURLString() == derived {
				continue
			}
			if _, err := os.Stat(dataset.ImageAbsPath(a.store.Root(), file.Path, record.ID)); err != nil {
				continue
			}
			record.SetImageURL(derived)
			updated++
		}
		if updated == 0 {
			continue
		}
		if err := a.store.Save(file); err != nil {
			return stats, err
		}
		stats.RecordsUpdated += updated
		stats.FilesRewritten++
		a.logger.Info("adopted existing images",
			logging.String(logging.FieldFile, filepath.Base(file.Path)),
			logging.Int("records", updated))
	}
	return stats, nil
}
