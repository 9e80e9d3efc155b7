package resolver

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"gazette/internal/dataset"
	"gazette/internal/logging"
	"gazette/internal/registry"
)

// Result summarizes a resolution pass.
type Result struct {
	CollisionsFound int
	IDsReassigned   int
	ImagesMoved     int
	ImageMoveErrors int
	FilesRewritten  int
}

// Resolver rewrites colliding record identifiers so every id in the dataset
// tree is unique case-insensitively, keeping each record's on-disk image
// asset in step with the rename.
type Resolver struct {
	store  *dataset.Store
	logger *slog.Logger
}

// New creates a resolver over the given store.
func New(store *dataset.Store, logger *slog.Logger) *Resolver {
	return &Resolver{
		store:  store,
		logger: logging.NewComponentLogger(logger, "resolver"),
	}
}

// Resolve fixes every collision in the registry. For each colliding
// identifier the occurrence from the lexicographically-first file basename
// keeps it; every other occurrence gets a freshly minted id, and its image
// asset (if present at the old derived path) is moved to the new derived
// path. Each touched file is rewritten exactly once, at the end of the pass,
// with record order intact.
func (r *Resolver) Resolve(reg *registry.Registry) (Result, error) {
	var result Result

	collisions := reg.Collisions()
	result.CollisionsFound = len(collisions)

	modified := make(map[string]*dataset.File)
	for _, collision := range collisions {
		occurrences := append([]registry.Occurrence(nil), collision.Occurrences...)
		sort.SliceStable(occurrences, func(i, j int) bool {
			return filepath.Base(occurrences[i].File.Path) < filepath.Base(occurrences[j].File.Path)
		})

		keeper := occurrences[0]
		r.logger.Info("duplicate id found",
			logging.String(logging.FieldRecordID, collision.ID),
			logging.Int("occurrences", len(occurrences)),
			logging.String("keeping", filepath.Base(keeper.File.Path)))

		for _, occ := range occurrences[1:] {
			record := occ.Record()
			oldID := record.ID

			newID, err := reg.MintID()
			if err != nil {
				return result, err
			}
			reg.Reserve(newID, occ)

			r.relocateImage(record, occ.File, oldID, newID, &result)
			record.ID = newID
			result.IDsReassigned++
			modified[occ.File.Path] = occ.File

			r.logger.Info("reassigned id",
				logging.String(logging.FieldFile, filepath.Base(occ.File.Path)),
				logging.Int("index", occ.Index),
				logging.String("old_id", oldID),
				logging.String(logging.FieldRecordID, newID))
		}
	}

	paths := make([]string, 0, len(modified))
	for path := range modified {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		if err := r.store.Save(modified[path]); err != nil {
			return result, err
		}
		result.FilesRewritten++
	}
	return result, nil
}

// relocateImage moves the occurrence's asset from the old derived path to the
// new one. A failed move is logged and leaves image_url untouched; the next
// asset sync pass notices the dangling reference and regenerates.
func (r *Resolver) relocateImage(record *dataset.Record, file *dataset.File, oldID, newID string, result *Result) {
	oldPath := dataset.ImageAbsPath(r.store.Root(), file.Path, oldID)
	if _, err := os.Stat(oldPath); err != nil {
		return
	}
	newPath := dataset.ImageAbsPath(r.store.Root(), file.Path, newID)
	if err := os.Rename(oldPath, newPath); err != nil {
		result.ImageMoveErrors++
		r.logger.Warn("image move failed, leaving image_url on old path",
			logging.String(logging.FieldFile, filepath.Base(file.Path)),
			logging.String("old_id", oldID),
			logging.String(logging.FieldRecordID, newID),
			logging.Error(err))
		return
	}
	result.ImagesMoved++
	if record.ImageURL != nil {
		record.SetImageURL(dataset.ImageRelPath(file.Path, newID))
	}
}
