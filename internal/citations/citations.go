package citations

import (
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"gazette/internal/dataset"
	"gazette/internal/logging"
)

// citationPattern matches source-citation markers like "[cite: 45]" or
// "[cite: 3, 12]" that leak into scraped article text.
var citationPattern = regexp.MustCompile(`\[cite:\s*[\d,\s]+\]`)

// CleanText strips citation markers and collapses the whitespace their
// removal leaves behind.
func CleanText(text string) string {
	cleaned := citationPattern.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(cleaned), " ")
}

// CleanRecord scrubs title, summary, and raw_text in place. It reports
// whether anything changed.
func CleanRecord(record *dataset.Record) bool {
	changed := false
	if cleaned := CleanText(record.Title); cleaned != record.Title {
		record.Title = cleaned
		changed = true
	}
	if cleaned := CleanText(record.Summary); cleaned != record.Summary {
		record.Summary = cleaned
		changed = true
	}
	if record.RawText != nil {
		if cleaned := CleanText(*record.RawText); cleaned != *record.RawText {
			record.SetRawText(cleaned)
			changed = true
		}
	}
	return changed
}

// Cleaner scrubs citation markers across the dataset tree, rewriting only
// files that actually changed.
type Cleaner struct {
	store  *dataset.Store
	logger *slog.Logger
}

// NewCleaner creates a cleaner over the given store.
func NewCleaner(store *dataset.Store, logger *slog.Logger) *Cleaner {
	return &Cleaner{
		store:  store,
		logger: logging.NewComponentLogger(logger, "citations"),
	}
}

// Clean scrubs every loaded file and returns the number of files rewritten.
func (c *Cleaner) Clean(files []*dataset.File) (int, error) {
	rewritten := 0
	for _, file := range files {
		changed := false
		for _, record := range file.Records {
			if CleanRecord(record) {
				changed = true
			}
		}
		if !changed {
			continue
		}
		if err := c.store.Save(file); err != nil {
			return rewritten, err
		}
		rewritten++
		c.logger.Info("cleaned citations",
			logging.String(logging.FieldFile, filepath.Base(file.Path)))
	}
	return rewritten, nil
}
