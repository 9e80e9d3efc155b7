package dataset

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gazette/internal/logging"
)

// File is one dataset file: an ordered sequence of records persisted as a
// single JSON array. Record order is preserved across rewrites.
type File struct {
	Path    string
	Records []*Record
}

// Base returns the file's name without extension.
func (f *File) Base() string {
	return FileBase(f.Path)
}

// Store reads and writes dataset files under a single root directory.
type Store struct {
	root   string
	logger *slog.Logger
}

// NewStore creates a store rooted at the given dataset directory.
func NewStore(root string, logger *slog.Logger) *Store {
	return &Store{
		root:   root,
		logger: logging.NewComponentLogger(logger, "dataset"),
	}
}

// Root returns the dataset root directory.
func (s *Store) Root() string {
	return s.root
}

// Discover walks the dataset tree and returns every .json file, sorted by
// path for reproducible processing order. Failure to enumerate is the one
// hard error in a run.
func (s *Store) Discover() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enumerate dataset files under %s: %w", s.root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// Load parses a single dataset file into records.
func (s *Store) Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var records []*Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &File{Path: path, Records: records}, nil
}

// LoadAll discovers and loads every dataset file. Files that fail to parse
// as a JSON array are logged and skipped; they are not fatal to the run.
func (s *Store) LoadAll() ([]*File, error) {
	paths, err := s.Discover()
	if err != nil {
		return nil, err
	}
	files := make([]*File, 0, len(paths))
	for _, path := range paths {
		file, err := s.Load(path)
		if err != nil {
			s.logger.Warn("skipping unreadable dataset file",
				logging.String(logging.FieldFile, filepath.Base(path)),
				logging.Error(err))
			continue
		}
		files = append(files, file)
	}
	return files, nil
}

// Save rewrites a dataset file wholesale. The JSON is written to a temporary
// file in the same directory and renamed into place so an interrupted run
// never leaves a torn file behind.
func (s *Store) Save(f *File) error {
	data, err := json.MarshalIndent(f.Records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.Path, err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(f.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.Path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", f.Path, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file for %s: %w", f.Path, err)
	}
	if err := os.Rename(tmpPath, f.Path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", f.Path, err)
	}
	return nil
}
