package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// WriteDatasetFile marshals records to <root>/<name> as an indented JSON
// array, creating parent directories as needed, and returns the full path.
func WriteDatasetFile(t testing.TB, root, name string, records any) string {
	t.Helper()

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		t.Fatalf("marshal records for %s: %v", name, err)
	}
	path := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteImage places a small fake asset at the derived path
// <root>/images/<fileBase>/<id>.png and returns the full path.
func WriteImage(t testing.TB, root, fileBase, id string) string {
	t.Helper()

	dir := filepath.Join(root, "images", fileBase)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, id+".png")
	if err := os.WriteFile(path, []byte("png-bytes"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// ReadRawRecords parses a dataset file back into generic maps for assertions
// that need to see the exact serialized keys.
func ReadRawRecords(t testing.TB, path string) []map[string]any {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}
	return records
}
