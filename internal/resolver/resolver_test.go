package resolver_test

import (
	"os"
	"testing"

	"gazette/internal/dataset"
	"gazette/internal/logging"
	"gazette/internal/registry"
	"gazette/internal/resolver"
	"gazette/internal/testsupport"
)

func loadTree(t *testing.T, root string) (*dataset.Store, []*dataset.File) {
	t.Helper()
	store := dataset.NewStore(root, logging.NewNop())
	files, err := store.LoadAll()
	if err != nil {
		t.Fatalf("load all: %v", err)
	}
	return store, files
}

func TestResolveKeepsFirstBasenameAndMovesImage(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteDatasetFile(t, root, "a.json", []map[string]any{
		{"id": "abc123", "title": "Keeper", "summary": "S"},
	})
	testsupport.WriteDatasetFile(t, root, "b.json", []map[string]any{
		{"id": "abc123", "title": "Loser", "summary": "S", "image_url": "images/b/abc123.png"},
	})
	oldImage := testsupport.WriteImage(t, root, "b", "abc123")

	store, files := loadTree(t, root)
	reg := registry.Build(files)
	result, err := resolver.New(store, logging.NewNop()).Resolve(reg)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if result.CollisionsFound != 1 || result.IDsReassigned != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.ImagesMoved != 1 || result.FilesRewritten != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	aRecords := testsupport.ReadRawRecords(t, files[0].Path)
	if aRecords[0]["id"] != "abc123" {
		t.Fatalf("keeper id changed: %v", aRecords[0])
	}

	bRecords := testsupport.ReadRawRecords(t, files[1].Path)
	newID, _ := bRecords[0]["id"].(string)
	if newID == "abc123" || len(newID) != 8 {
		t.Fatalf("loser id = %q, want fresh 8-character id", newID)
	}
	wantURL := "images/b/" + newID + ".png"
	if bRecords[0]["image_url"] != wantURL {
		t.Fatalf("image_url = %v, want %s", bRecords[0]["image_url"], wantURL)
	}
	if _, err := os.Stat(oldImage); !os.IsNotExist(err) {
		t.Fatal("old image should be gone after the move")
	}
	if _, err := os.Stat(dataset.ImageAbsPath(root, files[1].Path, newID)); err != nil {
		t.Fatalf("moved image missing: %v", err)
	}
}

func TestResolveTreatsIDsCaseInsensitively(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteDatasetFile(t, root, "a.json", []map[string]any{
		{"id": "NewsItem1", "title": "A", "summary": "S"},
	})
	testsupport.WriteDatasetFile(t, root, "b.json", []map[string]any{
		{"id": "newsitem1", "title": "B", "summary": "S"},
	})

	store, files := loadTree(t, root)
	result, err := resolver.New(store, logging.NewNop()).Resolve(registry.Build(files))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if result.IDsReassigned != 1 {
		t.Fatalf("expected 1 reassignment, got %+v", result)
	}

	aRecords := testsupport.ReadRawRecords(t, files[0].Path)
	if aRecords[0]["id"] != "NewsItem1" {
		t.Fatalf("keeper should keep its original casing: %v", aRecords[0])
	}
}

func TestResolveThreeWayCollision(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteDatasetFile(t, root, "a.json", []map[string]any{
		{"id": "dup", "title": "A", "summary": "S"},
	})
	testsupport.WriteDatasetFile(t, root, "b.json", []map[string]any{
		{"id": "dup", "title": "B", "summary": "S"},
	})
	testsupport.WriteDatasetFile(t, root, "c.json", []map[string]any{
		{"id": "dup", "title": "C", "summary": "S"},
	})

	store, files := loadTree(t, root)
	result, err := resolver.New(store, logging.NewNop()).Resolve(registry.Build(files))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if result.IDsReassigned != 2 || result.FilesRewritten != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}

	seen := map[string]bool{}
	for _, file := range files {
		id, _ := testsupport.ReadRawRecords(t, file.Path)[0]["id"].(string)
		if seen[id] {
			t.Fatalf("id %q assigned twice", id)
		}
		seen[id] = true
	}
	if !seen["dup"] {
		t.Fatal("one occurrence should have kept the original id")
	}
}

func TestResolveLeavesDanglingImageURLForRegeneration(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteDatasetFile(t, root, "a.json", []map[string]any{
		{"id": "dup1", "title": "A", "summary": "S"},
	})
	testsupport.WriteDatasetFile(t, root, "b.json", []map[string]any{
		{"id": "dup1", "title": "B", "summary": "S", "image_url": "images/b/dup1.png"},
	})

	store, files := loadTree(t, root)
	result, err := resolver.New(store, logging.NewNop()).Resolve(registry.Build(files))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if result.ImagesMoved != 0 {
		t.Fatalf("no image on disk, nothing to move: %+v", result)
	}

	bRecords := testsupport.ReadRawRecords(t, files[1].Path)
	if bRecords[0]["id"] == "dup1" {
		t.Fatal("id should be reassigned even when the image is absent")
	}
	if bRecords[0]["image_url"] != "images/b/dup1.png" {
		t.Fatalf("stale image_url should be left for the sync pass: %v", bRecords[0])
	}
}

func TestResolveMovesImageWithoutCreatingImageURL(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteDatasetFile(t, root, "a.json", []map[string]any{
		{"id": "dup2", "title": "A", "summary": "S"},
	})
	testsupport.WriteDatasetFile(t, root, "b.json", []map[string]any{
		{"id": "dup2", "title": "B", "summary": "S"},
	})
	testsupport.WriteImage(t, root, "b", "dup2")

	store, files := loadTree(t, root)
	result, err := resolver.New(store, logging.NewNop()).Resolve(registry.Build(files))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if result.ImagesMoved != 1 {
		t.Fatalf("expected the on-disk image to follow the rename: %+v", result)
	}

	bRecords := testsupport.ReadRawRecords(t, files[1].Path)
	if _, ok := bRecords[0]["image_url"]; ok {
		t.Fatalf("image_url must not be created on a record that never had one: %v", bRecords[0])
	}
}

func TestResolveNoCollisionsRewritesNothing(t *testing.T) {
	root := t.TempDir()
	path := testsupport.WriteDatasetFile(t, root, "a.json", []map[string]any{
		{"id": "one", "title": "A", "summary": "S"},
		{"id": "two", "title": "B", "summary": "S"},
	})
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	store, files := loadTree(t, root)
	result, err := resolver.New(store, logging.NewNop()).Resolve(registry.Build(files))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if result.CollisionsFound != 0 || result.FilesRewritten != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(before) != string(after) {
		t.Fatal("untouched file was rewritten")
	}
}
