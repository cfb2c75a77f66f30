package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"search100/internal/search/index"
)

func writeCorpus(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	return dir
}

func TestIndexCorpusTwoFiles(t *testing.T) {
	corpus := writeCorpus(t, map[string]string{
		"a.txt": "cats and dogs",
		"b.txt": "the dog runs",
	})
	store := index.NewStore(t.TempDir())
	ix := New(corpus, store, nil)
	if err := ix.IndexCorpus(context.Background(), false); err != nil {
		t.Fatalf("IndexCorpus: %v", err)
	}
	if store.DocCount() != 2 {
		t.Fatalf("DocCount = %d, want 2", store.DocCount())
	}
	if !store.ExistsOnDisk() {
		t.Error("expected index persisted to disk after a non-empty build")
	}
}

func TestIndexCorpusIgnoresNonTxt(t *testing.T) {
	corpus := writeCorpus(t, map[string]string{
		"a.txt": "cats",
		"b.md":  "dogs",
	})
	store := index.NewStore(t.TempDir())
	ix := New(corpus, store, nil)
	if err := ix.IndexCorpus(context.Background(), false); err != nil {
		t.Fatalf("IndexCorpus: %v", err)
	}
	if store.DocCount() != 1 {
		t.Fatalf("DocCount = %d, want 1", store.DocCount())
	}
}

func TestIndexCorpusEmptyLeavesDiskUntouched(t *testing.T) {
	corpus := writeCorpus(t, map[string]string{})
	dataDir := t.TempDir()
	store := index.NewStore(dataDir)
	ix := New(corpus, store, nil)
	if err := ix.IndexCorpus(context.Background(), false); err != nil {
		t.Fatalf("IndexCorpus: %v", err)
	}
	if store.DocCount() != 0 {
		t.Fatalf("DocCount = %d, want 0", store.DocCount())
	}
	if store.ExistsOnDisk() {
		t.Error("expected no on-disk artifacts for a zero-document corpus")
	}
}

func TestIndexCorpusUsesCacheWhenPresent(t *testing.T) {
	corpus := writeCorpus(t, map[string]string{"a.txt": "cats"})
	dataDir := t.TempDir()

	store := index.NewStore(dataDir)
	ix := New(corpus, store, nil)
	if err := ix.IndexCorpus(context.Background(), true); err != nil {
		t.Fatalf("first IndexCorpus: %v", err)
	}

	// Remove the corpus entirely; a cached load must not need it.
	if err := os.RemoveAll(corpus); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}

	reloadedStore := index.NewStore(dataDir)
	reloadedIx := New(corpus, reloadedStore, nil)
	if err := reloadedIx.IndexCorpus(context.Background(), true); err != nil {
		t.Fatalf("cached IndexCorpus: %v", err)
	}
	if reloadedStore.DocCount() != 1 {
		t.Fatalf("DocCount = %d, want 1", reloadedStore.DocCount())
	}
}
