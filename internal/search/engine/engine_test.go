package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"search100/internal/search/ranker"
)

func twoFileCorpus(t *testing.T) (corpusDir, dataDir string) {
	t.Helper()
	corpusDir = t.TempDir()
	dataDir = t.TempDir()
	if err := os.WriteFile(filepath.Join(corpusDir, "a.txt"), []byte("cats and dogs"), 0o644); err != nil {
		t.Fatalf("WriteFile a.txt: %v", err)
	}
	if err := os.WriteFile(filepath.Join(corpusDir, "b.txt"), []byte("the dog runs"), 0o644); err != nil {
		t.Fatalf("WriteFile b.txt: %v", err)
	}
	return corpusDir, dataDir
}

func newIndexedEngine(t *testing.T) *Engine {
	t.Helper()
	corpusDir, dataDir := twoFileCorpus(t)
	e, err := New(corpusDir, dataDir, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.IndexCorpus(context.Background(), false); err != nil {
		t.Fatalf("IndexCorpus: %v", err)
	}
	return e
}

func docIDFor(t *testing.T, e *Engine, name string) int {
	t.Helper()
	for id := 0; id < e.IndexSize(); id++ {
		path, err := e.DocumentPath(id)
		if err != nil {
			t.Fatalf("DocumentPath(%d): %v", id, err)
		}
		if filepath.Base(path) == name {
			return id
		}
	}
	t.Fatalf("no document named %q", name)
	return -1
}

func TestSearchCatAnd(t *testing.T) {
	e := newIndexedEngine(t)
	aID := docIDFor(t, e, "a.txt")

	results := e.Search("cat", ranker.AND)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1: %+v", len(results), results)
	}
	r := results[0]
	if r.DocumentID != aID {
		t.Errorf("DocumentID = %d, want %d (a.txt)", r.DocumentID, aID)
	}
	if len(r.Occurrences) != 1 {
		t.Fatalf("got %d occurrences, want 1: %+v", len(r.Occurrences), r.Occurrences)
	}
	occ := r.Occurrences[0]
	if occ.Line != 0 || occ.Index != 0 || occ.Original != "cats" {
		t.Errorf("occurrence = %+v, want {Line:0 Index:0 Original:cats}", occ)
	}
}

func TestSearchDogOr(t *testing.T) {
	e := newIndexedEngine(t)
	aID := docIDFor(t, e, "a.txt")

	results := e.Search("dog", ranker.OR)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2: %+v", len(results), results)
	}
	// a.txt ({cat, dog}) and b.txt ({dog, run}) both carry exactly two
	// distinct stems, so "dog" ties on score between them; the stable
	// sort preserves candidate order, which follows ascending document
	// ID, and WalkDir visits a.txt before b.txt in lexical order.
	if results[0].DocumentID != aID {
		t.Errorf("top result DocumentID = %d, want %d (a.txt, tie broken by insertion order)", results[0].DocumentID, aID)
	}
}

func TestSearchTheOr(t *testing.T) {
	e := newIndexedEngine(t)
	results := e.Search("the", ranker.OR)
	if len(results) != 0 {
		t.Errorf("got %d results for stop-word query, want 0: %+v", len(results), results)
	}
}

// a.txt's text is "cats and dogs", so it carries both the cat and the
// dog stem; an AND query over both terms intersects to exactly that one
// document rather than coming up empty.
func TestSearchCatAndDogAnd(t *testing.T) {
	e := newIndexedEngine(t)
	aID := docIDFor(t, e, "a.txt")

	results := e.Search("cat and dog", ranker.AND)
	docIDs := make(map[int]bool)
	for _, r := range results {
		docIDs[r.DocumentID] = true
	}
	if len(docIDs) != 1 || !docIDs[aID] {
		t.Errorf("got documents %v, want only %d (a.txt)", docIDs, aID)
	}
}

func TestEmptyCorpusSearch(t *testing.T) {
	corpusDir := t.TempDir()
	dataDir := t.TempDir()
	e, err := New(corpusDir, dataDir, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.IndexCorpus(context.Background(), false); err != nil {
		t.Fatalf("IndexCorpus: %v", err)
	}
	if e.IndexSize() != 0 {
		t.Fatalf("IndexSize = %d, want 0", e.IndexSize())
	}
	if results := e.Search("anything", ranker.AND); len(results) != 0 {
		t.Errorf("got %d results on empty corpus, want 0", len(results))
	}
}

func TestNewRejectsFileAsCorpusDir(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "not-a-dir.txt")
	if err := os.WriteFile(filePath, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := New(filePath, t.TempDir(), nil); err == nil {
		t.Error("New succeeded with a file as corpus dir, want error")
	}
}

func TestDocumentPathUnknownID(t *testing.T) {
	e := newIndexedEngine(t)
	if _, err := e.DocumentPath(999); err == nil {
		t.Error("DocumentPath(999) succeeded, want error")
	}
}
