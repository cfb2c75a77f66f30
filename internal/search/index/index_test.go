package index

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"search100/internal/search/tokenizer"
)

func buildSample(dataDir string) *Store {
	s := NewStore(dataDir)
	s.AddDocument("a.txt", [][]tokenizer.Stem{
		{{Index: 0, Original: "cats", Stemmed: "cat"}},
	})
	s.AddDocument("b.txt", [][]tokenizer.Stem{
		{{Index: 0, Original: "dog", Stemmed: "dog"}, {Index: 4, Original: "runs", Stemmed: "run"}},
	})
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	original := buildSample(dir)
	if err := original.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded := NewStore(dir)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !reflect.DeepEqual(original.documents, reloaded.documents) {
		t.Errorf("documents mismatch:\n%+v\n%+v", original.documents, reloaded.documents)
	}
	if !reflect.DeepEqual(original.termOccurrences, reloaded.termOccurrences) {
		t.Errorf("term_occurrences mismatch:\n%+v\n%+v", original.termOccurrences, reloaded.termOccurrences)
	}
	if !reflect.DeepEqual(original.termDocuments, reloaded.termDocuments) {
		t.Errorf("term_documents mismatch:\n%+v\n%+v", original.termDocuments, reloaded.termDocuments)
	}
}

func TestExistsOnDisk(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	if s.ExistsOnDisk() {
		t.Fatal("ExistsOnDisk true before any Save")
	}
	s.AddDocument("a.txt", [][]tokenizer.Stem{{{Index: 0, Original: "cats", Stemmed: "cat"}}})
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !s.ExistsOnDisk() {
		t.Fatal("ExistsOnDisk false after Save")
	}
}

func TestLoadDetectsCorruption(t *testing.T) {
	dir := t.TempDir()
	s := buildSample(dir)
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Overwrite term_documents.json with an entry referencing a term that
	// has no backing occurrence anywhere in term_occurrences.json.
	path := filepath.Join(dir, termDocumentsFile)
	if err := os.WriteFile(path, []byte(`{"ghost":[0]}`), 0o644); err != nil {
		t.Fatalf("writing corrupted file: %v", err)
	}

	reloaded := NewStore(dir)
	if err := reloaded.Load(); err == nil {
		t.Fatal("Load succeeded on corrupted index, want error")
	}
}

func TestAddDocumentAssignsDenseIDs(t *testing.T) {
	s := NewStore(t.TempDir())
	id0 := s.AddDocument("a.txt", nil)
	id1 := s.AddDocument("b.txt", nil)
	if id0 != 0 || id1 != 1 {
		t.Errorf("got ids %d, %d, want 0, 1", id0, id1)
	}
}
