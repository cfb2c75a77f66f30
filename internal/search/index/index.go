// Package index holds the in-memory inverted index and its three-file
// on-disk representation.
package index

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"search100/internal/search/apperr"
	"search100/internal/search/tokenizer"
)

const (
	documentsFile      = "documents.json"
	termOccurrencesFile = "term_occurrences.json"
	termDocumentsFile  = "term_documents.json"
)

// Occurrence is a stem located at a specific (document, line) pair.
type Occurrence struct {
	DocumentID int
	Line       int
	Index      int
	Original   string
	Stemmed    string
}

// Store owns the three in-memory mappings described by the data model
// and their atomic JSON persistence. It is not safe for concurrent use;
// callers serialize access (cmd/search100's guardedEngine wraps the
// engine built on top of a Store in a sync.RWMutex for exactly this
// reason).
type Store struct {
	dataDir string

	documents       map[int]string
	termOccurrences map[int]map[string][]Occurrence
	termDocuments   map[string]map[int]struct{}
	nextID          int
}

// NewStore returns an empty Store that persists under dataDir.
func NewStore(dataDir string) *Store {
	return &Store{
		dataDir:         dataDir,
		documents:       make(map[int]string),
		termOccurrences: make(map[int]map[string][]Occurrence),
		termDocuments:   make(map[string]map[int]struct{}),
	}
}

// Reset discards all in-memory state, as a reindex requires.
func (s *Store) Reset() {
	s.documents = make(map[int]string)
	s.termOccurrences = make(map[int]map[string][]Occurrence)
	s.termDocuments = make(map[string]map[int]struct{})
	s.nextID = 0
}

// DocCount returns the number of indexed documents.
func (s *Store) DocCount() int {
	return len(s.documents)
}

// DocumentPath returns the path for a document ID, or false if unknown.
func (s *Store) DocumentPath(id int) (string, bool) {
	p, ok := s.documents[id]
	return p, ok
}

// TermDocuments returns the set of document IDs containing term, sorted
// for deterministic iteration.
func (s *Store) TermDocuments(term string) []int {
	set, ok := s.termDocuments[term]
	if !ok {
		return nil
	}
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Occurrences returns the occurrence list for (term, document), in
// document order.
func (s *Store) Occurrences(term string, docID int) []Occurrence {
	byTerm, ok := s.termOccurrences[docID]
	if !ok {
		return nil
	}
	return byTerm[term]
}

// DistinctTermCount returns the number of distinct terms occurring in a
// document — the TF denominator this engine deliberately uses instead of
// the total token count.
func (s *Store) DistinctTermCount(docID int) int {
	return len(s.termOccurrences[docID])
}

// AddDocument assigns the next document ID to path and records every
// stem in linesOfStems (one slice per line, in line order) as an
// Occurrence. It returns the assigned ID.
func (s *Store) AddDocument(path string, linesOfStems [][]tokenizer.Stem) int {
	id := s.nextID
	s.nextID++
	s.documents[id] = path
	byTerm := make(map[string][]Occurrence)
	for line, stems := range linesOfStems {
		for _, st := range stems {
			occ := Occurrence{
				DocumentID: id,
				Line:       line,
				Index:      st.Index,
				Original:   st.Original,
				Stemmed:    st.Stemmed,
			}
			byTerm[st.Stemmed] = append(byTerm[st.Stemmed], occ)
			if s.termDocuments[st.Stemmed] == nil {
				s.termDocuments[st.Stemmed] = make(map[int]struct{})
			}
			s.termDocuments[st.Stemmed][id] = struct{}{}
		}
	}
	s.termOccurrences[id] = byTerm
	return id
}

// ExistsOnDisk reports whether all three persisted files are present.
func (s *Store) ExistsOnDisk() bool {
	for _, name := range []string{documentsFile, termOccurrencesFile, termDocumentsFile} {
		if _, err := os.Stat(filepath.Join(s.dataDir, name)); err != nil {
			return false
		}
	}
	return true
}

// occurrenceJSON is the on-disk shape of an Occurrence within
// term_occurrences.json: document_id and stemmed term are implied by the
// enclosing object keys, so only line/index/original are stored.
type occurrenceJSON struct {
	Line     int    `json:"line"`
	Index    int    `json:"index"`
	Original string `json:"original"`
}

// Save atomically persists the three JSON artifacts: each is written to a
// temp file, fsynced, then renamed into place, so a crash mid-write is
// never observed by ExistsOnDisk.
func (s *Store) Save() error {
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return apperr.IO(err, "creating data directory %q", s.dataDir)
	}

	docsOut := make(map[string]int, len(s.documents))
	for id, path := range s.documents {
		docsOut[path] = id
	}
	if err := s.writeJSON(documentsFile, docsOut); err != nil {
		return err
	}

	occOut := make(map[string]map[string][]occurrenceJSON, len(s.termOccurrences))
	for id, byTerm := range s.termOccurrences {
		terms := make(map[string][]occurrenceJSON, len(byTerm))
		for term, occs := range byTerm {
			list := make([]occurrenceJSON, len(occs))
			for i, o := range occs {
				list[i] = occurrenceJSON{Line: o.Line, Index: o.Index, Original: o.Original}
			}
			terms[term] = list
		}
		occOut[strconv.Itoa(id)] = terms
	}
	if err := s.writeJSON(termOccurrencesFile, occOut); err != nil {
		return err
	}

	termOut := make(map[string][]int, len(s.termDocuments))
	for term, set := range s.termDocuments {
		ids := make([]int, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		termOut[term] = ids
	}
	if err := s.writeJSON(termDocumentsFile, termOut); err != nil {
		return err
	}
	return nil
}

func (s *Store) writeJSON(name string, v any) error {
	finalPath := filepath.Join(s.dataDir, name)
	tmpPath := finalPath + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return apperr.IO(err, "creating temp file for %s", name)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return apperr.IO(err, "encoding %s", name)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return apperr.IO(err, "syncing %s", name)
	}
	if err := f.Close(); err != nil {
		return apperr.IO(err, "closing %s", name)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return apperr.IO(err, "renaming %s into place", name)
	}
	return nil
}

// Load deserializes all three files and reconstructs the in-memory
// index, checking invariants I1-I3. It fails with a CorruptIndexError if
// any inconsistency is detected.
func (s *Store) Load() error {
	var docsIn map[string]int
	if err := s.readJSON(documentsFile, &docsIn); err != nil {
		return err
	}
	var occIn map[string]map[string][]occurrenceJSON
	if err := s.readJSON(termOccurrencesFile, &occIn); err != nil {
		return err
	}
	var termIn map[string][]int
	if err := s.readJSON(termDocumentsFile, &termIn); err != nil {
		return err
	}

	documents := make(map[int]string, len(docsIn))
	seenIDs := make(map[int]struct{}, len(docsIn))
	for path, id := range docsIn {
		if _, dup := seenIDs[id]; dup {
			return apperr.CorruptIndex("duplicate document id %d in %s", id, documentsFile)
		}
		seenIDs[id] = struct{}{}
		documents[id] = path
	}

	termOccurrences := make(map[int]map[string][]Occurrence, len(occIn))
	for idStr, byTerm := range occIn {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			return apperr.CorruptIndex("non-integer document id %q in %s", idStr, termOccurrencesFile)
		}
		if _, ok := documents[id]; !ok {
			return apperr.CorruptIndex("document id %d in %s has no entry in %s", id, termOccurrencesFile, documentsFile)
		}
		terms := make(map[string][]Occurrence, len(byTerm))
		for term, occs := range byTerm {
			if len(occs) == 0 {
				continue
			}
			list := make([]Occurrence, len(occs))
			for i, o := range occs {
				list[i] = Occurrence{
					DocumentID: id,
					Line:       o.Line,
					Index:      o.Index,
					Original:   o.Original,
					Stemmed:    term,
				}
			}
			terms[term] = list
		}
		termOccurrences[id] = terms
	}
	// I3: documents and term_occurrences share identical key sets.
	for id := range documents {
		if _, ok := termOccurrences[id]; !ok {
			termOccurrences[id] = make(map[string][]Occurrence)
		}
	}
	for id := range termOccurrences {
		if _, ok := documents[id]; !ok {
			return apperr.CorruptIndex("document id %d in %s has no entry in %s", id, termOccurrencesFile, documentsFile)
		}
	}

	termDocuments := make(map[string]map[int]struct{}, len(termIn))
	for term, ids := range termIn {
		set := make(map[int]struct{}, len(ids))
		for _, id := range ids {
			if _, ok := documents[id]; !ok {
				return apperr.CorruptIndex("term %q references unknown document id %d", term, id)
			}
			occs, ok := termOccurrences[id][term]
			if !ok || len(occs) == 0 {
				return apperr.CorruptIndex("term %q listed for document %d in %s with no backing occurrence", term, id, termDocumentsFile)
			}
			if _, dup := set[id]; dup {
				return apperr.CorruptIndex("term %q lists document %d more than once", term, id)
			}
			set[id] = struct{}{}
		}
		termDocuments[term] = set
	}
	// I1 (the other direction): every non-empty term occurrence must be
	// reflected in term_documents.
	for id, byTerm := range termOccurrences {
		for term, occs := range byTerm {
			if len(occs) == 0 {
				continue
			}
			if _, ok := termDocuments[term][id]; !ok {
				return apperr.CorruptIndex("document %d has occurrences of %q not reflected in %s", id, term, termDocumentsFile)
			}
		}
	}

	maxID := -1
	for id := range documents {
		if id > maxID {
			maxID = id
		}
	}

	s.documents = documents
	s.termOccurrences = termOccurrences
	s.termDocuments = termDocuments
	s.nextID = maxID + 1
	return nil
}

func (s *Store) readJSON(name string, v any) error {
	path := filepath.Join(s.dataDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return apperr.IO(err, "reading %s", name)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return apperr.CorruptIndex("parsing %s: %v", name, err)
	}
	return nil
}
