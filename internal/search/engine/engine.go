// Package engine exposes the public facade over tokenization, indexing,
// and ranking: construct once per corpus directory, index it, then issue
// searches against the result.
package engine

import (
	"context"
	"log/slog"
	"os"

	"search100/internal/search/apperr"
	"search100/internal/search/index"
	"search100/internal/search/indexer"
	"search100/internal/search/ranker"
	"search100/internal/search/tokenizer"
)

// Engine orchestrates the tokenizer, index store, indexer, and ranker
// behind the public API the rest of the program consumes. It owns the
// lifecycle of the index but holds no lock of its own — per the
// single-threaded, non-suspending core model, callers serialize access.
type Engine struct {
	corpusDir string
	store     *index.Store
	indexer   *indexer.Indexer
	logger    *slog.Logger
}

// New constructs an Engine rooted at corpusDir, persisting its index
// under dataDir. It fails if corpusDir refers to an existing regular
// file rather than a directory.
func New(corpusDir, dataDir string, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if info, err := os.Stat(corpusDir); err == nil && !info.IsDir() {
		return nil, apperr.Config("corpus path %q is a file, not a directory", corpusDir)
	}
	store := index.NewStore(dataDir)
	return &Engine{
		corpusDir: corpusDir,
		store:     store,
		indexer:   indexer.New(corpusDir, store, logger),
		logger:    logger.With("component", "engine"),
	}, nil
}

// IndexCorpus builds or loads the index. See indexer.Indexer.IndexCorpus.
func (e *Engine) IndexCorpus(ctx context.Context, useCache bool) error {
	return e.indexer.IndexCorpus(ctx, useCache)
}

// IndexSize returns the number of indexed documents.
func (e *Engine) IndexSize() int {
	return e.store.DocCount()
}

// DocumentPath returns the filesystem path for a document ID.
func (e *Engine) DocumentPath(documentID int) (string, error) {
	path, ok := e.store.DocumentPath(documentID)
	if !ok {
		return "", apperr.Config("unknown document id %d", documentID)
	}
	return path, nil
}

// SearchResult pairs a query stem with a scored document and the stored
// occurrences backing that score.
type SearchResult struct {
	QueryTerm      tokenizer.Stem
	DocumentID     int
	RelevanceScore float64
	Occurrences    []index.Occurrence
}

// Search tokenizes query, ranks candidate documents under strategy, and
// assembles results carrying their original occurrences. An empty
// tokenization (too short, all stop words) or a query that matches no
// document yields a nil result set.
func (e *Engine) Search(query string, strategy ranker.Strategy) []SearchResult {
	stems := tokenizer.Tokenize(query)
	if len(stems) == 0 {
		e.logger.Info("search produced no query terms", "query", query)
		return nil
	}

	byStemmed := make(map[string]tokenizer.Stem, len(stems))
	terms := make([]string, 0, len(stems))
	for _, s := range stems {
		if _, ok := byStemmed[s.Stemmed]; !ok {
			terms = append(terms, s.Stemmed)
		}
		byStemmed[s.Stemmed] = s
	}

	scored := ranker.Rank(e.store, terms, strategy)
	var results []SearchResult
	if len(scored) > 0 {
		results = make([]SearchResult, 0, len(scored))
	}
	for _, sc := range scored {
		results = append(results, SearchResult{
			QueryTerm:      byStemmed[sc.Term],
			DocumentID:     sc.DocumentID,
			RelevanceScore: sc.Score,
			Occurrences:    e.store.Occurrences(sc.Term, sc.DocumentID),
		})
	}
	e.logger.Info("search completed", "query", query, "strategy", strategy, "results", len(results))
	return results
}
