package main

import (
	"context"
	"sync"

	"search100/internal/search/engine"
	"search100/internal/search/ranker"
)

// guardedEngine wraps a single *engine.Engine behind a sync.RWMutex held
// at the CLI layer rather than inside the engine itself: Search and the
// other read-only accessors take the read lock, and Reindex takes the
// write lock, so a reindex request started from /reindex blocks new
// searches until the corpus walk and save complete instead of racing the
// in-memory index out from under them.
type guardedEngine struct {
	mu  sync.RWMutex
	eng *engine.Engine
}

func newGuardedEngine(eng *engine.Engine) *guardedEngine {
	return &guardedEngine{eng: eng}
}

func (g *guardedEngine) Search(query string, strategy ranker.Strategy) []engine.SearchResult {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.eng.Search(query, strategy)
}

func (g *guardedEngine) DocumentPath(documentID int) (string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.eng.DocumentPath(documentID)
}

func (g *guardedEngine) IndexSize() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.eng.IndexSize()
}

// Reindex rebuilds the index from the corpus directory under the write
// lock, excluding every reader until the walk and save finish.
func (g *guardedEngine) Reindex(ctx context.Context, useCache bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.eng.IndexCorpus(ctx, useCache)
}
