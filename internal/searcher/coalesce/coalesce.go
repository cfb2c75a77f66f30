// Package coalesce collapses concurrent identical search requests into
// a single engine call, the way a distributed cache's GetOrCompute
// would, but in-memory: there is nothing to keep warm across requests,
// only duplicate work to avoid when the same query arrives twice while
// the first is still running.
package coalesce

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"search100/internal/search/engine"
	"search100/internal/search/ranker"
)

// Searcher coalesces concurrent Search calls that share the same
// query, strategy, and limit.
type Searcher struct {
	group     singleflight.Group
	coalesced atomic.Int64
}

func New() *Searcher {
	return &Searcher{}
}

// Search runs fn unless an identical in-flight call already exists, in
// which case it waits for and shares that call's result.
func (s *Searcher) Search(query string, strategy ranker.Strategy, limit int, fn func() []engine.SearchResult) []engine.SearchResult {
	key := fmt.Sprintf("%s\x00%d\x00%d", query, strategy, limit)
	v, _, shared := s.group.Do(key, func() (any, error) {
		return fn(), nil
	})
	if shared {
		s.coalesced.Add(1)
	}
	return v.([]engine.SearchResult)
}

// Coalesced reports how many Search calls were served by an in-flight
// duplicate rather than invoking fn themselves.
func (s *Searcher) Coalesced() int64 {
	return s.coalesced.Load()
}
