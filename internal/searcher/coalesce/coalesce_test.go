package coalesce

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"search100/internal/search/engine"
	"search100/internal/search/ranker"
)

func TestSearchCoalescesConcurrentCalls(t *testing.T) {
	s := New()
	var calls atomic.Int64

	start := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	results := make([][]engine.SearchResult, 10)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i] = s.Search("cats", ranker.AND, 10, func() []engine.SearchResult {
				calls.Add(1)
				<-release
				return []engine.SearchResult{{DocumentID: 1}}
			})
		}(i)
	}
	close(start)
	// Only calls that overlap an in-flight one are coalesced, so hold the
	// first call open while the other goroutines reach Search.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls.Load() >= 10 {
		t.Errorf("expected calls to be coalesced, got %d separate invocations", calls.Load())
	}
	for i, r := range results {
		if len(r) != 1 || r[0].DocumentID != 1 {
			t.Errorf("result %d = %v, want single doc 1", i, r)
		}
	}
}

func TestSearchDistinctKeysNotCoalesced(t *testing.T) {
	s := New()
	var calls atomic.Int64

	s.Search("cats", ranker.AND, 10, func() []engine.SearchResult {
		calls.Add(1)
		return nil
	})
	s.Search("dogs", ranker.AND, 10, func() []engine.SearchResult {
		calls.Add(1)
		return nil
	})
	s.Search("cats", ranker.OR, 10, func() []engine.SearchResult {
		calls.Add(1)
		return nil
	})

	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3 (distinct keys must not share)", calls.Load())
	}
	if s.Coalesced() != 0 {
		t.Errorf("Coalesced() = %d, want 0 for sequential distinct calls", s.Coalesced())
	}
}
