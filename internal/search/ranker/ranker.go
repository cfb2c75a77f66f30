// Package ranker turns a set of query stems into a scored, ordered list
// of (term, document) candidates under TF-IDF, following the AND/OR
// candidate-selection rules described alongside it.
package ranker

import (
	"math"
	"sort"

	"search100/internal/search/index"
)

// Strategy selects how candidate documents are gathered across query
// terms. It is a small enum rather than a Scorer interface: TF-IDF is the
// only scoring function this engine defines, so an interface with one
// implementation would be speculative.
type Strategy int

const (
	AND Strategy = iota
	OR
)

// Index is the read-only view of the inverted index the ranker needs.
// Implemented by *index.Store; kept as a narrow interface here so the
// ranker can be tested without constructing a full Store.
type Index interface {
	TermDocuments(term string) []int
	DistinctTermCount(docID int) int
	Occurrences(term string, docID int) []index.Occurrence
	DocCount() int
}

// Candidate is a single (term, document) pair up for scoring.
type Candidate struct {
	Term       string
	DocumentID int
}

// candidates computes the (term, document) pairs eligible for scoring
// under strategy.
func candidates(idx Index, terms []string, strategy Strategy) []Candidate {
	if len(terms) == 0 {
		return nil
	}
	switch strategy {
	case AND:
		sets := make([]map[int]struct{}, len(terms))
		for i, t := range terms {
			ids := idx.TermDocuments(t)
			set := make(map[int]struct{}, len(ids))
			for _, id := range ids {
				set[id] = struct{}{}
			}
			sets[i] = set
		}
		common := intersectAll(sets)
		if len(common) == 0 {
			return nil
		}
		out := make([]Candidate, 0, len(common)*len(terms))
		for _, t := range terms {
			for _, id := range common {
				out = append(out, Candidate{Term: t, DocumentID: id})
			}
		}
		return out
	case OR:
		var out []Candidate
		for _, t := range terms {
			for _, id := range idx.TermDocuments(t) {
				out = append(out, Candidate{Term: t, DocumentID: id})
			}
		}
		return out
	default:
		return nil
	}
}

// intersectAll returns the sorted intersection of every set in sets.
func intersectAll(sets []map[int]struct{}) []int {
	if len(sets) == 0 {
		return nil
	}
	smallest := sets[0]
	for _, s := range sets[1:] {
		if len(s) < len(smallest) {
			smallest = s
		}
	}
	var common []int
	for id := range smallest {
		inAll := true
		for _, s := range sets {
			if _, ok := s[id]; !ok {
				inAll = false
				break
			}
		}
		if inAll {
			common = append(common, id)
		}
	}
	sort.Ints(common)
	return common
}

// Scored is a single ranked result: a (term, document) candidate with
// its TF-IDF score.
type Scored struct {
	Term       string
	DocumentID int
	Score      float64
}

// Rank scores every (term, document) candidate selected by strategy and
// returns them sorted descending by score. tf(t,d) is occurrences of t in
// d divided by the number of distinct terms in d (not the total token
// count — see the design notes on why this divisor is preserved).
// idf(t) is ln(N/(df+1)).
func Rank(idx Index, terms []string, strategy Strategy) []Scored {
	cands := candidates(idx, terms, strategy)
	if len(cands) == 0 {
		return nil
	}
	total := idx.DocCount()
	results := make([]Scored, 0, len(cands))
	for _, c := range cands {
		occs := idx.Occurrences(c.Term, c.DocumentID)
		distinct := idx.DistinctTermCount(c.DocumentID)
		if distinct == 0 {
			continue
		}
		tf := float64(len(occs)) / float64(distinct)
		df := len(idx.TermDocuments(c.Term))
		idf := math.Log(float64(total) / float64(df+1))
		results = append(results, Scored{
			Term:       c.Term,
			DocumentID: c.DocumentID,
			Score:      tf * idf,
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}
