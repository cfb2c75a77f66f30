// Package handler adapts the search engine facade to HTTP: a single
// GET /search endpoint accepting a query string, a strategy, and a
// result limit, returning scored documents as JSON.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"search100/internal/search/engine"
	"search100/internal/search/ranker"
	"search100/internal/searcher/coalesce"
	"search100/pkg/logger"
	"search100/pkg/metrics"
)

// Engine is the subset of *engine.Engine the handler depends on.
type Engine interface {
	Search(query string, strategy ranker.Strategy) []engine.SearchResult
	DocumentPath(documentID int) (string, error)
	IndexSize() int
}

type Handler struct {
	engine       Engine
	coalescer    *coalesce.Searcher
	metrics      *metrics.Metrics
	defaultLimit int
	logger       *slog.Logger
}

func New(eng Engine, m *metrics.Metrics, defaultLimit int) *Handler {
	return &Handler{
		engine:       eng,
		coalescer:    coalesce.New(),
		metrics:      m,
		defaultLimit: defaultLimit,
		logger:       slog.Default().With("component", "search-handler"),
	}
}

// searchResponse is the wire shape of a /search response; each
// resultItem is a single scored result.
type searchResponse struct {
	Query   string       `json:"query"`
	Results []resultItem `json:"results"`
}

type resultItem struct {
	DocumentID     int     `json:"document_id"`
	Path           string  `json:"path"`
	RelevanceScore float64 `json:"relevance_score"`
	MatchedTerm    string  `json:"matched_term"`
	Occurrences    int     `json:"occurrences"`
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := logger.FromContext(r.Context())

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	strategy := ranker.AND
	if s := r.URL.Query().Get("strategy"); s != "" {
		switch strings.ToLower(s) {
		case "and":
			strategy = ranker.AND
		case "or":
			strategy = ranker.OR
		default:
			h.writeError(w, http.StatusBadRequest, "strategy must be 'and' or 'or'")
			return
		}
	}

	limit := h.defaultLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	results := h.coalescer.Search(query, strategy, limit, func() []engine.SearchResult {
		return h.engine.Search(query, strategy)
	})
	if limit < len(results) {
		results = results[:limit]
	}

	resp := searchResponse{Query: query, Results: make([]resultItem, 0, len(results))}
	for _, r := range results {
		path, _ := h.engine.DocumentPath(r.DocumentID)
		resp.Results = append(resp.Results, resultItem{
			DocumentID:     r.DocumentID,
			Path:           path,
			RelevanceScore: r.RelevanceScore,
			MatchedTerm:    r.QueryTerm.Stemmed,
			Occurrences:    len(r.Occurrences),
		})
	}

	latency := time.Since(start)
	strategyLabel := strategyName(strategy)
	if h.metrics != nil {
		h.metrics.QueriesTotal.WithLabelValues(strategyLabel).Inc()
		h.metrics.QueryLatency.WithLabelValues(strategyLabel).Observe(latency.Seconds())
		h.metrics.QueryResultCount.Observe(float64(len(resp.Results)))
	}
	log.Info("search completed",
		"query", query,
		"strategy", strategyLabel,
		"returned", len(resp.Results),
		"latency_ms", latency.Milliseconds(),
	)

	h.writeJSON(w, http.StatusOK, resp)
}

func strategyName(s ranker.Strategy) string {
	if s == ranker.OR {
		return "or"
	}
	return "and"
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
