// Command search100 builds and queries a local full-text index over a
// directory of plain-text documents. It exposes three subcommands:
// index (build or refresh the on-disk index), query (run a single
// search and print the results), and serve (run an HTTP server backed
// by the index).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"search100/internal/search/engine"
	"search100/internal/search/ranker"
	"search100/internal/searcher/handler"
	"search100/pkg/config"
	"search100/pkg/health"
	"search100/pkg/logger"
	"search100/pkg/metrics"
	"search100/pkg/middleware"
)

const serverShutdownTimeout = 10 * time.Second

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "index":
		err = runIndex(os.Args[2:])
	case "query":
		err = runQuery(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "search100: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: search100 <index|query|serve> [flags]")
}

func loadConfigAndLogger(configPath string) *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	return cfg
}

func parseStrategy(s string) (ranker.Strategy, error) {
	switch s {
	case "and", "":
		return ranker.AND, nil
	case "or":
		return ranker.OR, nil
	default:
		return ranker.AND, fmt.Errorf("strategy must be 'and' or 'or', got %q", s)
	}
}

// runIndex builds (or rebuilds) the on-disk index for the configured
// corpus directory.
func runIndex(args []string) error {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	rebuild := fs.Bool("rebuild", false, "ignore any cached index and rebuild from the corpus")
	fs.Parse(args)

	cfg := loadConfigAndLogger(*configPath)

	eng, err := engine.New(cfg.Corpus.Directory, cfg.Corpus.DataDir, slog.Default())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	if err := indexWithMetrics(ctx, eng, m, !*rebuild); err != nil {
		return err
	}

	slog.Info("index build complete", "documents", eng.IndexSize(), "data_dir", cfg.Corpus.DataDir)
	return nil
}

// indexWithMetrics runs IndexCorpus and records its outcome and
// duration, shared by the index and serve subcommands.
func indexWithMetrics(ctx context.Context, eng *engine.Engine, m *metrics.Metrics, useCache bool) error {
	start := time.Now()
	err := eng.IndexCorpus(ctx, useCache)
	recordIndexOutcome(m, start, eng.IndexSize(), err)
	return err
}

// recordIndexOutcome records a single index build's duration, resulting
// document count, and outcome label, shared by the initial build in
// indexWithMetrics and the /reindex HTTP handler.
func recordIndexOutcome(m *metrics.Metrics, start time.Time, docCount int, err error) {
	m.IndexBuildDuration.Observe(time.Since(start).Seconds())
	m.IndexDocCount.Set(float64(docCount))

	outcome := "built"
	switch {
	case err != nil:
		outcome = "error"
	case docCount == 0:
		outcome = "empty"
	}
	m.IndexBuildsTotal.WithLabelValues(outcome).Inc()
}

// reindexHandler rebuilds the index from the corpus directory under the
// guarded engine's write lock, blocking concurrent searches for the
// duration of the walk and save.
func reindexHandler(g *guardedEngine, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		err := g.Reindex(r.Context(), false)
		recordIndexOutcome(m, start, g.IndexSize(), err)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{"documents": g.IndexSize()})
	}
}

// runQuery loads the existing index and runs a single search, printing
// results to stdout.
func runQuery(args []string) error {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	strategyFlag := fs.String("strategy", "", "search strategy: and|or (defaults to config)")
	limit := fs.Int("limit", 0, "maximum number of results (defaults to config)")
	fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("query requires a search string, e.g. search100 query \"cats and dogs\"")
	}
	query := fs.Arg(0)

	cfg := loadConfigAndLogger(*configPath)
	if *strategyFlag == "" {
		*strategyFlag = cfg.Search.DefaultStrategy
	}
	if *limit == 0 {
		*limit = cfg.Search.DefaultLimit
	}
	strategy, err := parseStrategy(*strategyFlag)
	if err != nil {
		return err
	}

	eng, err := engine.New(cfg.Corpus.Directory, cfg.Corpus.DataDir, slog.Default())
	if err != nil {
		return err
	}
	if err := eng.IndexCorpus(context.Background(), true); err != nil {
		return err
	}

	results := eng.Search(query, strategy)
	if len(results) > *limit {
		results = results[:*limit]
	}
	if len(results) == 0 {
		fmt.Println("no results")
		return nil
	}
	for i, r := range results {
		path, _ := eng.DocumentPath(r.DocumentID)
		fmt.Printf("%2d. %-40s  score=%.4f  term=%s  occurrences=%d\n",
			i+1, path, r.RelevanceScore, r.QueryTerm.Stemmed, len(r.Occurrences))
	}
	return nil
}

// runServe loads the index and serves it over HTTP until interrupted.
func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	fs.Parse(args)

	cfg := loadConfigAndLogger(*configPath)

	eng, err := engine.New(cfg.Corpus.Directory, cfg.Corpus.DataDir, slog.Default())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	if err := indexWithMetrics(ctx, eng, m, true); err != nil {
		return err
	}
	slog.Info("index ready", "documents", eng.IndexSize())

	// One *engine.Engine, one RWMutex, held here at the CLI layer rather
	// than inside the engine: Search takes the read lock, /reindex takes
	// the write lock.
	g := newGuardedEngine(eng)

	checker := health.NewChecker()
	checker.Register("corpus", func(ctx context.Context) health.ComponentHealth {
		if info, err := os.Stat(cfg.Corpus.Directory); err != nil || !info.IsDir() {
			return health.ComponentHealth{Status: health.StatusDown, Message: "corpus directory unreadable"}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	checker.Register("index", func(ctx context.Context) health.ComponentHealth {
		if g.IndexSize() == 0 {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "index is empty"}
		}
		return health.ComponentHealth{Status: health.StatusUp, Message: fmt.Sprintf("%d documents", g.IndexSize())}
	})

	h := handler.New(g, m, cfg.Search.DefaultLimit)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /search", h.Search)
	mux.HandleFunc("POST /reindex", reindexHandler(g, m))
	mux.HandleFunc("GET /healthz", checker.LiveHandler())
	mux.HandleFunc("GET /readyz", checker.ReadyHandler())

	var metricsShutdown func(context.Context) error
	if cfg.Metrics.Enabled {
		metricsShutdown = metrics.StartServer(m, cfg.Metrics.Port)
	} else {
		mux.Handle("GET /metrics", m.Handler())
	}

	var chain http.Handler = mux
	chain = middleware.Metrics(m)(chain)
	chain = middleware.Timeout(cfg.Server.RequestTimeout)(chain)
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: chain,
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		slog.Info("search100 listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
		if metricsShutdown != nil {
			if err := metricsShutdown(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown error", "error", err)
			}
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		return err
	}
	slog.Info("search100 stopped")
	return nil
}
