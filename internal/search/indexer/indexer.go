// Package indexer walks a corpus directory, tokenizes each line of every
// eligible file, and populates an index.Store.
package indexer

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"search100/internal/search/apperr"
	"search100/internal/search/index"
	"search100/internal/search/tokenizer"
)

// Indexer walks a corpus directory and populates a Store. It assumes a
// single-threaded, non-suspending caller: IndexCorpus is never invoked
// concurrently with Search or another IndexCorpus on the same Store.
type Indexer struct {
	corpusDir string
	store     *index.Store
	logger    *slog.Logger
}

func New(corpusDir string, store *index.Store, logger *slog.Logger) *Indexer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{corpusDir: corpusDir, store: store, logger: logger.With("component", "indexer")}
}

// IndexCorpus populates the store. If useCache is true and a persisted
// index already exists on disk, it is loaded instead of rebuilt. Walking
// happens in whatever order the directory yields entries; callers must
// not assume a particular order. A context cancellation is checked
// between files, allowing a long reindex to be interrupted by the
// consuming CLI's shutdown path.
func (ix *Indexer) IndexCorpus(ctx context.Context, useCache bool) error {
	if useCache && ix.store.ExistsOnDisk() {
		ix.logger.Info("loading index from disk")
		if err := ix.store.Load(); err != nil {
			return err
		}
		ix.logger.Info("index loaded", "documents", ix.store.DocCount())
		return nil
	}

	ix.store.Reset()
	docCount := 0

	err := filepath.WalkDir(ix.corpusDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return apperr.IO(err, "walking corpus directory")
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		if strings.ToLower(filepath.Ext(path)) != ".txt" {
			return nil
		}
		lines, err := readLines(path)
		if err != nil {
			return apperr.IO(err, "reading corpus file %q", path)
		}
		linesOfStems := make([][]tokenizer.Stem, len(lines))
		for i, line := range lines {
			linesOfStems[i] = tokenizer.Tokenize(line)
		}
		ix.store.AddDocument(path, linesOfStems)
		docCount++
		return nil
	})
	if err != nil {
		ix.store.Reset()
		return err
	}

	if docCount == 0 {
		ix.logger.Warn("index built with zero documents", "corpus_dir", ix.corpusDir)
		return nil
	}

	if err := ix.store.Save(); err != nil {
		return err
	}
	ix.logger.Info("index built", "documents", docCount)
	return nil
}

// readLines holds an open file handle only for the duration of its own
// read, per the scoped-resource requirement.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
