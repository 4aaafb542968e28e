// Package wikidex builds and queries a full-text inverted index over a
// corpus of <doc> abstracts. It exposes a single capability set regardless
// of which build backend produced the index — callers never see the
// difference between a mapreduce-built, pipeline-built, or cache-loaded
// indexer.
package wikidex

import (
	"log"

	"github.com/standardbeagle/wikidex/internal/analyzer"
	"github.com/standardbeagle/wikidex/internal/corpus"
	"github.com/standardbeagle/wikidex/internal/docstore"
	"github.com/standardbeagle/wikidex/internal/invindex"
	"github.com/standardbeagle/wikidex/internal/persistence"
	"github.com/standardbeagle/wikidex/internal/pipeline"
	"github.com/standardbeagle/wikidex/internal/query"
	"github.com/standardbeagle/wikidex/internal/wikierr"
)

// Backend selects a build topology. See pipeline.Backend for the values.
type Backend = pipeline.Backend

const (
	MapReduce           = pipeline.MapReduce
	PipelinePartitioned = pipeline.PipelinePartitioned
	PipelineShared      = pipeline.PipelineShared
)

// Options configures a Build call.
type Options struct {
	Backend      Backend
	ParseThreads int
	IndexThreads int
	NoCacheRead  bool
	NoCacheWrite bool
}

// DefaultOptions matches spec §4.F's defaults.
func DefaultOptions() Options {
	cfg := pipeline.DefaultConfig()
	return Options{
		Backend:      cfg.Backend,
		ParseThreads: cfg.ParseThreads,
		IndexThreads: cfg.IndexThreads,
	}
}

// Indexer is an immutable, built index: created empty, built exactly once,
// queried any number of times, then dropped. There is no incremental
// mutation after Build.
type Indexer struct {
	buf       *corpus.Buffer
	documents *docstore.Store
	index     invindex.Index
	analyzer  *analyzer.Analyzer
	parseErrs []error
}

// Build constructs an index for the corpus at path, trying the on-disk
// cache first unless opts.NoCacheRead is set. A cache miss or corrupt
// cache falls back to a full rebuild from raw bytes; only a missing or
// empty corpus file is fatal.
func Build(path string, opts Options) (*Indexer, error) {
	a := analyzer.New()

	if !opts.NoCacheRead {
		if cached, err := persistence.Load(path); err == nil {
			return &Indexer{
				buf:       cached.Buffer,
				documents: cached.Documents,
				index:     cached.Index,
				analyzer:  a,
			}, nil
		}
		// Any load failure (missing file, decode error) is treated as a
		// cache miss per spec §7 and silently falls through to a rebuild;
		// the corpus itself is checked for real below.
	}

	buf, err := corpus.OpenMmap(path)
	if err != nil {
		return nil, wikierr.NewCorpusError(path, err)
	}

	idx := &Indexer{buf: buf, analyzer: a}
	if err := idx.buildFromRaw(opts); err != nil {
		buf.Close()
		return nil, err
	}

	if !opts.NoCacheWrite {
		if err := persistence.Save(path, idx.documents.All(), idx.index.Keys()); err != nil {
			// Logged, not fatal: the in-memory index remains usable.
			log.Printf("wikidex: failed to persist index for %s: %v", path, err)
		}
	}

	return idx, nil
}

func (idx *Indexer) buildFromRaw(opts Options) error {
	cfg := pipeline.Config{
		Backend:      opts.Backend,
		ParseThreads: opts.ParseThreads,
		IndexThreads: opts.IndexThreads,
	}
	result, err := pipeline.Build(idx.buf, cfg, idx.analyzer)
	if err != nil {
		return err
	}
	idx.documents = result.Documents
	idx.index = result.Index
	idx.parseErrs = result.ParseErrs
	for _, perr := range result.ParseErrs {
		log.Printf("wikidex: %v", perr)
	}
	return nil
}

// Search analyzes each term string and returns one query.Results per
// analyzed term that has at least one match.
func (idx *Indexer) Search(terms []string) []query.Results {
	return query.Search(terms, idx.analyzer, idx.index, idx.documents, idx.buf)
}

// NumDocuments returns the number of documents in the built index.
func (idx *Indexer) NumDocuments() int { return idx.documents.Len() }

// NumTokens returns the number of distinct terms in the built index.
func (idx *Indexer) NumTokens() int { return idx.index.Len() }

// Close releases the corpus buffer (unmapping it if it was memory-mapped).
func (idx *Indexer) Close() error {
	if idx.buf == nil {
		return nil
	}
	return idx.buf.Close()
}

// ParseErrors aggregates the non-fatal per-chunk parse errors collected
// during the most recent build-from-raw into a single error, or nil if
// every chunk parsed cleanly.
func (idx *Indexer) ParseErrors() error {
	multi := wikierr.NewMultiError(idx.parseErrs)
	if multi == nil {
		return nil
	}
	return multi
}
