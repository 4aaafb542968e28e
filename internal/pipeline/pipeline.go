// Package pipeline implements the two parallel build topologies over the
// analyzer, chunker, parser, and inverted index: a work-stealing map/reduce
// topology and a pipelined channel topology with partitioned and shared-map
// index variants.
package pipeline

import (
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/wikidex/internal/analyzer"
	"github.com/standardbeagle/wikidex/internal/chunker"
	"github.com/standardbeagle/wikidex/internal/corpus"
	"github.com/standardbeagle/wikidex/internal/docstore"
	"github.com/standardbeagle/wikidex/internal/invindex"
	"github.com/standardbeagle/wikidex/internal/parser"
)

// boundaryTag marks a safe chunk-split point: the end of a <doc> element.
const boundaryTag = "</doc>"

// docChunkSize is how many document records a pipeline parser worker
// batches together before pushing onto the document channel, matching the
// original's 100-record batching.
const docChunkSize = 100

// Backend selects one of the three build topologies.
type Backend string

const (
	MapReduce           Backend = "mapreduce"
	PipelinePartitioned Backend = "pipeline_partitioned"
	PipelineShared      Backend = "pipeline_shared"
)

// Config holds the build tunables from spec §4.F.
type Config struct {
	Backend      Backend
	ParseThreads int
	IndexThreads int
}

// DefaultConfig matches the defaults in spec §4.F: 6 parse threads, one
// index thread per logical CPU, mapreduce backend.
func DefaultConfig() Config {
	return Config{
		Backend:      MapReduce,
		ParseThreads: 6,
		IndexThreads: runtime.NumCPU(),
	}
}

func (c Config) normalized() Config {
	if c.ParseThreads <= 0 {
		c.ParseThreads = 6
	}
	if c.IndexThreads <= 0 {
		c.IndexThreads = runtime.NumCPU()
	}
	if c.Backend == "" {
		c.Backend = MapReduce
	}
	return c
}

// Result is the built document table and inverted index, plus any
// non-fatal parse errors collected along the way (spec §7: logged, not
// fatal).
type Result struct {
	Documents *docstore.Store
	Index     invindex.Index
	ParseErrs []error
}

// Build runs the configured topology over buf and returns the built index.
func Build(buf *corpus.Buffer, cfg Config, a *analyzer.Analyzer) (*Result, error) {
	cfg = cfg.normalized()
	switch cfg.Backend {
	case PipelinePartitioned:
		return buildPipeline(buf, cfg, a, false)
	case PipelineShared:
		return buildPipeline(buf, cfg, a, true)
	default:
		return buildMapReduce(buf, cfg, a)
	}
}

// buildMapReduce implements spec §4.F's map/reduce topology: parallel parse
// over chunks, concatenate and sort, parallel index over document slices,
// pairwise reduce.
func buildMapReduce(buf *corpus.Buffer, cfg Config, a *analyzer.Analyzer) (*Result, error) {
	chunks := chunker.Split(buf.Bytes(), boundaryTag, cfg.ParseThreads)
	ids := &parser.IDCounter{}

	perChunkDocs := make([][]docstore.Raw, len(chunks))
	perChunkErrs := make([][]error, len(chunks))

	var g errgroup.Group
	for i, c := range chunks {
		i, c := i, c
		g.Go(func() error {
			docs, errs := parser.Parse(c.Data, c.BaseOffset, ids)
			perChunkDocs[i] = docs
			perChunkErrs[i] = errs
			return nil
		})
	}
	_ = g.Wait() // worker func never returns an error; parse errors ride in perChunkErrs

	var allDocs []docstore.Raw
	var parseErrs []error
	for i := range chunks {
		allDocs = append(allDocs, perChunkDocs[i]...)
		parseErrs = append(parseErrs, perChunkErrs[i]...)
	}

	store := docstore.New(allDocs)
	store.Sort()
	sorted := store.All()

	sliceSize := len(sorted) / cfg.IndexThreads
	if sliceSize < 1 {
		sliceSize = 1
	}

	var slices [][]docstore.Raw
	for start := 0; start < len(sorted); start += sliceSize {
		end := start + sliceSize
		if end > len(sorted) {
			end = len(sorted)
		}
		slices = append(slices, sorted[start:end])
	}

	partials := make([]*invindex.Partitioned, len(slices))
	var ig errgroup.Group
	for i, slice := range slices {
		i, slice := i, slice
		ig.Go(func() error {
			partials[i] = indexSlice(buf, slice, a)
			return nil
		})
	}
	_ = ig.Wait()

	merged := invindex.NewPartitioned(500_000)
	for _, p := range partials {
		if p != nil {
			merged.Reduce(p)
		}
	}

	return &Result{Documents: store, Index: merged, ParseErrs: parseErrs}, nil
}

func indexSlice(buf *corpus.Buffer, docs []docstore.Raw, a *analyzer.Analyzer) *invindex.Partitioned {
	idx := invindex.NewPartitioned(500_000 / 10)
	for _, d := range docs {
		text := buf.StringView(d.Text.Start, d.Text.End)
		for _, term := range a.Analyze(text) {
			idx.Insert(term, d.ID)
		}
	}
	return idx
}

// buildPipeline implements spec §4.F's pipeline topology. Parser workers
// fan out over chunks and push batches of documents onto a shared document
// channel, plus their full local document list onto a separate all-docs
// channel for the table builder. Indexer workers drain the document channel
// until it closes; under the partitioned variant each keeps its own local
// map and the coordinator reduces at the end, under the shared variant all
// indexers write straight into one sharded concurrent map.
//
// Channels here are generously buffered rather than literally unbounded —
// Go has no unbounded channel primitive — but with docChunkSize batching
// and every consumer draining concurrently with production, no parser
// goroutine blocks on a full channel in practice for corpora of the sizes
// this system targets.
func buildPipeline(buf *corpus.Buffer, cfg Config, a *analyzer.Analyzer, shared bool) (*Result, error) {
	chunks := chunker.Split(buf.Bytes(), boundaryTag, cfg.ParseThreads)
	ids := &parser.IDCounter{}

	docCh := make(chan []docstore.Raw, len(chunks)*4)
	allDocsCh := make(chan []docstore.Raw, len(chunks))
	errCh := make(chan []error, len(chunks))

	var parseWG sync.WaitGroup
	for _, c := range chunks {
		c := c
		parseWG.Add(1)
		go func() {
			defer parseWG.Done()
			docs, errs := parser.Parse(c.Data, c.BaseOffset, ids)
			for start := 0; start < len(docs); start += docChunkSize {
				end := start + docChunkSize
				if end > len(docs) {
					end = len(docs)
				}
				docCh <- docs[start:end]
			}
			allDocsCh <- docs
			errCh <- errs
		}()
	}

	go func() {
		parseWG.Wait()
		close(docCh)
		close(allDocsCh)
		close(errCh)
	}()

	sharedIdx := invindex.NewShared()
	var partialsMu sync.Mutex
	var partials []*invindex.Partitioned

	var indexWG sync.WaitGroup
	for i := 0; i < cfg.IndexThreads; i++ {
		indexWG.Add(1)
		go func() {
			defer indexWG.Done()
			var local *invindex.Partitioned
			if !shared {
				local = invindex.NewPartitioned(500_000 / 10)
			}
			for batch := range docCh {
				for _, d := range batch {
					text := buf.StringView(d.Text.Start, d.Text.End)
					for _, term := range a.Analyze(text) {
						if shared {
							sharedIdx.Insert(term, d.ID)
						} else {
							local.Insert(term, d.ID)
						}
					}
				}
			}
			if !shared {
				partialsMu.Lock()
				partials = append(partials, local)
				partialsMu.Unlock()
			}
		}()
	}

	var allDocs []docstore.Raw
	var parseErrs []error
	for docs := range allDocsCh {
		allDocs = append(allDocs, docs...)
	}
	for errs := range errCh {
		parseErrs = append(parseErrs, errs...)
	}

	indexWG.Wait()

	store := docstore.New(allDocs)
	store.Sort()

	var result invindex.Index
	if shared {
		result = sharedIdx
	} else {
		merged := invindex.NewPartitioned(500_000)
		for _, p := range partials {
			merged.Reduce(p)
		}
		result = merged
	}

	return &Result{Documents: store, Index: result, ParseErrs: parseErrs}, nil
}
