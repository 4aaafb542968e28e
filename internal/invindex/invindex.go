// Package invindex implements the two inverted-index realizations described
// in spec §4.E: a plain partitioned map (one per build goroutine, reduced
// pairwise) and a sharded concurrent map usable directly by many goroutines.
// Both expose the same read contract.
package invindex

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// IDSet is a posting set: membership only, no ordering.
type IDSet map[int32]struct{}

// Index is the read contract shared by both build-time realizations.
type Index interface {
	// Get returns the posting set for term, or ok=false if the term is
	// absent. The returned set must not be mutated by the caller.
	Get(term string) (IDSet, bool)
	// Len returns the number of distinct terms.
	Len() int
	// Keys returns every term and its posting set, for serialization and
	// cross-backend equivalence checks. Only meaningful after all writers
	// have finished.
	Keys() map[string]IDSet
}

// Partitioned is a plain map built by a single goroutine and later merged
// with others via Reduce.
type Partitioned struct {
	terms map[string]IDSet
}

// NewPartitioned returns an empty partitioned index. capHint sizes the
// initial map; it is a performance hint only.
func NewPartitioned(capHint int) *Partitioned {
	return &Partitioned{terms: make(map[string]IDSet, capHint)}
}

// Insert adds id to term's posting set, creating the set if absent.
func (p *Partitioned) Insert(term string, id int32) {
	set, ok := p.terms[term]
	if !ok {
		set = make(IDSet, 5)
		p.terms[term] = set
	}
	set[id] = struct{}{}
}

func (p *Partitioned) Get(term string) (IDSet, bool) {
	set, ok := p.terms[term]
	return set, ok
}

func (p *Partitioned) Len() int { return len(p.terms) }

// Keys returns the underlying term map directly: Partitioned is only ever
// owned by a single goroutine at a time (a build worker, then the
// coordinator after Reduce), so no copy is needed.
func (p *Partitioned) Keys() map[string]IDSet { return p.terms }

// Reduce merges src into p, unioning posting sets for shared terms. src is
// left unusable afterward; callers should discard it.
func (p *Partitioned) Reduce(src *Partitioned) {
	for term, set := range src.terms {
		dst, ok := p.terms[term]
		if !ok {
			p.terms[term] = set
			continue
		}
		for id := range set {
			dst[id] = struct{}{}
		}
	}
}

// shardCount is fixed rather than tied to goroutine count: it only needs to
// be large enough to keep per-shard lock contention low under many writers.
const shardCount = 64

type shard struct {
	mu    sync.RWMutex
	terms map[string]IDSet
}

// Shared is a single logical term->postings map split into independently
// locked shards, keyed by xxhash of the term. Multiple indexer goroutines
// insert into it concurrently with no coordinator-side reduction step.
type Shared struct {
	shards [shardCount]*shard
}

// NewShared returns an empty shared concurrent index.
func NewShared() *Shared {
	s := &Shared{}
	for i := range s.shards {
		s.shards[i] = &shard{terms: make(map[string]IDSet)}
	}
	return s
}

func (s *Shared) shardFor(term string) *shard {
	h := xxhash.Sum64String(term)
	return s.shards[h%uint64(shardCount)]
}

// Insert performs get-or-insert-empty-set on term, then adds id to it. The
// shard's lock makes the get-or-insert and the subsequent set mutation
// atomic with respect to other writers on the same shard, so no two
// goroutines can observe a half-initialized posting set for the same term
// and no key-creation race leaves two sets visible for one term.
func (s *Shared) Insert(term string, id int32) {
	sh := s.shardFor(term)
	sh.mu.Lock()
	set, ok := sh.terms[term]
	if !ok {
		set = make(IDSet, 5)
		sh.terms[term] = set
	}
	set[id] = struct{}{}
	sh.mu.Unlock()
}

func (s *Shared) Get(term string) (IDSet, bool) {
	sh := s.shardFor(term)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	set, ok := sh.terms[term]
	if !ok {
		return nil, false
	}
	// Copy out from under the shard lock: callers may hold the result
	// past the lifetime of any single Insert call.
	out := make(IDSet, len(set))
	for id := range set {
		out[id] = struct{}{}
	}
	return out, true
}

func (s *Shared) Len() int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.terms)
		sh.mu.RUnlock()
	}
	return total
}

// Keys returns every term currently stored, for serialization. The Shared
// index is only read this way after all writers have finished.
func (s *Shared) Keys() map[string]IDSet {
	out := make(map[string]IDSet, s.Len())
	for _, sh := range s.shards {
		sh.mu.RLock()
		for term, set := range sh.terms {
			out[term] = set
		}
		sh.mu.RUnlock()
	}
	return out
}
