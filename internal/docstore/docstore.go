// Package docstore holds the document table: one record per <doc> element,
// carrying byte ranges into the corpus buffer rather than owned strings.
package docstore

import (
	"sort"

	"github.com/standardbeagle/wikidex/internal/corpus"
)

// Range is a [Start, End) byte span into a corpus.Buffer.
type Range struct {
	Start, End int
}

// Raw is one document record as produced by the parser: ranges into the
// shared corpus buffer, not owned strings. Zero value is the "no field
// assigned yet" state used while a <doc> element is still open.
type Raw struct {
	ID    int32
	Title Range
	URL   Range
	Text  Range
}

// Document is a materialized, owned-string copy of a Raw record, produced
// only at query time or for export.
type Document struct {
	ID    int32
	Title string
	URL   string
	Text  string
}

// Materialize copies the bytes a Raw record points to out of buf into an
// owned Document. This is a real copy, not a StringView: a Document can
// outlive the query that produced it (a caller may hold onto titles after
// Indexer.Close unmaps the corpus), so query-time materialization must not
// alias the corpus buffer's memory.
func (r Raw) Materialize(buf *corpus.Buffer) Document {
	return Document{
		ID:    r.ID,
		Title: string(buf.Slice(r.Title.Start, r.Title.End)),
		URL:   string(buf.Slice(r.URL.Start, r.URL.End)),
		Text:  string(buf.Slice(r.Text.Start, r.Text.End)),
	}
}

// Store is the document table: Raw records sorted by ID so that
// Store.Get(id) is O(1) after Sort has been called.
type Store struct {
	docs []Raw
}

// New wraps an unsorted slice of records (typically the concatenation of
// several parser goroutines' local outputs) into a Store. Callers must call
// Sort before relying on Get.
func New(docs []Raw) *Store {
	return &Store{docs: docs}
}

// Sort orders the document table by ID so Get(id) is a direct index.
func (s *Store) Sort() {
	sort.Slice(s.docs, func(i, j int) bool { return s.docs[i].ID < s.docs[j].ID })
}

// Len returns the number of documents.
func (s *Store) Len() int { return len(s.docs) }

// Get returns the record for id. The store must be sorted and ids dense in
// [0, Len()) for this to be valid, which build guarantees.
func (s *Store) Get(id int32) (Raw, bool) {
	if id < 0 || int(id) >= len(s.docs) {
		return Raw{}, false
	}
	return s.docs[id], true
}

// All returns the full, sorted document table. Callers must not mutate it.
func (s *Store) All() []Raw {
	return s.docs
}
