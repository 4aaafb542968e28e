// Package persistence loads and atomically writes the three sibling
// artifacts an indexer is built from: the corpus file itself, P.dcm
// (documents), and P.idx (inverted index).
package persistence

import (
	"os"

	"github.com/standardbeagle/wikidex/internal/corpus"
	"github.com/standardbeagle/wikidex/internal/docstore"
	"github.com/standardbeagle/wikidex/internal/invindex"
	"github.com/standardbeagle/wikidex/internal/serialize"
	"github.com/standardbeagle/wikidex/internal/wikierr"
)

// Paths returns the sibling cache file names for base path p.
func Paths(base string) (documents, index string) {
	return base + ".dcm", base + ".idx"
}

// Cached is a successfully loaded on-disk index, ready to answer queries
// without re-running the build pipeline.
type Cached struct {
	Buffer    *corpus.Buffer
	Documents *docstore.Store
	Index     *invindex.Partitioned
}

// Load opens the corpus at base by memory map and reads its .dcm/.idx
// siblings. Any failure — missing file, unreadable file, or a decode error
// — is reported as a *wikierr.CacheError (CacheMiss or CacheCorrupt) and no
// partial state is returned: callers fall back to rebuilding from scratch.
func Load(base string) (*Cached, error) {
	buf, err := corpus.OpenMmap(base)
	if err != nil {
		return nil, wikierr.NewCacheMissError(base, err)
	}

	docPath, idxPath := Paths(base)

	docFile, err := os.Open(docPath)
	if err != nil {
		buf.Close()
		return nil, wikierr.NewCacheMissError(docPath, err)
	}
	docs, err := serialize.ReadDocuments(docFile)
	docFile.Close()
	if err != nil {
		buf.Close()
		return nil, wikierr.NewCacheCorruptError(docPath, err)
	}

	idxFile, err := os.Open(idxPath)
	if err != nil {
		buf.Close()
		return nil, wikierr.NewCacheMissError(idxPath, err)
	}
	idx, err := serialize.ReadIndex(idxFile)
	idxFile.Close()
	if err != nil {
		buf.Close()
		return nil, wikierr.NewCacheCorruptError(idxPath, err)
	}

	store := docstore.New(docs)
	store.Sort()
	return &Cached{Buffer: buf, Documents: store, Index: idx}, nil
}

// Save serializes docs and terms to base's .dcm/.idx siblings using the
// create-then-rename pattern: each artifact is written to a .tmp file,
// flushed, and closed before being renamed into place, so a canonical file
// is never left truncated. The two renames are not jointly atomic: Load
// treats an absent, unreadable, or undecodable file as a cache miss, but it
// does not detect a .dcm and .idx that come from two different Save calls.
func Save(base string, docs []docstore.Raw, terms map[string]invindex.IDSet) error {
	docPath, idxPath := Paths(base)

	if err := writeAtomic(docPath, func(f *os.File) error {
		return serialize.WriteDocuments(f, docs)
	}); err != nil {
		return wikierr.NewPersistenceError("write", docPath, err)
	}

	if err := writeAtomic(idxPath, func(f *os.File) error {
		return serialize.WriteIndex(f, terms)
	}); err != nil {
		return wikierr.NewPersistenceError("write", idxPath, err)
	}

	return nil
}

func writeAtomic(path string, encode func(*os.File) error) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return err
	}
	if err := encode(f); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}
	return nil
}
