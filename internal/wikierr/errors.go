// Package wikierr defines the typed error values produced by the indexer.
package wikierr

import (
	"fmt"
	"time"
)

// Kind classifies an error into one of the handling categories the build
// and query paths distinguish between.
type Kind string

const (
	KindCorpusUnavailable Kind = "corpus_unavailable"
	KindCacheMiss         Kind = "cache_miss"
	KindCacheCorrupt      Kind = "cache_corrupt"
	KindParseMalformed    Kind = "parse_malformed"
	KindPersistenceWrite  Kind = "persistence_write_failed"
)

// CorpusError reports that the corpus file could not be opened or was empty.
// Fatal: the build cannot proceed without a corpus.
type CorpusError struct {
	Path       string
	Underlying error
	Timestamp  time.Time
}

func NewCorpusError(path string, err error) *CorpusError {
	return &CorpusError{Path: path, Underlying: err, Timestamp: time.Now()}
}

func (e *CorpusError) Error() string {
	return fmt.Sprintf("%s: corpus unavailable at %s: %v", KindCorpusUnavailable, e.Path, e.Underlying)
}

func (e *CorpusError) Unwrap() error { return e.Underlying }

// CacheError reports that one or more on-disk cache artifacts were missing,
// unreadable, or failed to decode. Non-fatal: callers fall back to a rebuild.
type CacheError struct {
	Kind       Kind // KindCacheMiss or KindCacheCorrupt
	Path       string
	Underlying error
	Timestamp  time.Time
}

func NewCacheMissError(path string, err error) *CacheError {
	return &CacheError{Kind: KindCacheMiss, Path: path, Underlying: err, Timestamp: time.Now()}
}

func NewCacheCorruptError(path string, err error) *CacheError {
	return &CacheError{Kind: KindCacheCorrupt, Path: path, Underlying: err, Timestamp: time.Now()}
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Underlying)
}

func (e *CacheError) Unwrap() error { return e.Underlying }

// ParseError reports a malformed span in one chunk of the corpus. The parser
// logs it once and continues with the next token; the chunk keeps whatever
// <doc> elements it already closed successfully.
type ParseError struct {
	ChunkIndex int
	Offset     int
	Underlying error
	Timestamp  time.Time
}

func NewParseError(chunkIndex, offset int, err error) *ParseError {
	return &ParseError{ChunkIndex: chunkIndex, Offset: offset, Underlying: err, Timestamp: time.Now()}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: chunk %d at offset %d: %v", KindParseMalformed, e.ChunkIndex, e.Offset, e.Underlying)
}

func (e *ParseError) Unwrap() error { return e.Underlying }

// PersistenceError reports a failure while writing the serialized index to
// disk. The in-memory index stays usable for queries; no canonical file is
// left truncated because writes go through a .tmp file and atomic rename.
type PersistenceError struct {
	Op         string
	Path       string
	Underlying error
	Timestamp  time.Time
}

func NewPersistenceError(op, path string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Path: path, Underlying: err, Timestamp: time.Now()}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", KindPersistenceWrite, e.Op, e.Path, e.Underlying)
}

func (e *PersistenceError) Unwrap() error { return e.Underlying }

// ConfigFileError reports a problem reading or decoding the optional TOML
// config file. Unlike the other error kinds this is not named in spec §7
// (config loading is an ambient concern the spec is silent on); it carries
// the same Path/Underlying fields as the rest of this package.
type ConfigFileError struct {
	Path       string
	Underlying error
}

func NewConfigFileError(path string, err error) *ConfigFileError {
	return &ConfigFileError{Path: path, Underlying: err}
}

func (e *ConfigFileError) Error() string {
	return fmt.Sprintf("config: %s: %v", e.Path, e.Underlying)
}

func (e *ConfigFileError) Unwrap() error { return e.Underlying }

// MultiError aggregates independent per-chunk errors (e.g. one ParseError
// per malformed chunk) into a single value without discarding any of them.
type MultiError struct {
	Errors []error
}

func NewMultiError(errs []error) *MultiError {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return &MultiError{Errors: filtered}
}

func (e *MultiError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors, first: %v", len(e.Errors), e.Errors[0])
}

func (e *MultiError) Unwrap() []error { return e.Errors }
