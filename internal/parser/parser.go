// Package parser drives xmltok over one chunk to produce DocumentRaw
// records, tracking the tag currently open and the working record being
// assembled.
package parser

import (
	"sync/atomic"

	"github.com/standardbeagle/wikidex/internal/docstore"
	"github.com/standardbeagle/wikidex/internal/wikierr"
	"github.com/standardbeagle/wikidex/internal/xmltok"
)

// IDCounter hands out globally unique, dense document ids. It is owned by
// one Build call, not a process-wide static: the original's static counter
// coupled unrelated builds and forbade more than one indexer per process.
type IDCounter struct {
	next int64
}

// Next returns the next id via a sequentially-consistent fetch-add.
func (c *IDCounter) Next() int32 {
	return int32(atomic.AddInt64(&c.next, 1) - 1)
}

// Parse runs the state machine described in spec §4.C over one chunk,
// returning the documents it closed successfully. Malformed spans are
// logged by the caller via the returned errors and do not abort the parse:
// the scanner already skips to a recoverable position before returning an
// error, and the loop below simply asks it for the next token again.
func Parse(chunk []byte, baseOffset int, ids *IDCounter) ([]docstore.Raw, []error) {
	scanner := xmltok.New(chunk)

	var docs []docstore.Raw
	var errs []error
	var currentTag string
	var current docstore.Raw
	offset := 0

	for {
		tok, ok, err := scanner.Next()
		if err != nil {
			errs = append(errs, wikierr.NewParseError(0, baseOffset+offset, err))
			continue
		}
		if !ok {
			break
		}

		switch tok.Kind {
		case xmltok.ElementStart:
			currentTag = tok.Name
		case xmltok.Text:
			offset = tok.End
			absolute := docstore.Range{Start: baseOffset + tok.Start, End: baseOffset + tok.End}
			switch currentTag {
			case "title":
				current.Title = absolute
			case "abstract":
				current.Text = absolute
			case "url":
				current.URL = absolute
			}
		case xmltok.ElementEnd:
			currentTag = ""
			if tok.Name == "doc" {
				current.ID = ids.Next()
				docs = append(docs, current)
				current = docstore.Raw{}
			}
		}
	}

	return docs, errs
}
