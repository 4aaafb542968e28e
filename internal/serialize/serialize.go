// Package serialize encodes and decodes the document table and inverted
// index to the on-disk binary format described in spec §4.G: a version
// byte followed by length-prefixed fields. The format is internal and not a
// compatibility surface; only round-trip equivalence of the decoded value
// is required, not byte-for-byte determinism.
package serialize

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/standardbeagle/wikidex/internal/docstore"
	"github.com/standardbeagle/wikidex/internal/invindex"
)

// Version is written as the first byte of every artifact. Bumping it
// invalidates every existing on-disk cache on next load.
const Version = byte(1)

// WriteDocuments encodes docs (in id order) to w.
func WriteDocuments(w io.Writer, docs []docstore.Raw) error {
	bw := bufio.NewWriter(w)
	if err := bw.WriteByte(Version); err != nil {
		return err
	}
	if err := writeUvarint(bw, uint64(len(docs))); err != nil {
		return err
	}
	for _, d := range docs {
		if err := writeUvarint(bw, uint64(d.ID)); err != nil {
			return err
		}
		if err := writeRange(bw, d.Title); err != nil {
			return err
		}
		if err := writeRange(bw, d.URL); err != nil {
			return err
		}
		if err := writeRange(bw, d.Text); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadDocuments decodes a document table previously written by
// WriteDocuments. A version mismatch or truncated stream is reported as an
// error so the caller can treat it as a cache miss rather than partially
// populating the store.
func ReadDocuments(r io.Reader) ([]docstore.Raw, error) {
	br := bufio.NewReader(r)
	version, err := br.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != Version {
		return nil, fmt.Errorf("serialize: unsupported document table version %d", version)
	}
	n, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, err
	}
	docs := make([]docstore.Raw, n)
	for i := range docs {
		id, err := binary.ReadUvarint(br)
		if err != nil {
			return nil, err
		}
		title, err := readRange(br)
		if err != nil {
			return nil, err
		}
		url, err := readRange(br)
		if err != nil {
			return nil, err
		}
		text, err := readRange(br)
		if err != nil {
			return nil, err
		}
		docs[i] = docstore.Raw{ID: int32(id), Title: title, URL: url, Text: text}
	}
	return docs, nil
}

// WriteIndex encodes the inverted index as a sequence of
// (term_bytes, ids_len, ids...) entries. Iteration order of keys is
// whatever the caller's Keys() map gives; determinism across runs is not
// required.
func WriteIndex(w io.Writer, terms map[string]invindex.IDSet) error {
	bw := bufio.NewWriter(w)
	if err := bw.WriteByte(Version); err != nil {
		return err
	}
	if err := writeUvarint(bw, uint64(len(terms))); err != nil {
		return err
	}
	for term, ids := range terms {
		termBytes := []byte(term)
		if err := writeUvarint(bw, uint64(len(termBytes))); err != nil {
			return err
		}
		if _, err := bw.Write(termBytes); err != nil {
			return err
		}
		if err := writeUvarint(bw, uint64(len(ids))); err != nil {
			return err
		}
		for id := range ids {
			if err := writeUvarint(bw, uint64(uint32(id))); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// ReadIndex decodes an inverted index previously written by WriteIndex into
// a fresh invindex.Partitioned.
func ReadIndex(r io.Reader) (*invindex.Partitioned, error) {
	br := bufio.NewReader(r)
	version, err := br.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != Version {
		return nil, fmt.Errorf("serialize: unsupported index version %d", version)
	}
	numTerms, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, err
	}
	idx := invindex.NewPartitioned(int(numTerms))
	for i := uint64(0); i < numTerms; i++ {
		termLen, err := binary.ReadUvarint(br)
		if err != nil {
			return nil, err
		}
		termBytes := make([]byte, termLen)
		if _, err := io.ReadFull(br, termBytes); err != nil {
			return nil, err
		}
		numIDs, err := binary.ReadUvarint(br)
		if err != nil {
			return nil, err
		}
		term := string(termBytes)
		for j := uint64(0); j < numIDs; j++ {
			id, err := binary.ReadUvarint(br)
			if err != nil {
				return nil, err
			}
			idx.Insert(term, int32(uint32(id)))
		}
	}
	return idx, nil
}

func writeUvarint(w io.ByteWriter, v uint64) error {
	buf := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(buf, v)
	for _, b := range buf[:n] {
		if err := w.WriteByte(b); err != nil {
			return err
		}
	}
	return nil
}

func writeRange(w io.ByteWriter, r docstore.Range) error {
	if err := writeUvarint(w, uint64(r.Start)); err != nil {
		return err
	}
	return writeUvarint(w, uint64(r.End))
}

func readRange(r io.ByteReader) (docstore.Range, error) {
	start, err := binary.ReadUvarint(r)
	if err != nil {
		return docstore.Range{}, err
	}
	end, err := binary.ReadUvarint(r)
	if err != nil {
		return docstore.Range{}, err
	}
	return docstore.Range{Start: int(start), End: int(end)}, nil
}
