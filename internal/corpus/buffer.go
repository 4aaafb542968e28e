// Package corpus owns the full corpus byte buffer, produced either by
// reading a file into memory or by memory-mapping it. The buffer is pinned
// for the lifetime of an index: document records carry byte ranges into it
// rather than copies, so text is materialized only at query time.
package corpus

import (
	"os"
	"unsafe"

	"github.com/edsrzf/mmap-go"
)

// Buffer is an immutable, contiguously addressable view of the corpus
// bytes. It is read-only and safe to share across goroutines without a
// lock once construction has finished.
type Buffer struct {
	data []byte
	mm   mmap.MMap // non-nil when backed by a memory map; Close() unmaps it
	file *os.File
}

// FromBytes wraps an in-memory byte slice (e.g. read via os.ReadFile) as a
// Buffer. The slice becomes owned by the Buffer.
func FromBytes(data []byte) *Buffer {
	return &Buffer{data: data}
}

// OpenMmap memory-maps path read-only. It fails if the file is absent or
// zero-length, matching the load-time CacheMiss/CorpusUnavailable contract.
func OpenMmap(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.Size() == 0 {
		f.Close()
		return nil, os.ErrInvalid
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Buffer{data: []byte(m), mm: m, file: f}, nil
}

// Close releases the memory map and underlying file handle, if any. Callers
// that built a Buffer with FromBytes need not call Close.
func (b *Buffer) Close() error {
	var err error
	if b.mm != nil {
		err = b.mm.Unmap()
	}
	if b.file != nil {
		if cerr := b.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Len returns the number of bytes in the buffer.
func (b *Buffer) Len() int { return len(b.data) }

// Bytes returns the full buffer. Callers must not mutate the result.
func (b *Buffer) Bytes() []byte { return b.data }

// Slice returns a borrowed [start,end) view into the buffer.
func (b *Buffer) Slice(start, end int) []byte {
	return b.data[start:end]
}

// StringView returns a [start,end) range of the buffer as a string without
// copying or validating UTF-8. Well-formed input decodes correctly; the
// check is elided on this hot path per the data model's stated invariant.
func (b *Buffer) StringView(start, end int) string {
	sub := b.data[start:end]
	if len(sub) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(sub), len(sub))
}
