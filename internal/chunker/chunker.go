// Package chunker splits a byte buffer into document-aligned pieces so the
// parser can run one goroutine per piece without ever splitting a <doc>
// element across two pieces.
package chunker

import "bytes"

// Chunk is one non-overlapping piece of the corpus. BaseOffset is the byte
// offset of Data within the original buffer; parsers report ranges local to
// Data and must shift them by BaseOffset to address the original buffer.
type Chunk struct {
	BaseOffset int
	Data       []byte
}

// Split returns up to n non-overlapping chunks of data whose concatenation
// equals data, each ending immediately after an occurrence of boundaryTag
// (except possibly the last, which runs to the end of data).
func Split(data []byte, boundaryTag string, n int) []Chunk {
	if n <= 1 || len(data) == 0 {
		return []Chunk{{BaseOffset: 0, Data: data}}
	}

	target := len(data) / n
	chunks := make([]Chunk, 0, n)
	prev := 0
	for i := 0; i < n; i++ {
		if prev >= len(data) {
			break
		}
		try := prev + target
		if try >= len(data) {
			chunks = append(chunks, Chunk{BaseOffset: prev, Data: data[prev:]})
			prev = len(data)
			break
		}

		try = nextCodepointBoundary(data, try)
		if try >= len(data) {
			chunks = append(chunks, Chunk{BaseOffset: prev, Data: data[prev:]})
			prev = len(data)
			break
		}

		end := findChunkEnd(data, try, boundaryTag)
		chunks = append(chunks, Chunk{BaseOffset: prev, Data: data[prev:end]})
		prev = end
	}
	return chunks
}

// nextCodepointBoundary advances try forward until it lands on a byte that
// is not a UTF-8 continuation byte, i.e. (b & 0xC0) != 0x80.
func nextCodepointBoundary(data []byte, try int) int {
	for try < len(data) && (data[try]&0xC0) == 0x80 {
		try++
	}
	return try
}

// findChunkEnd locates the first occurrence of boundaryTag at or after try
// and returns the offset immediately past it, so the closing tag belongs to
// the chunk being emitted. If the tag is not found, the chunk runs to the
// end of the buffer: the "len-1" fallback in the original implementation
// looked unintentional, so this always includes the final byte.
func findChunkEnd(data []byte, try int, boundaryTag string) int {
	idx := bytes.Index(data[try:], []byte(boundaryTag))
	if idx < 0 {
		return len(data)
	}
	return try + idx + len(boundaryTag)
}
