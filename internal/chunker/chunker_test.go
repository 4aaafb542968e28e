package chunker

import (
	"bytes"
	"strings"
	"testing"
)

func buildCorpus(n int) []byte {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString("<doc><title>T</title><url>u</url><abstract>quick brown fox</abstract></doc>")
	}
	return []byte(b.String())
}

func TestSplitConcatenatesToOriginal(t *testing.T) {
	data := buildCorpus(37)
	chunks := Split(data, "</doc>", 8)

	var rebuilt []byte
	for _, c := range chunks {
		rebuilt = append(rebuilt, c.Data...)
	}
	if !bytes.Equal(rebuilt, data) {
		t.Fatalf("concatenated chunks do not equal input")
	}
}

func TestSplitEndsOnBoundary(t *testing.T) {
	data := buildCorpus(37)
	chunks := Split(data, "</doc>", 8)

	for i, c := range chunks {
		if i == len(chunks)-1 {
			continue
		}
		if !bytes.HasSuffix(c.Data, []byte("</doc>")) {
			t.Errorf("chunk %d does not end on </doc> boundary: tail=%q", i, tail(c.Data))
		}
	}
}

func TestSplitBaseOffsetsAreContiguous(t *testing.T) {
	data := buildCorpus(20)
	chunks := Split(data, "</doc>", 5)

	prevEnd := 0
	for _, c := range chunks {
		if c.BaseOffset != prevEnd {
			t.Fatalf("chunk base offset %d does not follow previous end %d", c.BaseOffset, prevEnd)
		}
		prevEnd += len(c.Data)
	}
	if prevEnd != len(data) {
		t.Fatalf("chunks cover %d bytes, want %d", prevEnd, len(data))
	}
}

func TestSplitFewerThanNForShortInput(t *testing.T) {
	data := []byte("<doc></doc>")
	chunks := Split(data, "</doc>", 100)
	if len(chunks) == 0 || len(chunks) > 100 {
		t.Fatalf("unexpected chunk count %d", len(chunks))
	}
}

func TestSplitSingleChunk(t *testing.T) {
	data := buildCorpus(5)
	chunks := Split(data, "</doc>", 1)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if !bytes.Equal(chunks[0].Data, data) {
		t.Fatalf("single chunk should equal entire input")
	}
}

func tail(b []byte) []byte {
	if len(b) > 20 {
		return b[len(b)-20:]
	}
	return b
}
