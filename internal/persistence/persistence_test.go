package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/standardbeagle/wikidex/internal/docstore"
	"github.com/standardbeagle/wikidex/internal/invindex"
)

func TestSaveThenLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "corpus.xml")
	corpus := "<doc><title>Cats</title><url>u1</url><abstract>fox</abstract></doc>"
	if err := os.WriteFile(base, []byte(corpus), 0o644); err != nil {
		t.Fatalf("write corpus: %v", err)
	}

	docs := []docstore.Raw{{ID: 0, Title: docstore.Range{Start: 11, End: 15}}}
	terms := map[string]invindex.IDSet{"fox": {0: {}}}

	if err := Save(base, docs, terms); err != nil {
		t.Fatalf("save: %v", err)
	}

	cached, err := Load(base)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	defer cached.Buffer.Close()

	if cached.Documents.Len() != 1 {
		t.Fatalf("got %d documents, want 1", cached.Documents.Len())
	}
	if _, ok := cached.Index.Get("fox"); !ok {
		t.Errorf("expected term %q to survive round trip", "fox")
	}

	docPath, idxPath := Paths(base)
	for _, p := range []string{docPath, idxPath} {
		if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
			t.Errorf("expected no leftover .tmp file at %s", p)
		}
	}
}

func TestLoadMissingCorpusIsCacheMiss(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing.xml"))
	if err == nil {
		t.Fatalf("expected an error for a missing corpus file")
	}
}

func TestLoadEmptyCorpusIsCacheMiss(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "empty.xml")
	if err := os.WriteFile(base, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(base); err == nil {
		t.Fatalf("expected an error for a zero-length corpus file")
	}
}
