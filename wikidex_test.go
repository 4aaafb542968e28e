package wikidex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCorpus(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.xml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestBuildSingleDocumentIsSearchable(t *testing.T) {
	path := writeCorpus(t, "<doc><title>Cats</title><url>u1</url><abstract>The quick brown fox</abstract></doc>")

	idx, err := Build(path, DefaultOptions())
	require.NoError(t, err)
	defer idx.Close()

	assert.Equal(t, 1, idx.NumDocuments())
	assert.Equal(t, 3, idx.NumTokens()) // quick, brown, fox

	results := idx.Search([]string{"fox"})
	require.Len(t, results, 1)
	require.Len(t, results[0].Matches, 1)
	assert.Equal(t, "Cats", results[0].Matches[0].Title)
	assert.Equal(t, "u1", results[0].Matches[0].URL)
}

func TestSearchAppliesStemming(t *testing.T) {
	path := writeCorpus(t, "<doc><title>Running</title><url>u1</url><abstract>He runs while running</abstract></doc>")

	idx, err := Build(path, DefaultOptions())
	require.NoError(t, err)
	defer idx.Close()

	// "runs", "running", and the query term "run" must all stem to the
	// same token for this to find the document.
	results := idx.Search([]string{"run"})
	require.Len(t, results, 1)
	assert.Len(t, results[0].Matches, 1)
}

func TestSearchDropsStopwordsEntirely(t *testing.T) {
	path := writeCorpus(t, "<doc><title>A</title><url>u1</url><abstract>the of and</abstract></doc>")

	idx, err := Build(path, DefaultOptions())
	require.NoError(t, err)
	defer idx.Close()

	// Every token in the abstract is a stopword, so nothing gets indexed.
	assert.Equal(t, 0, idx.NumTokens())

	results := idx.Search([]string{"the"})
	assert.Empty(t, results)
}

func TestBuildMultipleChunksIndexesEveryDocument(t *testing.T) {
	var b strings.Builder
	const n = 500
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "<doc><title>Doc %d</title><url>u%d</url><abstract>alpha beta gamma %d</abstract></doc>", i, i, i)
	}
	path := writeCorpus(t, b.String())

	idx, err := Build(path, Options{Backend: MapReduce, ParseThreads: 8, IndexThreads: 4})
	require.NoError(t, err)
	defer idx.Close()

	assert.Equal(t, n, idx.NumDocuments())
	results := idx.Search([]string{"alpha"})
	require.Len(t, results, 1)
	assert.Len(t, results[0].Matches, n)
}

func TestBuildPersistsAndCacheRoundTrips(t *testing.T) {
	path := writeCorpus(t, "<doc><title>Cats</title><url>u1</url><abstract>fox and hound</abstract></doc>")

	first, err := Build(path, DefaultOptions())
	require.NoError(t, err)
	firstDocs, firstTokens := first.NumDocuments(), first.NumTokens()
	require.NoError(t, first.Close())

	docPath, idxPath := path+".dcm", path+".idx"
	assert.FileExists(t, docPath)
	assert.FileExists(t, idxPath)

	second, err := Build(path, DefaultOptions())
	require.NoError(t, err)
	defer second.Close()

	assert.Equal(t, firstDocs, second.NumDocuments())
	assert.Equal(t, firstTokens, second.NumTokens())

	results := second.Search([]string{"fox"})
	require.Len(t, results, 1)
	assert.Equal(t, "Cats", results[0].Matches[0].Title)
}

func TestBuildBackendsAgreeOnResults(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&b, "<doc><title>Doc %d</title><url>u%d</url><abstract>shared term plus unique%d</abstract></doc>", i, i, i)
	}
	path := writeCorpus(t, b.String())

	backends := []Backend{MapReduce, PipelinePartitioned, PipelineShared}
	var tokenCounts []int
	var matchCounts []int
	for _, backend := range backends {
		idx, err := Build(path, Options{Backend: backend, NoCacheRead: true, NoCacheWrite: true})
		require.NoError(t, err)
		tokenCounts = append(tokenCounts, idx.NumTokens())
		results := idx.Search([]string{"shared"})
		require.Len(t, results, 1)
		matchCounts = append(matchCounts, len(results[0].Matches))
		require.NoError(t, idx.Close())
	}

	for i := 1; i < len(backends); i++ {
		assert.Equal(t, tokenCounts[0], tokenCounts[i], "backend %s token count", backends[i])
		assert.Equal(t, matchCounts[0], matchCounts[i], "backend %s match count", backends[i])
	}
}

func TestBuildMissingCorpusIsFatal(t *testing.T) {
	dir := t.TempDir()
	_, err := Build(filepath.Join(dir, "missing.xml"), DefaultOptions())
	assert.Error(t, err)
}

func TestParseErrorsAggregatesMalformedChunks(t *testing.T) {
	path := writeCorpus(t, "<doc><title>Cats</title><url>u1</url><abstract>fox</abstract></doc><bad")

	idx, err := Build(path, Options{Backend: MapReduce, ParseThreads: 1, IndexThreads: 1, NoCacheWrite: true})
	require.NoError(t, err)
	defer idx.Close()

	assert.Equal(t, 1, idx.NumDocuments())
	assert.Error(t, idx.ParseErrors())
}

func TestParseErrorsNilWhenCorpusIsWellFormed(t *testing.T) {
	path := writeCorpus(t, "<doc><title>Cats</title><url>u1</url><abstract>fox</abstract></doc>")

	idx, err := Build(path, DefaultOptions())
	require.NoError(t, err)
	defer idx.Close()

	assert.NoError(t, idx.ParseErrors())
}
