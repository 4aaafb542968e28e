// Package query evaluates search terms against a built index, materializing
// matching documents out of the corpus buffer.
package query

import (
	"sort"

	"github.com/standardbeagle/wikidex/internal/analyzer"
	"github.com/standardbeagle/wikidex/internal/corpus"
	"github.com/standardbeagle/wikidex/internal/docstore"
	"github.com/standardbeagle/wikidex/internal/invindex"
)

// Results is the set of documents matching one analyzed term, in the order
// terms were analyzed. Documents within a term are in ascending id order, so
// the same query returns them in the same order every time.
type Results struct {
	Term    string
	Matches []docstore.Document
}

// Search analyzes each input term string (which may expand to zero or more
// analyzed terms), looks each one up in idx, and materializes the matching
// documents. An analyzed term absent from idx simply contributes no Results
// entry; there is no failure mode beyond "no results".
func Search(terms []string, a *analyzer.Analyzer, idx invindex.Index, docs *docstore.Store, buf *corpus.Buffer) []Results {
	var results []Results
	for _, raw := range terms {
		for _, term := range a.Analyze(raw) {
			ids, ok := idx.Get(term)
			if !ok {
				continue
			}
			sortedIDs := make([]int32, 0, len(ids))
			for id := range ids {
				sortedIDs = append(sortedIDs, id)
			}
			sort.Slice(sortedIDs, func(i, j int) bool { return sortedIDs[i] < sortedIDs[j] })
			matches := make([]docstore.Document, 0, len(ids))
			for _, id := range sortedIDs {
				rec, ok := docs.Get(id)
				if !ok {
					continue
				}
				matches = append(matches, rec.Materialize(buf))
			}
			results = append(results, Results{Term: term, Matches: matches})
		}
	}
	return results
}
