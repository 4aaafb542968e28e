// Package analyzer tokenizes, lowercases, stopword-filters, and stems text
// spans into index terms.
package analyzer

import (
	"strings"
	"unicode"

	"github.com/surgebase/porter2"
)

// Analyzer is stateless after construction and safe to share read-only
// across goroutines: Analyze never mutates the receiver.
type Analyzer struct {
	stopwords map[string]struct{}
}

// englishStopwords is the fixed 10-token English stopword list. Whether a
// larger list was intended is an open question the spec leaves unresolved;
// this implementation keeps the list exactly as given.
var englishStopwords = []string{
	"a", "and", "be", "have", "i", "in", "of", "that", "the", "to",
}

// New returns an analyzer configured with the fixed English stopword list.
func New() *Analyzer {
	stopwords := make(map[string]struct{}, len(englishStopwords))
	for _, w := range englishStopwords {
		stopwords[w] = struct{}{}
	}
	return &Analyzer{stopwords: stopwords}
}

// Analyze splits text at every rune that is not alphanumeric, lowercases each
// segment, drops empty segments and stopwords, and stems what remains.
func (a *Analyzer) Analyze(text string) []string {
	terms := make([]string, 0, len(text)/6+1)
	a.forEachTerm(text, func(term string) {
		terms = append(terms, term)
	})
	return terms
}

// forEachTerm avoids allocating an intermediate slice of raw segments;
// Analyze collects the terms it emits.
func (a *Analyzer) forEachTerm(text string, emit func(string)) {
	segStart := 0
	inSeg := false
	for i, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if !inSeg {
				segStart = i
				inSeg = true
			}
			continue
		}
		if inSeg {
			a.emitSegment(text[segStart:i], emit)
			inSeg = false
		}
	}
	if inSeg {
		a.emitSegment(text[segStart:], emit)
	}
}

func (a *Analyzer) emitSegment(segment string, emit func(string)) {
	if segment == "" {
		return
	}
	lower := strings.ToLower(segment)
	if lower == "" {
		return
	}
	if _, stop := a.stopwords[lower]; stop {
		return
	}
	emit(porter2.Stem(lower))
}
