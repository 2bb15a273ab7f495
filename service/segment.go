package service

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/HiwarkhedePrasad/VakilAi/model"
)

// Minimum trimmed lengths for a segment to count as a clause
const (
	minNumberedClauseLen = 20
	minParagraphLen      = 50
)

// numberedLine matches a line that opens a numbered clause, e.g. "4. No pets".
// Matching is purely lexical; a stray number at a line start still splits.
var numberedLine = regexp.MustCompile(`^\d+\.`)

// Segmenter splits extracted contract text into an ordered clause list
type Segmenter struct{}

func NewSegmenter() *Segmenter {
	return &Segmenter{}
}

// Segment applies a tiered strategy:
//  1. split at lines starting with "<n>." when that yields more than one
//     segment, keeping trimmed segments of at least 20 characters
//  2. otherwise split on blank-line paragraphs, keeping those longer than
//     50 characters
//  3. otherwise the entire input is a single clause
//
// IDs are 1-based and contiguous over the kept segments. Segment never fails;
// empty input resolves to one clause holding the empty string.
func (s *Segmenter) Segment(text string) []model.Clause {
	var clauses []model.Clause

	segments := splitNumbered(text)
	if len(segments) > 1 {
		// Numbered-clause structure
		for _, segment := range segments {
			segment = strings.TrimSpace(segment)
			if utf8.RuneCountInString(segment) >= minNumberedClauseLen {
				clauses = append(clauses, model.Clause{ID: len(clauses) + 1, Text: segment})
			}
		}
	} else {
		// No clear structure, fall back to paragraphs
		for _, para := range strings.Split(text, "\n\n") {
			para = strings.TrimSpace(para)
			if utf8.RuneCountInString(para) > minParagraphLen {
				clauses = append(clauses, model.Clause{ID: len(clauses) + 1, Text: para})
			}
		}
	}

	// Whole text as one clause when nothing survived the filters
	if len(clauses) == 0 {
		clauses = []model.Clause{{ID: 1, Text: text}}
	}

	return clauses
}

// splitNumbered breaks text at every boundary immediately preceding a line
// that begins with an integer followed by a dot. The first line never opens a
// new boundary, so a document starting with "1." yields no leading empty
// segment.
func splitNumbered(text string) []string {
	lines := strings.Split(text, "\n")

	var segments []string
	var current []string
	for i, line := range lines {
		if i > 0 && numberedLine.MatchString(line) {
			segments = append(segments, strings.Join(current, "\n"))
			current = nil
		}
		current = append(current, line)
	}
	segments = append(segments, strings.Join(current, "\n"))

	return segments
}
