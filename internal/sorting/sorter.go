// Package sorting reorders each question's possibleAnswers by a
// configurable field.
package sorting

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"qtk/internal/document"
)

// DefaultKey is the answer field sorted on when none is configured
const DefaultKey = "answer"

// Sorter stably sorts every question's possibleAnswers array by one field.
// Items whose field is absent, null, or a string that trims to empty sort
// after all present items; Descending reverses only the ordering within
// the missing/present partitions, never the partitions themselves.
type Sorter struct {
	Key        string
	Descending bool
}

// Result reports what one sorting pass did
type Result struct {
	// QuestionsWithAnswers counts questions carrying a possibleAnswers array
	QuestionsWithAnswers int
	// ReorderedQuestions lists the indices of questions whose answer order
	// actually changed, per canonical-serialization comparison
	ReorderedQuestions []int
}

// Reordered returns the number of questions whose answer order changed
func (r *Result) Reordered() int {
	return len(r.ReorderedQuestions)
}

type sortKey struct {
	missing bool
	text    string
}

// Sort reorders the answers of every question in the document. Only
// sequence order changes; no field of any answer is modified.
func (s *Sorter) Sort(doc *document.Document) (*Result, error) {
	key := s.Key
	if key == "" {
		key = DefaultKey
	}
	fold := cases.Fold()
	res := &Result{}

	for qi := 0; qi < doc.QuestionCount(); qi++ {
		if !doc.HasAnswers(qi) {
			continue
		}
		res.QuestionsWithAnswers++

		n := doc.AnswerCount(qi)
		keys := make([]sortKey, n)
		for ai := 0; ai < n; ai++ {
			fv := doc.AnswerField(qi, ai, key)
			keys[ai] = sortKey{
				missing: !fv.Present || fv.Null || (fv.IsString && strings.TrimSpace(fv.Text) == ""),
				text:    fold.String(fv.Text),
			}
		}

		perm := make([]int, n)
		for i := range perm {
			perm[i] = i
		}
		sort.SliceStable(perm, func(i, j int) bool {
			return s.less(keys[perm[i]], keys[perm[j]])
		})

		before, err := doc.CanonicalAnswers(qi)
		if err != nil {
			return res, err
		}
		if err := doc.ReorderAnswers(qi, perm); err != nil {
			return res, err
		}
		after, err := doc.CanonicalAnswers(qi)
		if err != nil {
			return res, err
		}
		if before != after {
			res.ReorderedQuestions = append(res.ReorderedQuestions, qi)
		}
	}

	return res, nil
}

func (s *Sorter) less(a, b sortKey) bool {
	// Missing always sorts last, regardless of direction
	if a.missing != b.missing {
		return !a.missing
	}
	if a.text == b.text {
		return false
	}
	if s.Descending {
		return a.text > b.text
	}
	return a.text < b.text
}
