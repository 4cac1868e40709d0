// Package integrity detects and repairs duplicate identifiers in a
// questionnaire document.
//
// Question identifiers and answer identifiers are tracked in separate
// indices; a value appearing once in each class is not a duplicate. Newly
// minted identifiers are checked against the union of both classes plus
// everything minted earlier in the same run.
package integrity

import (
	"fmt"

	"qtk/internal/document"
)

// Class identifies which identifier class an occurrence belongs to
type Class string

const (
	// ClassQuestion is the questions[*].id class
	ClassQuestion Class = "question"
	// ClassAnswer is the questions[*].possibleAnswers[*].id class
	ClassAnswer Class = "answer"
)

// Occurrence identifies exactly one place an identifier value is written.
// Answer is -1 for question-level occurrences.
type Occurrence struct {
	Class    Class `json:"class"`
	Question int   `json:"question"`
	Answer   int   `json:"answer"`
}

// Position returns the human-readable position string of the occurrence,
// e.g. questions[3].id or questions[3].possibleAnswers[2].id
func (o Occurrence) Position() string {
	if o.Class == ClassAnswer {
		return fmt.Sprintf("questions[%d].possibleAnswers[%d].id", o.Question, o.Answer)
	}
	return fmt.Sprintf("questions[%d].id", o.Question)
}

// Warning reports a question or answer with no usable identifier
type Warning struct {
	Position string `json:"position"`
	Message  string `json:"message"`
}

// Index maps identifier values to their occurrences, in document traversal
// order: values in first-occurrence order, occurrences in document order.
type Index struct {
	order []string
	occ   map[string][]Occurrence
}

func newIndex() *Index {
	return &Index{occ: make(map[string][]Occurrence)}
}

func (ix *Index) add(id string, o Occurrence) {
	if _, seen := ix.occ[id]; !seen {
		ix.order = append(ix.order, id)
	}
	ix.occ[id] = append(ix.occ[id], o)
}

// Len returns the number of distinct identifier values in the index
func (ix *Index) Len() int {
	return len(ix.order)
}

// IDs returns the identifier values in first-occurrence order
func (ix *Index) IDs() []string {
	return ix.order
}

// Occurrences returns the occurrences of id in document order
func (ix *Index) Occurrences(id string) []Occurrence {
	return ix.occ[id]
}

// Scan is the result of one read-only indexing pass over a document
type Scan struct {
	// Questions indexes questions[*].id
	Questions *Index
	// Answers indexes questions[*].possibleAnswers[*].id
	Answers *Index
	// AllIDs is the union of all identifier values across both classes
	AllIDs map[string]struct{}
	// Warnings lists entities with a missing, null, or empty identifier;
	// those are excluded from the indices
	Warnings []Warning
}

// BuildIndex walks the document and indexes every identifier occurrence.
// The pass is read-only and traversal order is the document's declared
// sequence order, which is what makes "first occurrence" deterministic.
func BuildIndex(doc *document.Document) *Scan {
	scan := &Scan{
		Questions: newIndex(),
		Answers:   newIndex(),
		AllIDs:    make(map[string]struct{}),
	}

	for qi := 0; qi < doc.QuestionCount(); qi++ {
		occ := Occurrence{Class: ClassQuestion, Question: qi, Answer: -1}
		if id := doc.QuestionID(qi); id != "" {
			scan.Questions.add(id, occ)
			scan.AllIDs[id] = struct{}{}
		} else {
			scan.Warnings = append(scan.Warnings, Warning{
				Position: occ.Position(),
				Message:  "missing identifier",
			})
		}

		for ai := 0; ai < doc.AnswerCount(qi); ai++ {
			occ := Occurrence{Class: ClassAnswer, Question: qi, Answer: ai}
			if id := doc.AnswerID(qi, ai); id != "" {
				scan.Answers.add(id, occ)
				scan.AllIDs[id] = struct{}{}
			} else {
				scan.Warnings = append(scan.Warnings, Warning{
					Position: occ.Position(),
					Message:  "missing identifier",
				})
			}
		}
	}

	return scan
}
