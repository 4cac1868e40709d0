package integrity

import (
	"github.com/google/uuid"

	"qtk/internal/document"
	qerrors "qtk/internal/errors"
)

// maxGenerateAttempts bounds the reject-resample loop. A collision of a
// random 128-bit token against a document-sized identifier set is
// astronomically unlikely, so hitting this cap means a broken generator.
const maxGenerateAttempts = 100

// Generator produces candidate identifier values
type Generator func() string

// Replacement is one entry of the ordered repair log
type Replacement struct {
	Position string `json:"position"`
	OldID    string `json:"oldId"`
	NewID    string `json:"newId"`
}

// Repairer rewrites non-canonical duplicate occurrences with freshly
// generated identifiers. It owns the run-scoped set of every identifier
// value seen or minted, so no new value can collide with anything in the
// document or with another replacement from the same run.
type Repairer struct {
	seen  map[string]struct{}
	newID Generator
}

// NewRepairer creates a Repairer seeded with the existing identifier values
// of both classes. A nil gen uses random V4 UUIDs.
func NewRepairer(existing map[string]struct{}, gen Generator) *Repairer {
	seen := make(map[string]struct{}, len(existing))
	for id := range existing {
		seen[id] = struct{}{}
	}
	if gen == nil {
		gen = func() string { return uuid.New().String() }
	}
	return &Repairer{seen: seen, newID: gen}
}

// next returns a fresh identifier absent from the running set and records
// it immediately
func (r *Repairer) next() (string, error) {
	for i := 0; i < maxGenerateAttempts; i++ {
		id := r.newID()
		if _, dup := r.seen[id]; dup {
			continue
		}
		r.seen[id] = struct{}{}
		return id, nil
	}
	return "", qerrors.New(qerrors.InternalError, "identifier generation exhausted its retry budget", nil)
}

// Repair rewrites every occurrence after the first in each duplicate group
// of the scan, question class first, groups in index order, occurrences in
// document order. It returns the ordered replacement log. The first
// occurrence of every group is left untouched.
func (r *Repairer) Repair(doc *document.Document, scan *Scan) ([]Replacement, error) {
	var log []Replacement

	for _, group := range scan.Questions.Duplicates() {
		for _, occ := range group.Occurrences[1:] {
			id, err := r.next()
			if err != nil {
				return log, err
			}
			if err := doc.SetQuestionID(occ.Question, id); err != nil {
				return log, err
			}
			log = append(log, Replacement{Position: occ.Position(), OldID: group.ID, NewID: id})
		}
	}

	for _, group := range scan.Answers.Duplicates() {
		for _, occ := range group.Occurrences[1:] {
			id, err := r.next()
			if err != nil {
				return log, err
			}
			if err := doc.SetAnswerID(occ.Question, occ.Answer, id); err != nil {
				return log, err
			}
			log = append(log, Replacement{Position: occ.Position(), OldID: group.ID, NewID: id})
		}
	}

	return log, nil
}
