package integrity

// DuplicateGroup is all occurrences of one identifier value within one
// class, when there are at least two. The first occurrence is canonical
// and is never rewritten.
type DuplicateGroup struct {
	ID          string
	Occurrences []Occurrence
}

// Duplicates returns the duplicate groups of the index, groups in
// first-occurrence order and occurrences in document order. No re-sorting
// happens on either level.
func (ix *Index) Duplicates() []DuplicateGroup {
	var groups []DuplicateGroup
	for _, id := range ix.order {
		occs := ix.occ[id]
		if len(occs) < 2 {
			continue
		}
		groups = append(groups, DuplicateGroup{ID: id, Occurrences: occs})
	}
	return groups
}

// DuplicateGroupCount returns the total number of duplicate groups across
// both classes
func (s *Scan) DuplicateGroupCount() int {
	return len(s.Questions.Duplicates()) + len(s.Answers.Duplicates())
}

// Clean reports whether the document has no duplicate identifiers in
// either class
func (s *Scan) Clean() bool {
	return s.DuplicateGroupCount() == 0
}
