package entity

import "sort"

// ProcessedIDSet holds the identifiers of entries that were already delivered.
type ProcessedIDSet struct {
	ids map[string]struct{}
}

func NewProcessedIDSet(ids ...string) *ProcessedIDSet {
	s := &ProcessedIDSet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

func (s *ProcessedIDSet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *ProcessedIDSet) Add(id string) {
	s.ids[id] = struct{}{}
}

func (s *ProcessedIDSet) Len() int {
	return len(s.ids)
}

// Sorted returns the identifiers in ascending order. The result is never nil.
func (s *ProcessedIDSet) Sorted() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s *ProcessedIDSet) Clone() *ProcessedIDSet {
	return NewProcessedIDSet(s.Sorted()...)
}
