package zimjson

import (
	"maps"
	"slices"
)

// Summary accumulates statistics over an extraction run.
type Summary struct {
	Count      int
	Namespaces map[string]int
	Types      map[string]int
	Skipped    map[SkipReason]int
}

// NewSummary returns an empty Summary.
func NewSummary() *Summary {
	return &Summary{
		Namespaces: make(map[string]int),
		Types:      make(map[string]int),
		Skipped:    make(map[SkipReason]int),
	}
}

// Add counts an accepted record.
func (s *Summary) Add(r *Record) {
	s.Count++
	s.Namespaces[r.Namespace]++
	s.Types[r.Type]++
}

// Skip counts a skipped entry.
func (s *Summary) Skip(reason SkipReason) {
	s.Skipped[reason]++
}

// NamespaceList returns the distinct namespaces seen, sorted.
func (s *Summary) NamespaceList() []string {
	return slices.Sorted(maps.Keys(s.Namespaces))
}

// TypeList returns the distinct types seen, sorted.
func (s *Summary) TypeList() []string {
	return slices.Sorted(maps.Keys(s.Types))
}

// SkippedTotal returns the number of skipped entries across all reasons.
func (s *Summary) SkippedTotal() int {
	total := 0
	for _, n := range s.Skipped {
		total += n
	}
	return total
}
