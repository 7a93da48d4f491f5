package retryclass

import "sort"

// Error labels shared with the server. Byte-exact.
const (
	RetryableWriteErrorLabel           = "RetryableWriteError"
	NonResumableChangeStreamErrorLabel = "NonResumableChangeStreamError"
)

// LabelSet is a set of error labels with membership-only semantics.
// The zero value is an empty set ready for use.
// A LabelSet is not safe for concurrent mutation.
type LabelSet struct {
	labels map[string]struct{}
}

// NewLabelSet returns a set holding the given labels.
func NewLabelSet(labels ...string) LabelSet {
	var s LabelSet
	for _, l := range labels {
		s.Add(l)
	}
	return s
}

// Add inserts label and reports whether it was not already present.
func (s *LabelSet) Add(label string) bool {
	if s.labels == nil {
		s.labels = make(map[string]struct{})
	}
	if _, ok := s.labels[label]; ok {
		return false
	}
	s.labels[label] = struct{}{}
	return true
}

// Has reports whether label is in the set. Matching is case-sensitive.
func (s *LabelSet) Has(label string) bool {
	if s == nil {
		return false
	}
	_, ok := s.labels[label]
	return ok
}

// Len returns the number of labels.
func (s *LabelSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.labels)
}

// List returns the labels in sorted order.
func (s *LabelSet) List() []string {
	if s == nil || len(s.labels) == 0 {
		return nil
	}
	out := make([]string, 0, len(s.labels))
	for l := range s.labels {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
