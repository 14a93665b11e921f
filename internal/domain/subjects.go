package domain

import "strings"

// SubjectSet is an immutable set of lowercase subject codes.
type SubjectSet struct {
	codes map[string]struct{}
}

// NewSubjectSet lowercases and deduplicates the given codes.
func NewSubjectSet(codes []string) SubjectSet {
	m := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		m[c] = struct{}{}
	}
	return SubjectSet{codes: m}
}

// Has reports whether code (already lowercase) is a known subject.
func (s SubjectSet) Has(code string) bool {
	_, ok := s.codes[code]
	return ok
}

// Len returns the number of subjects.
func (s SubjectSet) Len() int { return len(s.codes) }
