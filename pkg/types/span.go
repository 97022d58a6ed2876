package types

// Span is a half-open byte range [Start, End) into a Document
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes covered
func (s Span) Len() int {
	return s.End - s.Start
}

// Validate checks that the span is well ordered and non-negative
func (s Span) Validate() error {
	if s.Start < 0 || s.Start > s.End {
		return ErrInvalidSpan
	}
	return nil
}

// Overlaps reports whether two spans share at least one byte
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// Contains reports whether other lies entirely within s
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}
