package censor

// Span is a half-open [Start, End) range of rune offsets locating a matched
// phrase within a scanned text. The same convention is used by both the
// block and the allow index, so spans from the two are directly comparable.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Covers reports whether s fully contains other. Partial overlap doesn't
// count, containment must be complete on both ends.
func (s Span) Covers(other Span) bool {
	return s.Start <= other.Start && s.End >= other.End
}

// uncovered returns the block spans not fully covered by any allow span.
// A message is suppressed iff this is non-empty.
func uncovered(blocks, allows []Span) (res []Span) {
	for _, b := range blocks {
		covered := false
		for _, a := range allows {
			if a.Covers(b) {
				covered = true
				break
			}
		}
		if !covered {
			res = append(res, b)
		}
	}
	return res
}
