package censor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpan_Covers(t *testing.T) {
	tbl := []struct {
		name  string
		a, b  Span
		wants bool
	}{
		{"equal spans", Span{0, 5}, Span{0, 5}, true},
		{"strictly inside", Span{0, 10}, Span{2, 5}, true},
		{"shared start", Span{2, 8}, Span{2, 5}, true},
		{"shared end", Span{2, 8}, Span{5, 8}, true},
		{"overlap on the left only", Span{0, 4}, Span{2, 6}, false},
		{"overlap on the right only", Span{3, 8}, Span{1, 5}, false},
		{"disjoint", Span{0, 2}, Span{5, 8}, false},
		{"contained, not containing", Span{2, 5}, Span{0, 10}, false},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wants, tt.a.Covers(tt.b))
		})
	}
}

func TestUncovered(t *testing.T) {
	tbl := []struct {
		name   string
		blocks []Span
		allows []Span
		wants  []Span
	}{
		{"no blocks", nil, []Span{{0, 10}}, nil},
		{"no allows", []Span{{2, 5}}, nil, []Span{{2, 5}}},
		{"single block covered", []Span{{9, 12}}, []Span{{7, 14}}, nil},
		{"partial overlap doesn't cover", []Span{{2, 6}}, []Span{{0, 4}}, []Span{{2, 6}}},
		{"one of two covered", []Span{{2, 5}, {8, 11}}, []Span{{1, 6}}, []Span{{8, 11}}},
		{"covered by second allow", []Span{{2, 5}}, []Span{{6, 9}, {0, 5}}, nil},
		{"all covered", []Span{{1, 3}, {4, 6}}, []Span{{0, 3}, {4, 8}}, nil},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wants, uncovered(tt.blocks, tt.allows))
		})
	}
}
