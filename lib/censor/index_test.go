package censor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhraseIndex_Scan(t *testing.T) {
	tbl := []struct {
		name    string
		phrases []string
		text    string
		spans   []Span
	}{
		{"no phrases", []string{}, "anything goes", nil},
		{"no match", []string{"bad"}, "all good here", nil},
		{"single match", []string{"bad"}, "a bad day", []Span{{Start: 2, End: 5}}},
		{"match at start", []string{"bad"}, "bad day", []Span{{Start: 0, End: 3}}},
		{"match at end", []string{"bad"}, "too bad", []Span{{Start: 4, End: 7}}},
		{"repeated matches", []string{"ss"}, "mississippi", []Span{{Start: 2, End: 4}, {Start: 5, End: 7}}},
		{"overlapping matches", []string{"aa"}, "aaaa", []Span{{Start: 0, End: 2}, {Start: 1, End: 3}, {Start: 2, End: 4}}},
		{"phrase is prefix of longer phrase", []string{"bad", "badge"}, "badge", []Span{{Start: 0, End: 3}, {Start: 0, End: 5}}},
		{"multiple phrases", []string{"he", "hell", "lo"}, "hello", []Span{{Start: 0, End: 2}, {Start: 0, End: 4}, {Start: 3, End: 5}}},
		{"adjacent phrases", []string{"ab", "ba"}, "aba", []Span{{Start: 0, End: 2}, {Start: 1, End: 3}}},
		{"unicode offsets counted in runes", []string{"рив"}, "привет", []Span{{Start: 1, End: 4}}},
		{"whole text is a phrase", []string{"ass"}, "ass", []Span{{Start: 0, End: 3}}},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			idx := NewPhraseIndex()
			for _, p := range tt.phrases {
				idx.Insert(p)
			}
			assert.Equal(t, tt.spans, idx.Scan(tt.text))
		})
	}
}

func TestPhraseIndex_HasMatchAgreesWithScan(t *testing.T) {
	idx := NewPhraseIndex()
	for _, p := range []string{"ass", "bad", "дурак"} {
		idx.Insert(p)
	}

	tbl := []string{
		"", "a", "as", "ass", "class", "classic", "a bad one", "b a d",
		"дурак ты", "дура", "pass it", "ba", "abadb", "xassx",
	}
	for _, text := range tbl {
		t.Run(text, func(t *testing.T) {
			assert.Equal(t, len(idx.Scan(text)) > 0, idx.HasMatch(text))
		})
	}
}

func TestPhraseIndex_InsertIdempotent(t *testing.T) {
	idx := NewPhraseIndex()
	idx.Insert("bad")
	once := idx.Scan("a bad bad day")

	idx.Insert("bad")
	twice := idx.Scan("a bad bad day")

	require.Len(t, once, 2)
	assert.Equal(t, once, twice)
}

func TestPhraseIndex_InsertEmpty(t *testing.T) {
	idx := NewPhraseIndex()
	idx.Insert("")
	assert.Nil(t, idx.Scan("anything"))
	assert.False(t, idx.HasMatch("anything"))
	assert.False(t, idx.HasMatch(""))
}

func TestPhraseIndex_matchesPrefix(t *testing.T) {
	idx := NewPhraseIndex()
	idx.Insert("ass")
	idx.Insert("дурак")

	tbl := []struct {
		text string
		res  bool
	}{
		{"asshat", true},
		{"ass", true},
		{"assassin", true},
		{"classic", false}, // contains a stored phrase but not as a prefix
		{"as", false},
		{"", false},
		{"дураки", true},
		{"полудурак", false},
	}
	for _, tt := range tbl {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.res, idx.matchesPrefix(tt.text))
		})
	}
}
