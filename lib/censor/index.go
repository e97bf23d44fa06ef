package censor

// PhraseIndex is a multi-pattern substring matcher over a set of phrases.
// It is a rune-keyed tree built fresh from a phrase collection and never
// mutated in place after that; on any rule change the owner rebuilds the
// whole index. Matching walks the tree from every starting offset of the
// scanned text, which is O(len(text) * longest phrase) in the worst case,
// good enough for chat messages and short phrase lists.
type PhraseIndex struct {
	root *indexNode
}

type indexNode struct {
	children map[rune]*indexNode
	end      bool // set on the last rune of an inserted phrase
}

func newIndexNode() *indexNode { return &indexNode{children: map[rune]*indexNode{}} }

// NewPhraseIndex makes an empty index.
func NewPhraseIndex() *PhraseIndex {
	return &PhraseIndex{root: newIndexNode()}
}

// Insert adds a phrase to the index. The phrase is stored exactly as given,
// callers normalize case before insertion. Empty phrase is a no-op, and
// inserting the same phrase twice has no effect beyond the first insert.
func (p *PhraseIndex) Insert(phrase string) {
	if phrase == "" {
		return
	}
	node := p.root
	for _, r := range phrase {
		child, ok := node.children[r]
		if !ok {
			child = newIndexNode()
			node.children[r] = child
		}
		node = child
	}
	node.end = true
}

// Scan returns all occurrences of stored phrases in text as half-open
// [start, end) rune-offset spans. Every starting offset is tried, and a walk
// continues past an end-of-phrase node because a stored phrase may be a
// prefix of a longer stored one, so nested and overlapping occurrences are
// all reported.
func (p *PhraseIndex) Scan(text string) (res []Span) {
	runes := []rune(text)
	for i := range runes {
		node := p.root
		for j := i; j < len(runes); j++ {
			child, ok := node.children[runes[j]]
			if !ok {
				break
			}
			node = child
			if node.end {
				res = append(res, Span{Start: i, End: j + 1})
			}
		}
	}
	return res
}

// HasMatch reports whether any stored phrase occurs in text as a substring.
// Equivalent to len(Scan(text)) > 0 but allocation-free and returning on the
// first hit.
func (p *PhraseIndex) HasMatch(text string) bool {
	runes := []rune(text)
	for i := range runes {
		node := p.root
		for j := i; j < len(runes); j++ {
			child, ok := node.children[runes[j]]
			if !ok {
				break
			}
			node = child
			if node.end {
				return true
			}
		}
	}
	return false
}

// matchesPrefix reports whether any stored phrase is a prefix of text.
// Used when deriving the allow index, see BuildAllowIndex.
func (p *PhraseIndex) matchesPrefix(text string) bool {
	node := p.root
	for _, r := range text {
		child, ok := node.children[r]
		if !ok {
			return false
		}
		node = child
		if node.end {
			return true
		}
	}
	return false
}
