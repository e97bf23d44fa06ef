package censor

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoPosition indicates a word removal with a position not present in the
// list. The list is left unchanged in this case.
var ErrNoPosition = errors.New("no such list position")

// Admin is a single administrator record, a display name with the numeric
// user id. Uniqueness is not enforced, order is insertion order.
type Admin struct {
	Name string `json:"name"`
	ID   int64  `json:"id"`
}

// RuleSet is the censorship state: the ordered list of blocked words and the
// ordered list of admins allowed to change it. Word order matters, the
// 1-based position is the user-visible identity for removal, and duplicates
// are permitted.
type RuleSet struct {
	Words  []string `json:"words"`
	Admins []Admin  `json:"admins"`
}

// AddWord appends a word to the block list.
func (r *RuleSet) AddWord(word string) {
	r.Words = append(r.Words, word)
}

// RemoveWord deletes the word at the given 1-based position and returns it.
// Subsequent words shift down by one. On an out-of-range position the list
// stays unchanged and ErrNoPosition is returned.
func (r *RuleSet) RemoveWord(pos int) (string, error) {
	if pos < 1 || pos > len(r.Words) {
		return "", fmt.Errorf("can't remove word %d of %d: %w", pos, len(r.Words), ErrNoPosition)
	}
	word := r.Words[pos-1]
	r.Words = append(r.Words[:pos-1], r.Words[pos:]...)
	return word, nil
}

// AddAdmin appends an admin record.
func (r *RuleSet) AddAdmin(name string, id int64) {
	r.Admins = append(r.Admins, Admin{Name: name, ID: id})
}

// IsAdmin reports whether the given user id is in the admin list.
func (r *RuleSet) IsAdmin(id int64) bool {
	for _, a := range r.Admins {
		if a.ID == id {
			return true
		}
	}
	return false
}

// BuildIndex makes a block index from the words. Each word is lower-cased
// here, once, so scans don't need to normalize stored phrases.
func (r *RuleSet) BuildIndex() *PhraseIndex {
	res := NewPhraseIndex()
	for _, w := range r.Words {
		res.Insert(strings.ToLower(w))
	}
	return res
}

// BuildAllowIndex makes the allow index from dictionary words, given the
// current block index. A dictionary word starting with a blocked phrase is
// skipped. The filter checks the prefix only: a word containing a blocked
// phrase further in, like "classic" with "ass" blocked, stays indexed so its
// matches can cover that phrase. Words are lower-cased before both the
// filter and the insert.
func BuildAllowIndex(block *PhraseIndex, dictionary []string) *PhraseIndex {
	res := NewPhraseIndex()
	for _, w := range dictionary {
		lw := strings.ToLower(w)
		if block.matchesPrefix(lw) {
			continue
		}
		res.Insert(lw)
	}
	return res
}
