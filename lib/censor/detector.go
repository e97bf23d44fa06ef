// Package censor implements substring-based phrase censoring for chat
// messages. A Detector owns a mutable rule set (blocked words and admins)
// and two phrase indexes built from it: the block index over the words and
// an allow index derived from a dictionary of known-benign words. A message
// is censored iff it contains a blocked phrase occurrence not fully covered
// by an allowed word occurrence.
package censor

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"sync"
)

//go:generate moq --out mocks/store.go --pkg mocks --skip-ensure --with-resets . Store

// Store is an interface for rule set persistence.
type Store interface {
	Save(rules RuleSet) error // write the full rule set
	Load() (RuleSet, error)   // read the full rule set
}

// Detector is the censoring engine, thread-safe. Scans take a read lock and
// work on in-memory indexes only; every mutation takes the write lock,
// persists the updated rules and rebuilds the indexes wholesale before the
// lock is released, so a concurrent scan sees either the old or the new
// index pair, never a mix.
type Detector struct {
	Config
	rules    RuleSet
	blockIdx *PhraseIndex
	allowIdx *PhraseIndex
	store    Store
	lock     sync.RWMutex
}

// Config is a set of parameters for Detector.
type Config struct {
	Dictionary []string // allow-candidate words for the allow index
	SeedAdmins []Admin  // admins injected at startup regardless of the persisted state
}

// Request is a single message to evaluate.
type Request struct {
	Msg      string `json:"msg"`
	UserID   int64  `json:"user_id,omitempty"`
	UserName string `json:"user_name,omitempty"`
}

// Response is the verdict for a single message. Matches and Spans describe
// the blocked phrase occurrences not covered by any allowed word, with spans
// located in the lower-cased text.
type Response struct {
	Censored bool     `json:"censored"`
	Matches  []string `json:"matches,omitempty"`
	Spans    []Span   `json:"spans,omitempty"`
}

// New makes a Detector with the given config, seeded admins in place and
// empty word list. Call WithStore and Load to restore the persisted state.
func New(cfg Config) *Detector {
	res := &Detector{Config: cfg}
	res.rules.Admins = append(res.rules.Admins, cfg.SeedAdmins...)
	res.rebuild()
	return res
}

// WithStore sets the persistence for the rule set. Every mutation is written
// through it.
func (d *Detector) WithStore(s Store) { d.store = s }

// Load restores the rule set from the store and rebuilds the indexes.
// A missing file is not an error, the seeded defaults stay and a warning is
// logged. A present but unreadable blob is returned as an error, the caller
// decides if that's fatal.
func (d *Detector) Load() error {
	if d.store == nil {
		return nil
	}
	rules, err := d.store.Load()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("[WARN] no saved rules, starting with defaults, %v", err)
			return nil
		}
		return fmt.Errorf("failed to load rules: %w", err)
	}

	d.lock.Lock()
	defer d.lock.Unlock()
	d.rules = rules
	for _, seed := range d.SeedAdmins { // a blob from before a seed change can't lock the seeds out
		if !d.rules.IsAdmin(seed.ID) {
			d.rules.Admins = append(d.rules.Admins, seed)
		}
	}
	d.rebuild()
	log.Printf("[INFO] rules loaded, %d words, %d admins", len(d.rules.Words), len(d.rules.Admins))
	return nil
}

// Check evaluates a single message. The text is lower-cased once, scanned
// against the block index and, on any hit, against the allow index; the
// verdict reports the block matches left uncovered.
func (d *Detector) Check(req Request) Response {
	text := strings.ToLower(req.Msg)

	d.lock.RLock()
	defer d.lock.RUnlock()

	if !d.blockIdx.HasMatch(text) {
		return Response{} // the common case, nothing blocked in the message
	}

	blocks := d.blockIdx.Scan(text)
	allows := d.allowIdx.Scan(text)
	bad := uncovered(blocks, allows)
	if len(bad) == 0 {
		return Response{}
	}

	runes := []rune(text)
	matches := make([]string, 0, len(bad))
	for _, s := range bad {
		matches = append(matches, string(runes[s.Start:s.End]))
	}
	return Response{Censored: true, Matches: matches, Spans: bad}
}

// AddPhrase appends a phrase to the block list, persists the rules and
// rebuilds the indexes. On a failed save the in-memory state is rolled back
// and the phrase is not added.
func (d *Detector) AddPhrase(phrase string) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.rules.AddWord(phrase)
	if err := d.save(); err != nil {
		d.rules.Words = d.rules.Words[:len(d.rules.Words)-1] // roll back to the last good state
		return fmt.Errorf("failed to save rules after adding %q: %w", phrase, err)
	}
	d.rebuild()
	return nil
}

// RemovePhrase removes the phrase at the given 1-based position and returns
// it. An out-of-range position leaves the list unchanged and returns
// ErrNoPosition. On a failed save the removed phrase is restored.
func (d *Detector) RemovePhrase(pos int) (string, error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	saved := make([]string, len(d.rules.Words))
	copy(saved, d.rules.Words)

	phrase, err := d.rules.RemoveWord(pos)
	if err != nil {
		return "", err
	}
	if err := d.save(); err != nil {
		d.rules.Words = saved
		return "", fmt.Errorf("failed to save rules after removing %q: %w", phrase, err)
	}
	d.rebuild()
	return phrase, nil
}

// AddAdmin appends an admin record and persists the rules. Admins don't
// affect the indexes, so no rebuild happens.
func (d *Detector) AddAdmin(name string, id int64) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.rules.AddAdmin(name, id)
	if err := d.save(); err != nil {
		d.rules.Admins = d.rules.Admins[:len(d.rules.Admins)-1]
		return fmt.Errorf("failed to save rules after adding admin %q: %w", name, err)
	}
	return nil
}

// UpdateDictionary replaces the allow-candidate dictionary and rebuilds the
// allow index. Used for live dictionary reload.
func (d *Detector) UpdateDictionary(words []string) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.Dictionary = words
	d.allowIdx = BuildAllowIndex(d.blockIdx, d.Dictionary)
}

// IsAdmin reports whether the given user id is in the admin list.
func (d *Detector) IsAdmin(id int64) bool {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.rules.IsAdmin(id)
}

// Phrases returns a copy of the block list, in insertion order.
func (d *Detector) Phrases() []string {
	d.lock.RLock()
	defer d.lock.RUnlock()
	res := make([]string, len(d.rules.Words))
	copy(res, d.rules.Words)
	return res
}

// Admins returns a copy of the admin list, in insertion order.
func (d *Detector) Admins() []Admin {
	d.lock.RLock()
	defer d.lock.RUnlock()
	res := make([]Admin, len(d.rules.Admins))
	copy(res, d.rules.Admins)
	return res
}

// save writes the rules through the store if one is set. Caller must hold
// the write lock.
func (d *Detector) save() error {
	if d.store == nil {
		return nil
	}
	return d.store.Save(d.rules)
}

// rebuild makes both indexes from scratch. Caller must hold the write lock.
func (d *Detector) rebuild() {
	d.blockIdx = d.rules.BuildIndex()
	d.allowIdx = BuildAllowIndex(d.blockIdx, d.Dictionary)
}
