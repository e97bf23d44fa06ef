package censor_test

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tg-censor/tg-censor/lib/censor"
	"github.com/tg-censor/tg-censor/lib/censor/mocks"
)

func TestDetector_Check(t *testing.T) {
	d := censor.New(censor.Config{Dictionary: []string{"classic", "bass", "grass"}})
	require.NoError(t, d.AddPhrase("ass"))
	require.NoError(t, d.AddPhrase("дурак"))

	tbl := []struct {
		name     string
		msg      string
		censored bool
		matches  []string
	}{
		{"clean message", "hello there", false, nil},
		{"direct hit", "you're an ass", true, []string{"ass"}},
		{"covered by allowed word", "that's classic", false, nil},
		{"uppercase hit", "you're an ASS", true, []string{"ass"}},
		{"covered regardless of case", "that's CLASSIC", false, nil},
		{"covered and uncovered in one message", "classic ass", true, []string{"ass"}},
		{"unicode phrase", "ну ты ДУРАК", true, []string{"дурак"}},
		{"phrase inside a word not in the dictionary", "underpass", true, []string{"ass"}},
		{"allowed word with nothing blocked around", "bass and grass", false, nil},
		{"empty message", "", false, nil},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			resp := d.Check(censor.Request{Msg: tt.msg})
			assert.Equal(t, tt.censored, resp.Censored)
			assert.Equal(t, tt.matches, resp.Matches)
		})
	}
}

func TestDetector_CheckSpans(t *testing.T) {
	d := censor.New(censor.Config{Dictionary: []string{"classic"}})
	require.NoError(t, d.AddPhrase("ass"))

	resp := d.Check(censor.Request{Msg: "classic ass"})
	require.True(t, resp.Censored)
	assert.Equal(t, []censor.Span{{Start: 8, End: 11}}, resp.Spans,
		"the covered occurrence inside classic is not reported, only the standalone one")
}

func TestDetector_SeedAdmins(t *testing.T) {
	d := censor.New(censor.Config{SeedAdmins: []censor.Admin{{Name: "root", ID: 1}}})
	assert.True(t, d.IsAdmin(1))
	assert.False(t, d.IsAdmin(2))
	assert.Equal(t, []censor.Admin{{Name: "root", ID: 1}}, d.Admins())
}

func TestDetector_AddRemovePhrase(t *testing.T) {
	store := &mocks.StoreMock{SaveFunc: func(censor.RuleSet) error { return nil }}
	d := censor.New(censor.Config{})
	d.WithStore(store)

	require.NoError(t, d.AddPhrase("one"))
	require.NoError(t, d.AddPhrase("two"))
	assert.Equal(t, []string{"one", "two"}, d.Phrases())
	require.Len(t, store.SaveCalls(), 2)
	assert.Equal(t, []string{"one", "two"}, store.SaveCalls()[1].Rules.Words, "write-through persists the full set")

	removed, err := d.RemovePhrase(1)
	require.NoError(t, err)
	assert.Equal(t, "one", removed)
	assert.Equal(t, []string{"two"}, d.Phrases())
	assert.Len(t, store.SaveCalls(), 3)

	_, err = d.RemovePhrase(5)
	require.ErrorIs(t, err, censor.ErrNoPosition)
	assert.Equal(t, []string{"two"}, d.Phrases(), "rejected removal leaves the list unchanged")
	assert.Len(t, store.SaveCalls(), 3, "nothing saved on a rejected removal")
}

func TestDetector_AddAdmin(t *testing.T) {
	store := &mocks.StoreMock{SaveFunc: func(censor.RuleSet) error { return nil }}
	d := censor.New(censor.Config{})
	d.WithStore(store)

	require.NoError(t, d.AddAdmin("alice", 123))
	assert.True(t, d.IsAdmin(123))
	require.Len(t, store.SaveCalls(), 1)
	assert.Equal(t, []censor.Admin{{Name: "alice", ID: 123}}, store.SaveCalls()[0].Rules.Admins)
}

func TestDetector_StoreFailureRollsBack(t *testing.T) {
	store := &mocks.StoreMock{SaveFunc: func(censor.RuleSet) error { return nil }}
	d := censor.New(censor.Config{})
	d.WithStore(store)
	require.NoError(t, d.AddPhrase("keepme"))

	store.SaveFunc = func(censor.RuleSet) error { return errors.New("disk full") }

	t.Run("add rolled back", func(t *testing.T) {
		err := d.AddPhrase("newbie")
		require.Error(t, err)
		assert.Equal(t, []string{"keepme"}, d.Phrases())
		assert.False(t, d.Check(censor.Request{Msg: "a newbie here"}).Censored, "failed add must not affect scans")
	})

	t.Run("remove rolled back", func(t *testing.T) {
		_, err := d.RemovePhrase(1)
		require.Error(t, err)
		assert.Equal(t, []string{"keepme"}, d.Phrases())
		assert.True(t, d.Check(censor.Request{Msg: "keepme plz"}).Censored, "failed removal keeps the old rules active")
	})

	t.Run("add admin rolled back", func(t *testing.T) {
		err := d.AddAdmin("bob", 456)
		require.Error(t, err)
		assert.False(t, d.IsAdmin(456))
	})
}

func TestDetector_Load(t *testing.T) {
	t.Run("restores rules and rebuilds", func(t *testing.T) {
		store := &mocks.StoreMock{LoadFunc: func() (censor.RuleSet, error) {
			return censor.RuleSet{Words: []string{"bad"}, Admins: []censor.Admin{{Name: "bob", ID: 2}}}, nil
		}}
		d := censor.New(censor.Config{SeedAdmins: []censor.Admin{{Name: "root", ID: 1}}})
		d.WithStore(store)
		require.NoError(t, d.Load())

		assert.Equal(t, []string{"bad"}, d.Phrases())
		assert.True(t, d.IsAdmin(2))
		assert.True(t, d.IsAdmin(1), "seed admin survives a blob that doesn't have it")
		assert.True(t, d.Check(censor.Request{Msg: "bad news"}).Censored, "restored words active right after load")
	})

	t.Run("seed admin not duplicated", func(t *testing.T) {
		store := &mocks.StoreMock{LoadFunc: func() (censor.RuleSet, error) {
			return censor.RuleSet{Admins: []censor.Admin{{Name: "root", ID: 1}}}, nil
		}}
		d := censor.New(censor.Config{SeedAdmins: []censor.Admin{{Name: "root", ID: 1}}})
		d.WithStore(store)
		require.NoError(t, d.Load())
		assert.Len(t, d.Admins(), 1)
	})

	t.Run("missing file keeps defaults", func(t *testing.T) {
		store := &mocks.StoreMock{LoadFunc: func() (censor.RuleSet, error) {
			return censor.RuleSet{}, fmt.Errorf("failed to read rules.bin: %w", fs.ErrNotExist)
		}}
		d := censor.New(censor.Config{SeedAdmins: []censor.Admin{{Name: "root", ID: 1}}})
		d.WithStore(store)
		require.NoError(t, d.Load())
		assert.True(t, d.IsAdmin(1))
		assert.Empty(t, d.Phrases())
	})

	t.Run("corrupt file is an error", func(t *testing.T) {
		store := &mocks.StoreMock{LoadFunc: func() (censor.RuleSet, error) {
			return censor.RuleSet{}, errors.New("failed to decode rules.bin: not a cbor blob")
		}}
		d := censor.New(censor.Config{})
		d.WithStore(store)
		require.Error(t, d.Load())
	})

	t.Run("no store set", func(t *testing.T) {
		d := censor.New(censor.Config{})
		require.NoError(t, d.Load())
	})
}

func TestDetector_UpdateDictionary(t *testing.T) {
	d := censor.New(censor.Config{})
	require.NoError(t, d.AddPhrase("ass"))
	assert.True(t, d.Check(censor.Request{Msg: "that's classic"}).Censored, "no dictionary, nothing covers the match")

	d.UpdateDictionary([]string{"classic"})
	assert.False(t, d.Check(censor.Request{Msg: "that's classic"}).Censored)
	assert.True(t, d.Check(censor.Request{Msg: "you're an ass"}).Censored, "standalone match still censored")
}

func TestDetector_MutationVisibleToNextCheck(t *testing.T) {
	d := censor.New(censor.Config{})

	var wg sync.WaitGroup
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					d.Check(censor.Request{Msg: "just some chatter to keep readers busy"})
				}
			}
		}()
	}

	for i := 0; i < 50; i++ {
		phrase := fmt.Sprintf("verboten%d", i)
		require.NoError(t, d.AddPhrase(phrase))
		resp := d.Check(censor.Request{Msg: "now saying " + phrase + " here"})
		assert.True(t, resp.Censored, "the very next check after a mutation sees the new index")
	}

	close(done)
	wg.Wait()
}

func TestDetector_ListingsAreCopies(t *testing.T) {
	d := censor.New(censor.Config{SeedAdmins: []censor.Admin{{Name: "root", ID: 1}}})
	require.NoError(t, d.AddPhrase("one"))

	phrases := d.Phrases()
	phrases[0] = "mangled"
	assert.Equal(t, []string{"one"}, d.Phrases())

	admins := d.Admins()
	admins[0].Name = "mangled"
	assert.Equal(t, "root", d.Admins()[0].Name)
}
