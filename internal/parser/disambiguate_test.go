package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gumshoeworks/gumshoe/internal/gserr"
	"github.com/gumshoeworks/gumshoe/internal/world"
)

// studyWorld builds a small fixed scene for resolution tests: the player in
// a study with two keys, an open desk holding a note, a transparent locked
// display case holding a revolver, and the butler. The iron key starts in
// the player's pocket.
func studyWorld(t *testing.T) *world.World {
	t.Helper()

	w := world.New()

	entities := []*world.Entity{
		{ID: "STUDY", Name: "study", Kind: world.KindRoom, Room: &world.RoomData{}},
		{ID: "PLAYER", Name: "yourself", Kind: world.KindPlayer},
		{ID: "BRASS_KEY", Name: "key", Adjectives: []string{"brass"}, Kind: world.KindItem, Flags: world.FlagSet(world.FlagTakeable)},
		{ID: "IRON_KEY", Name: "key", Adjectives: []string{"iron"}, Kind: world.KindItem, Flags: world.FlagSet(world.FlagTakeable)},
		{ID: "DESK", Name: "desk", Kind: world.KindContainer, Flags: world.FlagSet(world.FlagContainer | world.FlagOpen | world.FlagFixed)},
		{ID: "NOTE", Name: "note", Kind: world.KindDocument, Flags: world.FlagSet(world.FlagReadable | world.FlagTakeable)},
		{ID: "CASE", Name: "case", Adjectives: []string{"display"}, Kind: world.KindContainer, Flags: world.FlagSet(world.FlagContainer | world.FlagTransparent | world.FlagLocked | world.FlagFixed)},
		{ID: "REVOLVER", Name: "revolver", Kind: world.KindItem, Flags: world.FlagSet(world.FlagTakeable | world.FlagWeapon)},
		{ID: "BUTLER", Name: "butler", Kind: world.KindCharacter, Flags: world.FlagSet(world.FlagPerson), Character: &world.CharacterData{}},
	}
	for _, e := range entities {
		if err := w.Add(e); err != nil {
			t.Fatalf("could not build test world: %v", err)
		}
	}

	placements := map[string]string{
		"PLAYER":    "STUDY",
		"BRASS_KEY": "STUDY",
		"IRON_KEY":  "PLAYER",
		"DESK":      "STUDY",
		"NOTE":      "DESK",
		"CASE":      "STUDY",
		"REVOLVER":  "CASE",
		"BUTLER":    "STUDY",
	}
	for id, owner := range placements {
		if err := w.PlaceInitial(id, owner); err != nil {
			t.Fatalf("could not place %s: %v", id, err)
		}
	}

	return w
}

func toks(words ...string) []Token {
	var out []Token
	for _, word := range words {
		out = append(out, Token{Text: word})
	}
	return out
}

func Test_Resolve_filterChain(t *testing.T) {
	testCases := []struct {
		name     string
		phrase   []string
		verb     string
		expectID string
	}{
		{
			name:     "unique noun",
			phrase:   []string{"desk"},
			verb:     "examine",
			expectID: "DESK",
		},
		{
			name:     "adjective selects among shared nouns",
			phrase:   []string{"iron", "key"},
			verb:     "examine",
			expectID: "IRON_KEY",
		},
		{
			name:     "room placement preferred over carried",
			phrase:   []string{"key"},
			verb:     "take",
			expectID: "BRASS_KEY",
		},
		{
			name:     "inside an open container",
			phrase:   []string{"note"},
			verb:     "read",
			expectID: "NOTE",
		},
		{
			name: "verb context that would empty the set is skipped",
			// the butler is not takeable, but he is the only match, so the
			// handler gets to report the real problem
			phrase:   []string{"butler"},
			verb:     "take",
			expectID: "BUTLER",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			w := studyWorld(t)
			d := NewDisambiguator(w)

			id, cands, err := d.Resolve(toks(tc.phrase...), tc.verb, "PLAYER")

			assert.NoError(err)
			assert.Nil(cands)
			assert.Equal(tc.expectID, id)
		})
	}
}

func Test_Resolve_notFound(t *testing.T) {
	testCases := []struct {
		name       string
		phrase     []string
		expectMsg  string
		expectWrap error
	}{
		{
			name:       "no such noun anywhere",
			phrase:     []string{"unicorn"},
			expectMsg:  "You don't see any unicorn here.",
			expectWrap: gserr.ErrNotFound,
		},
		{
			name:       "adjective matches nothing",
			phrase:     []string{"golden", "key"},
			expectMsg:  "You don't see any golden key here.",
			expectWrap: gserr.ErrNotFound,
		},
		{
			name:       "empty phrase",
			phrase:     nil,
			expectMsg:  "You need to name something.",
			expectWrap: gserr.ErrNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			w := studyWorld(t)
			d := NewDisambiguator(w)

			_, _, err := d.Resolve(toks(tc.phrase...), "examine", "PLAYER")

			assert.ErrorIs(err, tc.expectWrap)
			assert.Equal(tc.expectMsg, gserr.GameMessage(err))
		})
	}
}

func Test_Resolve_soleMatchBehindGlass(t *testing.T) {
	assert := assert.New(t)

	// the revolver sits in the closed display case, visible but out of
	// reach; as the only match it still resolves, for any verb, and the
	// handler decides whether reach matters
	w := studyWorld(t)
	d := NewDisambiguator(w)

	id, cands, err := d.Resolve(toks("revolver"), "examine", "PLAYER")

	assert.NoError(err)
	assert.Nil(cands)
	assert.Equal("REVOLVER", id)

	id, _, err = d.Resolve(toks("revolver"), "take", "PLAYER")

	assert.NoError(err)
	assert.Equal("REVOLVER", id)
}

func Test_Resolve_nestedDoesNotBeatCarried(t *testing.T) {
	assert := assert.New(t)

	// one key in the open desk, the other in the player's pocket: neither
	// sits directly in the room, so nothing breaks the tie
	w := studyWorld(t)
	d := NewDisambiguator(w)

	assert.NoError(w.MoveTo("BRASS_KEY", "DESK"))

	_, cands, err := d.Resolve(toks("key"), "examine", "PLAYER")

	assert.ErrorIs(err, gserr.ErrAmbiguous)
	assert.ElementsMatch([]string{"BRASS_KEY", "IRON_KEY"}, cands)
}

func Test_Resolve_ambiguous(t *testing.T) {
	assert := assert.New(t)

	w := studyWorld(t)
	d := NewDisambiguator(w)

	// with both keys in the room, nothing narrows them apart
	err := w.MoveTo("IRON_KEY", "STUDY")
	assert.NoError(err)

	_, cands, resolveErr := d.Resolve(toks("key"), "examine", "PLAYER")

	assert.ErrorIs(resolveErr, gserr.ErrAmbiguous)
	assert.Equal("Which key do you mean?", gserr.GameMessage(resolveErr))
	assert.ElementsMatch([]string{"BRASS_KEY", "IRON_KEY"}, cands)
	assert.ElementsMatch([]string{"BRASS_KEY", "IRON_KEY"}, d.LastAmbiguous())

	// a successful resolution clears the stored candidate set
	_, _, resolveErr = d.Resolve(toks("desk"), "examine", "PLAYER")
	assert.NoError(resolveErr)
	assert.Nil(d.LastAmbiguous())
}

func Test_Resolve_darkRoom(t *testing.T) {
	assert := assert.New(t)

	w := world.New()
	err := w.Add(&world.Entity{
		ID: "CELLAR", Name: "cellar", Kind: world.KindRoom,
		Room: &world.RoomData{LightNeeded: true},
	})
	assert.NoError(err)
	err = w.Add(&world.Entity{ID: "PLAYER", Name: "yourself", Kind: world.KindPlayer})
	assert.NoError(err)
	err = w.Add(&world.Entity{ID: "CRATE", Name: "crate", Kind: world.KindItem})
	assert.NoError(err)
	assert.NoError(w.PlaceInitial("PLAYER", "CELLAR"))
	assert.NoError(w.PlaceInitial("CRATE", "CELLAR"))

	d := NewDisambiguator(w)

	// nothing is in scope in the dark
	_, _, resolveErr := d.Resolve(toks("crate"), "examine", "PLAYER")
	assert.ErrorIs(resolveErr, gserr.ErrNotFound)
}

func Test_Parse_resolvesAgainstWorld(t *testing.T) {
	assert := assert.New(t)

	w := studyWorld(t)
	p := New(w)
	p.IndexWorld()

	actual := p.Parse("take the brass key", "PLAYER")

	assert.True(actual.Valid, "parse not valid: %v", actual.Err)
	assert.Equal("take", actual.Verb)
	assert.Equal("BRASS_KEY", actual.DirectObject)
}

func Test_Parse_ambiguousResult(t *testing.T) {
	assert := assert.New(t)

	w := studyWorld(t)
	assert.NoError(w.MoveTo("IRON_KEY", "STUDY"))

	p := New(w)
	p.IndexWorld()

	actual := p.Parse("examine key", "PLAYER")

	assert.False(actual.Valid)
	assert.ErrorIs(actual.Err, gserr.ErrAmbiguous)
	assert.ElementsMatch([]string{"BRASS_KEY", "IRON_KEY"}, actual.Ambiguous)
	assert.ElementsMatch([]string{"BRASS_KEY", "IRON_KEY"}, p.LastAmbiguous())
}

func Test_ResolvePhrase(t *testing.T) {
	assert := assert.New(t)

	w := studyWorld(t)
	p := New(w)
	p.IndexWorld()

	id, cands, err := p.ResolvePhrase("the iron key", "take", "PLAYER")

	assert.NoError(err)
	assert.Nil(cands)
	assert.Equal("IRON_KEY", id)
}
