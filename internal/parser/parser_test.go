package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gumshoeworks/gumshoe/internal/gserr"
)

// Parsing over a nil world leaves noun phrases as raw text, which is how the
// structural layer is checked in isolation.

func Test_Parse_defaultPatterns(t *testing.T) {
	testCases := []struct {
		name           string
		input          string
		expectVerb     string
		expectDirect   string
		expectIndirect string
		expectPrep     string
	}{
		{
			name:         "take with multi-word noun phrase",
			input:        "take brass key",
			expectVerb:   "take",
			expectDirect: "brass key",
		},
		{
			name:         "verb alias canonicalizes",
			input:        "get the lamp",
			expectVerb:   "take",
			expectDirect: "lamp",
		},
		{
			name:         "drop",
			input:        "drop knife",
			expectVerb:   "drop",
			expectDirect: "knife",
		},
		{
			name:           "take from a container",
			input:          "take key from desk",
			expectVerb:     "take",
			expectDirect:   "key",
			expectIndirect: "desk",
			expectPrep:     "from",
		},
		{
			name:           "put in",
			input:          "put key in box",
			expectVerb:     "put",
			expectDirect:   "key",
			expectIndirect: "box",
			expectPrep:     "in",
		},
		{
			name:           "put onto a surface",
			input:          "put tray onto table",
			expectVerb:     "put",
			expectDirect:   "tray",
			expectIndirect: "table",
			expectPrep:     "onto",
		},
		{
			name:           "give to",
			input:          "give note to butler",
			expectVerb:     "give",
			expectDirect:   "note",
			expectIndirect: "butler",
			expectPrep:     "to",
		},
		{
			name:         "go with direction word",
			input:        "go north",
			expectVerb:   "go",
			expectDirect: "north",
		},
		{
			name:         "go with abbreviated direction",
			input:        "go ne",
			expectVerb:   "go",
			expectDirect: "northeast",
		},
		{
			name:         "bare direction is shorthand for go",
			input:        "n",
			expectVerb:   "go",
			expectDirect: "north",
		},
		{
			name:       "bare look",
			input:      "look",
			expectVerb: "look",
		},
		{
			name:         "look at reparents to examine",
			input:        "look at painting",
			expectVerb:   "examine",
			expectDirect: "painting",
		},
		{
			name:         "look in reparents to search",
			input:        "look in cabinet",
			expectVerb:   "search",
			expectDirect: "cabinet",
		},
		{
			name:         "look under reparents",
			input:        "look under rug",
			expectVerb:   "look-under",
			expectDirect: "rug",
		},
		{
			name:         "search behind reparents",
			input:        "search behind portrait",
			expectVerb:   "look-behind",
			expectDirect: "portrait",
		},
		{
			name:         "x alias for examine",
			input:        "x newspaper",
			expectVerb:   "examine",
			expectDirect: "newspaper",
		},
		{
			name:         "read",
			input:        "read note",
			expectVerb:   "read",
			expectDirect: "note",
		},
		{
			name:           "unlock with key",
			input:          "unlock safe with key",
			expectVerb:     "unlock",
			expectDirect:   "safe",
			expectIndirect: "key",
			expectPrep:     "with",
		},
		{
			name:         "talk to consumes the lead preposition",
			input:        "talk to gardener",
			expectVerb:   "talk",
			expectDirect: "gardener",
		},
		{
			name:           "ask about binds a topic",
			input:          "ask butler about murder",
			expectVerb:     "ask",
			expectDirect:   "butler",
			expectIndirect: "murder",
			expectPrep:     "about",
		},
		{
			name:           "accuse of binds a topic",
			input:          "accuse baxter of murder",
			expectVerb:     "accuse",
			expectDirect:   "baxter",
			expectIndirect: "murder",
			expectPrep:     "of",
		},
		{
			name:         "bare accuse",
			input:        "accuse baxter",
			expectVerb:   "accuse",
			expectDirect: "baxter",
		},
		{
			name:       "inventory alias",
			input:      "i",
			expectVerb: "inventory",
		},
		{
			name:       "wait alias",
			input:      "z",
			expectVerb: "wait",
		},
		{
			name:       "quit",
			input:      "quit",
			expectVerb: "quit",
		},
		{
			name:         "only text before a conjunction is parsed",
			input:        "take key and open door",
			expectVerb:   "take",
			expectDirect: "key",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			p := New(nil)
			actual := p.Parse(tc.input, "PLAYER")

			assert.True(actual.Valid, "parse not valid: %v", actual.Err)
			assert.Equal(tc.expectVerb, actual.Verb)
			assert.Equal(tc.expectDirect, actual.DirectObject)
			assert.Equal(tc.expectIndirect, actual.IndirectObject)
			assert.Equal(tc.expectPrep, actual.Preposition)
			assert.Equal(tc.input, actual.RawInput)
		})
	}
}

func Test_Parse_fallback(t *testing.T) {
	testCases := []struct {
		name           string
		input          string
		expectVerb     string
		expectDirect   string
		expectIndirect string
		expectPrep     string
	}{
		{
			name:         "unknown verb with object text",
			input:        "xyzzy plugh",
			expectVerb:   "xyzzy",
			expectDirect: "plugh",
		},
		{
			name:           "unknown verb splits on the first preposition",
			input:          "dance with bob",
			expectVerb:     "dance",
			expectIndirect: "bob",
			expectPrep:     "with",
		},
		{
			name:       "bare unknown verb",
			input:      "sing",
			expectVerb: "sing",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			p := New(nil)
			actual := p.Parse(tc.input, "PLAYER")

			// the fallback is optimistic; the dispatcher decides whether the
			// command means anything
			assert.True(actual.Valid)
			assert.Equal(tc.expectVerb, actual.Verb)
			assert.Equal(tc.expectDirect, actual.DirectObject)
			assert.Equal(tc.expectIndirect, actual.IndirectObject)
			assert.Equal(tc.expectPrep, actual.Preposition)
		})
	}
}

func Test_Parse_emptyInput(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "blank line", input: ""},
		{name: "whitespace only", input: "   "},
		{name: "punctuation only", input: "?!"},
		{name: "conjunctions only", input: "and then"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			p := New(nil)
			actual := p.Parse(tc.input, "PLAYER")

			assert.False(actual.Valid)
			assert.ErrorIs(actual.Err, gserr.ErrEmptyInput)
			assert.Equal("I beg your pardon?", gserr.GameMessage(actual.Err))
		})
	}
}

func Test_Parse_again(t *testing.T) {
	t.Run("replays the last valid command", func(t *testing.T) {
		assert := assert.New(t)

		p := New(nil)
		first := p.Parse("take key", "PLAYER")
		assert.True(first.Valid)

		replay := p.Parse("again", "PLAYER")
		assert.True(replay.Valid)
		assert.Equal("take", replay.Verb)
		assert.Equal("key", replay.DirectObject)
		assert.Equal("take key", replay.RawInput)
	})

	t.Run("g is an alias", func(t *testing.T) {
		assert := assert.New(t)

		p := New(nil)
		p.Parse("look", "PLAYER")

		replay := p.Parse("g", "PLAYER")
		assert.True(replay.Valid)
		assert.Equal("look", replay.Verb)
	})

	t.Run("failed parses are not replayable", func(t *testing.T) {
		assert := assert.New(t)

		p := New(nil)
		p.Parse("drop lamp", "PLAYER")
		p.Parse("", "PLAYER")

		replay := p.Parse("again", "PLAYER")
		assert.True(replay.Valid)
		assert.Equal("drop", replay.Verb)
		assert.Equal("lamp", replay.DirectObject)
	})

	t.Run("errors with nothing to repeat", func(t *testing.T) {
		assert := assert.New(t)

		p := New(nil)
		actual := p.Parse("again", "PLAYER")

		assert.False(actual.Valid)
		assert.Equal("You haven't done anything to repeat yet.", gserr.GameMessage(actual.Err))
	})
}

func Test_Parse_customPattern(t *testing.T) {
	assert := assert.New(t)

	p := New(nil)
	p.AddWord("dust", WordVerb, "", nil)
	p.AddPattern(Pattern{Verb: "dust", Slots: []SlotType{SlotDirect}})

	actual := p.Parse("dust shelf", "PLAYER")

	assert.True(actual.Valid)
	assert.Equal("dust", actual.Verb)
	assert.Equal("shelf", actual.DirectObject)
}

func Test_Pattern_match(t *testing.T) {
	verbTok := Token{Text: "take", Type: WordVerb, Canonical: "take"}
	nounTok := Token{Text: "key", Type: WordUnknown}
	prepTok := Token{Text: "in", Type: WordPreposition, Canonical: "in"}
	boxTok := Token{Text: "box", Type: WordUnknown}

	testCases := []struct {
		name     string
		pat      Pattern
		tokens   []Token
		expectOK bool
	}{
		{
			name:     "zero-slot pattern rejects trailing words",
			pat:      Pattern{Verb: "take"},
			tokens:   []Token{verbTok, nounTok},
			expectOK: false,
		},
		{
			name:     "one-slot pattern requires an object",
			pat:      Pattern{Verb: "take", Slots: []SlotType{SlotDirect}},
			tokens:   []Token{verbTok},
			expectOK: false,
		},
		{
			name:     "one-slot pattern rejects a preposition",
			pat:      Pattern{Verb: "take", Slots: []SlotType{SlotDirect}},
			tokens:   []Token{verbTok, nounTok, prepTok, boxTok},
			expectOK: false,
		},
		{
			name:     "two-slot pattern requires both slots filled",
			pat:      Pattern{Verb: "take", Slots: []SlotType{SlotDirect, SlotIndirect}},
			tokens:   []Token{verbTok, nounTok, prepTok},
			expectOK: false,
		},
		{
			name:     "two-slot pattern restricts the separating preposition",
			pat:      Pattern{Verb: "take", Slots: []SlotType{SlotDirect, SlotIndirect}, Preps: []string{"from"}},
			tokens:   []Token{verbTok, nounTok, prepTok, boxTok},
			expectOK: false,
		},
		{
			name:     "two-slot pattern accepts a listed preposition",
			pat:      Pattern{Verb: "take", Slots: []SlotType{SlotDirect, SlotIndirect}, Preps: []string{"in"}},
			tokens:   []Token{verbTok, nounTok, prepTok, boxTok},
			expectOK: true,
		},
		{
			name:     "lead preposition must be present when required",
			pat:      Pattern{Verb: "take", Slots: []SlotType{SlotDirect}, LeadPreps: []string{"at"}},
			tokens:   []Token{verbTok, nounTok},
			expectOK: false,
		},
		{
			name:     "direction slot rejects a non-direction word",
			pat:      Pattern{Verb: "take", Slots: []SlotType{SlotDirection}},
			tokens:   []Token{verbTok, nounTok},
			expectOK: false,
		},
		{
			name:     "first token must be a verb",
			pat:      Pattern{Verb: "", Slots: []SlotType{SlotDirect}},
			tokens:   []Token{nounTok, boxTok},
			expectOK: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			_, ok := tc.pat.match(tc.tokens)

			assert.Equal(tc.expectOK, ok)
		})
	}
}
