package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Tokenize_wordSequence(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect []string
	}{
		{
			name:   "single word",
			input:  "look",
			expect: []string{"look"},
		},
		{
			name:   "lower-cases input",
			input:  "LOOK",
			expect: []string{"look"},
		},
		{
			name:   "strips terminal bang",
			input:  "Take the brass key!",
			expect: []string{"take", "brass", "key"},
		},
		{
			name:   "strips question mark and quotes",
			input:  `say "hello"?`,
			expect: []string{"say", "hello"},
		},
		{
			name:   "drops article before a noun",
			input:  "take the lamp",
			expect: []string{"take", "lamp"},
		},
		{
			name:   "drops every article not before a preposition",
			input:  "put the key in the box",
			expect: []string{"put", "key", "in", "box"},
		},
		{
			name:   "drops trailing article",
			input:  "take the",
			expect: []string{"take"},
		},
		{
			name:   "keeps article directly before a preposition",
			input:  "take some of them",
			expect: []string{"take", "some", "of", "them"},
		},
		{
			name:   "isolates and drops commas",
			input:  "take key, lamp",
			expect: []string{"take", "key", "lamp"},
		},
		{
			name:   "isolates and drops periods",
			input:  "take key. drop lamp",
			expect: []string{"take", "key", "drop", "lamp"},
		},
		{
			name:   "word conjunctions survive tokenization",
			input:  "take key and lamp",
			expect: []string{"take", "key", "and", "lamp"},
		},
		{
			name:   "collapses extra whitespace",
			input:  "  open   door  ",
			expect: []string{"open", "door"},
		},
		{
			name:   "empty input",
			input:  "",
			expect: nil,
		},
		{
			name:   "whitespace only",
			input:  "   \t ",
			expect: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			tokens := Tokenize(tc.input)

			var actual []string
			for _, tok := range tokens {
				actual = append(actual, tok.Text)
			}

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Classify_fallbackChain(t *testing.T) {
	testCases := []struct {
		name            string
		input           string
		expectType      WordType
		expectCanonical string
	}{
		{
			name:            "built-in verb",
			input:           "take",
			expectType:      WordVerb,
			expectCanonical: "take",
		},
		{
			name:            "verb alias canonicalizes",
			input:           "get",
			expectType:      WordVerb,
			expectCanonical: "take",
		},
		{
			name:            "direction abbreviation canonicalizes",
			input:           "n",
			expectType:      WordDirection,
			expectCanonical: "north",
		},
		{
			name:            "full direction word",
			input:           "northwest",
			expectType:      WordDirection,
			expectCanonical: "northwest",
		},
		{
			name:            "preposition",
			input:           "beside",
			expectType:      WordPreposition,
			expectCanonical: "beside",
		},
		{
			name:            "numeric literal",
			input:           "42",
			expectType:      WordNumber,
			expectCanonical: "42",
		},
		{
			name:            "meta verb with no vocabulary entry",
			input:           "restart",
			expectType:      WordVerb,
			expectCanonical: "restart",
		},
		{
			name:       "unknown word",
			input:      "xyzzy",
			expectType: WordUnknown,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			v := NewVocabulary()
			tokens := []Token{{Text: tc.input}}
			v.Classify(tokens)

			assert.Equal(tc.expectType, tokens[0].Type)
			assert.Equal(tc.expectCanonical, tokens[0].Canonical)
		})
	}
}

func Test_Classify_fullSentence(t *testing.T) {
	assert := assert.New(t)

	v := NewVocabulary()
	v.Add("key", WordNoun, "", []string{"brass_key"})
	v.Add("brass", WordAdjective, "", nil)

	tokens := Tokenize("take the brass key")
	v.Classify(tokens)

	assert.Len(tokens, 3)
	assert.Equal(WordVerb, tokens[0].Type)
	assert.Equal(WordAdjective, tokens[1].Type)
	assert.Equal(WordNoun, tokens[2].Type)
	assert.Equal([]string{"BRASS_KEY"}, tokens[2].EntityIDs)
}

func Test_Classify_contentNounWins(t *testing.T) {
	assert := assert.New(t)

	v := NewVocabulary()
	v.Add("Revolver", WordNoun, "", []string{"revolver_1"})

	tokens := Tokenize("revolver")
	v.Classify(tokens)

	assert.Len(tokens, 1)
	assert.Equal(WordNoun, tokens[0].Type)
	assert.Equal([]string{"REVOLVER_1"}, tokens[0].EntityIDs)
}

func Test_Vocabulary_Add(t *testing.T) {
	assert := assert.New(t)

	v := NewVocabulary()

	// word is lower-cased, canonical defaults to the word itself, and ids
	// are upper-cased
	v.Add("Knife", WordNoun, "", []string{"carving_knife"})
	entry, ok := v.First("knife")
	assert.True(ok)
	assert.Equal("knife", entry.Word)
	assert.Equal("knife", entry.Canonical)
	assert.Equal([]string{"CARVING_KNIFE"}, entry.EntityIDs)

	// homonym senses stack in registration order; First returns the oldest
	v.Add("knife", WordVerb, "stab", nil)
	senses := v.Lookup("knife")
	assert.Len(senses, 2)
	first, _ := v.First("knife")
	assert.Equal(WordNoun, first.Type)
	assert.True(v.IsType("knife", WordVerb))

	// blank words are ignored
	v.Add("  ", WordNoun, "", nil)
	assert.Nil(v.Lookup(""))
}

func Test_Vocabulary_EntityIDsFor(t *testing.T) {
	assert := assert.New(t)

	v := NewVocabulary()
	v.Add("key", WordNoun, "", []string{"brass_key"})
	v.Add("key", WordNoun, "", []string{"iron_key"})
	v.Add("key", WordVerb, "unlock", nil)

	assert.Equal([]string{"BRASS_KEY", "IRON_KEY"}, v.EntityIDsFor("key"))
	assert.Nil(v.EntityIDsFor("lamp"))
}
