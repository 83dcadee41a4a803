// Package parser turns raw player input into executable commands. It
// contains the tokenizer, the vocabulary classifier, the syntax-pattern
// matcher, and the disambiguator that together produce a ParseResult.
package parser

import (
	"strings"
)

// WordType classifies a vocabulary word. The enumeration is closed; every
// token is assigned exactly one type during classification.
type WordType int

const (
	// WordUnknown is a word with no vocabulary entry and no fallback
	// classification. Unknown words are not fatal; they are resolved later
	// from syntactic position.
	WordUnknown WordType = iota

	// WordVerb begins a command.
	WordVerb

	// WordNoun names one or more entities.
	WordNoun

	// WordAdjective narrows a noun to particular entities.
	WordAdjective

	// WordPreposition separates the slots of a syntax pattern.
	WordPreposition

	// WordArticle is dropped during tokenization.
	WordArticle

	// WordConjunction splits multiple commands.
	WordConjunction

	// WordDirection is a movement word.
	WordDirection

	// WordNumber is a numeric literal.
	WordNumber

	// WordSpecial is a meta word such as "again" or "oops".
	WordSpecial
)

var wordTypeNames = map[WordType]string{
	WordUnknown:     "unknown",
	WordVerb:        "verb",
	WordNoun:        "noun",
	WordAdjective:   "adjective",
	WordPreposition: "preposition",
	WordArticle:     "article",
	WordConjunction: "conjunction",
	WordDirection:   "direction",
	WordNumber:      "number",
	WordSpecial:     "special",
}

// WordTypeByName returns the WordType with the given data-file name. The
// second return value is false if no type has that name.
func WordTypeByName(name string) (WordType, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range wordTypeNames {
		if n == name {
			return t, true
		}
	}
	return WordUnknown, false
}

func (t WordType) String() string {
	if n, ok := wordTypeNames[t]; ok {
		return n
	}
	return "unknown"
}

// VocabEntry is one sense of a surface word: its type, the canonical form
// the word normalizes to ("get" -> "take"), and the ids of any entities the
// word can name.
type VocabEntry struct {
	Word      string
	Type      WordType
	Canonical string
	EntityIDs []string
}

// Vocabulary maps surface words to their senses. A word may carry several
// entries (homonyms); entries keep registration order and the first entry
// wins unless syntactic context disambiguates.
type Vocabulary struct {
	entries map[string][]VocabEntry
}

// NewVocabulary creates a Vocabulary pre-loaded with the built-in word
// tables: directions and their abbreviations, the standard verbs, and the
// standard prepositions. Content vocabulary is added on top with Add.
func NewVocabulary() *Vocabulary {
	v := &Vocabulary{
		entries: make(map[string][]VocabEntry),
	}

	for full, short := range directionShorthand {
		v.Add(full, WordDirection, full, nil)
		if short != "" {
			v.Add(short, WordDirection, full, nil)
		}
	}

	for _, verb := range builtinVerbs {
		v.Add(verb, WordVerb, verb, nil)
	}
	for alias, canonical := range verbAliases {
		v.Add(alias, WordVerb, canonical, nil)
	}

	for prep := range prepositionWords {
		v.Add(prep, WordPreposition, prep, nil)
	}

	return v
}

// Add registers a sense of a word. The word is lower-cased; if canonical is
// empty the word itself is used. Multiple calls for the same word stack
// entries in registration order.
func (v *Vocabulary) Add(word string, t WordType, canonical string, entityIDs []string) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return
	}
	if canonical == "" {
		canonical = word
	}

	ids := make([]string, len(entityIDs))
	for i := range entityIDs {
		ids[i] = strings.ToUpper(entityIDs[i])
	}

	v.entries[word] = append(v.entries[word], VocabEntry{
		Word:      word,
		Type:      t,
		Canonical: strings.ToLower(canonical),
		EntityIDs: ids,
	})
}

// Lookup returns every registered sense of the word in registration order,
// or nil if the word is not in the vocabulary.
func (v *Vocabulary) Lookup(word string) []VocabEntry {
	return v.entries[strings.ToLower(word)]
}

// First returns the first-registered sense of the word. The second return
// value is false if the word is not in the vocabulary.
func (v *Vocabulary) First(word string) (VocabEntry, bool) {
	entries := v.entries[strings.ToLower(word)]
	if len(entries) == 0 {
		return VocabEntry{}, false
	}
	return entries[0], true
}

// IsType returns whether any sense of the word has the given type.
func (v *Vocabulary) IsType(word string, t WordType) bool {
	for _, e := range v.Lookup(word) {
		if e.Type == t {
			return true
		}
	}
	return false
}

// Canonical returns the canonical form of the word's first-registered
// sense, or the word itself if it has no entry.
func (v *Vocabulary) Canonical(word string) string {
	if e, ok := v.First(word); ok {
		return e.Canonical
	}
	return strings.ToLower(word)
}

// EntityIDsFor returns the ids of every entity associated with any noun
// sense of the word, in registration order.
func (v *Vocabulary) EntityIDsFor(word string) []string {
	var ids []string
	for _, e := range v.Lookup(word) {
		if e.Type == WordNoun {
			ids = append(ids, e.EntityIDs...)
		}
	}
	return ids
}

// Built-in word tables. These are the words the parser understands before
// any content vocabulary is loaded.

// articleWords are elided during tokenization when they precede a
// non-preposition.
var articleWords = map[string]bool{
	"a": true, "an": true, "the": true, "some": true,
}

// prepositionWords close the current slot and open the next during syntax
// matching.
var prepositionWords = map[string]bool{
	"in": true, "on": true, "at": true, "to": true, "with": true,
	"from": true, "into": true, "onto": true, "under": true,
	"behind": true, "about": true, "for": true, "through": true,
	"across": true, "over": true, "around": true, "near": true,
	"beside": true, "between": true, "of": true,
}

// conjunctionWords split chained commands. Only the text before the first
// conjunction is parsed.
var conjunctionWords = map[string]bool{
	"and": true, "then": true, ",": true, ".": true,
}

// directionShorthand maps every full direction word to its abbreviation.
// Both forms classify as directions with the full word as canonical.
var directionShorthand = map[string]string{
	"north": "n", "south": "s", "east": "e", "west": "w",
	"northeast": "ne", "northwest": "nw",
	"southeast": "se", "southwest": "sw",
	"up": "u", "down": "d",
	"enter": "", "exit": "out",
}

// builtinVerbs are the verbs the default syntax table supports.
var builtinVerbs = []string{
	"go", "enter", "exit", "take", "drop", "open", "close", "lock",
	"unlock", "put", "give", "look", "examine", "search", "read",
	"talk", "ask", "tell", "show", "accuse", "save", "load", "quit",
	"inventory", "score", "wait", "help", "again",
}

// verbAliases map shorthand verbs to their canonical forms.
var verbAliases = map[string]string{
	"get":     "take",
	"grab":    "take",
	"x":       "examine",
	"l":       "look",
	"i":       "inventory",
	"inven":   "inventory",
	"z":       "wait",
	"g":       "again",
	"q":       "quit",
	"restore": "load",
	"bye":     "quit",
	"speak":   "talk",
}

// metaVerbs are recognized as verbs by the classifier fallback chain even
// without a vocabulary entry.
var metaVerbs = map[string]bool{
	"save": true, "restore": true, "load": true, "quit": true,
	"restart": true, "score": true, "inventory": true, "help": true,
	"wait": true, "again": true, "version": true,
}
