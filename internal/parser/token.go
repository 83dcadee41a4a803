package parser

// File token.go holds the Token type, the tokenizer, and the classifier.

import (
	"fmt"
	"strings"
)

// Token is one word of player input, plus whatever classification it has
// been given.
type Token struct {
	// Text is the lower-cased surface word.
	Text string

	// Type is the word's classification. WordUnknown is not fatal; unknown
	// words are interpreted from syntactic position later.
	Type WordType

	// Canonical is the normalized form of the word ("get" -> "take").
	Canonical string

	// EntityIDs are the ids of the entities this word can name, if it is a
	// noun.
	EntityIDs []string
}

func (t Token) String() string {
	return fmt.Sprintf("Token(%q, %s)", t.Text, t.Type)
}

// Tokenize splits raw input into word tokens. Sentence punctuation is
// isolated into separator tokens and then dropped, quotes and bangs are
// stripped, everything is lower-cased, and articles are elided when the
// word after them is not a preposition. The decision is per-article, not
// per-phrase: "take the brass key" drops "the", and so does "in the box".
//
// The returned tokens are unclassified; run Classify over them next.
func Tokenize(raw string) []Token {
	text := strings.ReplaceAll(raw, ",", " , ")
	text = strings.ReplaceAll(text, ".", " . ")
	for _, cut := range []string{"!", "?", "\"", "'"} {
		text = strings.ReplaceAll(text, cut, "")
	}

	words := strings.Fields(strings.ToLower(text))

	var tokens []Token
	for i, word := range words {
		if articleWords[word] {
			// keep the article only when it precedes a preposition, where
			// it is more likely part of a fixed phrase
			if i+1 < len(words) && !prepositionWords[words[i+1]] {
				continue
			}
			if i+1 >= len(words) {
				continue
			}
		}

		if word == "," || word == "." {
			continue
		}

		tokens = append(tokens, Token{Text: word})
	}

	return tokens
}

// Classify assigns a word type and canonical form to each token using the
// vocabulary. Words with no vocabulary entry fall through a fixed chain:
// the direction table, then the preposition table, then numeric literals,
// then the meta-command table, and finally WordUnknown. Classification
// failure is never fatal; unknown words are resolved later from syntactic
// position.
func (v *Vocabulary) Classify(tokens []Token) {
	for i := range tokens {
		tok := &tokens[i]
		word := tok.Text

		if entry, ok := v.First(word); ok {
			tok.Type = entry.Type
			tok.Canonical = entry.Canonical
			tok.EntityIDs = append([]string(nil), entry.EntityIDs...)
			continue
		}

		if full, ok := fullDirection(word); ok {
			tok.Type = WordDirection
			tok.Canonical = full
			continue
		}

		if prepositionWords[word] {
			tok.Type = WordPreposition
			tok.Canonical = word
			continue
		}

		if isNumeric(word) {
			tok.Type = WordNumber
			tok.Canonical = word
			continue
		}

		if metaVerbs[word] {
			tok.Type = WordVerb
			tok.Canonical = word
			continue
		}

		tok.Type = WordUnknown
	}
}

// fullDirection resolves a word against the direction table, accepting
// both full words and abbreviations, and returns the canonical full form.
func fullDirection(word string) (string, bool) {
	if _, ok := directionShorthand[word]; ok {
		return word, true
	}
	for full, short := range directionShorthand {
		if short == word {
			return full, true
		}
	}
	return "", false
}

func isNumeric(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
