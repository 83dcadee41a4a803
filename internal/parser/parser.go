package parser

// File parser.go drives the full pipeline: tokenize, classify, match
// against the syntax table, and resolve the slots.

import (
	"strings"

	"github.com/gumshoeworks/gumshoe/internal/gserr"
	"github.com/gumshoeworks/gumshoe/internal/world"
)

// Parser turns one line of player input into a ParseResult. It owns the
// vocabulary and syntax table and, when constructed over a World, resolves
// noun phrases to entity ids as part of parsing.
//
// A Parser is not safe for concurrent use.
type Parser struct {
	vocab    *Vocabulary
	custom   []Pattern
	defaults []Pattern

	w      *world.World
	disamb *Disambiguator

	lastResult *ParseResult
}

// New creates a Parser over the given world. The world may be nil, in which
// case noun phrases are passed through as raw text instead of being
// resolved; this is how the parser is unit-tested and how callers that only
// need tokenization use it.
func New(w *world.World) *Parser {
	p := &Parser{
		vocab:    NewVocabulary(),
		defaults: DefaultPatterns(),
		w:        w,
	}
	if w != nil {
		p.disamb = NewDisambiguator(w)
	}
	return p
}

// Vocabulary returns the parser's vocabulary for direct registration.
func (p *Parser) Vocabulary() *Vocabulary {
	return p.vocab
}

// AddWord registers a sense of a word in the parser's vocabulary.
func (p *Parser) AddWord(word string, t WordType, canonical string, entityIDs []string) {
	p.vocab.Add(word, t, canonical, entityIDs)
}

// AddPattern registers a content-defined syntax pattern. Content patterns
// are tried before the built-in table, in registration order.
func (p *Parser) AddPattern(pat Pattern) {
	p.custom = append(p.custom, pat)
}

// IndexWorld registers the name, synonyms, and adjectives of every entity
// in the parser's world as vocabulary. It is a no-op without a world.
func (p *Parser) IndexWorld() {
	if p.w == nil {
		return
	}
	for _, e := range p.w.All() {
		ids := []string{e.ID}
		p.vocab.Add(e.Name, WordNoun, "", ids)
		for _, syn := range e.Synonyms {
			p.vocab.Add(syn, WordNoun, "", ids)
		}
		for _, adj := range e.Adjectives {
			p.vocab.Add(adj, WordAdjective, "", nil)
		}
	}
}

// LastAmbiguous returns the candidate ids from the most recent parse that
// ended ambiguous, or nil.
func (p *Parser) LastAmbiguous() []string {
	if p.disamb == nil {
		return nil
	}
	return p.disamb.LastAmbiguous()
}

// ResolvePhrase resolves a raw noun phrase to an entity id outside of a
// full parse, in the context of the given verb. Dispatchers use this to
// late-resolve object text that an earlier parse deferred. The candidate
// list is non-nil when the error wraps gserr.ErrAmbiguous.
func (p *Parser) ResolvePhrase(phrase, verb, viewpointID string) (string, []string, error) {
	if p.disamb == nil {
		return "", nil, gserr.WrapInterpreter(gserr.ErrNotFound, "Nothing like that is here.", "no world attached to parser")
	}
	tokens := Tokenize(phrase)
	p.vocab.Classify(tokens)
	return p.disamb.Resolve(tokens, verb, viewpointID)
}

// Parse runs the full pipeline on one line of input, resolving noun phrases
// from the point of view of the entity with viewpointID. It never returns a
// zero result: failures come back as a ParseResult with Valid false and Err
// wrapping one of the gserr sentinels.
//
// Parse is forgiving by design. Input that matches no registered pattern
// still produces an optimistic result with the first token as the verb and
// raw text in the object slots, so the dispatcher can attempt it and report
// a domain-level failure instead of a parse error.
func (p *Parser) Parse(raw, viewpointID string) ParseResult {
	result := ParseResult{RawInput: raw}

	if strings.TrimSpace(raw) == "" {
		result.Err = gserr.WrapInterpreter(gserr.ErrEmptyInput, "I beg your pardon?", "blank input")
		return result
	}

	tokens := Tokenize(raw)
	if len(tokens) == 0 {
		result.Err = gserr.WrapInterpreter(gserr.ErrEmptyInput, "I beg your pardon?", "input had no words")
		return result
	}

	// only the text before the first conjunction is parsed this turn
	for i, tok := range tokens {
		if conjunctionWords[tok.Text] {
			tokens = tokens[:i]
			break
		}
	}
	if len(tokens) == 0 {
		result.Err = gserr.WrapInterpreter(gserr.ErrEmptyInput, "I beg your pardon?", "input was only conjunctions")
		return result
	}

	p.vocab.Classify(tokens)
	result.Tokens = tokens

	// AGAIN replays the last successful command verbatim
	if len(tokens) == 1 && tokens[0].Type == WordVerb && tokens[0].Canonical == "again" {
		if p.lastResult == nil {
			result.Err = gserr.Interpreter("You haven't done anything to repeat yet.", "AGAIN with no prior command")
			return result
		}
		return *p.lastResult
	}

	// a bare direction is shorthand for GO
	if len(tokens) == 1 && tokens[0].Type == WordDirection {
		dir := tokens[0].Canonical
		if dir == "" {
			dir = tokens[0].Text
		}
		result.Valid = true
		result.Verb = "go"
		result.DirectObject = dir
		p.lastResult = &result
		return result
	}

	for _, pat := range p.patterns() {
		bound, ok := pat.match(tokens)
		if !ok {
			continue
		}
		res := p.resolve(pat, bound, result, viewpointID)
		if res.Valid {
			p.lastResult = &res
		}
		return res
	}

	res := p.fallback(tokens, result)
	p.lastResult = &res
	return res
}

func (p *Parser) patterns() []Pattern {
	if len(p.custom) == 0 {
		return p.defaults
	}
	out := make([]Pattern, 0, len(p.custom)+len(p.defaults))
	out = append(out, p.custom...)
	out = append(out, p.defaults...)
	return out
}

// resolve fills the result's object slots from a structural match. A failed
// resolution produces an invalid result immediately; the matcher does not
// backtrack to later patterns once one has matched structurally.
func (p *Parser) resolve(pat Pattern, bound slotBinding, result ParseResult, viewpointID string) ParseResult {
	result.Verb = bound.verb
	result.Preposition = bound.prep

	if len(pat.Slots) >= 1 {
		val, cands, err := p.fillSlot(pat.Slots[0], bound.direct, bound.verb, viewpointID)
		if err != nil {
			result.Err = err
			result.Ambiguous = cands
			return result
		}
		result.DirectObject = val
	}

	if len(pat.Slots) >= 2 {
		val, cands, err := p.fillSlot(pat.Slots[1], bound.indirect, bound.verb, viewpointID)
		if err != nil {
			result.Err = err
			result.Ambiguous = cands
			return result
		}
		result.IndirectObject = val
	}

	result.Valid = true
	return result
}

// fillSlot produces the value for one slot: a canonical direction, raw
// topic text, or a resolved entity id. Without a world, noun slots degrade
// to raw text.
func (p *Parser) fillSlot(t SlotType, tokens []Token, verb, viewpointID string) (string, []string, error) {
	switch t {
	case SlotDirection:
		if len(tokens) == 0 {
			return "", nil, nil
		}
		return tokens[0].Canonical, nil, nil

	case SlotTopic:
		return joinTexts(tokens), nil, nil

	default:
		if p.disamb == nil {
			return joinTexts(tokens), nil, nil
		}
		return p.disamb.Resolve(tokens, verb, viewpointID)
	}
}

// fallback is the permissive parse used when no pattern matches: the first
// token is assumed to be the verb and the remaining text is split on the
// first preposition into raw object slots. The result is optimistically
// valid; the dispatcher decides whether it means anything.
func (p *Parser) fallback(tokens []Token, result ParseResult) ParseResult {
	verb := tokens[0].Canonical
	if verb == "" {
		verb = tokens[0].Text
	}
	result.Verb = verb

	rest := tokens[1:]
	var first, second []Token
	for i, tok := range rest {
		if tok.Type == WordPreposition && result.Preposition == "" {
			result.Preposition = tok.Text
			second = rest[i+1:]
			break
		}
		first = append(first, tok)
	}

	result.DirectObject = joinTexts(first)
	result.IndirectObject = joinTexts(second)
	result.Valid = true
	return result
}

func joinTexts(tokens []Token) string {
	var words []string
	for _, tok := range tokens {
		words = append(words, tok.Text)
	}
	return strings.Join(words, " ")
}
