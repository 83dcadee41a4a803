package parser

// File syntax.go holds syntax patterns and the structural matcher that
// binds classified tokens to pattern slots.

import (
	"fmt"
	"strings"
)

// SlotType says what a pattern slot binds and how it is resolved.
type SlotType int

const (
	// SlotDirect binds a noun phrase that is resolved to an entity.
	SlotDirect SlotType = iota

	// SlotIndirect binds a second noun phrase that is resolved to an
	// entity.
	SlotIndirect

	// SlotTopic binds free text that is never resolved to an entity, such
	// as the subject of ASK ABOUT.
	SlotTopic

	// SlotDirection binds a single direction word, canonicalized but not
	// resolved.
	SlotDirection
)

var slotNames = map[SlotType]string{
	SlotDirect:    "direct_object",
	SlotIndirect:  "indirect_object",
	SlotTopic:     "topic",
	SlotDirection: "direction",
}

// SlotTypeByName returns the SlotType with the given data-file name. The
// second return value is false if no slot type has that name.
func SlotTypeByName(name string) (SlotType, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range slotNames {
		if n == name {
			return t, true
		}
	}
	return SlotDirect, false
}

func (t SlotType) String() string {
	if n, ok := slotNames[t]; ok {
		return n
	}
	return "direct_object"
}

// Pattern is one syntax rule: a verb, an ordered slot layout, and the
// prepositions that glue the slots together. Patterns are tried in
// registration order and the first structural match wins; there is no
// backtracking across patterns once one matches structurally, even if slot
// resolution later fails. That tradeoff is deliberate and load-bearing for
// compatibility.
type Pattern struct {
	// Verb is the canonical verb the first token must carry. Empty matches
	// any verb-classified token.
	Verb string

	// As overrides the verb reported in the ParseResult, for patterns like
	// "look at X" that reparent to a different canonical verb ("examine").
	// Empty means the matched verb is reported as-is.
	As string

	// Slots is the layout after the verb. At most two slots are supported;
	// general clause nesting is out of scope.
	Slots []SlotType

	// LeadPreps lists prepositions that may appear (and are consumed)
	// directly after the verb, as in "talk TO bob". When non-empty the
	// pattern only matches if one of them is present.
	LeadPreps []string

	// Preps restricts which preposition may separate the two slots. Nil
	// means any preposition is accepted.
	Preps []string
}

// slotBinding is the outcome of a structural match: the raw token runs
// bound to each slot, before any resolution.
type slotBinding struct {
	verb     string
	direct   []Token
	indirect []Token
	prep     string
}

func (p Pattern) String() string {
	var parts []string
	v := p.Verb
	if v == "" {
		v = "VERB"
	}
	parts = append(parts, v)
	for _, s := range p.Slots {
		parts = append(parts, strings.ToUpper(s.String()))
	}
	return fmt.Sprintf("Pattern(%s)", strings.Join(parts, " "))
}

// match attempts a structural match of the classified tokens against the
// pattern. It returns the slot bindings and whether the match succeeded.
// No entity resolution happens here.
func (p Pattern) match(tokens []Token) (slotBinding, bool) {
	var bound slotBinding

	if len(tokens) == 0 {
		return bound, false
	}

	if tokens[0].Type != WordVerb {
		return bound, false
	}
	verb := tokens[0].Canonical
	if verb == "" {
		verb = tokens[0].Text
	}
	if p.Verb != "" && verb != p.Verb {
		return bound, false
	}

	bound.verb = verb
	if p.As != "" {
		bound.verb = p.As
	}

	rest := tokens[1:]

	if len(p.LeadPreps) > 0 {
		if len(rest) == 0 || rest[0].Type != WordPreposition || !containsWord(p.LeadPreps, rest[0].Text) {
			return bound, false
		}
		rest = rest[1:]
	}

	// accumulate the first slot until a preposition closes it
	var first, second []Token
	prep := ""
	for i, tok := range rest {
		if tok.Type == WordPreposition && prep == "" {
			prep = tok.Text
			second = rest[i+1:]
			break
		}
		first = append(first, tok)
	}

	switch len(p.Slots) {
	case 0:
		if len(first) > 0 || prep != "" {
			return bound, false
		}
		return bound, true

	case 1:
		if p.Slots[0] == SlotDirection {
			if len(first) != 1 || first[0].Type != WordDirection || prep != "" {
				return bound, false
			}
			canonical := first[0].Canonical
			if canonical == "" {
				canonical = first[0].Text
			}
			bound.direct = []Token{{Text: canonical, Type: WordDirection, Canonical: canonical}}
			return bound, true
		}

		if len(first) == 0 || prep != "" {
			return bound, false
		}
		bound.direct = first
		return bound, true

	case 2:
		if len(first) == 0 || prep == "" || len(second) == 0 {
			return bound, false
		}
		if p.Preps != nil && !containsWord(p.Preps, prep) {
			return bound, false
		}
		bound.direct = first
		bound.indirect = second
		bound.prep = prep
		return bound, true
	}

	return bound, false
}

func containsWord(words []string, w string) bool {
	for _, cand := range words {
		if cand == w {
			return true
		}
	}
	return false
}

// DefaultPatterns returns the built-in syntax table. It covers every verb
// the engine ships with; content-loaded patterns are tried before these.
func DefaultPatterns() []Pattern {
	return []Pattern{
		// movement
		{Verb: "go", Slots: []SlotType{SlotDirection}, LeadPreps: nil},
		{Verb: "enter", Slots: []SlotType{SlotDirect}},
		{Verb: "exit", Slots: []SlotType{SlotDirect}},

		// manipulation
		{Verb: "take", Slots: []SlotType{SlotDirect, SlotIndirect}, Preps: []string{"from", "out"}},
		{Verb: "take", Slots: []SlotType{SlotDirect}},
		{Verb: "drop", Slots: []SlotType{SlotDirect}},
		{Verb: "put", Slots: []SlotType{SlotDirect, SlotIndirect}, Preps: []string{"in", "into", "on", "onto"}},
		{Verb: "give", Slots: []SlotType{SlotDirect, SlotIndirect}, Preps: []string{"to"}},
		{Verb: "show", Slots: []SlotType{SlotDirect, SlotIndirect}, Preps: []string{"to"}},

		// containers and doors
		{Verb: "open", Slots: []SlotType{SlotDirect}},
		{Verb: "close", Slots: []SlotType{SlotDirect}},
		{Verb: "lock", Slots: []SlotType{SlotDirect, SlotIndirect}, Preps: []string{"with"}},
		{Verb: "lock", Slots: []SlotType{SlotDirect}},
		{Verb: "unlock", Slots: []SlotType{SlotDirect, SlotIndirect}, Preps: []string{"with"}},
		{Verb: "unlock", Slots: []SlotType{SlotDirect}},

		// examination
		{Verb: "look", Slots: nil},
		{Verb: "look", As: "examine", Slots: []SlotType{SlotDirect}, LeadPreps: []string{"at"}},
		{Verb: "look", As: "search", Slots: []SlotType{SlotDirect}, LeadPreps: []string{"in", "into"}},
		{Verb: "look", As: "look-under", Slots: []SlotType{SlotDirect}, LeadPreps: []string{"under"}},
		{Verb: "look", As: "look-behind", Slots: []SlotType{SlotDirect}, LeadPreps: []string{"behind"}},
		{Verb: "examine", Slots: []SlotType{SlotDirect}},
		{Verb: "search", Slots: []SlotType{SlotDirect}},
		{Verb: "search", As: "look-under", Slots: []SlotType{SlotDirect}, LeadPreps: []string{"under"}},
		{Verb: "search", As: "look-behind", Slots: []SlotType{SlotDirect}, LeadPreps: []string{"behind"}},
		{Verb: "read", Slots: []SlotType{SlotDirect}},

		// communication
		{Verb: "talk", Slots: []SlotType{SlotDirect}, LeadPreps: []string{"to", "with"}},
		{Verb: "ask", Slots: []SlotType{SlotDirect, SlotTopic}, Preps: []string{"about"}},
		{Verb: "tell", Slots: []SlotType{SlotDirect, SlotTopic}, Preps: []string{"about"}},
		{Verb: "accuse", Slots: []SlotType{SlotDirect, SlotTopic}, Preps: []string{"of"}},
		{Verb: "accuse", Slots: []SlotType{SlotDirect}},

		// meta
		{Verb: "save", Slots: nil},
		{Verb: "save", Slots: []SlotType{SlotTopic}},
		{Verb: "load", Slots: nil},
		{Verb: "load", Slots: []SlotType{SlotTopic}},
		{Verb: "quit", Slots: nil},
		{Verb: "inventory", Slots: nil},
		{Verb: "score", Slots: nil},
		{Verb: "wait", Slots: nil},
		{Verb: "help", Slots: nil},
		{Verb: "help", Slots: []SlotType{SlotTopic}},

		// permissive catch-alls; these must stay last so every specific
		// pattern gets first crack
		{Verb: "", Slots: nil},
		{Verb: "", Slots: []SlotType{SlotDirect}},
		{Verb: "", Slots: []SlotType{SlotDirect, SlotIndirect}},
	}
}
