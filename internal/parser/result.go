package parser

// File result.go holds the terminal artifact of a parse.

import (
	"fmt"
)

// ParseResult is the outcome of parsing one line of player input: either a
// validated verb with resolved object references, or a typed failure.
type ParseResult struct {
	// Valid is whether the command can be handed to the dispatcher.
	Valid bool

	// Verb is the canonical verb of the matched pattern.
	Verb string

	// DirectObject is the resolved entity id of the direct object, or the
	// raw noun-phrase text when resolution was deferred (a direction word,
	// a topic, or the permissive fallback parse).
	DirectObject string

	// IndirectObject is the resolved entity id of the indirect object or
	// topic, or raw text when deferred, or empty if the pattern has no
	// second slot.
	IndirectObject string

	// Preposition is the preposition that separated the slots, if any.
	Preposition string

	// Err classifies a failed parse. It wraps one of the gserr sentinels:
	// ErrEmptyInput, ErrAmbiguous, or ErrNotFound. It is nil when Valid;
	// input matching no pattern still parses via the permissive fallback,
	// so gserr.ErrNoPatternMatch surfaces from the dispatcher instead.
	Err error

	// Ambiguous lists the candidate entity ids when Err wraps
	// gserr.ErrAmbiguous, so a follow-up turn can ask which one was meant.
	Ambiguous []string

	// Tokens is the classified token sequence the result was produced
	// from.
	Tokens []Token

	// RawInput echoes the original input for history and AGAIN replay.
	RawInput string
}

func (r ParseResult) String() string {
	if r.Valid {
		return fmt.Sprintf("ParseResult(verb=%q, dobj=%q, iobj=%q)", r.Verb, r.DirectObject, r.IndirectObject)
	}
	return fmt.Sprintf("ParseResult(invalid: %v)", r.Err)
}
