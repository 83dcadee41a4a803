package parser

// File disambiguate.go narrows a noun phrase down to a single entity id.
// The narrowing runs a fixed filter chain; the chain order is part of the
// engine's observable behavior and must not be reordered.

import (
	"strings"

	"github.com/gumshoeworks/gumshoe/internal/gserr"
	"github.com/gumshoeworks/gumshoe/internal/world"
)

// Disambiguator resolves noun phrases against a World. It remembers the
// candidate set of the most recent ambiguous resolution so a follow-up turn
// can offer the player a choice.
type Disambiguator struct {
	w *world.World

	lastAmbiguous []string
}

// NewDisambiguator creates a Disambiguator over the given world.
func NewDisambiguator(w *world.World) *Disambiguator {
	return &Disambiguator{w: w}
}

// LastAmbiguous returns the candidate ids stored by the most recent
// resolution that ended ambiguous, or nil.
func (d *Disambiguator) LastAmbiguous() []string {
	if d.lastAmbiguous == nil {
		return nil
	}
	out := make([]string, len(d.lastAmbiguous))
	copy(out, d.lastAmbiguous)
	return out
}

// ClearAmbiguous forgets any stored ambiguous candidate set.
func (d *Disambiguator) ClearAmbiguous() {
	d.lastAmbiguous = nil
}

// Resolve narrows the noun-phrase tokens to exactly one entity id, viewed
// from the entity with viewpointID and in the context of the given canonical
// verb. The last token is treated as the head noun and every earlier token
// as a modifier.
//
// Narrowing stops the moment exactly one candidate remains. Over larger
// sets the chain prefers, in order: visible entities, accessible entities,
// entities fitting the verb, and entities placed directly in the room over
// carried or nested ones. Every preference is soft and is skipped when it
// would empty the set, so a sole match locked behind glass still resolves
// and the handler gets to report what is actually wrong. If more than one
// candidate survives the whole chain, the error wraps gserr.ErrAmbiguous
// and the candidates are retained for LastAmbiguous; an empty gather wraps
// gserr.ErrNotFound.
func (d *Disambiguator) Resolve(tokens []Token, verb, viewpointID string) (string, []string, error) {
	if len(tokens) == 0 {
		return "", nil, gserr.WrapInterpreter(gserr.ErrNotFound, "You need to name something.", "empty noun phrase")
	}

	noun := tokens[len(tokens)-1].Text
	var mods []string
	for _, tok := range tokens[:len(tokens)-1] {
		mods = append(mods, tok.Text)
	}
	phrase := strings.Join(append(append([]string(nil), mods...), noun), " ")

	// gather: everything in scope whose noun and modifiers match
	var cands []string
	for _, id := range d.w.Scope(viewpointID) {
		e := d.w.Get(id)
		if e == nil {
			continue
		}
		if e.MatchesNoun(noun) && e.MatchesAdjectives(mods) {
			cands = append(cands, id)
		}
	}

	if len(cands) == 0 {
		return "", nil, gserr.WrapInterpreterf(gserr.ErrNotFound,
			"You don't see any %s here.", phrase)
	}

	// each preference narrows but never eliminates; one that would empty
	// the set is skipped so the handler can report the real problem
	prefs := []func(string) bool{d.w.Visible, d.w.Accessible, verbContext(d.w, verb)}
	for _, pref := range prefs {
		if len(cands) == 1 {
			break
		}
		if pref == nil {
			continue
		}
		if narrowed := filterIDs(cands, pref); len(narrowed) > 0 {
			cands = narrowed
		}
	}

	if len(cands) > 1 {
		inRoom := d.filterInRoom(cands, viewpointID)
		if len(inRoom) > 0 {
			cands = inRoom
		}
	}

	if len(cands) > 1 {
		d.lastAmbiguous = append([]string(nil), cands...)
		return "", d.LastAmbiguous(), gserr.WrapInterpreterf(gserr.ErrAmbiguous,
			"Which %s do you mean?", phrase)
	}

	d.lastAmbiguous = nil
	return cands[0], nil, nil
}

// verbContext returns the predicate a candidate should satisfy to fit the
// verb, or nil when the verb imposes no preference.
func verbContext(w *world.World, verb string) func(string) bool {
	var flagPred func(e *world.Entity) bool

	switch verb {
	case "take", "drop":
		flagPred = func(e *world.Entity) bool { return e.CanTake() }
	case "open", "close", "lock", "unlock":
		flagPred = func(e *world.Entity) bool {
			return e.HasFlag(world.FlagContainer) || e.Kind == world.KindDoor
		}
	case "read":
		flagPred = func(e *world.Entity) bool {
			return e.HasFlag(world.FlagReadable) || e.Kind == world.KindDocument
		}
	case "talk", "ask", "tell", "show", "accuse", "give":
		flagPred = func(e *world.Entity) bool {
			return e.HasFlag(world.FlagPerson) || e.Kind == world.KindCharacter
		}
	default:
		return nil
	}

	return func(id string) bool {
		e := w.Get(id)
		return e != nil && flagPred(e)
	}
}

// filterInRoom keeps candidates whose immediate owner is the viewpoint's
// current room. Direct room placement is the likelier referent when the
// player does not say otherwise; carried and nested things need naming.
func (d *Disambiguator) filterInRoom(cands []string, viewpointID string) []string {
	room := d.w.RoomOf(viewpointID)
	if room == nil {
		return nil
	}
	var out []string
	for _, id := range cands {
		if e := d.w.Get(id); e != nil && e.Location() == room.ID {
			out = append(out, id)
		}
	}
	return out
}

func filterIDs(ids []string, keep func(string) bool) []string {
	var out []string
	for _, id := range ids {
		if keep(id) {
			out = append(out, id)
		}
	}
	return out
}
