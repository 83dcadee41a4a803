package game

// File dialog.go holds the handlers for talking with characters.

import (
	"fmt"
	"strings"

	"github.com/gumshoeworks/gumshoe/internal/gserr"
	"github.com/gumshoeworks/gumshoe/internal/parser"
	"github.com/gumshoeworks/gumshoe/internal/world"
)

// ExecuteCommandTalk executes the TALK command with the arguments in the
// provided result and returns the output.
func (gs *State) ExecuteCommandTalk(res parser.ParseResult) (string, error) {
	person, err := gs.resolvePerson(res.DirectObject, "talk")
	if err != nil {
		return "", err
	}

	if greeting := topicResponse(person, "hello"); greeting != "" {
		return greeting, nil
	}

	return fmt.Sprintf("%s nods at you. Perhaps you should ASK about something specific.", person.Name), nil
}

// ExecuteCommandAsk executes the ASK and TELL commands with the arguments in
// the provided result and returns the output.
func (gs *State) ExecuteCommandAsk(res parser.ParseResult) (string, error) {
	person, err := gs.resolvePerson(res.DirectObject, "ask")
	if err != nil {
		return "", err
	}

	topic := strings.ToLower(strings.TrimSpace(res.IndirectObject))
	if topic == "" {
		return "", gserr.Interpreterf("What do you want to ask %s about?", person.Name)
	}

	if response := topicResponse(person, topic); response != "" {
		return response, nil
	}

	return fmt.Sprintf("%s has nothing to say about that.", person.Name), nil
}

// ExecuteCommandShow executes the SHOW and GIVE commands with the arguments
// in the provided result and returns the output. GIVE transfers the object;
// SHOW only presents it.
func (gs *State) ExecuteCommandShow(res parser.ParseResult) (string, error) {
	item, err := gs.resolveRef(res.DirectObject, "take")
	if err != nil {
		return "", err
	}
	person, err := gs.resolvePerson(res.IndirectObject, "show")
	if err != nil {
		return "", err
	}

	if item.Location() != world.PlayerID {
		return "", gserr.Interpreterf("You aren't holding %s.", the(item))
	}

	giving := res.Verb == "give"
	if giving {
		if item.HasFlag(world.FlagSacred) || item.Kind == world.KindEvidence {
			return "", gserr.Interpreterf("You'd best hold on to %s.", the(item))
		}
		if err := gs.World.MoveTo(item.ID, person.ID); err != nil {
			return "", err
		}
	}

	// a character may react to an object by its id or by its name
	reaction := topicResponse(person, strings.ToLower(item.ID))
	if reaction == "" {
		reaction = topicResponse(person, strings.ToLower(item.Name))
	}

	if reaction == "" {
		if giving {
			reaction = fmt.Sprintf("%s takes %s without much comment.", person.Name, the(item))
		} else {
			reaction = fmt.Sprintf("%s glances at %s without much interest.", person.Name, the(item))
		}
	}

	return reaction, nil
}

// resolvePerson resolves a reference that must end up pointing at a
// character.
func (gs *State) resolvePerson(ref, verb string) (*world.Entity, error) {
	person, err := gs.resolveRef(ref, verb)
	if err != nil {
		return nil, err
	}
	if !person.HasFlag(world.FlagPerson) && person.Kind != world.KindCharacter {
		return nil, gserr.Interpreterf("You can't hold a conversation with %s.", the(person))
	}
	return person, nil
}

// topicResponse returns the character's canned response for a topic, or
// empty if they have none.
func topicResponse(person *world.Entity, topic string) string {
	if person.Character == nil {
		return ""
	}
	return person.Character.Topics[topic]
}
