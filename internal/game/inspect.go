package game

// File inspect.go holds the handlers that describe things without changing
// where anything is.

import (
	"fmt"
	"strings"

	"github.com/gumshoeworks/gumshoe/internal/gserr"
	"github.com/gumshoeworks/gumshoe/internal/parser"
	"github.com/gumshoeworks/gumshoe/internal/util"
	"github.com/gumshoeworks/gumshoe/internal/world"
)

// ExecuteCommandLook executes the LOOK command with the arguments in the
// provided result and returns the output. Bare LOOK describes the room; with
// an object it behaves as EXAMINE.
func (gs *State) ExecuteCommandLook(res parser.ParseResult) (string, error) {
	if res.DirectObject != "" {
		return gs.ExecuteCommandExamine(res)
	}
	return gs.lookRoom(), nil
}

// lookRoom produces the full description of the player's current room: the
// name, the appropriate long description, and what is visibly here.
func (gs *State) lookRoom() string {
	room := gs.World.RoomOf(world.PlayerID)
	if room == nil {
		return "You are nowhere at all."
	}

	if gs.World.IsDark(room.ID) {
		return "It is pitch black. You can't see a thing."
	}

	desc := room.Description
	if room.HasFlag(world.FlagVisited) && room.Room != nil && room.Room.VisitedDescription != "" {
		desc = room.Room.VisitedDescription
	}
	room.SetFlag(world.FlagVisited)

	output := room.Name + "\n\n" + desc

	var itemNames []string
	var peopleNames []string
	var firstSights []string

	for _, cid := range room.Contents() {
		e := gs.World.Get(cid)
		if e == nil || e.ID == world.PlayerID || !gs.World.Visible(cid) {
			continue
		}

		if e.InitialDescription != "" && !e.HasFlag(world.FlagVisited) {
			firstSights = append(firstSights, e.InitialDescription)
			e.SetFlag(world.FlagVisited)
			continue
		}

		if e.HasFlag(world.FlagPerson) {
			peopleNames = append(peopleNames, e.Name)
		} else {
			itemNames = append(itemNames, e.Name)
		}
	}

	for _, sight := range firstSights {
		output += "\n\n" + sight
	}

	if len(itemNames) > 0 {
		output += "\n\nYou can see " + util.MakeTextList(itemNames, true) + " here."
	}

	if len(peopleNames) > 0 {
		verb := " is "
		if len(peopleNames) > 1 {
			verb = " are "
		}
		output += "\n\n" + util.MakeTextList(peopleNames, false) + verb + "here."
	}

	return output
}

// ExecuteCommandExamine executes the EXAMINE command with the arguments in
// the provided result and returns the output.
func (gs *State) ExecuteCommandExamine(res parser.ParseResult) (string, error) {
	target, err := gs.resolveRef(res.DirectObject, "examine")
	if err != nil {
		return "", err
	}

	desc := target.Description
	if desc == "" {
		desc = fmt.Sprintf("You see nothing special about %s.", the(target))
	}
	target.SetFlag(world.FlagVisited)

	output := desc

	// open or see-through holders show what is in them
	if target.HasFlag(world.FlagContainer) {
		if target.HasFlag(world.FlagOpen) || target.HasFlag(world.FlagTransparent) {
			output += "\n\n" + gs.contentsSentence(target, "In")
		} else {
			output += fmt.Sprintf("\n\n%s is closed.", capitalizeThe(target))
		}
	} else if target.HasFlag(world.FlagSurface) {
		output += "\n\n" + gs.contentsSentence(target, "On")
	}

	if extra := gs.registerEvidence(target); extra != "" {
		output += "\n\n" + extra
	}

	return output, nil
}

// contentsSentence lists the visible contents of a holder, or says it holds
// nothing. prep is "In" or "On".
func (gs *State) contentsSentence(holder *world.Entity, prep string) string {
	var names []string
	for _, cid := range holder.Contents() {
		if e := gs.World.Get(cid); e != nil && gs.World.Visible(cid) {
			names = append(names, e.Name)
		}
	}

	if len(names) == 0 {
		return fmt.Sprintf("%s %s is nothing at all.", prep, the(holder))
	}
	return fmt.Sprintf("%s %s you can see %s.", prep, the(holder), util.MakeTextList(names, true))
}

// ExecuteCommandSearch executes the SEARCH command with the arguments in the
// provided result and returns the output. Searching reveals hidden contents.
func (gs *State) ExecuteCommandSearch(res parser.ParseResult) (string, error) {
	target, err := gs.resolveRef(res.DirectObject, "search")
	if err != nil {
		return "", err
	}

	if target.HasFlag(world.FlagContainer) && !target.HasFlag(world.FlagOpen) {
		return "", gserr.Interpreterf("%s is closed.", capitalizeThe(target))
	}

	var found []string
	for _, cid := range target.Contents() {
		e := gs.World.Get(cid)
		if e != nil && e.HasFlag(world.FlagHidden) {
			e.ClearFlag(world.FlagHidden)
			found = append(found, e.Name)
		}
	}

	alreadySearched := target.HasFlag(world.FlagSearched)
	target.SetFlag(world.FlagSearched)

	if len(found) > 0 {
		return fmt.Sprintf("Searching %s turns up %s!", the(target), util.MakeTextList(found, true)), nil
	}
	if alreadySearched {
		return fmt.Sprintf("You find nothing new in %s.", the(target)), nil
	}
	return fmt.Sprintf("You search %s thoroughly but find nothing of interest.", the(target)), nil
}

// ExecuteCommandLookUnder executes the LOOK UNDER command with the arguments
// in the provided result and returns the output.
func (gs *State) ExecuteCommandLookUnder(res parser.ParseResult) (string, error) {
	return gs.lookConcealed(res, "under")
}

// ExecuteCommandLookBehind executes the LOOK BEHIND command with the
// arguments in the provided result and returns the output.
func (gs *State) ExecuteCommandLookBehind(res parser.ParseResult) (string, error) {
	return gs.lookConcealed(res, "behind")
}

// lookConcealed reveals whatever an entity conceals in the given position.
// World data declares concealment with a 'conceals_under' or
// 'conceals_behind' property naming the hidden entity.
func (gs *State) lookConcealed(res parser.ParseResult, position string) (string, error) {
	target, err := gs.resolveRef(res.DirectObject, "look-"+position)
	if err != nil {
		return "", err
	}

	prop, _ := target.Property("conceals_" + position).(string)
	if prop != "" {
		hidden := gs.World.Get(strings.ToUpper(prop))
		if hidden != nil && hidden.HasFlag(world.FlagHidden) {
			hidden.ClearFlag(world.FlagHidden)

			// bring the find into the open where the player is
			room := gs.World.RoomOf(world.PlayerID)
			if room != nil {
				if err := gs.World.MoveTo(hidden.ID, room.ID); err != nil {
					return "", err
				}
			}

			return fmt.Sprintf("%s %s you find %s!", util.TitleCase(position), the(target),
				util.ArticleFor(hidden.Name, false)+" "+hidden.Name), nil
		}
	}

	return fmt.Sprintf("There is nothing %s %s.", position, the(target)), nil
}

// ExecuteCommandRead executes the READ command with the arguments in the
// provided result and returns the output.
func (gs *State) ExecuteCommandRead(res parser.ParseResult) (string, error) {
	target, err := gs.resolveRef(res.DirectObject, "read")
	if err != nil {
		return "", err
	}

	if target.Document != nil {
		output := target.Document.Text
		if target.Document.Signature != "" {
			output += "\n\nIt is signed: " + target.Document.Signature
		}
		if target.Document.Date != "" {
			output += "\nIt is dated " + target.Document.Date + "."
		}
		if extra := gs.registerEvidence(target); extra != "" {
			output += "\n\n" + extra
		}
		return output, nil
	}

	if target.HasFlag(world.FlagReadable) {
		if text, ok := target.Property("text").(string); ok && text != "" {
			return text, nil
		}
	}

	return "", gserr.Interpreterf("There is nothing written on %s.", the(target))
}
