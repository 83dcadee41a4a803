package game

// File movement.go holds the handlers that relocate the player.

import (
	"fmt"

	"github.com/gumshoeworks/gumshoe/internal/gserr"
	"github.com/gumshoeworks/gumshoe/internal/parser"
	"github.com/gumshoeworks/gumshoe/internal/world"
)

// ExecuteCommandGo executes the GO command with the arguments in the
// provided result and returns the output.
func (gs *State) ExecuteCommandGo(res parser.ParseResult) (string, error) {
	dir := res.DirectObject
	if dir == "" {
		return "", gserr.Interpreter("Which way do you want to go?", "GO with no direction")
	}

	room := gs.World.RoomOf(world.PlayerID)
	if room == nil {
		return "", gserr.Interpreter("You don't seem to be anywhere.", "player has no room")
	}

	dest, preamble, err := gs.exitDestination(room, dir)
	if err != nil {
		return "", err
	}

	if err := gs.World.MoveTo(world.PlayerID, dest.ID); err != nil {
		return "", err
	}

	look := gs.lookRoom()
	if preamble != "" {
		return preamble + "\n\n" + look, nil
	}
	return look, nil
}

// ExecuteCommandEnter executes the ENTER command with the arguments in the
// provided result and returns the output.
func (gs *State) ExecuteCommandEnter(res parser.ParseResult) (string, error) {
	if res.DirectObject == "" {
		// bare ENTER behaves as the direction
		return gs.ExecuteCommandGo(parser.ParseResult{Valid: true, Verb: "go", DirectObject: "enter"})
	}

	target, err := gs.resolveRef(res.DirectObject, "enter")
	if err != nil {
		return "", err
	}

	if !target.HasFlag(world.FlagVehicle) {
		return "", gserr.Interpreterf("You can't get inside %s.", the(target))
	}

	if err := gs.World.MoveTo(world.PlayerID, target.ID); err != nil {
		return "", err
	}

	return fmt.Sprintf("You climb into %s.", the(target)), nil
}

// ExecuteCommandExit executes the EXIT command with the arguments in the
// provided result and returns the output.
func (gs *State) ExecuteCommandExit(res parser.ParseResult) (string, error) {
	player := gs.World.Player()
	owner := gs.World.Get(player.Location())

	if owner != nil && owner.Kind != world.KindRoom {
		// inside something; climb out of it
		room := gs.World.RoomOf(player.ID)
		if room == nil {
			return "", gserr.Interpreter("There is nowhere to get out to.", "player container has no room")
		}
		if err := gs.World.MoveTo(player.ID, room.ID); err != nil {
			return "", err
		}
		return fmt.Sprintf("You climb out of %s.", the(owner)), nil
	}

	return gs.ExecuteCommandGo(parser.ParseResult{Valid: true, Verb: "go", DirectObject: "out"})
}

// exitDestination resolves a direction word from the given room to the room
// it leads to, passing through any door in the way. A closed, unlocked door
// is opened implicitly; a locked one blocks travel. The preamble describes
// any implicit opening.
func (gs *State) exitDestination(room *world.Entity, dir string) (dest *world.Entity, preamble string, err error) {
	if room.Room == nil {
		return nil, "", gserr.Interpreter("You can't go that way.", "room entity missing room data")
	}

	destID, ok := room.Room.Exits[dir]
	if !ok {
		return nil, "", gserr.Interpreterf("You can't go %s from here.", dir)
	}

	next := gs.World.Get(destID)
	if next == nil {
		return nil, "", gserr.Interpreterf("You can't go %s from here.", dir)
	}

	if next.Kind == world.KindDoor {
		door := next
		if !door.HasFlag(world.FlagOpen) {
			if door.HasFlag(world.FlagLocked) {
				return nil, "", gserr.Interpreterf("%s is locked.", capitalizeThe(door))
			}
			door.SetFlag(world.FlagOpen)
			preamble = fmt.Sprintf("(first opening %s)", the(door))
		}

		otherSide := door.Door.Connects[0]
		if otherSide == room.ID {
			otherSide = door.Door.Connects[1]
		}
		next = gs.World.Get(otherSide)
		if next == nil || next.Kind != world.KindRoom {
			return nil, "", gserr.Interpreterf("You can't go %s from here.", dir)
		}
	}

	if next.Kind != world.KindRoom {
		return nil, "", gserr.Interpreterf("You can't go %s from here.", dir)
	}

	return next, preamble, nil
}

func capitalizeThe(e *world.Entity) string {
	if e.HasFlag(world.FlagProper) {
		return e.Name
	}
	return "The " + e.Name
}
