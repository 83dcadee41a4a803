package game

// File objects.go holds the handlers that move objects around and work
// containers, doors, and locks.

import (
	"fmt"

	"github.com/gumshoeworks/gumshoe/internal/gserr"
	"github.com/gumshoeworks/gumshoe/internal/parser"
	"github.com/gumshoeworks/gumshoe/internal/world"
)

// ExecuteCommandTake executes the TAKE command with the arguments in the
// provided result and returns the output.
func (gs *State) ExecuteCommandTake(res parser.ParseResult) (string, error) {
	target, err := gs.resolveRef(res.DirectObject, "take")
	if err != nil {
		return "", err
	}

	if res.IndirectObject != "" {
		source, err := gs.resolveRef(res.IndirectObject, "search")
		if err != nil {
			return "", err
		}
		if !gs.World.IsIn(target.ID, source.ID) {
			return "", gserr.Interpreterf("%s isn't in %s.", capitalizeThe(target), the(source))
		}
	}

	if target.Location() == world.PlayerID {
		return "", gserr.Interpreterf("You already have %s.", the(target))
	}
	if target.HasFlag(world.FlagPerson) {
		return "", gserr.Interpreterf("%s would object to that.", capitalizeThe(target))
	}
	if !gs.World.Accessible(target.ID) {
		return "", gserr.Interpreterf("You can't reach %s.", the(target))
	}
	if !target.CanTake() {
		return "", gserr.Interpreterf("You can't take %s.", the(target))
	}

	player := gs.World.Player()
	if len(player.Contents()) >= player.IntProperty("capacity", 10) {
		return "", gserr.Interpreter("Your hands are full.", "player at carry capacity")
	}

	if err := gs.World.MoveTo(target.ID, player.ID); err != nil {
		return "", err
	}

	output := fmt.Sprintf("You pick up %s.", the(target))
	if extra := gs.registerEvidence(target); extra != "" {
		output += "\n\n" + extra
	}
	return output, nil
}

// ExecuteCommandDrop executes the DROP command with the arguments in the
// provided result and returns the output.
func (gs *State) ExecuteCommandDrop(res parser.ParseResult) (string, error) {
	target, err := gs.resolveRef(res.DirectObject, "drop")
	if err != nil {
		return "", err
	}

	if target.Location() != world.PlayerID {
		return "", gserr.Interpreterf("You don't have %s.", the(target))
	}
	if target.HasFlag(world.FlagSacred) {
		return "", gserr.Interpreterf("You'd best hold on to %s.", the(target))
	}

	room := gs.World.RoomOf(world.PlayerID)
	if room == nil {
		return "", gserr.Interpreter("There is nowhere to drop it.", "player has no room")
	}

	if err := gs.World.MoveTo(target.ID, room.ID); err != nil {
		return "", err
	}

	return fmt.Sprintf("You put down %s.", the(target)), nil
}

// ExecuteCommandPut executes the PUT command with the arguments in the
// provided result and returns the output.
func (gs *State) ExecuteCommandPut(res parser.ParseResult) (string, error) {
	target, err := gs.resolveRef(res.DirectObject, "drop")
	if err != nil {
		return "", err
	}
	dest, err := gs.resolveRef(res.IndirectObject, "put")
	if err != nil {
		return "", err
	}

	if target.Location() != world.PlayerID {
		return "", gserr.Interpreterf("You aren't holding %s.", the(target))
	}
	if target.HasFlag(world.FlagSacred) {
		return "", gserr.Interpreterf("You'd best hold on to %s.", the(target))
	}

	onto := res.Preposition == "on" || res.Preposition == "onto"
	if onto && !dest.HasFlag(world.FlagSurface) {
		return "", gserr.Interpreterf("You can't put things on %s.", the(dest))
	}
	if !onto && !dest.HasFlag(world.FlagContainer) {
		return "", gserr.Interpreterf("%s can't hold things.", capitalizeThe(dest))
	}

	if dest.HasFlag(world.FlagContainer) && !dest.HasFlag(world.FlagOpen) {
		return "", gserr.Interpreterf("%s is closed.", capitalizeThe(dest))
	}

	if !gs.World.CanContain(dest.ID, target.ID) {
		return "", gserr.Interpreterf("%s won't fit.", capitalizeThe(target))
	}

	if err := gs.World.MoveTo(target.ID, dest.ID); err != nil {
		return "", err
	}

	prep := "in"
	if onto {
		prep = "on"
	}
	return fmt.Sprintf("You put %s %s %s.", the(target), prep, the(dest)), nil
}

// ExecuteCommandOpen executes the OPEN command with the arguments in the
// provided result and returns the output.
func (gs *State) ExecuteCommandOpen(res parser.ParseResult) (string, error) {
	target, err := gs.resolveRef(res.DirectObject, "open")
	if err != nil {
		return "", err
	}

	if !target.HasFlag(world.FlagContainer) && target.Kind != world.KindDoor {
		return "", gserr.Interpreterf("%s isn't something you can open.", capitalizeThe(target))
	}
	if target.HasFlag(world.FlagOpen) {
		return "", gserr.Interpreterf("%s is already open.", capitalizeThe(target))
	}
	if target.HasFlag(world.FlagLocked) {
		return "", gserr.Interpreterf("%s is locked.", capitalizeThe(target))
	}

	target.SetFlag(world.FlagOpen)

	output := fmt.Sprintf("You open %s.", the(target))
	if target.HasFlag(world.FlagContainer) && len(target.Contents()) > 0 {
		output += " " + gs.contentsSentence(target, "In")
	}
	return output, nil
}

// ExecuteCommandClose executes the CLOSE command with the arguments in the
// provided result and returns the output.
func (gs *State) ExecuteCommandClose(res parser.ParseResult) (string, error) {
	target, err := gs.resolveRef(res.DirectObject, "close")
	if err != nil {
		return "", err
	}

	if !target.HasFlag(world.FlagContainer) && target.Kind != world.KindDoor {
		return "", gserr.Interpreterf("%s isn't something you can close.", capitalizeThe(target))
	}
	if !target.HasFlag(world.FlagOpen) {
		return "", gserr.Interpreterf("%s is already closed.", capitalizeThe(target))
	}

	target.ClearFlag(world.FlagOpen)
	return fmt.Sprintf("You close %s.", the(target)), nil
}

// ExecuteCommandLock executes the LOCK command with the arguments in the
// provided result and returns the output.
func (gs *State) ExecuteCommandLock(res parser.ParseResult) (string, error) {
	return gs.workLock(res, true)
}

// ExecuteCommandUnlock executes the UNLOCK command with the arguments in the
// provided result and returns the output.
func (gs *State) ExecuteCommandUnlock(res parser.ParseResult) (string, error) {
	return gs.workLock(res, false)
}

func (gs *State) workLock(res parser.ParseResult, locking bool) (string, error) {
	verb := "unlock"
	if locking {
		verb = "lock"
	}

	target, err := gs.resolveRef(res.DirectObject, verb)
	if err != nil {
		return "", err
	}

	keyID := lockKeyID(target)
	if keyID == "" {
		return "", gserr.Interpreterf("%s has no lock.", capitalizeThe(target))
	}

	if target.HasFlag(world.FlagLocked) == locking {
		return "", gserr.Interpreterf("%s is already %sed.", capitalizeThe(target), verb)
	}
	if locking && target.HasFlag(world.FlagOpen) {
		return "", gserr.Interpreterf("You'll have to close %s first.", the(target))
	}

	var key *world.Entity
	if res.IndirectObject != "" {
		key, err = gs.resolveRef(res.IndirectObject, "take")
		if err != nil {
			return "", err
		}
	} else {
		// no instrument named; use the right key if it is in hand
		if k := gs.World.Get(keyID); k != nil && k.Location() == world.PlayerID {
			key = k
		} else {
			return "", gserr.Interpreterf("What do you want to %s %s with?", verb, the(target))
		}
	}

	if key.Location() != world.PlayerID {
		return "", gserr.Interpreterf("You aren't holding %s.", the(key))
	}
	if key.ID != keyID {
		return "", gserr.Interpreterf("%s doesn't fit the lock.", capitalizeThe(key))
	}

	if locking {
		target.SetFlag(world.FlagLocked)
	} else {
		target.ClearFlag(world.FlagLocked)
	}

	return fmt.Sprintf("You %s %s with %s.", verb, the(target), the(key)), nil
}

// lockKeyID returns the id of the key that works the entity's lock, or
// empty if the entity has no lock at all.
func lockKeyID(e *world.Entity) string {
	switch {
	case e.Container != nil:
		return e.Container.KeyID
	case e.Door != nil:
		return e.Door.KeyID
	}
	return ""
}
