package game

// File clock.go advances the case clock: character schedules and light
// sources burn down as turns pass.

import (
	"fmt"

	"github.com/gumshoeworks/gumshoe/internal/world"
)

// passTime advances the clock by one minute and applies everything that
// happens on its own as time goes by. The returned string holds any notices
// the player should see, or is empty.
func (gs *State) passTime() string {
	gs.turns++
	gs.clock++

	notes := gs.stepCharacters()
	if lightNotes := gs.burnLights(); lightNotes != "" {
		if notes != "" {
			notes += "\n"
		}
		notes += lightNotes
	}
	return notes
}

// stepCharacters moves every scheduled character to wherever their schedule
// says they should be at the current clock. Arrivals and departures in the
// player's room are reported.
func (gs *State) stepCharacters() string {
	playerRoom := gs.World.RoomOf(world.PlayerID)

	var notes string
	for _, e := range gs.World.All() {
		if e.Character == nil || len(e.Character.Schedule) == 0 {
			continue
		}

		dest := scheduledRoom(e.Character.Schedule, gs.clock)
		if dest == "" || dest == e.Location() {
			continue
		}

		from := gs.World.Get(e.Location())
		if err := gs.World.MoveTo(e.ID, dest); err != nil {
			continue
		}

		if playerRoom == nil {
			continue
		}
		if from != nil && from.ID == playerRoom.ID {
			if notes != "" {
				notes += "\n"
			}
			notes += fmt.Sprintf("%s leaves the room.", e.Name)
		} else if dest == playerRoom.ID {
			if notes != "" {
				notes += "\n"
			}
			notes += fmt.Sprintf("%s walks in.", e.Name)
		}
	}
	return notes
}

// scheduledRoom returns where a schedule puts a character at the given
// minute: the latest stop whose minute has passed. Before the first stop the
// character stays put, so empty is returned.
func scheduledRoom(schedule []world.ScheduleStop, minute int) string {
	dest := ""
	for _, stop := range schedule {
		if stop.Minute > minute {
			break
		}
		dest = stop.RoomID
	}
	return dest
}

// burnLights spends one minute of fuel on every lit, finite light source.
// Lights the player can see dying are reported.
func (gs *State) burnLights() string {
	var notes string
	for _, e := range gs.World.All() {
		if e.Light == nil || e.Light.Infinite {
			continue
		}
		if !e.HasFlag(world.FlagLit) {
			continue
		}

		e.Light.Fuel--
		if e.Light.Fuel > 0 {
			if e.Light.Fuel == 5 && e.Location() == world.PlayerID {
				if notes != "" {
					notes += "\n"
				}
				notes += fmt.Sprintf("%s is getting noticeably dimmer.", capitalizeThe(e))
			}
			continue
		}

		e.ClearFlag(world.FlagLit)
		if gs.World.Visible(e.ID) || e.Location() == world.PlayerID {
			if notes != "" {
				notes += "\n"
			}
			notes += fmt.Sprintf("%s flickers and goes out.", capitalizeThe(e))
		}
	}
	return notes
}
