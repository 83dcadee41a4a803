package game

// File evidence.go holds evidence scoring and the ACCUSE endgame.

import (
	"fmt"
	"strings"

	"github.com/gumshoeworks/gumshoe/internal/gserr"
	"github.com/gumshoeworks/gumshoe/internal/parser"
	"github.com/gumshoeworks/gumshoe/internal/world"
)

// registerEvidence records the entity as gathered evidence the first time
// the player meaningfully interacts with it, and scores it. The returned
// string is the note to append to the command output, or empty if nothing
// new was gathered.
func (gs *State) registerEvidence(e *world.Entity) string {
	if e.Kind != world.KindEvidence && !e.HasFlag(world.FlagEvidence) {
		return ""
	}
	if gs.evidence.Has(e.ID) {
		return ""
	}

	gs.evidence.Add(e.ID)

	value := 0
	if e.Evidence != nil {
		value = e.Evidence.Value
	}
	if value == 0 {
		value = e.IntProperty("value", 0)
	}

	note := fmt.Sprintf("You make a careful note of %s.", the(e))
	if value > 0 {
		gs.score += value
		note += fmt.Sprintf("\n[Your score just went up by %d point%s.]", value, pluralS(value))
	}
	return note
}

// missingEvidence returns the ids of evidence the case requires that the
// player has not gathered yet.
func (gs *State) missingEvidence() []string {
	required := append([]string(nil), gs.Solution.Evidence...)
	for _, e := range gs.World.All() {
		if e.Evidence != nil && e.Evidence.Required {
			required = append(required, e.ID)
		}
	}

	var missing []string
	seen := make(map[string]bool)
	for _, id := range required {
		if seen[id] {
			continue
		}
		seen[id] = true
		if !gs.evidence.Has(id) {
			missing = append(missing, id)
		}
	}
	return missing
}

// ExecuteCommandAccuse executes the ACCUSE command with the arguments in the
// provided result and returns the output. A correct accusation backed by all
// required evidence solves the case; a wrong one ends it in failure.
func (gs *State) ExecuteCommandAccuse(res parser.ParseResult) (string, error) {
	accused, err := gs.resolvePerson(res.DirectObject, "accuse")
	if err != nil {
		return "", err
	}

	if gs.Solution.Culprit == "" {
		return "", gserr.Interpreter("There is no case to make here.", "accuse with no solution loaded")
	}

	charge := strings.ToLower(strings.TrimSpace(res.IndirectObject))
	if charge == "" {
		charge = "the crime"
	}

	if accused.ID != gs.Solution.Culprit {
		gs.over = true
		return fmt.Sprintf(
			"You accuse %s of %s. The accusation doesn't hold, the real culprit "+
				"walks free, and your career as an investigator comes to an "+
				"embarrassing end.\n\nFinal score: %d in %d turns.",
			accused.Name, charge, gs.score, gs.turns), nil
	}

	if missing := gs.missingEvidence(); len(missing) > 0 {
		return fmt.Sprintf(
			"You're sure %s did it, but you can't prove it yet. You need more evidence.",
			accused.Name), nil
	}

	gs.won = true
	gs.over = true
	gs.score += 50

	output := fmt.Sprintf(
		"You lay out the evidence piece by piece, and %s's composure cracks. "+
			"The case is closed.", accused.Name)
	if gs.Solution.Motive != "" {
		output += fmt.Sprintf(" The motive: %s.", gs.Solution.Motive)
	}
	if gs.Solution.Weapon != "" {
		if weapon := gs.World.Get(gs.Solution.Weapon); weapon != nil {
			output += fmt.Sprintf(" The weapon: %s.", the(weapon))
		}
	}
	output += fmt.Sprintf("\n\nFinal score: %d in %d turns.", gs.score, gs.turns)

	return output, nil
}
