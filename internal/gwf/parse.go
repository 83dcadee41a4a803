package gwf

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gumshoeworks/gumshoe/internal/parser"
	"github.com/gumshoeworks/gumshoe/internal/world"
)

const idChars = `A-Z0-9_-`

var (
	idRegexp        = regexp.MustCompile(fmt.Sprintf(`^[%s]+$`, idChars))
	idBadCharRegexp = regexp.MustCompile(fmt.Sprintf(`[^%s]`, idChars))
)

func parseManifest(gwf topLevelManifest) (Manifest, error) {
	manif := Manifest{
		Files: gwf.Files,
	}

	return manif, nil
}

type stringSet map[string]bool

// worldSymbols is the pre-list of 'seen' ids built before any reference
// checking, so every pointer field can be validated immediately as the data
// is walked, regardless of definition order across files.
type worldSymbols struct {
	entityIDs stringSet
	kinds     map[string]world.Kind
}

func (ws worldSymbols) isKind(id string, k world.Kind) bool {
	return ws.kinds[strings.ToUpper(id)] == k
}

func parseWorldData(gwf topLevelWorldData) (WorldData, error) {
	data := WorldData{
		World: world.New(),
	}

	// first, get all of our symbols so we can immediately check validity of
	// every reference as we go through it.
	symbols, err := scanSymbols(gwf)
	if err != nil {
		return data, err
	}

	// validate start
	startUpper := strings.ToUpper(gwf.World.Start)
	if !symbols.entityIDs[startUpper] {
		return data, fmt.Errorf("world: start: no entity with id %q exists", gwf.World.Start)
	}
	if !symbols.isKind(startUpper, world.KindRoom) {
		return data, fmt.Errorf("world: start: entity %q is not a room", gwf.World.Start)
	}
	data.Start = startUpper

	// validate and register every entity; placement is deferred until all
	// entities exist so forward references work
	type placement struct {
		id  string
		loc string
	}
	var placements []placement

	for _, te := range gwf.Entities {
		kind := symbols.kinds[strings.ToUpper(te.ID)]

		if err := validateEntityDef(te, kind, symbols); err != nil {
			return data, fmt.Errorf("entity[%q]: %w", te.ID, err)
		}

		e := te.toWorldEntity(kind)
		if err := data.World.Add(e); err != nil {
			return data, fmt.Errorf("entity[%q]: %w", te.ID, err)
		}

		if te.Location != "" {
			placements = append(placements, placement{id: e.ID, loc: strings.ToUpper(te.Location)})
		}
	}

	// synthesize the player if the data did not define one
	if data.World.Player() == nil {
		player := &world.Entity{
			ID:   world.PlayerID,
			Name: "you",
			Kind: world.KindPlayer,
		}
		if err := data.World.Add(player); err != nil {
			return data, fmt.Errorf("synthesizing player: %w", err)
		}
		placements = append(placements, placement{id: world.PlayerID, loc: data.Start})
	}

	for _, pl := range placements {
		if err := data.World.PlaceInitial(pl.id, pl.loc); err != nil {
			return data, fmt.Errorf("entity[%q]: location: %w", pl.id, err)
		}
	}

	// validate solution
	if gwf.Solution.Culprit != "" {
		culpritUpper := strings.ToUpper(gwf.Solution.Culprit)
		if !symbols.entityIDs[culpritUpper] {
			return data, fmt.Errorf("solution: culprit: no entity with id %q exists", gwf.Solution.Culprit)
		}
		if !symbols.isKind(culpritUpper, world.KindCharacter) {
			return data, fmt.Errorf("solution: culprit: entity %q is not a character", gwf.Solution.Culprit)
		}
		for idx, ev := range gwf.Solution.Evidence {
			if !symbols.entityIDs[strings.ToUpper(ev)] {
				return data, fmt.Errorf("solution: evidence[%d]: no entity with id %q exists", idx, ev)
			}
		}
		data.Solution = gwf.Solution.toWorldSolution()
	}

	// validate content vocabulary
	for _, wd := range gwf.Words {
		word, err := parseWordDef(wd, symbols)
		if err != nil {
			return data, fmt.Errorf("word[%q]: %w", wd.Word, err)
		}
		data.Words = append(data.Words, word)
	}

	// validate content syntax
	for idx, pd := range gwf.Patterns {
		pat, err := parsePatternDef(pd)
		if err != nil {
			return data, fmt.Errorf("pattern[%d]: %w", idx, err)
		}
		data.Patterns = append(data.Patterns, pat)
	}

	return data, nil
}

// scanSymbols builds the pre-list of entity ids and their resolved kinds.
// Ids are checked for naming rules and uniqueness here; kind resolution
// happens here too so later reference checks can assert on kinds.
func scanSymbols(top topLevelWorldData) (worldSymbols, error) {
	syms := worldSymbols{
		entityIDs: make(stringSet),
		kinds:     make(map[string]world.Kind),
	}

	playerCount := 0
	for _, te := range top.Entities {
		idUpper := strings.ToUpper(te.ID)
		if err := checkID(idUpper, syms.entityIDs); err != nil {
			return syms, fmt.Errorf("entity %q: %w", te.ID, err)
		}

		kind, err := te.resolveKind()
		if err != nil {
			return syms, fmt.Errorf("entity %q: %w", te.ID, err)
		}

		if kind == world.KindPlayer {
			playerCount++
			if playerCount > 1 {
				return syms, fmt.Errorf("entity %q: a player entity is already defined", te.ID)
			}
			if idUpper != world.PlayerID {
				return syms, fmt.Errorf("entity %q: the player entity must have id %q", te.ID, world.PlayerID)
			}
		}

		syms.entityIDs[idUpper] = true
		syms.kinds[idUpper] = kind
	}

	return syms, nil
}

func validateEntityDef(te entity, kind world.Kind, syms worldSymbols) error {
	if te.Name == "" && kind != world.KindPlayer {
		return fmt.Errorf("must have non-blank 'name' field")
	}

	if te.Location != "" {
		if !syms.entityIDs[strings.ToUpper(te.Location)] {
			return fmt.Errorf("location: no entity with id %q exists", te.Location)
		}
	}

	for _, name := range te.Flags {
		if _, ok := world.FlagByName(name); !ok {
			return fmt.Errorf("flags: %q is not a valid flag", name)
		}
	}

	switch kind {
	case world.KindRoom:
		if te.Description == "" {
			return fmt.Errorf("rooms must have non-blank 'description' field")
		}
		for dir, dest := range te.Exits {
			destUpper := strings.ToUpper(dest)
			if !syms.entityIDs[destUpper] {
				return fmt.Errorf("exits[%q]: no entity with id %q exists", dir, dest)
			}
			if !syms.isKind(destUpper, world.KindRoom) && !syms.isKind(destUpper, world.KindDoor) {
				return fmt.Errorf("exits[%q]: entity %q is neither a room nor a door", dir, dest)
			}
		}
	case world.KindContainer:
		if te.Key != "" && !syms.entityIDs[strings.ToUpper(te.Key)] {
			return fmt.Errorf("key: no entity with id %q exists", te.Key)
		}
	case world.KindDoor:
		if len(te.Connects) != 2 {
			return fmt.Errorf("doors must have a 'connects' list of exactly 2 room ids")
		}
		for i, rid := range te.Connects {
			ridUpper := strings.ToUpper(rid)
			if !syms.entityIDs[ridUpper] {
				return fmt.Errorf("connects[%d]: no entity with id %q exists", i, rid)
			}
			if !syms.isKind(ridUpper, world.KindRoom) {
				return fmt.Errorf("connects[%d]: entity %q is not a room", i, rid)
			}
		}
		if te.Key != "" && !syms.entityIDs[strings.ToUpper(te.Key)] {
			return fmt.Errorf("key: no entity with id %q exists", te.Key)
		}
	case world.KindCharacter:
		lastMinute := -1
		for i, stop := range te.Schedule {
			if stop.Minute < 0 || stop.Minute >= 24*60 {
				return fmt.Errorf("schedule[%d]: minute must be within one day (0-1439)", i)
			}
			if stop.Minute <= lastMinute {
				return fmt.Errorf("schedule[%d]: stops must be in ascending minute order", i)
			}
			lastMinute = stop.Minute

			roomUpper := strings.ToUpper(stop.Room)
			if !syms.entityIDs[roomUpper] {
				return fmt.Errorf("schedule[%d]: no entity with id %q exists", i, stop.Room)
			}
			if !syms.isKind(roomUpper, world.KindRoom) {
				return fmt.Errorf("schedule[%d]: entity %q is not a room", i, stop.Room)
			}
		}
	}

	return nil
}

func parseWordDef(wd wordDef, syms worldSymbols) (Word, error) {
	if wd.Word == "" {
		return Word{}, fmt.Errorf("must have non-blank 'word' field")
	}

	t, ok := parser.WordTypeByName(wd.Type)
	if !ok {
		return Word{}, fmt.Errorf("type: %q is not a valid word type", wd.Type)
	}

	word := Word{
		Text:      strings.ToLower(wd.Word),
		Type:      t,
		Canonical: strings.ToLower(wd.Canonical),
		EntityIDs: make([]string, len(wd.Entities)),
	}
	for i, id := range wd.Entities {
		idUpper := strings.ToUpper(id)
		if !syms.entityIDs[idUpper] {
			return Word{}, fmt.Errorf("entities[%d]: no entity with id %q exists", i, id)
		}
		word.EntityIDs[i] = idUpper
	}

	return word, nil
}

func parsePatternDef(pd patternDef) (parser.Pattern, error) {
	pat := parser.Pattern{
		Verb:      strings.ToLower(pd.Verb),
		As:        strings.ToLower(pd.As),
		LeadPreps: lowerAll(pd.LeadPreps),
	}
	if pd.Preps != nil {
		pat.Preps = lowerAll(pd.Preps)
	}

	if len(pd.Slots) > 2 {
		return pat, fmt.Errorf("slots: at most 2 slots are supported")
	}
	for i, name := range pd.Slots {
		st, ok := parser.SlotTypeByName(name)
		if !ok {
			return pat, fmt.Errorf("slots[%d]: %q is not a valid slot type", i, name)
		}
		pat.Slots = append(pat.Slots, st)
	}

	return pat, nil
}

func lowerAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i := range in {
		out[i] = strings.ToLower(in[i])
	}
	return out
}

func checkID(id string, conflictSet stringSet) error {
	if id == "" {
		return fmt.Errorf("must have non-blank 'id' field")
	}
	if conflictSet[id] {
		return fmt.Errorf("id %q has already been used for another entity", id)
	}

	if !idRegexp.MatchString(id) {
		badChar := idBadCharRegexp.FindString(id)
		return fmt.Errorf("id has the %q character in it which is not allowed for ids", badChar)
	}

	return nil
}
