package gwf

import (
	"fmt"
	"strings"

	"github.com/gumshoeworks/gumshoe/internal/world"
)

type topLevelManifest struct {
	Format string   `toml:"format"`
	Type   string   `toml:"type"`
	Files  []string `toml:"files"`
}

// topLevelWorldData is the top-level structure containing all keys in a
// complete GWF 'DATA' type file.
type topLevelWorldData struct {
	Format   string       `toml:"format"`
	Type     string       `toml:"type"`
	World    worldHeader  `toml:"world"`
	Solution solution     `toml:"solution"`
	Entities []entity     `toml:"entity"`
	Words    []wordDef    `toml:"word"`
	Patterns []patternDef `toml:"pattern"`
}

type worldHeader struct {
	Start string `toml:"start"`
}

type solution struct {
	Culprit  string   `toml:"culprit"`
	Weapon   string   `toml:"weapon"`
	Motive   string   `toml:"motive"`
	Evidence []string `toml:"evidence"`
}

func (ts solution) toWorldSolution() world.Solution {
	sol := world.Solution{
		Culprit:  strings.ToUpper(ts.Culprit),
		Weapon:   strings.ToUpper(ts.Weapon),
		Motive:   strings.ToLower(ts.Motive),
		Evidence: make([]string, len(ts.Evidence)),
	}
	for i := range ts.Evidence {
		sol.Evidence[i] = strings.ToUpper(ts.Evidence[i])
	}
	return sol
}

type scheduleStop struct {
	Minute int    `toml:"minute"`
	Room   string `toml:"room"`
}

// entity is the unmarshaled form of one [[entity]] block. Every
// kind-specific key lives flat on the block; which keys are meaningful
// depends on the kind.
type entity struct {
	ID                 string                 `toml:"id"`
	Kind               string                 `toml:"kind"`
	Name               string                 `toml:"name"`
	Description        string                 `toml:"description"`
	InitialDescription string                 `toml:"initial_description"`
	Location           string                 `toml:"location"`
	Flags              []string               `toml:"flags"`
	Synonyms           []string               `toml:"synonyms"`
	Adjectives         []string               `toml:"adjectives"`
	Properties         map[string]interface{} `toml:"properties"`

	// room keys
	Exits              map[string]string `toml:"exits"`
	LightNeeded        bool              `toml:"light_needed"`
	VisitedDescription string            `toml:"visited_description"`

	// container and door keys
	Capacity int      `toml:"capacity"`
	Key      string   `toml:"key"`
	Connects []string `toml:"connects"`

	// character keys
	Schedule []scheduleStop    `toml:"schedule"`
	Topics   map[string]string `toml:"topics"`
	Trust    int               `toml:"trust"`

	// evidence keys
	Value       int      `toml:"value"`
	Reveals     []string `toml:"reveals"`
	Contradicts []string `toml:"contradicts"`
	Required    bool     `toml:"required"`

	// document keys
	Text      string `toml:"text"`
	Signature string `toml:"signature"`
	Date      string `toml:"date"`

	// light keys
	Fuel     int  `toml:"fuel"`
	Infinite bool `toml:"infinite"`
}

// resolveKind gives the world.Kind of the entity block. An explicit 'kind'
// key always wins; without one, the kind is inferred from which keys and
// flags the block carries. Inference that points at more than one kind is an
// error rather than a guess.
func (te entity) resolveKind() (world.Kind, error) {
	if te.Kind != "" {
		k, ok := world.KindByName(te.Kind)
		if !ok {
			return world.KindThing, fmt.Errorf("kind: %q is not a valid entity kind", te.Kind)
		}
		return k, nil
	}

	flags := make(map[string]bool)
	for _, f := range te.Flags {
		flags[strings.ToLower(f)] = true
	}

	var inferred []world.Kind
	if len(te.Exits) > 0 || te.LightNeeded || te.VisitedDescription != "" {
		inferred = append(inferred, world.KindRoom)
	}
	if len(te.Schedule) > 0 || len(te.Topics) > 0 || flags["person"] {
		inferred = append(inferred, world.KindCharacter)
	}
	if len(te.Connects) > 0 {
		inferred = append(inferred, world.KindDoor)
	}
	if te.Capacity > 0 || flags["container"] {
		inferred = append(inferred, world.KindContainer)
	}
	if te.Value > 0 || len(te.Reveals) > 0 || len(te.Contradicts) > 0 || te.Required || flags["evidence"] {
		inferred = append(inferred, world.KindEvidence)
	}
	if te.Text != "" {
		inferred = append(inferred, world.KindDocument)
	}
	if te.Fuel > 0 || te.Infinite || flags["light"] {
		inferred = append(inferred, world.KindLight)
	}

	switch len(inferred) {
	case 0:
		if flags["takeable"] {
			return world.KindItem, nil
		}
		return world.KindThing, nil
	case 1:
		return inferred[0], nil
	default:
		names := make([]string, len(inferred))
		for i, k := range inferred {
			names[i] = k.String()
		}
		return world.KindThing, fmt.Errorf("kind: missing, and keys suggest more than one kind (%s); set 'kind' explicitly", strings.Join(names, ", "))
	}
}

// toWorldEntity converts the block to a world.Entity. The kind must already
// be resolved and validated.
func (te entity) toWorldEntity(kind world.Kind) *world.Entity {
	e := &world.Entity{
		ID:                 strings.ToUpper(te.ID),
		Name:               te.Name,
		Description:        te.Description,
		InitialDescription: te.InitialDescription,
		Kind:               kind,
		Synonyms:           append([]string(nil), te.Synonyms...),
		Adjectives:         append([]string(nil), te.Adjectives...),
	}

	for _, name := range te.Flags {
		if f, ok := world.FlagByName(name); ok {
			e.SetFlag(f)
		}
	}

	for name, val := range te.Properties {
		e.SetProperty(strings.ToLower(name), val)
	}

	switch kind {
	case world.KindRoom:
		e.Room = &world.RoomData{
			Exits:              make(map[string]string, len(te.Exits)),
			LightNeeded:        te.LightNeeded,
			VisitedDescription: te.VisitedDescription,
		}
		for dir, dest := range te.Exits {
			e.Room.Exits[strings.ToLower(dir)] = strings.ToUpper(dest)
		}
	case world.KindContainer:
		e.SetFlag(world.FlagContainer)
		e.Container = &world.ContainerData{
			Capacity: te.Capacity,
			KeyID:    strings.ToUpper(te.Key),
		}
	case world.KindCharacter:
		e.SetFlag(world.FlagPerson)
		e.Character = &world.CharacterData{
			Schedule:   make([]world.ScheduleStop, len(te.Schedule)),
			Topics:     make(map[string]string, len(te.Topics)),
			TrustLevel: te.Trust,
		}
		for i, stop := range te.Schedule {
			e.Character.Schedule[i] = world.ScheduleStop{
				Minute: stop.Minute,
				RoomID: strings.ToUpper(stop.Room),
			}
		}
		for topic, response := range te.Topics {
			e.Character.Topics[strings.ToLower(topic)] = response
		}
	case world.KindDoor:
		e.Door = &world.DoorData{KeyID: strings.ToUpper(te.Key)}
		for i := 0; i < len(te.Connects) && i < 2; i++ {
			e.Door.Connects[i] = strings.ToUpper(te.Connects[i])
		}
	case world.KindEvidence:
		e.SetFlag(world.FlagEvidence)
		e.Evidence = &world.EvidenceData{
			Value:       te.Value,
			Reveals:     append([]string(nil), te.Reveals...),
			Contradicts: append([]string(nil), te.Contradicts...),
			Required:    te.Required,
		}
	case world.KindDocument:
		e.SetFlag(world.FlagReadable)
		e.Document = &world.DocumentData{
			Text:      te.Text,
			Signature: te.Signature,
			Date:      te.Date,
		}
	case world.KindLight:
		e.SetFlag(world.FlagLight)
		e.Light = &world.LightData{
			Fuel:     te.Fuel,
			Infinite: te.Infinite,
		}
	}

	return e
}

type wordDef struct {
	Word      string   `toml:"word"`
	Type      string   `toml:"type"`
	Canonical string   `toml:"canonical"`
	Entities  []string `toml:"entities"`
}

type patternDef struct {
	Verb      string   `toml:"verb"`
	As        string   `toml:"as"`
	Slots     []string `toml:"slots"`
	LeadPreps []string `toml:"lead_preps"`
	Preps     []string `toml:"preps"`
}
