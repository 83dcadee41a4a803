package world

// File entity.go holds the Entity record and its kind-specific payloads.

import (
	"fmt"
	"strings"
)

// Kind is the closed discriminant of an Entity. Kind-specific data lives in
// a payload struct on the Entity; exactly the payload matching the Kind is
// non-nil.
type Kind int

const (
	// KindThing is scenery or any entity with no specialized behavior.
	KindThing Kind = iota

	// KindRoom is a location the player can occupy.
	KindRoom

	// KindItem is a simple takeable object.
	KindItem

	// KindContainer can hold other entities.
	KindContainer

	// KindCharacter is a non-player person.
	KindCharacter

	// KindDoor joins two rooms and may be opened, closed, and locked.
	KindDoor

	// KindEvidence is an item that counts toward solving the case.
	KindEvidence

	// KindDocument is a readable with text content.
	KindDocument

	// KindLight is a light source with optional fuel tracking.
	KindLight

	// KindPlayer is the player character. Exactly one entity has this kind.
	KindPlayer
)

var kindNames = map[Kind]string{
	KindThing:     "thing",
	KindRoom:      "room",
	KindItem:      "item",
	KindContainer: "container",
	KindCharacter: "character",
	KindDoor:      "door",
	KindEvidence:  "evidence",
	KindDocument:  "document",
	KindLight:     "light",
	KindPlayer:    "player",
}

// KindByName returns the Kind with the given data-file name. The second
// return value is false if no kind has that name.
func KindByName(name string) (Kind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return KindThing, false
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ScheduleStop is one entry in a character's schedule: at Minute (minutes
// since midnight, game clock), the character should be in the room with
// RoomID.
type ScheduleStop struct {
	Minute int
	RoomID string
}

// RoomData is the payload for KindRoom entities.
type RoomData struct {
	// Exits maps a canonical direction word to the id of the room or door
	// in that direction.
	Exits map[string]string

	// LightNeeded is whether the room is dark without an active light
	// source.
	LightNeeded bool

	// VisitedDescription, if set, replaces the long description once the
	// room has been visited.
	VisitedDescription string
}

// ContainerData is the payload for KindContainer entities.
type ContainerData struct {
	// Capacity is the number of entities the container can hold. Zero means
	// the default capacity applies.
	Capacity int

	// KeyID is the id of the entity that locks and unlocks this container.
	// Empty means it has no lock.
	KeyID string
}

// CharacterData is the payload for KindCharacter entities.
type CharacterData struct {
	// Schedule lists where the character should be as the game clock
	// advances, in ascending Minute order.
	Schedule []ScheduleStop

	// Topics maps a topic word to the character's response when asked about
	// it.
	Topics map[string]string

	// TrustLevel gates some dialog; it starts at the loaded value and may
	// change during play.
	TrustLevel int
}

// DoorData is the payload for KindDoor entities.
type DoorData struct {
	// Connects is the pair of room ids the door joins.
	Connects [2]string

	// KeyID is the id of the key entity, or empty for no lock.
	KeyID string
}

// EvidenceData is the payload for KindEvidence entities.
type EvidenceData struct {
	// Value is how many points collecting this evidence is worth.
	Value int

	// Reveals lists facts this evidence establishes.
	Reveals []string

	// Contradicts lists claims this evidence disproves.
	Contradicts []string

	// Required is whether the case cannot be solved without this evidence.
	Required bool
}

// DocumentData is the payload for KindDocument entities.
type DocumentData struct {
	Text      string
	Signature string
	Date      string
}

// LightData is the payload for KindLight entities.
type LightData struct {
	// Fuel is the remaining fuel in turns. Ignored if Infinite.
	Fuel int

	// Infinite is whether the light never runs out.
	Infinite bool
}

// Entity is a single game entity: a room, item, character, door, or any
// other world object. All entities share this one record; kind-specific
// data lives in the payload field matching Kind.
//
// Containment is stored as id relations into the owning World: location is
// the id of the owner (empty means limbo) and contents lists the ids of
// owned entities. Only World.MoveTo may change them.
type Entity struct {
	// ID is the canonical way to refer to the entity programmatically. It
	// is upper case and MUST be unique within the world.
	ID string

	// Name is the short display name.
	Name string

	// Description is the long description shown on EXAMINE.
	Description string

	// InitialDescription, if set, is shown the first time the entity is
	// seen, before the entity is flagged visited.
	InitialDescription string

	// Kind discriminates the payload.
	Kind Kind

	// Flags is the entity's packed trait set.
	Flags FlagSet

	// Synonyms are alternative nouns the player may use for the entity.
	Synonyms []string

	// Adjectives are modifier words that select this entity among others
	// with the same noun.
	Adjectives []string

	// Kind payloads. Exactly the one matching Kind is non-nil.
	Room      *RoomData
	Container *ContainerData
	Character *CharacterData
	Door      *DoorData
	Evidence  *EvidenceData
	Document  *DocumentData
	Light     *LightData

	// props holds free-form properties not worth a dedicated field. Reads
	// fall back to the package defaults table.
	props map[string]interface{}

	// containment relations, maintained by World.MoveTo only.
	location string
	contents []string

	// initial state, for Reset.
	origLocation string
	origFlags    FlagSet
}

// HasFlag returns whether the entity has the given flag set.
func (e *Entity) HasFlag(f Flag) bool {
	return e.Flags.Has(f)
}

// SetFlag sets the given flag on the entity.
func (e *Entity) SetFlag(f Flag) {
	e.Flags = e.Flags.With(f)
}

// ClearFlag clears the given flag from the entity.
func (e *Entity) ClearFlag(f Flag) {
	e.Flags = e.Flags.Without(f)
}

// Location returns the id of the entity's current owner. It is empty if the
// entity is in limbo (owned by nothing).
func (e *Entity) Location() string {
	return e.location
}

// Contents returns a copy of the ids of the entities this entity directly
// contains, in insertion order.
func (e *Entity) Contents() []string {
	out := make([]string, len(e.contents))
	copy(out, e.contents)
	return out
}

// Property returns the value of the named property. If the entity does not
// define it, the package defaults table is consulted; if the defaults table
// does not define it either, nil is returned.
func (e *Entity) Property(name string) interface{} {
	if e.props != nil {
		if v, ok := e.props[name]; ok {
			return v
		}
	}
	if v, ok := propertyDefaults[name]; ok {
		return v
	}
	return nil
}

// IntProperty returns the named property as an int, or fallback if the
// property is missing or not numeric.
func (e *Entity) IntProperty(name string, fallback int) int {
	switch v := e.Property(name).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}

// SetProperty sets the named property on the entity.
func (e *Entity) SetProperty(name string, value interface{}) {
	if e.props == nil {
		e.props = make(map[string]interface{})
	}
	e.props[name] = value
}

// HasProperty returns whether the entity itself defines the named property,
// without consulting the defaults table.
func (e *Entity) HasProperty(name string) bool {
	if e.props == nil {
		return false
	}
	_, ok := e.props[name]
	return ok
}

// CanTake returns whether the entity may be picked up at all. It does not
// check reachability; callers combine it with accessibility checks.
func (e *Entity) CanTake() bool {
	return e.HasFlag(FlagTakeable) && !e.HasFlag(FlagFixed)
}

// MatchesNoun returns whether the given word names this entity, either as
// its display name or one of its synonyms. Matching is case-insensitive.
func (e *Entity) MatchesNoun(word string) bool {
	word = strings.ToLower(word)
	if strings.ToLower(e.Name) == word {
		return true
	}
	for _, syn := range e.Synonyms {
		if strings.ToLower(syn) == word {
			return true
		}
	}
	return false
}

// MatchesAdjectives returns whether the entity's adjective set includes
// every word in mods. An empty mods always matches.
func (e *Entity) MatchesAdjectives(mods []string) bool {
	for _, mod := range mods {
		mod = strings.ToLower(mod)
		found := false
		for _, adj := range e.Adjectives {
			if strings.ToLower(adj) == mod {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (e *Entity) String() string {
	return fmt.Sprintf("Entity<%s %s %q>", e.ID, e.Kind, e.Name)
}
