// Package world implements the Gumshoe entity model: the registry of all
// game entities, their flags and properties, the containment graph, and
// scope resolution over it.
package world

import (
	"sort"
	"strings"
)

// Flag is a single boolean trait of an entity. The trait set is closed;
// flags are stored packed in a FlagSet so checks are single mask operations.
type Flag uint32

const (
	// FlagTakeable marks an entity that can be picked up.
	FlagTakeable Flag = 1 << iota

	// FlagContainer marks an entity that can hold other entities inside it.
	FlagContainer

	// FlagOpen marks a container or door that is currently open.
	FlagOpen

	// FlagLocked marks a container or door that is currently locked.
	FlagLocked

	// FlagLight marks an entity that can provide light.
	FlagLight

	// FlagLit marks a light source that is currently producing light.
	FlagLit

	// FlagReadable marks an entity with text that can be read.
	FlagReadable

	// FlagWearable marks an entity that can be worn.
	FlagWearable

	// FlagEdible marks an entity that can be eaten.
	FlagEdible

	// FlagDrinkable marks an entity that can be drunk.
	FlagDrinkable

	// FlagWeapon marks an entity usable as a weapon.
	FlagWeapon

	// FlagTool marks an entity usable as a tool.
	FlagTool

	// FlagVehicle marks an entity that can be entered or ridden.
	FlagVehicle

	// FlagSurface marks an entity that things can be placed on top of.
	// Unlike containers, surfaces never hide their contents.
	FlagSurface

	// FlagTransparent marks a container whose contents are visible even
	// while it is closed.
	FlagTransparent

	// FlagInvisible marks an entity that is never included in scope.
	FlagInvisible

	// FlagHidden marks an entity that has not yet been discovered and is
	// excluded from scope until revealed.
	FlagHidden

	// FlagFixed marks an entity that cannot be moved at all.
	FlagFixed

	// FlagSearched marks an entity the player has already searched.
	FlagSearched

	// FlagVisited marks a room the player has entered, or an entity whose
	// initial description has already been shown.
	FlagVisited

	// FlagSacred marks an entity that must not leave the player once taken.
	FlagSacred

	// FlagPerson marks a character.
	FlagPerson

	// FlagPlural marks an entity referred to in the plural.
	FlagPlural

	// FlagProper marks an entity whose name is a proper noun and takes no
	// article.
	FlagProper

	// FlagTouchable marks an entity that can be physically touched.
	FlagTouchable

	// FlagEvidence marks an entity that counts toward solving the case.
	FlagEvidence
)

// FlagSet is a packed set of Flags.
type FlagSet uint32

// Has returns whether all bits of f are set.
func (fs FlagSet) Has(f Flag) bool {
	return fs&FlagSet(f) == FlagSet(f)
}

// With returns a copy of the set with f set.
func (fs FlagSet) With(f Flag) FlagSet {
	return fs | FlagSet(f)
}

// Without returns a copy of the set with f cleared.
func (fs FlagSet) Without(f Flag) FlagSet {
	return fs &^ FlagSet(f)
}

// flagNames maps the data-file name of each flag to its bit. Names are the
// lower-case forms used in GWF files.
var flagNames = map[string]Flag{
	"takeable":    FlagTakeable,
	"container":   FlagContainer,
	"open":        FlagOpen,
	"locked":      FlagLocked,
	"light":       FlagLight,
	"lit":         FlagLit,
	"readable":    FlagReadable,
	"wearable":    FlagWearable,
	"edible":      FlagEdible,
	"drinkable":   FlagDrinkable,
	"weapon":      FlagWeapon,
	"tool":        FlagTool,
	"vehicle":     FlagVehicle,
	"surface":     FlagSurface,
	"transparent": FlagTransparent,
	"invisible":   FlagInvisible,
	"hidden":      FlagHidden,
	"fixed":       FlagFixed,
	"searched":    FlagSearched,
	"visited":     FlagVisited,
	"sacred":      FlagSacred,
	"person":      FlagPerson,
	"plural":      FlagPlural,
	"proper":      FlagProper,
	"touchable":   FlagTouchable,
	"evidence":    FlagEvidence,
}

// FlagByName returns the Flag with the given data-file name. The lookup is
// case-insensitive. The second return value is false if no flag has that
// name.
func FlagByName(name string) (Flag, bool) {
	f, ok := flagNames[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// Names returns the data-file names of every flag set in fs, sorted
// alphabetically.
func (fs FlagSet) Names() []string {
	var names []string
	for name, f := range flagNames {
		if fs.Has(f) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// String returns a human-readable listing of the set flags.
func (fs FlagSet) String() string {
	names := fs.Names()
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}
