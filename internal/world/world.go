package world

// File world.go holds the World registry and the containment mutation
// surface.

import (
	"fmt"
	"strings"

	"github.com/gumshoeworks/gumshoe/internal/gserr"
)

// PlayerID is the id of the player entity. Every world has exactly one.
const PlayerID = "PLAYER"

// World is the registry of every entity in the game. It owns entity
// lifetimes: entities are created once at load time and live for the whole
// session, only ever relocated or flag-toggled. The location/contents
// relations on entities are ids into this registry.
//
// World is not safe for concurrent use. The engine is turn-based and
// single-threaded; mutation only ever happens between parses.
type World struct {
	entities map[string]*Entity

	// order preserves registration order so iteration and scope resolution
	// are deterministic.
	order []string
}

// New creates an empty World.
func New() *World {
	return &World{
		entities: make(map[string]*Entity),
	}
}

// Add registers an entity. The entity's id is upper-cased and must be
// unique. If the entity was created with a location already set, the
// location must refer to an already-registered entity and the containment
// relation is established immediately.
func (w *World) Add(e *Entity) error {
	e.ID = strings.ToUpper(e.ID)
	if e.ID == "" {
		return fmt.Errorf("entity has empty id")
	}
	if _, ok := w.entities[e.ID]; ok {
		return fmt.Errorf("entity %q: id already registered", e.ID)
	}

	loc := strings.ToUpper(e.location)
	e.location = ""

	w.entities[e.ID] = e
	w.order = append(w.order, e.ID)

	if loc != "" {
		if err := w.MoveTo(e.ID, loc); err != nil {
			return fmt.Errorf("entity %q: initial location: %w", e.ID, err)
		}
	}

	e.origLocation = e.location
	e.origFlags = e.Flags
	return nil
}

// Get returns the entity with the given id, or nil if it is not
// registered. Lookup is case-insensitive.
func (w *World) Get(id string) *Entity {
	return w.entities[strings.ToUpper(id)]
}

// Len returns the number of registered entities.
func (w *World) Len() int {
	return len(w.entities)
}

// All returns every registered entity in registration order.
func (w *World) All() []*Entity {
	out := make([]*Entity, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.entities[id])
	}
	return out
}

// Player returns the player entity, or nil if none is registered.
func (w *World) Player() *Entity {
	return w.entities[PlayerID]
}

// RoomOf walks up the ownership chain of the given entity until it reaches
// a room, and returns that room. It returns nil if the entity is not
// registered or no ancestor is a room.
func (w *World) RoomOf(id string) *Entity {
	e := w.Get(id)
	for e != nil {
		if e.Kind == KindRoom {
			return e
		}
		e = w.Get(e.location)
	}
	return nil
}

// MoveTo moves the entity with id into the entity with ownerID, detaching
// it from its current owner first. It is the only way containment changes;
// the location back-reference and the owner's contents list are always
// updated together.
//
// An empty ownerID is legal and moves the entity to limbo (owned by
// nothing), which is used transiently during world assembly.
//
// Moving an entity into itself or into one of its own descendants fails
// with gserr.ErrContainmentCycle and changes nothing.
func (w *World) MoveTo(id, ownerID string) error {
	id = strings.ToUpper(id)
	ownerID = strings.ToUpper(ownerID)

	e, ok := w.entities[id]
	if !ok {
		return fmt.Errorf("%w: %q", gserr.ErrNoSuchEntity, id)
	}

	var owner *Entity
	if ownerID != "" {
		owner, ok = w.entities[ownerID]
		if !ok {
			return fmt.Errorf("%w: %q", gserr.ErrNoSuchEntity, ownerID)
		}

		if ownerID == id || w.IsIn(ownerID, id) {
			return fmt.Errorf("%w: cannot move %q into %q", gserr.ErrContainmentCycle, id, ownerID)
		}
	}

	// detach from current owner
	if e.location != "" {
		if old, ok := w.entities[e.location]; ok {
			for i, cid := range old.contents {
				if cid == id {
					old.contents = append(old.contents[:i], old.contents[i+1:]...)
					break
				}
			}
		}
	}

	e.location = ownerID
	if owner != nil {
		owner.contents = append(owner.contents, id)
	}

	return nil
}

// PlaceInitial moves the entity into the entity with ownerID and records
// that owner as the entity's original location for Reset. World assembly
// uses this after all entities are registered, so placements may refer
// forward to entities defined later in the data files.
func (w *World) PlaceInitial(id, ownerID string) error {
	if err := w.MoveTo(id, ownerID); err != nil {
		return err
	}
	w.Get(id).origLocation = strings.ToUpper(ownerID)
	return nil
}

// IsIn returns whether the entity with id is contained, at any depth,
// within the entity with containerID.
func (w *World) IsIn(id, containerID string) bool {
	id = strings.ToUpper(id)
	containerID = strings.ToUpper(containerID)

	e, ok := w.entities[id]
	if !ok {
		return false
	}

	cur := e.location
	for cur != "" {
		if cur == containerID {
			return true
		}
		next, ok := w.entities[cur]
		if !ok {
			return false
		}
		cur = next.location
	}
	return false
}

// AllContentsOf returns the ids of everything inside the given entity,
// recursing into nested entities. Order is depth-first in contents order.
func (w *World) AllContentsOf(id string) []string {
	e := w.Get(id)
	if e == nil {
		return nil
	}

	var out []string
	for _, cid := range e.contents {
		out = append(out, cid)
		out = append(out, w.AllContentsOf(cid)...)
	}
	return out
}

// CanContain returns whether the entity with containerID may receive the
// entity with id. The container must be a container or a surface, must have
// room under its capacity, must not be a descendant of the moved entity,
// and if it has a max_item_size property the moved entity must fit.
func (w *World) CanContain(containerID, id string) bool {
	c := w.Get(containerID)
	e := w.Get(id)
	if c == nil || e == nil || c.ID == e.ID {
		return false
	}

	if !c.HasFlag(FlagContainer) && !c.HasFlag(FlagSurface) {
		return false
	}

	capacity := c.IntProperty("capacity", 10)
	if len(c.contents) >= capacity {
		return false
	}

	if c.HasProperty("max_item_size") {
		if e.IntProperty("size", 1) > c.IntProperty("max_item_size", 0) {
			return false
		}
	}

	return !w.IsIn(c.ID, e.ID)
}

// Reset returns the entity to its original owner and restores its original
// flags. Properties are left alone; only flag and containment mutations are
// undone.
func (w *World) Reset(id string) error {
	e := w.Get(id)
	if e == nil {
		return fmt.Errorf("%w: %q", gserr.ErrNoSuchEntity, id)
	}

	if err := w.MoveTo(e.ID, e.origLocation); err != nil {
		return err
	}
	e.Flags = e.origFlags
	return nil
}

// ResetAll resets every entity in the world. Entities are first detached to
// limbo so that re-attachment cannot trip the cycle check partway through.
func (w *World) ResetAll() error {
	for _, id := range w.order {
		e := w.entities[id]
		if e.location != e.origLocation {
			if err := w.MoveTo(id, ""); err != nil {
				return err
			}
		}
	}
	for _, id := range w.order {
		if err := w.Reset(id); err != nil {
			return err
		}
	}
	return nil
}
