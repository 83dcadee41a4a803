package world

// File scope.go computes which entities a viewpoint can currently refer to.
// Scope is what the disambiguator narrows; visibility and accessibility are
// the finer-grained predicates it filters with.

// Scope returns the ordered ids of every entity the given viewpoint can
// currently refer to. The set starts from the viewpoint's current room and
// the viewpoint's own contents; the contents of a nested entity are
// included only if that entity is a container that is open or transparent,
// or is not a container at all (items on a surface are always visible).
// Entities flagged invisible or hidden are excluded no matter where they
// are.
//
// If the viewpoint's room is dark, scope is empty.
//
// Scope performs no mutation; calling it twice without an intervening
// mutation yields identical results.
func (w *World) Scope(viewpointID string) []string {
	vp := w.Get(viewpointID)
	if vp == nil {
		return nil
	}

	room := w.RoomOf(vp.ID)
	if room == nil {
		return nil
	}

	if w.IsDark(room.ID) {
		return nil
	}

	seen := map[string]bool{vp.ID: true}
	var out []string

	var walk func(ownerID string)
	walk = func(ownerID string) {
		owner := w.Get(ownerID)
		if owner == nil {
			return
		}
		for _, cid := range owner.contents {
			c := w.Get(cid)
			if c == nil || seen[cid] {
				continue
			}
			seen[cid] = true

			if c.HasFlag(FlagInvisible) || c.HasFlag(FlagHidden) {
				continue
			}

			out = append(out, cid)

			if !c.HasFlag(FlagContainer) || c.HasFlag(FlagOpen) || c.HasFlag(FlagTransparent) {
				walk(cid)
			}
		}
	}

	walk(room.ID)
	walk(vp.ID)

	return out
}

// Visible returns whether the entity can currently be seen at all. An
// entity flagged invisible or hidden is never visible; an entity whose
// immediate owner is a closed, opaque container is not visible either.
func (w *World) Visible(id string) bool {
	e := w.Get(id)
	if e == nil {
		return false
	}

	if e.HasFlag(FlagInvisible) || e.HasFlag(FlagHidden) {
		return false
	}

	owner := w.Get(e.location)
	if owner != nil && owner.HasFlag(FlagContainer) {
		if !owner.HasFlag(FlagOpen) && !owner.HasFlag(FlagTransparent) {
			return false
		}
	}

	return true
}

// Accessible returns whether the entity can currently be manipulated, not
// just seen. It is stricter than Visible: if any ancestor container is
// closed, the entity can be described but not touched (a closed glass case
// is transparent but still in the way).
func (w *World) Accessible(id string) bool {
	e := w.Get(id)
	if e == nil {
		return false
	}

	cur := w.Get(e.location)
	for cur != nil {
		if cur.HasFlag(FlagContainer) && !cur.HasFlag(FlagOpen) {
			return false
		}
		cur = w.Get(cur.location)
	}
	return true
}

// IsDark returns whether the room with the given id is currently dark: it
// declares that light is needed, and nothing within it (recursively,
// containers included) is a lit light source.
func (w *World) IsDark(roomID string) bool {
	room := w.Get(roomID)
	if room == nil || room.Kind != KindRoom || room.Room == nil {
		return false
	}
	if !room.Room.LightNeeded {
		return false
	}

	for _, cid := range w.AllContentsOf(room.ID) {
		c := w.Get(cid)
		if c != nil && c.HasFlag(FlagLight) && c.HasFlag(FlagLit) {
			return false
		}
	}
	return true
}
