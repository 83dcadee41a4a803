package game

// File persistence.go saves and restores an investigation in progress. Saves
// are binary, written with rezi.

import (
	"fmt"
	"os"
	"strings"

	"github.com/dekarrin/rezi"

	"github.com/gumshoeworks/gumshoe/internal/gserr"
	"github.com/gumshoeworks/gumshoe/internal/parser"
	"github.com/gumshoeworks/gumshoe/internal/util"
	"github.com/gumshoeworks/gumshoe/internal/world"
)

const saveFormatVersion = 1

// DefaultSaveFile is the file used by SAVE and LOAD when the player does not
// name one.
const DefaultSaveFile = "gumshoe.sav"

// entitySnapshot is the saved mutable state of one entity. Static data
// (descriptions, vocabulary, payloads other than fuel) comes from the world
// file and is not saved.
type entitySnapshot struct {
	ID       string
	Location string
	Flags    int
	Fuel     int
}

func (es entitySnapshot) MarshalBinary() ([]byte, error) {
	var data []byte
	data = append(data, rezi.EncString(es.ID)...)
	data = append(data, rezi.EncString(es.Location)...)
	data = append(data, rezi.EncInt(es.Flags)...)
	data = append(data, rezi.EncInt(es.Fuel)...)
	return data, nil
}

func (es *entitySnapshot) UnmarshalBinary(data []byte) error {
	var n, offset int
	var err error

	es.ID, n, err = rezi.DecString(data[offset:])
	if err != nil {
		return fmt.Errorf("id: %w", err)
	}
	offset += n

	es.Location, n, err = rezi.DecString(data[offset:])
	if err != nil {
		return fmt.Errorf("location: %w", err)
	}
	offset += n

	es.Flags, n, err = rezi.DecInt(data[offset:])
	if err != nil {
		return fmt.Errorf("flags: %w", err)
	}
	offset += n

	es.Fuel, _, err = rezi.DecInt(data[offset:])
	if err != nil {
		return fmt.Errorf("fuel: %w", err)
	}

	return nil
}

// saveState is everything a save file holds.
type saveState struct {
	Version   int
	Score     int
	Turns     int
	Clock     int
	Evidence  []string
	Snapshots []entitySnapshot
}

func (ss saveState) MarshalBinary() ([]byte, error) {
	var data []byte
	data = append(data, rezi.EncInt(ss.Version)...)
	data = append(data, rezi.EncInt(ss.Score)...)
	data = append(data, rezi.EncInt(ss.Turns)...)
	data = append(data, rezi.EncInt(ss.Clock)...)

	data = append(data, rezi.EncInt(len(ss.Evidence))...)
	for _, id := range ss.Evidence {
		data = append(data, rezi.EncString(id)...)
	}

	data = append(data, rezi.EncInt(len(ss.Snapshots))...)
	for _, snap := range ss.Snapshots {
		data = append(data, rezi.EncBinary(snap)...)
	}

	return data, nil
}

func (ss *saveState) UnmarshalBinary(data []byte) error {
	var n, offset int
	var err error

	decInt := func(what string) (int, error) {
		v, read, decErr := rezi.DecInt(data[offset:])
		if decErr != nil {
			return 0, fmt.Errorf("%s: %w", what, decErr)
		}
		offset += read
		return v, nil
	}

	if ss.Version, err = decInt("version"); err != nil {
		return err
	}
	if ss.Score, err = decInt("score"); err != nil {
		return err
	}
	if ss.Turns, err = decInt("turns"); err != nil {
		return err
	}
	if ss.Clock, err = decInt("clock"); err != nil {
		return err
	}

	evCount, err := decInt("evidence count")
	if err != nil {
		return err
	}
	ss.Evidence = make([]string, evCount)
	for i := 0; i < evCount; i++ {
		ss.Evidence[i], n, err = rezi.DecString(data[offset:])
		if err != nil {
			return fmt.Errorf("evidence[%d]: %w", i, err)
		}
		offset += n
	}

	snapCount, err := decInt("snapshot count")
	if err != nil {
		return err
	}
	ss.Snapshots = make([]entitySnapshot, snapCount)
	for i := 0; i < snapCount; i++ {
		n, err = rezi.DecBinary(data[offset:], &ss.Snapshots[i])
		if err != nil {
			return fmt.Errorf("snapshot[%d]: %w", i, err)
		}
		offset += n
	}

	return nil
}

// SaveData encodes the full mutable state of the game to bytes. It is the
// same format SAVE writes to disk, for callers that keep state elsewhere.
func (gs *State) SaveData() ([]byte, error) {
	ss := gs.snapshot()
	return ss.MarshalBinary()
}

// RestoreData applies state previously produced by SaveData.
func (gs *State) RestoreData(data []byte) error {
	var ss saveState
	if err := ss.UnmarshalBinary(data); err != nil {
		return fmt.Errorf("decoding save state: %w", err)
	}
	if ss.Version != saveFormatVersion {
		return fmt.Errorf("save state is format version %d; need %d", ss.Version, saveFormatVersion)
	}
	return gs.restore(ss)
}

func (gs *State) snapshot() saveState {
	ss := saveState{
		Version:  saveFormatVersion,
		Score:    gs.score,
		Turns:    gs.turns,
		Clock:    gs.clock,
		Evidence: gs.evidence.Elements(),
	}

	for _, e := range gs.World.All() {
		snap := entitySnapshot{
			ID:       e.ID,
			Location: e.Location(),
			Flags:    int(e.Flags),
		}
		if e.Light != nil {
			snap.Fuel = e.Light.Fuel
		}
		ss.Snapshots = append(ss.Snapshots, snap)
	}

	return ss
}

// ExecuteCommandSave executes the SAVE command with the arguments in the
// provided result and returns the output.
func (gs *State) ExecuteCommandSave(res parser.ParseResult) (string, error) {
	path := savePath(res)

	ss := gs.snapshot()

	data, err := ss.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("encoding save state: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", gserr.WrapInterpreterf(err, "The save to %q failed.", path)
	}

	return fmt.Sprintf("Investigation saved to %q.", path), nil
}

// ExecuteCommandLoad executes the LOAD command with the arguments in the
// provided result and returns the output.
func (gs *State) ExecuteCommandLoad(res parser.ParseResult) (string, error) {
	path := savePath(res)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", gserr.WrapInterpreterf(err, "There is no saved investigation at %q.", path)
	}

	var ss saveState
	if err := ss.UnmarshalBinary(data); err != nil {
		return "", gserr.WrapInterpreterf(err, "The save file %q can't be read.", path)
	}
	if ss.Version != saveFormatVersion {
		return "", gserr.Interpreterf("The save file %q is from an incompatible version.", path)
	}

	if err := gs.restore(ss); err != nil {
		return "", err
	}

	return fmt.Sprintf("Investigation restored from %q.\n\n%s", path, gs.lookRoom()), nil
}

// restore applies a decoded save to the live world. Every entity is detached
// first so re-attachment order can't trip the containment cycle check.
func (gs *State) restore(ss saveState) error {
	for _, snap := range ss.Snapshots {
		if gs.World.Get(snap.ID) == nil {
			return gserr.Interpreterf("The save file doesn't match this case; it mentions %q.", snap.ID)
		}
	}

	for _, snap := range ss.Snapshots {
		if err := gs.World.MoveTo(snap.ID, ""); err != nil {
			return err
		}
	}

	for _, snap := range ss.Snapshots {
		e := gs.World.Get(snap.ID)
		e.Flags = world.FlagSet(snap.Flags)
		if e.Light != nil {
			e.Light.Fuel = snap.Fuel
		}
		if snap.Location != "" {
			if err := gs.World.MoveTo(snap.ID, snap.Location); err != nil {
				return err
			}
		}
	}

	gs.score = ss.Score
	gs.turns = ss.Turns
	gs.clock = ss.Clock
	gs.evidence = util.NewStringSet()
	for _, id := range ss.Evidence {
		gs.evidence.Add(id)
	}

	return nil
}

func savePath(res parser.ParseResult) string {
	path := strings.TrimSpace(res.DirectObject)
	if path == "" {
		return DefaultSaveFile
	}
	return path
}
