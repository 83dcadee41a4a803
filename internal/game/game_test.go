package game

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gumshoeworks/gumshoe/internal/gserr"
	"github.com/gumshoeworks/gumshoe/internal/parser"
	"github.com/gumshoeworks/gumshoe/internal/world"
)

// newTestGame builds a small manor case: the player in a study with the
// butler, a locked door to the library, a closed desk holding a note and a
// hidden letter, and the required ledger hidden under the rug. The returned
// builder captures everything Advance writes.
func newTestGame(t *testing.T) (*State, *strings.Builder) {
	t.Helper()

	w := world.New()

	entities := []*world.Entity{
		{ID: "STUDY", Name: "Study", Description: "A book-lined study.", Kind: world.KindRoom,
			Room: &world.RoomData{Exits: map[string]string{"north": "HALL", "east": "LIBRARY_DOOR"}}},
		{ID: "HALL", Name: "Hall", Description: "A long hall.", Kind: world.KindRoom,
			Room: &world.RoomData{Exits: map[string]string{"south": "STUDY"}}},
		{ID: "LIBRARY", Name: "Library", Description: "Rows of shelves.", Kind: world.KindRoom,
			Room: &world.RoomData{}},
		{ID: "LIBRARY_DOOR", Name: "door", Kind: world.KindDoor,
			Flags: world.FlagSet(world.FlagLocked),
			Door:  &world.DoorData{Connects: [2]string{"STUDY", "LIBRARY"}, KeyID: "BRASS_KEY"}},
		{ID: "PLAYER", Name: "yourself", Kind: world.KindPlayer},
		{ID: "BRASS_KEY", Name: "key", Adjectives: []string{"brass"}, Kind: world.KindItem,
			Flags: world.FlagSet(world.FlagTakeable)},
		{ID: "DESK", Name: "desk", Description: "A heavy oak desk.", Kind: world.KindContainer,
			Flags:     world.FlagSet(world.FlagContainer | world.FlagFixed),
			Container: &world.ContainerData{}},
		{ID: "NOTE", Name: "note", Kind: world.KindDocument,
			Flags:    world.FlagSet(world.FlagReadable | world.FlagTakeable),
			Document: &world.DocumentData{Text: "Meet me at nine.", Signature: "V."}},
		{ID: "LETTER", Name: "letter", Kind: world.KindItem,
			Flags: world.FlagSet(world.FlagTakeable | world.FlagHidden)},
		{ID: "RUG", Name: "rug", Kind: world.KindThing, Flags: world.FlagSet(world.FlagFixed)},
		{ID: "LEDGER", Name: "ledger", Kind: world.KindEvidence,
			Flags:    world.FlagSet(world.FlagTakeable | world.FlagHidden | world.FlagEvidence),
			Evidence: &world.EvidenceData{Value: 10, Required: true}},
		{ID: "LANTERN", Name: "lantern", Kind: world.KindLight,
			Flags: world.FlagSet(world.FlagTakeable | world.FlagLight),
			Light: &world.LightData{Fuel: 10}},
		{ID: "BUTLER", Name: "Hodges", Synonyms: []string{"butler"}, Kind: world.KindCharacter,
			Flags: world.FlagSet(world.FlagPerson | world.FlagProper),
			Character: &world.CharacterData{Topics: map[string]string{
				"hello":   "Good evening.",
				"weather": "Dreadful, sir.",
			}}},
		{ID: "MAID", Name: "Flora", Synonyms: []string{"maid"}, Kind: world.KindCharacter,
			Flags:     world.FlagSet(world.FlagPerson | world.FlagProper),
			Character: &world.CharacterData{}},
	}
	for _, e := range entities {
		if err := w.Add(e); err != nil {
			t.Fatalf("could not build test world: %v", err)
		}
	}

	placements := [][2]string{
		{"PLAYER", "STUDY"},
		{"LIBRARY_DOOR", "STUDY"},
		{"BRASS_KEY", "STUDY"},
		{"DESK", "STUDY"},
		{"NOTE", "DESK"},
		{"LETTER", "DESK"},
		{"RUG", "STUDY"},
		{"LEDGER", "STUDY"},
		{"LANTERN", "STUDY"},
		{"BUTLER", "STUDY"},
		{"MAID", "STUDY"},
	}
	for _, pl := range placements {
		if err := w.PlaceInitial(pl[0], pl[1]); err != nil {
			t.Fatalf("could not place %s: %v", pl[0], err)
		}
	}
	w.Get("RUG").SetProperty("conceals_under", "LEDGER")

	sol := world.Solution{
		Culprit:  "BUTLER",
		Motive:   "greed",
		Evidence: []string{"LEDGER"},
	}

	buf := &strings.Builder{}
	ioDev := IODevice{
		Width: 80,
		Output: func(s string, a ...interface{}) error {
			fmt.Fprintf(buf, s, a...)
			return nil
		},
		Input: func(prompt string) (string, error) {
			return "", nil
		},
	}

	gs, err := New(w, "STUDY", sol, ioDev)
	if err != nil {
		t.Fatalf("could not create game state: %v", err)
	}

	return gs, buf
}

func Test_New_validation(t *testing.T) {
	assert := assert.New(t)

	w := world.New()
	assert.NoError(w.Add(&world.Entity{ID: "ROOM", Name: "room", Kind: world.KindRoom, Room: &world.RoomData{}}))
	assert.NoError(w.Add(&world.Entity{ID: "PLAYER", Name: "you", Kind: world.KindPlayer}))

	okDev := IODevice{
		Output: func(s string, a ...interface{}) error { return nil },
		Input:  func(prompt string) (string, error) { return "", nil },
	}

	_, err := New(w, "ROOM", world.Solution{}, IODevice{Output: okDev.Output})
	assert.ErrorContains(err, "Input")

	_, err = New(w, "ROOM", world.Solution{}, IODevice{Input: okDev.Input})
	assert.ErrorContains(err, "Output")

	_, err = New(w, "NOWHERE", world.Solution{}, okDev)
	assert.ErrorContains(err, "starting room")

	// the player is placed in the starting room if the data did not
	gs, err := New(w, "ROOM", world.Solution{}, okDev)
	assert.NoError(err)
	assert.Equal("ROOM", gs.World.Player().Location())
}

func Test_ExecuteCommandTake(t *testing.T) {
	t.Run("picks up an item", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		output, err := gs.ExecuteCommandTake(gs.Parse("take brass key"))

		assert.NoError(err)
		assert.Equal("You pick up the key.", output)
		assert.Equal("PLAYER", gs.World.Get("BRASS_KEY").Location())
	})

	t.Run("refuses an item already held", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		_, err := gs.ExecuteCommandTake(gs.Parse("take key"))
		assert.NoError(err)
		_, err = gs.ExecuteCommandTake(gs.Parse("take key"))

		assert.EqualError(err, `got InterpreterError("You already have the key.")`)
	})

	t.Run("refuses a person", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		_, err := gs.ExecuteCommandTake(gs.Parse("take butler"))

		assert.Error(err)
	})

	t.Run("refuses a fixed thing", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		_, err := gs.ExecuteCommandTake(gs.Parse("take rug"))

		assert.Error(err)
		assert.Equal("STUDY", gs.World.Get("RUG").Location())
	})

	t.Run("refuses an item out of reach", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		// a glass lid: the note can be seen and named, but not touched
		gs.World.Get("DESK").SetFlag(world.FlagTransparent)

		_, err := gs.ExecuteCommandTake(gs.Parse("take note"))

		assert.EqualError(err, `got InterpreterError("You can't reach the note.")`)
		assert.Equal("DESK", gs.World.Get("NOTE").Location())

		// it can still be examined through the glass
		_, err = gs.ExecuteCommandExamine(gs.Parse("examine note"))
		assert.NoError(err)
	})

	t.Run("enforces carry capacity", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		gs.World.Player().SetProperty("capacity", 1)

		_, err := gs.ExecuteCommandTake(gs.Parse("take key"))
		assert.NoError(err)
		_, err = gs.ExecuteCommandTake(gs.Parse("take lantern"))

		assert.EqualError(err, "player at carry capacity")
	})
}

func Test_ExecuteCommandDrop(t *testing.T) {
	t.Run("puts down a held item", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		_, err := gs.ExecuteCommandTake(gs.Parse("take key"))
		assert.NoError(err)

		output, err := gs.ExecuteCommandDrop(gs.Parse("drop key"))

		assert.NoError(err)
		assert.Equal("You put down the key.", output)
		assert.Equal("STUDY", gs.World.Get("BRASS_KEY").Location())
	})

	t.Run("refuses an item not held", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		_, err := gs.ExecuteCommandDrop(gs.Parse("drop key"))

		assert.Error(err)
	})
}

func Test_ExecuteCommandOpenClose(t *testing.T) {
	t.Run("open shows contents", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		output, err := gs.ExecuteCommandOpen(gs.Parse("open desk"))

		assert.NoError(err)
		// the hidden letter stays unlisted until searched out
		assert.Equal("You open the desk. In the desk you can see a note.", output)
		assert.True(gs.World.Get("DESK").HasFlag(world.FlagOpen))
	})

	t.Run("open refuses a locked door", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		_, err := gs.ExecuteCommandOpen(gs.Parse("open door"))

		assert.EqualError(err, `got InterpreterError("The door is locked.")`)
	})

	t.Run("close", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		_, err := gs.ExecuteCommandOpen(gs.Parse("open desk"))
		assert.NoError(err)

		output, err := gs.ExecuteCommandClose(gs.Parse("close desk"))

		assert.NoError(err)
		assert.Equal("You close the desk.", output)
		assert.False(gs.World.Get("DESK").HasFlag(world.FlagOpen))
	})

	t.Run("open refuses a plain thing", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		_, err := gs.ExecuteCommandOpen(gs.Parse("open rug"))

		assert.Error(err)
	})
}

func Test_ExecuteCommandUnlock(t *testing.T) {
	t.Run("with the named key", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		_, err := gs.ExecuteCommandTake(gs.Parse("take key"))
		assert.NoError(err)

		output, err := gs.ExecuteCommandUnlock(gs.Parse("unlock door with key"))

		assert.NoError(err)
		assert.Equal("You unlock the door with the key.", output)
		assert.False(gs.World.Get("LIBRARY_DOOR").HasFlag(world.FlagLocked))
	})

	t.Run("uses the right key in hand when none is named", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		_, err := gs.ExecuteCommandTake(gs.Parse("take key"))
		assert.NoError(err)

		_, err = gs.ExecuteCommandUnlock(gs.Parse("unlock door"))

		assert.NoError(err)
		assert.False(gs.World.Get("LIBRARY_DOOR").HasFlag(world.FlagLocked))
	})

	t.Run("asks for an instrument when the key is not in hand", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		_, err := gs.ExecuteCommandUnlock(gs.Parse("unlock door"))

		assert.EqualError(err, `got InterpreterError("What do you want to unlock the door with?")`)
	})

	t.Run("lock requires closing first", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		_, err := gs.ExecuteCommandTake(gs.Parse("take key"))
		assert.NoError(err)
		_, err = gs.ExecuteCommandUnlock(gs.Parse("unlock door with key"))
		assert.NoError(err)
		gs.World.Get("LIBRARY_DOOR").SetFlag(world.FlagOpen)

		_, err = gs.ExecuteCommandLock(gs.Parse("lock door with key"))

		assert.EqualError(err, `got InterpreterError("You'll have to close the door first.")`)
	})
}

func Test_ExecuteCommandGo(t *testing.T) {
	t.Run("moves through an open exit", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		output, err := gs.ExecuteCommandGo(gs.Parse("go north"))

		assert.NoError(err)
		assert.Contains(output, "Hall")
		assert.Equal("HALL", gs.World.Player().Location())
	})

	t.Run("bare direction works the same", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		_, err := gs.ExecuteCommandGo(gs.Parse("n"))

		assert.NoError(err)
		assert.Equal("HALL", gs.World.Player().Location())
	})

	t.Run("no exit that way", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		_, err := gs.ExecuteCommandGo(gs.Parse("go west"))

		assert.EqualError(err, `got InterpreterError("You can't go west from here.")`)
	})

	t.Run("locked door blocks travel", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		_, err := gs.ExecuteCommandGo(gs.Parse("go east"))

		assert.EqualError(err, `got InterpreterError("The door is locked.")`)
		assert.Equal("STUDY", gs.World.Player().Location())
	})

	t.Run("unlocked door opens implicitly", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		gs.World.Get("LIBRARY_DOOR").ClearFlag(world.FlagLocked)

		output, err := gs.ExecuteCommandGo(gs.Parse("go east"))

		assert.NoError(err)
		assert.Contains(output, "(first opening the door)")
		assert.Contains(output, "Library")
		assert.Equal("LIBRARY", gs.World.Player().Location())
		assert.True(gs.World.Get("LIBRARY_DOOR").HasFlag(world.FlagOpen))
	})
}

func Test_ExecuteCommandLook(t *testing.T) {
	assert := assert.New(t)
	gs, _ := newTestGame(t)

	output, err := gs.ExecuteCommandLook(gs.Parse("look"))

	assert.NoError(err)
	assert.Contains(output, "Study")
	assert.Contains(output, "A book-lined study.")
	assert.Contains(output, "You can see")
	assert.Contains(output, "key")
	// hidden things are not listed
	assert.NotContains(output, "ledger")
	// people get their own sentence
	assert.Contains(output, "Hodges")
	assert.Contains(output, "are here")
}

func Test_ExecuteCommandExamine(t *testing.T) {
	t.Run("shows the description", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		output, err := gs.ExecuteCommandExamine(gs.Parse("examine desk"))

		assert.NoError(err)
		assert.Contains(output, "A heavy oak desk.")
		assert.Contains(output, "The desk is closed.")
	})

	t.Run("undescribed things get a stock line", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		output, err := gs.ExecuteCommandExamine(gs.Parse("examine rug"))

		assert.NoError(err)
		assert.Contains(output, "You see nothing special about the rug.")
	})
}

func Test_ExecuteCommandSearch(t *testing.T) {
	t.Run("closed container refuses", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		_, err := gs.ExecuteCommandSearch(gs.Parse("search desk"))

		assert.EqualError(err, `got InterpreterError("The desk is closed.")`)
	})

	t.Run("turns up hidden contents", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		_, err := gs.ExecuteCommandOpen(gs.Parse("open desk"))
		assert.NoError(err)

		output, err := gs.ExecuteCommandSearch(gs.Parse("search desk"))

		assert.NoError(err)
		assert.Equal("Searching the desk turns up a letter!", output)
		assert.False(gs.World.Get("LETTER").HasFlag(world.FlagHidden))

		// nothing more to find
		output, err = gs.ExecuteCommandSearch(gs.Parse("search desk"))
		assert.NoError(err)
		assert.Equal("You find nothing new in the desk.", output)
	})
}

func Test_ExecuteCommandLookUnder(t *testing.T) {
	t.Run("reveals what the rug conceals", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		output, err := gs.ExecuteCommandLookUnder(gs.Parse("look under rug"))

		assert.NoError(err)
		assert.Equal("Under the rug you find a ledger!", output)
		assert.False(gs.World.Get("LEDGER").HasFlag(world.FlagHidden))
		assert.Equal("STUDY", gs.World.Get("LEDGER").Location())
	})

	t.Run("nothing concealed", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		output, err := gs.ExecuteCommandLookUnder(gs.Parse("look under desk"))

		assert.NoError(err)
		assert.Equal("There is nothing under the desk.", output)
	})
}

func Test_ExecuteCommandRead(t *testing.T) {
	assert := assert.New(t)
	gs, _ := newTestGame(t)

	_, err := gs.ExecuteCommandOpen(gs.Parse("open desk"))
	assert.NoError(err)

	output, err := gs.ExecuteCommandRead(gs.Parse("read note"))

	assert.NoError(err)
	assert.Contains(output, "Meet me at nine.")
	assert.Contains(output, "It is signed: V.")
}

func Test_ExecuteCommandPut(t *testing.T) {
	t.Run("into an open container", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		_, err := gs.ExecuteCommandTake(gs.Parse("take key"))
		assert.NoError(err)
		_, err = gs.ExecuteCommandOpen(gs.Parse("open desk"))
		assert.NoError(err)

		output, err := gs.ExecuteCommandPut(gs.Parse("put key in desk"))

		assert.NoError(err)
		assert.Equal("You put the key in the desk.", output)
		assert.Equal("DESK", gs.World.Get("BRASS_KEY").Location())
	})

	t.Run("closed container refuses", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		_, err := gs.ExecuteCommandTake(gs.Parse("take key"))
		assert.NoError(err)

		_, err = gs.ExecuteCommandPut(gs.Parse("put key in desk"))

		assert.EqualError(err, `got InterpreterError("The desk is closed.")`)
	})

	t.Run("on needs a surface", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		_, err := gs.ExecuteCommandTake(gs.Parse("take key"))
		assert.NoError(err)

		_, err = gs.ExecuteCommandPut(gs.Parse("put key on desk"))

		assert.EqualError(err, `got InterpreterError("You can't put things on the desk.")`)
	})
}

func Test_ExecuteCommandTalk(t *testing.T) {
	t.Run("greeting topic", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		output, err := gs.ExecuteCommandTalk(gs.Parse("talk to butler"))

		assert.NoError(err)
		assert.Equal("Good evening.", output)
	})

	t.Run("no greeting falls back to a nudge", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		output, err := gs.ExecuteCommandTalk(gs.Parse("talk to maid"))

		assert.NoError(err)
		assert.Equal("Flora nods at you. Perhaps you should ASK about something specific.", output)
	})

	t.Run("refuses a non-person", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		_, err := gs.ExecuteCommandTalk(gs.Parse("talk to rug"))

		assert.EqualError(err, `got InterpreterError("You can't hold a conversation with the rug.")`)
	})
}

func Test_ExecuteCommandAsk(t *testing.T) {
	t.Run("known topic", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		output, err := gs.ExecuteCommandAsk(gs.Parse("ask butler about weather"))

		assert.NoError(err)
		assert.Equal("Dreadful, sir.", output)
	})

	t.Run("unknown topic", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		output, err := gs.ExecuteCommandAsk(gs.Parse("ask butler about alibi"))

		assert.NoError(err)
		assert.Equal("Hodges has nothing to say about that.", output)
	})
}

func Test_ExecuteCommandShow(t *testing.T) {
	t.Run("show presents without transfer", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		_, err := gs.ExecuteCommandTake(gs.Parse("take key"))
		assert.NoError(err)

		output, err := gs.ExecuteCommandShow(gs.Parse("show key to butler"))

		assert.NoError(err)
		assert.Equal("Hodges glances at the key without much interest.", output)
		assert.Equal("PLAYER", gs.World.Get("BRASS_KEY").Location())
	})

	t.Run("give transfers", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		_, err := gs.ExecuteCommandTake(gs.Parse("take key"))
		assert.NoError(err)

		output, err := gs.ExecuteCommandShow(gs.Parse("give key to butler"))

		assert.NoError(err)
		assert.Equal("Hodges takes the key without much comment.", output)
		assert.Equal("BUTLER", gs.World.Get("BRASS_KEY").Location())
	})

	t.Run("give refuses to part with evidence", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		_, err := gs.ExecuteCommandLookUnder(gs.Parse("look under rug"))
		assert.NoError(err)
		_, err = gs.ExecuteCommandTake(gs.Parse("take ledger"))
		assert.NoError(err)

		_, err = gs.ExecuteCommandShow(gs.Parse("give ledger to butler"))

		assert.EqualError(err, `got InterpreterError("You'd best hold on to the ledger.")`)
		assert.Equal("PLAYER", gs.World.Get("LEDGER").Location())
	})
}

func Test_evidenceScoring(t *testing.T) {
	assert := assert.New(t)
	gs, _ := newTestGame(t)

	_, err := gs.ExecuteCommandLookUnder(gs.Parse("look under rug"))
	assert.NoError(err)

	output, err := gs.ExecuteCommandTake(gs.Parse("take ledger"))

	assert.NoError(err)
	assert.Contains(output, "You make a careful note of the ledger.")
	assert.Contains(output, "[Your score just went up by 10 points.]")
	assert.Equal(10, gs.Score())

	// gathering the same evidence twice scores nothing
	_, err = gs.ExecuteCommandDrop(gs.Parse("drop ledger"))
	assert.NoError(err)
	output, err = gs.ExecuteCommandTake(gs.Parse("take ledger"))
	assert.NoError(err)
	assert.NotContains(output, "careful note")
	assert.Equal(10, gs.Score())
}

func Test_ExecuteCommandAccuse(t *testing.T) {
	t.Run("wrong accusation ends the case in failure", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		output, err := gs.ExecuteCommandAccuse(gs.Parse("accuse maid"))

		assert.NoError(err)
		assert.Contains(output, "walks free")
		assert.True(gs.Over())
		assert.False(gs.Won())
	})

	t.Run("right culprit without evidence does not conclude", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		output, err := gs.ExecuteCommandAccuse(gs.Parse("accuse butler of murder"))

		assert.NoError(err)
		assert.Contains(output, "can't prove it yet")
		assert.False(gs.Over())
	})

	t.Run("right culprit with the evidence closes the case", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		_, err := gs.ExecuteCommandLookUnder(gs.Parse("look under rug"))
		assert.NoError(err)
		_, err = gs.ExecuteCommandTake(gs.Parse("take ledger"))
		assert.NoError(err)

		output, err := gs.ExecuteCommandAccuse(gs.Parse("accuse butler of murder"))

		assert.NoError(err)
		assert.Contains(output, "The case is closed.")
		assert.Contains(output, "The motive: greed.")
		assert.True(gs.Over())
		assert.True(gs.Won())
		assert.Equal(60, gs.Score())
	})

	t.Run("refuses a non-person", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		_, err := gs.ExecuteCommandAccuse(gs.Parse("accuse rug"))

		assert.Error(err)
		assert.False(gs.Over())
	})
}

func Test_ExecuteCommandInventory(t *testing.T) {
	assert := assert.New(t)
	gs, _ := newTestGame(t)

	output, err := gs.ExecuteCommandInventory(gs.Parse("inventory"))
	assert.NoError(err)
	assert.Equal("You aren't carrying anything.", output)

	_, err = gs.ExecuteCommandTake(gs.Parse("take key"))
	assert.NoError(err)

	output, err = gs.ExecuteCommandInventory(gs.Parse("i"))
	assert.NoError(err)
	assert.Equal("You are carrying:\na key.", output)
}

func Test_ExecuteCommandScore(t *testing.T) {
	assert := assert.New(t)
	gs, _ := newTestGame(t)

	output, err := gs.ExecuteCommandScore(gs.Parse("score"))

	assert.NoError(err)
	assert.Equal("Your score is 0, in 0 turns.\nThe time is 8:00 AM.", output)
}

func Test_Advance(t *testing.T) {
	t.Run("writes output and passes time", func(t *testing.T) {
		assert := assert.New(t)
		gs, buf := newTestGame(t)

		err := gs.Advance(gs.Parse("wait"))

		assert.NoError(err)
		assert.Contains(buf.String(), "Time passes.")
		assert.Equal(1, gs.Turns())
		assert.Equal(clockStart+1, gs.Clock())
	})

	t.Run("meta commands do not pass time", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		err := gs.Advance(gs.Parse("look"))

		assert.NoError(err)
		assert.Equal(0, gs.Turns())
	})

	t.Run("invalid parses are returned as errors", func(t *testing.T) {
		assert := assert.New(t)
		gs, buf := newTestGame(t)

		err := gs.Advance(gs.Parse(""))

		assert.Error(err)
		assert.Empty(buf.String())
	})

	t.Run("quit is not executable here", func(t *testing.T) {
		assert := assert.New(t)
		gs, _ := newTestGame(t)

		err := gs.Advance(gs.Parse("quit"))

		assert.Error(err)
	})

	t.Run("unrecognized verb bounces as no pattern match", func(t *testing.T) {
		assert := assert.New(t)
		gs, buf := newTestGame(t)

		err := gs.Advance(gs.Parse("waltz gracefully"))

		assert.ErrorIs(err, gserr.ErrNoPatternMatch)
		assert.Equal(`I don't know how to "WALTZ"`, gserr.GameMessage(err))
		assert.Empty(buf.String())
	})
}

func Test_passTime_schedules(t *testing.T) {
	assert := assert.New(t)
	gs, _ := newTestGame(t)

	butler := gs.World.Get("BUTLER")
	butler.Character.Schedule = []world.ScheduleStop{
		{Minute: clockStart + 1, RoomID: "HALL"},
	}

	notes := gs.passTime()

	assert.Equal("Hodges leaves the room.", notes)
	assert.Equal("HALL", butler.Location())

	// he stays put on subsequent minutes
	notes = gs.passTime()
	assert.Equal("", notes)
	assert.Equal("HALL", butler.Location())
}

func Test_scheduledRoom(t *testing.T) {
	schedule := []world.ScheduleStop{
		{Minute: 540, RoomID: "STUDY"},
		{Minute: 600, RoomID: "HALL"},
	}

	testCases := []struct {
		name   string
		minute int
		expect string
	}{
		{name: "before the first stop", minute: 500, expect: ""},
		{name: "exactly at a stop", minute: 540, expect: "STUDY"},
		{name: "between stops", minute: 570, expect: "STUDY"},
		{name: "after the last stop", minute: 900, expect: "HALL"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, scheduledRoom(schedule, tc.minute))
		})
	}
}

func Test_passTime_burnsLights(t *testing.T) {
	assert := assert.New(t)
	gs, _ := newTestGame(t)

	lantern := gs.World.Get("LANTERN")
	_, err := gs.ExecuteCommandTake(gs.Parse("take lantern"))
	assert.NoError(err)
	lantern.SetFlag(world.FlagLit)
	lantern.Light.Fuel = 6

	notes := gs.passTime()
	assert.Equal("The lantern is getting noticeably dimmer.", notes)
	assert.Equal(5, lantern.Light.Fuel)

	lantern.Light.Fuel = 1
	notes = gs.passTime()
	assert.Equal("The lantern flickers and goes out.", notes)
	assert.False(lantern.HasFlag(world.FlagLit))
}

func Test_formatClock(t *testing.T) {
	testCases := []struct {
		name    string
		minutes int
		expect  string
	}{
		{name: "morning", minutes: 8 * 60, expect: "8:00 AM"},
		{name: "midnight", minutes: 0, expect: "12:00 AM"},
		{name: "noon", minutes: 12 * 60, expect: "12:00 PM"},
		{name: "afternoon", minutes: 16*60 + 40, expect: "4:40 PM"},
		{name: "wraps past a day", minutes: 24*60 + 90, expect: "1:30 AM"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, formatClock(tc.minutes))
		})
	}
}

func Test_saveRoundTrip(t *testing.T) {
	assert := assert.New(t)
	gs, _ := newTestGame(t)

	// disturb the scene and gather the ledger
	_, err := gs.ExecuteCommandTake(gs.Parse("take key"))
	assert.NoError(err)
	_, err = gs.ExecuteCommandLookUnder(gs.Parse("look under rug"))
	assert.NoError(err)
	_, err = gs.ExecuteCommandTake(gs.Parse("take ledger"))
	assert.NoError(err)
	gs.passTime()

	data, err := gs.SaveData()
	assert.NoError(err)

	// keep playing past the save point
	_, err = gs.ExecuteCommandDrop(gs.Parse("drop key"))
	assert.NoError(err)
	gs.passTime()
	gs.passTime()

	err = gs.RestoreData(data)
	assert.NoError(err)

	assert.Equal("PLAYER", gs.World.Get("BRASS_KEY").Location())
	assert.Equal(10, gs.Score())
	assert.Equal(1, gs.Turns())
	assert.Equal(clockStart+1, gs.Clock())
	assert.False(gs.World.Get("LEDGER").HasFlag(world.FlagHidden))

	// gathering again after restore still scores nothing
	_, err = gs.ExecuteCommandDrop(gs.Parse("drop ledger"))
	assert.NoError(err)
	output, err := gs.ExecuteCommandTake(gs.Parse("take ledger"))
	assert.NoError(err)
	assert.NotContains(output, "careful note")
}

func Test_RestoreData_rejectsGarbage(t *testing.T) {
	assert := assert.New(t)
	gs, _ := newTestGame(t)

	err := gs.RestoreData([]byte{0xde, 0xad})

	assert.Error(err)
}

func Test_saveLoadFile(t *testing.T) {
	assert := assert.New(t)
	gs, _ := newTestGame(t)

	path := t.TempDir() + "/case.sav"

	_, err := gs.ExecuteCommandTake(gs.Parse("take key"))
	assert.NoError(err)

	// the tokenizer lower-cases player input, so a dispatcher passes file
	// paths through in a pre-built result instead of parsing them
	output, err := gs.ExecuteCommandSave(parser.ParseResult{Valid: true, Verb: "save", DirectObject: path})
	assert.NoError(err)
	assert.Contains(output, "Investigation saved")

	// restore into a fresh session over the same case
	gs2, _ := newTestGame(t)
	output, err = gs2.ExecuteCommandLoad(parser.ParseResult{Valid: true, Verb: "load", DirectObject: path})
	assert.NoError(err)
	assert.Contains(output, "Investigation restored")
	assert.Equal("PLAYER", gs2.World.Get("BRASS_KEY").Location())
}
