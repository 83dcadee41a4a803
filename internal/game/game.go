// Package game implements the Gumshoe session: the live world, the turn
// clock, scoring, and the dispatch of parsed commands to their handlers.
package game

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"

	"github.com/gumshoeworks/gumshoe/internal/gserr"
	"github.com/gumshoeworks/gumshoe/internal/parser"
	"github.com/gumshoeworks/gumshoe/internal/util"
	"github.com/gumshoeworks/gumshoe/internal/world"
)

var commandHelp = [][2]string{
	{"HELP", "show this help"},
	{"GO/N/S/E/W/etc", "move in a direction"},
	{"LOOK", "describe the current room"},
	{"EXAMINE/X", "describe something closely"},
	{"SEARCH", "search inside something"},
	{"LOOK UNDER/BEHIND", "check under or behind something"},
	{"TAKE/GET, DROP", "pick up or put down an object"},
	{"PUT X IN/ON Y", "place an object in a container or on a surface"},
	{"OPEN/CLOSE", "open or close a container or door"},
	{"LOCK/UNLOCK X WITH Y", "work a lock with its key"},
	{"READ", "read a document"},
	{"TALK TO", "strike up a conversation"},
	{"ASK X ABOUT Y", "ask someone about a topic"},
	{"SHOW/GIVE X TO Y", "present an object to someone"},
	{"ACCUSE X OF Y", "make your accusation"},
	{"INVENTORY/I", "list what you are carrying"},
	{"SCORE", "show your score and the time"},
	{"WAIT/Z", "let a minute pass"},
	{"AGAIN/G", "repeat your last command"},
	{"SAVE/LOAD", "save the investigation or restore one"},
	{"QUIT", "end the session"},
}

var textFormatOptions = rosed.Options{
	PreserveParagraphs: true,
	IndentStr:          "  ",
}

// clockStart is where the case clock begins, in minutes since midnight.
const clockStart = 8 * 60

// IODevice is the input/output surface the game writes to and prompts on.
type IODevice struct {
	// The width of each line of output.
	Width int

	// a function to send output. If s is empty, an empty line is sent.
	Output func(s string, a ...interface{}) error

	// a function to use to get string input. If prompt is blank, no prompt
	// is sent before the input is read.
	Input func(prompt string) (string, error)
}

// State is the game's entire state.
type State struct {
	// World is every entity in the case and its current condition.
	World *world.World

	// Parser turns player input into commands against World.
	Parser *parser.Parser

	// Solution is the answer to the case, consulted by ACCUSE.
	Solution world.Solution

	io IODevice

	turns    int
	clock    int
	score    int
	evidence util.StringSet

	won  bool
	over bool
}

// New creates a new State over the loaded world. It wires a parser to the
// world and indexes every entity's vocabulary.
//
// startRoom is the id of the room the player begins in. ioDev is the
// input/output device to use when the user needs to be prompted for more
// info, or for showing output. ioDev.Width is how wide the output should be;
// if not set or < 2, it is assumed to be 80.
func New(w *world.World, startRoom string, solution world.Solution, ioDev IODevice) (*State, error) {
	if ioDev.Width < 2 {
		ioDev.Width = 80
	}
	if ioDev.Input == nil {
		return nil, fmt.Errorf("io device must define an Input function")
	}
	if ioDev.Output == nil {
		return nil, fmt.Errorf("io device must define an Output function")
	}

	player := w.Player()
	if player == nil {
		return nil, fmt.Errorf("world has no player entity")
	}

	start := w.Get(startRoom)
	if start == nil || start.Kind != world.KindRoom {
		return nil, fmt.Errorf("starting room with id %q does not exist in the world", startRoom)
	}

	if player.Location() == "" {
		if err := w.PlaceInitial(player.ID, start.ID); err != nil {
			return nil, fmt.Errorf("placing player: %w", err)
		}
	}

	gs := &State{
		World:    w,
		Solution: solution,
		io:       ioDev,
		clock:    clockStart,
		evidence: util.NewStringSet(),
	}

	gs.Parser = parser.New(w)
	gs.Parser.IndexWorld()

	return gs, nil
}

// Score returns the current score.
func (gs *State) Score() int {
	return gs.score
}

// Turns returns the number of turns that have passed.
func (gs *State) Turns() int {
	return gs.turns
}

// Clock returns the case clock as minutes since midnight.
func (gs *State) Clock() int {
	return gs.clock
}

// Over returns whether the case has concluded, by success or otherwise.
func (gs *State) Over() bool {
	return gs.over
}

// Won returns whether the case concluded with a successful accusation.
func (gs *State) Won() bool {
	return gs.won
}

// Parse runs the player's raw input through the parser from the player's
// viewpoint.
func (gs *State) Parse(input string) parser.ParseResult {
	return gs.Parser.Parse(input, world.PlayerID)
}

// Advance advances the game state based on the given parsed command. If
// there is a problem executing the command, it is given in the error output
// and the game state is not advanced. Otherwise the result of the command is
// written to the IO device.
//
// Invalid commands come back as non-nil errors as opposed to being written
// directly to the IO stream; the caller can decide whether to do that
// itself.
//
// Note that for this, QUIT is not considered a valid command as it would be
// on a controlling engine to end the game based on that.
func (gs *State) Advance(res parser.ParseResult) error {
	if !res.Valid {
		if res.Err != nil {
			return res.Err
		}
		return gserr.Interpreter("I don't follow you.", "invalid parse with no error")
	}

	var output string
	var err error

	switch res.Verb {
	case "quit":
		return gserr.Interpreterf("I can't QUIT; I'm not being executed by a quitable engine")
	case "go":
		output, err = gs.ExecuteCommandGo(res)
	case "enter":
		output, err = gs.ExecuteCommandEnter(res)
	case "exit":
		output, err = gs.ExecuteCommandExit(res)
	case "take":
		output, err = gs.ExecuteCommandTake(res)
	case "drop":
		output, err = gs.ExecuteCommandDrop(res)
	case "put":
		output, err = gs.ExecuteCommandPut(res)
	case "give", "show":
		output, err = gs.ExecuteCommandShow(res)
	case "open":
		output, err = gs.ExecuteCommandOpen(res)
	case "close":
		output, err = gs.ExecuteCommandClose(res)
	case "lock":
		output, err = gs.ExecuteCommandLock(res)
	case "unlock":
		output, err = gs.ExecuteCommandUnlock(res)
	case "look":
		output, err = gs.ExecuteCommandLook(res)
	case "examine":
		output, err = gs.ExecuteCommandExamine(res)
	case "search":
		output, err = gs.ExecuteCommandSearch(res)
	case "look-under":
		output, err = gs.ExecuteCommandLookUnder(res)
	case "look-behind":
		output, err = gs.ExecuteCommandLookBehind(res)
	case "read":
		output, err = gs.ExecuteCommandRead(res)
	case "talk":
		output, err = gs.ExecuteCommandTalk(res)
	case "ask", "tell":
		output, err = gs.ExecuteCommandAsk(res)
	case "accuse":
		output, err = gs.ExecuteCommandAccuse(res)
	case "inventory":
		output, err = gs.ExecuteCommandInventory(res)
	case "score":
		output, err = gs.ExecuteCommandScore(res)
	case "wait":
		output, err = gs.ExecuteCommandWait(res)
	case "help":
		output, err = gs.ExecuteCommandHelp(res)
	case "save":
		output, err = gs.ExecuteCommandSave(res)
	case "load":
		output, err = gs.ExecuteCommandLoad(res)
	default:
		// the permissive parse lets any first word through as a verb; this
		// is where input that fits no pattern finally bounces
		return gserr.WrapInterpreterf(gserr.ErrNoPatternMatch,
			"I don't know how to %q", strings.ToUpper(res.Verb))
	}

	if err != nil {
		return err
	}

	if timePassed(res.Verb) {
		if extra := gs.passTime(); extra != "" {
			output += "\n\n" + extra
		}
	}

	output = rosed.Edit(output).WrapOpts(gs.io.Width, textFormatOptions).String()

	// IO to give output:
	return gs.io.Output("\n" + output + "\n\n")
}

// timePassed says whether the verb consumes case time. Meta commands and
// pure bookkeeping do not.
func timePassed(verb string) bool {
	switch verb {
	case "look", "inventory", "score", "help", "save", "load", "again":
		return false
	}
	return true
}

// ExecuteCommandInventory executes the INVENTORY command with the arguments
// in the provided result and returns the output.
func (gs *State) ExecuteCommandInventory(res parser.ParseResult) (string, error) {
	carried := gs.World.Player().Contents()

	if len(carried) < 1 {
		return "You aren't carrying anything.", nil
	}

	var itemNames []string
	for _, id := range carried {
		if e := gs.World.Get(id); e != nil {
			itemNames = append(itemNames, e.Name)
		}
	}

	output := "You are carrying:\n"
	output += util.MakeTextList(itemNames, true) + "."
	return output, nil
}

// ExecuteCommandScore executes the SCORE command and returns the output.
func (gs *State) ExecuteCommandScore(res parser.ParseResult) (string, error) {
	output := fmt.Sprintf("Your score is %d, in %d turns.", gs.score, gs.turns)
	output += fmt.Sprintf("\nThe time is %s.", formatClock(gs.clock))
	if n := gs.evidence.Len(); n > 0 {
		output += fmt.Sprintf("\nYou have gathered %d piece%s of evidence.", n, pluralS(n))
	}
	return output, nil
}

// ExecuteCommandWait executes the WAIT command and returns the output.
func (gs *State) ExecuteCommandWait(res parser.ParseResult) (string, error) {
	return "Time passes.", nil
}

// ExecuteCommandHelp executes the HELP command with the arguments in the
// provided result and returns the output.
func (gs *State) ExecuteCommandHelp(res parser.ParseResult) (string, error) {
	output := rosed.Edit("").WithOptions(
		textFormatOptions.
			WithParagraphSeparator("\n").
			WithNoTrailingLineSeparators(true)).
		Insert(rosed.End, "Here are the commands you can use:\n").
		InsertDefinitionsTable(rosed.End, commandHelp, gs.io.Width).String()

	return output, nil
}

// resolveRef turns an object reference from a ParseResult into a live
// entity. References are normally already entity ids, but the permissive
// parse can leave raw noun-phrase text in a slot; those are resolved here,
// at execution time, against the current world state.
func (gs *State) resolveRef(ref, verb string) (*world.Entity, error) {
	if ref == "" {
		return nil, gserr.WrapInterpreterf(gserr.ErrNotFound, "What do you want to %s?", verb)
	}

	if e := gs.World.Get(ref); e != nil && strings.ToUpper(ref) == ref {
		return e, nil
	}

	id, cands, err := gs.Parser.ResolvePhrase(ref, verb, world.PlayerID)
	if err != nil {
		if len(cands) > 0 {
			var names []string
			for _, cid := range cands {
				if c := gs.World.Get(cid); c != nil {
					names = append(names, c.Name)
				}
			}
			return nil, gserr.WrapInterpreterf(gserr.ErrAmbiguous,
				"Which do you mean: %s?", util.MakeTextList(names, true))
		}
		return nil, err
	}

	return gs.World.Get(id), nil
}

func formatClock(minutes int) string {
	minutes %= 24 * 60
	h := minutes / 60
	m := minutes % 60
	ampm := "AM"
	if h >= 12 {
		ampm = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m, ampm)
}

func pluralS(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// the returns the entity's name with a definite article unless the entity
// is a proper noun.
func the(e *world.Entity) string {
	if e.HasFlag(world.FlagProper) {
		return e.Name
	}
	return "the " + e.Name
}
