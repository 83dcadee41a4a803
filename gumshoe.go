// Package gumshoe contains a CLI-driven engine for getting commands and
// advancing a mystery investigation continuously until the user quits.
package gumshoe

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/dekarrin/rosed"

	"github.com/gumshoeworks/gumshoe/internal/game"
	"github.com/gumshoeworks/gumshoe/internal/gserr"
	"github.com/gumshoeworks/gumshoe/internal/gwf"
	"github.com/gumshoeworks/gumshoe/internal/input"
	"github.com/gumshoeworks/gumshoe/internal/world"
)

// Engine contains the things needed to run a game from an interactive shell
// attached to an input stream and an output stream.
type Engine struct {
	state       *game.State
	in          input.Reader
	out         *bufio.Writer
	forceDirect bool
	running     bool
}

const consoleOutputWidth = 80

// New creates a new engine ready to operate on the given input and output
// streams. It will immediately open a buffered reader on the input stream
// and a buffered writer on the output stream.
//
// If nil is given for the input stream, a bufio.Reader is opened on stdin.
// If nil is given for the output stream, a bufio.Writer is opened on stdout.
func New(inputStream io.Reader, outputStream io.Writer, worldFilePath string, forceDirectInput bool) (*Engine, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}

	// load world file
	worldData, err := gwf.LoadResourceBundle(worldFilePath)
	if err != nil {
		return nil, err
	}

	eng := &Engine{
		out:         bufio.NewWriter(outputStream),
		running:     false,
		forceDirect: forceDirectInput,
	}

	useReadline := !forceDirectInput && inputStream == os.Stdin && outputStream == os.Stdout

	if useReadline {
		eng.in, err = input.NewInteractiveReader()
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		eng.in = input.NewDirectReader(inputStream)
	}

	// create IODevice for use with the game engine
	outFunc := func(s string, a ...interface{}) error {
		s = fmt.Sprintf(s, a...)
		if _, err := eng.out.WriteString(s); err != nil {
			return fmt.Errorf("could not write output: %w", err)
		}
		if err := eng.out.Flush(); err != nil {
			return fmt.Errorf("could not flush output: %w", err)
		}
		return nil
	}
	inputFunc := func(prompt string) (string, error) {
		var oldPrompt string
		var icr *input.InteractiveCommandReader
		if useReadline {
			icr = eng.in.(*input.InteractiveCommandReader)
			oldPrompt = icr.GetPrompt()
			icr.SetPrompt(prompt)
		} else {
			if prompt != "" {
				if err := outFunc(prompt); err != nil {
					return "", err
				}
			}
		}
		eng.in.AllowBlank(true)
		readInput, err := eng.in.ReadCommand()
		eng.in.AllowBlank(false)
		if useReadline {
			icr = eng.in.(*input.InteractiveCommandReader)
			icr.SetPrompt(oldPrompt)
		}
		return readInput, err
	}
	ioDev := game.IODevice{
		Width:  consoleOutputWidth,
		Output: outFunc,
		Input:  inputFunc,
	}

	state, err := game.New(worldData.World, worldData.Start, worldData.Solution, ioDev)
	if err != nil {
		return nil, fmt.Errorf("initializing game engine: %w", err)
	}

	for _, w := range worldData.Words {
		state.Parser.AddWord(w.Text, w.Type, w.Canonical, w.EntityIDs)
	}
	for _, pat := range worldData.Patterns {
		state.Parser.AddPattern(pat)
	}

	eng.state = state

	return eng, nil
}

// Close closes all resources associated with the Engine, including any
// readline-related resources created for interactive mode.
func (eng *Engine) Close() error {
	if eng.running {
		return fmt.Errorf("cannot close a running game engine")
	}

	err := eng.in.Close()
	if err != nil {
		return fmt.Errorf("close command reader: %w", err)
	}

	return nil
}

// RunUntilQuit begins reading commands from the streams and applying them to
// the game until the QUIT command is received or the case concludes.
func (eng *Engine) RunUntilQuit() error {
	introMsg := "Welcome to Gumshoe\n"
	if eng.forceDirect {
		introMsg += "(direct input mode)\n"
	}
	introMsg += "==================\n"
	introMsg += "\n"

	room := eng.state.World.RoomOf(world.PlayerID)
	if room != nil {
		introMsg += "You are in " + room.Name + "\n"
	}

	if _, err := eng.out.WriteString(introMsg); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := eng.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}

	eng.running = true
	// so we dont have to remember to do this on every returned error
	defer func() {
		eng.running = false
	}()

	for eng.running {
		line, err := eng.in.ReadCommand()
		if err != nil {
			return fmt.Errorf("get user command: %w", err)
		}

		res := eng.state.Parse(line)

		// special check: actual game will not use the QUIT command, only a
		// runner can do that. so check if that's what we got
		if res.Valid && res.Verb == "quit" {
			eng.running = false
			break
		}

		err = eng.state.Advance(res)
		if err != nil {
			consoleMessage := gserr.GameMessage(err)
			consoleMessage = rosed.Edit(consoleMessage).Wrap(consoleOutputWidth).String()
			if _, err := eng.out.WriteString(consoleMessage + "\n"); err != nil {
				return fmt.Errorf("could not write output: %w", err)
			}
			if err := eng.out.Flush(); err != nil {
				return fmt.Errorf("could not flush output: %w", err)
			}
		}

		if eng.state.Over() {
			eng.running = false
		}
	}

	if _, err := eng.out.WriteString("Goodbye\n"); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := eng.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}

	return nil
}
