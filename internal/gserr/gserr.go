// Package gserr defines the error types shared by the Gumshoe parser, world
// model, and command dispatch layers.
package gserr

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when a blank or whitespace-only command is
	// parsed.
	ErrEmptyInput = errors.New("empty input")

	// ErrNoPatternMatch is returned when input fit no registered syntax
	// pattern and the permissive fallback produced a verb no handler
	// recognizes. The parser itself never emits it; the dispatcher does,
	// since the fallback defers judgment to execution time.
	ErrNoPatternMatch = errors.New("no syntax pattern matches")

	// ErrAmbiguous is returned when a noun phrase matches more than one
	// entity after every narrowing filter has been applied.
	ErrAmbiguous = errors.New("reference is ambiguous")

	// ErrNotFound is returned when a noun phrase matches no entity in scope.
	ErrNotFound = errors.New("no such thing here")

	// ErrContainmentCycle is returned when a move would make an entity its
	// own ancestor. The move is rejected and no state is changed.
	ErrContainmentCycle = errors.New("move would create containment cycle")

	// ErrNoSuchEntity is returned when an entity id is not present in the
	// world registry.
	ErrNoSuchEntity = errors.New("no entity with that id")
)

// interpreterError is an error caused by attempting to interpret player
// input. Either the input could not be understood or it asks for something
// that is impossible or not allowed right now.
//
// It carries a human-readable message to show in-game as well as a more
// technical "error message" style message.
type interpreterError struct {
	msg   string
	human string
	wrap  error
}

func (e *interpreterError) Error() string {
	return e.msg
}

// GameMessage shows the message that should be displayed in-game to describe
// the error.
func (e *interpreterError) GameMessage() string {
	return e.human
}

// Unwrap gives the error that the InterpreterError wraps, if it wraps one.
func (e *interpreterError) Unwrap() error {
	return e.wrap
}

// Interpreter returns a new InterpreterError that has both the message to
// show the player and the technical description of the error.
func Interpreter(game, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("got InterpreterError(%q)", game)
	}
	return &interpreterError{
		msg:   technical,
		human: game,
	}
}

// Interpreterf returns a new InterpreterError that has a message to show to
// the player and an automatically generated Error() description. The
// arguments given are the format string and the arguments to the format
// string.
func Interpreterf(gameFormat string, a ...interface{}) error {
	gameMessage := fmt.Sprintf(gameFormat, a...)
	return Interpreter(gameMessage, "")
}

// WrapInterpreter returns a new InterpreterError that has both the message to
// show the player and the technical description of the error, and that wraps
// the given error.
func WrapInterpreter(e error, game, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("got InterpreterError(%q)", game)
	}
	return &interpreterError{
		msg:   technical,
		human: game,
		wrap:  e,
	}
}

// WrapInterpreterf returns a new InterpreterError that has both the message
// to show the player and an automatically generated Error() description, and
// that wraps the given error. The arguments given are the error to wrap,
// then the format followed by its arguments.
func WrapInterpreterf(e error, gameFormat string, a ...interface{}) error {
	gameMessage := fmt.Sprintf(gameFormat, a...)
	return WrapInterpreter(e, gameMessage, "")
}

// GameMessage gets the message to display to the console for the given
// error. If it is an InterpreterError, the special game message is returned.
// Otherwise, err.Error() is returned.
func GameMessage(err error) string {
	if intErr, ok := err.(*interpreterError); ok {
		return intErr.GameMessage()
	}
	return err.Error()
}
