/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package command

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/Dykam/gangwars/errors"
)

// Sender issues commands. The console is the sender with a nil ID.
type Sender struct {
	ID   uuid.UUID
	Name string
}

// Console is the server console.
var Console = Sender{Name: "CONSOLE"}

// IsConsole reports whether s is the server console.
func (s Sender) IsConsole() bool {
	return s.ID == uuid.Nil
}

// Messenger delivers chat messages. Messages to uuid.Nil go to the console.
type Messenger interface {
	Send(to uuid.UUID, message string)
}

// Handler runs a command whose argument count has been checked. Outcomes
// the sender should see are sent as messages; the returned error is
// reserved for failures of the server itself.
type Handler func(ctx context.Context, sender Sender, args []string) error

// Command is a named handler taking a fixed number of arguments.
type Command struct {
	Name  string
	Args  []string
	Usage string
	// PlayerOnly commands cannot be run from the console.
	PlayerOnly bool
	Run        Handler
}

// Arity returns the number of arguments c takes.
func (c Command) Arity() int {
	return len(c.Args)
}

// Synopsis renders the invocation of c, such as "/gang-join <gang>".
func (c Command) Synopsis() string {
	var b strings.Builder
	b.WriteString("/" + c.Name)
	for _, a := range c.Args {
		b.WriteString(" <" + a + ">")
	}
	return b.String()
}

// UsageError is returned when a command is called with the wrong number of
// arguments.
type UsageError struct {
	Command Command
	Got     int
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("usage: %s (got %d arguments, want %d)", e.Command.Synopsis(), e.Got, e.Command.Arity())
}

func (e *UsageError) Is(target error) bool {
	return target == errors.ErrInvalidInput
}

// Dispatcher routes command lines to registered commands.
type Dispatcher struct {
	commands map[string]Command
}

// NewDispatcher creates a dispatcher without commands.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{commands: make(map[string]Command)}
}

// Register adds c. Registering a name twice panics.
func (d *Dispatcher) Register(c Command) {
	if _, exists := d.commands[c.Name]; exists {
		panic(fmt.Sprintf("command: %s registered twice", c.Name))
	}
	d.commands[c.Name] = c
}

// Lookup returns the command called name.
func (d *Dispatcher) Lookup(name string) (Command, bool) {
	c, ok := d.commands[name]
	return c, ok
}

// Commands returns every registered command ordered by name.
func (d *Dispatcher) Commands() []Command {
	out := make([]Command, 0, len(d.commands))
	for _, c := range d.commands {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b Command) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Dispatch runs the command called name for sender. Unknown commands, and
// player commands sent from the console, fail with errors.ErrNotFound; a
// wrong argument count fails with a *UsageError.
func (d *Dispatcher) Dispatch(ctx context.Context, sender Sender, name string, args []string) error {
	c, ok := d.commands[name]
	if !ok || (c.PlayerOnly && sender.IsConsole()) {
		return errors.NewNotFoundError("command", name)
	}
	if len(args) != c.Arity() {
		return &UsageError{Command: c, Got: len(args)}
	}
	return c.Run(ctx, sender, args)
}

// DispatchLine splits line into a command name and its arguments and
// dispatches it. A leading slash is optional. Blank lines are ignored.
func (d *Dispatcher) DispatchLine(ctx context.Context, sender Sender, line string) error {
	name, args, ok := Parse(line)
	if !ok {
		return nil
	}
	return d.Dispatch(ctx, sender, name, args)
}

// Parse splits a command line on white space.
func Parse(line string) (name string, args []string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.TrimPrefix(fields[0], "/"), fields[1:], true
}
