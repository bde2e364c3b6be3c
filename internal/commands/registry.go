// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Handler runs a command. args are the quote-aware tokens after the name;
// raw is the untokenised remainder, for arguments that may contain spaces.
type Handler func(args []string, raw string) error

// Command represents a slash command that can be executed.
type Command struct {
	// Name is the primary command name (e.g., "/help")
	Name string

	// Aliases are alternative names (e.g., "/h", "/?")
	Aliases []string

	// Description is shown in help and completion
	Description string

	// Usage shows argument syntax (e.g., "/model [id]")
	Usage string

	// Values completes the first argument. Nil means free-form.
	Values func() []string

	// Handler executes the command. Nil for commands that only quit.
	Handler Handler

	// Quit ends the session after the handler runs
	Quit bool
}

// ErrUnknownCommand is returned by Execute for names not in the registry.
var ErrUnknownCommand = errors.New("unknown command")

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds commands in registration order.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
	order    []*Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
}

// Register adds a command. Registering a name twice replaces the first.
func (r *Registry) Register(cmd *Command) {
	name := normalize(cmd.Name)
	if old, ok := r.commands[name]; ok {
		for i, c := range r.order {
			if c == old {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
	r.commands[name] = cmd
	r.order = append(r.order, cmd)
	for _, alias := range cmd.Aliases {
		r.aliases[normalize(alias)] = cmd
	}
}

// Get retrieves a command by name or alias, ignoring case. The leading
// slash is optional.
func (r *Registry) Get(name string) *Command {
	name = normalize(name)
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	return r.aliases[name]
}

// All returns all registered commands in registration order.
func (r *Registry) All() []*Command {
	out := make([]*Command, len(r.order))
	copy(out, r.order)
	return out
}

// Execute parses input and runs the matching command. It reports whether
// the command asked to quit.
func (r *Registry) Execute(input string) (quit bool, err error) {
	res := r.Parse(input)
	if !res.IsCommand {
		return false, fmt.Errorf("not a command: %q", input)
	}
	if res.Command == nil {
		return false, fmt.Errorf("%w %s", ErrUnknownCommand, res.CommandName)
	}
	if h := res.Command.Handler; h != nil {
		if err := h(res.Args, res.RawArgs); err != nil {
			return false, err
		}
	}
	return res.Command.Quit, nil
}

// normalize lower-cases name and adds the leading slash.
func normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	return name
}
