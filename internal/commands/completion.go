// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"sort"
	"strings"
)

// Complete returns full-line completions for line, suitable for a liner
// completer. Command names complete while the first word is being typed;
// after a space, the command's Values complete the first argument.
func (r *Registry) Complete(line string) []string {
	if !IsCommand(line) {
		return nil
	}
	line = strings.TrimLeft(line, " \t")

	name, partial, hasArg := strings.Cut(line, " ")
	if !hasArg {
		return r.completeNames(name)
	}

	cmd := r.Get(name)
	if cmd == nil || cmd.Values == nil {
		return nil
	}
	partial = strings.TrimLeft(partial, " ")

	var out []string
	lower := strings.ToLower(partial)
	for _, v := range cmd.Values() {
		if strings.HasPrefix(strings.ToLower(v), lower) {
			out = append(out, name+" "+v)
		}
	}
	return out
}

// completeNames matches primary names first, then aliases, each sorted.
func (r *Registry) completeNames(partial string) []string {
	partial = strings.ToLower(partial)
	var names, aliases []string
	for _, cmd := range r.order {
		if strings.HasPrefix(cmd.Name, partial) {
			names = append(names, cmd.Name)
		}
		for _, a := range cmd.Aliases {
			if strings.HasPrefix(a, partial) && a != partial {
				aliases = append(aliases, a)
			}
		}
	}
	sort.Strings(names)
	sort.Strings(aliases)
	return append(names, aliases...)
}
