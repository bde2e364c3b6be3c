// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Line-mode chat for terminals where the TUI is unwanted.
//
// Interactive commands:
//   /new                 Start a new chat with the default program
//   /clear               Clear the conversation, keep the program
//   /load [name]         Load a program (no name opens a picker)
//   /programs [query]    List recent programs
//   /temp <v>            Set temperature (0.0-1.0)
//   /tokens <n>          Set max tokens (256-2048, step 256)
//   /model [id]          Show or switch model
//   /quick <action>      Prefill an empty chat (analyze, create, debug, optimize)
//   /export [path]       Write the transcript (.md, .json or .html)
//   /help                Show commands
//   /quit                Exit
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/neuralcode/internal/commands"
	"github.com/jeranaias/neuralcode/internal/config"
	"github.com/jeranaias/neuralcode/internal/driver"
	"github.com/jeranaias/neuralcode/internal/export"
	"github.com/jeranaias/neuralcode/internal/model"
	"github.com/jeranaias/neuralcode/internal/session"
	"github.com/jeranaias/neuralcode/internal/ui/components"
	"github.com/jeranaias/neuralcode/internal/util"
)

// HistoryFileName is the REPL input history inside the config directory.
const HistoryFileName = "history"

func newChatCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive line-mode chat",
		Long: `Interactive line-mode chat with slash commands.

Replies stream as plain text. Type /help for the command list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			deps, err := newRuntime(cfg)
			if err != nil {
				return err
			}
			defer deps.Close()

			r := newREPL(deps.sess, deps.drv, cmd.OutOrStdout())
			r.highlight = ColorsEnabled()
			r.pick = pickProgram
			return r.loop(cmd.Context())
		},
	}
}

// =============================================================================
// INPUT HISTORY
// =============================================================================

// lineReader provides input history and line editing.
type lineReader struct {
	line        *liner.State
	historyFile string
}

func newLineReader() *lineReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	lr := &lineReader{line: line, historyFile: filepath.Join(dir, HistoryFileName)}
	if f, err := os.Open(lr.historyFile); err == nil {
		lr.line.ReadHistory(f)
		f.Close()
	}
	return lr
}

func (lr *lineReader) Prompt(prompt string) (string, error) {
	input, err := lr.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		lr.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history owner-readable only and restores the terminal.
func (lr *lineReader) Close() {
	if err := os.MkdirAll(filepath.Dir(lr.historyFile), 0700); err == nil {
		if f, err := os.OpenFile(lr.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			lr.line.WriteHistory(f)
			f.Close()
		}
	}
	lr.line.Close()
}

// =============================================================================
// REPL
// =============================================================================

// repl drives one session from typed lines. It is the only goroutine that
// touches the session, so no busy flag is needed.
type repl struct {
	sess *session.Session
	drv  *driver.Driver
	out  io.Writer

	// highlight re-prints fenced code with chroma after each reply
	highlight bool
	// pick chooses a program interactively; "" means cancelled
	pick func([]model.Program) (string, error)

	commands *commands.Registry
}

func newREPL(sess *session.Session, drv *driver.Driver, out io.Writer) *repl {
	r := &repl{sess: sess, drv: drv, out: out}
	r.registerCommands()
	return r
}

func (r *repl) loop(ctx context.Context) error {
	lr := newLineReader()
	defer lr.Close()
	lr.line.SetCompleter(r.commands.Complete)

	r.printWelcome()
	for {
		input, err := lr.Prompt("neuralcode> ")
		if err != nil {
			if !errors.Is(err, liner.ErrPromptAborted) && !errors.Is(err, io.EOF) {
				log.Printf("REPL_INPUT_FAIL | err=%v", err)
			}
			fmt.Fprintln(r.out)
			return nil
		}
		if r.handle(ctx, input) {
			return nil
		}
	}
}

// handle processes one input line and reports whether the user quit.
func (r *repl) handle(ctx context.Context, input string) bool {
	input = strings.TrimSpace(input)
	switch {
	case input == "":
		return false
	case strings.EqualFold(input, "exit"), strings.EqualFold(input, "quit"):
		return true
	case commands.IsCommand(input):
		quit, err := r.commands.Execute(input)
		if errors.Is(err, commands.ErrUnknownCommand) {
			err = fmt.Errorf("%w (type /help)", err)
		}
		if err != nil {
			fmt.Fprintln(r.out, errorStyle.Render("Error:"), err)
		}
		return quit
	default:
		r.send(ctx, input)
		return false
	}
}

// registerCommands binds every slash command to this REPL.
func (r *repl) registerCommands() {
	reg := commands.NewRegistry()
	programNames := func() []string {
		var names []string
		for _, p := range r.sess.Programs() {
			names = append(names, p.Name)
		}
		return names
	}
	quickLabels := func() []string {
		var labels []string
		for _, qa := range model.QuickActions() {
			labels = append(labels, strings.ToLower(qa.Label))
		}
		return labels
	}

	reg.Register(&commands.Command{
		Name:        "/new",
		Description: "Start a new chat with the default program",
		Handler: func([]string, string) error {
			r.sess.NewChat()
			r.info("New chat with %s.", r.sess.CurrentProgram())
			return nil
		},
	})
	reg.Register(&commands.Command{
		Name:        "/clear",
		Aliases:     []string{"/c"},
		Description: "Clear the conversation, keep the program",
		Handler: func([]string, string) error {
			r.sess.ClearChat()
			r.info("Conversation cleared.")
			return nil
		},
	})
	reg.Register(&commands.Command{
		Name:        "/load",
		Aliases:     []string{"/l"},
		Usage:       "/load [name]",
		Description: "Load a program (no name opens a picker)",
		Values:      programNames,
		Handler:     func(args []string, _ string) error { return r.load(strings.Join(args, " ")) },
	})
	reg.Register(&commands.Command{
		Name:        "/programs",
		Aliases:     []string{"/p"},
		Usage:       "/programs [query]",
		Description: "List recent programs",
		Handler: func(args []string, _ string) error {
			r.listPrograms(strings.Join(args, " "))
			return nil
		},
	})
	reg.Register(&commands.Command{
		Name:        "/temp",
		Usage:       "/temp <v>",
		Description: "Set temperature (0.0-1.0)",
		Handler: func(args []string, _ string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: /temp <0.0-1.0>")
			}
			v, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("usage: /temp <0.0-1.0>")
			}
			return r.updateSettings(func(s *model.Settings) { s.Temperature = v })
		},
	})
	reg.Register(&commands.Command{
		Name:        "/tokens",
		Usage:       "/tokens <n>",
		Description: fmt.Sprintf("Set max tokens (%d-%d, step %d)", model.MinMaxTokens, model.MaxMaxTokens, model.MaxTokensStep),
		Handler: func(args []string, _ string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: /tokens <%d-%d>", model.MinMaxTokens, model.MaxMaxTokens)
			}
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("usage: /tokens <%d-%d>", model.MinMaxTokens, model.MaxMaxTokens)
			}
			return r.updateSettings(func(s *model.Settings) { s.MaxTokens = n })
		},
	})
	reg.Register(&commands.Command{
		Name:        "/model",
		Aliases:     []string{"/m"},
		Usage:       "/model [id]",
		Description: "Show or switch model",
		Values:      model.ModelIDs,
		Handler: func(args []string, _ string) error {
			if len(args) == 0 {
				r.listModels()
				return nil
			}
			return r.updateSettings(func(s *model.Settings) { s.ModelID = args[0] })
		},
	})
	reg.Register(&commands.Command{
		Name:        "/quick",
		Usage:       "/quick <action>",
		Description: "Prefill an empty chat: " + strings.Join(quickLabels(), ", "),
		Values:      quickLabels,
		Handler: func(args []string, _ string) error {
			return r.quick(strings.Join(args, " "), quickLabels())
		},
	})
	reg.Register(&commands.Command{
		Name:        "/export",
		Usage:       "/export [path]",
		Description: "Write the transcript (.md, .json or .html)",
		Handler:     func(args []string, _ string) error { return r.export(strings.Join(args, " ")) },
	})
	reg.Register(&commands.Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Description: "Show this help",
		Handler: func([]string, string) error {
			r.printHelp()
			return nil
		},
	})
	reg.Register(&commands.Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Description: "Exit",
		Quit:        true,
	})

	r.commands = reg
}

// =============================================================================
// SENDING
// =============================================================================

// send streams the reply as raw text, then re-prints fenced code blocks
// highlighted when enabled.
func (r *repl) send(ctx context.Context, text string) {
	printed := 0
	res := r.drv.Send(ctx, r.sess, text, func(u driver.Update) {
		if u.Done {
			return
		}
		partial := strings.TrimSuffix(u.Text, driver.CursorMarker)
		if len(partial) > printed {
			fmt.Fprint(r.out, partial[printed:])
			printed = len(partial)
		}
	})

	if res.Err != nil {
		if printed > 0 {
			fmt.Fprintln(r.out)
		}
		fmt.Fprintln(r.out, errorStyle.Render(res.Reply.Content))
		return
	}
	if content := res.Reply.Content; len(content) > printed {
		fmt.Fprint(r.out, content[printed:])
	}
	fmt.Fprintln(r.out)

	if r.highlight {
		r.printHighlighted(res.Reply.Content)
	}
}

func (r *repl) printHighlighted(reply string) {
	for _, seg := range components.SplitCodeBlocks(reply) {
		if !seg.Code {
			continue
		}
		label := seg.Language
		if label == "" {
			label = "code"
		}
		fmt.Fprintln(r.out, infoStyle.Render("── "+label+" ──"))
		fmt.Fprintln(r.out, components.Highlight(seg.Text, seg.Language, "monokai"))
	}
}

// =============================================================================
// COMMANDS
// =============================================================================

func (r *repl) load(name string) error {
	if name == "" {
		if r.pick == nil {
			return fmt.Errorf("usage: /load <program>")
		}
		picked, err := r.pick(slices.Collect(r.sess.FilterPrograms("")))
		if err != nil || picked == "" {
			return err
		}
		name = picked
	}

	for _, p := range r.sess.Programs() {
		if strings.EqualFold(p.Name, name) {
			r.sess.LoadProgram(p.Name)
			r.info("Loaded %s %s.", p.Icon, p.Name)
			return nil
		}
	}
	return fmt.Errorf("unknown program %q (see /programs)", name)
}

func (r *repl) listPrograms(query string) {
	now := r.sess.Now()
	current := r.sess.CurrentProgram()
	n := 0
	for p := range r.sess.FilterPrograms(query) {
		marker := "  "
		if p.Name == current {
			marker = "> "
		}
		fmt.Fprintf(r.out, "%s%s %s %s\n", marker, p.Icon,
			util.PadWidth(util.TruncateWidth(p.Name, 24), 24), infoStyle.Render(p.RelativeTime(now)))
		n++
	}
	if n == 0 {
		r.info("No programs match %q.", query)
	}
}

func (r *repl) listModels() {
	current := r.sess.Settings().ModelID
	for _, m := range model.Models() {
		marker := "  "
		if m.ID == current {
			marker = "> "
		}
		fmt.Fprintf(r.out, "%s%-18s %s\n", marker, m.ID, infoStyle.Render(m.Name+" - "+m.Description))
	}
}

func (r *repl) updateSettings(change func(*model.Settings)) error {
	s := r.sess.Settings()
	change(&s)
	if err := r.sess.SetSettings(s); err != nil {
		return err
	}
	s = r.sess.Settings()
	r.info("temperature %.1f, max tokens %d, model %s", s.Temperature, s.MaxTokens, s.ModelID)
	return nil
}

func (r *repl) quick(label string, labels []string) error {
	action, ok := model.LookupQuickAction(label)
	if !ok {
		return fmt.Errorf("usage: /quick <%s>", strings.Join(labels, "|"))
	}
	if !r.sess.ApplyQuickAction(action) {
		return fmt.Errorf("quick actions only apply to an empty chat (try /clear)")
	}
	r.info("Added %q to the conversation.", action.Prefill)
	return nil
}

// export writes to path, picking the format from its extension. No path,
// or a directory, gets a generated Markdown filename.
func (r *repl) export(path string) error {
	t := export.FromSession(r.sess)

	if path == "" {
		path = "."
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		written, err := export.ExportToFile(t, export.NewMarkdownExporter(), path)
		if err != nil {
			return err
		}
		r.success("Exported to %s", written)
		return nil
	}

	exporter, err := export.ForFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return err
	}
	data, err := exporter.Export(t)
	if err != nil {
		return err
	}
	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	r.success("Exported to %s", path)
	return nil
}

// =============================================================================
// OUTPUT
// =============================================================================

func (r *repl) info(format string, args ...any) {
	fmt.Fprintln(r.out, infoStyle.Render(fmt.Sprintf(format, args...)))
}

func (r *repl) success(format string, args ...any) {
	fmt.Fprintln(r.out, successStyle.Render(fmt.Sprintf(format, args...)))
}

func (r *repl) printWelcome() {
	s := r.sess.Settings()
	fmt.Fprintln(r.out, titleStyle.Render(model.DefaultProgramName))
	r.info("program %s | model %s | temperature %.1f | max tokens %d",
		r.sess.CurrentProgram(), s.ModelID, s.Temperature, s.MaxTokens)
	r.info("Type /help for commands, /quit to exit.")
	fmt.Fprintln(r.out)
}

func (r *repl) printHelp() {
	for _, c := range r.commands.All() {
		usage := c.Usage
		if usage == "" {
			usage = c.Name
		}
		fmt.Fprintf(r.out, "  %s %s\n", commandStyle.Render(fmt.Sprintf("%-18s", usage)), c.Description)
	}
}
