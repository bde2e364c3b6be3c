// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/jeranaias/neuralcode/internal/model"
)

type askOptions struct {
	model   string
	program string
	raw     bool
}

func newAskCmd(flags *globalFlags) *cobra.Command {
	opts := &askOptions{}
	cmd := &cobra.Command{
		Use:   `ask "prompt"`,
		Short: "Ask a single question",
		Long: `Ask a single question on a fresh session and print the reply.

The prompt may also be piped on stdin. Replies are rendered as markdown when
stdout is a terminal.`,
		Example: `  neuralcode ask "What is a goroutine?"
  neuralcode ask --model mistral:7b "Explain this" < main.go`,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.Join(args, " ")
			if !IsTTY() {
				piped, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				prompt = strings.TrimSpace(prompt + "\n\n" + string(piped))
			}
			return runAsk(cmd.Context(), flags, opts, cmd.OutOrStdout(), prompt, !opts.raw && IsStdoutTTY())
		},
	}
	cmd.Flags().StringVarP(&opts.model, "model", "m", "", "model to use (overrides config)")
	cmd.Flags().StringVarP(&opts.program, "program", "p", "", "program to load before asking")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "print the reply without markdown rendering")
	return cmd
}

func runAsk(ctx context.Context, flags *globalFlags, opts *askOptions, out io.Writer, prompt string, pretty bool) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fmt.Errorf("nothing to ask: pass a prompt or pipe one on stdin")
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	if opts.model != "" {
		cfg.Chat.ModelID = opts.model
		if err := cfg.Chat.Validate(); err != nil {
			return err
		}
	}

	deps, err := newRuntime(cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	if opts.program != "" {
		if !hasProgram(deps.sess.Programs(), opts.program) {
			return fmt.Errorf("unknown program %q", opts.program)
		}
		deps.sess.LoadProgram(opts.program)
	}

	res := deps.drv.Send(ctx, deps.sess, prompt, nil)
	if res.Err != nil {
		return res.Err
	}

	reply := res.Reply.Content
	if pretty {
		reply = renderMarkdown(reply, GetTerminalWidth())
	}
	fmt.Fprintln(out, strings.TrimRight(reply, "\n"))
	return nil
}

// renderMarkdown renders with glamour, falling back to the raw text.
func renderMarkdown(text string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-4),
		glamour.WithEmoji(),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return out
}

func hasProgram(programs []model.Program, name string) bool {
	for _, p := range programs {
		if p.Name == name {
			return true
		}
	}
	return false
}
