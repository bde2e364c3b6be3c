// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/neuralcode/internal/model"
	"github.com/jeranaias/neuralcode/internal/ollama"
)

func newModelsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List models installed in Ollama",
		Long: `List models installed in Ollama.

Models marked with * can be selected in the chat settings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			client := ollama.NewClientWithConfig(&ollama.ClientConfig{BaseURL: cfg.Backend.URL})
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			return listModels(ctx, client, cmd.OutOrStdout())
		},
	}
}

func listModels(ctx context.Context, client *ollama.Client, out io.Writer) error {
	installed, err := client.ListModels(ctx)
	if err != nil {
		if ollama.IsNotRunning(err) {
			return fmt.Errorf("ollama is not running at %s (start it with: ollama serve)", client.BaseURL())
		}
		return err
	}

	seen := make(map[string]bool, len(installed))
	for _, m := range installed {
		seen[m.Name] = true
		marker := " "
		if model.IsSupportedModel(m.Name) {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %-28s %10s  %s\n", marker, m.Name, m.FormatSize(), m.ModifiedAt.Format("2006-01-02"))
	}
	if len(installed) == 0 {
		fmt.Fprintln(out, infoStyle.Render("No models installed."))
	}

	for _, m := range model.Models() {
		if !seen[m.ID] {
			fmt.Fprintln(out, warningStyle.Render(fmt.Sprintf("  %s is selectable but not installed (ollama pull %s)", m.ID, m.ID)))
		}
	}
	return nil
}
