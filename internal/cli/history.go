// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jeranaias/neuralcode/internal/archive"
	"github.com/jeranaias/neuralcode/internal/util"
)

// historyPreviewWidth bounds the prompt and reply previews.
const historyPreviewWidth = 72

func newHistoryCmd(flags *globalFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show archived exchanges",
		Long: `Show the most recent archived exchanges, newest first.

The archive is written only when [archive] enabled = true in the config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if _, err := os.Stat(cfg.Archive.Path); os.IsNotExist(err) {
				fmt.Fprintln(cmd.OutOrStdout(), infoStyle.Render("No archive yet. Set [archive] enabled = true to start one."))
				return nil
			}
			store, err := archive.Open(cfg.Archive.Path)
			if err != nil {
				return err
			}
			defer store.Close()
			return printHistory(cmd.Context(), store, cmd.OutOrStdout(), limit, time.Now())
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of exchanges to show")
	return cmd
}

func printHistory(ctx context.Context, store *archive.Store, out io.Writer, limit int, now time.Time) error {
	exchanges, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}
	total, err := store.Count(ctx)
	if err != nil {
		return err
	}
	if len(exchanges) == 0 {
		fmt.Fprintln(out, infoStyle.Render("The archive is empty."))
		return nil
	}

	for _, ex := range exchanges {
		status := successStyle.Render("ok")
		if ex.Failed {
			status = errorStyle.Render("failed")
		}
		fmt.Fprintf(out, "%s  %s  %s  %s\n",
			titleStyle.Render(ex.Program), infoStyle.Render(ex.Model),
			infoStyle.Render(humanize.RelTime(ex.At, now, "ago", "from now")), status)
		fmt.Fprintf(out, "  > %s\n", util.TruncateWidth(util.FirstLine(ex.Prompt), historyPreviewWidth))
		fmt.Fprintf(out, "  < %s\n\n", util.TruncateWidth(util.FirstLine(ex.Reply), historyPreviewWidth))
	}
	fmt.Fprintln(out, infoStyle.Render(fmt.Sprintf("Showing %d of %s exchanges.", len(exchanges), humanize.Comma(int64(total)))))
	return nil
}
