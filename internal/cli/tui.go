// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jeranaias/neuralcode/internal/config"
	"github.com/jeranaias/neuralcode/internal/ui/chat"
	"github.com/jeranaias/neuralcode/internal/ui/styles"
)

func newTUICmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the full-screen chat (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(flags)
		},
	}
}

// runTUI owns the terminal until the user quits. Log output goes to the
// configured log file because stdout belongs to Bubble Tea.
func runTUI(flags *globalFlags) error {
	if !IsTTY() || !IsStdoutTTY() {
		return fmt.Errorf("the TUI needs a terminal; use 'neuralcode chat' or 'neuralcode ask' instead")
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	logFile, err := tea.LogToFile(cfg.UI.LogFile, "neuralcode")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	deps, err := newRuntime(cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	sender := chat.NewSender(chat.DefaultFPS)
	m := chat.New(chat.Options{
		Session:        deps.sess,
		Driver:         deps.drv,
		Theme:          styles.NewTheme(cfg.UI.Theme),
		Sender:         sender,
		ShowTimestamps: cfg.UI.ShowTimestamps,
	})
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	sender.Attach(p)

	if path := configPath(flags); path != "" {
		w, err := config.Watch(path, func(c *config.Config, err error) {
			if err != nil {
				sender.Send(chat.ConfigReloadedMsg{Err: err})
				return
			}
			sender.Send(chat.ConfigReloadedMsg{Settings: c.Settings()})
		})
		if err != nil {
			log.Printf("CONFIG_WATCH_FAIL | path=%s err=%v", path, err)
		} else {
			defer w.Close()
		}
	}

	log.Printf("TUI_START | session=%s", deps.sess.ID())
	_, err = p.Run()
	log.Printf("TUI_EXIT | messages=%d err=%v", deps.sess.Len(), err)
	return err
}
