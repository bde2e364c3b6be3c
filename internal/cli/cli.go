// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/jeranaias/neuralcode/internal/archive"
	"github.com/jeranaias/neuralcode/internal/backend"
	"github.com/jeranaias/neuralcode/internal/config"
	"github.com/jeranaias/neuralcode/internal/driver"
	"github.com/jeranaias/neuralcode/internal/server"
	"github.com/jeranaias/neuralcode/internal/session"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// newBackend is swapped out by tests.
var newBackend = backend.New

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	verbose    bool
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree. Running it without a subcommand
// starts the TUI.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "neuralcode",
		Short:         "Chat with a local Ollama model",
		Long:          "NeuralCode is a chat client for locally hosted language models served by Ollama.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(flags.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(flags)
		},
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default ~/.neuralcode/config.toml)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log to stderr")

	server.Version = Version

	root.AddCommand(
		newTUICmd(flags),
		newChatCmd(flags),
		newAskCmd(flags),
		newServeCmd(flags),
		newModelsCmd(flags),
		newConfigCmd(flags),
		newHistoryCmd(flags),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "neuralcode %s (commit %s, built %s, %s/%s)\n",
				Version, GitCommit, BuildDate, runtime.GOOS, runtime.GOARCH)
		},
	}
}

// =============================================================================
// SHARED SETUP
// =============================================================================

func setupLogging(verbose bool) {
	if verbose {
		log.SetOutput(os.Stderr)
		return
	}
	log.SetOutput(io.Discard)
}

// loadConfig honours --config, then the config directory, then defaults.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	if flags.configPath != "" {
		return config.LoadFromPath(flags.configPath)
	}
	return config.Load()
}

// configPath returns the file in use, or "" when running on defaults.
func configPath(flags *globalFlags) string {
	if flags.configPath != "" {
		return flags.configPath
	}
	p, _ := config.FindPath()
	return p
}

// runtimeDeps is what every chat surface needs.
type runtimeDeps struct {
	cfg     *config.Config
	sess    *session.Session
	drv     *driver.Driver
	archive *archive.Store
}

func (d *runtimeDeps) Close() {
	if d.archive != nil {
		d.archive.Close()
	}
}

// newRuntime builds the session, backend and driver from cfg. The archive
// is opened only when enabled; failing to open it is logged, not fatal.
func newRuntime(cfg *config.Config) (*runtimeDeps, error) {
	b, err := newBackend(cfg.Backend.Driver, cfg.Backend.URL)
	if err != nil {
		return nil, err
	}

	deps := &runtimeDeps{
		cfg:  cfg,
		sess: session.New(session.WithSettings(cfg.Settings())),
	}

	var opts []driver.Option
	if cfg.Archive.Enabled {
		store, err := archive.Open(cfg.Archive.Path)
		if err != nil {
			log.Printf("ARCHIVE_OPEN_FAIL | path=%s err=%v", cfg.Archive.Path, err)
		} else {
			deps.archive = store
			opts = append(opts, driver.WithRecorder(store))
		}
	}
	deps.drv = driver.New(b, opts...)

	log.Printf("RUNTIME_READY | backend=%s model=%s archive=%t", b.Name(), cfg.Chat.ModelID, deps.archive != nil)
	return deps, nil
}
