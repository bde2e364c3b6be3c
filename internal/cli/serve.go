// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/neuralcode/internal/server"
)

// shutdownTimeout bounds how long a running stream may delay exit.
const shutdownTimeout = 10 * time.Second

func newServeCmd(flags *globalFlags) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the session over a local HTTP API",
		Long: `Serve one chat session over HTTP on 127.0.0.1.

Chat replies stream as newline-delimited JSON. Only one exchange runs at a
time; other requests get 409 Conflict while it does.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.Server.Port = port
			}
			// The server logs every request; keep that visible.
			log.SetOutput(os.Stderr)

			deps, err := newRuntime(cfg)
			if err != nil {
				return err
			}
			defer deps.Close()

			srv := server.New(deps.sess, deps.drv, server.Config{
				Port:      cfg.Server.Port,
				RateLimit: cfg.Server.RateLimit,
				Burst:     cfg.Server.Burst,
			})

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Listening on http://"+srv.Addr()))

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				log.Printf("SERVER_SIGNAL | signal=%s", sig)
			}

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "port to listen on (overrides config)")
	return cmd
}
