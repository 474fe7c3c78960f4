package main

import (
	"context"
	"net"

	"github.com/aretw0/framecast/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP frame server",
	Long: `Loads the project and serves sessions over HTTP: create a session with
POST /sessions, watch it at /sessions/{id}/stream and steer it by posting frame
numbers to /sessions/{id}/control.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		exitOnError("Error loading configuration", err)

		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
		}
		if cmd.Flags().Changed("mode") {
			cfg.Render.Mode, _ = cmd.Flags().GetString("mode")
			exitOnError("Invalid configuration", cfg.Validate())
		}

		debug, _ := cmd.Flags().GetBool("debug")
		logger := cli.CreateLogger(cfg.Log, debug)

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		app, err := cli.NewApp(sigCtx, cfg, logger)
		exitOnError("Error initializing server", err)

		ln, err := net.Listen("tcp", cfg.Server.Addr)
		exitOnError("Error listening", err)

		exitOnError("Server error", cli.Serve(sigCtx, app, ln))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", ":8080", "Address to listen on")
	serveCmd.Flags().String("mode", "paced", "Default delivery mode (paced or on-demand)")
}
