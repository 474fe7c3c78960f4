package main

import (
	"context"
	"os"

	"github.com/aretw0/framecast/internal/cli"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "List the clips visible at a frame",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		exitOnError("Error loading configuration", err)

		frame, _ := cmd.Flags().GetInt("frame")
		debug, _ := cmd.Flags().GetBool("debug")
		logger := cli.CreateLogger(cfg.Log, debug)

		img, err := cli.NewCodec(cfg.Render)
		exitOnError("Error initializing codec", err)
		engine, err := cli.CreateEngine(context.Background(), cfg, img, logger)
		exitOnError("Error loading project", err)

		cli.PrintResolve(os.Stdout, frame, engine.Resolve(frame))
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().IntP("frame", "f", 0, "Frame number")
}
