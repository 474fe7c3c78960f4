package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/framecast/internal/cli"
	"github.com/aretw0/framecast/pkg/adapters/codec"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render frames to image files",
	Long:  `Composites frames --frame through --to and writes them to the output directory as frame_NNNN.png.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		exitOnError("Error loading configuration", err)

		if out, _ := cmd.Flags().GetString("out"); cmd.Flags().Changed("out") {
			cfg.Render.OutputDir = out
		}
		from, _ := cmd.Flags().GetInt64("frame")
		to := from
		if cmd.Flags().Changed("to") {
			to, _ = cmd.Flags().GetInt64("to")
		}

		debug, _ := cmd.Flags().GetBool("debug")
		logger := cli.CreateLogger(cfg.Log, debug)

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		img, err := cli.NewCodec(cfg.Render)
		exitOnError("Error initializing codec", err)
		engine, err := cli.CreateEngine(sigCtx, cfg, img, logger)
		exitOnError("Error loading project", err)

		writer, err := codec.NewWriter(cfg.Render.OutputDir, engine.Codec(), img.Extension())
		exitOnError("Error preparing output", err)

		sum, err := cli.RenderRange(sigCtx, engine, writer, from, to, os.Stdout, logger)
		fmt.Printf("Rendered %d frame(s), %d empty, %d failed\n", len(sum.Written), len(sum.Empty), len(sum.Failed))
		exitOnError("Render failed", err)
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().Int64P("frame", "f", 0, "First frame to render")
	renderCmd.Flags().Int64("to", 0, "Last frame to render (inclusive, defaults to --frame)")
	renderCmd.Flags().StringP("out", "o", "outputs", "Output directory")
}
