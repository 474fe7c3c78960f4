package main

import (
	"context"
	"fmt"

	"github.com/aretw0/framecast/internal/validator"
	"github.com/aretw0/framecast/pkg/adapters/project"
	"github.com/aretw0/framecast/pkg/domain"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [project]",
	Short: "Check the project file for consistency",
	Long: `Parses the project and reports structural errors (unknown roles, negative
lengths, malformed tracks), then crawls the timeline for clips that can never be
composited and sources missing from the asset directory.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		exitOnError("Error loading configuration", err)
		if len(args) > 0 {
			cfg.Render.Project = args[0]
		}

		p, err := project.NewFileLoader(cfg.Render.Project).Load(context.Background())
		exitOnError("Validation failed", err)

		assetDir := cfg.Render.AssetDir
		if skip, _ := cmd.Flags().GetBool("skip-assets"); skip {
			assetDir = ""
		}
		exitOnError("Validation failed", validator.ValidateProject(p, assetDir))

		fmt.Printf("Project %q is valid: %d clip(s) ✅\n", p.Name, domain.CountClips(p.Root))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("skip-assets", false, "Do not check that clip sources exist")
}
