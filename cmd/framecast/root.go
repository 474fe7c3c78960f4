package main

import (
	"fmt"
	"os"

	"github.com/aretw0/framecast/internal/cli"
	"github.com/aretw0/framecast/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "framecast",
	Short: "Framecast renders layered timelines into live frame streams",
	Long: `Framecast composites the clips of a hierarchical timeline into frames and
delivers them to viewers, paced at a fixed rate or on demand.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("project", "", "Project file (YAML or JSON); discovered in the working directory when empty")
	rootCmd.PersistentFlags().String("config", "", "Configuration file (YAML)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// loadConfig layers the --config file, the environment and the --project
// flag, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	project, _ := cmd.Flags().GetString("project")
	if project == "" && cfg.Render.Project == config.Default().Render.Project {
		project = cli.ResolveProjectPath("", ".", cfg.Render.Project)
	}
	if project != "" {
		cfg.Render.Project = project
	}
	return cfg, nil
}

// exitOnError prints err and terminates the process.
func exitOnError(prefix string, err error) {
	if err != nil {
		fmt.Printf("%s: %v\n", prefix, err)
		os.Exit(1)
	}
}
