package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/framecast/internal/cli"
	"github.com/aretw0/framecast/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect the session directory",
}

var sessionsListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List sessions recorded in Redis",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		exitOnError("Error loading configuration", err)
		if cmd.Flags().Changed("redis") {
			cfg.Redis.Addr, _ = cmd.Flags().GetString("redis")
		}
		if cfg.Redis.Addr == "" {
			exitOnError("Error", fmt.Errorf("no session directory configured (set redis.addr or FRAMECAST_REDIS_ADDR)"))
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		store, err := cli.NewStore(ctx, cfg.Redis)
		exitOnError("Error", err)
		defer store.Close()

		_, err = cli.ListSessions(ctx, store, os.Stdout, tui.NewRenderer())
		exitOnError("Error", err)
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsListCmd.Flags().String("redis", "", "Redis address (overrides configuration)")
}
