package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/framecast"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of framecast",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("framecast version %s\n", strings.TrimSpace(framecast.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
