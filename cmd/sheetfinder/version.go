// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sheetfinder/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of sheetfinder",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sheetfinder %s (commit %s, built %s)\n", version.Version, version.Commit, version.Date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
