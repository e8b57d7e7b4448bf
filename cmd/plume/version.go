package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plumehq/plume"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of plume",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("plume version %s\n", plume.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
