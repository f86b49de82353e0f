package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/ballpark"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of ballpark",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ballpark version %s\n", strings.TrimSpace(ballpark.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
