package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is filled at build time.
var Version = "development"

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(Version)
	},
}
