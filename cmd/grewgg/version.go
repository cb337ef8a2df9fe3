package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonwright/grewgg"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of grewgg",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("grewgg version %s\n", strings.TrimSpace(grewgg.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
