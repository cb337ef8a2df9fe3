package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonwright/grewgg/internal/cli"
	"github.com/jonwright/grewgg/pkg/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check the beamline description for consistency",
	Long:  `Loads the beamline description and reports degenerate axes, unknown stack references and malformed records.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := getOptions(cmd)
		if !cmd.Flags().Changed("config") && len(args) > 0 {
			opts.ConfigPath = args[0]
		}

		if _, _, err := cli.NewModel(opts); err != nil {
			if issues := schema.ValidationErrors(err); len(issues) > 0 {
				fmt.Printf("Validation failed with %d problem(s):\n", len(issues))
				for _, issue := range issues {
					fmt.Printf("  - %v\n", issue)
				}
			} else {
				fmt.Printf("Validation failed: %v\n", err)
			}
			os.Exit(1)
		}
		fmt.Println("Beamline is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
