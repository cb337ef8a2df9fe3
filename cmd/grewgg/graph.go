package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonwright/grewgg/internal/cli"
	"github.com/jonwright/grewgg/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [file]",
	Short: "Export the beamline graph visualization",
	Long:  `Inspects the beamline description and outputs a Mermaid diagram (graph TD) of the positioner stacks and detector mounts.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := getOptions(cmd)
		if !cmd.Flags().Changed("config") && len(args) > 0 {
			opts.ConfigPath = args[0]
		}

		model, _, err := cli.NewModel(opts)
		if err != nil {
			fmt.Printf("%v\n", err)
			os.Exit(1)
		}

		// Generate and print Mermaid graph
		output := graph.GenerateMermaid(model.Beamline())
		fmt.Print(output)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
