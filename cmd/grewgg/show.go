package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jonwright/grewgg/internal/cli"
	"github.com/jonwright/grewgg/internal/presentation/report"
	"github.com/jonwright/grewgg/internal/presentation/tui"
)

var showCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Print a readable summary of the beamline",
	Long:  `Renders the instruments, detectors and parameters of the beamline description as a Markdown report, styled when stdout is a terminal.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := getOptions(cmd)
		if !cmd.Flags().Changed("config") && len(args) > 0 {
			opts.ConfigPath = args[0]
		}
		raw, _ := cmd.Flags().GetBool("raw")

		model, _, err := cli.NewModel(opts)
		if err != nil {
			fmt.Printf("%v\n", err)
			os.Exit(1)
		}

		md := report.Markdown(model.Name, model.Beamline())

		if raw || !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Print(md)
			return
		}

		out, err := tui.NewRenderer()(md)
		if err != nil {
			// Fall back to the plain report when styling fails.
			fmt.Print(md)
			return
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().Bool("raw", false, "Print plain Markdown without terminal styling")
}
