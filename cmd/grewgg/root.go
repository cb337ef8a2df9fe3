package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonwright/grewgg/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "grewgg",
	Short: "grewgg is a beamline geometry engine",
	Long: `grewgg models a beamline as stacks of motorized positioner axes and
computes where beams meet detectors. Beamlines are described in YAML files;
rotations are given in degrees.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "fable.yml", "Beamline description file")
	rootCmd.PersistentFlags().String("par", "", "ImageD11 .par file layered over the beamline parameters")
	rootCmd.PersistentFlags().StringP("log-level", "l", "", "Log level: debug, info, warn or error (empty disables logging)")
}

// getOptions collects the persistent flags shared by every command.
func getOptions(cmd *cobra.Command) cli.Options {
	config, _ := cmd.Flags().GetString("config")
	par, _ := cmd.Flags().GetString("par")
	level, _ := cmd.Flags().GetString("log-level")

	return cli.Options{
		ConfigPath: config,
		ParFile:    par,
		LogLevel:   level,
	}
}
