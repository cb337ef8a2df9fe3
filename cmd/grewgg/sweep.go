package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonwright/grewgg/internal/cli"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Evaluate a motor series against a detector",
	Long: `Traces one frame per step of a motor series and records every result in
the chosen store. With --project, the scans planned by the project file run
instead of the --motor/--start/--step/--frames flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSweep(cmd); err != nil {
			fmt.Printf("%v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().StringP("detector", "d", "", "Detector name")
	sweepCmd.Flags().String("motor", "", "Motor to sweep")
	sweepCmd.Flags().Float64("start", 0, "First motor position")
	sweepCmd.Flags().Float64("step", 0, "Step between frames")
	sweepCmd.Flags().Int("frames", 1, "Number of frames")
	sweepCmd.Flags().StringArray("at", nil, "Fixed motor position as name=value (repeatable)")
	sweepCmd.Flags().String("origin", "0,0,0", "Beam origin as x,y,z")
	sweepCmd.Flags().String("dir", "1,0,0", "Beam direction as x,y,z")
	sweepCmd.Flags().String("scan-id", "", "Identifier for the stored results (defaults to a timestamped id)")
	sweepCmd.Flags().String("project", "", "Project file whose planned scans replace the series flags")
	sweepCmd.Flags().Int("workers", 0, "Parallel trace workers (0 uses the number of CPUs)")

	sweepCmd.Flags().String("store", "memory", "Result store: memory, file or redis")
	sweepCmd.Flags().String("store-path", "results", "Directory for the file store")
	sweepCmd.Flags().String("redis-addr", "localhost:6379", "Redis address for the redis store")
	sweepCmd.Flags().String("redis-password", "", "Redis password")
	sweepCmd.Flags().Int("redis-db", 0, "Redis database number")
	sweepCmd.Flags().Duration("ttl", 0, "Expiry for redis results (0 keeps them forever)")

	sweepCmd.Flags().Bool("json", false, "Stream the stored frames to stdout as NDJSON")
	sweepCmd.Flags().BoolP("quiet", "q", false, "Suppress progress messages")
}

func runSweep(cmd *cobra.Command) error {
	opts := getOptions(cmd)
	opts.ProjectPath, _ = cmd.Flags().GetString("project")
	opts.Workers, _ = cmd.Flags().GetInt("workers")

	sweep := cli.SweepOptions{}
	sweep.Detector, _ = cmd.Flags().GetString("detector")
	sweep.Motor, _ = cmd.Flags().GetString("motor")
	sweep.Start, _ = cmd.Flags().GetFloat64("start")
	sweep.Step, _ = cmd.Flags().GetFloat64("step")
	sweep.Frames, _ = cmd.Flags().GetInt("frames")
	sweep.Motors, _ = cmd.Flags().GetStringArray("at")
	sweep.Origin, _ = cmd.Flags().GetString("origin")
	sweep.Dir, _ = cmd.Flags().GetString("dir")
	sweep.ScanID, _ = cmd.Flags().GetString("scan-id")
	sweep.JSON, _ = cmd.Flags().GetBool("json")
	sweep.Quiet, _ = cmd.Flags().GetBool("quiet")

	sweep.Store.Kind, _ = cmd.Flags().GetString("store")
	sweep.Store.Path, _ = cmd.Flags().GetString("store-path")
	sweep.Store.RedisAddr, _ = cmd.Flags().GetString("redis-addr")
	sweep.Store.RedisPassword, _ = cmd.Flags().GetString("redis-password")
	sweep.Store.RedisDB, _ = cmd.Flags().GetInt("redis-db")
	sweep.Store.TTL, _ = cmd.Flags().GetDuration("ttl")

	if sweep.Detector == "" {
		return errors.New("--detector is required")
	}
	if opts.ProjectPath == "" && sweep.Motor == "" {
		return errors.New("--motor is required unless --project is given")
	}

	return cli.RunSweep(opts, sweep)
}
