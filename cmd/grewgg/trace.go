package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonwright/grewgg/internal/cli"
	"github.com/jonwright/grewgg/pkg/detector"
)

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Trace a beam onto a detector",
	Long: `Fires a beam from an origin along a direction and reports where it
meets the detector plane, as a pixel coordinate and a lab position.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runTrace(cmd); err != nil {
			fmt.Printf("%v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(traceCmd)

	traceCmd.Flags().StringP("detector", "d", "", "Detector name")
	traceCmd.Flags().StringArray("motor", nil, "Motor position as name=value (repeatable)")
	traceCmd.Flags().String("origin", "0,0,0", "Beam origin as x,y,z")
	traceCmd.Flags().String("dir", "1,0,0", "Beam direction as x,y,z")
}

func runTrace(cmd *cobra.Command) error {
	detectorName, _ := cmd.Flags().GetString("detector")
	if detectorName == "" {
		return errors.New("--detector is required")
	}

	motorArgs, _ := cmd.Flags().GetStringArray("motor")
	motors, err := cli.ParseMotors(motorArgs)
	if err != nil {
		return err
	}
	originStr, _ := cmd.Flags().GetString("origin")
	origin, err := cli.ParseVector(originStr)
	if err != nil {
		return err
	}
	dirStr, _ := cmd.Flags().GetString("dir")
	dir, err := cli.ParseVector(dirStr)
	if err != nil {
		return err
	}

	model, _, err := cli.NewModel(getOptions(cmd))
	if err != nil {
		return err
	}

	hit, err := model.Trace(cmd.Context(), detectorName, motors, origin, dir)
	if errors.Is(err, detector.ErrNoIntersection) {
		// A beam parallel to the detector plane misses; report that as data.
		fmt.Println(`{"miss": true}`)
		return nil
	}
	if err != nil {
		return err
	}

	out := struct {
		Fast float64   `json:"fast"`
		Slow float64   `json:"slow"`
		Lab  []float64 `json:"lab"`
		S    float64   `json:"s"`
	}{
		Fast: hit.Pixel.Fast,
		Slow: hit.Pixel.Slow,
		Lab:  []float64{hit.Lab.X, hit.Lab.Y, hit.Lab.Z},
		S:    hit.S,
	}
	return json.NewEncoder(os.Stdout).Encode(out)
}
