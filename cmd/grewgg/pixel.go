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

var pixelCmd = &cobra.Command{
	Use:   "pixel",
	Short: "Map a detector pixel to lab coordinates",
	Long:  `Computes the lab-frame position of one detector pixel for the given motor setting.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runPixel(cmd); err != nil {
			fmt.Printf("%v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(pixelCmd)

	pixelCmd.Flags().StringP("detector", "d", "", "Detector name")
	pixelCmd.Flags().String("pixel", "", "Pixel coordinate as fast,slow")
	pixelCmd.Flags().StringArray("motor", nil, "Motor position as name=value (repeatable)")
}

func runPixel(cmd *cobra.Command) error {
	detectorName, _ := cmd.Flags().GetString("detector")
	if detectorName == "" {
		return errors.New("--detector is required")
	}
	pixelStr, _ := cmd.Flags().GetString("pixel")
	if pixelStr == "" {
		return errors.New("--pixel is required")
	}

	fast, slow, err := cli.ParsePixel(pixelStr)
	if err != nil {
		return err
	}
	motorArgs, _ := cmd.Flags().GetStringArray("motor")
	motors, err := cli.ParseMotors(motorArgs)
	if err != nil {
		return err
	}

	model, _, err := cli.NewModel(getOptions(cmd))
	if err != nil {
		return err
	}

	lab, err := model.PixelToLab(detectorName, motors, detector.Pixel{Fast: fast, Slow: slow})
	if err != nil {
		return err
	}

	out := struct {
		Lab []float64 `json:"lab"`
	}{Lab: []float64{lab.X, lab.Y, lab.Z}}
	return json.NewEncoder(os.Stdout).Encode(out)
}
