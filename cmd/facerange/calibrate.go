package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/teslashibe/go-facerange/pkg/calibration"
)

var facePx float64

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Print the calibration model for a detected face height",
	RunE: func(cmd *cobra.Command, args []string) error {
		gender, err := calibration.ParseGender(settings.Gender)
		if err != nil {
			return err
		}
		model, err := calibration.Calibrate(settings.HeightCm, gender, facePx)
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(model, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))

		fmt.Println("\n📏 Distance by matched face height:")
		for _, f := range []float64{2, 1.5, 1, 0.75, 0.5, 0.25} {
			px := facePx * f
			d := model.Distance(px, 0)
			fmt.Printf("   %6.1fpx  %5.2fm  %s\n", px, d, calibration.Category(d))
		}
		return nil
	},
}

func init() {
	calibrateCmd.Flags().Float64Var(&facePx, "face-px", 0, "Detected face height in pixels")
	calibrateCmd.MarkFlagRequired("face-px")
	rootCmd.AddCommand(calibrateCmd)
}
