package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/teslashibe/go-facerange/internal/httpc"
	"github.com/teslashibe/go-facerange/pkg/tracking"
)

var dashboardURL string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the tracker status of a running dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		var status tracking.Status
		if err := httpc.New(dashboardURL).GetJSON(cmd.Context(), "/api/status", &status); err != nil {
			return err
		}
		printStatus(status)
		return nil
	},
}

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Lock onto the next detected face",
	RunE: func(cmd *cobra.Command, args []string) error {
		return postControl(cmd, "/api/lock")
	},
}

var unlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Stop tracking and drop the calibration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return postControl(cmd, "/api/unlock")
	},
}

var tuneBias int

var tuneCmd = &cobra.Command{
	Use:   "tune",
	Short: "Adjust the distance bias of a running tracker",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := tracking.TuningParams{TuneBias: &tuneBias}
		var out tracking.TuningParams
		if err := httpc.New(dashboardURL).PostJSON(cmd.Context(), "/api/tuning", params, &out); err != nil {
			return err
		}
		if out.TuneBias != nil {
			fmt.Printf("🎛️  Bias %+d\n", *out.TuneBias)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{statusCmd, lockCmd, unlockCmd, tuneCmd} {
		c.Flags().StringVar(&dashboardURL, "url", "http://localhost:"+settings.Port, "Dashboard base URL")
		rootCmd.AddCommand(c)
	}
	tuneCmd.Flags().IntVar(&tuneBias, "bias", 0, "Distance bias in 5% steps, -2 to 2")
	tuneCmd.MarkFlagRequired("bias")
}

func postControl(cmd *cobra.Command, path string) error {
	var status tracking.Status
	if err := httpc.New(dashboardURL).PostJSON(cmd.Context(), path, nil, &status); err != nil {
		return err
	}
	printStatus(status)
	return nil
}

func printStatus(s tracking.Status) {
	fmt.Printf("Stage:   %s\n", s.Stage)
	fmt.Printf("Frames:  %d\n", s.Frames)
	if s.Session != nil {
		fmt.Printf("Session: %s (focal %.1f)\n", s.Session.ID, s.Session.Model.FocalLength)
	}
	if s.Last != nil {
		fmt.Printf("Last:    %.2fm %s, score %.3f\n", s.Last.Distance, s.Last.Category, s.Last.Score)
	}
}
