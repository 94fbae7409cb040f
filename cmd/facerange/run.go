package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/teslashibe/go-facerange/internal/log"
	"github.com/teslashibe/go-facerange/pkg/camera"
	"github.com/teslashibe/go-facerange/pkg/store"
	"github.com/teslashibe/go-facerange/pkg/tracking"
	"github.com/teslashibe/go-facerange/pkg/web"
)

var runOpts struct {
	preset   string
	autoLock bool
	mirror   bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Track live from a camera and serve the dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLive(cmd.Context(), cmd.Flags().Changed("mirror"))
	},
}

func init() {
	runCmd.Flags().StringVar(&settings.Camera, "camera", settings.Camera, "Camera index, video file or stream URL")
	runCmd.Flags().StringVar(&settings.Port, "port", settings.Port, "Dashboard port")
	runCmd.Flags().StringVar(&runOpts.preset, "preset", camera.PresetDefault, "Camera preset: default, 720p, 1080p, night, file")
	runCmd.Flags().BoolVar(&runOpts.autoLock, "auto-lock", false, "Lock onto the first face without waiting for the dashboard")
	runCmd.Flags().BoolVar(&runOpts.mirror, "mirror", true, "Mirror frames horizontally")
	rootCmd.AddCommand(runCmd)
}

func runLive(ctx context.Context, mirrorSet bool) error {
	camCfg := camera.GetPreset(runOpts.preset)
	if camCfg == nil {
		return fmt.Errorf("unknown camera preset %q", runOpts.preset)
	}
	camCfg.Device = settings.Camera
	if mirrorSet {
		camCfg.Mirror = runOpts.mirror
	}

	tracker, detector, err := newTracker()
	if err != nil {
		return err
	}
	defer detector.Close()

	source, err := camera.Open(*camCfg)
	if err != nil {
		return err
	}
	defer source.Close()

	manager := camera.NewManager(*camCfg)
	manager.OnConfigChange = source.Apply

	var history web.History
	if settings.DBPath != "" {
		st, err := store.Open(settings.DBPath)
		if err != nil {
			return err
		}
		defer st.Close()
		tracker.AddObserver(st)
		history = st
	}

	server := web.NewServer(settings.Port, tracker, history)
	server.SetCamera(manager)
	tracker.AddObserver(server)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start(ctx)
	}()

	if runOpts.autoLock {
		tracker.Lock()
		fmt.Println("🔒 Waiting for a face...")
	} else {
		fmt.Println("⏸️  Idle. POST /api/lock or use the dashboard to start tracking")
	}

	runner := &tracking.Runner{Tracker: tracker, Source: source, Sink: server}
	runErr := runner.Run(ctx)
	cancel()

	if err := <-serverErr; err != nil {
		log.Warn("dashboard stopped", "error", err)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	status := tracker.Status()
	fmt.Printf("👋 Stopped after %d tracked frames\n", status.Frames)
	return nil
}
