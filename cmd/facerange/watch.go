package main

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
	"github.com/teslashibe/go-facerange/internal/log"
	"github.com/teslashibe/go-facerange/pkg/web"
)

var watchURL string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print live readings from a running dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, watchURL, nil)
		if err != nil {
			return fmt.Errorf("connect %s: %w", watchURL, err)
		}
		defer conn.Close()
		fmt.Printf("📡 Connected to %s\n", watchURL)

		go func() {
			<-ctx.Done()
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			conn.Close()
		}()

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					return nil
				}
				return fmt.Errorf("read: %w", err)
			}

			var ev web.Event
			if err := json.Unmarshal(data, &ev); err != nil {
				log.Warn("unexpected message", "error", err)
				continue
			}
			printEvent(ev)
		}
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchURL, "url", "ws://localhost:8090/ws/readings", "Readings websocket URL")
	rootCmd.AddCommand(watchCmd)
}

func printEvent(ev web.Event) {
	switch {
	case ev.Session != nil:
		fmt.Printf("🔒 Session %s: face %v, focal %.1f\n",
			ev.Session.ID, ev.Session.Face, ev.Session.Model.FocalLength)
	case ev.Reading != nil:
		r := ev.Reading
		marker := ""
		if r.Refreshed {
			marker = " 🔄"
		}
		fmt.Printf("#%-6d %5.2fm %-8s score=%.3f scale=%.1f angle=%+.0f%s\n",
			r.Frame, r.Distance, r.Category, r.Score, r.Scale, r.Angle, marker)
	}
}
