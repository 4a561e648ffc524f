package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/1broseidon/floatdesk/internal/ipc"
)

func newStatusCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := ipc.NewClient().GetStatus()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(status)
			}
			fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
			fmt.Printf("listen:         %s\n", status.Listen)
			fmt.Printf("windows:        %d\n", status.Windows)
			fmt.Printf("viewport:       %dx%d\n", status.Viewport.Width, status.Viewport.Height)
			fmt.Printf("mobile:         %v\n", status.Mobile)
			fmt.Printf("gesture:        %s\n", status.Gesture)
			fmt.Printf("default_layout: %s\n", status.DefaultLayout)
			fmt.Printf("active_layout:  %s\n", status.ActiveLayout)
			fmt.Printf("auto_snap:      %v\n", status.AutoSnap)
			fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
