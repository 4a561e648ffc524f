package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/1broseidon/floatdesk/internal/ipc"
	"github.com/1broseidon/floatdesk/internal/window"
)

func newWindowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "window",
		Short: "List, open, close and focus windows",
	}
	cmd.AddCommand(newWindowListCmd(), newWindowOpenCmd(), newWindowCloseCmd(), newWindowFocusCmd())
	return cmd
}

func newWindowListCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List open windows bottom to top",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			windows, err := ipc.NewClient().ListWindows()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(windows)
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tKIND\tTITLE\tGEOMETRY\tFLAGS")
			for _, w := range windows {
				g := w.Geometry
				fmt.Fprintf(tw, "%s\t%s\t%s\t%dx%d+%d+%d\t%s\n", w.ID, w.Kind, w.Title, g.Width, g.Height, g.X, g.Y, windowFlags(w))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func windowFlags(w window.Window) string {
	flags := ""
	add := func(on bool, f string) {
		if !on {
			return
		}
		if flags != "" {
			flags += ","
		}
		flags += f
	}
	add(w.Pinned, "pinned")
	add(w.Minimized, "minimized")
	add(w.Fullscreen(), "fullscreen")
	add(!w.Magnetic, "non-magnetic")
	add(w.Linked(), "linked:"+w.LinkedPeerID)
	if flags == "" {
		return "-"
	}
	return flags
}

func newWindowOpenCmd() *cobra.Command {
	var (
		title string
		popup bool
	)
	cmd := &cobra.Command{
		Use:   "open <kind> <ref>",
		Short: "Open a viewer (image, audio, video, folder, text-editor, generic)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := window.ParseKind(args[0])
			if err != nil {
				return err
			}
			id, err := ipc.NewClient().OpenViewer(ipc.OpenViewerPayload{
				Kind:  kind,
				Title: title,
				Ref:   args[1],
				Popup: popup,
			})
			if err != nil {
				return err
			}
			if id == "" {
				fmt.Println("opened as popup")
				return nil
			}
			fmt.Println(id)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "window title (default: last path element of ref)")
	cmd.Flags().BoolVar(&popup, "popup", false, "open in a separate browser window")
	return cmd
}

func newWindowCloseCmd() *cobra.Command {
	return windowOpCmd("close <id|title>", "Close a window", func(c *ipc.Client, id string) error {
		return c.CloseWindow(id)
	})
}

func newWindowFocusCmd() *cobra.Command {
	return windowOpCmd("focus <id|title>", "Raise a window", func(c *ipc.Client, id string) error {
		return c.FocusWindow(id)
	})
}

func windowOpCmd(use, short string, op func(*ipc.Client, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := ipc.NewClient()
			windows, err := client.ListWindows()
			if err != nil {
				return err
			}
			id, err := resolveWindow(args[0], windows)
			if err != nil {
				return err
			}
			return op(client, id)
		},
	}
}
