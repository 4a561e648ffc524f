package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/1broseidon/floatdesk/internal/ipc"
	"github.com/1broseidon/floatdesk/internal/tui"
)

func newLayoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "List, apply, undo and preview layouts",
	}
	cmd.AddCommand(
		newLayoutListCmd(),
		newLayoutApplyCmd(),
		newLayoutDefaultCmd(),
		newLayoutUndoCmd(),
		newLayoutPreviewCmd(),
	)
	return cmd
}

func newLayoutListCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available layouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := ipc.NewClient().ListLayouts()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(data)
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tMODE\tCELLS\tFALLBACK\tDESCRIPTION")
			for _, l := range data.Layouts {
				name := l.Name
				if l.Name == data.ActiveLayout {
					name = "* " + name
				}
				if l.Default {
					name += " (default)"
				}
				cells := "-"
				if l.Cells > 0 {
					cells = fmt.Sprint(l.Cells)
				}
				fallback := l.Fallback
				if fallback == "" {
					fallback = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", name, l.Mode, cells, fallback, l.Description)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func layoutNames(data *ipc.LayoutsData) []string {
	names := make([]string, 0, len(data.Layouts))
	for _, l := range data.Layouts {
		names = append(names, l.Name)
	}
	return names
}

func resolveLayout(client *ipc.Client, query string) (string, error) {
	data, err := client.ListLayouts()
	if err != nil {
		return "", err
	}
	return resolveName("layout", query, layoutNames(data))
}

func newLayoutApplyCmd() *cobra.Command {
	var ids []string
	cmd := &cobra.Command{
		Use:   "apply <layout>",
		Short: "Arrange windows with a layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := ipc.NewClient()
			name, err := resolveLayout(client, args[0])
			if err != nil {
				return err
			}
			res, err := client.ApplyLayout(name, ids)
			if err != nil {
				return err
			}
			if res.Degraded() {
				fmt.Printf("%s needs more windows; applied %s to %d windows\n", res.Requested, res.Layout, len(res.Placed))
				return nil
			}
			fmt.Printf("applied %s to %d windows\n", res.Layout, len(res.Placed))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&ids, "window", nil, "window ids in slot order (default: all windows)")
	return cmd
}

func newLayoutDefaultCmd() *cobra.Command {
	var tile bool
	cmd := &cobra.Command{
		Use:   "default <layout>",
		Short: "Set the default layout and save it to the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := ipc.NewClient()
			name, err := resolveLayout(client, args[0])
			if err != nil {
				return err
			}
			if err := client.SetDefaultLayout(name, tile); err != nil {
				return err
			}
			fmt.Printf("default layout: %s\n", name)
			return nil
		},
	}
	cmd.Flags().BoolVar(&tile, "tile", false, "apply the layout now")
	return cmd
}

func newLayoutUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Restore the geometry from before the last layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := ipc.NewClient().Undo()
			if err != nil {
				return err
			}
			fmt.Printf("restored %d windows\n", n)
			return nil
		},
	}
}

func newLayoutPreviewCmd() *cobra.Command {
	var duration int
	cmd := &cobra.Command{
		Use:   "preview [layout]",
		Short: "Preview a layout temporarily, or browse layouts interactively",
		Long: `With a layout name, apply it for --duration seconds and then undo it.
Without one, open the interactive layout browser.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := ipc.NewClient()
			if len(args) == 1 {
				name, err := resolveLayout(client, args[0])
				if err != nil {
					return err
				}
				if err := client.PreviewLayout(name, duration); err != nil {
					return err
				}
				fmt.Printf("previewing %s for %ds\n", name, duration)
				return nil
			}

			res, err := loadConfig()
			if err != nil {
				return err
			}
			var lc tui.LayoutClient
			if client.Ping() == nil {
				lc = client
			}
			applied, err := tui.Run(lc, res.Config)
			if err != nil {
				return err
			}
			if applied != "" {
				fmt.Printf("applied %s\n", applied)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&duration, "duration", 3, "preview duration in seconds (max 60)")
	return cmd
}
