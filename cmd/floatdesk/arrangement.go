package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/1broseidon/floatdesk/internal/ipc"
)

func newArrangementCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "arrangement",
		Aliases: []string{"arr"},
		Short:   "Save and restore window arrangements",
	}
	cmd.AddCommand(
		newArrangementListCmd(),
		newArrangementSaveCmd(),
		newArrangementRestoreCmd(),
		newArrangementDeleteCmd(),
	)
	return cmd
}

func newArrangementListCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved arrangements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := ipc.NewClient().ListArrangements()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(names)
			}
			if len(names) == 0 {
				fmt.Println("no saved arrangements")
				return nil
			}
			for _, n := range names {
				fmt.Println(n)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newArrangementSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <name>",
		Short: "Save the open windows under a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := ipc.NewClient().SaveArrangement(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("saved %s (%d windows)\n", data.Name, data.Windows)
			return nil
		},
	}
}

func resolveArrangement(client *ipc.Client, query string) (string, error) {
	names, err := client.ListArrangements()
	if err != nil {
		return "", err
	}
	return resolveName("arrangement", query, names)
}

func newArrangementRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <name>",
		Short: "Restore a saved arrangement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := ipc.NewClient()
			name, err := resolveArrangement(client, args[0])
			if err != nil {
				return err
			}
			res, err := client.RestoreArrangement(name)
			if err != nil {
				return err
			}
			fmt.Printf("restored %s: %d reused, %d opened, %d failed\n", name, res.Reused, res.Opened, res.Failed)
			return nil
		},
	}
}

func newArrangementDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved arrangement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := ipc.NewClient()
			names, err := client.ListArrangements()
			if err != nil {
				return err
			}
			// Deletion only takes exact names.
			found := false
			for _, n := range names {
				found = found || n == args[0]
			}
			if !found {
				return fmt.Errorf("unknown arrangement %q", args[0])
			}
			ok, err := confirm(fmt.Sprintf("Delete arrangement %q?", args[0]), yes)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("cancelled")
				return nil
			}
			if err := client.DeleteArrangement(args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}
