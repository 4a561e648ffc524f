package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/1broseidon/floatdesk/internal/ipc"
	"github.com/1broseidon/floatdesk/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve desk tools to an MCP client over stdio",
		Long: `Runs an MCP server on stdin/stdout. Tools forward to the running daemon,
so 'floatdesk serve' must be running.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries the protocol; logs go to stderr.
			logger := newLogger(os.Stderr, settings.GetString("log_level"))
			return mcp.NewServer(ipc.NewClient(), logger).Run(cmd.Context())
		},
	}
}
