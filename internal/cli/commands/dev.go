package commands

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/ilogapp/ilog-cli/internal/mockapi"
)

// NewDevCmd creates the dev command with its subcommands.
func NewDevCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "dev",
		Short:  "Development helpers",
		Hidden: true,
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run an in-memory stand-in for the backend",
		Run: func(cmd *cobra.Command, args []string) {
			addr, _ := cmd.Flags().GetString("addr")
			fmt.Printf("🚀 Mock backend listening on %s\n", addr)
			fmt.Printf("💡 Point the CLI at it with ILOG_API_BASE_URL=http://%s\n", addr)
			if err := mockapi.NewServer().Run(addr); err != nil {
				log.Fatalf("mock backend stopped: %v", err)
			}
		},
	}
	serve.Flags().String("addr", "localhost:8787", "Listen address")

	cmd.AddCommand(serve)

	return cmd
}
