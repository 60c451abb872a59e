package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/cursorlock/internal/ipc"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := ipc.NewClient()
		if err != nil {
			return fmt.Errorf("failed to create IPC client: %w", err)
		}

		if !client.IsRunning() {
			fmt.Println("cursorlock daemon is not running")
			return nil
		}
		if err := client.Quit(); err != nil {
			return fmt.Errorf("failed to stop daemon: %w", err)
		}

		fmt.Println("cursorlock stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
