package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/cursorlock/internal/ipc"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Toggle the cursor lock",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := ipc.NewClient()
		if err != nil {
			return fmt.Errorf("failed to create IPC client: %w", err)
		}

		if err := client.Toggle(); err != nil {
			return fmt.Errorf("failed to toggle cursor lock: %w", err)
		}

		status, err := client.GetStatus()
		if err != nil {
			return nil
		}
		if status.Locked {
			fmt.Println("Cursor locked")
		} else {
			fmt.Println("Cursor released")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(toggleCmd)
}
