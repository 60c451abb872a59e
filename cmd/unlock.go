package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/cursorlock/internal/ipc"
)

var unlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Release the cursor",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := ipc.NewClient()
		if err != nil {
			return fmt.Errorf("failed to create IPC client: %w", err)
		}

		if err := client.Unlock(); err != nil {
			return fmt.Errorf("failed to unlock cursor: %w", err)
		}

		fmt.Println("Cursor released")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(unlockCmd)
}
