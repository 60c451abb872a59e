package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/cursorlock/internal/ipc"
)

// lockCmd tells a running daemon to lock the cursor. Useful for window
// manager keybindings.
var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Lock the cursor to the configured position",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := ipc.NewClient()
		if err != nil {
			return fmt.Errorf("failed to create IPC client: %w", err)
		}

		if err := client.Lock(); err != nil {
			return fmt.Errorf("failed to lock cursor: %w", err)
		}

		fmt.Println("Cursor locked")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lockCmd)
}
