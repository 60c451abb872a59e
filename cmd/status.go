package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/cursorlock/internal/config"
	"github.com/bnema/cursorlock/internal/hotkey"
	"github.com/bnema/cursorlock/internal/ipc"
	"github.com/bnema/cursorlock/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the daemon's lock state",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := ipc.NewClient()
		if err != nil {
			return fmt.Errorf("failed to create IPC client: %w", err)
		}

		if !client.IsRunning() {
			fmt.Println("cursorlock daemon is not running")
			return nil
		}

		status, err := client.GetStatus()
		if err != nil {
			return fmt.Errorf("failed to get daemon status: %w", err)
		}

		if err := config.Init(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg := config.Get()

		var content strings.Builder
		content.WriteString(ui.FormatLockState(status.Locked))
		if status.Locked && status.ManualOverride {
			content.WriteString(ui.SubtleStyle.Render(" (manual)"))
		}
		if !status.Locked && status.AutoSuspended {
			content.WriteString(ui.SubtleStyle.Render(" (auto-lock suspended)"))
		}
		content.WriteString("\n\n")

		content.WriteString(ui.FormatKeyValue("Position", status.Position))
		content.WriteString("\n")
		if status.ActiveWindow != "" {
			content.WriteString(ui.FormatKeyValue("Active window", status.ActiveWindow))
			content.WriteString("\n")
		}
		if cfg.WindowFilter.Enabled {
			content.WriteString(ui.FormatKeyValue("Window filter", cfg.WindowFilter.TargetTitle))
			content.WriteString("\n")
		}
		if cfg.Recenter.Enabled {
			content.WriteString(ui.FormatKeyValue("Re-center", cfg.Recenter.Interval().String()))
			content.WriteString("\n")
		}

		var output strings.Builder
		output.WriteString(ui.TitleStyle.Render("cursorlock"))
		output.WriteString("\n\n")
		output.WriteString(ui.BoxStyle.Render(content.String()))
		output.WriteString("\n\n")
		output.WriteString(ui.CreateSeparator(50, "─"))
		output.WriteString("\n")
		output.WriteString(ui.SubtleStyle.Render(fmt.Sprintf("Toggle with %s or 'cursorlock toggle'", hotkey.Format(cfg.Hotkeys.Toggle))))

		fmt.Println(output.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
