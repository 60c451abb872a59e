package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/cursorlock/internal/config"
	"github.com/bnema/cursorlock/internal/hotkey"
	"github.com/bnema/cursorlock/internal/startup"
	"github.com/bnema/cursorlock/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg := config.Get()

		var b strings.Builder
		b.WriteString(ui.HeaderStyle.Render("Configuration"))
		b.WriteString("\n")
		b.WriteString(ui.FormatKeyValue("File", config.GetConfigPath()))
		b.WriteString("\n\n")

		b.WriteString(ui.FormatKeyValue("Position", describePosition(cfg)))
		b.WriteString("\n")
		b.WriteString(ui.FormatKeyValue("Re-center", describeRecenter(cfg)))
		b.WriteString("\n")
		b.WriteString(ui.FormatKeyValue("Window filter", describeFilter(cfg)))
		b.WriteString("\n\n")

		b.WriteString(ui.FormatKeyValue("Lock", hotkey.Format(cfg.Hotkeys.Lock)))
		b.WriteString("\n")
		b.WriteString(ui.FormatKeyValue("Unlock", hotkey.Format(cfg.Hotkeys.Unlock)))
		b.WriteString("\n")
		b.WriteString(ui.FormatKeyValue("Toggle", hotkey.Format(cfg.Hotkeys.Toggle)))
		b.WriteString("\n\n")

		autostart := "disabled"
		if startup.IsEnabled() {
			autostart = "enabled"
		}
		b.WriteString(ui.FormatKeyValue("Autostart", autostart))

		fmt.Println(b.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func describePosition(cfg *config.Config) string {
	switch cfg.Position.Mode {
	case config.PositionPrimaryCenter:
		return "center of the primary screen"
	case config.PositionCustom:
		return fmt.Sprintf("custom point (%d, %d)", cfg.Position.CustomX, cfg.Position.CustomY)
	default:
		return "center of all screens"
	}
}

func describeRecenter(cfg *config.Config) string {
	if !cfg.Recenter.Enabled {
		return "disabled"
	}
	return fmt.Sprintf("every %s", cfg.Recenter.Interval())
}

func describeFilter(cfg *config.Config) string {
	if !cfg.WindowFilter.Enabled {
		return "disabled"
	}
	desc := fmt.Sprintf("only %q", cfg.WindowFilter.TargetTitle)
	if cfg.WindowFilter.AutoLockOnFocus {
		desc += ", auto-lock on focus"
	}
	return desc
}
