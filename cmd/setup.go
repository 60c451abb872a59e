package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/bnema/cursorlock/internal/config"
	"github.com/bnema/cursorlock/internal/hotkey"
	"github.com/bnema/cursorlock/internal/ipc"
	"github.com/bnema/cursorlock/internal/startup"
	"github.com/bnema/cursorlock/internal/ui"
	"github.com/bnema/cursorlock/internal/window"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive configuration wizard",
	Long: `Walk through the cursorlock configuration interactively: lock position,
re-centering, window filter, hotkeys and autostart. The result is written
to the config file and a running daemon is told to reload it.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	if err := config.Init(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := *config.Get()

	if err := askPosition(&cfg); err != nil {
		return err
	}
	if err := askRecenter(&cfg); err != nil {
		return err
	}
	if err := askWindowFilter(&cfg); err != nil {
		return err
	}
	if err := askHotkeys(&cfg); err != nil {
		return err
	}
	if err := askStartup(&cfg); err != nil {
		return err
	}

	config.Set(&cfg)
	if err := config.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	fmt.Println(ui.SuccessStyle.Render(ui.IconSuccess + " Configuration saved to " + config.GetConfigPath()))

	if cfg.Startup.LaunchOnLogin {
		if err := startup.Enable(); err != nil {
			fmt.Println(ui.WarningStyle.Render(ui.IconWarning + " Could not enable autostart: " + err.Error()))
		}
	} else if startup.IsEnabled() {
		if err := startup.Disable(); err != nil {
			fmt.Println(ui.WarningStyle.Render(ui.IconWarning + " Could not disable autostart: " + err.Error()))
		}
	}

	// Tell a running daemon to pick up the new settings.
	if client, err := ipc.NewClient(); err == nil && client.IsRunning() {
		if err := client.Reload(); err != nil {
			fmt.Println(ui.WarningStyle.Render(ui.IconWarning + " Daemon reload failed: " + err.Error()))
		} else {
			fmt.Println(ui.InfoStyle.Render(ui.IconInfo + " Running daemon reloaded"))
		}
	}

	return nil
}

func askPosition(cfg *config.Config) error {
	mode := cfg.Position.Mode
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Lock Position").
				Description("Where the cursor is held while locked").
				Options(
					huh.NewOption("Center of all screens", config.PositionVirtualCenter),
					huh.NewOption("Center of the primary screen", config.PositionPrimaryCenter),
					huh.NewOption("Custom point", config.PositionCustom),
				).
				Value(&mode),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}
	cfg.Position.Mode = mode

	if mode != config.PositionCustom {
		return nil
	}

	x := strconv.Itoa(cfg.Position.CustomX)
	y := strconv.Itoa(cfg.Position.CustomY)
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("X coordinate").
				Value(&x).
				Validate(validateInt),
			huh.NewInput().
				Title("Y coordinate").
				Value(&y).
				Validate(validateInt),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}
	cfg.Position.CustomX, _ = strconv.Atoi(x)
	cfg.Position.CustomY, _ = strconv.Atoi(y)
	return nil
}

func askRecenter(cfg *config.Config) error {
	enabled := cfg.Recenter.Enabled
	interval := strconv.Itoa(cfg.Recenter.IntervalMs)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Re-center periodically?").
				Description("Snap the cursor back to the lock point at a fixed interval").
				Value(&enabled),
			huh.NewInput().
				Title("Interval in milliseconds").
				Description(fmt.Sprintf("Values below %d are clamped", config.MinRecenterInterval.Milliseconds())).
				Value(&interval).
				Validate(validateInt),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}
	cfg.Recenter.Enabled = enabled
	cfg.Recenter.IntervalMs, _ = strconv.Atoi(interval)
	return nil
}

func askWindowFilter(cfg *config.Config) error {
	enabled := cfg.WindowFilter.Enabled
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Restrict locking to one window?").
				Value(&enabled),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}
	cfg.WindowFilter.Enabled = enabled
	if !enabled {
		return nil
	}

	title := cfg.WindowFilter.TargetTitle
	if titles := openWindowTitles(); len(titles) > 0 {
		options := make([]huh.Option[string], len(titles))
		for i, t := range titles {
			options[i] = huh.NewOption(t, t)
		}
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Target window").
					Description("Locking only engages while this window is focused").
					Options(options...).
					Value(&title),
			),
		)
	} else {
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Target window title").
					Description("Exact title of the window locking is restricted to").
					Value(&title),
			),
		)
	}
	if err := form.Run(); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}
	cfg.WindowFilter.TargetTitle = title

	autoLock := cfg.WindowFilter.AutoLockOnFocus
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Lock automatically when the window gains focus?").
				Value(&autoLock),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}
	cfg.WindowFilter.AutoLockOnFocus = autoLock
	return nil
}

func askHotkeys(cfg *config.Config) error {
	lockKey := cfg.Hotkeys.Lock.Key
	unlockKey := cfg.Hotkeys.Unlock.Key
	toggleKey := cfg.Hotkeys.Toggle.Key
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Lock key (with Ctrl+Alt)").
				Description("A-Z, 0-9 or F1-F24").
				Value(&lockKey).
				Validate(validateKey),
			huh.NewInput().
				Title("Unlock key (with Ctrl+Alt)").
				Value(&unlockKey).
				Validate(validateKey),
			huh.NewInput().
				Title("Toggle key (with Ctrl+Alt)").
				Value(&toggleKey).
				Validate(validateKey),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}
	cfg.Hotkeys.Lock.Key = lockKey
	cfg.Hotkeys.Unlock.Key = unlockKey
	cfg.Hotkeys.Toggle.Key = toggleKey
	return nil
}

func askStartup(cfg *config.Config) error {
	launch := cfg.Startup.LaunchOnLogin
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Start cursorlock on login?").
				Value(&launch),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}
	cfg.Startup.LaunchOnLogin = launch
	return nil
}

// openWindowTitles lists the titles of currently open windows, for the
// target-window picker. Returns nil when the display is unavailable.
func openWindowTitles() []string {
	inspector, err := window.NewX11Inspector()
	if err != nil {
		return nil
	}
	defer inspector.Close()

	infos, err := inspector.List()
	if err != nil {
		return nil
	}
	titles := make([]string, 0, len(infos))
	for _, info := range infos {
		titles = append(titles, info.Title)
	}
	return titles
}

func validateInt(s string) error {
	if _, err := strconv.Atoi(s); err != nil {
		return fmt.Errorf("must be a number")
	}
	return nil
}

func validateKey(s string) error {
	_, err := hotkey.ParseKey(s)
	return err
}
