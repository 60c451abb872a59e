package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/cursorlock/internal/config"
	"github.com/bnema/cursorlock/internal/cursor"
	"github.com/bnema/cursorlock/internal/hotkey"
	"github.com/bnema/cursorlock/internal/instance"
	"github.com/bnema/cursorlock/internal/ipc"
	"github.com/bnema/cursorlock/internal/lock"
	"github.com/bnema/cursorlock/internal/logger"
	"github.com/bnema/cursorlock/internal/ui"
	"github.com/bnema/cursorlock/internal/window"
)

var runHeadless bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the cursorlock daemon",
	Long: `Run the cursorlock daemon in the foreground. The daemon registers the
global hotkeys, listens for lock/unlock/toggle commands on its socket and
shows an inline status display unless --headless is given.`,
	RunE: runDaemon,
}

func init() {
	runCmd.Flags().BoolVar(&runHeadless, "headless", false, "run without the inline status display")
	rootCmd.AddCommand(runCmd)
}

func runDaemon(cmd *cobra.Command, args []string) error {
	guard, err := instance.Acquire()
	if err != nil {
		if errors.Is(err, instance.ErrAlreadyRunning) {
			// Surface the existing instance instead of starting a second one.
			if client, cerr := ipc.NewClient(); cerr == nil {
				_ = client.Show()
			}
			return fmt.Errorf("cursorlock is already running")
		}
		return err
	}
	defer func() {
		if err := guard.Release(); err != nil {
			logger.Errorf("Failed to release instance lock: %v", err)
		}
	}()

	if err := config.Init(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	port, err := cursor.NewX11Port()
	if err != nil {
		return fmt.Errorf("failed to connect to display server: %w", err)
	}
	defer port.Close()

	inspector, err := window.NewX11Inspector()
	if err != nil {
		return fmt.Errorf("failed to create window inspector: %w", err)
	}
	defer inspector.Close()

	registrar, err := hotkey.NewX11Registrar()
	if err != nil {
		return fmt.Errorf("failed to create hotkey registrar: %w", err)
	}
	defer registrar.Close()

	coord := lock.NewCoordinator(config.Get, port, inspector)
	engine := lock.NewEngine(coord, registrar, inspector, config.Get)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		sig := <-sigCh
		logger.Infof("Received signal %v, shutting down", sig)
		cancel()
	}()

	var program *tea.Program
	if !runHeadless {
		program = newStatusProgram(ctx, engine, cancel)
	}

	coord.SetOnStateChanged(func(st lock.State) {
		if program != nil {
			program.Send(stateMsg(st))
		}
	})
	engine.SetOnHotkeyResult(func(result hotkey.Result) {
		if program == nil || result.Ok() {
			return
		}
		msg := ui.HotkeyWarningMsg{}
		for id := range result.Failures {
			msg.Failed = append(msg.Failed, hotkey.Format(hotkey.Bindings(config.Get())[id]))
		}
		program.Send(msg)
	})

	server, err := ipc.NewSocketServer(newIPCHandler(ctx, engine, cancel, program))
	if err != nil {
		return fmt.Errorf("failed to create IPC server: %w", err)
	}
	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start IPC server: %w", err)
	}
	defer server.Stop()

	engineDone := make(chan error, 1)
	go func() {
		engineDone <- engine.Run(ctx)
	}()

	if program != nil {
		go func() {
			<-ctx.Done()
			program.Quit()
		}()
		if _, err := program.Run(); err != nil {
			logger.Errorf("Status display error: %v", err)
		}
		// Quitting the display quits the daemon.
		cancel()
	}

	err = <-engineDone
	logger.Info("cursorlock stopped")
	return err
}

// newStatusProgram builds the inline display wired to the engine.
func newStatusProgram(ctx context.Context, engine *lock.Engine, cancel context.CancelFunc) *tea.Program {
	cfg := config.Get()
	controls := []string{
		ui.FormatControl("l", "lock"),
		ui.FormatControl("u", "unlock"),
		ui.FormatControl("t", "toggle"),
		ui.FormatControl("q", "quit"),
		ui.FormatControl(hotkey.Format(cfg.Hotkeys.Toggle), "global toggle"),
	}

	model := ui.NewInlineModel(controls, func(action string) {
		go func() {
			var err error
			switch action {
			case "lock":
				err = engine.Lock(ctx, true)
			case "unlock":
				err = engine.Unlock(ctx, true)
			case "toggle":
				err = engine.Toggle(ctx)
			}
			if err != nil {
				logger.Errorf("Action %s failed: %v", action, err)
			}
		}()
	})

	return tea.NewProgram(model)
}

// newIPCHandler maps socket requests onto the engine.
func newIPCHandler(ctx context.Context, engine *lock.Engine, cancel context.CancelFunc, program *tea.Program) ipc.Handler {
	return ipc.HandlerFunc(func(req ipc.Request) ipc.Response {
		switch req.Action {
		case ipc.ActionLock:
			if err := engine.Lock(ctx, true); err != nil {
				return ipc.NewErrorResponse("lock failed: %v", err)
			}
			return ipc.Response{OK: true}

		case ipc.ActionUnlock:
			if err := engine.Unlock(ctx, true); err != nil {
				return ipc.NewErrorResponse("unlock failed: %v", err)
			}
			return ipc.Response{OK: true}

		case ipc.ActionToggle:
			if err := engine.Toggle(ctx); err != nil {
				return ipc.NewErrorResponse("toggle failed: %v", err)
			}
			return ipc.Response{OK: true}

		case ipc.ActionStatus:
			st, err := engine.Status(ctx)
			if err != nil {
				return ipc.NewErrorResponse("status failed: %v", err)
			}
			return ipc.Response{OK: true, Status: &ipc.Status{
				Locked:         st.Locked,
				ManualOverride: st.ManualOverride,
				AutoSuspended:  st.AutoSuspended,
				ActiveWindow:   st.LastWindowTitle,
				Position:       config.Get().Position.Mode,
			}}

		case ipc.ActionReload:
			// Parse here, swap on the event loop via ApplyConfiguration.
			cfg, err := config.Load()
			if err != nil {
				return ipc.NewErrorResponse("reload failed: %v", err)
			}
			result, err := engine.ApplyConfiguration(ctx, cfg)
			if err != nil {
				return ipc.NewErrorResponse("reload failed: %v", err)
			}
			if !result.Ok() {
				return ipc.NewErrorResponse("reloaded, but %d hotkey(s) failed to register", len(result.Failures))
			}
			return ipc.Response{OK: true}

		case ipc.ActionShow:
			if program != nil {
				program.Send(ui.NoticeMsg{Level: "info", Text: "Another start attempt was redirected here"})
			}
			return ipc.Response{OK: true}

		case ipc.ActionQuit:
			cancel()
			return ipc.Response{OK: true}

		default:
			return ipc.NewErrorResponse("unknown action: %s", req.Action)
		}
	})
}

func stateMsg(st lock.State) ui.StateMsg {
	return ui.StateMsg{
		Locked:         st.Locked,
		ManualOverride: st.ManualOverride,
		AutoSuspended:  st.AutoSuspended,
		ActiveWindow:   st.LastWindowTitle,
		Position:       config.Get().Position.Mode,
	}
}
