package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// StateMsg carries a lock state snapshot into the UI.
type StateMsg struct {
	Locked         bool
	ManualOverride bool
	AutoSuspended  bool
	ActiveWindow   string
	Position       string
}

// NoticeMsg displays a transient message line.
type NoticeMsg struct {
	Level string // "info", "success", "warning", "error"
	Text  string
}

// HotkeyWarningMsg lists hotkeys that failed to register.
type HotkeyWarningMsg struct {
	Failed []string
}

// InlineModel is the inline status display shown while the daemon runs in
// the foreground.
type InlineModel struct {
	state    StateMsg
	spinner  spinner.Model
	controls []string
	warnings []string

	message       string
	messageStyle  string
	messageExpiry time.Time

	// onAction dispatches keyboard shortcuts to the daemon.
	onAction func(action string)
}

// NewInlineModel creates the inline display. The controls are preformatted
// hotkey help lines; onAction receives "lock", "unlock" or "toggle" when
// the matching key is pressed in the terminal.
func NewInlineModel(controls []string, onAction func(action string)) *InlineModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return &InlineModel{
		spinner:  s,
		controls: controls,
		onAction: onAction,
	}
}

func (m *InlineModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *InlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "l":
			m.dispatch("lock")
		case "u":
			m.dispatch("unlock")
		case "t", " ":
			m.dispatch("toggle")
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case spinner.TickMsg:
		if m.state.Locked {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		} else {
			// Keep the tick loop alive while unlocked.
			cmds = append(cmds, m.spinner.Tick)
		}

	case StateMsg:
		m.state = msg

	case NoticeMsg:
		m.message = msg.Text
		m.messageStyle = msg.Level
		m.messageExpiry = time.Now().Add(5 * time.Second)

	case HotkeyWarningMsg:
		m.warnings = msg.Failed
	}

	return m, tea.Batch(cmds...)
}

func (m *InlineModel) View() string {
	var b strings.Builder

	status := FormatLockState(m.state.Locked)
	if m.state.Locked {
		status = m.spinner.View() + " " + status
		if m.state.ManualOverride {
			status += SubtleStyle.Render(" (manual)")
		}
	} else if m.state.AutoSuspended {
		status += SubtleStyle.Render(" (auto-lock suspended)")
	}
	b.WriteString(status)
	b.WriteString("\n")

	if m.state.Position != "" {
		b.WriteString(FormatKeyValue("Position", m.state.Position))
		b.WriteString("\n")
	}
	if m.state.ActiveWindow != "" {
		b.WriteString(FormatKeyValue("Active window", m.state.ActiveWindow))
		b.WriteString("\n")
	}

	for _, failed := range m.warnings {
		b.WriteString(WarningStyle.Render(fmt.Sprintf("%s hotkey %s could not be registered", IconWarning, failed)))
		b.WriteString("\n")
	}

	if m.message != "" && time.Now().Before(m.messageExpiry) {
		b.WriteString(m.styledMessage())
		b.WriteString("\n")
	}

	if len(m.controls) > 0 {
		b.WriteString(SubtleStyle.Render(strings.Join(m.controls, "  ")))
		b.WriteString("\n")
	}

	return b.String()
}

func (m *InlineModel) dispatch(action string) {
	if m.onAction != nil {
		m.onAction(action)
	}
}

func (m *InlineModel) styledMessage() string {
	switch m.messageStyle {
	case "success":
		return SuccessStyle.Render(IconSuccess + " " + m.message)
	case "warning":
		return WarningStyle.Render(IconWarning + " " + m.message)
	case "error":
		return ErrorStyle.Render(IconError + " " + m.message)
	default:
		return InfoStyle.Render(IconInfo + " " + m.message)
	}
}
