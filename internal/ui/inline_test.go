package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestInlineModel(t *testing.T) {
	t.Run("renders unlocked view", func(t *testing.T) {
		model := NewInlineModel([]string{"q - Quit"}, nil)
		view := model.View()

		if !strings.Contains(view, "unlocked") {
			t.Error("Should show unlocked status initially")
		}
		if !strings.Contains(view, "q - Quit") {
			t.Error("Should show control help")
		}
	})

	t.Run("handles state message", func(t *testing.T) {
		model := NewInlineModel(nil, nil)

		updatedModel, _ := model.Update(StateMsg{Locked: true, Position: "(960, 540)", ActiveWindow: "Editor"})
		updated := updatedModel.(*InlineModel)
		view := updated.View()

		if !strings.Contains(view, "LOCKED") {
			t.Error("Should show locked status after StateMsg")
		}
		if !strings.Contains(view, "(960, 540)") {
			t.Error("Should show the lock position")
		}
		if !strings.Contains(view, "Editor") {
			t.Error("Should show the active window title")
		}
	})

	t.Run("marks manual lock", func(t *testing.T) {
		model := NewInlineModel(nil, nil)

		updatedModel, _ := model.Update(StateMsg{Locked: true, ManualOverride: true})
		if !strings.Contains(updatedModel.(*InlineModel).View(), "manual") {
			t.Error("Should mark a manual lock")
		}
	})

	t.Run("marks suspended auto-lock", func(t *testing.T) {
		model := NewInlineModel(nil, nil)

		updatedModel, _ := model.Update(StateMsg{AutoSuspended: true})
		if !strings.Contains(updatedModel.(*InlineModel).View(), "suspended") {
			t.Error("Should mark suspended auto-lock")
		}
	})

	t.Run("shows hotkey warnings", func(t *testing.T) {
		model := NewInlineModel(nil, nil)

		updatedModel, _ := model.Update(HotkeyWarningMsg{Failed: []string{"Ctrl+Alt+L"}})
		view := updatedModel.(*InlineModel).View()
		if !strings.Contains(view, "Ctrl+Alt+L") {
			t.Error("Should list the failed hotkey")
		}
	})

	t.Run("dispatches key shortcuts", func(t *testing.T) {
		var got []string
		model := NewInlineModel(nil, func(action string) { got = append(got, action) })

		model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
		model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}})
		model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})

		want := []string{"lock", "unlock", "toggle"}
		if len(got) != len(want) {
			t.Fatalf("Expected %d actions, got %d", len(want), len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Action %d: expected %q, got %q", i, want[i], got[i])
			}
		}
	})

	t.Run("quits on q", func(t *testing.T) {
		model := NewInlineModel(nil, nil)

		_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
		if cmd == nil {
			t.Fatal("Expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("Expected tea.QuitMsg")
		}
	})

	t.Run("shows transient notice", func(t *testing.T) {
		model := NewInlineModel(nil, nil)

		updatedModel, _ := model.Update(NoticeMsg{Level: "error", Text: "confinement refused"})
		if !strings.Contains(updatedModel.(*InlineModel).View(), "confinement refused") {
			t.Error("Should show the notice text")
		}
	})
}

func TestFormatLockState(t *testing.T) {
	if !strings.Contains(FormatLockState(true), "LOCKED") {
		t.Error("FormatLockState(true) should contain LOCKED")
	}
	if !strings.Contains(FormatLockState(false), "unlocked") {
		t.Error("FormatLockState(false) should contain unlocked")
	}
}
