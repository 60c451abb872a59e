package hotkey

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/cursorlock/internal/config"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		want    uint32
		wantErr bool
	}{
		{name: "uppercase letter", key: "L", want: 'l'},
		{name: "lowercase letter", key: "k", want: 'k'},
		{name: "letter with whitespace", key: " u ", want: 'u'},
		{name: "digit", key: "7", want: '7'},
		{name: "F1", key: "F1", want: 0xffbe},
		{name: "F12", key: "F12", want: 0xffbe + 11},
		{name: "F24", key: "F24", want: 0xffbe + 23},
		{name: "lowercase function key", key: "f5", want: 0xffbe + 4},
		{name: "empty", key: "", wantErr: true},
		{name: "F0 out of range", key: "F0", wantErr: true},
		{name: "F25 out of range", key: "F25", wantErr: true},
		{name: "punctuation", key: ";", wantErr: true},
		{name: "multi-letter word", key: "Escape", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKey(tt.key)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidKey))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name    string
		binding config.HotkeyBinding
		want    string
	}{
		{
			name:    "ctrl alt letter",
			binding: config.HotkeyBinding{Ctrl: true, Alt: true, Key: "L"},
			want:    "Ctrl+Alt+L",
		},
		{
			name:    "all modifiers",
			binding: config.HotkeyBinding{Ctrl: true, Alt: true, Shift: true, Super: true, Key: "F5"},
			want:    "Ctrl+Alt+Shift+Super+F5",
		},
		{
			name:    "bare key",
			binding: config.HotkeyBinding{Key: "k"},
			want:    "K",
		},
		{
			name:    "missing key",
			binding: config.HotkeyBinding{Ctrl: true},
			want:    "Ctrl+?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.binding))
		})
	}
}

func TestBindings(t *testing.T) {
	cfg := config.DefaultConfig

	bindings := Bindings(&cfg)

	require.Len(t, bindings, 3)
	assert.Equal(t, cfg.Hotkeys.Lock, bindings[IDLock])
	assert.Equal(t, cfg.Hotkeys.Unlock, bindings[IDUnlock])
	assert.Equal(t, cfg.Hotkeys.Toggle, bindings[IDToggle])
}

func TestIDString(t *testing.T) {
	assert.Equal(t, "lock", IDLock.String())
	assert.Equal(t, "unlock", IDUnlock.String())
	assert.Equal(t, "toggle", IDToggle.String())
}

func TestResultOk(t *testing.T) {
	assert.True(t, Result{Succeeded: AllIDs}.Ok())
	assert.False(t, Result{Failures: map[ID]error{IDLock: errors.New("grab failed")}}.Ok())
}
