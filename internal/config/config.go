// Package config handles configuration management using Viper
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// MinRecenterInterval is the lowest re-center interval the timer will run at.
// Values below this are clamped, not rejected.
const MinRecenterInterval = 16 * time.Millisecond

// Config represents the application configuration
type Config struct {
	// UI language and theme (consumed by the presentation layer)
	Language string `mapstructure:"language"`
	Theme    string `mapstructure:"theme"`

	// Global hotkey bindings
	Hotkeys HotkeysConfig `mapstructure:"hotkeys"`

	// Periodic re-centering while locked
	Recenter RecenterConfig `mapstructure:"recenter"`

	// Where the cursor is confined to
	Position PositionConfig `mapstructure:"position"`

	// Window-specific locking
	WindowFilter WindowFilterConfig `mapstructure:"window_filter"`

	// Launch on login
	Startup StartupConfig `mapstructure:"startup"`

	// What closing the UI does: "ask", "minimize" or "quit"
	CloseAction string `mapstructure:"close_action"`
}

// HotkeysConfig holds the three global bindings
type HotkeysConfig struct {
	Lock   HotkeyBinding `mapstructure:"lock"`
	Unlock HotkeyBinding `mapstructure:"unlock"`
	Toggle HotkeyBinding `mapstructure:"toggle"`
}

// HotkeyBinding is a modifier set plus a key name (A-Z, 0-9 or F1-F24)
type HotkeyBinding struct {
	Ctrl  bool   `mapstructure:"ctrl"`
	Alt   bool   `mapstructure:"alt"`
	Shift bool   `mapstructure:"shift"`
	Super bool   `mapstructure:"super"`
	Key   string `mapstructure:"key"`
}

// RecenterConfig controls the periodic re-centering timer
type RecenterConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	IntervalMs int  `mapstructure:"interval_ms"`
}

// Interval returns the effective timer interval, clamped to MinRecenterInterval.
func (r RecenterConfig) Interval() time.Duration {
	d := time.Duration(r.IntervalMs) * time.Millisecond
	if d < MinRecenterInterval {
		return MinRecenterInterval
	}
	return d
}

// PositionConfig selects the confinement target.
// Mode is "virtual_center", "primary_center" or "custom".
type PositionConfig struct {
	Mode    string `mapstructure:"mode"`
	CustomX int    `mapstructure:"custom_x"`
	CustomY int    `mapstructure:"custom_y"`
}

// Position modes
const (
	PositionVirtualCenter = "virtual_center"
	PositionPrimaryCenter = "primary_center"
	PositionCustom        = "custom"
)

// WindowFilterConfig gates locking on the active window's title
type WindowFilterConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	TargetTitle     string `mapstructure:"target_title"`
	AutoLockOnFocus bool   `mapstructure:"auto_lock_on_focus"`
}

// StartupConfig contains autostart settings
type StartupConfig struct {
	LaunchOnLogin bool `mapstructure:"launch_on_login"`
}

var (
	// DefaultConfig provides sensible defaults
	DefaultConfig = Config{
		Language: "en",
		Theme:    "dark",
		Hotkeys: HotkeysConfig{
			Lock:   HotkeyBinding{Ctrl: true, Alt: true, Key: "L"},
			Unlock: HotkeyBinding{Ctrl: true, Alt: true, Key: "U"},
			Toggle: HotkeyBinding{Ctrl: true, Alt: true, Key: "K"},
		},
		Recenter: RecenterConfig{
			Enabled:    true,
			IntervalMs: 250,
		},
		Position: PositionConfig{
			Mode: PositionVirtualCenter,
		},
		WindowFilter: WindowFilterConfig{},
		Startup:      StartupConfig{},
		CloseAction:  "ask",
	}

	// Global config instance, guarded by cfgMu. The daemon's IPC reload
	// handler parses on a connection goroutine while the engine loop reads.
	cfgMu sync.RWMutex
	cfg   *Config

	// Override config path if set
	configPathOverride string
)

// SetConfigPath allows overriding the config path
func SetConfigPath(path string) {
	configPathOverride = path
}

// Init initializes the configuration system. A missing or partial config
// file is never an error: absent fields are back-filled from DefaultConfig.
func Init() error {
	c, err := Load()
	if err != nil {
		return err
	}
	Set(c)
	return nil
}

// Load parses the config file and returns a fresh Config without touching
// the active one. Callers that want the result live pass it through Set
// (directly or via the engine's ApplyConfiguration).
func Load() (*Config, error) {
	viper.SetConfigName("cursorlock")
	viper.SetConfigType("toml")

	if configPathOverride != "" {
		viper.SetConfigFile(configPathOverride)
	} else {
		if home := os.Getenv("HOME"); home != "" {
			viper.AddConfigPath(filepath.Join(home, ".config", "cursorlock"))
		}
		viper.AddConfigPath(".") // Current directory (lowest priority)
	}

	// Set defaults - individual fields so file values merge over them
	viper.SetDefault("language", DefaultConfig.Language)
	viper.SetDefault("theme", DefaultConfig.Theme)

	setBindingDefaults("hotkeys.lock", DefaultConfig.Hotkeys.Lock)
	setBindingDefaults("hotkeys.unlock", DefaultConfig.Hotkeys.Unlock)
	setBindingDefaults("hotkeys.toggle", DefaultConfig.Hotkeys.Toggle)

	viper.SetDefault("recenter.enabled", DefaultConfig.Recenter.Enabled)
	viper.SetDefault("recenter.interval_ms", DefaultConfig.Recenter.IntervalMs)

	viper.SetDefault("position.mode", DefaultConfig.Position.Mode)
	viper.SetDefault("position.custom_x", DefaultConfig.Position.CustomX)
	viper.SetDefault("position.custom_y", DefaultConfig.Position.CustomY)

	viper.SetDefault("window_filter.enabled", DefaultConfig.WindowFilter.Enabled)
	viper.SetDefault("window_filter.target_title", DefaultConfig.WindowFilter.TargetTitle)
	viper.SetDefault("window_filter.auto_lock_on_focus", DefaultConfig.WindowFilter.AutoLockOnFocus)

	viper.SetDefault("startup.launch_on_login", DefaultConfig.Startup.LaunchOnLogin)
	viper.SetDefault("close_action", DefaultConfig.CloseAction)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit --config path that does not exist yet surfaces as
		// *fs.PathError rather than ConfigFileNotFoundError.
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults
	}

	c := &Config{}
	if err := viper.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	return c, nil
}

func setBindingDefaults(prefix string, b HotkeyBinding) {
	viper.SetDefault(prefix+".ctrl", b.Ctrl)
	viper.SetDefault(prefix+".alt", b.Alt)
	viper.SetDefault(prefix+".shift", b.Shift)
	viper.SetDefault(prefix+".super", b.Super)
	viper.SetDefault(prefix+".key", b.Key)
}

// Get returns the current configuration
func Get() *Config {
	cfgMu.RLock()
	defer cfgMu.RUnlock()
	if cfg == nil {
		// Return defaults if not initialized
		return &DefaultConfig
	}
	return cfg
}

// Set replaces the current configuration
func Set(c *Config) {
	cfgMu.Lock()
	cfg = c
	cfgMu.Unlock()
}

// Save saves the current configuration to file
func Save() error {
	configPath := GetConfigPath()

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	c := Get()
	viper.Set("language", c.Language)
	viper.Set("theme", c.Theme)
	setBinding("hotkeys.lock", c.Hotkeys.Lock)
	setBinding("hotkeys.unlock", c.Hotkeys.Unlock)
	setBinding("hotkeys.toggle", c.Hotkeys.Toggle)
	viper.Set("recenter.enabled", c.Recenter.Enabled)
	viper.Set("recenter.interval_ms", c.Recenter.IntervalMs)
	viper.Set("position.mode", c.Position.Mode)
	viper.Set("position.custom_x", c.Position.CustomX)
	viper.Set("position.custom_y", c.Position.CustomY)
	viper.Set("window_filter.enabled", c.WindowFilter.Enabled)
	viper.Set("window_filter.target_title", c.WindowFilter.TargetTitle)
	viper.Set("window_filter.auto_lock_on_focus", c.WindowFilter.AutoLockOnFocus)
	viper.Set("startup.launch_on_login", c.Startup.LaunchOnLogin)
	viper.Set("close_action", c.CloseAction)

	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func setBinding(prefix string, b HotkeyBinding) {
	viper.Set(prefix+".ctrl", b.Ctrl)
	viper.Set(prefix+".alt", b.Alt)
	viper.Set(prefix+".shift", b.Shift)
	viper.Set(prefix+".super", b.Super)
	viper.Set(prefix+".key", b.Key)
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	if configPathOverride != "" {
		return configPathOverride
	}

	if viper.ConfigFileUsed() != "" {
		return viper.ConfigFileUsed()
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "cursorlock.toml"
	}

	return filepath.Join(home, ".config", "cursorlock", "cursorlock.toml")
}
