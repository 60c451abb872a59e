package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/cursorlock/internal/config"
)

var (
	configFile string

	rootCmd = &cobra.Command{
		Use:   "cursorlock",
		Short: "cursorlock - pin the mouse cursor to a point on screen",
		Long: `cursorlock confines the mouse cursor to a configurable point on screen,
toggled by global hotkeys or from the command line. It can re-center the
cursor periodically and restrict locking to a specific window.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if configFile != "" {
				config.SetConfigPath(configFile)
			}
		},
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ~/.config/cursorlock/cursorlock.toml)")
}

// Exit with error message
func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
