package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arisanku/arisan-admin/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "arisan-admin: %v\n", err)
		return 1
	}
	return 0
}

// newRootCmd builds the command tree. Without a subcommand the console TUI
// starts.
func newRootCmd() *cobra.Command {
	var opts app.Options

	root := &cobra.Command{
		Use:   "arisan-admin",
		Short: "Admin console for the arisan and patungan platform",
		Long: `arisan-admin is a terminal console for platform administrators: order
confirmation, arisan and patungan groups with their members, users and
wallets, events, settings and the image gallery.

Examples:
  # Start the console
  arisan-admin

  # Print canonical phone numbers
  arisan-admin phone 0812-3456-7890

  # Export all users as JSON
  arisan-admin export users --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file path (default ~/.config/arisan-admin/config.toml)")
	flags.StringVar(&opts.PrefsPath, "prefs", "", "preferences file path (default ~/.config/arisan-admin/prefs.toml)")
	flags.StringVar(&opts.LogLevel, "log-level", "info", "log level: debug|info|warn|error")
	root.Flags().StringVar(&opts.ThemeName, "theme", "", "color theme, overrides the saved preference")

	root.AddCommand(
		newPhoneCmd(),
		newLogoutCmd(&opts),
		newExportCmd(&opts),
		newUploadCmd(&opts),
	)
	return root
}
