// Package main provides the entry point for the sitemirror CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for sitemirror.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitemirror",
		Short: "Mirror a rendered website into a self-contained static tree",
		Long: `sitemirror renders a website in a headless browser and writes it to disk
as a static tree that works from the local filesystem. All internal links
and asset references are rewritten to relative paths, so the mirror can be
opened with file:// or served from any subdirectory.

By default, pages are rendered in a headless Chrome instance so that
script-injected content is captured. Use --no-render for fully static
sites where plain HTTP fetching is sufficient.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewMirrorCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
