package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sitemirror/sitemirror/internal/config"
	"github.com/sitemirror/sitemirror/internal/log"
	"github.com/sitemirror/sitemirror/internal/mirror"
	"github.com/sitemirror/sitemirror/internal/model"
	"github.com/sitemirror/sitemirror/internal/report"
	"github.com/sitemirror/sitemirror/internal/scope"
)

// NewMirrorCmd creates the mirror command.
func NewMirrorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mirror [url]",
		Short: "Mirror a website into a local static tree",
		Long: `Mirror renders a website and writes it to disk as a self-contained
static tree. Pages are discovered from the site's sitemap and the links on
the rendered homepage, then fetched one at a time with a politeness delay.

All internal links and asset references are rewritten to relative paths,
so the result works when opened with file:// or served from any
subdirectory. Cookie banners are stripped and forms are neutralized so the
mirror behaves as a frozen snapshot.

Examples:
  # Mirror a site into ./mirror
  sitemirror mirror https://example.com

  # Mirror into a specific directory without headless rendering
  sitemirror mirror --no-render -o /tmp/example https://example.com

  # Slow down for a fragile origin
  sitemirror mirror --delay 2s https://example.com

  # Output a JSON run report
  sitemirror mirror --json https://example.com

Configuration file (.sitemirror) example:
  defaults:
    pageDelay: 500ms
  sites:
    example.com:
      pageDelay: 2s
      noRender: true
      excludePatterns:
        - "/drafts/"`,
		Args: cobra.ExactArgs(1),
		RunE: runMirrorCmd,
	}

	// Mirror behavior flags
	cmd.Flags().StringP("output", "o", config.DefaultOutputDir,
		"Output directory for the mirror tree")
	cmd.Flags().DurationP("timeout", "t", config.DefaultNavigationTimeout,
		"Navigation timeout for each page load")
	cmd.Flags().DurationP("delay", "d", config.DefaultPageDelay,
		"Politeness delay between page fetches")
	cmd.Flags().IntP("concurrency", "p", config.DefaultAssetConcurrency,
		"Number of parallel asset downloads")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User agent for browser navigation and HTTP requests")
	cmd.Flags().Bool("no-render", false,
		"Fetch pages with plain HTTP instead of a headless browser")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sitemirror in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON run report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown run report (mutually exclusive with --json)")
	cmd.Flags().StringP("report", "r", "",
		"Write run report to specified file path (creates directories if needed)")

	return cmd
}

// runMirrorCmd executes the mirror command.
func runMirrorCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging. Warnings and errors are forwarded into the
	// progress stream so skipped pages show up inline with the page counter.
	base := log.NewLogger(os.Stderr, cfg.Verbose)
	logger := slog.New(log.NewProgressHandler(base.Handler(), printProgress))
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, finishing current page...")
		cancel()
	}()

	return runMirror(ctx, cfg, logger)
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.RootURL = args[0]

	var err error

	cfg.OutputDir, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.NavigationTimeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.PageDelay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	cfg.AssetConcurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.NoRender, err = cmd.Flags().GetBool("no-render")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Load site-specific configurations from config file.
	// An explicitly specified file must exist; the default search is
	// best effort.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("report")
	if err != nil {
		return nil, err
	}

	// Always save run history using XDG data directory
	cfg.SaveToDB = true
	cfg.DBDir = config.XDGDataDir()

	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// runMirror executes the mirror run and outputs the report.
func runMirror(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Overlay per-site settings before the run starts
	if s, err := scope.New(cfg.RootURL); err == nil {
		cfg.ApplySiteConfig(s.Domain())
	}

	fmt.Printf("Mirroring %s into %s...\n\n", cfg.RootURL, cfg.OutputDir)
	startTime := time.Now()

	o := mirror.New(cfg, mirror.WithLogger(logger))
	mirrorReport, err := o.Run(ctx, printProgress)
	if err != nil {
		return err
	}

	elapsed := time.Since(startTime)
	if mirrorReport.Cancelled {
		fmt.Printf("\nMirror cancelled after %s (partial tree kept)\n\n", elapsed.Round(time.Millisecond))
	} else {
		fmt.Printf("\nMirror completed in %s\n\n", elapsed.Round(time.Millisecond))
	}

	return outputReport(cfg, mirrorReport)
}

// printProgress writes incremental progress to stdout.
func printProgress(p model.Progress) {
	switch {
	case p.CurrentPage != "":
		fmt.Printf("[%d/%d] %s\n", p.CompletedPages+1, p.TotalPages, p.CurrentPage)
	case p.Log != "":
		fmt.Println(p.Log)
	}
}

// outputReport outputs the run report in the requested format.
func outputReport(cfg *config.Config, mirrorReport *model.MirrorReport) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := writer.Write(mirrorReport)
	return err
}
