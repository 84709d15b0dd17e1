package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sitemirror/sitemirror/internal/config"
	"github.com/sitemirror/sitemirror/internal/database"
	"github.com/sitemirror/sitemirror/internal/report"
	"github.com/sitemirror/sitemirror/internal/scope"
)

// defaultHistoryLimit bounds the run listing.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
// This command lists past mirror runs stored in the run-history database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [url]",
		Short: "List past mirror runs",
		Long: `History lists mirror runs stored in the run-history database.

Every 'sitemirror mirror' run records its outcome: page and asset counts,
resolved path conflicts, and whether the run was cancelled. Use this
command to review past runs and retrieve their full reports.

Examples:
  # List recent runs for all sites
  sitemirror history

  # List runs for one site
  sitemirror history example.com

  # Show the full report of a specific run
  sitemirror history --run-id 6b5c...

  # Show the full report as JSON
  sitemirror history --run-id 6b5c... --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of runs to list")
	cmd.Flags().StringP("run-id", "i", "",
		"Show the full report for a specific run ID")
	cmd.Flags().BoolP("json", "j", false,
		"Output the report in JSON format (requires --run-id)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	runID, err := cmd.Flags().GetString("run-id")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open run-history database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if runID != "" {
		return showRunReport(ctx, db, runID, jsonOutput)
	}

	// Normalize the site filter the same way the mirror run stores it
	var rootURL string
	if len(args) > 0 {
		s, err := scope.New(args[0])
		if err != nil {
			return fmt.Errorf("invalid site URL %q: %w", args[0], err)
		}
		rootURL = s.RootURL()
	}

	return listRuns(ctx, db, rootURL, limit)
}

// listRuns prints stored run summaries, most recent first.
func listRuns(ctx context.Context, db *database.MirrorDB, rootURL string, limit int) error {
	runs, err := db.ListRuns(ctx, rootURL, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		if rootURL != "" {
			fmt.Printf("No mirror runs found for %s\n", rootURL)
		} else {
			fmt.Println("No mirror runs found in the database.")
		}
		fmt.Println("\nUse 'sitemirror mirror <url>' to mirror a site.")
		return nil
	}

	fmt.Printf("Mirror runs (%d):\n\n", len(runs))
	fmt.Printf("  %-36s  %-19s  %-7s  %-7s  %s\n", "Run ID", "Started", "Pages", "Assets", "Site")
	fmt.Println("  " + strings.Repeat("-", 100))

	for _, run := range runs {
		pages := fmt.Sprintf("%d/%d", run.PagesSucceeded, run.PagesDiscovered)
		status := ""
		if run.Cancelled {
			status = " (cancelled)"
		}
		fmt.Printf("  %-36s  %-19s  %-7s  %-7d  %s%s\n",
			run.RunID,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			pages,
			run.AssetsSucceeded,
			run.RootURL,
			status,
		)
	}

	fmt.Println("\nUse 'sitemirror history --run-id <id>' to see a run's full report.")
	return nil
}

// showRunReport prints the full stored report for one run.
func showRunReport(ctx context.Context, db *database.MirrorDB, runID string, jsonOutput bool) error {
	mirrorReport, err := db.GetReport(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to get report: %w", err)
	}
	if mirrorReport == nil {
		return fmt.Errorf("run %s not found (use 'sitemirror history' to list runs)", runID)
	}

	var writer report.Writer
	if jsonOutput {
		writer = report.NewJSONWriter(os.Stdout, report.WithPrettyPrint())
	} else {
		writer = report.NewSimpleWriter(os.Stdout, report.WithVerbose(true))
	}

	_, err = writer.Write(mirrorReport)
	return err
}
