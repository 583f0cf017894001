package main

import (
	"fmt"
	"strings"

	"github.com/NewEraCracker/dumplist/pkg/dumplist/config"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/history"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/types"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View previous runs",
	Long: `View the history of check, test, generate, update and touchdir runs.

Each run is stored as a JSON file under $XDG_STATE_HOME/dumplist/history
unless --no-history is given or history.enabled is false.`,
	Args: noArgs,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show details of a specific run",
	Long:  `Display a run by its ID. A unique prefix of the ID is enough.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean up old history entries",
	Long:  `Remove history entries older than history.retention_days.`,
	Args:  noArgs,
	RunE:  runHistoryClean,
}

var (
	historyLimit int
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of entries to show")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyCleanCmd)
	rootCmd.AddCommand(historyCmd)
}

// getHistory returns the history log at the configured directory.
func getHistory() (*history.History, error) {
	path := currentConfig().History.Path
	if path == "" {
		path = config.HistoryDir()
	}
	return history.New(path)
}

// runHistory lists recent runs.
func runHistory(_ *cobra.Command, _ []string) error {
	h, err := getHistory()
	if err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	entries, err := h.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(entries) == 0 {
		printInfo("No history entries found.")
		printInfo("Run 'dumplist generate' to create a listing.")
		return nil
	}

	fmt.Printf("\n%-8s  %-19s  %-9s  %-8s  %-8s  %s\n", "ID", "TIME", "OPERATION", "FILES", "FINDINGS", "ROOT")
	fmt.Println(strings.Repeat("-", 80))

	for _, entry := range entries {
		status := fmt.Sprintf("%d", len(entry.Findings))
		if entry.Error != "" {
			status = "failed"
		}
		fmt.Printf("%-8s  %-19s  %-9s  %-8d  %-8s  %s\n",
			entry.ShortID(),
			entry.Timestamp.Local().Format("2006-01-02 15:04:05"),
			entry.Operation,
			entry.Summary.Files,
			status,
			truncateString(entry.Root, 30),
		)
	}

	fmt.Println(strings.Repeat("-", 80))
	fmt.Printf("\nShowing %d entries. Use --limit to see more.\n", len(entries))
	fmt.Println("Use 'dumplist history show <id>' for details on a specific entry.")

	return nil
}

// runHistoryShow displays one run.
func runHistoryShow(_ *cobra.Command, args []string) error {
	h, err := getHistory()
	if err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	entry, err := h.Get(args[0])
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}

	s := entry.Summary
	fmt.Println("\nRun Details")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("ID:         %s\n", entry.ID)
	fmt.Printf("Timestamp:  %s\n", entry.Timestamp.Local().Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("Operation:  %s\n", entry.Operation)
	fmt.Printf("Root:       %s\n", entry.Root)
	if entry.ListPath != "" {
		fmt.Printf("Listing:    %s\n", entry.ListPath)
	}
	fmt.Printf("Duration:   %s\n", s.Duration)
	if entry.Error != "" {
		fmt.Printf("Error:      %s\n", entry.Error)
		return nil
	}

	if entry.Operation == opTouchdir {
		fmt.Printf("Touched:    %d directories\n", s.Touched)
	} else {
		fmt.Printf("Files:      %d\n", s.Files)
		fmt.Printf("Entries:    %d\n", s.Entries)
		fmt.Printf("New:        %d\n", s.New)
		fmt.Printf("Deleted:    %d\n", s.Deleted)
		fmt.Printf("Modified:   %d\n", s.Modified)
		fmt.Printf("Mismatched: %d\n", s.Mismatched)
		fmt.Printf("Hashed:     %d (%s)\n", s.Hashed, types.FormatSize(s.BytesHashed))
	}

	printLines("Findings", entry.Findings)
	if entry.Truncated {
		fmt.Printf("(only the first %d findings were kept)\n", history.MaxFindings)
	}
	printLines("Failures", entry.Failures)

	return nil
}

// printLines prints a titled block, at most 50 lines of it.
func printLines(title string, lines []string) {
	if len(lines) == 0 {
		return
	}

	fmt.Printf("\n%s:\n", title)
	fmt.Println(strings.Repeat("-", 60))

	limit := 50
	if len(lines) < limit {
		limit = len(lines)
	}
	for _, line := range lines[:limit] {
		fmt.Println(line)
	}
	if len(lines) > limit {
		fmt.Printf("\n... and %d more\n", len(lines)-limit)
	}
}

// runHistoryClean removes old history entries.
func runHistoryClean(_ *cobra.Command, _ []string) error {
	h, err := getHistory()
	if err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	retentionDays := currentConfig().History.RetentionDays
	if retentionDays <= 0 {
		retentionDays = config.DefaultRetentionDays
	}

	printInfo("Cleaning history entries older than %d days...", retentionDays)

	removed, err := h.Cleanup(retentionDays)
	if err != nil {
		return fmt.Errorf("failed to clean history: %w", err)
	}

	printInfo("Removed %d entries.", removed)
	return nil
}

// truncateString keeps the last maxLen characters of s, prefixed with
// "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[len(s)-maxLen:]
	}
	return "..." + s[len(s)-maxLen+3:]
}
