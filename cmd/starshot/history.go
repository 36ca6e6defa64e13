package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/starshot/internal/console"
	"github.com/vovakirdan/starshot/internal/storage"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history [username]",
	Short: "Show render history",
	Long: `Display recent renders, newest first. With a username, shows that
user's history plus aggregated statistics.

Examples:
  starshot history
  starshot history torvalds --limit 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Maximum number of records to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	username := ""
	if len(args) == 1 {
		username = args[0]
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.RecentRenders(username, flagHistoryLimit)
	if err != nil {
		return err
	}
	fmt.Print(console.HistoryTable(records))

	if username != "" && len(records) > 0 {
		stats, err := store.Stats(username)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Printf("Renders: %d  Best: %d  Avg: %.0f  Output: %d bytes\n",
			stats.Renders, stats.HighScore, stats.AvgScore, stats.TotalBytes)
	}
	return nil
}
