// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/geodcat-bridge/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded conversion runs",
	Long: `History prints the most recent conversion runs from the run log,
newest first: status, source, triple count (when validated), and duration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		limit, _ := cmd.Flags().GetInt("limit")

		store, err := history.NewStore(cfg.History)
		if err != nil {
			return fmt.Errorf("opening history store: %w", err)
		}
		defer store.Close()

		records, err := store.Recent(limit)
		if err != nil {
			return fmt.Errorf("listing runs: %w", err)
		}

		w := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(w, "no runs recorded")
			return nil
		}

		for _, rec := range records {
			line := fmt.Sprintf("%-4d %-9s %s %s (%s)",
				rec.ID, rec.Status, rec.StartedAt.Format(time.RFC3339),
				rec.SourceURL, rec.Duration.Round(time.Millisecond))
			if rec.Triples >= 0 {
				line += fmt.Sprintf(" [%d triples]", rec.Triples)
			}
			if rec.Error != "" {
				line += " error: " + rec.Error
			}
			fmt.Fprintln(w, line)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 0, "maximum runs to list (default: history.max_results)")

	rootCmd.AddCommand(historyCmd)
}
