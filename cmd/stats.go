package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/codedrill/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show solve statistics and streaks",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		st, err := s.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("compute stats: %w", err)
		}

		fmt.Printf("Solved %d of %d problems (%.1f%%)\n", st.Solved, st.Total, st.CompletionPct())
		for _, dc := range st.ByDifficulty {
			fmt.Printf("  %-8s %d/%d\n", dc.Difficulty, dc.Solved, dc.Total)
		}
		fmt.Printf("Current streak: %d day(s)\n", st.CurrentStreak)
		fmt.Printf("Longest streak: %d day(s)\n", st.LongestStreak)
		return nil
	},
}
