package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/codedrill/internal/store"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List problems in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		difficultyFlag, _ := cmd.Flags().GetString("difficulty")
		solvedOnly, _ := cmd.Flags().GetBool("solved")
		unsolvedOnly, _ := cmd.Flags().GetBool("unsolved")
		limit, _ := cmd.Flags().GetInt("limit")

		filter := store.ListFilter{Limit: limit}
		if difficultyFlag != "" {
			d, err := store.ParseDifficulty(difficultyFlag)
			if err != nil {
				return err
			}
			filter.Difficulty = d
		}
		if solvedOnly && unsolvedOnly {
			return fmt.Errorf("--solved and --unsolved are mutually exclusive")
		}
		if solvedOnly {
			v := true
			filter.Solved = &v
		}
		if unsolvedOnly {
			v := false
			filter.Solved = &v
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		problems, err := s.List(context.Background(), filter)
		if err != nil {
			return fmt.Errorf("list problems: %w", err)
		}

		if len(problems) == 0 {
			fmt.Println("No problems found.")
			return nil
		}

		for _, p := range problems {
			mark := " "
			if p.IsSolved {
				mark = "x"
			}
			fmt.Printf("[%s] %-8s %-24s %s\n", mark, p.Difficulty, p.ID, p.Title)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringP("difficulty", "D", "", "Filter by difficulty")
	listCmd.Flags().Bool("solved", false, "Show only solved problems")
	listCmd.Flags().Bool("unsolved", false, "Show only unsolved problems")
	listCmd.Flags().IntP("limit", "n", 0, "Limit the number of results (0 = all)")
}
