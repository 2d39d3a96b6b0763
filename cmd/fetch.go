package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/codedrill/internal/leetcode"
	"github.com/abhisek/codedrill/internal/store"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Show today's random unsolved problems from the public catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		save, _ := cmd.Flags().GetBool("save")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		solvedIDs, err := solvedCatalogIDs(ctx, s)
		if err != nil {
			return fmt.Errorf("load solved problems: %w", err)
		}

		cachePath, err := leetcode.DefaultCachePath()
		if err != nil {
			return err
		}

		client := leetcode.NewClient("")
		picks, err := client.DailyProblems(ctx, cachePath, solvedIDs)
		if err != nil {
			return err
		}

		fmt.Println("Today's challenge (random unsolved):")
		fmt.Println()
		printPick("EASY", picks.Easy)
		printPick("MEDIUM", picks.Medium)
		printPick("HARD", picks.Hard)

		if save {
			return savePicks(ctx, dbPath, s, picks)
		}
		return nil
	},
}

func init() {
	fetchCmd.Flags().Bool("save", false, "Also import today's picks into the local catalog")
}

func printPick(label string, q *leetcode.Question) {
	if q == nil {
		fmt.Printf("%s: no unsolved problem found\n\n", label)
		return
	}
	fmt.Printf("%s: [%s] %s\n", label, q.FrontendID, q.Title)
	fmt.Printf("  Acceptance: %.1f%%\n", q.AcRate)
	fmt.Printf("  %s\n\n", q.URL())
}

// solvedCatalogIDs maps solved imported problems back to their catalog ids.
func solvedCatalogIDs(ctx context.Context, s *store.Store) (map[string]bool, error) {
	solved := true
	problems, err := s.List(ctx, store.ListFilter{Solved: &solved})
	if err != nil {
		return nil, err
	}

	ids := make(map[string]bool)
	for _, p := range problems {
		if p.Source == store.SourceLeetCode {
			ids[catalogID(p.ID)] = true
		}
	}
	return ids, nil
}

// savePicks imports the day's picks under the store lock. Already-imported
// problems are skipped.
func savePicks(ctx context.Context, dbPath string, s *store.Store, picks *leetcode.DailyPick) error {
	lock, err := acquireStoreLock(dbPath)
	if err != nil {
		return err
	}
	defer lock.Release()

	for _, q := range []*leetcode.Question{picks.Easy, picks.Medium, picks.Hard} {
		if q == nil {
			continue
		}
		id := importedID(q.FrontendID)
		exists, err := s.Exists(ctx, id)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		err = s.Insert(ctx, &store.Problem{
			ID:          id,
			Title:       q.Title,
			Description: fmt.Sprintf("See %s for the full statement.", q.URL()),
			Difficulty:  store.Difficulty(q.Difficulty),
			Category:    "leetcode",
			Source:      store.SourceLeetCode,
			URL:         q.URL(),
		})
		if err != nil {
			return err
		}
		fmt.Printf("Imported %s as %s\n", q.Title, id)
	}
	return nil
}

// importedID derives the local problem_id for a catalog question.
func importedID(frontendID string) string {
	return "lc-" + frontendID
}

// catalogID reverses importedID.
func catalogID(problemID string) string {
	if len(problemID) > 3 && problemID[:3] == "lc-" {
		return problemID[3:]
	}
	return problemID
}
