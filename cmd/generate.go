package cmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/codedrill/internal/llm"
	"github.com/abhisek/codedrill/internal/problemgen"
	"github.com/abhisek/codedrill/internal/store"
	"github.com/abhisek/codedrill/internal/vectorindex"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate and store a new practice problem",
	RunE: func(cmd *cobra.Command, args []string) error {
		difficultyFlag, _ := cmd.Flags().GetString("difficulty")
		category, _ := cmd.Flags().GetString("category")

		difficulty, err := store.ParseDifficulty(difficultyFlag)
		if err != nil {
			return err
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		lock, err := acquireStoreLock(dbPath)
		if err != nil {
			return err
		}
		defer lock.Release()

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		llmCfg := llm.ConfigFromEnv()
		if err := llmCfg.Validate(); err != nil {
			return err
		}
		provider, err := llm.NewProvider(llmCfg)
		if err != nil {
			return err
		}

		ctx := context.Background()
		gen := problemgen.New(provider, buildDetector(ctx, provider), s, problemgen.ConfigFromEnv())

		outcome, err := gen.Generate(ctx, problemgen.GenerateInput{
			Difficulty: difficulty,
			Category:   category,
		})
		if err != nil {
			return err
		}

		p := outcome.Problem
		if outcome.FallbackUsed {
			fmt.Println("Generation unavailable, stored a built-in problem instead.")
		}
		fmt.Printf("[%s] %s (%s)\n", p.ID, p.Title, p.Difficulty)
		fmt.Printf("Category: %s\n", p.Category)
		fmt.Println()
		fmt.Println(p.Description)
		if len(p.TestCases) > 0 {
			fmt.Println()
			for i, tc := range p.TestCases {
				fmt.Printf("Example %d: input %q -> %q\n", i+1, tc.Input, tc.Expected)
			}
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringP("difficulty", "D", "Medium", "Target difficulty: Easy, Medium or Hard")
	generateCmd.Flags().StringP("category", "c", "", "Optional category hint, e.g. arrays, graphs")
}

// buildDetector wires the duplicate detector when both an embedder and a
// reachable vector index are available. Anything missing degrades to "no
// duplicate check" — a quality heuristic only.
func buildDetector(ctx context.Context, provider llm.Provider) *problemgen.DuplicateDetector {
	cfg := problemgen.ConfigFromEnv()

	embedder, ok := provider.(llm.Embedder)
	if !ok {
		logrus.Debug("provider has no embedding support, duplicate check disabled")
		return problemgen.NewDuplicateDetector(nil, nil, cfg)
	}

	index := vectorindex.NewClient(vectorindex.ConfigFromEnv())
	if err := index.EnsureCollection(ctx); err != nil {
		logrus.WithError(err).Warn("vector index unavailable, duplicate check disabled")
		return problemgen.NewDuplicateDetector(nil, nil, cfg)
	}

	return problemgen.NewDuplicateDetector(embedder, index, cfg)
}
