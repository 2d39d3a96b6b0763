package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/codedrill/internal/store"
)

var doneCmd = &cobra.Command{
	Use:   "done <problem-id>",
	Short: "Mark a problem as solved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setSolved(cmd, args[0], true)
	},
}

var undoCmd = &cobra.Command{
	Use:   "undo <problem-id>",
	Short: "Mark a problem as not solved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setSolved(cmd, args[0], false)
	},
}

func setSolved(cmd *cobra.Command, id string, solved bool) error {
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

	ctx := context.Background()
	var p *store.Problem
	if solved {
		p, err = s.MarkSolved(ctx, id)
	} else {
		p, err = s.MarkUnsolved(ctx, id)
	}
	if err != nil {
		return err
	}

	if solved {
		fmt.Printf("Solved: [%s] %s (%s)\n", p.ID, p.Title, p.Difficulty)
	} else {
		fmt.Printf("Back to unsolved: [%s] %s (%s)\n", p.ID, p.Title, p.Difficulty)
	}
	return nil
}
