package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/codedrill/internal/lockfile"
	"github.com/abhisek/codedrill/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "codedrill",
	Short: "Personal coding-practice tracker",
	Long: "Codedrill tracks a personal catalog of coding problems, computes streaks,\n" +
		"and generates fresh problems from a local AI endpoint with semantic dedup.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env is fine; explicit env vars win either way.
		godotenv.Load()
		configureLogging()
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides CODEDRILL_DB env var)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

func configureLogging() {
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logrus.SetLevel(logrus.WarnLevel)
	if lvl, err := logrus.ParseLevel(os.Getenv("CODEDRILL_LOG_LEVEL")); err == nil {
		logrus.SetLevel(lvl)
	}
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then CODEDRILL_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// acquireStoreLock serializes store writes across concurrent invocations.
// The lock is released on interrupt as well as on the normal defer path.
func acquireStoreLock(dbPath string) (*lockfile.Lock, error) {
	lock, err := lockfile.Acquire(dbPath+".lock", lockfile.DefaultOptions())
	if err != nil {
		return nil, err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		lock.Release()
		os.Exit(130)
	}()

	return lock, nil
}
