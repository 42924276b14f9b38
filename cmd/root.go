package cmd

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/GopalOmotec/echolearn-updated/internal/config"
	"github.com/GopalOmotec/echolearn-updated/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "echolearn",
	Short: "Adaptive viva question engine",
	Long: "EchoLearn picks the next question for a learner from a question bank, " +
		"raising or lowering difficulty on a 1-20 scale as answers are scored.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides config and ECHOLEARN_DB)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/echolearn/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log engine decisions to stderr")

	rootCmd.AddCommand(bankCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then db_path from config, then ECHOLEARN_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// openStore loads the config and opens the database it points at.
func openStore(cmd *cobra.Command) (*store.Store, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return st, cfg, nil
}

func newLogger(cmd *cobra.Command) *log.Logger {
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		return log.New(cmd.ErrOrStderr(), "", log.Ltime)
	}
	return log.New(io.Discard, "", 0)
}
