// promptpilot is a CLI inspector for the preference-learning and
// lineage engine: record feedback, walk prompt lineage, and move taste
// packs in and out of the local ledger.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"promptpilot/internal/config"
	"promptpilot/internal/engine"
	"promptpilot/internal/logging"
	"promptpilot/internal/store"
)

var (
	// Global flags
	workspace  string
	configPath string
	dbPath     string
)

var rootCmd = &cobra.Command{
	Use:   "promptpilot",
	Short: "promptpilot - local preference-learning and lineage engine",
	Long: `promptpilot learns your taste from feedback on generated prompts and
tracks the lineage of every rewrite.

It keeps a per-keyword score ledger with time decay, a forest of prompt
versions, and a contributor reputation tier, all in one local SQLite
database. Nothing leaves your machine unless you export a taste pack.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if workspace == "" {
			ws, err := config.FindWorkspaceRoot()
			if err != nil {
				return fmt.Errorf("failed to locate workspace: %w", err)
			}
			workspace = ws
		}
		if err := logging.Initialize(workspace); err != nil {
			fmt.Fprintf(os.Stderr, "warning: logging init failed: %v\n", err)
		}
		if err := logging.InitAudit(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: audit init failed: %v\n", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAudit()
		logging.CloseAll()
	},
}

// openEngine loads config, opens the store, and builds the engine.
// The caller owns both returned handles.
func openEngine() (*engine.Engine, *store.LocalStore, error) {
	if configPath == "" {
		configPath = filepath.Join(workspace, ".promptpilot", "engine.yaml")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if dbPath != "" {
		cfg.Storage.DatabasePath = dbPath
	} else if !filepath.IsAbs(cfg.Storage.DatabasePath) {
		cfg.Storage.DatabasePath = filepath.Join(workspace, cfg.Storage.DatabasePath)
	}

	st, err := store.NewLocalStore(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, nil, err
	}

	user, err := config.LoadUserConfig(filepath.Join(workspace, ".promptpilot", "config.json"))
	if err != nil {
		user = &config.UserConfig{}
	}

	eng := engine.New(cfg, st, time.Now).WithUserConfig(user)
	return eng, st, nil
}

func main() {
	rootCmd.PersistentFlags().StringVar(&workspace, "workspace", "", "workspace root (default: auto-detect)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "engine config path")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path override")

	rootCmd.AddCommand(feedbackCmd)
	rootCmd.AddCommand(lineageCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(packCmd)
	rootCmd.AddCommand(sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
