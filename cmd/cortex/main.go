// Package main implements the cortex CLI - a thin collaborator over the
// memory engine, not part of the core (spec §6).
//
// # File Index
//
//   - main.go          - entry point, rootCmd, global flags, Runtime lifecycle
//   - cmd_memory.go    - create/get/update/archive/restore
//   - cmd_query.go     - search/list/status
//   - cmd_background.go - consolidate/sync
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cortexmemory/cortex/internal/config"
	"github.com/cortexmemory/cortex/internal/logging"
	"github.com/cortexmemory/cortex/internal/runtime"
)

var (
	verbose    bool
	dataDir    string
	configPath string
	agentID    string
	timeout    time.Duration

	logger *zap.Logger
	rt     *runtime.Runtime
)

var rootCmd = &cobra.Command{
	Use:   "cortex",
	Short: "cortex - persistent bitemporal memory engine for autonomous agents",
	Long: `cortex stores what an autonomous agent learns across sessions: insights,
decisions, preferences, and the causal relationships between them, with
confidence that decays over time and consolidation that periodically
abstracts episodic noise into durable semantic memory.

This CLI is a thin collaborator over that engine, not the engine itself.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// internal/logging resolves <workspace>/.cortex/{config.json,logs}, so
		// it is given DataDir's parent; the two line up when DataDir is named
		// .cortex, as the default is.
		if err := logging.Initialize(filepath.Dir(cfg.DataDir)); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to initialize file logging: %v\n", err)
		}

		rt, err = runtime.New(cfg)
		if err != nil {
			return fmt.Errorf("boot runtime: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if rt != nil {
			_ = rt.Close()
		}
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

// loadConfig resolves the on-disk config, applying --data-dir/--agent-id as
// overrides on top of whatever the file or environment already set.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		dir := dataDir
		if dir == "" {
			dir = config.DefaultConfig().DataDir
		}
		path = filepath.Join(dir, "config.yaml")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if agentID != "" {
		cfg.CRDT.AgentID = agentID
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "override the configured data directory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (default: <data-dir>/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&agentID, "agent-id", "", "override this node's agent id")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "operation timeout")

	rootCmd.AddCommand(
		createCmd,
		getCmd,
		updateCmd,
		archiveCmd,
		restoreCmd,
		searchCmd,
		listCmd,
		statusCmd,
		consolidateCmd,
		syncCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}
