package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cortexmemory/cortex/internal/retrieval"
	"github.com/cortexmemory/cortex/internal/types"
)

var (
	searchActiveFiles []string
	searchBudget      int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run the two-stage hybrid retrieval pipeline over a free-text query",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

var (
	listType  string
	listLimit int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List memories, optionally filtered by type",
	RunE:  runList,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report engine health: subsystem status, memory-quality metrics, recommendations",
	RunE:  runStatus,
}

func init() {
	searchCmd.Flags().StringSliceVar(&searchActiveFiles, "active-file", nil, "file currently open/edited, biases file-proximity scoring (repeatable)")
	searchCmd.Flags().IntVar(&searchBudget, "budget", 4000, "token budget to pack results into")

	listCmd.Flags().StringVar(&listType, "type", "", "filter by memory type (default: most recently accessed across all types)")
	listCmd.Flags().IntVar(&listLimit, "limit", 50, "maximum results")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	rctx := &retrieval.RetrievalContext{
		Focus:       args[0],
		ActiveFiles: searchActiveFiles,
	}
	packed, err := rt.Retrieval.Retrieve(ctx, rctx, searchBudget)
	if err != nil {
		return err
	}
	return printJSON(packed)
}

func runList(cmd *cobra.Command, args []string) error {
	if listType != "" {
		memType := types.MemoryType(listType)
		if !memType.IsValid() {
			return fmt.Errorf("unknown memory type %q", listType)
		}
		memories, err := rt.Store.QueryByType(memType)
		if err != nil {
			return err
		}
		if listLimit > 0 && len(memories) > listLimit {
			memories = memories[:listLimit]
		}
		return printJSON(memories)
	}
	memories, err := rt.Store.RecentlyAccessed(listLimit)
	if err != nil {
		return err
	}
	return printJSON(memories)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	report, err := rt.HealthReport(ctx)
	if err != nil {
		return err
	}
	return printJSON(report)
}
