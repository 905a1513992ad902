package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cortexmemory/cortex/internal/types"
)

var consolidateCmd = &cobra.Command{
	Use:   "consolidate",
	Short: "Run one pass of the six-phase consolidation pipeline",
	RunE:  runConsolidate,
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Publish or deliver CRDT deltas for multi-agent memory sync",
}

var syncPushCmd = &cobra.Command{
	Use:   "push <memory-id> --peer <agent>",
	Short: "Enqueue a memory as an outbound delta to peer",
	Args:  cobra.ExactArgs(1),
	RunE:  runSyncPush,
}

var syncDeliverCmd = &cobra.Command{
	Use:   "deliver",
	Short: "Apply every causally-ready delta queued for this agent",
	RunE:  runSyncDeliver,
}

var syncPeer string

func init() {
	syncPushCmd.Flags().StringVar(&syncPeer, "peer", "", "destination agent id (required)")
	syncPushCmd.MarkFlagRequired("peer")
	syncCmd.AddCommand(syncPushCmd, syncDeliverCmd)
}

func runConsolidate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	result, err := rt.Consolidation.Run(ctx, time.Now())
	if err != nil {
		return err
	}
	return printJSON(result)
}

func runSyncPush(cmd *cobra.Command, args []string) error {
	m, err := rt.Store.Get(args[0])
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("memory %s not found", args[0])
	}
	source := types.AgentID(rt.Config.CRDT.AgentID)
	clock := types.NewVectorClock().Increment(source)
	if err := rt.Sync.Publish(types.AgentID(syncPeer), clock, m); err != nil {
		return err
	}
	fmt.Printf("enqueued %s for %s\n", m.ID, syncPeer)
	return nil
}

func runSyncDeliver(cmd *cobra.Command, args []string) error {
	agent := types.AgentID(rt.Config.CRDT.AgentID)
	updated, err := rt.Sync.Deliver(agent)
	if err != nil {
		return err
	}
	return printJSON(updated)
}
