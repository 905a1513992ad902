package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cortexmemory/cortex/internal/types"
)

var (
	createType       string
	createContent    string
	createSummary    string
	createConfidence float64
	createImportance string
	createTags       []string
	createNamespace  string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new memory",
	Long: `Create a new memory of the given type.

--content is a raw JSON object matching that type's content shape, e.g. for
"insight": {"insight": "retries mask flaky networks", "evidence": ["..."]}`,
	RunE: runCreate,
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Fetch a memory by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a memory's summary, confidence, importance, or tags",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpdate,
}

var archiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Mark a memory archived",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchive,
}

var restoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Clear a memory's archived flag",
	Args:  cobra.ExactArgs(1),
	RunE:  runRestore,
}

func init() {
	createCmd.Flags().StringVar(&createType, "type", "", "memory type, e.g. insight, decision, procedural (required)")
	createCmd.Flags().StringVar(&createContent, "content", "", "content as a JSON object matching --type's shape (required)")
	createCmd.Flags().StringVar(&createSummary, "summary", "", "one-line summary (required)")
	createCmd.Flags().Float64Var(&createConfidence, "confidence", 0.8, "initial confidence in [0,1]")
	createCmd.Flags().StringVar(&createImportance, "importance", "normal", "low, normal, high, or critical")
	createCmd.Flags().StringSliceVar(&createTags, "tag", nil, "tag (repeatable)")
	createCmd.Flags().StringVar(&createNamespace, "namespace", "", "owning namespace (default: this agent's)")
	createCmd.MarkFlagRequired("type")
	createCmd.MarkFlagRequired("content")
	createCmd.MarkFlagRequired("summary")

	updateCmd.Flags().StringVar(&createSummary, "summary", "", "new summary (unset: keep current)")
	updateCmd.Flags().Float64Var(&createConfidence, "confidence", -1, "new confidence in [0,1] (unset: keep current)")
	updateCmd.Flags().StringVar(&createImportance, "importance", "", "new importance (unset: keep current)")
	updateCmd.Flags().StringSliceVar(&createTags, "tag", nil, "replace tags with these (repeatable)")
}

func parseImportance(s string) (types.Importance, error) {
	switch strings.ToLower(s) {
	case "low":
		return types.ImportanceLow, nil
	case "normal", "":
		return types.ImportanceNormal, nil
	case "high":
		return types.ImportanceHigh, nil
	case "critical":
		return types.ImportanceCritical, nil
	default:
		return 0, fmt.Errorf("unknown importance %q (want low, normal, high, critical)", s)
	}
}

func runCreate(cmd *cobra.Command, args []string) error {
	memType := types.MemoryType(createType)
	if !memType.IsValid() {
		return fmt.Errorf("unknown memory type %q", createType)
	}
	content, err := types.DecodeContent(memType, json.RawMessage(createContent))
	if err != nil {
		return err
	}
	importance, err := parseImportance(createImportance)
	if err != nil {
		return err
	}
	contentHash, err := types.ComputeContentHash(content)
	if err != nil {
		return fmt.Errorf("hash content: %w", err)
	}

	namespace := types.NamespaceFor(types.AgentID(rt.Config.CRDT.AgentID))
	if createNamespace != "" {
		namespace = types.NamespaceID(createNamespace)
	}

	now := time.Now().UTC()
	m := &types.Memory{
		ID:              uuid.NewString(),
		MemoryType:      memType,
		Content:         content,
		Summary:         createSummary,
		TransactionTime: now,
		ValidTime:       now,
		Confidence:      createConfidence,
		Importance:      importance,
		LastAccessed:    now,
		Tags:            createTags,
		ContentHash:     contentHash,
		Namespace:       namespace,
		SourceAgent:     types.AgentID(rt.Config.CRDT.AgentID),
	}

	if err := rt.Store.Create(m); err != nil {
		return err
	}
	fmt.Println(m.ID)
	return nil
}

func runGet(cmd *cobra.Command, args []string) error {
	m, err := rt.Store.Get(args[0])
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("memory %s not found", args[0])
	}
	return printJSON(m)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	m, err := rt.Store.Get(args[0])
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("memory %s not found", args[0])
	}
	if createSummary != "" {
		m.Summary = createSummary
	}
	if createConfidence >= 0 {
		m.Confidence = createConfidence
	}
	if createImportance != "" {
		importance, err := parseImportance(createImportance)
		if err != nil {
			return err
		}
		m.Importance = importance
	}
	if cmd.Flags().Changed("tag") {
		m.Tags = createTags
	}
	if err := rt.Store.Update(m); err != nil {
		return err
	}
	return printJSON(m)
}

func runArchive(cmd *cobra.Command, args []string) error {
	return setArchived(args[0], true)
}

func runRestore(cmd *cobra.Command, args []string) error {
	return setArchived(args[0], false)
}

func setArchived(id string, archived bool) error {
	m, err := rt.Store.Get(id)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("memory %s not found", id)
	}
	m.Archived = archived
	return rt.Store.Update(m)
}
