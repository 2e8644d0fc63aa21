// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/curation-engine/internal/docstore"
	"github.com/pdiddy/curation-engine/internal/extract"
	"github.com/pdiddy/curation-engine/internal/pipeline"
	"github.com/pdiddy/curation-engine/internal/pubmed"
	"github.com/pdiddy/curation-engine/pkg/types"
)

var curateCmd = &cobra.Command{
	Use:   "curate GENE DISEASE",
	Short: "Run the full curation pipeline for a gene-disease pair",
	Long: `Curate evidence for a gene-disease relationship: search PubMed for
abstracts mentioning both terms, extract categorized evidence from each
abstract, aggregate per-category scores, and classify the relationship
strength.

Examples:
  curation-engine curate BRCA1 "breast cancer"
  curation-engine curate SCN1A "Dravet syndrome" --max-results 50 --json
  curation-engine curate MECP2 "Rett syndrome" --save`,
	Args: cobra.ExactArgs(2),
	RunE: runCurate,
}

func init() {
	curateCmd.Flags().Int("max-results", types.DefaultMaxResults, "maximum number of PubMed results")
	curateCmd.Flags().Int("batch-size", types.DefaultBatchSize, "abstracts extracted concurrently per batch")
	curateCmd.Flags().Int("excerpt-limit", types.DefaultExcerptLimit, "abstract excerpt length sent to the oracle, in characters")
	curateCmd.Flags().String("model", "claude-sonnet-4-5-20250929", "oracle model identifier")
	curateCmd.Flags().String("api-key", "", "Anthropic API key (default: .secrets/anthropic-api-key)")
	curateCmd.Flags().String("pubmed-api-key", "", "NCBI API key for higher rate limits (default: .secrets/pubmed-api-key)")
	curateCmd.Flags().Bool("json", false, "emit the final state as JSON")
	curateCmd.Flags().Bool("yaml", false, "emit the final state as YAML")
	curateCmd.Flags().Bool("save", false, "persist the run and its documents to the local index")
	curateCmd.Flags().String("data-dir", "data", "base directory for the local index")

	rootCmd.AddCommand(curateCmd)
}

func runCurate(cmd *cobra.Command, args []string) error {
	gene, disease := args[0], args[1]

	maxResults, _ := cmd.Flags().GetInt("max-results")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	excerptLimit, _ := cmd.Flags().GetInt("excerpt-limit")
	model, _ := cmd.Flags().GetString("model")
	apiKey, _ := cmd.Flags().GetString("api-key")
	pubmedKey, _ := cmd.Flags().GetString("pubmed-api-key")
	asJSON, _ := cmd.Flags().GetBool("json")
	asYAML, _ := cmd.Flags().GetBool("yaml")
	save, _ := cmd.Flags().GetBool("save")
	dataDir, _ := cmd.Flags().GetString("data-dir")

	apiKey = secretDefault("anthropic-api-key", apiKey)
	if apiKey == "" {
		return fmt.Errorf("no Anthropic API key: pass --api-key or create .secrets/anthropic-api-key")
	}

	cfg := types.PipelineConfig{
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "curation-engine/" + version,
			},
			MaxResults: maxResults,
			APIKey:     secretDefault("pubmed-api-key", pubmedKey),
		},
		Extraction: types.ExtractionConfig{
			AIConfig: types.AIConfig{
				Model:  model,
				APIKey: apiKey,
			},
			BatchSize:    batchSize,
			ExcerptLimit: excerptLimit,
		},
	}

	client := pubmed.NewClient(cfg.Search)
	backend := &extract.ClaudeBackend{
		APIKey: apiKey,
		Model:  model,
		Client: &http.Client{Timeout: 60 * time.Second},
	}
	orchestrator := extract.NewOrchestrator(backend, cfg.Extraction)

	// Progress goes to stderr so JSON/YAML output stays parseable.
	controller, err := pipeline.NewController(client, client, orchestrator, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	state, err := controller.Run(cmd.Context(), gene, disease)
	if err != nil {
		return err
	}

	switch {
	case asJSON:
		if err := pipeline.FormatJSON(state, cmd.OutOrStdout()); err != nil {
			return err
		}
	case asYAML:
		if err := pipeline.FormatYAML(state, cmd.OutOrStdout()); err != nil {
			return err
		}
	default:
		pipeline.FormatReport(state, cmd.OutOrStdout())
	}

	if save {
		if err := saveRun(cmd, dataDir, state); err != nil {
			return fmt.Errorf("saving run: %w", err)
		}
	}

	return nil
}

// saveRun persists the run state and its fetched documents to the local
// index so they are queryable via the index subcommands.
func saveRun(cmd *cobra.Command, dataDir string, state *types.CurationState) error {
	store, err := docstore.NewStore(types.IndexConfig{DataDir: dataDir})
	if err != nil {
		return err
	}
	defer store.Close()

	docs := make([]types.DocumentMetadata, 0, len(state.Abstracts))
	for _, doc := range state.Abstracts {
		docs = append(docs, doc)
	}
	if len(docs) > 0 {
		if _, err := store.Add(cmd.Context(), docs); err != nil {
			return err
		}
	}

	if err := store.SaveRun(cmd.Context(), state); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Saved run %s to %s\n", state.RunID, dataDir)
	return nil
}
