// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/curation-engine/internal/pubmed"
	"github.com/pdiddy/curation-engine/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search GENE DISEASE",
	Short: "Search PubMed for a gene-disease pair without running the pipeline",
	Long: `Search PubMed for abstracts mentioning both the gene and the disease
and print the matching documents. Useful for previewing what the curate
command would process.

Examples:
  curation-engine search BRCA1 "breast cancer"
  curation-engine search SCN1A "Dravet syndrome" --max-results 10 --pmids-only`,
	Args: cobra.ExactArgs(2),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("max-results", types.DefaultMaxResults, "maximum number of PubMed results")
	searchCmd.Flags().Bool("pmids-only", false, "print only the PMIDs, one per line")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	gene, disease := args[0], args[1]

	maxResults, _ := cmd.Flags().GetInt("max-results")
	pmidsOnly, _ := cmd.Flags().GetBool("pmids-only")

	client := pubmed.NewClient(types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: "curation-engine/" + version,
		},
		MaxResults: maxResults,
		APIKey:     secretDefault("pubmed-api-key", ""),
	})

	pmids, err := client.Search(cmd.Context(), gene, disease, maxResults)
	if err != nil {
		return fmt.Errorf("searching PubMed: %w", err)
	}
	if len(pmids) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No results for %s and %s\n", gene, disease)
		return nil
	}

	if pmidsOnly {
		for _, pmid := range pmids {
			fmt.Fprintln(cmd.OutOrStdout(), pmid)
		}
		return nil
	}

	docs, err := client.FetchAbstracts(cmd.Context(), pmids)
	if err != nil {
		return fmt.Errorf("fetching abstracts: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Found %d results for %s and %s\n\n", len(pmids), gene, disease)
	for _, pmid := range pmids {
		doc, ok := docs[pmid]
		if !ok {
			fmt.Fprintf(out, "PMID %s (no abstract available)\n\n", pmid)
			continue
		}
		fmt.Fprintf(out, "PMID %s", doc.PMID)
		if doc.Year > 0 {
			fmt.Fprintf(out, " (%d)", doc.Year)
		}
		if doc.FirstAuthor != "" {
			fmt.Fprintf(out, " %s et al.", doc.FirstAuthor)
		}
		fmt.Fprintf(out, "\n  %s\n\n", doc.Title)
	}

	return nil
}
