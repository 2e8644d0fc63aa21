// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/curation-engine/internal/docstore"
	"github.com/pdiddy/curation-engine/internal/pubmed"
	"github.com/pdiddy/curation-engine/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the local document index",
	Long: `Manage the local full-text index of fetched documents and stored
curation runs.

Examples:
  curation-engine index add 12345678 23456789
  curation-engine index query "loss of function"
  curation-engine index query "missense" --year-from 2015 --author Smith
  curation-engine index runs`,
}

var indexAddCmd = &cobra.Command{
	Use:   "add PMID [PMID...]",
	Short: "Fetch documents from PubMed and add them to the index",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIndexAdd,
}

var indexQueryCmd = &cobra.Command{
	Use:   "query [TEXT]",
	Short: "Run a ranked full-text query over indexed documents",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIndexQuery,
}

var indexRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored curation runs",
	Args:  cobra.NoArgs,
	RunE:  runIndexRuns,
}

func init() {
	indexCmd.PersistentFlags().String("data-dir", "data", "base directory for the local index")

	indexQueryCmd.Flags().Int("k", 0, "maximum number of results (0 uses the store default)")
	indexQueryCmd.Flags().Int("year-from", 0, "only documents published in or after this year")
	indexQueryCmd.Flags().Int("year-to", 0, "only documents published in or before this year")
	indexQueryCmd.Flags().String("author", "", "only documents with this first-author last name")

	indexCmd.AddCommand(indexAddCmd)
	indexCmd.AddCommand(indexQueryCmd)
	indexCmd.AddCommand(indexRunsCmd)
	rootCmd.AddCommand(indexCmd)
}

func openStore(cmd *cobra.Command) (*docstore.Store, error) {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	return docstore.NewStore(types.IndexConfig{DataDir: dataDir})
}

func runIndexAdd(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	client := pubmed.NewClient(types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: "curation-engine/" + version,
		},
		APIKey: secretDefault("pubmed-api-key", ""),
	})

	docs, err := client.FetchAbstracts(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("fetching abstracts: %w", err)
	}
	if len(docs) == 0 {
		return fmt.Errorf("no abstracts available for the given PMIDs")
	}

	list := make([]types.DocumentMetadata, 0, len(docs))
	for _, doc := range docs {
		list = append(list, doc)
	}
	added, err := store.Add(cmd.Context(), list)
	if err != nil {
		return fmt.Errorf("adding documents: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d documents\n", len(added))
	for _, pmid := range args {
		if _, ok := docs[pmid]; !ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "Skipped %s: no abstract available\n", pmid)
		}
	}
	return nil
}

func runIndexQuery(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	var query string
	if len(args) == 1 {
		query = args[0]
	}

	k, _ := cmd.Flags().GetInt("k")
	yearFrom, _ := cmd.Flags().GetInt("year-from")
	yearTo, _ := cmd.Flags().GetInt("year-to")
	author, _ := cmd.Flags().GetString("author")

	results, err := store.Search(cmd.Context(), query, k, docstore.Filters{
		YearFrom: yearFrom,
		YearTo:   yearTo,
		Author:   author,
	})
	if err != nil {
		return fmt.Errorf("querying index: %w", err)
	}
	if len(results) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No matching documents")
		return nil
	}

	out := cmd.OutOrStdout()
	for _, r := range results {
		fmt.Fprintf(out, "PMID %s", r.PMID)
		if r.Year > 0 {
			fmt.Fprintf(out, " (%d)", r.Year)
		}
		if r.FirstAuthor != "" {
			fmt.Fprintf(out, " %s et al.", r.FirstAuthor)
		}
		fmt.Fprintf(out, "\n  %s\n\n", r.Title)
	}
	return nil
}

func runIndexRuns(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Runs(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No stored runs")
		return nil
	}

	out := cmd.OutOrStdout()
	for _, r := range runs {
		fmt.Fprintf(out, "%s  %s / %s\n  %s (confidence %.0f%%, total %.2f)  %s\n\n",
			r.ID, r.Gene, r.Disease, r.Classification, r.Confidence*100, r.TotalScore, r.Created)
	}
	return nil
}
