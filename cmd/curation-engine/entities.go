// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/curation-engine/internal/entities"
	"github.com/pdiddy/curation-engine/pkg/types"
)

var entitiesCmd = &cobra.Command{
	Use:   "entities [TEXT]",
	Short: "Extract biomedical entities from text",
	Long: `Extract gene, disease, mutation, and chemical mentions from text using
pattern matching. With --tmvar, mutation mentions are extracted via the
NCBI tmVar service instead.

Text is taken from the argument, or from stdin when no argument is given.

Examples:
  curation-engine entities "BRCA1 c.68_69delAG causes breast cancer"
  cat abstract.txt | curation-engine entities
  curation-engine entities --tmvar "The p.Arg175His variant of TP53"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEntities,
}

func init() {
	entitiesCmd.Flags().Bool("tmvar", false, "use the NCBI tmVar service for mutation extraction")

	rootCmd.AddCommand(entitiesCmd)
}

func runEntities(cmd *cobra.Command, args []string) error {
	var text string
	if len(args) == 1 {
		text = args[0]
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}
	if text == "" {
		return fmt.Errorf("no text to analyze")
	}

	out := cmd.OutOrStdout()

	useTMVar, _ := cmd.Flags().GetBool("tmvar")
	if useTMVar {
		client := entities.NewTMVarClient(types.HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: "curation-engine/" + version,
		})
		mutations, err := client.ExtractMutations(cmd.Context(), text)
		if err != nil {
			return fmt.Errorf("tmVar extraction: %w", err)
		}
		if len(mutations) == 0 {
			fmt.Fprintln(out, "No mutations found")
			return nil
		}
		for _, m := range mutations {
			fmt.Fprintf(out, "%-12s %s\n", m.Type, m.Text)
		}
		return nil
	}

	found := entities.Extract(text)
	if len(found) == 0 {
		fmt.Fprintln(out, "No entities found")
		return nil
	}
	for _, e := range found {
		fmt.Fprintf(out, "%-12s %s\n", e.Type, e.Text)
	}
	return nil
}
