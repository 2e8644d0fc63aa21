// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/curation-engine/pkg/types"
)

// FormatReport writes a human-readable summary of a finished run to w.
func FormatReport(state *types.CurationState, w io.Writer) {
	rule := strings.Repeat("=", 60)

	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintf(w, "Gene-Disease Analysis: %s - %s\n", state.Gene, state.Disease)
	fmt.Fprintf(w, "%s\n", rule)

	fmt.Fprintf(w, "\nAbstracts Analyzed: %d\n", state.AbstractsAnalyzed)
	fmt.Fprintf(w, "Evidence Items Found: %d\n", len(state.EvidenceItems))

	if len(state.PublicationYears) > 0 {
		fmt.Fprintf(w, "Publication Years: %d - %d\n",
			state.PublicationYears[0], state.PublicationYears[len(state.PublicationYears)-1])
	}

	fmt.Fprintf(w, "\nEvidence Scores:\n")
	fmt.Fprintf(w, "  Variant:     %.2f\n", state.Scores.Variant)
	fmt.Fprintf(w, "  Functional:  %.2f\n", state.Scores.Functional)
	fmt.Fprintf(w, "  Segregation: %.2f\n", state.Scores.Segregation)
	fmt.Fprintf(w, "  Cohort:      %.2f\n", state.Scores.Cohort)
	fmt.Fprintf(w, "  TOTAL:       %.2f\n", state.Scores.Total)

	fmt.Fprintf(w, "\nClassification: %s\n", state.Classification)
	fmt.Fprintf(w, "Confidence: %.0f%%\n", state.ConfidenceLevel*100)

	if len(state.Errors) > 0 {
		fmt.Fprintf(w, "\nWarnings:\n")
		for _, e := range state.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}

	fmt.Fprintf(w, "\nProcessing Time: %.2fs\n", state.ProcessingTime.Seconds())
}

// FormatJSON writes the full state as indented JSON to w.
func FormatJSON(state *types.CurationState, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(state)
}

// FormatYAML writes the full state as YAML to w.
func FormatYAML(state *types.CurationState, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(state)
}
