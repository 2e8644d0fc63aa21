// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline sequences one curation run as a strict linear pass:
// search, fetch, extract, score, classify. Each stage produces a partial
// update merged into a single accumulating CurationState; empty input
// short-circuits the run to completion rather than failing it.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/pdiddy/curation-engine/internal/classify"
	"github.com/pdiddy/curation-engine/internal/scoring"
	"github.com/pdiddy/curation-engine/pkg/types"
)

// LiteratureSearch finds candidate PMIDs for a gene-disease pair. A
// transport failure may surface as an error; the pipeline converts it to
// an empty result and records the problem in the state's error list.
type LiteratureSearch interface {
	Search(ctx context.Context, gene, disease string, maxResults int) ([]string, error)
}

// DocumentFetch resolves PMIDs to document metadata. Identifiers that
// could not be resolved are silently omitted from the result map.
type DocumentFetch interface {
	FetchAbstracts(ctx context.Context, pmids []string) (map[string]types.DocumentMetadata, error)
}

// EvidenceExtractor runs batched categorical evidence extraction over the
// fetched documents.
type EvidenceExtractor interface {
	ExtractBatches(ctx context.Context, pmids []string, docs map[string]types.DocumentMetadata,
		gene, disease string, batchSize int, w io.Writer) []types.EvidenceRecord
}

// Controller owns the CurationState for the duration of one run and
// drives the stages in order. Collaborators are injected; the controller
// holds no process-wide singletons, so concurrent runs with separate
// controllers are safe.
type Controller struct {
	search    LiteratureSearch
	fetch     DocumentFetch
	extractor EvidenceExtractor
	cfg       types.PipelineConfig
	out       io.Writer
}

// NewController validates the collaborator wiring and returns a
// controller. A nil collaborator is a caller contract violation and
// propagates as an error rather than degrading silently.
func NewController(search LiteratureSearch, fetch DocumentFetch,
	extractor EvidenceExtractor, cfg types.PipelineConfig, out io.Writer) (*Controller, error) {

	if search == nil || fetch == nil || extractor == nil {
		return nil, fmt.Errorf("pipeline controller requires search, fetch, and extractor collaborators")
	}
	if out == nil {
		out = io.Discard
	}
	cfg.Normalize()

	return &Controller{
		search:    search,
		fetch:     fetch,
		extractor: extractor,
		cfg:       cfg,
		out:       out,
	}, nil
}

// Run executes one curation for the gene-disease pair and returns the
// finalized state. A run that finds nothing still returns a well-formed,
// zero-scored state; only caller contract violations (empty gene or
// disease) return an error.
func (c *Controller) Run(ctx context.Context, gene, disease string) (*types.CurationState, error) {
	if gene == "" || disease == "" {
		return nil, fmt.Errorf("gene and disease must both be non-empty")
	}

	start := time.Now()
	state := types.NewCurationState(gene, disease)

	stages := []func(context.Context, *types.CurationState) types.Update{
		c.searchStage,
		c.fetchStage,
		c.extractStage,
		c.scoreStage,
		c.classifyStage,
	}

	for _, stage := range stages {
		state.Apply(stage(ctx, state))
		if state.Stage == types.StageComplete {
			break
		}
	}

	state.ProcessingTime = time.Since(start)
	return state, nil
}

// searchStage queries the literature search collaborator. Zero results
// (including transport failure, which degrades to zero results)
// short-circuit the run to completion with an explanatory error entry.
func (c *Controller) searchStage(ctx context.Context, state *types.CurationState) types.Update {
	var errs []string

	pmids, err := c.search.Search(ctx, state.Gene, state.Disease, c.cfg.Search.MaxResults)
	if err != nil {
		errs = append(errs, fmt.Sprintf("literature search failed: %v", err))
		pmids = nil
	}

	if len(pmids) == 0 {
		errs = append(errs, fmt.Sprintf("no papers found for %s and %s", state.Gene, state.Disease))
		return types.Update{
			Classification: classify.NoEvidence,
			Stage:          types.StageComplete,
			Messages:       []string{"No literature found"},
			Errors:         errs,
		}
	}

	fmt.Fprintf(c.out, "found %d papers\n", len(pmids))
	return types.Update{
		PMIDs:    pmids,
		Stage:    types.StageFetch,
		Messages: []string{fmt.Sprintf("Found %d papers", len(pmids))},
		Errors:   errs,
	}
}

// fetchStage retrieves document metadata and derives the sorted
// publication-year list and the distinct first-author count from
// whatever resolved. Zero fetched documents short-circuit to completion.
func (c *Controller) fetchStage(ctx context.Context, state *types.CurationState) types.Update {
	var errs []string

	docs, err := c.fetch.FetchAbstracts(ctx, state.PMIDs)
	if err != nil {
		errs = append(errs, fmt.Sprintf("abstract fetch failed: %v", err))
		docs = map[string]types.DocumentMetadata{}
	}

	if len(docs) == 0 {
		errs = append(errs, fmt.Sprintf("no abstracts retrieved for %s and %s", state.Gene, state.Disease))
		return types.Update{
			Classification: classify.NoEvidence,
			Stage:          types.StageComplete,
			Messages:       []string{"No abstracts retrieved"},
			Errors:         errs,
		}
	}

	var years []int
	authors := make(map[string]struct{})
	for _, doc := range docs {
		if doc.Year > 0 {
			years = append(years, doc.Year)
		}
		if doc.FirstAuthor != "" {
			authors[doc.FirstAuthor] = struct{}{}
		}
	}
	sort.Ints(years)
	groups := len(authors)

	fmt.Fprintf(c.out, "fetched %d abstracts\n", len(docs))
	return types.Update{
		Abstracts:         docs,
		AbstractsAnalyzed: len(docs),
		PublicationYears:  years,
		IndependentGroups: &groups,
		Stage:             types.StageExtract,
		Messages:          []string{fmt.Sprintf("Fetched %d abstracts", len(docs))},
		Errors:            errs,
	}
}

// extractStage delegates to the batch extractor.
func (c *Controller) extractStage(ctx context.Context, state *types.CurationState) types.Update {
	records := c.extractor.ExtractBatches(ctx, state.PMIDs, state.Abstracts,
		state.Gene, state.Disease, c.cfg.Extraction.BatchSize, c.out)

	return types.Update{
		EvidenceItems: records,
		Stage:         types.StageScore,
		Messages:      []string{fmt.Sprintf("Extracted %d evidence items", len(records))},
	}
}

// scoreStage delegates to the scoring engine.
func (c *Controller) scoreStage(_ context.Context, state *types.CurationState) types.Update {
	result := scoring.Score(state.EvidenceItems, state.Abstracts)

	return types.Update{
		Scores:            &result.Scores,
		IndependentGroups: &result.IndependentGroups,
		Stage:             types.StageClassify,
		Messages:          []string{fmt.Sprintf("Total evidence score: %.2f", result.Scores.Total)},
	}
}

// classifyStage delegates to the classification engine and completes the run.
func (c *Controller) classifyStage(_ context.Context, state *types.CurationState) types.Update {
	label, confidence := classify.Classify(state.Scores.Total, state.EvidenceItems,
		state.IndependentGroups, state.PublicationYears)

	return types.Update{
		Classification:  label,
		ConfidenceLevel: &confidence,
		Stage:           types.StageComplete,
		Messages:        []string{fmt.Sprintf("Classification: %s with confidence %.2f", label, confidence)},
	}
}
