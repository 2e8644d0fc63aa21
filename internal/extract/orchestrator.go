// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/pdiddy/curation-engine/pkg/types"
)

// Orchestrator fans the four categorical extractors out over abstracts.
type Orchestrator struct {
	extractors []*Extractor
}

// NewOrchestrator builds the four categorical extractors against the
// given oracle backend.
func NewOrchestrator(backend Backend, cfg types.ExtractionConfig) *Orchestrator {
	return &Orchestrator{
		extractors: []*Extractor{
			newExtractor(types.CategoryVariant, variantPromptTmpl, parseVariant, backend, cfg),
			newExtractor(types.CategoryFunctional, functionalPromptTmpl, parseFunctional, backend, cfg),
			newExtractor(types.CategoryCohort, cohortPromptTmpl, parseCohort, backend, cfg),
			newExtractor(types.CategorySegregation, segregationPromptTmpl, parseSegregation, backend, cfg),
		},
	}
}

// ExtractAll runs every categorical extractor concurrently against one
// abstract and returns the records found. Categories that failed or found
// no evidence contribute nothing; the result never exceeds one record per
// category. Completion order is unspecified and does not matter to
// scoring, which is order-independent.
func (o *Orchestrator) ExtractAll(ctx context.Context, pmid, abstract, gene, disease string) []types.EvidenceRecord {
	ch := make(chan *types.EvidenceRecord, len(o.extractors))
	var wg sync.WaitGroup

	for _, e := range o.extractors {
		wg.Add(1)
		go func(e *Extractor) {
			defer wg.Done()
			record, err := e.Analyze(ctx, pmid, abstract, gene, disease)
			if err != nil {
				// Contain the failure: a broken category reads as
				// "no evidence" downstream.
				ch <- nil
				return
			}
			ch <- record
		}(e)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var records []types.EvidenceRecord
	for record := range ch {
		if record != nil {
			records = append(records, *record)
		}
	}
	return records
}

// ExtractBatches runs ExtractAll over all documents in bounded concurrent
// batches. Within a batch every document runs concurrently; batch N+1
// does not start until batch N has fully settled, which caps peak oracle
// concurrency at batchSize x 4 categorical calls. Records append in batch
// order; ordering has no semantic effect on scoring.
func (o *Orchestrator) ExtractBatches(ctx context.Context, pmids []string,
	docs map[string]types.DocumentMetadata, gene, disease string,
	batchSize int, w io.Writer) []types.EvidenceRecord {

	if batchSize <= 0 {
		batchSize = types.DefaultBatchSize
	}
	if w == nil {
		w = io.Discard
	}

	var all []types.EvidenceRecord

	for start := 0; start < len(pmids); start += batchSize {
		end := start + batchSize
		if end > len(pmids) {
			end = len(pmids)
		}
		batch := pmids[start:end]

		results := make([][]types.EvidenceRecord, len(batch))
		var wg sync.WaitGroup

		for i, pmid := range batch {
			doc, ok := docs[pmid]
			if !ok {
				continue
			}
			wg.Add(1)
			go func(i int, pmid, abstract string) {
				defer wg.Done()
				results[i] = o.ExtractAll(ctx, pmid, abstract, gene, disease)
			}(i, pmid, doc.Abstract)
		}

		wg.Wait()

		for i, records := range results {
			if len(records) > 0 {
				fmt.Fprintf(w, "extracted %d evidence items from PMID %s\n", len(records), batch[i])
			}
			all = append(all, records...)
		}
	}

	return all
}
