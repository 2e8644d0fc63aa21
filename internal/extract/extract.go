// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls categorized gene-disease evidence out of abstracts
// via an evidence oracle. Four extractors, one per evidence category, fan
// out concurrently per abstract; a single failing category never blocks
// its siblings.
package extract

import (
	"context"
	"fmt"
	"text/template"

	"github.com/pdiddy/curation-engine/pkg/types"
)

// Extractor runs one evidence category's oracle call for one abstract.
type Extractor struct {
	category     types.EvidenceCategory
	tmpl         *template.Template
	parse        func(data []byte, pmid string) (*types.EvidenceRecord, error)
	backend      Backend
	maxRetries   int
	excerptLimit int
}

// newExtractor wires one category's prompt and schema to the oracle backend.
func newExtractor(category types.EvidenceCategory, tmpl *template.Template,
	parse func([]byte, string) (*types.EvidenceRecord, error),
	backend Backend, cfg types.ExtractionConfig) *Extractor {

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	excerptLimit := cfg.ExcerptLimit
	if excerptLimit <= 0 {
		excerptLimit = types.DefaultExcerptLimit
	}

	return &Extractor{
		category:     category,
		tmpl:         tmpl,
		parse:        parse,
		backend:      backend,
		maxRetries:   maxRetries,
		excerptLimit: excerptLimit,
	}
}

// Category returns the evidence category this extractor handles.
func (e *Extractor) Category() types.EvidenceCategory { return e.category }

// Analyze runs one categorical extraction against one abstract. It returns
// (record, nil) when the oracle asserted evidence, (nil, nil) when the
// oracle found none, and (nil, err) on transport, parse, or schema
// failure. Callers treat failure the same as absence; the error exists so
// the outcomes stay distinguishable for diagnostics.
func (e *Extractor) Analyze(ctx context.Context, pmid, abstract, gene, disease string) (*types.EvidenceRecord, error) {
	prompt, err := renderPrompt(e.tmpl, promptInput{
		Gene:     gene,
		Disease:  disease,
		Abstract: excerpt(abstract, e.excerptLimit),
	})
	if err != nil {
		return nil, fmt.Errorf("rendering %s prompt: %w", e.category, err)
	}

	resp, err := inferWithRetry(ctx, e.backend, prompt, e.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("%s oracle call: %w", e.category, err)
	}

	raw := extractJSON(resp)
	if raw == "" {
		return nil, fmt.Errorf("%s response contains no JSON object", e.category)
	}

	record, err := e.parse([]byte(raw), pmid)
	if err != nil {
		return nil, fmt.Errorf("%s response: %w", e.category, err)
	}
	return record, nil
}

// excerpt returns a bounded prefix of the abstract. The cap counts
// characters, not bytes, so multi-byte text is never split mid-rune.
func excerpt(abstract string, limit int) string {
	runes := []rune(abstract)
	if len(runes) <= limit {
		return abstract
	}
	return string(runes[:limit])
}
