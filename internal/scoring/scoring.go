// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scoring aggregates heterogeneous evidence records into
// comparable per-category scores and a weighted total.
package scoring

import (
	"math"

	"github.com/pdiddy/curation-engine/pkg/types"
)

// Weights encode the domain judgment that independently replicated cohort
// and segregation evidence is stronger proof of causality than a single
// functional assay.
var weights = map[types.EvidenceCategory]float64{
	types.CategoryVariant:     1.0,
	types.CategoryFunctional:  0.8,
	types.CategorySegregation: 1.2,
	types.CategoryCohort:      1.5,
}

// MaxIndependentGroups caps the independent-source count used by
// classification. Sources beyond the cap add no further signal.
const MaxIndependentGroups = 10

// Result holds the scoring stage's output.
type Result struct {
	Scores            types.ScoreSet
	IndependentGroups int
}

// Score groups the evidence by category, scores each category, and
// combines the category scores into the fixed-weight total. It also
// counts independent contributing groups from the documents that
// supplied evidence. Scoring is a multiset reduction; record order is
// irrelevant.
func Score(evidence []types.EvidenceRecord, docs map[string]types.DocumentMetadata) Result {
	byCategory := make(map[types.EvidenceCategory][]types.EvidenceRecord)
	for _, record := range evidence {
		byCategory[record.Category] = append(byCategory[record.Category], record)
	}

	scores := types.ScoreSet{
		Variant:     categoryScore(byCategory[types.CategoryVariant]),
		Functional:  categoryScore(byCategory[types.CategoryFunctional]),
		Segregation: categoryScore(byCategory[types.CategorySegregation]),
		Cohort:      categoryScore(byCategory[types.CategoryCohort]),
	}

	scores.Total = scores.Variant*weights[types.CategoryVariant] +
		scores.Functional*weights[types.CategoryFunctional] +
		scores.Segregation*weights[types.CategorySegregation] +
		scores.Cohort*weights[types.CategoryCohort]

	return Result{
		Scores:            scores,
		IndependentGroups: independentGroups(evidence, docs),
	}
}

// categoryScore scores one category's records: the sum of strength base
// scores, scaled sub-linearly when more than one record corroborates the
// category, then adjusted by the mean oracle confidence. An empty
// category scores 0. The diminishing-returns scaling keeps a category
// with many weak mentions from dominating one strong, well-supported
// mention.
func categoryScore(records []types.EvidenceRecord) float64 {
	if len(records) == 0 {
		return 0.0
	}

	base := 0.0
	for _, r := range records {
		base += r.Strength.BaseScore()
	}

	if n := len(records); n > 1 {
		scaling := 1.0 + 0.5*math.Sqrt(float64(n-1))
		base = base * scaling / float64(n)
	}

	confidenceSum := 0.0
	for _, r := range records {
		confidenceSum += r.Confidence
	}

	return base * confidenceSum / float64(len(records))
}

// independentGroups counts distinct contributing sources among the
// documents that supplied any evidence, capped at MaxIndependentGroups.
// The source key is first-author-derived, falling back to the PMID when
// the author is unknown.
func independentGroups(evidence []types.EvidenceRecord, docs map[string]types.DocumentMetadata) int {
	sources := make(map[string]struct{})
	for _, record := range evidence {
		if doc, ok := docs[record.PMID]; ok {
			sources[doc.SourceKey()] = struct{}{}
		} else {
			sources[record.PMID] = struct{}{}
		}
	}

	if len(sources) > MaxIndependentGroups {
		return MaxIndependentGroups
	}
	return len(sources)
}
