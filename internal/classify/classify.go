// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify maps a total evidence score and diversity signals to a
// discrete relationship classification with a confidence estimate.
package classify

import (
	"github.com/pdiddy/curation-engine/pkg/types"
)

// Classification labels, strongest first.
const (
	Definitive = "definitive"
	Strong     = "strong"
	Moderate   = "moderate"
	Limited    = "limited"
	Disputed   = "disputed"
	NoEvidence = "no evidence"
)

// thresholds are evaluated in descending order; the first label whose
// threshold the total score meets wins. Boundaries are inclusive at the
// low end: a total of exactly 30.0 classifies as definitive.
var thresholds = []struct {
	label string
	min   float64
}{
	{Definitive, 30.0},
	{Strong, 15.0},
	{Moderate, 5.0},
	{Limited, 2.0},
	{Disputed, 0.0},
}

// Classify assigns the relationship label for the total score and
// computes a confidence value from evidence diversity, source diversity,
// and publication-year span.
//
// Scores are never negative by construction, but the NoEvidence fallback
// keeps the function total. The year-span penalty could drive confidence
// below zero for spans over a century, so the final value is clamped to
// [0,1].
func Classify(totalScore float64, evidence []types.EvidenceRecord,
	independentGroups int, publicationYears []int) (string, float64) {

	label := NoEvidence
	for _, t := range thresholds {
		if totalScore >= t.min {
			label = t.label
			break
		}
	}

	categories := make(map[types.EvidenceCategory]struct{})
	for _, record := range evidence {
		categories[record.Category] = struct{}{}
	}

	evidenceDiversity := min(1.0, float64(len(categories))/4.0)
	sourceDiversity := min(1.0, float64(independentGroups)/5.0)

	confidence := 0.5 + 0.25*evidenceDiversity + 0.25*sourceDiversity

	// A wide publication span (old foundational papers plus recent ones)
	// pulls confidence down.
	if len(publicationYears) > 0 {
		minYear, maxYear := publicationYears[0], publicationYears[0]
		for _, y := range publicationYears[1:] {
			if y < minYear {
				minYear = y
			}
			if y > maxYear {
				maxYear = y
			}
		}
		span := float64(maxYear - minYear)
		confidence *= 1 - span/100
	}

	confidence = min(1.0, max(0.0, confidence))

	return label, confidence
}
