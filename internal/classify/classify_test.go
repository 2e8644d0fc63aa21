// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"math"
	"testing"

	"github.com/pdiddy/curation-engine/pkg/types"
)

func TestClassifyLabels(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  string
	}{
		{"exactly definitive", 30.0, Definitive},
		{"just below definitive", 29.999, Strong},
		{"exactly strong", 15.0, Strong},
		{"mid moderate", 10.0, Moderate},
		{"exactly moderate", 5.0, Moderate},
		{"just below moderate", 4.95, Limited},
		{"exactly limited", 2.0, Limited},
		{"low positive", 0.5, Disputed},
		{"zero", 0.0, Disputed},
		{"negative falls through", -1.0, NoEvidence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, _ := Classify(tt.score, nil, 0, nil)
			if label != tt.want {
				t.Errorf("Classify(%v) = %q, want %q", tt.score, label, tt.want)
			}
		})
	}
}

func evidenceWithCategories(categories ...types.EvidenceCategory) []types.EvidenceRecord {
	var out []types.EvidenceRecord
	for i, c := range categories {
		out = append(out, types.EvidenceRecord{
			PMID:     string(rune('1' + i)),
			Category: c,
			Strength: types.StrengthModerate,
		})
	}
	return out
}

func TestClassifyConfidence(t *testing.T) {
	tests := []struct {
		name       string
		evidence   []types.EvidenceRecord
		groups     int
		years      []int
		want       float64
	}{
		{
			name: "no diversity floor",
			want: 0.5,
		},
		{
			name:     "full diversity ceiling",
			evidence: evidenceWithCategories(types.CategoryVariant, types.CategoryFunctional, types.CategoryCohort, types.CategorySegregation),
			groups:   5,
			want:     1.0,
		},
		{
			name:     "partial category diversity",
			evidence: evidenceWithCategories(types.CategoryVariant, types.CategoryCohort),
			groups:   0,
			// 0.5 + 0.25*(2/4)
			want: 0.625,
		},
		{
			name:   "source diversity capped at five groups",
			groups: 12,
			want:   0.75,
		},
		{
			name:  "year span penalty",
			years: []int{2000, 2020},
			// 0.5 * (1 - 20/100)
			want: 0.4,
		},
		{
			name:  "single year no penalty",
			years: []int{2015},
			want:  0.5,
		},
		{
			name:  "century span clamps at zero",
			years: []int{1900, 2020},
			want:  0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, confidence := Classify(10.0, tt.evidence, tt.groups, tt.years)
			if math.Abs(confidence-tt.want) > 1e-9 {
				t.Errorf("confidence = %v, want %v", confidence, tt.want)
			}
		})
	}
}

// Duplicate categories in the evidence do not inflate diversity.
func TestClassifyDuplicateCategories(t *testing.T) {
	evidence := evidenceWithCategories(
		types.CategoryVariant, types.CategoryVariant, types.CategoryVariant)

	_, confidence := Classify(10.0, evidence, 0, nil)
	want := 0.5 + 0.25*(1.0/4.0)
	if math.Abs(confidence-want) > 1e-9 {
		t.Errorf("confidence = %v, want %v", confidence, want)
	}
}
