// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// EvidenceCategory identifies one of the four independent dimensions of
// support for a gene-disease relationship. The set is closed; category
// values are used as map keys throughout the scoring pipeline.
type EvidenceCategory string

const (
	CategoryVariant     EvidenceCategory = "variant"
	CategoryFunctional  EvidenceCategory = "functional"
	CategoryCohort      EvidenceCategory = "cohort"
	CategorySegregation EvidenceCategory = "segregation"
)

// Categories returns all evidence categories in their canonical order.
func Categories() []EvidenceCategory {
	return []EvidenceCategory{
		CategoryVariant,
		CategoryFunctional,
		CategoryCohort,
		CategorySegregation,
	}
}

// Valid reports whether c is one of the four known categories.
func (c EvidenceCategory) Valid() bool {
	switch c {
	case CategoryVariant, CategoryFunctional, CategoryCohort, CategorySegregation:
		return true
	}
	return false
}

// EvidenceStrength is the coarse three-level rating the extraction oracle
// assigns to one evidence record, ordered strong > moderate > weak.
type EvidenceStrength string

const (
	StrengthStrong   EvidenceStrength = "strong"
	StrengthModerate EvidenceStrength = "moderate"
	StrengthWeak     EvidenceStrength = "weak"
)

// Valid reports whether s is one of the three known strength levels.
func (s EvidenceStrength) Valid() bool {
	switch s {
	case StrengthStrong, StrengthModerate, StrengthWeak:
		return true
	}
	return false
}

// BaseScore maps the strength level to its fixed numeric base score.
func (s EvidenceStrength) BaseScore() float64 {
	switch s {
	case StrengthStrong:
		return 3.0
	case StrengthModerate:
		return 1.5
	case StrengthWeak:
		return 0.5
	}
	return 0.0
}

// MaxKeyTerms is the upper bound on key terms carried by one record.
const MaxKeyTerms = 5

// EvidenceRecord is one piece of categorized evidence extracted from a
// single abstract. A record exists only when the oracle asserted evidence
// was present; absence of evidence yields no record at all.
type EvidenceRecord struct {
	// PMID identifies the source abstract.
	PMID string `json:"pmid" yaml:"pmid"`

	// Category is the evidence dimension this record belongs to.
	Category EvidenceCategory `json:"category" yaml:"category"`

	// Strength is the oracle's strong/moderate/weak rating.
	Strength EvidenceStrength `json:"strength" yaml:"strength"`

	// Description summarizes the evidence in the oracle's words.
	Description string `json:"description" yaml:"description"`

	// Confidence is the oracle's certainty, conceptually in [0,1]. It is
	// carried through unclamped except for the documented functional
	// rescue-experiment upper clamp.
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// ExtractedBy names the extractor that produced the record.
	ExtractedBy string `json:"extracted_by" yaml:"extracted_by"`

	// KeyTerms holds up to MaxKeyTerms supporting terms, in oracle order.
	KeyTerms []string `json:"key_terms" yaml:"key_terms"`

	// Raw preserves the oracle's full structured response for audit.
	Raw map[string]any `json:"raw,omitempty" yaml:"raw,omitempty"`
}
