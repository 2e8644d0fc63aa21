// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/pdiddy/curation-engine/pkg/types"
)

// Category response schemas mirror what the prompts ask the oracle to
// emit. Decoding is strict about the fields scoring depends on
// (evidence level) and lenient about everything else.

type variantResponse struct {
	HasEvidence        bool     `json:"has_evidence"`
	EvidenceLevel      string   `json:"evidence_level"`
	VariantsFound      []string `json:"variants_found"`
	VariantTypes       []string `json:"variant_types"`
	NumPatients        *int     `json:"num_patients"`
	InheritancePattern string   `json:"inheritance_pattern"`
	Description        string   `json:"description"`
	Confidence         float64  `json:"confidence"`
	KeyTerms           []string `json:"key_terms"`
}

type functionalResponse struct {
	HasEvidence      bool     `json:"has_evidence"`
	EvidenceLevel    string   `json:"evidence_level"`
	ExperimentTypes  []string `json:"experiment_types"`
	KeyFindings      []string `json:"key_findings"`
	DiseaseMechanism string   `json:"disease_mechanism"`
	RescueExperiment bool     `json:"rescue_experiment"`
	Description      string   `json:"description"`
	Confidence       float64  `json:"confidence"`
}

type cohortResponse struct {
	HasEvidence             bool    `json:"has_evidence"`
	EvidenceLevel           string  `json:"evidence_level"`
	CohortSize              *int    `json:"cohort_size"`
	NumFamilies             *int    `json:"num_families"`
	StudyType               string  `json:"study_type"`
	StatisticalSignificance string  `json:"statistical_significance"`
	Description             string  `json:"description"`
	Confidence              float64 `json:"confidence"`
}

type segregationResponse struct {
	HasEvidence           bool    `json:"has_evidence"`
	EvidenceLevel         string  `json:"evidence_level"`
	NumFamilies           *int    `json:"num_families"`
	AffectedMembers       *int    `json:"affected_members"`
	InheritancePattern    string  `json:"inheritance_pattern"`
	SegregationConfirmed  bool    `json:"segregation_confirmed"`
	Description           string  `json:"description"`
	Confidence            float64 `json:"confidence"`
}

// parseStrength normalizes the oracle's evidence level to a strength
// value. The prompts ask for upper case; accept any casing.
func parseStrength(level string) (types.EvidenceStrength, error) {
	s := types.EvidenceStrength(strings.ToLower(strings.TrimSpace(level)))
	if !s.Valid() {
		return "", fmt.Errorf("invalid evidence level %q", level)
	}
	return s, nil
}

// rawPayload decodes the oracle JSON into a generic map for the record's
// audit field.
func rawPayload(data []byte) map[string]any {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	return m
}

// truncateTerms bounds a key-term list to n entries, preserving order.
func truncateTerms(terms []string, n int) []string {
	if len(terms) > n {
		return terms[:n]
	}
	return terms
}

// parseVariant converts a validated variant response into a record.
// Strength, description, and confidence pass through as-is.
func parseVariant(data []byte, pmid string) (*types.EvidenceRecord, error) {
	var r variantResponse
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decoding variant response: %w", err)
	}
	if !r.HasEvidence {
		return nil, nil
	}
	strength, err := parseStrength(r.EvidenceLevel)
	if err != nil {
		return nil, err
	}
	return &types.EvidenceRecord{
		PMID:        pmid,
		Category:    types.CategoryVariant,
		Strength:    strength,
		Description: r.Description,
		Confidence:  r.Confidence,
		ExtractedBy: "VariantEvidenceExtractor",
		KeyTerms:    truncateTerms(r.KeyTerms, types.MaxKeyTerms),
		Raw:         rawPayload(data),
	}, nil
}

// parseFunctional converts a validated functional response into a record.
// A reported rescue experiment boosts confidence by 1.2x, clamped to 1.0
// on the upper end only.
func parseFunctional(data []byte, pmid string) (*types.EvidenceRecord, error) {
	var r functionalResponse
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decoding functional response: %w", err)
	}
	if !r.HasEvidence {
		return nil, nil
	}
	strength, err := parseStrength(r.EvidenceLevel)
	if err != nil {
		return nil, err
	}
	confidence := r.Confidence
	if r.RescueExperiment {
		confidence = math.Min(1.0, confidence*1.2)
	}
	return &types.EvidenceRecord{
		PMID:        pmid,
		Category:    types.CategoryFunctional,
		Strength:    strength,
		Description: r.Description,
		Confidence:  confidence,
		ExtractedBy: "FunctionalEvidenceExtractor",
		KeyTerms:    truncateTerms(r.ExperimentTypes, 3),
		Raw:         rawPayload(data),
	}, nil
}

// parseCohort converts a validated cohort response into a record. The
// single study-type string becomes the record's key term.
func parseCohort(data []byte, pmid string) (*types.EvidenceRecord, error) {
	var r cohortResponse
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decoding cohort response: %w", err)
	}
	if !r.HasEvidence {
		return nil, nil
	}
	strength, err := parseStrength(r.EvidenceLevel)
	if err != nil {
		return nil, err
	}
	return &types.EvidenceRecord{
		PMID:        pmid,
		Category:    types.CategoryCohort,
		Strength:    strength,
		Description: r.Description,
		Confidence:  r.Confidence,
		ExtractedBy: "CohortEvidenceExtractor",
		KeyTerms:    []string{r.StudyType},
		Raw:         rawPayload(data),
	}, nil
}

// parseSegregation converts a validated segregation response into a
// record. The inheritance pattern becomes the key term, with the literal
// "segregation" as fallback when the oracle omitted one.
func parseSegregation(data []byte, pmid string) (*types.EvidenceRecord, error) {
	var r segregationResponse
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decoding segregation response: %w", err)
	}
	if !r.HasEvidence {
		return nil, nil
	}
	strength, err := parseStrength(r.EvidenceLevel)
	if err != nil {
		return nil, err
	}
	keyTerm := r.InheritancePattern
	if keyTerm == "" {
		keyTerm = "segregation"
	}
	return &types.EvidenceRecord{
		PMID:        pmid,
		Category:    types.CategorySegregation,
		Strength:    strength,
		Description: r.Description,
		Confidence:  r.Confidence,
		ExtractedBy: "SegregationEvidenceExtractor",
		KeyTerms:    []string{keyTerm},
		Raw:         rawPayload(data),
	}, nil
}
