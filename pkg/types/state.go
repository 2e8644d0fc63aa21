// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"time"

	"github.com/google/uuid"
)

// Stage names one step of the curation pipeline's strict linear pass.
type Stage string

const (
	StageStart    Stage = "start"
	StageSearch   Stage = "search"
	StageFetch    Stage = "fetch"
	StageExtract  Stage = "extract"
	StageScore    Stage = "score"
	StageClassify Stage = "classify"
	StageComplete Stage = "complete"
)

// ScoreSet holds the per-category scores and their weighted total.
type ScoreSet struct {
	Variant     float64 `json:"variant" yaml:"variant"`
	Functional  float64 `json:"functional" yaml:"functional"`
	Segregation float64 `json:"segregation" yaml:"segregation"`
	Cohort      float64 `json:"cohort" yaml:"cohort"`
	Total       float64 `json:"total" yaml:"total"`
}

// CurationState is the single accumulator threaded through one curation
// run. Each pipeline stage returns an Update that is merged into the state;
// evidence, messages, and errors only ever append. One run owns its state
// exclusively; no concurrent run shares an instance.
type CurationState struct {
	// RunID uniquely identifies this curation run.
	RunID string `json:"run_id" yaml:"run_id"`

	// Gene is the gene symbol under curation (e.g. "BRCA1").
	Gene string `json:"gene" yaml:"gene"`

	// Disease is the disease name under curation.
	Disease string `json:"disease" yaml:"disease"`

	// PMIDs lists the document identifiers found by the search stage.
	PMIDs []string `json:"pmids" yaml:"pmids"`

	// Abstracts maps PMID to fetched document metadata.
	Abstracts map[string]DocumentMetadata `json:"abstracts" yaml:"abstracts"`

	// EvidenceItems is the flattened, append-only evidence collection.
	EvidenceItems []EvidenceRecord `json:"evidence_items" yaml:"evidence_items"`

	// Scores holds the per-category and total evidence scores.
	Scores ScoreSet `json:"scores" yaml:"scores"`

	// PublicationYears is the sorted list of known publication years.
	PublicationYears []int `json:"publication_years" yaml:"publication_years"`

	// IndependentGroups counts distinct contributing sources, capped at 10.
	IndependentGroups int `json:"independent_groups" yaml:"independent_groups"`

	// AbstractsAnalyzed is the number of abstracts successfully fetched.
	AbstractsAnalyzed int `json:"abstracts_analyzed" yaml:"abstracts_analyzed"`

	// Classification is the final relationship label. Empty until the
	// classify stage runs.
	Classification string `json:"classification" yaml:"classification"`

	// ConfidenceLevel is the classification confidence in [0,1].
	ConfidenceLevel float64 `json:"confidence_level" yaml:"confidence_level"`

	// Stage is the pipeline stage the state last completed or entered.
	Stage Stage `json:"stage" yaml:"stage"`

	// Messages holds append-only progress messages.
	Messages []string `json:"messages" yaml:"messages"`

	// Errors holds non-fatal problems encountered during the run.
	Errors []string `json:"errors" yaml:"errors"`

	// ProcessingTime is the wall-clock duration of the run.
	ProcessingTime time.Duration `json:"processing_time" yaml:"processing_time"`
}

// NewCurationState creates the initial state for one run, with all
// collection and numeric fields empty or zero.
func NewCurationState(gene, disease string) *CurationState {
	return &CurationState{
		RunID:     uuid.NewString(),
		Gene:      gene,
		Disease:   disease,
		Abstracts: map[string]DocumentMetadata{},
		Stage:     StageStart,
	}
}

// Update is a partial state change produced by one pipeline stage.
// Nil or zero fields leave the corresponding state field untouched;
// EvidenceItems, Messages, and Errors are appended, never replaced.
type Update struct {
	PMIDs             []string
	Abstracts         map[string]DocumentMetadata
	EvidenceItems     []EvidenceRecord
	Scores            *ScoreSet
	PublicationYears  []int
	IndependentGroups *int
	AbstractsAnalyzed int
	Classification    string
	ConfidenceLevel   *float64
	Stage             Stage
	Messages          []string
	Errors            []string
}

// Apply merges the update into the state.
func (s *CurationState) Apply(u Update) {
	if u.PMIDs != nil {
		s.PMIDs = u.PMIDs
	}
	if u.Abstracts != nil {
		s.Abstracts = u.Abstracts
	}
	s.EvidenceItems = append(s.EvidenceItems, u.EvidenceItems...)
	if u.Scores != nil {
		s.Scores = *u.Scores
	}
	if u.PublicationYears != nil {
		s.PublicationYears = u.PublicationYears
	}
	if u.IndependentGroups != nil {
		s.IndependentGroups = *u.IndependentGroups
	}
	if u.AbstractsAnalyzed > 0 {
		s.AbstractsAnalyzed = u.AbstractsAnalyzed
	}
	if u.Classification != "" {
		s.Classification = u.Classification
	}
	if u.ConfidenceLevel != nil {
		s.ConfidenceLevel = *u.ConfidenceLevel
	}
	if u.Stage != "" {
		s.Stage = u.Stage
	}
	s.Messages = append(s.Messages, u.Messages...)
	s.Errors = append(s.Errors, u.Errors...)
}
