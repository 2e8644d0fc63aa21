// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pdiddy/curation-engine/pkg/types"
)

func TestMain(m *testing.M) {
	// Override backoff to avoid real sleeps in retry tests.
	backoffBase = time.Millisecond
	os.Exit(m.Run())
}

// mockBackend answers each category's prompt from a canned response,
// matched by a distinctive substring of the prompt.
type mockBackend struct {
	mu        sync.Mutex
	responses map[string]string // prompt substring -> response
	err       error
	calls     int
}

func (m *mockBackend) Infer(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	for sub, resp := range m.responses {
		if strings.Contains(prompt, sub) {
			return resp, nil
		}
	}
	return `{"has_evidence": false}`, nil
}

// failNTimesBackend fails the first N calls, then succeeds.
type failNTimesBackend struct {
	mu       sync.Mutex
	failures int
	calls    int
	response string
}

func (f *failNTimesBackend) Infer(_ context.Context, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return "", fmt.Errorf("transient error (call %d)", f.calls)
	}
	return f.response, nil
}

const variantJSON = `{"has_evidence": true, "evidence_level": "STRONG",
"variants_found": ["c.68_69delAG"], "variant_types": ["frameshift"],
"num_patients": 12, "inheritance_pattern": "autosomal dominant",
"description": "Pathogenic frameshift in multiple patients",
"confidence": 0.9, "key_terms": ["frameshift", "pathogenic"]}`

func variantExtractor(backend Backend, cfg types.ExtractionConfig) *Extractor {
	return newExtractor(types.CategoryVariant, variantPromptTmpl, parseVariant, backend, cfg)
}

func TestAnalyzeEvidenceFound(t *testing.T) {
	backend := &mockBackend{responses: map[string]string{
		"genetic variants": variantJSON,
	}}
	e := variantExtractor(backend, types.ExtractionConfig{})

	record, err := e.Analyze(context.Background(), "12345", "Some abstract.", "BRCA1", "breast cancer")
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if record == nil {
		t.Fatal("Analyze() returned nil record for asserted evidence")
	}
	if record.PMID != "12345" {
		t.Errorf("PMID = %q, want %q", record.PMID, "12345")
	}
	if record.Category != types.CategoryVariant {
		t.Errorf("Category = %q, want %q", record.Category, types.CategoryVariant)
	}
	if record.Strength != types.StrengthStrong {
		t.Errorf("Strength = %q, want %q", record.Strength, types.StrengthStrong)
	}
	if record.Confidence != 0.9 {
		t.Errorf("Confidence = %v, want 0.9", record.Confidence)
	}
	if record.ExtractedBy != "VariantEvidenceExtractor" {
		t.Errorf("ExtractedBy = %q", record.ExtractedBy)
	}
}

func TestAnalyzeNoEvidence(t *testing.T) {
	backend := &mockBackend{responses: map[string]string{
		"genetic variants": `{"has_evidence": false}`,
	}}
	e := variantExtractor(backend, types.ExtractionConfig{})

	record, err := e.Analyze(context.Background(), "12345", "Unrelated abstract.", "BRCA1", "breast cancer")
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if record != nil {
		t.Errorf("Analyze() = %+v, want nil for absent evidence", record)
	}
}

func TestAnalyzeMalformedResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"no JSON at all", "I could not find any evidence in this abstract."},
		{"invalid evidence level", `{"has_evidence": true, "evidence_level": "OVERWHELMING"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &mockBackend{responses: map[string]string{
				"genetic variants": tt.response,
			}}
			e := variantExtractor(backend, types.ExtractionConfig{AIConfig: types.AIConfig{MaxRetries: 1}})

			record, err := e.Analyze(context.Background(), "1", "abstract", "G", "D")
			if err == nil {
				t.Error("Analyze() expected error for malformed response")
			}
			if record != nil {
				t.Errorf("Analyze() = %+v, want nil on failure", record)
			}
		})
	}
}

func TestAnalyzeRetriesTransientFailures(t *testing.T) {
	backend := &failNTimesBackend{failures: 2, response: variantJSON}
	e := variantExtractor(backend, types.ExtractionConfig{AIConfig: types.AIConfig{MaxRetries: 3}})

	record, err := e.Analyze(context.Background(), "1", "abstract", "G", "D")
	if err != nil {
		t.Fatalf("Analyze() error after retries: %v", err)
	}
	if record == nil {
		t.Fatal("Analyze() returned nil after successful retry")
	}
	if backend.calls != 3 {
		t.Errorf("backend calls = %d, want 3", backend.calls)
	}
}

func TestAnalyzeExhaustsRetries(t *testing.T) {
	backend := &mockBackend{err: fmt.Errorf("oracle down")}
	e := variantExtractor(backend, types.ExtractionConfig{AIConfig: types.AIConfig{MaxRetries: 2}})

	_, err := e.Analyze(context.Background(), "1", "abstract", "G", "D")
	if err == nil {
		t.Fatal("Analyze() expected error after exhausting retries")
	}
	if backend.calls != 3 {
		t.Errorf("backend calls = %d, want 3 (initial + 2 retries)", backend.calls)
	}
}

func TestExcerpt(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"short passes through", "hello", 10, "hello"},
		{"exact limit passes through", "hello", 5, "hello"},
		{"long is truncated", "hello world", 5, "hello"},
		{"multi-byte not split", "ααααα", 3, "ααα"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := excerpt(tt.in, tt.limit); got != tt.want {
				t.Errorf("excerpt(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
			}
		})
	}
}

func TestExcerptDefaultLimit(t *testing.T) {
	long := strings.Repeat("a", 2000)
	backend := &mockBackend{responses: map[string]string{}}
	e := variantExtractor(backend, types.ExtractionConfig{})

	if e.excerptLimit != types.DefaultExcerptLimit {
		t.Fatalf("excerptLimit = %d, want %d", e.excerptLimit, types.DefaultExcerptLimit)
	}
	if got := excerpt(long, e.excerptLimit); len(got) != types.DefaultExcerptLimit {
		t.Errorf("excerpt length = %d, want %d", len(got), types.DefaultExcerptLimit)
	}
}

func TestParseFunctionalRescueBoost(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		rescue     bool
		want       float64
	}{
		{"no rescue unchanged", 0.8, false, 0.8},
		{"rescue boosts by 1.2x", 0.5, true, 0.6},
		{"boost clamps at 1.0", 0.9, true, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := fmt.Sprintf(`{"has_evidence": true, "evidence_level": "MODERATE",
"rescue_experiment": %t, "description": "functional study", "confidence": %g}`,
				tt.rescue, tt.confidence)

			record, err := parseFunctional([]byte(data), "1")
			if err != nil {
				t.Fatalf("parseFunctional() error: %v", err)
			}
			if record.Confidence != tt.want {
				t.Errorf("Confidence = %v, want %v", record.Confidence, tt.want)
			}
		})
	}
}

func TestParseVariantTruncatesKeyTerms(t *testing.T) {
	data := `{"has_evidence": true, "evidence_level": "WEAK",
"key_terms": ["a", "b", "c", "d", "e", "f", "g"], "confidence": 0.5}`

	record, err := parseVariant([]byte(data), "1")
	if err != nil {
		t.Fatalf("parseVariant() error: %v", err)
	}
	if len(record.KeyTerms) != types.MaxKeyTerms {
		t.Errorf("KeyTerms length = %d, want %d", len(record.KeyTerms), types.MaxKeyTerms)
	}
}

func TestParseStrengthCaseInsensitive(t *testing.T) {
	for _, level := range []string{"STRONG", "strong", "Strong", " strong "} {
		got, err := parseStrength(level)
		if err != nil {
			t.Errorf("parseStrength(%q) error: %v", level, err)
			continue
		}
		if got != types.StrengthStrong {
			t.Errorf("parseStrength(%q) = %q", level, got)
		}
	}
	if _, err := parseStrength("definitive"); err == nil {
		t.Error("parseStrength accepted unknown level")
	}
}

func TestExtractAllFanOut(t *testing.T) {
	backend := &mockBackend{responses: map[string]string{
		"genetic variants":          variantJSON,
		"cohort/population studies": `{"has_evidence": true, "evidence_level": "MODERATE", "study_type": "case-control", "description": "cohort", "confidence": 0.7}`,
	}}
	o := NewOrchestrator(backend, types.ExtractionConfig{})

	records := o.ExtractAll(context.Background(), "1", "abstract", "BRCA1", "breast cancer")
	if len(records) != 2 {
		t.Fatalf("ExtractAll() returned %d records, want 2", len(records))
	}

	categories := map[types.EvidenceCategory]bool{}
	for _, r := range records {
		categories[r.Category] = true
	}
	if !categories[types.CategoryVariant] || !categories[types.CategoryCohort] {
		t.Errorf("missing expected categories in %v", categories)
	}
}

// failingCategoryBackend breaks the variant prompt and answers everything
// else, proving one broken category never blocks its siblings.
type failingCategoryBackend struct{}

func (failingCategoryBackend) Infer(_ context.Context, prompt string) (string, error) {
	if strings.Contains(prompt, "genetic variants") {
		return "", fmt.Errorf("variant oracle unavailable")
	}
	if strings.Contains(prompt, "family segregation") {
		return `{"has_evidence": true, "evidence_level": "STRONG", "num_families": 3,
"segregation_confirmed": true, "description": "segregates in 3 families", "confidence": 0.85}`, nil
	}
	return `{"has_evidence": false}`, nil
}

func TestExtractAllContainsCategoryFailure(t *testing.T) {
	o := NewOrchestrator(failingCategoryBackend{}, types.ExtractionConfig{AIConfig: types.AIConfig{MaxRetries: 1}})

	records := o.ExtractAll(context.Background(), "1", "abstract", "G", "D")
	if len(records) != 1 {
		t.Fatalf("ExtractAll() returned %d records, want 1", len(records))
	}
	if records[0].Category != types.CategorySegregation {
		t.Errorf("Category = %q, want %q", records[0].Category, types.CategorySegregation)
	}
}

func TestExtractBatches(t *testing.T) {
	backend := &mockBackend{responses: map[string]string{
		"genetic variants": variantJSON,
	}}
	o := NewOrchestrator(backend, types.ExtractionConfig{})

	pmids := []string{"1", "2", "3", "4", "5", "6", "7"}
	docs := map[string]types.DocumentMetadata{}
	for _, pmid := range pmids {
		docs[pmid] = types.DocumentMetadata{PMID: pmid, Abstract: "abstract " + pmid}
	}

	var buf bytes.Buffer
	records := o.ExtractBatches(context.Background(), pmids, docs, "G", "D", 3, &buf)

	// One variant record per abstract; other categories report no evidence.
	if len(records) != len(pmids) {
		t.Fatalf("ExtractBatches() returned %d records, want %d", len(records), len(pmids))
	}

	seen := map[string]bool{}
	for _, r := range records {
		seen[r.PMID] = true
	}
	for _, pmid := range pmids {
		if !seen[pmid] {
			t.Errorf("no record for PMID %s", pmid)
		}
	}
}

func TestExtractBatchesSkipsMissingDocs(t *testing.T) {
	backend := &mockBackend{responses: map[string]string{
		"genetic variants": variantJSON,
	}}
	o := NewOrchestrator(backend, types.ExtractionConfig{})

	pmids := []string{"1", "2"}
	docs := map[string]types.DocumentMetadata{
		"1": {PMID: "1", Abstract: "abstract"},
	}

	records := o.ExtractBatches(context.Background(), pmids, docs, "G", "D", 5, nil)
	if len(records) != 1 {
		t.Fatalf("ExtractBatches() returned %d records, want 1", len(records))
	}
	if records[0].PMID != "1" {
		t.Errorf("PMID = %q, want %q", records[0].PMID, "1")
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bare object",
			in:   `{"a": 1}`,
			want: `{"a": 1}`,
		},
		{
			name: "fenced json block",
			in:   "Here is the result:\n```json\n{\"a\": 1}\n```\nDone.",
			want: `{"a": 1}`,
		},
		{
			name: "fence without language tag",
			in:   "```\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "surrounding prose",
			in:   `The answer is {"a": 1} as requested.`,
			want: `{"a": 1}`,
		},
		{
			name: "trailing comma removed",
			in:   `{"a": 1,}`,
			want: `{"a": 1}`,
		},
		{
			name: "no object",
			in:   "no json here",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.in); got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
