// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"text/template"
)

// promptInput carries the parameters for one categorical extraction prompt.
type promptInput struct {
	Gene     string
	Disease  string
	Abstract string
}

// Each category has its own instruction template. The response-format
// footer tells the oracle to emit a bare JSON object matching the
// category schema, with has_evidence=false when the abstract carries no
// evidence of that category.

var variantPromptTmpl = template.Must(template.New("variant").Parse(`Analyze this abstract for genetic variants in {{.Gene}} related to {{.Disease}}.

Look for: specific variants, variant types, patient counts, inheritance patterns, pathogenicity.

Evidence levels:
- STRONG: Multiple patients, clear pathogenic variants, segregation data
- MODERATE: Few patients but clear variant descriptions
- WEAK: Variants mentioned but limited detail

Abstract: {{.Abstract}}

Respond with a single JSON object and no other text:
{"has_evidence": bool, "evidence_level": "STRONG"|"MODERATE"|"WEAK", "variants_found": [string], "variant_types": [string], "num_patients": int|null, "inheritance_pattern": string|null, "description": string, "confidence": float 0-1, "key_terms": [string]}
Set has_evidence to false if the abstract contains no variant evidence for this gene-disease pair.`))

var functionalPromptTmpl = template.Must(template.New("functional").Parse(`Analyze this abstract for functional studies of {{.Gene}} related to {{.Disease}}.

Look for: experimental methods, assays, model organisms, rescue experiments, mechanism.

Evidence levels:
- STRONG: Clear functional defects, rescue experiments, mechanism shown
- MODERATE: Basic functional studies with disease relevance
- WEAK: Functional studies mentioned but limited detail

Abstract: {{.Abstract}}

Respond with a single JSON object and no other text:
{"has_evidence": bool, "evidence_level": "STRONG"|"MODERATE"|"WEAK", "experiment_types": [string], "key_findings": [string], "disease_mechanism": string|null, "rescue_experiment": bool, "description": string, "confidence": float 0-1}
Set has_evidence to false if the abstract contains no functional evidence for this gene-disease pair.`))

var cohortPromptTmpl = template.Must(template.New("cohort").Parse(`Analyze this abstract for cohort/population studies of {{.Gene}} and {{.Disease}}.

Look for: patient numbers, study design, statistics, controls.

Evidence levels:
- STRONG: Large cohort (>50), controls, statistical significance
- MODERATE: Medium cohort (10-50) or good design
- WEAK: Small cohort (<10) or case series

Abstract: {{.Abstract}}

Respond with a single JSON object and no other text:
{"has_evidence": bool, "evidence_level": "STRONG"|"MODERATE"|"WEAK", "cohort_size": int|null, "num_families": int|null, "study_type": string, "statistical_significance": string|null, "description": string, "confidence": float 0-1}
Set has_evidence to false if the abstract contains no cohort evidence for this gene-disease pair.`))

var segregationPromptTmpl = template.Must(template.New("segregation").Parse(`Analyze this abstract for family segregation of {{.Gene}} with {{.Disease}}.

Look for: families studied, affected members, inheritance patterns, segregation confirmation.

Evidence levels:
- STRONG: Multiple families, clear segregation
- MODERATE: Few families but clear segregation
- WEAK: Family data mentioned but limited

Abstract: {{.Abstract}}

Respond with a single JSON object and no other text:
{"has_evidence": bool, "evidence_level": "STRONG"|"MODERATE"|"WEAK", "num_families": int|null, "affected_members": int|null, "inheritance_pattern": string|null, "segregation_confirmed": bool, "description": string, "confidence": float 0-1}
Set has_evidence to false if the abstract contains no segregation evidence for this gene-disease pair.`))

// renderPrompt executes a category template with the given parameters.
func renderPrompt(tmpl *template.Template, in promptInput) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, in); err != nil {
		return "", err
	}
	return buf.String(), nil
}
