// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package entities extracts biomedical named entities (genes, diseases,
// mutations, chemicals) from free text. The regex extractor covers the
// common surface forms; the tmVar client delegates mutation recognition
// to the NCBI tmVar service when remote access is available.
package entities

import (
	"regexp"
	"sort"
)

// Entity is one recognized mention with its character span.
type Entity struct {
	Text       string  `json:"text"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// regexConfidence is the fixed confidence assigned to pattern matches.
const regexConfidence = 0.8

// patterns maps entity type to its recognition patterns.
var patterns = map[string][]*regexp.Regexp{
	"gene": {
		regexp.MustCompile(`\b[A-Z][A-Z0-9]{1,5}\b`),   // symbols like BRCA1, TP53
		regexp.MustCompile(`\b[A-Z][a-z]+\d+\b`),       // names like Sonic2
	},
	"disease": {
		regexp.MustCompile(`\b[A-Z][a-z]+ (syndrome|disease|disorder)\b`),
		regexp.MustCompile(`\b[a-z]+ (cancer|tumor)\b`),
	},
	"mutation": {
		regexp.MustCompile(`\bp\.[A-Z][a-z]{2}\d+[A-Z][a-z]{2}\b`), // p.Thr1174Ser
		regexp.MustCompile(`\b[A-Z]\d+[A-Z]\b`),                    // T174S
		regexp.MustCompile(`\bc\.\d+[ACGT]>[ACGT]\b`),              // c.123A>G
	},
	"chemical": {
		regexp.MustCompile(`\b[A-Z][a-z]+in\b`),
		regexp.MustCompile(`\b[A-Z][a-z]+ide\b`),
		regexp.MustCompile(`\b[A-Z][a-z]+ate\b`),
	},
}

// Extract finds all pattern matches in text, sorted by position.
func Extract(text string) []Entity {
	var found []Entity

	for entityType, regexps := range patterns {
		for _, re := range regexps {
			for _, loc := range re.FindAllStringIndex(text, -1) {
				found = append(found, Entity{
					Text:       text[loc[0]:loc[1]],
					Start:      loc[0],
					End:        loc[1],
					Type:       entityType,
					Confidence: regexConfidence,
				})
			}
		}
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].Start != found[j].Start {
			return found[i].Start < found[j].Start
		}
		return found[i].Type < found[j].Type
	})
	return found
}

// Terms returns the distinct entity texts of the given type, in order of
// first appearance. Used to tag indexed documents.
func Terms(found []Entity, entityType string) []string {
	seen := make(map[string]struct{})
	var terms []string
	for _, e := range found {
		if e.Type != entityType {
			continue
		}
		if _, ok := seen[e.Text]; ok {
			continue
		}
		seen[e.Text] = struct{}{}
		terms = append(terms, e.Text)
	}
	return terms
}
