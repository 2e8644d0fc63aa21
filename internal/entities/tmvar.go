// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entities

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/curation-engine/internal/httputil"
	"github.com/pdiddy/curation-engine/pkg/types"
)

// tmvarAPIBase is the tmVar endpoint. Declared as a var so tests can
// substitute an httptest server.
var tmvarAPIBase = "https://www.ncbi.nlm.nih.gov/research/bionlp/RESTful/tmVar.cgi"

// tmvarTextLimit caps the text sent to the service per request.
const tmvarTextLimit = 5000

// Mutation is one mutation mention recognized by tmVar.
type Mutation struct {
	ID    string `json:"mutation_id"`
	Type  string `json:"type"`
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// TMVarClient calls the NCBI tmVar service for mutation extraction. It is
// safe for concurrent use.
type TMVarClient struct {
	HTTP   *http.Client
	Config types.HTTPConfig
}

// NewTMVarClient builds a tmVar client with the shared HTTP settings.
func NewTMVarClient(cfg types.HTTPConfig) *TMVarClient {
	return &TMVarClient{
		HTTP:   &http.Client{Timeout: cfg.Timeout},
		Config: cfg,
	}
}

// tmvarResponse is the denotation envelope tmVar returns.
type tmvarResponse struct {
	Denotations []struct {
		ID   string `json:"id"`
		Obj  string `json:"obj"`
		Span struct {
			Begin int `json:"begin"`
			End   int `json:"end"`
		} `json:"span"`
	} `json:"denotations"`
}

// ExtractMutations sends text to tmVar and returns the recognized
// mutation mentions.
func (c *TMVarClient) ExtractMutations(ctx context.Context, text string) ([]Mutation, error) {
	runes := []rune(text)
	if len(runes) > tmvarTextLimit {
		text = string(runes[:tmvarTextLimit])
	}

	params := url.Values{
		"content": {text},
		"format":  {"json"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		tmvarAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.Config.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, 0)
	if err != nil {
		return nil, fmt.Errorf("tmVar request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tmVar returned HTTP %d", resp.StatusCode)
	}

	var tr tmvarResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("parsing tmVar response: %w", err)
	}

	var mutations []Mutation
	for _, d := range tr.Denotations {
		begin, end := d.Span.Begin, d.Span.End
		if begin < 0 || end > len(text) || begin >= end {
			continue
		}
		mutations = append(mutations, Mutation{
			ID:    d.ID,
			Type:  d.Obj,
			Text:  text[begin:end],
			Start: begin,
			End:   end,
		})
	}

	return mutations, nil
}
