// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed queries the NCBI eutils API for literature search and
// abstract retrieval.
package pubmed

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/curation-engine/internal/httputil"
	"github.com/pdiddy/curation-engine/pkg/types"
)

// eutilsBase is the NCBI eutils endpoint. Declared as a var so tests can
// substitute an httptest server.
var eutilsBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// Client talks to the PubMed esearch and efetch endpoints. It is safe for
// concurrent use.
type Client struct {
	HTTP   *http.Client
	Config types.SearchConfig
}

// NewClient builds a PubMed client from the search configuration.
func NewClient(cfg types.SearchConfig) *Client {
	return &Client{
		HTTP:   &http.Client{Timeout: cfg.Timeout},
		Config: cfg,
	}
}

// esearchResponse is the JSON envelope of the esearch endpoint.
type esearchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// Search queries PubMed for abstracts mentioning both the gene and the
// disease, ranked by relevance. It returns up to maxResults PMIDs.
func (c *Client) Search(ctx context.Context, gene, disease string, maxResults int) ([]string, error) {
	if maxResults <= 0 {
		maxResults = types.DefaultMaxResults
	}

	term := fmt.Sprintf("%s[Title/Abstract] AND %s[Title/Abstract]", gene, disease)
	params := url.Values{
		"db":      {"pubmed"},
		"term":    {term},
		"retmode": {"json"},
		"retmax":  {strconv.Itoa(maxResults)},
		"sort":    {"relevance"},
	}
	if c.Config.APIKey != "" {
		params.Set("api_key", c.Config.APIKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		eutilsBase+"/esearch.fcgi?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.Config.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, 0)
	if err != nil {
		return nil, fmt.Errorf("PubMed search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("PubMed search returned HTTP %d", resp.StatusCode)
	}

	var sr esearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing PubMed search response: %w", err)
	}

	return sr.ESearchResult.IDList, nil
}

// efetch XML structures. Only the fields the pipeline consumes are mapped.
type pubmedArticleSet struct {
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	Citation struct {
		PMID    string `xml:"PMID"`
		Article struct {
			Title    string `xml:"ArticleTitle"`
			Abstract struct {
				Text []string `xml:"AbstractText"`
			} `xml:"Abstract"`
			Journal struct {
				PubDate struct {
					Year        string `xml:"Year"`
					MedlineDate string `xml:"MedlineDate"`
				} `xml:"JournalIssue>PubDate"`
			} `xml:"Journal"`
			Authors []struct {
				LastName string `xml:"LastName"`
			} `xml:"AuthorList>Author"`
		} `xml:"Article"`
	} `xml:"MedlineCitation"`
}

// FetchAbstracts retrieves metadata for the given PMIDs. Articles without
// an abstract are omitted; missing year or author fields are left at
// their zero values, not treated as errors. Only successfully resolved
// identifiers appear in the result map.
func (c *Client) FetchAbstracts(ctx context.Context, pmids []string) (map[string]types.DocumentMetadata, error) {
	if len(pmids) == 0 {
		return map[string]types.DocumentMetadata{}, nil
	}

	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(pmids, ",")},
		"retmode": {"xml"},
		"rettype": {"abstract"},
	}
	if c.Config.APIKey != "" {
		params.Set("api_key", c.Config.APIKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		eutilsBase+"/efetch.fcgi?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.Config.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, 0)
	if err != nil {
		return nil, fmt.Errorf("PubMed fetch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("PubMed fetch returned HTTP %d", resp.StatusCode)
	}

	var set pubmedArticleSet
	if err := xml.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("parsing PubMed fetch response: %w", err)
	}

	docs := make(map[string]types.DocumentMetadata)
	for _, article := range set.Articles {
		cit := article.Citation
		abstract := strings.TrimSpace(strings.Join(cit.Article.Abstract.Text, " "))
		if cit.PMID == "" || abstract == "" {
			continue
		}

		doc := types.DocumentMetadata{
			PMID:     cit.PMID,
			Title:    cit.Article.Title,
			Abstract: abstract,
			Year:     parseYear(cit.Article.Journal.PubDate.Year, cit.Article.Journal.PubDate.MedlineDate),
		}
		if len(cit.Article.Authors) > 0 {
			doc.FirstAuthor = cit.Article.Authors[0].LastName
		}
		docs[cit.PMID] = doc
	}

	return docs, nil
}

// parseYear extracts the publication year from either a Year element or a
// MedlineDate string like "1998 Jan-Feb". Returns 0 when unknown.
func parseYear(year, medlineDate string) int {
	if y, err := strconv.Atoi(strings.TrimSpace(year)); err == nil {
		return y
	}
	fields := strings.Fields(medlineDate)
	if len(fields) > 0 {
		if y, err := strconv.Atoi(fields[0]); err == nil {
			return y
		}
	}
	return 0
}
