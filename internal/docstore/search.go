// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/curation-engine/pkg/types"
)

// Filters narrows a full-text search with structured constraints.
type Filters struct {
	// YearFrom and YearTo bound the publication year (inclusive);
	// zero means unbounded.
	YearFrom int
	YearTo   int

	// Author filters by first-author last name.
	Author string
}

// SearchResult is one ranked document with its relevance score.
type SearchResult struct {
	types.DocumentMetadata
	Score float64 `json:"score"`
}

// Search runs a ranked full-text query over titles and abstracts,
// returning at most k results. A zero k uses the store default. Filters
// apply on top of the text match; an empty query with filters returns a
// structured scan ordered by PMID.
func (s *Store) Search(ctx context.Context, query string, k int, filters Filters) ([]SearchResult, error) {
	if k <= 0 {
		k = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT d.pmid, d.title, d.abstract, d.year, d.first_author, -documents_fts.rank
			FROM documents_fts
			JOIN documents d ON d.rowid = documents_fts.rowid
			WHERE documents_fts MATCH ?`)
		args = append(args, query)
	} else {
		qb.WriteString(
			`SELECT d.pmid, d.title, d.abstract, d.year, d.first_author, 0.0
			FROM documents d
			WHERE 1=1`)
	}

	if filters.YearFrom > 0 {
		qb.WriteString(` AND d.year >= ?`)
		args = append(args, filters.YearFrom)
	}
	if filters.YearTo > 0 {
		qb.WriteString(` AND d.year <= ?`)
		args = append(args, filters.YearTo)
	}
	if filters.Author != "" {
		qb.WriteString(` AND d.first_author = ?`)
		args = append(args, filters.Author)
	}

	if useFTS {
		qb.WriteString(` ORDER BY documents_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY d.pmid`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, k)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.PMID, &r.Title, &r.Abstract, &r.Year, &r.FirstAuthor, &r.Score); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
