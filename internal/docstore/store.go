// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docstore persists curated documents and finished runs in a
// SQLite database with a full-text index over titles and abstracts. The
// store is an optional collaborator: pipeline correctness never depends
// on it.
package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/curation-engine/internal/entities"
	"github.com/pdiddy/curation-engine/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "curation.db"
)

// Store manages the curation SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the database at DataDir/index/curation.db and
// creates the schema if it does not exist.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.DataDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			pmid TEXT NOT NULL UNIQUE,
			title TEXT,
			abstract TEXT,
			year INTEGER,
			first_author TEXT,
			entities TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			gene TEXT NOT NULL,
			disease TEXT NOT NULL,
			classification TEXT,
			confidence REAL,
			total_score REAL,
			created TEXT,
			state TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS evidence (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			pmid TEXT NOT NULL,
			category TEXT NOT NULL,
			strength TEXT NOT NULL,
			description TEXT,
			confidence REAL,
			extracted_by TEXT,
			key_terms TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_evidence_run_id ON evidence(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_evidence_category ON evidence(category)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='documents_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE documents_fts USING fts5(title, abstract, content=documents, content_rowid=rowid)`,
			`CREATE TRIGGER documents_ai AFTER INSERT ON documents BEGIN
				INSERT INTO documents_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
			END`,
			`CREATE TRIGGER documents_ad AFTER DELETE ON documents BEGIN
				INSERT INTO documents_fts(documents_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
			END`,
			`CREATE TRIGGER documents_au AFTER UPDATE ON documents BEGIN
				INSERT INTO documents_fts(documents_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
				INSERT INTO documents_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Add upserts documents into the store, tagging each with the entities
// recognized in its abstract. It returns the PMIDs stored.
func (s *Store) Add(ctx context.Context, docs []types.DocumentMetadata) ([]string, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO documents (pmid, title, abstract, year, first_author, entities)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(pmid) DO UPDATE SET
			title=excluded.title, abstract=excluded.abstract, year=excluded.year,
			first_author=excluded.first_author, entities=excluded.entities`)
	if err != nil {
		return nil, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	var ids []string
	for _, doc := range docs {
		if doc.PMID == "" {
			continue
		}
		tags := entities.Terms(entities.Extract(doc.Abstract), "mutation")
		tagsJSON, _ := json.Marshal(tags)

		if _, err := stmt.ExecContext(ctx,
			doc.PMID, doc.Title, doc.Abstract, doc.Year, doc.FirstAuthor, string(tagsJSON),
		); err != nil {
			return nil, fmt.Errorf("inserting document %s: %w", doc.PMID, err)
		}
		ids = append(ids, doc.PMID)
	}

	return ids, tx.Commit()
}

// SaveRun persists a finished curation state and its evidence records.
func (s *Store) SaveRun(ctx context.Context, state *types.CurationState) error {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (id, gene, disease, classification, confidence, total_score, created, state)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		state.RunID, state.Gene, state.Disease, state.Classification,
		state.ConfidenceLevel, state.Scores.Total,
		time.Now().UTC().Format(time.RFC3339), string(stateJSON),
	); err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM evidence WHERE run_id = ?`, state.RunID); err != nil {
		return fmt.Errorf("clearing old evidence: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO evidence (run_id, pmid, category, strength, description, confidence, extracted_by, key_terms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, record := range state.EvidenceItems {
		termsJSON, _ := json.Marshal(record.KeyTerms)
		if _, err := stmt.ExecContext(ctx,
			state.RunID, record.PMID, string(record.Category), string(record.Strength),
			record.Description, record.Confidence, record.ExtractedBy, string(termsJSON),
		); err != nil {
			return fmt.Errorf("inserting evidence for %s: %w", record.PMID, err)
		}
	}

	return tx.Commit()
}

// RunSummary is one row of the stored-run listing.
type RunSummary struct {
	ID             string  `json:"id"`
	Gene           string  `json:"gene"`
	Disease        string  `json:"disease"`
	Classification string  `json:"classification"`
	Confidence     float64 `json:"confidence"`
	TotalScore     float64 `json:"total_score"`
	Created        string  `json:"created"`
}

// Runs lists stored curation runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, gene, disease, classification, confidence, total_score, created
		 FROM runs ORDER BY created DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.Gene, &r.Disease, &r.Classification,
			&r.Confidence, &r.TotalScore, &r.Created); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
