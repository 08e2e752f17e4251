// Copyright Jei Raju, 2026. All rights reserved.

// Package resultdb persists analysis runs in a local SQLite database so
// tables and figures can be rebuilt without re-running the estimators.
// Implements: prd008-results-db (R1-R5); docs/ARCHITECTURE.md § Results
// database.
package resultdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/JeiRaju/brca50-causal-inference-analysis/pkg/types"
)

// Store wraps the SQLite results database (R1.1).
type Store struct {
	db *sql.DB
}

// Open creates or opens the results database at dbPath, creating the
// parent directory and the schema as needed (R1.1, R1.2).
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// createSchema creates all tables and indexes if they don't exist (R1.2).
func createSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			dataset_path TEXT NOT NULL,
			samples INTEGER NOT NULL,
			genes INTEGER NOT NULL,
			alpha REAL NOT NULL,
			max_cond INTEGER NOT NULL,
			stable INTEGER NOT NULL,
			notes TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS edges (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			from_gene TEXT NOT NULL,
			to_gene TEXT NOT NULL,
			directed INTEGER NOT NULL,
			phase TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_edges_run ON edges(run_id, phase)`,
		`CREATE TABLE IF NOT EXISTS ci_tests (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			gene_a TEXT NOT NULL,
			gene_b TEXT NOT NULL,
			cond_set TEXT NOT NULL,
			partial_corr REAL NOT NULL,
			statistic REAL NOT NULL,
			p_value REAL NOT NULL,
			independent INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ci_tests_run ON ci_tests(run_id)`,
		`CREATE TABLE IF NOT EXISTS effects (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			cause TEXT NOT NULL,
			effect TEXT NOT NULL,
			values_json TEXT NOT NULL,
			parent_sets INTEGER NOT NULL,
			min_abs REAL NOT NULL,
			lo REAL NOT NULL,
			hi REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_effects_run ON effects(run_id)`,
		`CREATE TABLE IF NOT EXISTS blankets (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			target TEXT NOT NULL,
			members TEXT NOT NULL,
			cv_folds INTEGER NOT NULL,
			cv_r2_blanket REAL NOT NULL,
			cv_r2_full REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS prob_queries (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			target TEXT NOT NULL,
			evidence TEXT NOT NULL,
			distribution TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// BeginRun inserts a new run row and returns the metadata with the
// generated ID and start time filled in (R2.1, R2.2). A caller-supplied
// ID or start time is kept, which replays deterministically in tests.
func (s *Store) BeginRun(ctx context.Context, meta types.RunMeta) (types.RunMeta, error) {
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	if meta.StartedAt.IsZero() {
		meta.StartedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, dataset_path, samples, genes,
			alpha, max_cond, stable, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.ID, meta.StartedAt.Format(time.RFC3339Nano), meta.DatasetPath,
		meta.Samples, meta.Genes, meta.Alpha, meta.MaxCond, meta.Stable,
		meta.Notes,
	)
	if err != nil {
		return types.RunMeta{}, fmt.Errorf("inserting run: %w", err)
	}
	return meta, nil
}

// SaveEdges stores learned edges for a run in one transaction (R3.1).
func (s *Store) SaveEdges(ctx context.Context, runID string, edges []types.EdgeRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO edges (run_id, from_gene, to_gene, directed, phase)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing edge insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range edges {
		if _, err := stmt.ExecContext(ctx, runID, e.From, e.To, e.Directed, string(e.Phase)); err != nil {
			return fmt.Errorf("inserting edge %s-%s: %w", e.From, e.To, err)
		}
	}

	return tx.Commit()
}

// SaveCITests stores the executed conditional-independence tests for a
// run in one transaction (R3.2). Conditioning sets are stored as JSON.
func (s *Store) SaveCITests(ctx context.Context, runID string, tests []types.CITestRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO ci_tests (run_id, gene_a, gene_b, cond_set,
			partial_corr, statistic, p_value, independent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing test insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range tests {
		condJSON, err := marshalJSON(t.CondSet)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, runID, t.GeneA, t.GeneB, condJSON,
			t.PartialCorr, t.Statistic, t.PValue, t.Independent); err != nil {
			return fmt.Errorf("inserting test %s-%s: %w", t.GeneA, t.GeneB, err)
		}
	}

	return tx.Commit()
}

// SaveEffects stores estimated effect bounds for a run in one
// transaction (R3.3).
func (s *Store) SaveEffects(ctx context.Context, runID string, effects []types.EffectRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO effects (run_id, cause, effect, values_json,
			parent_sets, min_abs, lo, hi)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing effect insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range effects {
		valuesJSON, err := marshalJSON(e.Values)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, runID, e.Cause, e.Effect, valuesJSON,
			e.ParentSets, e.MinAbs, e.Lo, e.Hi); err != nil {
			return fmt.Errorf("inserting effect %s->%s: %w", e.Cause, e.Effect, err)
		}
	}

	return tx.Commit()
}

// SaveBlanket stores one discovered Markov blanket with its
// cross-validation scores (R3.4).
func (s *Store) SaveBlanket(ctx context.Context, runID string, b types.BlanketRecord) error {
	membersJSON, err := marshalJSON(b.Members)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO blankets (run_id, target, members, cv_folds,
			cv_r2_blanket, cv_r2_full)
		VALUES (?, ?, ?, ?, ?, ?)`,
		runID, b.Target, membersJSON, b.CVFolds, b.CVR2Blanket, b.CVR2Full)
	if err != nil {
		return fmt.Errorf("inserting blanket for %s: %w", b.Target, err)
	}
	return nil
}

// SaveQuery stores one exact-inference query result (R3.5).
func (s *Store) SaveQuery(ctx context.Context, runID string, q types.ProbQueryRecord) error {
	evidenceJSON, err := marshalJSON(q.Evidence)
	if err != nil {
		return err
	}
	distJSON, err := marshalJSON(q.Distribution)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO prob_queries (run_id, target, evidence, distribution)
		VALUES (?, ?, ?, ?)`,
		runID, q.Target, evidenceJSON, distJSON)
	if err != nil {
		return fmt.Errorf("inserting query for %s: %w", q.Target, err)
	}
	return nil
}

// marshalJSON serializes a value for storage in a TEXT column.
func marshalJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshaling for storage: %w", err)
	}
	return string(data), nil
}
