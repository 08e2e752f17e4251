// Copyright Jei Raju, 2026. All rights reserved.

package resultdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JeiRaju/brca50-causal-inference-analysis/pkg/types"
)

// RunSummary pairs a run's metadata with row counts per result table (R4.2).
type RunSummary struct {
	Meta     types.RunMeta `json:"meta" yaml:"meta"`
	Edges    int           `json:"edges" yaml:"edges"`
	CITests  int           `json:"ci_tests" yaml:"ci_tests"`
	Effects  int           `json:"effects" yaml:"effects"`
	Blankets int           `json:"blankets" yaml:"blankets"`
	Queries  int           `json:"queries" yaml:"queries"`
}

// ListRuns returns all recorded runs, newest first (R4.1).
func (s *Store) ListRuns(ctx context.Context) ([]types.RunMeta, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, dataset_path, samples, genes,
			alpha, max_cond, stable, notes
		FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []types.RunMeta
	for rows.Next() {
		meta, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, meta)
	}
	return runs, rows.Err()
}

// Run returns the metadata of a single run (R4.1).
func (s *Store) Run(ctx context.Context, runID string) (types.RunMeta, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, dataset_path, samples, genes,
			alpha, max_cond, stable, notes
		FROM runs WHERE id = ?`, runID)

	meta, err := scanRun(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.RunMeta{}, fmt.Errorf("run %s not found", runID)
		}
		return types.RunMeta{}, err
	}
	return meta, nil
}

// LatestRun returns the most recently started run (R4.1).
func (s *Store) LatestRun(ctx context.Context) (types.RunMeta, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, dataset_path, samples, genes,
			alpha, max_cond, stable, notes
		FROM runs ORDER BY started_at DESC LIMIT 1`)

	meta, err := scanRun(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.RunMeta{}, fmt.Errorf("no runs recorded")
		}
		return types.RunMeta{}, err
	}
	return meta, nil
}

// Summary returns a run's metadata with its result row counts (R4.2).
func (s *Store) Summary(ctx context.Context, runID string) (*RunSummary, error) {
	meta, err := s.Run(ctx, runID)
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{Meta: meta}
	counts := []struct {
		table string
		dst   *int
	}{
		{"edges", &summary.Edges},
		{"ci_tests", &summary.CITests},
		{"effects", &summary.Effects},
		{"blankets", &summary.Blankets},
		{"prob_queries", &summary.Queries},
	}
	for _, c := range counts {
		err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM `+c.table+` WHERE run_id = ?`, runID,
		).Scan(c.dst)
		if err != nil {
			return nil, fmt.Errorf("counting %s: %w", c.table, err)
		}
	}
	return summary, nil
}

// EdgesForRun returns a run's edges, optionally filtered by phase (R4.3).
func (s *Store) EdgesForRun(ctx context.Context, runID string, phase types.EdgePhase) ([]types.EdgeRecord, error) {
	query := `SELECT from_gene, to_gene, directed, phase
		FROM edges WHERE run_id = ?`
	args := []any{runID}
	if phase != "" {
		query += ` AND phase = ?`
		args = append(args, string(phase))
	}
	query += ` ORDER BY from_gene, to_gene`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying edges: %w", err)
	}
	defer rows.Close()

	var edges []types.EdgeRecord
	for rows.Next() {
		var (
			e        types.EdgeRecord
			phaseStr string
		)
		if err := rows.Scan(&e.From, &e.To, &e.Directed, &phaseStr); err != nil {
			return nil, fmt.Errorf("scanning edge: %w", err)
		}
		e.Phase = types.EdgePhase(phaseStr)
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// CITestsForRun returns every recorded conditional-independence test of
// a run (R4.4).
func (s *Store) CITestsForRun(ctx context.Context, runID string) ([]types.CITestRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT gene_a, gene_b, cond_set, partial_corr, statistic,
			p_value, independent
		FROM ci_tests WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying tests: %w", err)
	}
	defer rows.Close()

	var tests []types.CITestRecord
	for rows.Next() {
		var (
			t        types.CITestRecord
			condJSON sql.NullString
		)
		if err := rows.Scan(&t.GeneA, &t.GeneB, &condJSON,
			&t.PartialCorr, &t.Statistic, &t.PValue, &t.Independent); err != nil {
			return nil, fmt.Errorf("scanning test: %w", err)
		}
		if condJSON.Valid {
			json.Unmarshal([]byte(condJSON.String), &t.CondSet)
		}
		tests = append(tests, t)
	}
	return tests, rows.Err()
}

// EffectsForRun returns a run's effect estimates ordered by the
// conservative bound, strongest first (R4.5). A limit of zero returns
// every row.
func (s *Store) EffectsForRun(ctx context.Context, runID string, limit int) ([]types.EffectRecord, error) {
	query := `SELECT cause, effect, values_json, parent_sets, min_abs, lo, hi
		FROM effects WHERE run_id = ?
		ORDER BY min_abs DESC, cause, effect`
	args := []any{runID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying effects: %w", err)
	}
	defer rows.Close()

	var effects []types.EffectRecord
	for rows.Next() {
		var (
			e          types.EffectRecord
			valuesJSON sql.NullString
		)
		if err := rows.Scan(&e.Cause, &e.Effect, &valuesJSON,
			&e.ParentSets, &e.MinAbs, &e.Lo, &e.Hi); err != nil {
			return nil, fmt.Errorf("scanning effect: %w", err)
		}
		if valuesJSON.Valid {
			json.Unmarshal([]byte(valuesJSON.String), &e.Values)
		}
		effects = append(effects, e)
	}
	return effects, rows.Err()
}

// BlanketsForRun returns a run's Markov blankets ordered by target (R4.6).
func (s *Store) BlanketsForRun(ctx context.Context, runID string) ([]types.BlanketRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT target, members, cv_folds, cv_r2_blanket, cv_r2_full
		FROM blankets WHERE run_id = ? ORDER BY target`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying blankets: %w", err)
	}
	defer rows.Close()

	var blankets []types.BlanketRecord
	for rows.Next() {
		var (
			b           types.BlanketRecord
			membersJSON sql.NullString
		)
		if err := rows.Scan(&b.Target, &membersJSON, &b.CVFolds,
			&b.CVR2Blanket, &b.CVR2Full); err != nil {
			return nil, fmt.Errorf("scanning blanket: %w", err)
		}
		if membersJSON.Valid {
			json.Unmarshal([]byte(membersJSON.String), &b.Members)
		}
		blankets = append(blankets, b)
	}
	return blankets, rows.Err()
}

// QueriesForRun returns a run's exact-inference query results (R4.7).
func (s *Store) QueriesForRun(ctx context.Context, runID string) ([]types.ProbQueryRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT target, evidence, distribution
		FROM prob_queries WHERE run_id = ? ORDER BY target`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying probability queries: %w", err)
	}
	defer rows.Close()

	var queries []types.ProbQueryRecord
	for rows.Next() {
		var (
			q            types.ProbQueryRecord
			evidenceJSON sql.NullString
			distJSON     sql.NullString
		)
		if err := rows.Scan(&q.Target, &evidenceJSON, &distJSON); err != nil {
			return nil, fmt.Errorf("scanning query: %w", err)
		}
		if evidenceJSON.Valid {
			json.Unmarshal([]byte(evidenceJSON.String), &q.Evidence)
		}
		if distJSON.Valid {
			json.Unmarshal([]byte(distJSON.String), &q.Distribution)
		}
		queries = append(queries, q)
	}
	return queries, rows.Err()
}

// scanRun reads one runs row from either a *sql.Row or *sql.Rows.
func scanRun(row interface{ Scan(...any) error }) (types.RunMeta, error) {
	var (
		meta      types.RunMeta
		startedAt string
	)
	err := row.Scan(&meta.ID, &startedAt, &meta.DatasetPath,
		&meta.Samples, &meta.Genes, &meta.Alpha, &meta.MaxCond,
		&meta.Stable, &meta.Notes)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.RunMeta{}, err
		}
		return types.RunMeta{}, fmt.Errorf("scanning run: %w", err)
	}

	meta.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return types.RunMeta{}, fmt.Errorf("parsing run time: %w", err)
	}
	return meta, nil
}
