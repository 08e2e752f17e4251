// Copyright Jei Raju, 2026. All rights reserved.

package resultdb

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/JeiRaju/brca50-causal-inference-analysis/pkg/types"
)

// --- test helpers ---

func testSetup(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleMeta() types.RunMeta {
	return types.RunMeta{
		DatasetPath: "data/brca50.csv",
		Samples:     250,
		Genes:       50,
		Alpha:       0.01,
		MaxCond:     3,
		Stable:      true,
		Notes:       "unit test",
	}
}

func beginRun(t *testing.T, store *Store) types.RunMeta {
	t.Helper()
	meta, err := store.BeginRun(context.Background(), sampleMeta())
	if err != nil {
		t.Fatal(err)
	}
	return meta
}

func sampleEdges() []types.EdgeRecord {
	return []types.EdgeRecord{
		{From: "AURKA", To: "BRCA1", Directed: false, Phase: types.PhaseSkeleton},
		{From: "ESR1", To: "FOXA1", Directed: false, Phase: types.PhaseSkeleton},
		{From: "ESR1", To: "GATA3", Directed: true, Phase: types.PhaseCPDAG},
	}
}

// --- schema tests ---

func TestOpenCreatesSchema(t *testing.T) {
	store := testSetup(t)

	tables := []string{"runs", "edges", "ci_tests", "effects", "blankets", "prob_queries"}
	for _, table := range tables {
		var count int
		err := store.db.QueryRow(
			`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&count)
		if err != nil {
			t.Fatalf("checking table %s: %v", table, err)
		}
		if count == 0 {
			t.Errorf("table %s does not exist", table)
		}
	}
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "output", "results.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file not created at %s", dbPath)
	}
}

// --- run tests ---

func TestBeginRunGeneratesIDAndTime(t *testing.T) {
	store := testSetup(t)

	meta, err := store.BeginRun(context.Background(), sampleMeta())
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if meta.ID == "" {
		t.Error("ID not generated")
	}
	if meta.StartedAt.IsZero() {
		t.Error("StartedAt not set")
	}

	got, err := store.Run(context.Background(), meta.ID)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !got.StartedAt.Equal(meta.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, meta.StartedAt)
	}
	got.StartedAt = meta.StartedAt
	if got != meta {
		t.Errorf("round-tripped run = %+v, want %+v", got, meta)
	}
}

func TestBeginRunKeepsCallerID(t *testing.T) {
	store := testSetup(t)

	want := sampleMeta()
	want.ID = "run-fixed"
	want.StartedAt = time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

	got, err := store.BeginRun(context.Background(), want)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if got.ID != "run-fixed" {
		t.Errorf("ID = %s, want run-fixed", got.ID)
	}
	if !got.StartedAt.Equal(want.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, want.StartedAt)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	store := testSetup(t)

	early := sampleMeta()
	early.ID = "run-early"
	early.StartedAt = time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	late := sampleMeta()
	late.ID = "run-late"
	late.StartedAt = time.Date(2026, 2, 10, 10, 0, 0, 0, time.UTC)

	for _, meta := range []types.RunMeta{early, late} {
		if _, err := store.BeginRun(context.Background(), meta); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := store.ListRuns(context.Background())
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	if runs[0].ID != "run-late" || runs[1].ID != "run-early" {
		t.Errorf("run order = [%s %s], want [run-late run-early]", runs[0].ID, runs[1].ID)
	}

	latest, err := store.LatestRun(context.Background())
	if err != nil {
		t.Fatalf("LatestRun: %v", err)
	}
	if latest.ID != "run-late" {
		t.Errorf("LatestRun ID = %s, want run-late", latest.ID)
	}
}

func TestRunNotFound(t *testing.T) {
	store := testSetup(t)

	_, err := store.Run(context.Background(), "missing")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("err = %v, want not-found error", err)
	}

	_, err = store.LatestRun(context.Background())
	if err == nil {
		t.Error("LatestRun on empty store should fail")
	}
}

// --- save and query tests ---

func TestSaveEdgesRoundTrip(t *testing.T) {
	store := testSetup(t)
	meta := beginRun(t, store)
	ctx := context.Background()

	if err := store.SaveEdges(ctx, meta.ID, sampleEdges()); err != nil {
		t.Fatalf("SaveEdges: %v", err)
	}

	all, err := store.EdgesForRun(ctx, meta.ID, "")
	if err != nil {
		t.Fatalf("EdgesForRun: %v", err)
	}
	if !reflect.DeepEqual(all, sampleEdges()) {
		t.Errorf("edges = %+v, want %+v", all, sampleEdges())
	}

	cpdag, err := store.EdgesForRun(ctx, meta.ID, types.PhaseCPDAG)
	if err != nil {
		t.Fatalf("EdgesForRun(cpdag): %v", err)
	}
	if len(cpdag) != 1 || cpdag[0].To != "GATA3" || !cpdag[0].Directed {
		t.Errorf("cpdag edges = %+v, want one directed ESR1-GATA3 edge", cpdag)
	}
}

func TestSaveCITestsRoundTrip(t *testing.T) {
	store := testSetup(t)
	meta := beginRun(t, store)
	ctx := context.Background()

	tests := []types.CITestRecord{
		{GeneA: "ESR1", GeneB: "AURKA", PartialCorr: -0.03,
			Statistic: 0.47, PValue: 0.64, Independent: true},
		{GeneA: "ESR1", GeneB: "GATA3", CondSet: []string{"FOXA1", "XBP1"},
			PartialCorr: 0.51, Statistic: 8.8, PValue: 1.4e-18},
	}
	if err := store.SaveCITests(ctx, meta.ID, tests); err != nil {
		t.Fatalf("SaveCITests: %v", err)
	}

	got, err := store.CITestsForRun(ctx, meta.ID)
	if err != nil {
		t.Fatalf("CITestsForRun: %v", err)
	}
	if !reflect.DeepEqual(got, tests) {
		t.Errorf("tests = %+v, want %+v", got, tests)
	}
}

func TestSaveEffectsOrderedByBound(t *testing.T) {
	store := testSetup(t)
	meta := beginRun(t, store)
	ctx := context.Background()

	effects := []types.EffectRecord{
		{Cause: "FOXA1", Effect: "ESR1", Values: []float64{0.9, 1.2},
			ParentSets: 2, MinAbs: 0.9, Lo: 0.9, Hi: 1.2},
		{Cause: "GATA3", Effect: "ESR1", Values: []float64{1.4},
			ParentSets: 1, MinAbs: 1.4, Lo: 1.4, Hi: 1.4},
		{Cause: "AURKA", Effect: "ESR1", Values: []float64{-0.2, 0.4},
			ParentSets: 2, MinAbs: 0.2, Lo: -0.2, Hi: 0.4},
	}
	if err := store.SaveEffects(ctx, meta.ID, effects); err != nil {
		t.Fatalf("SaveEffects: %v", err)
	}

	got, err := store.EffectsForRun(ctx, meta.ID, 0)
	if err != nil {
		t.Fatalf("EffectsForRun: %v", err)
	}
	wantOrder := []string{"GATA3", "FOXA1", "AURKA"}
	if len(got) != 3 {
		t.Fatalf("len(effects) = %d, want 3", len(got))
	}
	for i, cause := range wantOrder {
		if got[i].Cause != cause {
			t.Errorf("effects[%d].Cause = %s, want %s", i, got[i].Cause, cause)
		}
	}
	if !reflect.DeepEqual(got[0].Values, []float64{1.4}) {
		t.Errorf("Values = %v, want [1.4]", got[0].Values)
	}

	top, err := store.EffectsForRun(ctx, meta.ID, 2)
	if err != nil {
		t.Fatalf("EffectsForRun(limit 2): %v", err)
	}
	if len(top) != 2 || top[1].Cause != "FOXA1" {
		t.Errorf("top effects = %+v, want GATA3 then FOXA1", top)
	}
}

func TestSaveBlanketRoundTrip(t *testing.T) {
	store := testSetup(t)
	meta := beginRun(t, store)
	ctx := context.Background()

	blanket := types.BlanketRecord{
		Target:      "ESR1",
		Members:     []string{"FOXA1", "GATA3", "XBP1"},
		CVFolds:     5,
		CVR2Blanket: 0.81,
		CVR2Full:    0.78,
	}
	if err := store.SaveBlanket(ctx, meta.ID, blanket); err != nil {
		t.Fatalf("SaveBlanket: %v", err)
	}

	got, err := store.BlanketsForRun(ctx, meta.ID)
	if err != nil {
		t.Fatalf("BlanketsForRun: %v", err)
	}
	if len(got) != 1 || !reflect.DeepEqual(got[0], blanket) {
		t.Errorf("blankets = %+v, want [%+v]", got, blanket)
	}
}

func TestSaveQueryRoundTrip(t *testing.T) {
	store := testSetup(t)
	meta := beginRun(t, store)
	ctx := context.Background()

	queries := []types.ProbQueryRecord{
		{Target: "ESR1",
			Distribution: map[string]float64{"low": 0.48, "high": 0.52}},
		{Target: "MKI67",
			Evidence:     map[string]string{"ESR1": "high", "AURKA": "low"},
			Distribution: map[string]float64{"low": 0.71, "high": 0.29}},
	}
	for _, q := range queries {
		if err := store.SaveQuery(ctx, meta.ID, q); err != nil {
			t.Fatalf("SaveQuery: %v", err)
		}
	}

	got, err := store.QueriesForRun(ctx, meta.ID)
	if err != nil {
		t.Fatalf("QueriesForRun: %v", err)
	}
	if !reflect.DeepEqual(got, queries) {
		t.Errorf("queries = %+v, want %+v", got, queries)
	}
}

func TestSummaryCounts(t *testing.T) {
	store := testSetup(t)
	meta := beginRun(t, store)
	ctx := context.Background()

	if err := store.SaveEdges(ctx, meta.ID, sampleEdges()); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveCITests(ctx, meta.ID, []types.CITestRecord{
		{GeneA: "ESR1", GeneB: "AURKA", PValue: 0.6, Independent: true},
	}); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveBlanket(ctx, meta.ID, types.BlanketRecord{Target: "ESR1"}); err != nil {
		t.Fatal(err)
	}

	summary, err := store.Summary(ctx, meta.ID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.Edges != 3 || summary.CITests != 1 || summary.Effects != 0 ||
		summary.Blankets != 1 || summary.Queries != 0 {
		t.Errorf("summary = %+v, want 3 edges, 1 test, 1 blanket", summary)
	}
}

// --- export tests ---

func TestExportYAML(t *testing.T) {
	store := testSetup(t)
	meta := beginRun(t, store)
	ctx := context.Background()

	if err := store.SaveEdges(ctx, meta.ID, sampleEdges()); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "export.yaml")
	if err := store.ExportYAML(ctx, meta.ID, path); err != nil {
		t.Fatalf("ExportYAML: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var export RunExport
	if err := yaml.Unmarshal(data, &export); err != nil {
		t.Fatalf("unmarshaling export: %v", err)
	}
	if export.Run.ID != meta.ID {
		t.Errorf("exported run ID = %s, want %s", export.Run.ID, meta.ID)
	}
	if len(export.Edges) != 3 {
		t.Errorf("exported edges = %d, want 3", len(export.Edges))
	}
}

func TestExportJSON(t *testing.T) {
	store := testSetup(t)
	meta := beginRun(t, store)
	ctx := context.Background()

	blanket := types.BlanketRecord{Target: "ESR1", Members: []string{"FOXA1"}}
	if err := store.SaveBlanket(ctx, meta.ID, blanket); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "export.json")
	if err := store.ExportJSON(ctx, meta.ID, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var export RunExport
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("unmarshaling export: %v", err)
	}
	if len(export.Blankets) != 1 || export.Blankets[0].Target != "ESR1" {
		t.Errorf("exported blankets = %+v, want ESR1", export.Blankets)
	}
}
