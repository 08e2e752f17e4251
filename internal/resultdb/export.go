// Copyright Jei Raju, 2026. All rights reserved.

package resultdb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/JeiRaju/brca50-causal-inference-analysis/pkg/types"
)

// RunExport bundles everything recorded for one run (R5.3).
type RunExport struct {
	Run      types.RunMeta           `json:"run" yaml:"run"`
	Edges    []types.EdgeRecord      `json:"edges" yaml:"edges"`
	CITests  []types.CITestRecord    `json:"ci_tests" yaml:"ci_tests"`
	Effects  []types.EffectRecord    `json:"effects" yaml:"effects"`
	Blankets []types.BlanketRecord   `json:"blankets" yaml:"blankets"`
	Queries  []types.ProbQueryRecord `json:"queries" yaml:"queries"`
}

// ExportYAML writes a complete run to path as YAML (R5.1).
func (s *Store) ExportYAML(ctx context.Context, runID, path string) error {
	export, err := s.exportRun(ctx, runID)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(export)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes a complete run to path as JSON (R5.2).
func (s *Store) ExportJSON(ctx context.Context, runID, path string) error {
	export, err := s.exportRun(ctx, runID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) exportRun(ctx context.Context, runID string) (*RunExport, error) {
	meta, err := s.Run(ctx, runID)
	if err != nil {
		return nil, err
	}

	export := &RunExport{Run: meta}

	if export.Edges, err = s.EdgesForRun(ctx, runID, ""); err != nil {
		return nil, err
	}
	if export.CITests, err = s.CITestsForRun(ctx, runID); err != nil {
		return nil, err
	}
	if export.Effects, err = s.EffectsForRun(ctx, runID, 0); err != nil {
		return nil, err
	}
	if export.Blankets, err = s.BlanketsForRun(ctx, runID); err != nil {
		return nil, err
	}
	if export.Queries, err = s.QueriesForRun(ctx, runID); err != nil {
		return nil, err
	}

	return export, nil
}
