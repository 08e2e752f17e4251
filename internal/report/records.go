// Copyright Jei Raju, 2026. All rights reserved.

package report

import (
	"sort"

	"github.com/JeiRaju/brca50-causal-inference-analysis/internal/blanket"
	"github.com/JeiRaju/brca50-causal-inference-analysis/internal/gaussci"
	"github.com/JeiRaju/brca50-causal-inference-analysis/internal/ida"
	"github.com/JeiRaju/brca50-causal-inference-analysis/internal/pdag"
	"github.com/JeiRaju/brca50-causal-inference-analysis/pkg/types"
)

// EdgeRecords flattens a graph's edges into storable records (R2.1).
// Undirected edges come out with From < To lexicographically.
func EdgeRecords(g *pdag.Graph, phase types.EdgePhase) []types.EdgeRecord {
	edges := g.Edges()
	out := make([]types.EdgeRecord, len(edges))
	for i, e := range edges {
		from, to := g.Name(e.From), g.Name(e.To)
		if !e.Directed && from > to {
			from, to = to, from
		}
		out[i] = types.EdgeRecord{
			From:     from,
			To:       to,
			Directed: e.Directed,
			Phase:    phase,
		}
	}
	return out
}

// CITestRecords maps raw test results onto gene symbols (R2.2).
func CITestRecords(names []string, results []gaussci.Result) []types.CITestRecord {
	out := make([]types.CITestRecord, len(results))
	for i, r := range results {
		rec := types.CITestRecord{
			GeneA:       names[r.I],
			GeneB:       names[r.J],
			PartialCorr: r.PartialCorr,
			Statistic:   r.Statistic,
			PValue:      r.PValue,
			Independent: r.Independent,
		}
		for _, c := range r.Cond {
			rec.CondSet = append(rec.CondSet, names[c])
		}
		sort.Strings(rec.CondSet)
		out[i] = rec
	}
	return out
}

// EffectRecords summarizes ranked effect estimates (R2.3).
func EffectRecords(g *pdag.Graph, effects []*ida.Effects) []types.EffectRecord {
	out := make([]types.EffectRecord, len(effects))
	for i, e := range effects {
		lo, hi := e.Range()
		out[i] = types.EffectRecord{
			Cause:      g.Name(e.Cause),
			Effect:     g.Name(e.Effect),
			Values:     append([]float64(nil), e.Values...),
			ParentSets: len(e.ParentSets),
			MinAbs:     e.MinAbs(),
			Lo:         lo,
			Hi:         hi,
		}
	}
	return out
}

// BlanketRecord pairs a discovered blanket with its predictive check
// (R2.4). Either CV result may be nil when the check was skipped.
func BlanketRecord(names []string, b *blanket.Blanket, blanketCV, fullCV *blanket.CVResult) types.BlanketRecord {
	rec := types.BlanketRecord{Target: names[b.Target]}
	for _, m := range b.Members {
		rec.Members = append(rec.Members, names[m])
	}
	sort.Strings(rec.Members)

	if blanketCV != nil {
		rec.CVFolds = blanketCV.K
		rec.CVR2Blanket = blanketCV.Mean
	}
	if fullCV != nil {
		rec.CVR2Full = fullCV.Mean
	}
	return rec
}
