// Copyright Jei Raju, 2026. All rights reserved.

package types

import "time"

// EdgePhase identifies which stage of structure learning produced an edge.
// Per prd003-structure R4.2.
type EdgePhase string

const (
	PhaseSkeleton EdgePhase = "skeleton"
	PhaseCPDAG    EdgePhase = "cpdag"
)

// EdgeRecord is one learned edge. Undirected edges are stored once with
// From < To lexicographically; directed edges point From → To.
type EdgeRecord struct {
	// From is the tail gene symbol.
	From string `json:"from" yaml:"from"`

	// To is the head gene symbol.
	To string `json:"to" yaml:"to"`

	// Directed reports whether the edge carries an arrowhead at To.
	Directed bool `json:"directed" yaml:"directed"`

	// Phase records whether the edge belongs to the skeleton or the CPDAG.
	Phase EdgePhase `json:"phase" yaml:"phase"`
}

// CITestRecord is one executed conditional-independence test.
// Per prd002-citest R3.1-R3.3.
type CITestRecord struct {
	// GeneA and GeneB are the tested pair.
	GeneA string `json:"gene_a" yaml:"gene_a"`
	GeneB string `json:"gene_b" yaml:"gene_b"`

	// CondSet lists the conditioning genes, sorted.
	CondSet []string `json:"cond_set" yaml:"cond_set"`

	// PartialCorr is the estimated partial correlation.
	PartialCorr float64 `json:"partial_corr" yaml:"partial_corr"`

	// Statistic is the Fisher z statistic sqrt(n-|S|-3)·|z|.
	Statistic float64 `json:"statistic" yaml:"statistic"`

	// PValue is the two-sided p-value from the standard normal.
	PValue float64 `json:"p_value" yaml:"p_value"`

	// Independent reports the verdict at the configured alpha.
	Independent bool `json:"independent" yaml:"independent"`
}

// EffectRecord is an estimated causal effect bound for one cause-effect
// gene pair. Per prd004-effects R2.1-R2.4.
type EffectRecord struct {
	// Cause is the intervened gene; Effect is the response gene.
	Cause  string `json:"cause" yaml:"cause"`
	Effect string `json:"effect" yaml:"effect"`

	// Values is the multiset of possible total effects, one per valid
	// parent-set completion of the CPDAG.
	Values []float64 `json:"values" yaml:"values"`

	// ParentSets counts the valid completions behind Values.
	ParentSets int `json:"parent_sets" yaml:"parent_sets"`

	// MinAbs is the minimum absolute effect, the conservative bound.
	MinAbs float64 `json:"min_abs" yaml:"min_abs"`

	// Lo and Hi bound the effect multiset.
	Lo float64 `json:"lo" yaml:"lo"`
	Hi float64 `json:"hi" yaml:"hi"`
}

// BlanketRecord is the discovered Markov blanket of one target gene with
// its cross-validated predictive check. Per prd005-blanket R2.1, R3.3.
type BlanketRecord struct {
	// Target is the gene whose blanket was discovered.
	Target string `json:"target" yaml:"target"`

	// Members lists the blanket genes, sorted.
	Members []string `json:"members" yaml:"members"`

	// CVFolds is the fold count of the predictive check (0 = not run).
	CVFolds int `json:"cv_folds" yaml:"cv_folds"`

	// CVR2Blanket is the mean held-out R² regressing the target on the
	// blanket members; CVR2Full uses every other gene.
	CVR2Blanket float64 `json:"cv_r2_blanket" yaml:"cv_r2_blanket"`
	CVR2Full    float64 `json:"cv_r2_full" yaml:"cv_r2_full"`
}

// ProbQueryRecord is one exact-inference query result: the posterior
// distribution of a target variable given evidence. Per prd006-bayesnet R5.2.
type ProbQueryRecord struct {
	// Target is the queried variable.
	Target string `json:"target" yaml:"target"`

	// Evidence maps observed variables to their states.
	Evidence map[string]string `json:"evidence,omitempty" yaml:"evidence,omitempty"`

	// Distribution maps each target state to its posterior probability.
	Distribution map[string]float64 `json:"distribution" yaml:"distribution"`
}

// RunMeta describes one recorded analysis run.
// Per prd008-results-db R2.1-R2.3.
type RunMeta struct {
	// ID is the run UUID.
	ID string `json:"id" yaml:"id"`

	// StartedAt is the run start time in UTC.
	StartedAt time.Time `json:"started_at" yaml:"started_at"`

	// DatasetPath is the expression matrix the run analyzed.
	DatasetPath string `json:"dataset_path" yaml:"dataset_path"`

	// Samples and Genes record the dataset dimensions.
	Samples int `json:"samples" yaml:"samples"`
	Genes   int `json:"genes" yaml:"genes"`

	// Alpha, MaxCond, and Stable record the structure-learning settings.
	Alpha   float64 `json:"alpha" yaml:"alpha"`
	MaxCond int     `json:"max_cond" yaml:"max_cond"`
	Stable  bool    `json:"stable" yaml:"stable"`

	// Notes is a free-form annotation.
	Notes string `json:"notes,omitempty" yaml:"notes,omitempty"`
}
