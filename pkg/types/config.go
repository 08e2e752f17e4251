package types

// CITestConfig holds shared settings for stages that run Gaussian
// conditional-independence tests (structure learning, blanket discovery).
type CITestConfig struct {
	// Alpha is the significance level for the Fisher z test (default 0.01).
	Alpha float64 `json:"alpha" yaml:"alpha"`

	// MaxCond caps the conditioning set size. Negative means unbounded.
	// Per prd003-structure R2.4.
	MaxCond int `json:"max_cond" yaml:"max_cond"`
}

// DatasetConfig holds settings for dataset loading and preparation.
// Per prd001-dataset R1.1, R4.1.
type DatasetConfig struct {
	// Path is the expression matrix CSV (default "data/brca50.csv").
	Path string `json:"path" yaml:"path"`

	// Seed drives every randomized step (fold assignment). Default 1.
	Seed int64 `json:"seed" yaml:"seed"`
}

// StructureConfig holds settings for the PC structure-learning stage.
// Per prd003-structure R2.1-R2.4.
type StructureConfig struct {
	CITestConfig `yaml:",inline"`

	// OrderDependent disables the order-independent (stable) skeleton
	// variant and restores the classic sequential behavior.
	OrderDependent bool `json:"order_dependent" yaml:"order_dependent"`
}

// EffectsConfig holds settings for the causal effect estimation stage.
// Per prd004-effects R1.1, R4.2.
type EffectsConfig struct {
	// Targets are the effect (response) genes. Empty means every gene.
	Targets []string `json:"targets" yaml:"targets"`

	// Causes restricts the cause genes. Empty means every other gene.
	Causes []string `json:"causes" yaml:"causes"`

	// TopN limits the ranked effect table (default 25).
	TopN int `json:"top_n" yaml:"top_n"`
}

// BlanketConfig holds settings for Markov blanket discovery.
// Per prd005-blanket R1.1, R3.1-R3.3.
type BlanketConfig struct {
	CITestConfig `yaml:",inline"`

	// Targets are the genes whose blankets are discovered.
	Targets []string `json:"targets" yaml:"targets"`

	// CVFolds is the fold count for the predictive check (default 5).
	CVFolds int `json:"cv_folds" yaml:"cv_folds"`
}

// BayesNetConfig holds settings for the discrete network stage.
// Per prd006-bayesnet R1.1, R2.3, R4.1.
type BayesNetConfig struct {
	// NetworkPath is the YAML network definition (default "data/network.yaml").
	NetworkPath string `json:"network_path" yaml:"network_path"`

	// Levels is the discretization level count: 2 (median split) or 3 (tertiles).
	Levels int `json:"levels" yaml:"levels"`

	// Laplace is the smoothing pseudo-count for CPT estimation (default 1.0).
	Laplace float64 `json:"laplace" yaml:"laplace"`
}

// ReportConfig holds settings for report assembly.
// Per prd007-report R1.1, R1.2.
type ReportConfig struct {
	// OutputDir receives report.md and every generated artifact
	// (default "output/report").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// RenderDOT pipes graphs through the dot binary when it is installed.
	RenderDOT bool `json:"render_dot" yaml:"render_dot"`
}

// ResultsConfig holds settings for the results store.
// Per prd008-results-db R1.1.
type ResultsConfig struct {
	// DBPath is the SQLite database file (default "output/results.db").
	DBPath string `json:"db_path" yaml:"db_path"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Dataset   DatasetConfig   `json:"dataset" yaml:"dataset"`
	Structure StructureConfig `json:"structure" yaml:"structure"`
	Effects   EffectsConfig   `json:"effects" yaml:"effects"`
	Blanket   BlanketConfig   `json:"blanket" yaml:"blanket"`
	BayesNet  BayesNetConfig  `json:"bayes_net" yaml:"bayes_net"`
	Report    ReportConfig    `json:"report" yaml:"report"`
	Results   ResultsConfig   `json:"results" yaml:"results"`
}
