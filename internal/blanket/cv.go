// Copyright Jei Raju, 2026. All rights reserved.

package blanket

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/JeiRaju/brca50-causal-inference-analysis/internal/dataset"
	"github.com/JeiRaju/brca50-causal-inference-analysis/internal/linreg"
)

// CVResult is the cross-validated prediction score of one model.
type CVResult struct {
	K      int
	FoldR2 []float64
	Mean   float64
}

// CrossValidate scores the least-squares prediction of target from the
// given predictor genes with k-fold cross-validation. An empty
// predictor list scores the intercept-only model.
func CrossValidate(m *dataset.Matrix, target int, predictors []int, k int, seed int64) (*CVResult, error) {
	folds, err := dataset.NewFolds(m.Samples, k, seed)
	if err != nil {
		return nil, err
	}
	pick := make([][]float64, len(predictors))
	for i, p := range predictors {
		pick[i] = m.Cols[p]
	}
	resp := [][]float64{m.Cols[target]}

	out := &CVResult{K: k}
	for fold := 0; fold < k; fold++ {
		train, test := folds.Split(fold)
		coef, err := linreg.Fit(dataset.Subset(resp, train)[0], dataset.Subset(pick, train))
		if err != nil {
			return nil, fmt.Errorf("fold %d: %w", fold, err)
		}
		yhat := linreg.Predict(coef, dataset.Subset(pick, test), len(test))
		out.FoldR2 = append(out.FoldR2, stat.RSquaredFrom(yhat, dataset.Subset(resp, test)[0], nil))
	}
	out.Mean = stat.Mean(out.FoldR2, nil)
	return out, nil
}

// Compare cross-validates the blanket model against the model using
// every other gene, with identical fold assignments so the scores
// differ only in the predictors.
func Compare(m *dataset.Matrix, target int, members []int, k int, seed int64) (blanketCV, fullCV *CVResult, err error) {
	blanketCV, err = CrossValidate(m, target, members, k, seed)
	if err != nil {
		return nil, nil, fmt.Errorf("blanket model: %w", err)
	}
	all := make([]int, 0, len(m.Genes)-1)
	for i := range m.Genes {
		if i != target {
			all = append(all, i)
		}
	}
	fullCV, err = CrossValidate(m, target, all, k, seed)
	if err != nil {
		return nil, nil, fmt.Errorf("full model: %w", err)
	}
	return blanketCV, fullCV, nil
}
