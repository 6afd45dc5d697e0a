package ml

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Ridge is a linear regressor with L2 regularization. The intercept is fitted
// but not penalized.
type Ridge struct {
	Lambda    float64   `json:"lambda"`
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

// Fit solves (XᵀX + λI)θ = Xᵀy on the bias-augmented design matrix.
func (r *Ridge) Fit(x [][]float64, y []float64) error {
	if len(x) == 0 || len(x) != len(y) {
		return fmt.Errorf("%w: %d rows, %d labels", ErrBadTrainingData, len(x), len(y))
	}
	rows := len(x)
	cols := len(x[0]) + 1

	design := mat.NewDense(rows, cols, nil)
	for i, row := range x {
		if len(row) != cols-1 {
			return fmt.Errorf("%w: ragged row %d", ErrBadTrainingData, i)
		}
		design.Set(i, 0, 1)
		for j, v := range row {
			design.Set(i, j+1, v)
		}
	}
	labels := mat.NewVecDense(rows, y)

	var gram mat.Dense
	gram.Mul(design.T(), design)
	for j := 1; j < cols; j++ {
		gram.Set(j, j, gram.At(j, j)+r.Lambda)
	}

	var moment mat.VecDense
	moment.MulVec(design.T(), labels)

	var theta mat.VecDense
	if err := theta.SolveVec(&gram, &moment); err != nil {
		return fmt.Errorf("%w: %w", ErrSingularSystem, err)
	}

	r.Intercept = theta.AtVec(0)
	r.Weights = make([]float64, cols-1)
	for j := 1; j < cols; j++ {
		r.Weights[j-1] = theta.AtVec(j)
	}
	return nil
}

// Predict evaluates the fitted model on one feature vector.
func (r *Ridge) Predict(features []float64) (float64, error) {
	if len(features) != len(r.Weights) {
		return 0, fmt.Errorf("%w: got %d features, want %d", ErrFeatureMismatch, len(features), len(r.Weights))
	}
	out := r.Intercept
	for i, w := range r.Weights {
		out += w * features[i]
	}
	return out, nil
}
