package ml

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler centers each feature column to zero mean and unit variance.
// Columns with zero variance pass through unscaled.
type StandardScaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// Fit learns the per-column mean and population standard deviation.
func (s *StandardScaler) Fit(x [][]float64) error {
	if len(x) == 0 || len(x[0]) == 0 {
		return fmt.Errorf("%w: empty feature matrix", ErrBadTrainingData)
	}
	cols := len(x[0])
	s.Mean = make([]float64, cols)
	s.Std = make([]float64, cols)

	column := make([]float64, len(x))
	for c := 0; c < cols; c++ {
		for r, row := range x {
			if len(row) != cols {
				return fmt.Errorf("%w: ragged row %d", ErrBadTrainingData, r)
			}
			column[r] = row[c]
		}
		s.Mean[c] = stat.Mean(column, nil)
		s.Std[c] = stat.PopStdDev(column, nil)
		if s.Std[c] == 0 {
			s.Std[c] = 1
		}
	}
	return nil
}

// Transform scales one feature vector.
func (s *StandardScaler) Transform(features []float64) ([]float64, error) {
	if len(features) != len(s.Mean) {
		return nil, fmt.Errorf("%w: got %d features, want %d", ErrFeatureMismatch, len(features), len(s.Mean))
	}
	out := make([]float64, len(features))
	for i, v := range features {
		out[i] = (v - s.Mean[i]) / s.Std[i]
	}
	return out, nil
}

// TransformAll scales a feature matrix.
func (s *StandardScaler) TransformAll(x [][]float64) ([][]float64, error) {
	out := make([][]float64, len(x))
	for i, row := range x {
		scaled, err := s.Transform(row)
		if err != nil {
			return nil, err
		}
		out[i] = scaled
	}
	return out, nil
}
