package ml

import "errors"

var (
	// ErrBadTrainingData indicates an empty or ragged training set.
	ErrBadTrainingData = errors.New("bad training data")
	// ErrFeatureMismatch indicates a feature vector of the wrong width.
	ErrFeatureMismatch = errors.New("feature count mismatch")
	// ErrSingularSystem indicates the ridge normal equations could not be solved.
	ErrSingularSystem = errors.New("singular system")
	// ErrModelNotTrained indicates a prediction attempt before fitting.
	ErrModelNotTrained = errors.New("model not trained")
)
