package ingest

import "errors"

var (
	// ErrNoActivitiesFile indicates the Activities.csv export is missing.
	ErrNoActivitiesFile = errors.New("activities file not found")
	// ErrNoActivities indicates an export with no activity rows.
	ErrNoActivities = errors.New("no activities")
	// ErrMalformedCSV indicates CSV data that cannot be parsed at all.
	ErrMalformedCSV = errors.New("malformed csv")
	// ErrNoSplits indicates a splits file with no rows.
	ErrNoSplits = errors.New("no splits")
)
