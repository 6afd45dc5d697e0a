package scoring

import "errors"

// ErrUnknownMetric indicates a score request for a metric with no benchmark.
var ErrUnknownMetric = errors.New("unknown metric")
