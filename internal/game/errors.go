package game

import (
	"errors"
	"fmt"
)

// ErrChartFormat matches every ChartFormatError with errors.Is.
var ErrChartFormat = errors.New("chart format")

// ChartFormatError reports chart data that cannot be played.
// A chart that fails to load never replaces the one already playing.
type ChartFormatError struct {
	Reason string
	Err    error
}

func (e *ChartFormatError) Error() string {
	if nil != e.Err {
		return fmt.Sprintf("chart format: %s: %v", e.Reason, e.Err)
	}
	return "chart format: " + e.Reason
}

func (e *ChartFormatError) Unwrap() error {
	return e.Err
}

func (e *ChartFormatError) Is(target error) bool {
	return target == ErrChartFormat
}

func formatError(format string, args ...interface{}) error {
	return &ChartFormatError{Reason: fmt.Sprintf(format, args...)}
}
