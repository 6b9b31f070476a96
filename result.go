package mimica

import "fmt"

// FallbackReason tells why an analysis returned a default result instead of a classified one.
type FallbackReason int

const (
	NoFallback FallbackReason = iota
	FaceTooSmall
	InvalidRegion
	MeasurementFailed
)

func (r FallbackReason) String() string {
	switch r {
	case NoFallback:
		return "none"
	case FaceTooSmall:
		return "face too small"
	case InvalidRegion:
		return "invalid region"
	case MeasurementFailed:
		return "measurement failed"
	}
	return fmt.Sprintf("FallbackReason(%d)", int(r))
}

// Result is the outcome of an expression analysis.
type Result struct {
	Label      Label
	Confidence float64
	Fallback   FallbackReason
}

// IsFallback reports whether the result is a default value rather than a classification.
func (r Result) IsFallback() bool {
	return r.Fallback != NoFallback
}

func fallback(reason FallbackReason, conf float64) Result {
	return Result{Label: Neutral, Confidence: conf, Fallback: reason}
}
