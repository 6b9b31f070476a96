package mimica

import (
	"errors"
	"image"
	"io"
	"log/slog"
)

// Fallback confidences reported when the face can't be classified.
const (
	smallFaceConf   = 0.5
	badRegionConf   = 0.3
	measureFailConf = 0.1
)

// discardLogger is used when the analyzer has no logger.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Analyzer classifies the expression of a single cropped face.
type Analyzer struct {
	Thresholds Thresholds
	Debug      bool
	Logger     *slog.Logger
}

// NewAnalyzer creates an analyzer with the provided thresholds.
func NewAnalyzer(t Thresholds) *Analyzer {
	return &Analyzer{Thresholds: t}
}

// Analyze measures the face regions and classifies the expression.
// It never fails: unusable faces yield a neutral result flagged with the fallback reason.
func (a *Analyzer) Analyze(face *image.Gray) Result {
	if face == nil {
		return fallback(MeasurementFailed, measureFailConf)
	}
	b := face.Bounds()
	if b.Dx() < a.Thresholds.MinFaceSize || b.Dy() < a.Thresholds.MinFaceSize {
		return fallback(FaceTooSmall, smallFaceConf)
	}
	if !MouthRegion.Valid(b.Dx(), b.Dy()) {
		return fallback(InvalidRegion, badRegionConf)
	}

	features, err := Measure(face, a.Thresholds)
	if err != nil {
		if a.Debug {
			a.logger().Debug("expression analysis failed", "error", err, "width", b.Dx(), "height", b.Dy())
		}
		if errors.Is(err, ErrEmptyRegion) {
			return fallback(InvalidRegion, badRegionConf)
		}
		return fallback(MeasurementFailed, measureFailConf)
	}

	res := Classify(features, a.Thresholds)
	if a.Debug {
		a.logger().Debug("expression classified",
			"label", res.Label,
			"confidence", res.Confidence,
			"mouth_brightness", features.MouthBrightness,
			"mouth_edges", features.MouthEdgeIntensity,
			"eyes_brightness", features.EyesBrightness,
		)
	}
	return res
}

func (a *Analyzer) logger() *slog.Logger {
	if a.Logger == nil {
		return discardLogger
	}
	return a.Logger
}
