package mimica

import (
	"github.com/esimov/mimica/utils"
)

// Label is the coarse facial expression name.
type Label string

// The supported expressions.
const (
	Feliz    Label = "feliz"
	Triste   Label = "triste"
	Sorpresa Label = "sorpresa"
	Neutral  Label = "neutral"
	Enojado  Label = "enojado"
)

// Labels returns all the supported expressions.
func Labels() []Label {
	return []Label{Feliz, Triste, Sorpresa, Neutral, Enojado}
}

// Valid reports whether l is one of the supported expressions.
func (l Label) Valid() bool {
	return utils.Contains(Labels(), l)
}

// Thresholds contains the empirical constants of the expression heuristic.
type Thresholds struct {
	// MinFaceSize is the minimum face width and height analyzed.
	MinFaceSize int

	CannyLow  float64
	CannyHigh float64
	// BlurRadius smooths the face before measuring, 0 disables it.
	BlurRadius int

	SurpriseEdge    float64 // mouth edge intensity above which the face is surprised
	SurpriseDivisor float64
	SurpriseMaxConf float64

	HappyEdge    float64
	HappyEyes    float64
	HappyDivisor float64
	HappyMaxConf float64

	AngryEyes float64
	AngryEdge float64
	AngryConf float64

	SadMouth float64
	SadEyes  float64
	SadConf  float64

	NeutralConf float64
}

// DefaultThresholds returns the constants used by the reference heuristic.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinFaceSize: 50,

		CannyLow:  50,
		CannyHigh: 150,

		SurpriseEdge:    40,
		SurpriseDivisor: 100,
		SurpriseMaxConf: 0.9,

		HappyEdge:    20,
		HappyEyes:    80,
		HappyDivisor: 80,
		HappyMaxConf: 0.8,

		AngryEyes: 70,
		AngryEdge: 15,
		AngryConf: 0.7,

		SadMouth: 80,
		SadEyes:  80,
		SadConf:  0.6,

		NeutralConf: 0.5,
	}
}

// Classify maps the measured features to an expression. The rules are evaluated
// in order and the first match wins.
func Classify(f FeatureSet, t Thresholds) Result {
	edge, eyes, mouth := f.MouthEdgeIntensity, f.EyesBrightness, f.MouthBrightness

	var (
		label Label
		conf  float64
	)
	switch {
	case edge > t.SurpriseEdge:
		label, conf = Sorpresa, utils.Min(t.SurpriseMaxConf, edge/t.SurpriseDivisor)
	case edge > t.HappyEdge && eyes > t.HappyEyes:
		label, conf = Feliz, utils.Min(t.HappyMaxConf, edge/t.HappyDivisor)
	case eyes < t.AngryEyes && edge < t.AngryEdge:
		label, conf = Enojado, t.AngryConf
	case mouth < t.SadMouth && eyes < t.SadEyes:
		label, conf = Triste, t.SadConf
	default:
		label, conf = Neutral, t.NeutralConf
	}
	return Result{Label: label, Confidence: utils.Clamp(conf, 0, 1)}
}
