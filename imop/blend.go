// Package imop implements the source-over composition, with an optional blend mode,
// used to tint the analyzed face regions on the debug images.
// The image/draw core package only implements plain source-over, without any blend mode.
package imop

import (
	"github.com/esimov/mimica/utils"
)

// BlendMode defines how the source color is mixed with its backdrop.
type BlendMode string

const (
	Normal BlendMode = "normal"
	Screen BlendMode = "screen"
)

// BlendModes returns the supported blend modes.
func BlendModes() []BlendMode {
	return []BlendMode{Normal, Screen}
}

// Valid reports whether the blend mode is supported.
func (m BlendMode) Valid() bool {
	return utils.Contains(BlendModes(), m)
}

// blend mixes a backdrop channel cb with a source channel cs, both in the [0, 1] range.
// Unsupported modes behave like Normal.
func blend(mode BlendMode, cb, cs float64) float64 {
	if mode == Screen {
		return 1 - (1-cb)*(1-cs)
	}
	return cs
}
