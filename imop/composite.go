package imop

import (
	"image"
	"image/color"

	"github.com/esimov/mimica/utils"
)

// rgba is a color with normalized, non premultiplied channels.
type rgba struct {
	r, g, b, a float64
}

func normalize(c color.NRGBA) rgba {
	return rgba{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, float64(c.A) / 255}
}

func (c rgba) nrgba() color.NRGBA {
	if c.a <= 0 {
		return color.NRGBA{}
	}
	ch := func(v float64) uint8 {
		return uint8(utils.Clamp(v, 0, 1)*255 + 0.5)
	}
	return color.NRGBA{R: ch(c.r), G: ch(c.g), B: ch(c.b), A: ch(c.a)}
}

// Over composites the source color over the backdrop (Porter-Duff source-over),
// after mixing their channels with the blend mode.
func Over(mode BlendMode, src, dst color.NRGBA) color.NRGBA {
	s, b := normalize(src), normalize(dst)

	// Where both are present the source is replaced by the blended color.
	mix := func(cs, cb float64) float64 {
		return (1-b.a)*cs + b.a*blend(mode, cb, cs)
	}
	s = rgba{mix(s.r, b.r), mix(s.g, b.g), mix(s.b, b.b), s.a}

	// The backdrop shows through the transparent part of the source.
	fb := 1 - s.a
	ao := s.a + b.a*fb
	if ao <= 0 {
		return color.NRGBA{}
	}
	co := func(cs, cb float64) float64 {
		return (s.a*cs + b.a*fb*cb) / ao
	}
	return rgba{co(s.r, b.r), co(s.g, b.g), co(s.b, b.b), ao}.nrgba()
}

// Tint blends the color over the rectangle of dst, using the color alpha as opacity.
func Tint(dst *image.NRGBA, r image.Rectangle, c color.NRGBA, mode BlendMode) {
	r = r.Intersect(dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			dst.SetNRGBA(x, y, Over(mode, c, dst.NRGBAAt(x, y)))
		}
	}
}
