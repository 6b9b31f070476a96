package mimica

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/esimov/mimica/imop"
)

// LabelColors maps every expression to the color of its face box.
var LabelColors = map[Label]color.NRGBA{
	Feliz:    {R: 255, G: 255, B: 0, A: 255},
	Triste:   {R: 0, G: 150, B: 255, A: 255},
	Sorpresa: {R: 255, G: 0, B: 255, A: 255},
	Neutral:  {R: 200, G: 200, B: 200, A: 255},
	Enojado:  {R: 255, G: 50, B: 50, A: 255},
}

// PupilColors maps every pupil state to its display color.
var PupilColors = map[PupilState]color.NRGBA{
	PupilClosed:     {R: 255, G: 0, B: 0, A: 255},
	PupilSemiClosed: {R: 255, G: 165, B: 0, A: 255},
	PupilPartial:    {R: 255, G: 255, B: 0, A: 255},
	PupilOpen:       {R: 0, G: 255, B: 0, A: 255},
	PupilFull:       {R: 0, G: 255, B: 255, A: 255},
}

var (
	unknownColor = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	mouthColor   = color.NRGBA{R: 0, G: 0, B: 255, A: 255}
	eyesColor    = color.NRGBA{R: 255, G: 255, B: 0, A: 255}
	seedColor    = color.NRGBA{R: 0, G: 255, B: 0, A: 255}
)

const (
	// regionTint is the opacity of the highlight laid over the analyzed regions.
	regionTint   = 64
	faceStroke   = 3
	regionStroke = 2
	seedRadius   = 15
)

// Annotate returns a copy of the analyzed frame with the face box drawn in the color
// of the committed expression, together with the mouth and eyes regions.
func Annotate(f ExpressionFrame) *image.NRGBA {
	dst := cloneNRGBA(f.Frame)
	if !f.Found {
		return dst
	}
	c, ok := LabelColors[f.State.Label]
	if !ok {
		c = unknownColor
	}
	offset := dst.Bounds().Min
	strokeRect(dst, f.Face.Rect().Add(offset), c, faceStroke)
	highlight(dst, f.Mouth.Add(offset), mouthColor)
	highlight(dst, f.Eyes.Add(offset), eyesColor)
	strokeRect(dst, f.Mouth.Add(offset), mouthColor, regionStroke)
	strokeRect(dst, f.Eyes.Add(offset), eyesColor, regionStroke)
	return dst
}

// AnnotatePupil returns a copy of the analyzed frame with the eye band and the
// detected pupil center marked on it.
func AnnotatePupil(f PupilFrame) *image.NRGBA {
	dst := cloneNRGBA(f.Frame)
	if !f.Found {
		return dst
	}
	offset := dst.Bounds().Min
	strokeRect(dst, f.Face.Rect().Add(offset), PupilColors[f.Reading.State], faceStroke)
	highlight(dst, f.Region.Add(offset), eyesColor)
	strokeRect(dst, f.Region.Add(offset), eyesColor, regionStroke)
	if f.Reading.Found {
		strokeCircle(dst, f.Seed.Add(offset), seedRadius, seedColor)
	}
	return dst
}

func cloneNRGBA(img image.Image) *image.NRGBA {
	if img == nil {
		return image.NewNRGBA(image.Rectangle{})
	}
	src := imgToNRGBA(img)
	dst := image.NewNRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

// highlight tints the region with a translucent version of the color.
func highlight(dst *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	c.A = regionTint
	imop.Tint(dst, r, c, imop.Screen)
}

// strokeRect draws the outline of the rectangle, growing inwards by thickness pixels.
func strokeRect(dst draw.Image, r image.Rectangle, c color.Color, thickness int) {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	src := image.NewUniform(c)
	t := min(thickness, r.Dx(), r.Dy())

	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t), src, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y), src, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y), src, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y), src, image.Point{}, draw.Src)
}

// strokeCircle draws a one pixel wide circle with the midpoint algorithm.
func strokeCircle(dst draw.Image, center image.Point, radius int, c color.Color) {
	x, y := radius, 0
	d := 1 - radius
	for x >= y {
		for _, p := range []image.Point{
			{x, y}, {y, x}, {-y, x}, {-x, y},
			{-x, -y}, {-y, -x}, {y, -x}, {x, -y},
		} {
			q := center.Add(p)
			if q.In(dst.Bounds()) {
				dst.Set(q.X, q.Y, c)
			}
		}
		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}
