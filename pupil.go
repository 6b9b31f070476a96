package mimica

import (
	"image"

	"github.com/esimov/mimica/utils"
)

// PupilState is the coarse openness label derived from the pupil percentage.
type PupilState string

// The pupil openness levels, from closed to fully visible.
const (
	PupilClosed     PupilState = "CERRADO"
	PupilSemiClosed PupilState = "SEMI-CERRADO"
	PupilPartial    PupilState = "PARCIAL"
	PupilOpen       PupilState = "ABIERTO"
	PupilFull       PupilState = "COMPLETO"
)

// PupilThresholds contains the constants of the pupil visibility meter.
type PupilThresholds struct {
	MinWidth      int
	MinHeight     int
	EdgeContrast  int     // brightness step, above the darkest value, marking the pupil border
	BorderMargin  int     // seed closer than this to the region border is penalized
	BorderPenalty float64 // multiplier applied to penalized readings
}

// DefaultPupilThresholds returns the constants used by the reference meter.
func DefaultPupilThresholds() PupilThresholds {
	return PupilThresholds{
		MinWidth:      10,
		MinHeight:     5,
		EdgeContrast:  40,
		BorderMargin:  3,
		BorderPenalty: 0.5,
	}
}

// PupilReading is the outcome of a pupil measurement.
type PupilReading struct {
	Percent float64
	State   PupilState
	// Seed is the darkest pixel of the region, the presumed pupil center.
	Seed  image.Point
	Found bool
	// Raw is the averaged ray percentage before the border penalty.
	Raw       float64
	Penalized bool
}

type direction struct {
	dx, dy int
}

// up, down, left, right
var rays = []direction{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

// MeasurePupil estimates how much of the pupil is visible in the eye region, in the [0, 100] range.
// Regions that are empty or smaller than the configured minimum are reported as closed.
func MeasurePupil(eye *image.Gray, t PupilThresholds) PupilReading {
	closed := PupilReading{State: PupilStateFor(0)}
	if eye == nil {
		return closed
	}
	b := eye.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 || h < t.MinHeight || w < t.MinWidth {
		return closed
	}

	pixel := func(x, y int) int {
		return int(eye.Pix[eye.PixOffset(b.Min.X+x, b.Min.Y+y)])
	}

	seed, minVal := darkestPixel(eye)
	reading := PupilReading{Seed: seed, Found: true}

	var (
		total float64
		count int
	)
	for _, d := range rays {
		x, y := seed.X, seed.Y
		dist := 0
		border := false
		for x >= 0 && x < w && y >= 0 && y < h {
			if pixel(x, y) > minVal+t.EdgeContrast {
				border = true
				break
			}
			x += d.dx
			y += d.dy
			dist++
		}
		if !border {
			continue
		}

		maxDist := w / 2
		if d.dy != 0 {
			maxDist = h / 2
		}
		if maxDist > 0 {
			total += utils.Min(100, float64(dist)/float64(maxDist)*100)
			count++
		}
	}

	if count == 0 {
		reading.State = PupilStateFor(0)
		return reading
	}

	percent := total / float64(count)
	reading.Raw = percent

	m := t.BorderMargin
	if seed.Y < m || seed.Y > h-m || seed.X < m || seed.X > w-m {
		percent *= t.BorderPenalty
		reading.Penalized = true
	}

	reading.Percent = utils.Clamp(percent, 0, 100)
	reading.State = PupilStateFor(reading.Percent)
	return reading
}

// darkestPixel returns the location, relative to the image origin, and the value of the
// first pixel with the minimum intensity in row-major order.
func darkestPixel(img *image.Gray) (image.Point, int) {
	b := img.Bounds()
	minVal := 256
	var loc image.Point
	for y := 0; y < b.Dy(); y++ {
		i := img.PixOffset(b.Min.X, b.Min.Y+y)
		for x, px := range img.Pix[i : i+b.Dx()] {
			if int(px) < minVal {
				minVal = int(px)
				loc = image.Pt(x, y)
			}
		}
	}
	return loc, minVal
}

// PupilStateFor maps a visibility percentage to its openness label.
func PupilStateFor(percent float64) PupilState {
	switch {
	case percent < 10:
		return PupilClosed
	case percent < 40:
		return PupilSemiClosed
	case percent < 70:
		return PupilPartial
	case percent < 90:
		return PupilOpen
	default:
		return PupilFull
	}
}
