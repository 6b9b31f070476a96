package mimica

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnnotate(t *testing.T) {
	frame := filledGray(200, 200, 0)
	f := ExpressionFrame{
		Frame: frame,
		Found: true,
		Face:  BoundingBox{X: 50, Y: 50, W: 100, H: 100},
		State: State{Label: Feliz, Confidence: 0.3},
		Mouth: image.Rect(75, 115, 125, 140),
		Eyes:  image.Rect(65, 70, 135, 100),
	}

	out := Annotate(f)
	assert.Equal(t, frame.Bounds(), out.Bounds())
	assert.Equal(t, LabelColors[Feliz], out.NRGBAAt(50, 50))
	assert.Equal(t, LabelColors[Feliz], out.NRGBAAt(149, 149))
	assert.Equal(t, LabelColors[Feliz], out.NRGBAAt(52, 100))
	assert.Equal(t, color.NRGBA{A: 255}, out.NRGBAAt(53, 100))
	assert.Equal(t, mouthColor, out.NRGBAAt(100, 139))
	assert.Equal(t, eyesColor, out.NRGBAAt(65, 80))
	assert.Equal(t, color.NRGBA{A: 255}, out.NRGBAAt(100, 105))

	tinted := out.NRGBAAt(100, 125)
	assert.Zero(t, tinted.R)
	assert.InDelta(t, regionTint, int(tinted.B), 1)
	assert.Equal(t, uint8(255), tinted.A)

	// The source frame is left untouched.
	assert.Zero(t, frame.GrayAt(50, 50).Y)
}

func TestAnnotate_NoFace(t *testing.T) {
	frame := filledGray(20, 20, 80)
	out := Annotate(ExpressionFrame{Frame: frame})
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			assert.Equal(t, color.NRGBA{R: 80, G: 80, B: 80, A: 255}, out.NRGBAAt(x, y))
		}
	}
	assert.True(t, Annotate(ExpressionFrame{}).Bounds().Empty())
}

func TestAnnotatePupil(t *testing.T) {
	f := PupilFrame{
		Frame:   filledGray(100, 100, 0),
		Found:   true,
		Face:    BoundingBox{X: 0, Y: 0, W: 100, H: 100},
		Region:  image.Rect(20, 30, 80, 50),
		Reading: PupilReading{Found: true, State: PupilOpen, Percent: 75},
		Seed:    image.Pt(50, 40),
	}

	out := AnnotatePupil(f)
	assert.Equal(t, PupilColors[PupilOpen], out.NRGBAAt(0, 0))
	assert.Equal(t, eyesColor, out.NRGBAAt(20, 40))
	assert.Equal(t, seedColor, out.NRGBAAt(50+seedRadius, 40))
	assert.Equal(t, seedColor, out.NRGBAAt(50, 40-seedRadius))
	// The eye band is tinted with a translucent yellow.
	assert.Equal(t, color.NRGBA{R: regionTint, G: regionTint, A: 255}, out.NRGBAAt(50, 40))
}
