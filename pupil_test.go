package mimica

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func filledGray(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func fillRect(img *image.Gray, r image.Rectangle, v uint8) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
}

func TestMeasurePupil_FullyVisible(t *testing.T) {
	eye := filledGray(21, 21, 200)
	fillRect(eye, image.Rect(1, 1, 20, 20), 10)
	eye.Pix[eye.PixOffset(10, 10)] = 0

	r := MeasurePupil(eye, DefaultPupilThresholds())
	assert.True(t, r.Found)
	assert.Equal(t, image.Pt(10, 10), r.Seed)
	assert.InDelta(t, 100, r.Percent, 1e-9)
	assert.False(t, r.Penalized)
	assert.Equal(t, PupilFull, r.State)
}

func TestMeasurePupil_BorderPenalty(t *testing.T) {
	eye := filledGray(40, 20, 200)
	fillRect(eye, image.Rect(1, 5, 11, 15), 30)
	eye.Pix[eye.PixOffset(1, 10)] = 0

	r := MeasurePupil(eye, DefaultPupilThresholds())
	assert.Equal(t, image.Pt(1, 10), r.Seed)
	// up 6/10, down 5/10, left 1/20, right 10/20
	assert.InDelta(t, 41.25, r.Raw, 1e-9)
	assert.True(t, r.Penalized)
	assert.InDelta(t, 20.625, r.Percent, 1e-9)
	assert.Equal(t, PupilSemiClosed, r.State)
}

func TestMeasurePupil_RaysLeavingTheRegion(t *testing.T) {
	eye := filledGray(20, 10, 30)
	eye.Pix[eye.PixOffset(10, 5)] = 0

	r := MeasurePupil(eye, DefaultPupilThresholds())
	assert.True(t, r.Found)
	assert.Zero(t, r.Percent)
	assert.Equal(t, PupilClosed, r.State)
}

func TestMeasurePupil_UniformRegion(t *testing.T) {
	for _, v := range []uint8{0, 90, 255} {
		r := MeasurePupil(filledGray(30, 10, v), DefaultPupilThresholds())
		assert.Zero(t, r.Percent, v)
		assert.Equal(t, PupilClosed, r.State, v)
	}
}

func TestMeasurePupil_FirstDarkestPixelWins(t *testing.T) {
	eye := filledGray(20, 10, 100)
	eye.Pix[eye.PixOffset(15, 2)] = 5
	eye.Pix[eye.PixOffset(4, 6)] = 5

	r := MeasurePupil(eye, DefaultPupilThresholds())
	assert.Equal(t, image.Pt(15, 2), r.Seed)
}

func TestMeasurePupil_TooSmall(t *testing.T) {
	for _, size := range []image.Point{{9, 20}, {20, 4}, {0, 0}} {
		r := MeasurePupil(image.NewGray(image.Rect(0, 0, size.X, size.Y)), DefaultPupilThresholds())
		assert.False(t, r.Found, size)
		assert.Zero(t, r.Percent, size)
		assert.Equal(t, PupilClosed, r.State, size)
	}
	assert.Zero(t, MeasurePupil(nil, DefaultPupilThresholds()).Percent)
}

func TestPupilStateFor(t *testing.T) {
	testCases := []struct {
		percent float64
		state   PupilState
	}{
		{0, PupilClosed},
		{9.9, PupilClosed},
		{10, PupilSemiClosed},
		{39.9, PupilSemiClosed},
		{40, PupilPartial},
		{69.9, PupilPartial},
		{70, PupilOpen},
		{89.9, PupilOpen},
		{90, PupilFull},
		{100, PupilFull},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.state, PupilStateFor(tc.percent), tc.percent)
	}
}
