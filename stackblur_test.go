package mimica

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStackBlur_ZeroRadiusCopies(t *testing.T) {
	src := stepImage(8, 8, 4)
	dst := StackBlur(src, 0)

	assert.Equal(t, src.Pix, dst.Pix)
	dst.Pix[0] = 1
	assert.Zero(t, src.Pix[0])
}

func TestStackBlur_UniformImageIsUnchanged(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 12, 9))
	for i := range src.Pix {
		src.Pix[i] = 140
	}
	dst := StackBlur(src, 3)
	for _, px := range dst.Pix {
		assert.InDelta(t, 140, int(px), 1)
	}
}

func TestStackBlur_SoftensStep(t *testing.T) {
	src := stepImage(20, 5, 10)
	dst := StackBlur(src, 2)

	assert.Equal(t, src.Bounds(), dst.Bounds())
	left, right := dst.GrayAt(9, 2).Y, dst.GrayAt(10, 2).Y
	assert.Greater(t, left, uint8(0))
	assert.Less(t, right, uint8(255))
	assert.Less(t, left, right)
	assert.InDelta(t, 0, int(dst.GrayAt(0, 2).Y), 1)
	assert.InDelta(t, 255, int(dst.GrayAt(19, 2).Y), 1)
}

func TestStackBlur_RadiusIsCapped(t *testing.T) {
	src := stepImage(4, 4, 2)
	assert.NotPanics(t, func() {
		StackBlur(src, 1000)
	})
}
