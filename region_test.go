package mimica

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegion_Bounds(t *testing.T) {
	assert.Equal(t, image.Rect(25, 65, 75, 90), MouthRegion.Bounds(100, 100))
	assert.Equal(t, image.Rect(15, 20, 85, 50), EyesRegion.Bounds(100, 100))
	assert.Equal(t, image.Rect(20, 30, 80, 50), PupilRegion.Bounds(100, 100))

	// 0.65*51 = 33.15, 0.90*51 = 45.9, 0.25*50 = 12.5, 0.75*50 = 37.5
	assert.Equal(t, image.Rect(13, 33, 38, 46), MouthRegion.Bounds(50, 51))
}

func TestRegion_Valid(t *testing.T) {
	assert.True(t, MouthRegion.Valid(50, 50))
	assert.False(t, MouthRegion.Valid(1, 1))
	assert.False(t, Region{Y1: 0.5, Y2: 0.5, X1: 0, X2: 1}.Valid(100, 100))
}

func TestRegion_Extract(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			img.Pix[y*100+x] = uint8(x + y)
		}
	}

	mouth, err := Extract(img, MouthRegion)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 50, 25), mouth.Bounds())
	assert.Equal(t, uint8(25+65), mouth.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(74+89), mouth.GrayAt(49, 24).Y)

	_, err = Extract(image.NewGray(image.Rect(0, 0, 1, 1)), MouthRegion)
	assert.ErrorIs(t, err, ErrEmptyRegion)
}

func TestRegion_ExtractFromSubImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 200, 200))
	img.Pix[img.PixOffset(125, 165)] = 255

	face := img.SubImage(image.Rect(100, 100, 200, 200)).(*image.Gray)
	mouth, err := Extract(face, MouthRegion)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), mouth.GrayAt(0, 0).Y)
}

func TestRegion_CropFace(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 100, 80))
	img.Pix[img.PixOffset(90, 70)] = 200

	face, err := CropFace(img, BoundingBox{X: 80, Y: 60, W: 40, H: 40})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 20), face.Bounds())
	assert.Equal(t, uint8(200), face.GrayAt(10, 10).Y)

	_, err = CropFace(img, BoundingBox{X: 200, Y: 200, W: 10, H: 10})
	assert.ErrorIs(t, err, ErrEmptyRegion)
}

func TestBoundingBox(t *testing.T) {
	box := BoundingBox{X: 10, Y: 20, W: 30, H: 40}
	assert.Equal(t, 1200, box.Area())
	assert.Equal(t, image.Rect(10, 20, 40, 60), box.Rect())
}
