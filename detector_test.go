package mimica

import (
	"encoding/binary"
	"image"
	"math"
	"testing"

	pigo "github.com/esimov/pigo/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syntheticCascade builds a single tree, zero depth cascade: every window
// scores pred, and it is accepted if pred is above the threshold.
func syntheticCascade(pred, threshold float32) []byte {
	buf := make([]byte, 8, 24)
	buf = binary.LittleEndian.AppendUint32(buf, 0) // tree depth
	buf = binary.LittleEndian.AppendUint32(buf, 1) // number of trees
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(pred))
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(threshold))
	return buf
}

func testDetectorOptions() DetectorOptions {
	opts := DefaultDetectorOptions()
	opts.MinSize = 20
	opts.MaxSize = 40
	opts.ShiftFactor = 0.5
	opts.ScaleFactor = 1.5
	return opts
}

func TestPigoLocator_Detect(t *testing.T) {
	l, err := NewPigoLocator(syntheticCascade(10, 0), testDetectorOptions())
	require.NoError(t, err)

	img := filledGray(80, 60, 90)
	boxes, err := l.Detect(img)
	require.NoError(t, err)
	require.NotEmpty(t, boxes)

	for _, b := range boxes {
		assert.True(t, b.Rect().In(img.Bounds()), b)
		assert.Positive(t, b.Area())
	}
}

func TestPigoLocator_DetectSubImage(t *testing.T) {
	l, err := NewPigoLocator(syntheticCascade(10, 0), testDetectorOptions())
	require.NoError(t, err)

	src := filledGray(120, 120, 90)
	sub := src.SubImage(image.Rect(30, 30, 90, 90)).(*image.Gray)
	boxes, err := l.Detect(sub)
	require.NoError(t, err)
	require.NotEmpty(t, boxes)
	for _, b := range boxes {
		assert.True(t, b.Rect().In(image.Rect(0, 0, 60, 60)), b)
	}
}

func TestPigoLocator_Rejects(t *testing.T) {
	l, err := NewPigoLocator(syntheticCascade(-1, 0), testDetectorOptions())
	require.NoError(t, err)
	boxes, err := l.Detect(filledGray(80, 60, 90))
	require.NoError(t, err)
	assert.Empty(t, boxes)

	opts := testDetectorOptions()
	opts.QualityThreshold = 1e9
	l, err = NewPigoLocator(syntheticCascade(10, 0), opts)
	require.NoError(t, err)
	boxes, err = l.Detect(filledGray(80, 60, 90))
	require.NoError(t, err)
	assert.Empty(t, boxes)

	boxes, err = l.Detect(image.NewGray(image.Rectangle{}))
	assert.NoError(t, err)
	assert.Empty(t, boxes)
}

func TestPigoLocator_InvalidCascade(t *testing.T) {
	_, err := NewPigoLocator(nil, DefaultDetectorOptions())
	assert.ErrorIs(t, err, ErrNoCascade)

	_, err = NewPigoLocator([]byte{1, 2, 3}, DefaultDetectorOptions())
	assert.Error(t, err)

	_, err = LoadPigoLocator("testdata/missing-cascade", DefaultDetectorOptions())
	assert.Error(t, err)

	var l *PigoLocator
	_, err = l.Detect(filledGray(10, 10, 0))
	assert.ErrorIs(t, err, ErrNoCascade)
}

func TestDetectionToBox(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 100)

	box, ok := detectionToBox(pigo.Detection{Row: 50, Col: 40, Scale: 20}, bounds)
	assert.True(t, ok)
	assert.Equal(t, BoundingBox{X: 30, Y: 40, W: 20, H: 20}, box)

	box, ok = detectionToBox(pigo.Detection{Row: 10, Col: 10, Scale: 40}, bounds)
	assert.True(t, ok)
	assert.Equal(t, BoundingBox{X: 0, Y: 0, W: 30, H: 30}, box)

	_, ok = detectionToBox(pigo.Detection{Row: 300, Col: 300, Scale: 20}, bounds)
	assert.False(t, ok)
}

func TestLargestFace(t *testing.T) {
	_, ok := LargestFace(nil)
	assert.False(t, ok)

	boxes := []BoundingBox{
		{X: 0, Y: 0, W: 10, H: 10},
		{X: 5, Y: 5, W: 20, H: 20},
		{X: 50, Y: 50, W: 40, H: 10},
	}
	face, ok := LargestFace(boxes)
	assert.True(t, ok)
	assert.Equal(t, boxes[1], face)
}
