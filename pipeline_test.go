package mimica

import (
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLocator struct {
	boxes []BoundingBox
	err   error
	calls int
}

func (f *fakeLocator) Detect(gray *image.Gray) ([]BoundingBox, error) {
	f.calls++
	return f.boxes, f.err
}

func newTestPipeline(l FaceLocator) *Pipeline {
	p := NewPipeline(l, NewAnalyzer(DefaultThresholds()))
	p.Options = FrameOptions{}
	return p
}

func TestPipeline_Prepare(t *testing.T) {
	p := NewPipeline(&fakeLocator{}, nil)
	assert.Equal(t, DefaultFrameOptions(), p.Options)

	src := image.NewNRGBA(image.Rect(0, 0, 1280, 720))
	src.Set(0, 0, color.NRGBA{R: 255, A: 255})

	out := p.Prepare(src)
	assert.Equal(t, image.Rect(0, 0, 640, 360), out.Bounds())
	r, _, _, _ := out.At(639, 0).RGBA()
	assert.Greater(t, r, uint32(0))

	p.Options = FrameOptions{Mirror: true}
	out = p.Prepare(src)
	assert.Equal(t, src.Bounds(), out.Bounds())
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, color.NRGBAModel.Convert(out.At(1279, 0)))

	p.Options = FrameOptions{}
	assert.Same(t, src, p.Prepare(src))
}

func TestPipeline_Expression(t *testing.T) {
	l := &fakeLocator{boxes: []BoundingBox{
		{X: 0, Y: 0, W: 20, H: 20},
		{X: 50, Y: 50, W: 100, H: 100},
	}}
	p := newTestPipeline(l)

	t0 := time.Unix(0, 0)
	s := NewSmoother(DefaultSmoothInterval, t0)
	f, err := p.Expression(filledGray(200, 200, 128), s, t0.Add(time.Second))
	require.NoError(t, err)

	assert.True(t, f.Found)
	assert.Equal(t, 1, l.calls)
	assert.Equal(t, BoundingBox{X: 50, Y: 50, W: 100, H: 100}, f.Face)
	assert.Equal(t, image.Rect(75, 115, 125, 140), f.Mouth)
	assert.Equal(t, image.Rect(65, 70, 135, 100), f.Eyes)
	assert.Equal(t, Result{Label: Neutral, Confidence: 0.5}, f.Result)
	assert.Equal(t, State{Label: Neutral, Confidence: 0.5, Changed: t0.Add(time.Second)}, f.State)
	assert.Equal(t, f.State, s.State())
}

func TestPipeline_ExpressionSmallFace(t *testing.T) {
	p := newTestPipeline(&fakeLocator{boxes: []BoundingBox{{X: 10, Y: 10, W: 30, H: 30}}})

	now := time.Unix(10, 0)
	f, err := p.Expression(filledGray(100, 100, 128), nil, now)
	require.NoError(t, err)
	assert.True(t, f.Found)
	assert.Equal(t, FaceTooSmall, f.Result.Fallback)
	assert.Equal(t, State{Label: Neutral, Confidence: 0.5, Changed: now}, f.State)
}

func TestPipeline_ExpressionNoFace(t *testing.T) {
	p := newTestPipeline(&fakeLocator{})

	t0 := time.Unix(0, 0)
	s := NewSmoother(DefaultSmoothInterval, t0)
	t1 := t0.Add(time.Second)
	s.Observe(Result{Label: Feliz, Confidence: 0.4}, t1)

	f, err := p.Expression(filledGray(100, 100, 128), s, t1.Add(time.Second))
	require.NoError(t, err)
	assert.False(t, f.Found)
	assert.Equal(t, State{Label: Neutral, Changed: t1}, f.State)
}

func TestPipeline_LocatorErrors(t *testing.T) {
	errDetect := errors.New("detector failure")
	p := newTestPipeline(&fakeLocator{err: errDetect})

	_, err := p.Expression(filledGray(10, 10, 0), nil, time.Now())
	assert.ErrorIs(t, err, errDetect)

	_, err = p.Pupil(filledGray(10, 10, 0))
	assert.ErrorIs(t, err, errDetect)

	p = newTestPipeline(nil)
	_, err = p.Expression(filledGray(10, 10, 0), nil, time.Now())
	assert.ErrorIs(t, err, ErrNoCascade)
}

func TestPipeline_Pupil(t *testing.T) {
	frame := filledGray(100, 100, 200)
	fillRect(frame, image.Rect(40, 32, 60, 48), 10)
	frame.Pix[frame.PixOffset(50, 40)] = 0

	p := newTestPipeline(&fakeLocator{boxes: []BoundingBox{{X: 0, Y: 0, W: 100, H: 100}}})
	f, err := p.Pupil(frame)
	require.NoError(t, err)

	assert.True(t, f.Found)
	assert.Equal(t, image.Rect(20, 30, 80, 50), f.Region)
	assert.Equal(t, image.Pt(30, 10), f.Reading.Seed)
	assert.Equal(t, image.Pt(50, 40), f.Seed)
	// up 9/10, down 8/10, left 11/30, right 10/30
	assert.InDelta(t, (90+80+110.0/3+100.0/3)/4, f.Reading.Percent, 1e-9)
	assert.Equal(t, PupilPartial, f.Reading.State)
	assert.Zero(t, f.MouthEdges)
}

func TestPipeline_PupilNoFace(t *testing.T) {
	p := newTestPipeline(&fakeLocator{})
	f, err := p.Pupil(filledGray(100, 100, 200))
	require.NoError(t, err)
	assert.False(t, f.Found)
	assert.Zero(t, f.Reading.Percent)
	assert.Equal(t, PupilClosed, f.Reading.State)
}
