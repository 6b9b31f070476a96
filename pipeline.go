package mimica

import (
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"
)

// FrameOptions defines how the incoming frames are prepared before the analysis.
type FrameOptions struct {
	// Mirror flips the frame horizontally, so that a webcam feed behaves like a mirror.
	Mirror bool
	// MaxWidth downscales wider frames, preserving the aspect ratio. 0 disables it.
	MaxWidth int
}

// DefaultFrameOptions returns the options used for webcam frames.
func DefaultFrameOptions() FrameOptions {
	return FrameOptions{Mirror: true, MaxWidth: 640}
}

// Pipeline chains the frame preparation, the face localization and the per face analysis.
// Its fields are not meant to be changed once the pipeline is in use; the per stream mutable
// state lives in the Smoother supplied by the caller.
type Pipeline struct {
	Locator         FaceLocator
	Analyzer        *Analyzer
	PupilThresholds PupilThresholds
	Options         FrameOptions
}

// NewPipeline creates a pipeline with the default frame and pupil options.
func NewPipeline(locator FaceLocator, analyzer *Analyzer) *Pipeline {
	return &Pipeline{
		Locator:         locator,
		Analyzer:        analyzer,
		PupilThresholds: DefaultPupilThresholds(),
		Options:         DefaultFrameOptions(),
	}
}

// ExpressionFrame is the outcome of the expression analysis of a single frame.
// All the rectangles are expressed in the coordinates of Frame.
type ExpressionFrame struct {
	// Frame is the mirrored and resized frame the analysis has been run on.
	Frame image.Image
	Found bool
	Face  BoundingBox
	// Result is the raw classification of the current frame.
	Result Result
	// State is the committed, smoothed expression.
	State State
	Mouth image.Rectangle
	Eyes  image.Rectangle
}

// PupilFrame is the outcome of the pupil measurement of a single frame.
type PupilFrame struct {
	Frame   image.Image
	Found   bool
	Face    BoundingBox
	Region  image.Rectangle
	Reading PupilReading
	// Seed is the darkest pixel of the eye region in frame coordinates.
	Seed image.Point
	// MouthEdges is the mouth edge intensity, reported as a reference value.
	MouthEdges float64
}

// Prepare mirrors and downscales the frame according to the pipeline options.
func (p *Pipeline) Prepare(frame image.Image) image.Image {
	img := frame
	if p.Options.Mirror {
		img = imaging.FlipH(img)
	}
	if p.Options.MaxWidth > 0 && img.Bounds().Dx() > p.Options.MaxWidth {
		img = imaging.Resize(img, p.Options.MaxWidth, 0, imaging.Linear)
	}
	return img
}

// locate prepares the frame, converts it to grayscale and returns the largest face in it.
func (p *Pipeline) locate(frame image.Image) (image.Image, *image.Gray, BoundingBox, bool, error) {
	if p.Locator == nil {
		return nil, nil, BoundingBox{}, false, ErrNoCascade
	}
	img := p.Prepare(frame)
	gray := Grayscale(img)

	boxes, err := p.Locator.Detect(gray)
	if err != nil {
		return img, gray, BoundingBox{}, false, fmt.Errorf("face detection failed: %w", err)
	}
	face, ok := LargestFace(boxes)
	return img, gray, face, ok, nil
}

// Expression classifies the expression of the largest face found in the frame and feeds
// the result into the smoother. When no face is found the smoother is reset to neutral.
// A nil smoother commits every result right away.
func (p *Pipeline) Expression(frame image.Image, s *Smoother, now time.Time) (ExpressionFrame, error) {
	img, gray, face, ok, err := p.locate(frame)
	out := ExpressionFrame{Frame: img}
	if err != nil {
		return out, err
	}
	if !ok {
		if s != nil {
			out.State = s.Lost()
		} else {
			out.State = State{Label: Neutral, Changed: now}
		}
		return out, nil
	}

	out.Found = true
	out.Face = face
	origin := image.Pt(face.X, face.Y)
	out.Mouth = MouthRegion.Bounds(face.W, face.H).Add(origin)
	out.Eyes = EyesRegion.Bounds(face.W, face.H).Add(origin)

	crop, err := CropFace(gray, face)
	if err != nil {
		crop = nil
	}
	out.Result = p.analyzer().Analyze(crop)

	if s != nil {
		out.State = s.Observe(out.Result, now)
	} else {
		out.State = State{Label: out.Result.Label, Confidence: out.Result.Confidence, Changed: now}
	}
	return out, nil
}

// Pupil measures the pupil visibility in the eye band of the largest face found in the frame.
// When no face is found the reading is zero.
func (p *Pipeline) Pupil(frame image.Image) (PupilFrame, error) {
	img, gray, face, ok, err := p.locate(frame)
	out := PupilFrame{Frame: img, Reading: PupilReading{State: PupilStateFor(0)}}
	if err != nil || !ok {
		return out, err
	}

	out.Found = true
	out.Face = face
	origin := image.Pt(face.X, face.Y)
	out.Region = PupilRegion.Bounds(face.W, face.H).Add(origin)

	crop, err := CropFace(gray, face)
	if err != nil {
		return out, nil
	}
	if eye, err := Extract(crop, PupilRegion); err == nil {
		out.Reading = MeasurePupil(eye, p.PupilThresholds)
		if out.Reading.Found {
			out.Seed = out.Reading.Seed.Add(out.Region.Min)
		}
	}

	thr := p.analyzer().Thresholds
	if mouth, err := Extract(crop, MouthRegion); err == nil {
		out.MouthEdges, _ = EdgeIntensity(mouth, thr.CannyLow, thr.CannyHigh)
	}
	return out, nil
}

func (p *Pipeline) analyzer() *Analyzer {
	if p.Analyzer == nil {
		return NewAnalyzer(DefaultThresholds())
	}
	return p.Analyzer
}
