package mimica

import (
	"errors"
	"fmt"
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"
)

// ErrNoCascade is returned when the face locator is used without a cascade classifier.
var ErrNoCascade = errors.New("face cascade classifier not loaded")

// FaceLocator finds the faces present in a grayscale image.
type FaceLocator interface {
	Detect(gray *image.Gray) ([]BoundingBox, error)
}

// DetectorOptions holds the pigo cascade parameters.
type DetectorOptions struct {
	MinSize          int
	MaxSize          int // 0 means the largest image dimension
	ShiftFactor      float64
	ScaleFactor      float64
	IoUThreshold     float64
	QualityThreshold float32
	Angle            float64 // 0.0 for upright faces, up to 1.0 (2π) for rotated ones
}

// DefaultDetectorOptions returns parameters equivalent to a frontal face detection
// with 100px minimum face size.
func DefaultDetectorOptions() DetectorOptions {
	return DetectorOptions{
		MinSize:          100,
		ShiftFactor:      0.1,
		ScaleFactor:      1.1,
		IoUThreshold:     0.2,
		QualityThreshold: 5.0,
	}
}

// PigoLocator is a FaceLocator backed by the pigo pixel intensity comparison cascade.
// Once created it is read-only and can be shared between goroutines.
type PigoLocator struct {
	classifier *pigo.Pigo
	opts       DetectorOptions
}

// NewPigoLocator unpacks the cascade binary and returns a new locator.
func NewPigoLocator(cascade []byte, opts DetectorOptions) (l *PigoLocator, err error) {
	if len(cascade) == 0 {
		return nil, ErrNoCascade
	}
	// Unpack indexes the packet without bound checks.
	defer func() {
		if r := recover(); r != nil {
			l, err = nil, fmt.Errorf("error unpacking the cascade file: %v", r)
		}
	}()

	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("error unpacking the cascade file: %w", err)
	}
	return &PigoLocator{classifier: classifier, opts: opts}, nil
}

// LoadPigoLocator reads the cascade file found at path and returns a new locator.
func LoadPigoLocator(path string, opts DetectorOptions) (*PigoLocator, error) {
	cascade, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read the cascade file: %w", err)
	}
	return NewPigoLocator(cascade, opts)
}

// Detect runs the cascade over the image and returns the clustered face boxes
// whose detection score exceeds the quality threshold.
func (l *PigoLocator) Detect(gray *image.Gray) ([]BoundingBox, error) {
	if l == nil || l.classifier == nil {
		return nil, ErrNoCascade
	}
	b := gray.Bounds()
	dx, dy := b.Dx(), b.Dy()
	if dx == 0 || dy == 0 {
		return nil, nil
	}

	pixels := gray.Pix
	if gray.Stride != dx || b.Min != (image.Point{}) {
		pixels = make([]uint8, 0, dx*dy)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			i := gray.PixOffset(b.Min.X, y)
			pixels = append(pixels, gray.Pix[i:i+dx]...)
		}
	}

	maxSize := l.opts.MaxSize
	if maxSize <= 0 {
		maxSize = max(dx, dy)
	}
	cParams := pigo.CascadeParams{
		MinSize:     l.opts.MinSize,
		MaxSize:     maxSize,
		ShiftFactor: l.opts.ShiftFactor,
		ScaleFactor: l.opts.ScaleFactor,

		ImageParams: pigo.ImageParams{
			Pixels: pixels,
			Rows:   dy,
			Cols:   dx,
			Dim:    dx,
		},
	}

	// Run the classifier over the obtained leaf nodes and return the detection results.
	// The result contains quadruplets representing the row, column, scale and detection score.
	dets := l.classifier.RunCascade(cParams, l.opts.Angle)

	// Calculate the intersection over union (IoU) of two clusters.
	dets = l.classifier.ClusterDetections(dets, l.opts.IoUThreshold)

	bounds := image.Rect(0, 0, dx, dy)
	boxes := make([]BoundingBox, 0, len(dets))
	for _, d := range dets {
		if d.Q < l.opts.QualityThreshold {
			continue
		}
		if box, ok := detectionToBox(d, bounds); ok {
			boxes = append(boxes, box)
		}
	}
	return boxes, nil
}

// detectionToBox converts the pigo center/scale pair into a box clipped to the image bounds.
func detectionToBox(d pigo.Detection, bounds image.Rectangle) (BoundingBox, bool) {
	rect := image.Rect(
		d.Col-d.Scale/2,
		d.Row-d.Scale/2,
		d.Col+d.Scale/2,
		d.Row+d.Scale/2,
	).Intersect(bounds)
	if rect.Empty() {
		return BoundingBox{}, false
	}
	return BoundingBox{X: rect.Min.X, Y: rect.Min.Y, W: rect.Dx(), H: rect.Dy()}, true
}

// LargestFace returns the box with the greatest area. On equal areas the first one wins.
func LargestFace(boxes []BoundingBox) (BoundingBox, bool) {
	if len(boxes) == 0 {
		return BoundingBox{}, false
	}
	best := boxes[0]
	for _, b := range boxes[1:] {
		if b.Area() > best.Area() {
			best = b
		}
	}
	return best, true
}
