package mimica

import (
	"errors"
	"fmt"
	"image"
)

// ErrEmptyImage is returned when a measurement is requested over an image without pixels.
var ErrEmptyImage = errors.New("empty image")

// FeatureSet holds the per frame statistics used by the expression classifier.
type FeatureSet struct {
	MouthBrightness    float64
	MouthEdgeIntensity float64
	EyesBrightness     float64
}

// Brightness returns the arithmetic mean of the pixel intensities.
func Brightness(img *image.Gray) (float64, error) {
	b := img.Bounds()
	if b.Empty() {
		return 0, ErrEmptyImage
	}

	var sum uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		for _, px := range img.Pix[i : i+b.Dx()] {
			sum += uint64(px)
		}
	}
	return float64(sum) / float64(b.Dx()*b.Dy()), nil
}

// EdgeIntensity returns the mean value of the Canny edge map computed with the low and high thresholds.
func EdgeIntensity(img *image.Gray, low, high float64) (float64, error) {
	if img.Bounds().Empty() {
		return 0, ErrEmptyImage
	}
	return Brightness(Canny(img, low, high))
}

// Measure extracts the mouth and eyes regions of a face and computes their statistics.
func Measure(face *image.Gray, t Thresholds) (FeatureSet, error) {
	var fs FeatureSet

	if t.BlurRadius > 0 {
		face = StackBlur(face, t.BlurRadius)
	}

	mouth, err := Extract(face, MouthRegion)
	if err != nil {
		return fs, fmt.Errorf("mouth region: %w", err)
	}
	eyes, err := Extract(face, EyesRegion)
	if err != nil {
		return fs, fmt.Errorf("eyes region: %w", err)
	}

	if fs.MouthBrightness, err = Brightness(mouth); err != nil {
		return fs, fmt.Errorf("mouth brightness: %w", err)
	}
	if fs.MouthEdgeIntensity, err = EdgeIntensity(mouth, t.CannyLow, t.CannyHigh); err != nil {
		return fs, fmt.Errorf("mouth edges: %w", err)
	}
	if fs.EyesBrightness, err = Brightness(eyes); err != nil {
		return fs, fmt.Errorf("eyes brightness: %w", err)
	}
	return fs, nil
}
