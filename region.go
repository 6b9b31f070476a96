package mimica

import (
	"errors"
	"image"
	"math"
)

// ErrEmptyRegion is returned when a fractional region collapses to an empty rectangle.
var ErrEmptyRegion = errors.New("empty or invalid region")

// BoundingBox identifies a detected face in image coordinates.
type BoundingBox struct {
	X, Y int
	W, H int
}

// Area returns the surface of the bounding box.
func (b BoundingBox) Area() int {
	return b.W * b.H
}

// Rect converts the bounding box into an image.Rectangle.
func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
}

// Region is a sub-rectangle of a face, defined by fractional offsets
// relative to the face height (Y1, Y2) and width (X1, X2).
type Region struct {
	Name   string
	Y1, Y2 float64
	X1, X2 float64
}

var (
	// MouthRegion is used for the mouth brightness and edge activity.
	MouthRegion = Region{Name: "mouth", Y1: 0.65, Y2: 0.90, X1: 0.25, X2: 0.75}
	// EyesRegion is used for the eyes brightness of the expression analysis.
	EyesRegion = Region{Name: "eyes", Y1: 0.20, Y2: 0.50, X1: 0.15, X2: 0.85}
	// PupilRegion is a tighter eye band used by the pupil meter.
	PupilRegion = Region{Name: "pupil", Y1: 0.30, Y2: 0.50, X1: 0.20, X2: 0.80}
)

// Bounds computes the pixel rectangle of the region inside a w x h face.
func (r Region) Bounds(w, h int) image.Rectangle {
	return image.Rectangle{
		Min: image.Point{
			X: int(math.Round(float64(w) * r.X1)),
			Y: int(math.Round(float64(h) * r.Y1)),
		},
		Max: image.Point{
			X: int(math.Round(float64(w) * r.X2)),
			Y: int(math.Round(float64(h) * r.Y2)),
		},
	}
}

// Valid reports whether the region yields a non-empty rectangle in a w x h face.
func (r Region) Valid(w, h int) bool {
	b := r.Bounds(w, h)
	return b.Max.Y > b.Min.Y && b.Max.X > b.Min.X
}

// Extract returns the pixels of the region as a new image with the min-point at (0, 0).
func Extract(img *image.Gray, r Region) (*image.Gray, error) {
	b := img.Bounds()
	rect := r.Bounds(b.Dx(), b.Dy())
	if rect.Max.Y <= rect.Min.Y || rect.Max.X <= rect.Min.X {
		return nil, ErrEmptyRegion
	}
	return subImage(img, rect.Add(b.Min))
}

// CropFace returns the face pixels delimited by the bounding box, clipped to the image.
func CropFace(img *image.Gray, box BoundingBox) (*image.Gray, error) {
	return subImage(img, box.Rect())
}

// subImage copies the rect area of img into a new image anchored at the origin.
func subImage(img *image.Gray, rect image.Rectangle) (*image.Gray, error) {
	rect = rect.Intersect(img.Bounds())
	if rect.Empty() {
		return nil, ErrEmptyRegion
	}
	dst := image.NewGray(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	for y := 0; y < rect.Dy(); y++ {
		si := img.PixOffset(rect.Min.X, rect.Min.Y+y)
		di := dst.PixOffset(0, y)
		copy(dst.Pix[di:di+rect.Dx()], img.Pix[si:si+rect.Dx()])
	}
	return dst, nil
}
