// Package camera provides the frame sources used by the live mode of the mimica command.
// The webcam backend is built on gocv and requires the gocv build tag:
//
//	go build -tags gocv ./cmd/mimica
package camera

import (
	"errors"
	"image"
	"io"
	"time"
)

var (
	// ErrUnsupported is returned when the binary has been built without webcam support.
	ErrUnsupported = errors.New("camera support requires the gocv build tag")
	// ErrEmptyFrame is returned when the device delivered a frame without pixels.
	ErrEmptyFrame = errors.New("empty frame")
)

// Key codes returned by a Viewer.
const (
	KeyNone  = -1
	KeyEsc   = 27
	KeySpace = 32
)

// Source delivers the frames of a video stream.
type Source interface {
	// Read blocks until the next frame is available. It returns io.EOF when the stream ends.
	Read() (image.Image, error)
	Close() error
}

// Viewer displays the frames and reports the pressed keys.
type Viewer interface {
	Show(img image.Image) error
	// Key waits up to delay for a key press and returns its code, or KeyNone.
	Key(delay time.Duration) int
	Close() error
}

// Frames is a Source replaying a fixed list of images.
type Frames struct {
	images []image.Image
	pos    int
	closed bool
}

// NewFrames returns a Source replaying the images in order.
func NewFrames(images ...image.Image) *Frames {
	return &Frames{images: images}
}

// Read returns the next image, or io.EOF once every image has been delivered.
func (f *Frames) Read() (image.Image, error) {
	if f.closed || f.pos >= len(f.images) {
		return nil, io.EOF
	}
	img := f.images[f.pos]
	f.pos++
	return img, nil
}

func (f *Frames) Close() error {
	f.closed = true
	return nil
}
