//go:build gocv

package camera

import (
	"fmt"
	"image"
	"io"
	"time"

	"gocv.io/x/gocv"
)

// Capture resolution requested to the device.
const (
	captureWidth  = 640
	captureHeight = 480
)

// Device is a webcam Source.
type Device struct {
	capture *gocv.VideoCapture
	frame   gocv.Mat
}

// Open opens the webcam identified by the device index.
func Open(device int) (Source, error) {
	capture, err := gocv.VideoCaptureDevice(device)
	if err != nil {
		return nil, fmt.Errorf("cannot open the camera %d: %w", device, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("cannot open the camera %d", device)
	}
	capture.Set(gocv.VideoCaptureFrameWidth, captureWidth)
	capture.Set(gocv.VideoCaptureFrameHeight, captureHeight)

	return &Device{capture: capture, frame: gocv.NewMat()}, nil
}

// Read grabs the next frame of the device.
func (d *Device) Read() (image.Image, error) {
	if ok := d.capture.Read(&d.frame); !ok {
		return nil, io.EOF
	}
	if d.frame.Empty() {
		return nil, ErrEmptyFrame
	}
	return d.frame.ToImage()
}

func (d *Device) Close() error {
	if err := d.frame.Close(); err != nil {
		return err
	}
	return d.capture.Close()
}

// Window is a Viewer backed by a HighGUI window.
type Window struct {
	window *gocv.Window
}

// NewWindow opens a new preview window.
func NewWindow(title string) (Viewer, error) {
	w := gocv.NewWindow(title)
	w.SetWindowProperty(gocv.WindowPropertyAspectRatio, gocv.WindowKeepRatio)
	return &Window{window: w}, nil
}

// Show displays the image in the window.
func (w *Window) Show(img image.Image) error {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return fmt.Errorf("cannot convert the frame: %w", err)
	}
	defer mat.Close()

	w.window.IMShow(mat)
	return nil
}

func (w *Window) Key(delay time.Duration) int {
	ms := int(delay.Milliseconds())
	if ms < 1 {
		ms = 1
	}
	key := w.window.WaitKey(ms)
	if key < 0 {
		return KeyNone
	}
	return key & 0xFF
}

func (w *Window) Close() error {
	return w.window.Close()
}
