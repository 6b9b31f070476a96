//go:build !gocv

package camera

// Open returns ErrUnsupported when the binary is built without the gocv tag.
func Open(device int) (Source, error) {
	return nil, ErrUnsupported
}

// NewWindow returns ErrUnsupported when the binary is built without the gocv tag.
func NewWindow(title string) (Viewer, error) {
	return nil, ErrUnsupported
}
