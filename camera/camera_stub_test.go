//go:build !gocv

package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpen_Unsupported(t *testing.T) {
	_, err := Open(0)
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = NewWindow("preview")
	assert.ErrorIs(t, err, ErrUnsupported)
}
