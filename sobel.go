package mimica

import (
	"image"
)

type kernel [][]int32

var (
	kernelX = kernel{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}

	kernelY = kernel{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// gradient holds the horizontal and vertical derivatives of a grayscale image.
type gradient struct {
	width, height int
	gx, gy        []int32
}

// at returns the derivatives of the pixel found at (x, y).
func (g *gradient) at(x, y int) (int32, int32) {
	i := y*g.width + x
	return g.gx[i], g.gy[i]
}

// sobel convolves the image with the 3x3 Sobel kernels.
// The border pixels are replicated, so every pixel gets a derivative.
// See https://en.wikipedia.org/wiki/Sobel_operator
func sobel(img *image.Gray) *gradient {
	b := img.Bounds()
	dx, dy := b.Dx(), b.Dy()

	g := &gradient{
		width:  dx,
		height: dy,
		gx:     make([]int32, dx*dy),
		gy:     make([]int32, dx*dy),
	}

	pixel := func(x, y int) int32 {
		x = clampInt(x, 0, dx-1)
		y = clampInt(y, 0, dy-1)
		return int32(img.Pix[img.PixOffset(b.Min.X+x, b.Min.Y+y)])
	}

	for y := 0; y < dy; y++ {
		for x := 0; x < dx; x++ {
			var sumX, sumY int32
			for ky := 0; ky < len(kernelY); ky++ {
				for kx := 0; kx < len(kernelX); kx++ {
					px := pixel(x+kx-1, y+ky-1)
					sumX += px * kernelX[ky][kx]
					sumY += px * kernelY[ky][kx]
				}
			}
			g.gx[y*dx+x] = sumX
			g.gy[y*dx+x] = sumY
		}
	}
	return g
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
