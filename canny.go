package mimica

import (
	"image"

	"github.com/esimov/mimica/utils"
)

const (
	// tan(22.5°) and tan(67.5°) split the gradient direction into four sectors.
	tan22 = 0.41421356
	tan67 = 2.41421356

	edgeValue = 255
)

// Canny computes a binary edge map of the image. Edge pixels are set to 255, the rest to 0.
// The gradient magnitude is the L1 norm of the Sobel derivatives, thinned by non-maximum
// suppression and linked through hysteresis using the low and high thresholds.
// Every pixel is evaluated; magnitudes outside the image count as 0.
func Canny(img *image.Gray, low, high float64) *image.Gray {
	b := img.Bounds()
	dx, dy := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, dx, dy))
	if dx == 0 || dy == 0 {
		return dst
	}

	g := sobel(img)
	mag := make([]int32, dx*dy)
	for i := range mag {
		mag[i] = utils.Abs(g.gx[i]) + utils.Abs(g.gy[i])
	}
	magAt := func(x, y int) float64 {
		if x < 0 || y < 0 || x >= dx || y >= dy {
			return 0
		}
		return float64(mag[y*dx+x])
	}

	const (
		none = iota
		weak
		strong
	)
	state := make([]uint8, dx*dy)
	stack := make([]int, 0, dx)

	for y := 0; y < dy; y++ {
		for x := 0; x < dx; x++ {
			i := y*dx + x
			m := float64(mag[i])
			if m <= low {
				continue
			}
			gx, gy := g.at(x, y)
			ax, ay := float64(utils.Abs(gx)), float64(utils.Abs(gy))

			var keep bool
			switch {
			case ay < ax*tan22:
				keep = m > magAt(x-1, y) && m >= magAt(x+1, y)
			case ay > ax*tan67:
				keep = m > magAt(x, y-1) && m >= magAt(x, y+1)
			case (gx < 0) == (gy < 0):
				keep = m > magAt(x-1, y-1) && m > magAt(x+1, y+1)
			default:
				keep = m > magAt(x+1, y-1) && m > magAt(x-1, y+1)
			}
			if !keep {
				continue
			}
			if m > high {
				state[i] = strong
				stack = append(stack, i)
			} else {
				state[i] = weak
			}
		}
	}

	// Promote the weak pixels connected to a strong one.
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		dst.Pix[i] = edgeValue

		x, y := i%dx, i/dx
		for ny := y - 1; ny <= y+1; ny++ {
			for nx := x - 1; nx <= x+1; nx++ {
				if nx < 0 || ny < 0 || nx >= dx || ny >= dy {
					continue
				}
				j := ny*dx + nx
				if state[j] == weak {
					state[j] = strong
					stack = append(stack, j)
				}
			}
		}
	}
	return dst
}
