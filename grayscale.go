package mimica

import (
	"image"
)

// Grayscale converts the image to an 8-bit grayscale image with the min-point at (0, 0),
// using the ITU-R 601 luma weights.
func Grayscale(src image.Image) *image.Gray {
	b := src.Bounds()
	dx, dy := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, dx, dy))

	switch src := src.(type) {
	case *image.Gray:
		for y := 0; y < dy; y++ {
			si := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dx:(y+1)*dx], src.Pix[si:si+dx])
		}
	case *image.NRGBA:
		for y := 0; y < dy; y++ {
			si := src.PixOffset(b.Min.X, b.Min.Y+y)
			for x := 0; x < dx; x++ {
				px := src.Pix[si+x*4 : si+x*4+3 : si+x*4+3]
				dst.Pix[y*dx+x] = luma(uint32(px[0])<<8, uint32(px[1])<<8, uint32(px[2])<<8)
			}
		}
	default:
		for y := 0; y < dy; y++ {
			for x := 0; x < dx; x++ {
				r, g, b, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
				dst.Pix[y*dx+x] = luma(r, g, b)
			}
		}
	}
	return dst
}

// luma combines 16-bit color channels into an 8-bit luminance value.
func luma(r, g, b uint32) uint8 {
	lum := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
	return uint8(lum / 256)
}
