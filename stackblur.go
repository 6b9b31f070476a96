// Go implementation of StackBlur algorithm described here:
// http://incubator.quasimondo.com/processing/fast_blur_deluxe.php

package mimica

import (
	"image"
)

// maxBlurRadius is the largest radius covered by the lookup tables.
const maxBlurRadius = 254

var mulTable []uint32 = []uint32{
	512, 512, 456, 512, 328, 456, 335, 512, 405, 328, 271, 456, 388, 335, 292, 512,
	454, 405, 364, 328, 298, 271, 496, 456, 420, 388, 360, 335, 312, 292, 273, 512,
	482, 454, 428, 405, 383, 364, 345, 328, 312, 298, 284, 271, 259, 496, 475, 456,
	437, 420, 404, 388, 374, 360, 347, 335, 323, 312, 302, 292, 282, 273, 265, 512,
	497, 482, 468, 454, 441, 428, 417, 405, 394, 383, 373, 364, 354, 345, 337, 328,
	320, 312, 305, 298, 291, 284, 278, 271, 265, 259, 507, 496, 485, 475, 465, 456,
	446, 437, 428, 420, 412, 404, 396, 388, 381, 374, 367, 360, 354, 347, 341, 335,
	329, 323, 318, 312, 307, 302, 297, 292, 287, 282, 278, 273, 269, 265, 261, 512,
	505, 497, 489, 482, 475, 468, 461, 454, 447, 441, 435, 428, 422, 417, 411, 405,
	399, 394, 389, 383, 378, 373, 368, 364, 359, 354, 350, 345, 341, 337, 332, 328,
	324, 320, 316, 312, 309, 305, 301, 298, 294, 291, 287, 284, 281, 278, 274, 271,
	268, 265, 262, 259, 257, 507, 501, 496, 491, 485, 480, 475, 470, 465, 460, 456,
	451, 446, 442, 437, 433, 428, 424, 420, 416, 412, 408, 404, 400, 396, 392, 388,
	385, 381, 377, 374, 370, 367, 363, 360, 357, 354, 350, 347, 344, 341, 338, 335,
	332, 329, 326, 323, 320, 318, 315, 312, 310, 307, 304, 302, 299, 297, 294, 292,
	289, 287, 285, 282, 280, 278, 275, 273, 271, 269, 267, 265, 263, 261, 259,
}

var shgTable []uint32 = []uint32{
	9, 11, 12, 13, 13, 14, 14, 15, 15, 15, 15, 16, 16, 16, 16, 17,
	17, 17, 17, 17, 17, 17, 18, 18, 18, 18, 18, 18, 18, 18, 18, 19,
	19, 19, 19, 19, 19, 19, 19, 19, 19, 19, 19, 19, 19, 20, 20, 20,
	20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 21,
	21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21,
	21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 22, 22, 22, 22, 22, 22,
	22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22,
	22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 23,
	23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23,
	23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23,
	23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23,
	23, 23, 23, 23, 23, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24,
	24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24,
	24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24,
	24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24,
	24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24,
}

// StackBlur blurs a grayscale image with the given radius and returns a new image.
// A zero radius returns an unmodified copy. The radius is capped to 254.
func StackBlur(img *image.Gray, radius int) *image.Gray {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		si := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(dst.Pix[y*width:(y+1)*width], img.Pix[si:si+width])
	}
	if radius < 1 || width == 0 || height == 0 {
		return dst
	}
	if radius > maxBlurRadius {
		radius = maxBlurRadius
	}

	line := make([]uint8, max(width, height))
	out := make([]uint8, len(line))
	stack := make([]uint32, 2*radius+1)

	for y := 0; y < height; y++ {
		row := dst.Pix[y*width : (y+1)*width]
		copy(line, row)
		blurLine(line[:width], out[:width], stack, uint32(radius))
		copy(row, out[:width])
	}
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			line[y] = dst.Pix[y*width+x]
		}
		blurLine(line[:height], out[:height], stack, uint32(radius))
		for y := 0; y < height; y++ {
			dst.Pix[y*width+x] = out[y]
		}
	}
	return dst
}

// blurLine applies a single stack blur pass over src and writes the result into dst.
func blurLine(src, dst []uint8, stack []uint32, radius uint32) {
	var (
		sum, sumIn, sumOut uint32
		n                  = uint32(len(src))
		last               = n - 1
		div                = radius + radius + 1
		mulSum             = mulTable[radius]
		shgSum             = shgTable[radius]
	)

	at := func(i uint32) uint32 {
		if i > last {
			i = last
		}
		return uint32(src[i])
	}

	p := at(0)
	for i := uint32(0); i <= radius; i++ {
		stack[i] = p
		sum += p * (i + 1)
		sumOut += p
	}
	for i := uint32(1); i <= radius; i++ {
		p = at(i)
		stack[i+radius] = p
		sum += p * (radius + 1 - i)
		sumIn += p
	}

	sp := radius
	for x := uint32(0); x < n; x++ {
		dst[x] = uint8((sum * mulSum) >> shgSum)
		sum -= sumOut

		start := sp + div - radius
		if start >= div {
			start -= div
		}
		sumOut -= stack[start]

		p = at(x + radius + 1)
		stack[start] = p
		sumIn += p
		sum += sumIn

		sp++
		if sp >= div {
			sp = 0
		}
		sumOut += stack[sp]
		sumIn -= stack[sp]
	}
}
