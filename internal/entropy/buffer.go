package entropy

import (
	"image"
	"image/color"
)

// Buffer is a decoded image normalized to exactly three 8-bit planes in RGB
// order. An alpha plane is dropped during construction, a single grayscale
// plane is replicated three times, and higher bit depths are coerced down to
// 8 bits. All derived arrays (entropy maps, mask, highlighted copy) share its
// dimensions.
type Buffer struct {
	Width  int
	Height int
	R      []uint8
	G      []uint8
	B      []uint8
}

// FromImage normalizes a decoded image into a Buffer. Feeding an image that
// is already 3-channel 8-bit reproduces its samples exactly.
func FromImage(img image.Image) (*Buffer, error) {
	if img == nil {
		return nil, validationErrorf("nil image")
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, validationErrorf("empty image bounds %v", bounds)
	}

	buf := &Buffer{
		Width:  w,
		Height: h,
		R:      make([]uint8, w*h),
		G:      make([]uint8, w*h),
		B:      make([]uint8, w*h),
	}

	switch src := img.(type) {
	case *image.NRGBA:
		// Raw samples, alpha ignored
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride:]
			for x := 0; x < w; x++ {
				i := y*w + x
				buf.R[i] = row[x*4]
				buf.G[i] = row[x*4+1]
				buf.B[i] = row[x*4+2]
			}
		}
	case *image.RGBA:
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride:]
			for x := 0; x < w; x++ {
				i := y*w + x
				buf.R[i] = row[x*4]
				buf.G[i] = row[x*4+1]
				buf.B[i] = row[x*4+2]
			}
		}
	case *image.Gray:
		// Grayscale becomes three identical planes
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride:]
			for x := 0; x < w; x++ {
				i := y*w + x
				v := row[x]
				buf.R[i] = v
				buf.G[i] = v
				buf.B[i] = v
			}
		}
	default:
		// Generic path: NRGBAModel keeps unpremultiplied RGB while dropping
		// alpha, and takes the high byte of 16-bit samples.
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := y*w + x
				c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
				buf.R[i] = c.R
				buf.G[i] = c.G
				buf.B[i] = c.B
			}
		}
	}

	return buf, nil
}

// RGBA packs the buffer into a stdlib RGBA image with fully opaque alpha.
func (b *Buffer) RGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for i := 0; i < b.Width*b.Height; i++ {
		out.Pix[i*4] = b.R[i]
		out.Pix[i*4+1] = b.G[i]
		out.Pix[i*4+2] = b.B[i]
		out.Pix[i*4+3] = 255
	}
	return out
}

// Plane returns one of the three planes by channel index (0=R, 1=G, 2=B).
func (b *Buffer) Plane(channel int) []uint8 {
	switch channel {
	case 0:
		return b.R
	case 1:
		return b.G
	default:
		return b.B
	}
}
