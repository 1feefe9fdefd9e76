package render

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/ivlev/entroscan/internal/entropy"
	"github.com/ivlev/entroscan/internal/system"
)

// WritePNG encodes an image to disk, creating parent directories as needed.
func WritePNG(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// heatStops is the display gradient for entropy maps, low to high.
var heatStops = []color.RGBA{
	{0, 0, 96, 255},    // near-zero entropy: dark blue
	{0, 128, 255, 255}, // low: blue
	{0, 220, 128, 255}, // mid: green
	{255, 220, 0, 255}, // high: yellow
	{255, 32, 0, 255},  // max: red
}

// heatColor maps a value in [0,1] through the gradient.
func heatColor(t float64) color.RGBA {
	if t <= 0 {
		return heatStops[0]
	}
	if t >= 1 {
		return heatStops[len(heatStops)-1]
	}
	scaled := t * float64(len(heatStops)-1)
	i := int(scaled)
	frac := scaled - float64(i)
	a, b := heatStops[i], heatStops[i+1]
	return color.RGBA{
		R: uint8(float64(a.R) + frac*(float64(b.R)-float64(a.R))),
		G: uint8(float64(a.G) + frac*(float64(b.G)-float64(a.G))),
		B: uint8(float64(a.B) + frac*(float64(b.B)-float64(a.B))),
		A: 255,
	}
}

// WriteHeatmap renders an entropy map against the 8-bit theoretical maximum
// and writes it as PNG. The normalization is display-only; map values are
// never changed.
func WriteHeatmap(m *entropy.Map, path string) error {
	rect := image.Rect(0, 0, m.Width, m.Height)
	frame := system.GetImage(rect)
	defer system.PutImage(frame)

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			c := heatColor(m.At(x, y) / entropy.MaxBits)
			i := frame.PixOffset(x, y)
			frame.Pix[i] = c.R
			frame.Pix[i+1] = c.G
			frame.Pix[i+2] = c.B
			frame.Pix[i+3] = 255
		}
	}

	return WritePNG(frame, path)
}

// WriteMask writes the match mask as a black/white PNG (white = matched).
func WriteMask(mask *entropy.Mask, path string) error {
	img := image.NewGray(image.Rect(0, 0, mask.Width, mask.Height))
	for i, matched := range mask.Bits {
		if matched {
			img.Pix[i] = 255
		}
	}
	return WritePNG(img, path)
}
