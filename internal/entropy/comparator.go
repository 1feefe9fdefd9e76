package entropy

import (
	"image"
	"math"

	"golang.org/x/sync/errgroup"
)

// Highlight is the color written over matching pixels.
var Highlight = [3]uint8{255, 0, 0}

// Mask marks the pixels where all three channels have near-equal local
// entropy.
type Mask struct {
	Width  int
	Height int
	Bits   []bool
}

// At reports whether the pixel at (x, y) matched.
func (m *Mask) At(x, y int) bool {
	return m.Bits[y*m.Width+x]
}

// Count returns the number of matching pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

// Result carries everything a caller needs to render and summarize one
// comparison without recomputing: the normalized input, the highlighted copy,
// the match mask, and the three per-channel entropy maps.
type Result struct {
	Original    *image.RGBA
	Highlighted *image.RGBA
	Mask        *Mask
	Red         *Map
	Green       *Map
	Blue        *Map
}

// Maps returns the entropy maps in channel order.
func (r *Result) Maps() [3]*Map {
	return [3]*Map{r.Red, r.Green, r.Blue}
}

// Comparator computes per-channel local entropy and flags pixels where the
// three channels agree within Tolerance. It holds no state between calls;
// Process is a pure function of the image and the two parameters.
type Comparator struct {
	Radius    int     // disk neighborhood radius in pixels
	Tolerance float64 // maximum pairwise entropy difference, in bits
	Workers   int     // row-level parallelism; <=0 means NumCPU
}

// New creates a Comparator with the given neighborhood radius and tolerance.
func New(radius int, tolerance float64) *Comparator {
	return &Comparator{Radius: radius, Tolerance: tolerance}
}

// Validate checks the parameters against the input contract.
func (c *Comparator) Validate() error {
	if c.Radius < 1 {
		return validationErrorf("radius must be a positive integer, got %d", c.Radius)
	}
	if math.IsNaN(c.Tolerance) || math.IsInf(c.Tolerance, 0) {
		return validationErrorf("tolerance must be finite, got %v", c.Tolerance)
	}
	if c.Tolerance <= 0 {
		return validationErrorf("tolerance must be positive, got %v", c.Tolerance)
	}
	return nil
}

// Process runs the full pipeline: normalize, estimate per-channel entropy,
// compare across channels, mask, highlight.
func (c *Comparator) Process(img image.Image) (*Result, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	buf, err := FromImage(img)
	if err != nil {
		return nil, err
	}

	// The three channel passes are independent
	var maps [3]*Map
	var g errgroup.Group
	for ch := 0; ch < 3; ch++ {
		ch := ch
		g.Go(func() error {
			m, err := LocalEntropy(buf.Plane(ch), buf.Width, buf.Height, c.Radius, c.Workers)
			if err != nil {
				return err
			}
			maps[ch] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	mask := compareMaps(maps, c.Tolerance)

	original := buf.RGBA()
	highlighted := buf.RGBA()
	for i, matched := range mask.Bits {
		if matched {
			highlighted.Pix[i*4] = Highlight[0]
			highlighted.Pix[i*4+1] = Highlight[1]
			highlighted.Pix[i*4+2] = Highlight[2]
		}
	}

	return &Result{
		Original:    original,
		Highlighted: highlighted,
		Mask:        mask,
		Red:         maps[0],
		Green:       maps[1],
		Blue:        maps[2],
	}, nil
}

// compareMaps builds the mask: true where every pairwise absolute entropy
// difference is strictly under the tolerance.
func compareMaps(maps [3]*Map, tolerance float64) *Mask {
	r, g, b := maps[0], maps[1], maps[2]
	mask := &Mask{
		Width:  r.Width,
		Height: r.Height,
		Bits:   make([]bool, len(r.Values)),
	}
	for i := range r.Values {
		rg := math.Abs(r.Values[i] - g.Values[i])
		rb := math.Abs(r.Values[i] - b.Values[i])
		gb := math.Abs(g.Values[i] - b.Values[i])
		mask.Bits[i] = rg < tolerance && rb < tolerance && gb < tolerance
	}
	return mask
}
