package entropy

import (
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// MaxBits is the theoretical entropy ceiling for 8-bit samples.
const MaxBits = 8.0

// Map is a per-pixel grid of local entropy values in bits.
type Map struct {
	Width  int
	Height int
	Values []float64
}

// At returns the entropy at (x, y).
func (m *Map) At(x, y int) float64 {
	return m.Values[y*m.Width+x]
}

// Min returns the smallest value in the map.
func (m *Map) Min() float64 {
	min := math.Inf(1)
	for _, v := range m.Values {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the largest value in the map.
func (m *Map) Max() float64 {
	max := math.Inf(-1)
	for _, v := range m.Values {
		if v > max {
			max = v
		}
	}
	return max
}

// Mean returns the average value of the map.
func (m *Map) Mean() float64 {
	sum := 0.0
	for _, v := range m.Values {
		sum += v
	}
	return sum / float64(len(m.Values))
}

// LocalEntropy computes the per-pixel Shannon entropy (base 2) of the 8-bit
// intensity distribution inside a disk neighborhood of the given radius.
//
// Boundary policy: offsets falling outside the image are excluded, so border
// pixels see a smaller histogram built from their in-bounds neighbors only.
//
// Each row keeps its own histogram and slides it one column at a time
// (removing the trailing disk edge, adding the leading one), so the cost per
// pixel is the disk height plus the 256-bin entropy sum instead of the full
// disk area. Rows are processed in parallel; the per-bin summation order is
// fixed, so the output does not depend on the worker count.
func LocalEntropy(plane []uint8, width, height, radius, workers int) (*Map, error) {
	if len(plane) != width*height {
		return nil, &ComputationError{
			Stage: "local entropy",
			Err:   fmt.Errorf("plane length %d does not match %dx%d", len(plane), width, height),
		}
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	out := &Map{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}
	spans := diskSpans(radius)

	var g errgroup.Group
	g.SetLimit(workers)
	for y := 0; y < height; y++ {
		y := y
		g.Go(func() error {
			entropyRow(plane, width, height, radius, spans, y, out.Values[y*width:(y+1)*width])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, &ComputationError{Stage: "local entropy", Err: err}
	}

	return out, nil
}

// entropyRow fills one output row, sliding the disk histogram left to right.
func entropyRow(plane []uint8, width, height, radius int, spans []int, y int, dst []float64) {
	var hist [256]int
	n := 0

	// Seed the histogram for x=0
	for dy := -radius; dy <= radius; dy++ {
		yy := y + dy
		if yy < 0 || yy >= height {
			continue
		}
		span := spans[dy+radius]
		hi := span
		if hi > width-1 {
			hi = width - 1
		}
		row := plane[yy*width:]
		for xx := 0; xx <= hi; xx++ {
			hist[row[xx]]++
			n++
		}
	}
	dst[0] = histEntropy(&hist, n)

	for x := 1; x < width; x++ {
		for dy := -radius; dy <= radius; dy++ {
			yy := y + dy
			if yy < 0 || yy >= height {
				continue
			}
			span := spans[dy+radius]
			row := plane[yy*width:]
			if out := x - 1 - span; out >= 0 {
				hist[row[out]]--
				n--
			}
			if in := x + span; in < width {
				hist[row[in]]++
				n++
			}
		}
		dst[x] = histEntropy(&hist, n)
	}
}

// histEntropy computes Σ −p·log2(p) over the occupied bins.
func histEntropy(hist *[256]int, n int) float64 {
	if n == 0 {
		return 0
	}
	inv := 1.0 / float64(n)
	h := 0.0
	for _, c := range hist {
		if c > 0 {
			p := float64(c) * inv
			h -= p * math.Log2(p)
		}
	}
	return h
}
