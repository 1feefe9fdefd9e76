package entropy

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

// naiveLocalEntropy recomputes the histogram from scratch at every pixel,
// using the identical per-bin summation as histEntropy so results can be
// compared bit-for-bit against the sliding implementation.
func naiveLocalEntropy(plane []uint8, width, height, radius int) []float64 {
	r2 := radius * radius
	out := make([]float64, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var hist [256]int
			n := 0
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					if dy*dy+dx*dx > r2 {
						continue
					}
					yy, xx := y+dy, x+dx
					if yy < 0 || yy >= height || xx < 0 || xx >= width {
						continue
					}
					hist[plane[yy*width+xx]]++
					n++
				}
			}
			out[y*width+x] = histEntropy(&hist, n)
		}
	}
	return out
}

func randomPlane(width, height int, seed int64) []uint8 {
	r := rand.New(rand.NewSource(seed))
	plane := make([]uint8, width*height)
	for i := range plane {
		plane[i] = uint8(r.Intn(256))
	}
	return plane
}

func TestLocalEntropyUniformIsZero(t *testing.T) {
	w, h := 20, 20
	plane := make([]uint8, w*h)
	for i := range plane {
		plane[i] = 128
	}

	m, err := LocalEntropy(plane, w, h, 3, 1)
	if err != nil {
		t.Fatalf("LocalEntropy failed: %v", err)
	}

	for i, v := range m.Values {
		if v != 0 {
			t.Fatalf("uniform plane: expected 0 entropy at index %d, got %v", i, v)
		}
	}
}

func TestLocalEntropyMatchesNaive(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
		radius int
	}{
		{"small_r1", 9, 7, 1},
		{"small_r3", 16, 12, 3},
		{"radius_exceeds_image", 5, 5, 4},
		{"wide_r2", 40, 6, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plane := randomPlane(tt.width, tt.height, 42)

			m, err := LocalEntropy(plane, tt.width, tt.height, tt.radius, 4)
			if err != nil {
				t.Fatalf("LocalEntropy failed: %v", err)
			}
			want := naiveLocalEntropy(plane, tt.width, tt.height, tt.radius)

			for i := range want {
				if m.Values[i] != want[i] {
					t.Fatalf("mismatch at index %d: sliding %v, naive %v", i, m.Values[i], want[i])
				}
			}
		})
	}
}

func TestLocalEntropyWorkerIndependence(t *testing.T) {
	w, h := 31, 17
	plane := randomPlane(w, h, 7)

	base, err := LocalEntropy(plane, w, h, 2, 1)
	if err != nil {
		t.Fatalf("LocalEntropy failed: %v", err)
	}

	for _, workers := range []int{2, 3, 8} {
		m, err := LocalEntropy(plane, w, h, 2, workers)
		if err != nil {
			t.Fatalf("LocalEntropy with %d workers failed: %v", workers, err)
		}
		for i := range base.Values {
			if m.Values[i] != base.Values[i] {
				t.Fatalf("workers=%d changed output at index %d", workers, i)
			}
		}
	}
}

func TestLocalEntropyBounds(t *testing.T) {
	w, h := 25, 25
	plane := randomPlane(w, h, 99)

	m, err := LocalEntropy(plane, w, h, 4, 0)
	if err != nil {
		t.Fatalf("LocalEntropy failed: %v", err)
	}

	for i, v := range m.Values {
		if v < 0 || v > MaxBits {
			t.Fatalf("entropy out of [0, 8] at index %d: %v", i, v)
		}
	}
	t.Logf("entropy range: [%v, %v], mean %v", m.Min(), m.Max(), m.Mean())
}

func TestLocalEntropyTwoSymbols(t *testing.T) {
	// A plane drawn from two symbols can never exceed 1 bit
	w, h := 16, 16
	r := rand.New(rand.NewSource(3))
	plane := make([]uint8, w*h)
	for i := range plane {
		if r.Intn(2) == 1 {
			plane[i] = 255
		}
	}

	m, err := LocalEntropy(plane, w, h, 3, 0)
	if err != nil {
		t.Fatalf("LocalEntropy failed: %v", err)
	}
	if max := m.Max(); max > 1.0+1e-12 {
		t.Errorf("two-symbol plane exceeded 1 bit: %v", max)
	}
}

func TestLocalEntropyBadPlane(t *testing.T) {
	_, err := LocalEntropy(make([]uint8, 10), 5, 5, 1, 1)
	if err == nil {
		t.Fatal("expected error for mismatched plane length")
	}
	var cerr *ComputationError
	if !errors.As(err, &cerr) {
		t.Errorf("expected ComputationError, got %T", err)
	}
}

func TestHistEntropyEmpty(t *testing.T) {
	var hist [256]int
	if v := histEntropy(&hist, 0); v != 0 {
		t.Errorf("empty histogram: expected 0, got %v", v)
	}
}

func TestHistEntropyUniformDistribution(t *testing.T) {
	// 256 equally likely symbols is exactly 8 bits
	var hist [256]int
	for i := range hist {
		hist[i] = 4
	}
	got := histEntropy(&hist, 1024)
	if math.Abs(got-8.0) > 1e-9 {
		t.Errorf("expected 8 bits, got %v", got)
	}
}
