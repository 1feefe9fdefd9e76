package render

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ivlev/entroscan/internal/entropy"
)

func TestHeatColorEndpoints(t *testing.T) {
	low := heatColor(0)
	if low != heatStops[0] {
		t.Errorf("t=0 should hit the first stop, got %v", low)
	}
	high := heatColor(1)
	if high != heatStops[len(heatStops)-1] {
		t.Errorf("t=1 should hit the last stop, got %v", high)
	}
	// Out-of-range values clamp
	if heatColor(-0.5) != heatStops[0] || heatColor(2.0) != heatStops[len(heatStops)-1] {
		t.Error("out-of-range values should clamp to the gradient ends")
	}
}

func TestWriteHeatmap(t *testing.T) {
	m := &entropy.Map{Width: 8, Height: 6, Values: make([]float64, 48)}
	for i := range m.Values {
		m.Values[i] = float64(i%9) * entropy.MaxBits / 8.0
	}

	path := filepath.Join(t.TempDir(), "maps", "heat.png")
	if err := WriteHeatmap(m, path); err != nil {
		t.Fatalf("WriteHeatmap failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open heatmap: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode heatmap: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 6 {
		t.Errorf("heatmap bounds %v", img.Bounds())
	}
}

func TestWriteMask(t *testing.T) {
	mask := &entropy.Mask{Width: 4, Height: 4, Bits: make([]bool, 16)}
	mask.Bits[0] = true
	mask.Bits[15] = true

	path := filepath.Join(t.TempDir(), "mask.png")
	if err := WriteMask(mask, path); err != nil {
		t.Fatalf("WriteMask failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode mask: %v", err)
	}

	r, _, _, _ := img.At(0, 0).RGBA()
	if r != 0xFFFF {
		t.Errorf("matched pixel should be white, got %v", r)
	}
	r, _, _, _ = img.At(1, 0).RGBA()
	if r != 0 {
		t.Errorf("unmatched pixel should be black, got %v", r)
	}
}
