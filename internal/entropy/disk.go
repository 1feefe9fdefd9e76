package entropy

import "math"

// diskSpans returns the horizontal half-span of a disk structuring element for
// each vertical offset: spans[dy+radius] is the largest dx with
// dy²+dx² ≤ radius². The neighborhood of a pixel is every integer offset
// (dy, dx) with |dx| ≤ spans[dy+radius].
func diskSpans(radius int) []int {
	spans := make([]int, 2*radius+1)
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		rem := r2 - dy*dy
		s := int(math.Sqrt(float64(rem)))
		// math.Sqrt can land one off for large radii; settle it in integers
		for (s+1)*(s+1) <= rem {
			s++
		}
		for s*s > rem {
			s--
		}
		spans[dy+radius] = s
	}
	return spans
}

// diskArea counts the offsets inside a disk of the given radius.
func diskArea(radius int) int {
	area := 0
	for _, s := range diskSpans(radius) {
		area += 2*s + 1
	}
	return area
}
