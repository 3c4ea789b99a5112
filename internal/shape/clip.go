package shape

import "math"

const (
	// ClipPrecision is the relative tolerance of ClipLength: the clipped
	// profile reproduces the small radius to within ClipPrecision of it.
	ClipPrecision = 1e-4

	maxClipDoublings  = 10
	maxClipBisections = 200
)

// ClipLength finds the distance c such that s.Radius(c, r2, c+length, param)
// equals r1, so that a transition can be cut out of a longer profile that
// starts at a point. The radii may be given in either order. A zero small
// radius or a non-positive length yields zero.
func ClipLength(s Shape, r1, r2, length, param float64) float64 {
	if r1 >= r2 {
		r1, r2 = r2, r1
	}
	if r1 == 0 || length <= 0 {
		return 0
	}

	min, max := 0.0, length
	for n := 0; s.Radius(max, r2, max+length, param)-r1 < 0; n++ {
		if n >= maxClipDoublings {
			break
		}
		min = max
		max *= 2
	}

	// Steep profiles need a clip far finer than the interval width, so stop
	// on the radius error. The width check ends unbracketed searches.
	tol := ClipPrecision * r1 / 10
	clip := (min + max) / 2
	for i := 0; i < maxClipBisections; i++ {
		clip = (min + max) / 2
		d := s.Radius(clip, r2, clip+length, param) - r1
		if math.Abs(d) <= tol || max-min <= length*1e-15 {
			return clip
		}
		if d > 0 {
			max = clip
		} else {
			min = clip
		}
	}
	return clip
}
