package analysis

import (
	"math"
	"sort"
)

// Tuning holds the numeric parameters of the scan. The defaults match the
// documented behaviour; callers rarely need to change them.
type Tuning struct {
	DerivativeStep       float64 // h of the central first difference
	SecondDerivativeStep float64 // h of the second difference
	ZeroTolerance        float64 // magnitudes below this count as zero
	FlatTolerance        float64 // a derivative below this everywhere is globally zero
	BisectionIterations  int
	BisectionTolerance   float64
	ClusterRadius        float64 // singularities closer than this are one location
	JumpThreshold        float64 // |f| above this near a point signals a pole
	MaxSamples           int     // largest grid a domain may request
}

// DefaultTuning returns the standard parameters.
func DefaultTuning() Tuning {
	return Tuning{
		DerivativeStep:       1e-4,
		SecondDerivativeStep: 1e-3,
		ZeroTolerance:        1e-5,
		FlatTolerance:        1e-4,
		BisectionIterations:  50,
		BisectionTolerance:   1e-6,
		ClusterRadius:        0.3,
		JumpThreshold:        1e6,
		MaxSamples:           1_000_000,
	}
}

type realFunc func(float64) float64

// firstDerivative approximates f' with a central difference.
func (t Tuning) firstDerivative(f realFunc) realFunc {
	h := t.DerivativeStep
	return func(x float64) float64 {
		return (f(x+h) - f(x-h)) / (2 * h)
	}
}

// secondDerivative approximates f'' with a central second difference.
func (t Tuning) secondDerivative(f realFunc) realFunc {
	h := t.SecondDerivativeStep
	return func(x float64) float64 {
		return (f(x+h) - 2*f(x) + f(x-h)) / (h * h)
	}
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// bracket is a grid sub-interval across which g changes sign.
type bracket struct {
	a, b   float64
	ga, gb float64
}

// signChanges walks the grid and returns every bracket where g flips sign
// between finite samples. Exact zeros do not move the anchor, and a
// non-finite sample resets it, so a change is never reported across a gap.
func (t Tuning) signChanges(g realFunc, d Domain) []bracket {
	var out []bracket
	var anchorX, anchorV float64
	hasAnchor := false
	n := d.samples()
	for i := 0; i <= n; i++ {
		x := d.at(i)
		v := g(x)
		if !isFinite(v) {
			hasAnchor = false
			continue
		}
		if v == 0 {
			continue
		}
		if hasAnchor && sign(v) != sign(anchorV) &&
			(math.Abs(anchorV) > t.ZeroTolerance || math.Abs(v) > t.ZeroTolerance) {
			out = append(out, bracket{a: anchorX, b: x, ga: anchorV, gb: v})
		}
		anchorX, anchorV, hasAnchor = x, v, true
	}
	return out
}

// bisect refines a sign change of g inside br.
func (t Tuning) bisect(g realFunc, br bracket) float64 {
	a, b, ga := br.a, br.b, br.ga
	for i := 0; i < t.BisectionIterations; i++ {
		mid := (a + b) / 2
		gm := g(mid)
		if gm == 0 || !isFinite(gm) || (b-a)/2 < t.BisectionTolerance {
			return mid
		}
		if sign(gm) == sign(ga) {
			a, ga = mid, gm
		} else {
			b = mid
		}
	}
	return (a + b) / 2
}

// isPole reports whether a bisection result is a sign change through
// infinity rather than through zero.
func isPole(g realFunc, root float64, br bracket) bool {
	v := g(root)
	return !isFinite(v) || math.Abs(v) > math.Max(math.Abs(br.ga), math.Abs(br.gb))
}

// findRoots returns the sorted zeros of g reachable by a sign-change scan,
// deduplicated to at most one per half step.
func (t Tuning) findRoots(g realFunc, d Domain) []float64 {
	var roots []float64
	for _, br := range t.signChanges(g, d) {
		r := t.bisect(g, br)
		if isPole(g, r, br) {
			continue
		}
		roots = append(roots, r)
	}
	return dedupe(roots, d.Step/2)
}

func dedupe(xs []float64, minGap float64) []float64 {
	if len(xs) == 0 {
		return nil
	}
	sort.Float64s(xs)
	out := []float64{xs[0]}
	for _, x := range xs[1:] {
		if x-out[len(out)-1] >= minGap {
			out = append(out, x)
		}
	}
	return out
}

// globallyFlat reports whether every finite sample of g is below tol. It is
// false when g has no finite sample at all.
func globallyFlat(g realFunc, d Domain, tol float64) bool {
	seen := false
	n := d.samples()
	for i := 0; i <= n; i++ {
		v := g(d.at(i))
		if !isFinite(v) {
			continue
		}
		if math.Abs(v) >= tol {
			return false
		}
		seen = true
	}
	return seen
}

// checkPoints returns the five interior fractions 1/6 .. 5/6 of the domain.
func checkPoints(d Domain) []float64 {
	pts := make([]float64, 0, 5)
	for k := 1; k <= 5; k++ {
		pts = append(pts, d.Min+float64(k)*(d.Max-d.Min)/6)
	}
	return pts
}
