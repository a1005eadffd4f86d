package analysis

import (
	"math"
	"sort"

	"github.com/samber/lo"
)

// Interior test points tried in order when the midpoint is unusable.
var testFractions = []float64{0.5, 0.25, 0.75, 0.1, 0.9}

// partition returns the sorted boundaries Min, cuts..., Max, keeping only
// cuts strictly inside the domain and at least minGap apart.
func partition(d Domain, cuts []float64, minGap float64) []float64 {
	inner := make([]float64, 0, len(cuts))
	for _, c := range cuts {
		if c > d.Min+minGap && c < d.Max-minGap {
			inner = append(inner, c)
		}
	}
	sort.Float64s(inner)
	bounds := []float64{d.Min}
	for _, c := range inner {
		if c-bounds[len(bounds)-1] >= minGap {
			bounds = append(bounds, c)
		}
	}
	return append(bounds, d.Max)
}

// classifyIntervals splits the domain at cuts and labels every piece with
// pos or neg according to the sign of g inside it. Pieces where g is near
// zero or undefined at every test point are dropped. The first piece starts
// at -∞ and the last one ends at +∞.
func (t Tuning) classifyIntervals(g realFunc, d Domain, cuts []float64, pos, neg IntervalKind) []Interval {
	bounds := partition(d, cuts, t.BisectionTolerance)
	last := len(bounds) - 2
	var out []Interval
	for i := 0; i <= last; i++ {
		start, end := bounds[i], bounds[i+1]
		s := 0
		for _, frac := range testFractions {
			v := g(start + frac*(end-start))
			if isFinite(v) && math.Abs(v) > t.ZeroTolerance {
				s = sign(v)
				break
			}
		}
		if s == 0 {
			continue
		}
		iv := Interval{Kind: pos}
		if s < 0 {
			iv.Kind = neg
		}
		if i > 0 {
			iv.Start = ptr(start)
		}
		if i < last {
			iv.End = ptr(end)
		}
		out = append(out, iv)
	}
	return out
}

func ptr(v float64) *float64 { return &v }

// splitByKind separates intervals of kind k from the rest.
func splitByKind(ivs []Interval, k IntervalKind) (match, rest []Interval) {
	isKind := func(iv Interval, _ int) bool { return iv.Kind == k }
	return lo.Filter(ivs, isKind), lo.Reject(ivs, isKind)
}
