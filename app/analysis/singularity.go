package analysis

import (
	"math"
	"sort"

	"github.com/samber/lo"
)

// Offsets used to inspect the neighbourhood of a singularity candidate.
const (
	nearOffset = 1e-7
	farOffset  = 1e-3
)

// singularityCandidates collects x positions where f is undefined or
// diverges: infinite samples, isolated NaN samples, sign changes of f that
// bisect onto a pole, and local maxima of |f| that blow up between samples.
func (t Tuning) singularityCandidates(f realFunc, d Domain) []float64 {
	n := d.samples()
	xs := make([]float64, n+1)
	vs := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		xs[i] = d.at(i)
		vs[i] = f(xs[i])
	}

	var out []float64
	for i, v := range vs {
		switch {
		case math.IsInf(v, 0):
			out = append(out, xs[i])
		case math.IsNaN(v) && i > 0 && i < n && isFinite(vs[i-1]) && isFinite(vs[i+1]):
			out = append(out, xs[i])
		}
	}

	for _, br := range t.signChanges(f, d) {
		if r := t.bisect(f, br); isPole(f, r, br) {
			out = append(out, r)
		}
	}

	abs := func(x float64) float64 {
		v := math.Abs(f(x))
		if math.IsNaN(v) {
			return -1
		}
		return v
	}
	for i := 1; i < n; i++ {
		a, b, c := math.Abs(vs[i-1]), math.Abs(vs[i]), math.Abs(vs[i+1])
		if !isFinite(a) || !isFinite(b) || !isFinite(c) || b < a || b < c {
			continue
		}
		x, peak := ternaryMax(abs, xs[i-1], xs[i+1])
		if !isFinite(peak) || peak > t.JumpThreshold {
			out = append(out, x)
		}
	}
	return out
}

// ternaryMax maximizes a unimodal function on [a, b].
func ternaryMax(g realFunc, a, b float64) (float64, float64) {
	for i := 0; i < 100 && b-a > 1e-12; i++ {
		m1 := a + (b-a)/3
		m2 := b - (b-a)/3
		if g(m1) < g(m2) {
			a = m1
		} else {
			b = m2
		}
	}
	x := (a + b) / 2
	return x, g(x)
}

// cluster merges sorted candidates closer than radius into their mean.
func cluster(xs []float64, radius float64) []float64 {
	if len(xs) == 0 {
		return nil
	}
	sort.Float64s(xs)
	var out []float64
	group := []float64{xs[0]}
	flush := func() {
		out = append(out, lo.Sum(group)/float64(len(group)))
	}
	for _, x := range xs[1:] {
		if x-group[len(group)-1] <= radius {
			group = append(group, x)
			continue
		}
		flush()
		group = []float64{x}
	}
	flush()
	return out
}

// classifySingularity labels p an asymptote when f is infinite there or
// grows sharply when approaching it; anything else is indeterminate.
func (t Tuning) classifySingularity(f realFunc, p float64) SingularityKind {
	if math.IsInf(f(p), 0) {
		return Asymptote
	}
	near := math.Max(math.Abs(f(p-nearOffset)), math.Abs(f(p+nearOffset)))
	far := math.Max(math.Abs(f(p-farOffset)), math.Abs(f(p+farOffset)))
	switch {
	case math.IsInf(near, 0), near > t.JumpThreshold:
		return Asymptote
	case isFinite(near) && isFinite(far) && near > 100*math.Max(far, 1):
		return Asymptote
	}
	return IndeterminateSingular
}

// singularities returns the clustered, classified singular points of f.
func (t Tuning) singularities(f realFunc, d Domain) []Singularity {
	points := cluster(t.singularityCandidates(f, d), t.ClusterRadius)
	return lo.Map(points, func(x float64, _ int) Singularity {
		return Singularity{X: x, Kind: t.classifySingularity(f, x)}
	})
}

// domainGaps returns runs of at least two consecutive undefined samples.
func domainGaps(f realFunc, d Domain) []DomainGap {
	var gaps []DomainGap
	n := d.samples()
	start, count := 0.0, 0
	closeRun := func(end float64) {
		if count >= 2 {
			gaps = append(gaps, DomainGap{Start: start, End: end})
		}
		count = 0
	}
	prev := d.Min
	for i := 0; i <= n; i++ {
		x := d.at(i)
		if math.IsNaN(f(x)) {
			if count == 0 {
				start = x
			}
			count++
		} else {
			closeRun(prev)
		}
		prev = x
	}
	closeRun(prev)
	return gaps
}
