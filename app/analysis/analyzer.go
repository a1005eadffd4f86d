// Package analysis locates critical points, inflection points, monotonicity
// and concavity intervals and singularities of a single-variable function
// over a finite domain, combining finite-difference scans with the symbolic
// derivatives from package lang.
package analysis

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/samber/lo"

	"inflexpoint/app/lang"
)

// Analyzer runs analyses with fixed tuning. It holds no mutable state and is
// safe for concurrent use.
type Analyzer struct {
	tuning Tuning
	logger *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger; analyses log at Debug and recovered failures
// at Warn.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// WithTuning replaces the default numeric parameters.
func WithTuning(t Tuning) Option {
	return func(a *Analyzer) { a.tuning = t }
}

// New returns an Analyzer with default tuning.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{tuning: DefaultTuning(), logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Tuning returns the analyzer's numeric parameters.
func (a *Analyzer) Tuning() Tuning { return a.tuning }

// Analyze validates expr, then scans it over domain and computes the
// artifacts selected by opts. Invalid input fails with a lang.ExprError,
// an unusable domain with ErrInvalidDomain, and unexpected numeric failures
// with a NumericError.
func (a *Analyzer) Analyze(expr string, domain Domain, opts Options) (res *Result, err error) {
	if err := domain.Validate(); err != nil {
		return nil, err
	}
	if err := domain.ValidateSize(a.tuning.MaxSamples); err != nil {
		return nil, err
	}
	ev, err := lang.Compile(expr)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			a.logger.Warn("numeric analysis failed", "expression", ev.Expression(), "panic", r)
			res, err = nil, &NumericError{Msg: "scan of " + ev.Expression(), Err: fmt.Errorf("%v", r)}
		}
	}()

	f := realFunc(ev.At)
	if lo.EveryBy(checkPoints(domain), func(x float64) bool { return !isFinite(f(x)) }) {
		return nil, &lang.ExprError{Msg: "expression is undefined at every check point of the domain", Pos: -1}
	}

	res = &Result{Input: expr, Expression: ev.Expression(), Domain: domain}
	a.derivatives(res)

	t := a.tuning
	d1 := t.firstDerivative(f)
	d2 := t.secondDerivative(f)

	res.Singularities = t.singularities(f, domain)
	res.DomainGaps = domainGaps(f, domain)
	asymptotes := lo.FilterMap(res.Singularities, func(s Singularity, _ int) (float64, bool) {
		return s.X, s.Kind == Asymptote
	})

	if opts.CriticalPoints || opts.Extrema {
		res.CriticalPoints = a.criticalPoints(f, d1, d2, domain, opts.Extrema)
	}
	if opts.Intervals {
		cuts := append(pointXs(res.CriticalPoints), asymptotes...)
		if !(opts.CriticalPoints || opts.Extrema) {
			cuts = append(t.findRoots(d1, domain), asymptotes...)
		}
		ivs := t.classifyIntervals(d1, domain, cuts, Increasing, Decreasing)
		res.Increasing, res.Decreasing = splitByKind(ivs, Increasing)
	}

	var inflections []float64
	if opts.Inflection || opts.Concavity {
		inflections = a.inflectionXs(d2, domain)
	}
	if opts.Inflection {
		for _, x := range inflections {
			if y := f(x); isFinite(y) {
				res.InflectionPoints = append(res.InflectionPoints, CriticalPoint{X: x, Y: y, Kind: KindInflection})
			}
		}
	}
	if opts.Concavity {
		cuts := append(append([]float64{}, inflections...), asymptotes...)
		res.Concavity = t.classifyIntervals(d2, domain, cuts, ConcaveUp, ConcaveDown)
	}

	switch {
	case globallyFlat(d1, domain, t.FlatTolerance):
		res.CriticalPoints, res.InflectionPoints = nil, nil
		res.Increasing, res.Decreasing, res.Concavity = nil, nil, nil
		res.AddMessage("Constant function: the first derivative is zero everywhere, so there are no critical points, intervals or concavity changes.")
	case globallyFlat(d2, domain, t.FlatTolerance):
		res.CriticalPoints, res.InflectionPoints, res.Concavity = nil, nil, nil
		res.AddMessage("Linear function: the second derivative is zero everywhere, so there are no extrema, inflection points or concavity changes.")
	}

	describeShape(res, ev.Root())
	describeSingularities(res)

	a.logger.Debug("analysis complete",
		"expression", res.Expression,
		"domain", fmt.Sprintf("[%v, %v] step %v", domain.Min, domain.Max, domain.Step),
		"critical_points", len(res.CriticalPoints),
		"inflection_points", len(res.InflectionPoints),
		"intervals", len(res.Increasing)+len(res.Decreasing)+len(res.Concavity),
		"singularities", len(res.Singularities),
	)
	return res, nil
}

// derivatives fills the symbolic derivative forms. Failures degrade to the
// d/dx[...] placeholder, never to an error.
func (a *Analyzer) derivatives(res *Result) {
	res.FirstDerivative = lang.Differentiate(res.Input)
	res.SecondDerivative = lang.DifferentiateTwice(res.Input)

	latex := []*string{&res.FirstDerivativeLatex, &res.SecondDerivativeLatex}
	text := []string{res.FirstDerivative, res.SecondDerivative}
	for i := range latex {
		node, err := lang.DerivativeTree(res.Input, i+1)
		if err != nil {
			a.logger.Debug("symbolic derivative unavailable", "expression", res.Expression, "order", i+1, "error", err)
			*latex[i] = text[i]
			continue
		}
		*latex[i] = lang.FormatLatex(node)
	}
}

func (a *Analyzer) criticalPoints(f, d1, d2 realFunc, domain Domain, classify bool) []CriticalPoint {
	t := a.tuning
	var out []CriticalPoint
	for _, x := range t.findRoots(d1, domain) {
		y := f(x)
		if !isFinite(y) {
			continue
		}
		p := CriticalPoint{X: x, Y: y}
		if classify {
			switch c := d2(x); {
			case c > t.ZeroTolerance:
				p.Kind = KindMinimum
			case c < -t.ZeroTolerance:
				p.Kind = KindMaximum
			}
		}
		out = append(out, p)
	}
	return out
}

// inflectionXs returns zeros of d2 confirmed by an actual sign change just
// left and right of the point.
func (a *Analyzer) inflectionXs(d2 realFunc, domain Domain) []float64 {
	t := a.tuning
	offset := math.Min(t.SecondDerivativeStep, domain.Step/4)
	return lo.Filter(t.findRoots(d2, domain), func(x float64, _ int) bool {
		l, r := d2(x-offset), d2(x+offset)
		return isFinite(l) && isFinite(r) && sign(l) != 0 && sign(l) == -sign(r)
	})
}

func pointXs(ps []CriticalPoint) []float64 {
	return lo.Map(ps, func(p CriticalPoint, _ int) float64 { return p.X })
}

// Analyze runs a default Analyzer.
func Analyze(expr string, domain Domain, opts Options) (*Result, error) {
	return New().Analyze(expr, domain, opts)
}
