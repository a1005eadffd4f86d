package analysis

import (
	"fmt"
	"math"

	"github.com/samber/lo"
)

// Domain is the closed scan interval [Min, Max] sampled every Step.
type Domain struct {
	Min  float64 `yaml:"min" json:"min"`
	Max  float64 `yaml:"max" json:"max"`
	Step float64 `yaml:"step" json:"step"`
}

// DefaultDomain returns [-10, 10] with step 0.1.
func DefaultDomain() Domain {
	return Domain{Min: -10, Max: 10, Step: 0.1}
}

// Validate reports ErrInvalidDomain for unusable bounds.
func (d Domain) Validate() error {
	switch {
	case !isFinite(d.Min) || !isFinite(d.Max) || !isFinite(d.Step):
		return fmt.Errorf("%w: bounds must be finite", ErrInvalidDomain)
	case d.Min >= d.Max:
		return fmt.Errorf("%w: min %v must be less than max %v", ErrInvalidDomain, d.Min, d.Max)
	case d.Step <= 0:
		return fmt.Errorf("%w: step %v must be positive", ErrInvalidDomain, d.Step)
	case !isFinite(d.Max - d.Min):
		return fmt.Errorf("%w: width of [%v, %v] overflows", ErrInvalidDomain, d.Min, d.Max)
	}
	return nil
}

// ValidateSize reports ErrInvalidDomain when the grid would hold more than
// maxSamples intervals.
func (d Domain) ValidateSize(maxSamples int) error {
	n := (d.Max - d.Min) / d.Step
	if !isFinite(n) || n > float64(maxSamples) {
		return fmt.Errorf("%w: %g samples exceed the limit of %d", ErrInvalidDomain, n, maxSamples)
	}
	return nil
}

// samples returns the number of grid intervals; the grid has samples()+1 points.
func (d Domain) samples() int {
	return int(math.Floor((d.Max-d.Min)/d.Step + 1e-9))
}

// at returns the i-th grid point.
func (d Domain) at(i int) float64 {
	x := d.Min + float64(i)*d.Step
	if x > d.Max {
		return d.Max
	}
	return x
}

// Options selects which artifacts Analyze computes.
type Options struct {
	CriticalPoints bool `yaml:"critical_points" json:"critical_points"`
	Intervals      bool `yaml:"intervals" json:"intervals"`
	Extrema        bool `yaml:"extrema" json:"extrema"`
	Inflection     bool `yaml:"inflection" json:"inflection"`
	Concavity      bool `yaml:"concavity" json:"concavity"`
}

// AllOptions enables every artifact.
func AllOptions() Options {
	return Options{CriticalPoints: true, Intervals: true, Extrema: true, Inflection: true, Concavity: true}
}

// PointKind classifies a point. The zero value means the second-derivative
// test was inconclusive.
type PointKind string

const (
	KindIndeterminate PointKind = ""
	KindMinimum       PointKind = "minimum"
	KindMaximum       PointKind = "maximum"
	KindInflection    PointKind = "inflection"
)

func (k PointKind) String() string {
	if k == KindIndeterminate {
		return "indeterminate"
	}
	return string(k)
}

// CriticalPoint is a point of the graph; Y is always finite.
type CriticalPoint struct {
	X    float64   `yaml:"x" json:"x"`
	Y    float64   `yaml:"y" json:"y"`
	Kind PointKind `yaml:"kind,omitempty" json:"kind,omitempty"`
}

// IntervalKind is the behaviour of the function on an interval.
type IntervalKind string

const (
	Increasing  IntervalKind = "increasing"
	Decreasing  IntervalKind = "decreasing"
	ConcaveUp   IntervalKind = "concave up"
	ConcaveDown IntervalKind = "concave down"
)

// Interval is an open interval; a nil bound is unbounded (-∞ or +∞).
type Interval struct {
	Start *float64     `yaml:"start" json:"start"`
	End   *float64     `yaml:"end" json:"end"`
	Kind  IntervalKind `yaml:"kind" json:"kind"`
}

// SingularityKind tells a vertical asymptote from other undefined points.
type SingularityKind string

const (
	Asymptote             SingularityKind = "asymptote"
	IndeterminateSingular SingularityKind = "indeterminate"
)

// Singularity is a point where the function is undefined or diverges.
type Singularity struct {
	X    float64         `yaml:"x" json:"x"`
	Kind SingularityKind `yaml:"kind" json:"kind"`
}

// DomainGap is a run of samples where the function is undefined.
type DomainGap struct {
	Start float64 `yaml:"start" json:"start"`
	End   float64 `yaml:"end" json:"end"`
}

// Result is the outcome of one analysis. It is built once and not shared.
type Result struct {
	Input      string `yaml:"input" json:"input"`
	Expression string `yaml:"expression" json:"expression"`
	Domain     Domain `yaml:"domain" json:"domain"`

	CriticalPoints   []CriticalPoint `yaml:"critical_points" json:"critical_points"`
	InflectionPoints []CriticalPoint `yaml:"inflection_points" json:"inflection_points"`
	Increasing       []Interval      `yaml:"increasing" json:"increasing"`
	Decreasing       []Interval      `yaml:"decreasing" json:"decreasing"`
	Concavity        []Interval      `yaml:"concavity" json:"concavity"`

	FirstDerivative       string `yaml:"first_derivative" json:"first_derivative"`
	SecondDerivative      string `yaml:"second_derivative" json:"second_derivative"`
	FirstDerivativeLatex  string `yaml:"first_derivative_latex" json:"first_derivative_latex"`
	SecondDerivativeLatex string `yaml:"second_derivative_latex" json:"second_derivative_latex"`

	Singularities []Singularity `yaml:"singularities,omitempty" json:"singularities,omitempty"`
	DomainGaps    []DomainGap   `yaml:"domain_gaps,omitempty" json:"domain_gaps,omitempty"`
	Messages      []string      `yaml:"messages,omitempty" json:"messages,omitempty"`
}

// HasResults reports whether any point or interval was found.
func (r *Result) HasResults() bool {
	return len(r.CriticalPoints) > 0 || len(r.InflectionPoints) > 0 ||
		len(r.Increasing) > 0 || len(r.Decreasing) > 0 || len(r.Concavity) > 0
}

// AddMessage appends a diagnostic message unless it is already present.
func (r *Result) AddMessage(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if lo.Contains(r.Messages, msg) {
		return
	}
	r.Messages = append(r.Messages, msg)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
