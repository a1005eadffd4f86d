package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inflexpoint/app/lang"
)

func domain(min, max float64) Domain {
	return Domain{Min: min, Max: max, Step: 0.1}
}

func TestAnalyzeParabola(t *testing.T) {
	res, err := Analyze("x^2 - 4", domain(-5, 5), AllOptions())
	require.NoError(t, err)

	require.Len(t, res.CriticalPoints, 1)
	p := res.CriticalPoints[0]
	assert.InDelta(t, 0, p.X, 1e-3)
	assert.InDelta(t, -4, p.Y, 1e-3)
	assert.Equal(t, KindMinimum, p.Kind)

	assert.Empty(t, res.InflectionPoints)

	require.Len(t, res.Decreasing, 1)
	require.Len(t, res.Increasing, 1)
	assert.Nil(t, res.Decreasing[0].Start)
	require.NotNil(t, res.Decreasing[0].End)
	assert.InDelta(t, 0, *res.Decreasing[0].End, 1e-3)
	require.NotNil(t, res.Increasing[0].Start)
	assert.InDelta(t, 0, *res.Increasing[0].Start, 1e-3)
	assert.Nil(t, res.Increasing[0].End)

	require.Len(t, res.Concavity, 1)
	assert.Equal(t, ConcaveUp, res.Concavity[0].Kind)

	assert.Equal(t, "2*x", res.FirstDerivative)
	assert.Equal(t, "2", res.SecondDerivative)
	assert.Empty(t, res.Singularities)
	assert.Contains(t, res.Messages, "Polynomial function: defined and continuous for every real x.")
}

func TestAnalyzeAffine(t *testing.T) {
	res, err := Analyze("2*x + 5*x + 3", DefaultDomain(), AllOptions())
	require.NoError(t, err)

	assert.Empty(t, res.CriticalPoints)
	assert.Empty(t, res.InflectionPoints)
	require.Len(t, res.Increasing, 1)
	assert.Nil(t, res.Increasing[0].Start)
	assert.Nil(t, res.Increasing[0].End)
	assert.Empty(t, res.Decreasing)
	assert.Empty(t, res.Concavity)
	assert.Equal(t, "7", res.FirstDerivative)
}

func TestAnalyzeMinimumOutsideDomain(t *testing.T) {
	res, err := Analyze("(x-20)^2", DefaultDomain(), AllOptions())
	require.NoError(t, err)
	assert.Empty(t, res.CriticalPoints)
	require.Len(t, res.Decreasing, 1)
	assert.Empty(t, res.Increasing)

	res, err = Analyze("(x-20)^2", domain(15, 25), AllOptions())
	require.NoError(t, err)
	require.Len(t, res.CriticalPoints, 1)
	assert.InDelta(t, 20, res.CriticalPoints[0].X, 1e-3)
	assert.Equal(t, KindMinimum, res.CriticalPoints[0].Kind)
}

func TestAnalyzeDecreasingLine(t *testing.T) {
	res, err := Analyze("-2x", DefaultDomain(), AllOptions())
	require.NoError(t, err)
	assert.Empty(t, res.CriticalPoints)
	assert.Empty(t, res.Increasing)
	require.Len(t, res.Decreasing, 1)
	assert.Nil(t, res.Decreasing[0].Start)
	assert.Nil(t, res.Decreasing[0].End)
}

func TestAnalyzeShiftedParabola(t *testing.T) {
	res, err := Analyze("x^2+x", DefaultDomain(), AllOptions())
	require.NoError(t, err)
	require.Len(t, res.CriticalPoints, 1)
	assert.InDelta(t, -0.5, res.CriticalPoints[0].X, 1e-3)
	assert.InDelta(t, -0.25, res.CriticalPoints[0].Y, 1e-3)
	assert.Equal(t, KindMinimum, res.CriticalPoints[0].Kind)
}

func TestAnalyzeCubic(t *testing.T) {
	res, err := Analyze("x^3 - 3x", DefaultDomain(), AllOptions())
	require.NoError(t, err)

	require.Len(t, res.CriticalPoints, 2)
	assert.InDelta(t, -1, res.CriticalPoints[0].X, 1e-3)
	assert.Equal(t, KindMaximum, res.CriticalPoints[0].Kind)
	assert.InDelta(t, 1, res.CriticalPoints[1].X, 1e-3)
	assert.Equal(t, KindMinimum, res.CriticalPoints[1].Kind)

	require.Len(t, res.InflectionPoints, 1)
	assert.InDelta(t, 0, res.InflectionPoints[0].X, 1e-3)
	assert.Equal(t, KindInflection, res.InflectionPoints[0].Kind)

	assert.Len(t, res.Increasing, 2)
	assert.Len(t, res.Decreasing, 1)
	require.Len(t, res.Concavity, 2)
	assert.Equal(t, ConcaveDown, res.Concavity[0].Kind)
	assert.Equal(t, ConcaveUp, res.Concavity[1].Kind)
}

func TestAnalyzeConstant(t *testing.T) {
	res, err := Analyze("5", DefaultDomain(), AllOptions())
	require.NoError(t, err)
	assert.False(t, res.HasResults())
	assert.Equal(t, "0", res.FirstDerivative)
	require.NotEmpty(t, res.Messages)
	assert.Contains(t, res.Messages[0], "Constant function")
}

func TestAnalyzeExtremaFlag(t *testing.T) {
	res, err := Analyze("x^2 - 4", domain(-5, 5), Options{CriticalPoints: true})
	require.NoError(t, err)
	require.Len(t, res.CriticalPoints, 1)
	assert.Equal(t, KindIndeterminate, res.CriticalPoints[0].Kind)
	assert.Empty(t, res.Increasing)
	assert.Empty(t, res.Concavity)
}

func TestAnalyzeIntervalsOnly(t *testing.T) {
	res, err := Analyze("x^2 - 4", domain(-5, 5), Options{Intervals: true})
	require.NoError(t, err)
	assert.Empty(t, res.CriticalPoints)
	assert.Len(t, res.Increasing, 1)
	assert.Len(t, res.Decreasing, 1)
}

func TestAnalyzePole(t *testing.T) {
	res, err := Analyze("1/x", DefaultDomain(), AllOptions())
	require.NoError(t, err)

	require.Len(t, res.Singularities, 1)
	assert.InDelta(t, 0, res.Singularities[0].X, 1e-3)
	assert.Equal(t, Asymptote, res.Singularities[0].Kind)

	assert.Empty(t, res.CriticalPoints)
	assert.Empty(t, res.Increasing)
	require.Len(t, res.Decreasing, 2)
	assert.Nil(t, res.Decreasing[0].Start)
	assert.Nil(t, res.Decreasing[1].End)

	require.Len(t, res.Concavity, 2)
	assert.Equal(t, ConcaveDown, res.Concavity[0].Kind)
	assert.Equal(t, ConcaveUp, res.Concavity[1].Kind)
	assert.Contains(t, res.Messages, "Vertical asymptote near x = 0.")
}

func TestAnalyzeOffGridPole(t *testing.T) {
	res, err := Analyze("1/(x-0.05)^2", DefaultDomain(), AllOptions())
	require.NoError(t, err)
	require.Len(t, res.Singularities, 1)
	assert.InDelta(t, 0.05, res.Singularities[0].X, 1e-3)
	assert.Equal(t, Asymptote, res.Singularities[0].Kind)
	assert.Empty(t, res.CriticalPoints)
}

func TestAnalyzeRemovableSingularity(t *testing.T) {
	res, err := Analyze("sin(x)/x", DefaultDomain(), Options{})
	require.NoError(t, err)
	require.Len(t, res.Singularities, 1)
	assert.InDelta(t, 0, res.Singularities[0].X, 1e-9)
	assert.Equal(t, IndeterminateSingular, res.Singularities[0].Kind)
}

func TestAnalyzeDomainGap(t *testing.T) {
	res, err := Analyze("ln(x)", DefaultDomain(), AllOptions())
	require.NoError(t, err)

	require.Len(t, res.DomainGaps, 1)
	assert.InDelta(t, -10, res.DomainGaps[0].Start, 1e-9)
	assert.InDelta(t, -0.1, res.DomainGaps[0].End, 1e-9)
	assert.Contains(t, res.Messages, "Restricted domain: logarithms are only defined for positive arguments.")

	require.Len(t, res.Increasing, 1)
	assert.Empty(t, res.Decreasing)
}

func TestAnalyzeTrigonometric(t *testing.T) {
	res, err := Analyze("sin(x)", DefaultDomain(), AllOptions())
	require.NoError(t, err)

	// Extrema at ±π/2, ±3π/2, ±5π/2 inside [-10, 10].
	require.Len(t, res.CriticalPoints, 6)
	for _, p := range res.CriticalPoints {
		assert.InDelta(t, 1, math.Abs(p.Y), 1e-6)
		if p.Y > 0 {
			assert.Equal(t, KindMaximum, p.Kind)
		} else {
			assert.Equal(t, KindMinimum, p.Kind)
		}
	}
	// Inflections at 0, ±π, ±2π, ±3π.
	assert.Len(t, res.InflectionPoints, 7)
	assert.Contains(t, res.Messages, "Trigonometric function: the pattern repeats with period 2π.")
}

func TestAnalyzeInvalidExpression(t *testing.T) {
	for _, expr := range []string{"sin(x", "x + @ 2", "", "foo(x)", "1/0", "x/(x-x)"} {
		_, err := Analyze(expr, DefaultDomain(), AllOptions())
		require.Error(t, err, expr)
		assert.True(t, errors.Is(err, lang.ErrInvalidExpression), "%q: %v", expr, err)
	}
}

func TestAnalyzeAcceptsValid(t *testing.T) {
	for _, expr := range []string{"sin(x)", "x^2-4"} {
		_, err := Analyze(expr, DefaultDomain(), AllOptions())
		assert.NoError(t, err, expr)
	}
}

func TestAnalyzeInvalidDomain(t *testing.T) {
	tests := []Domain{
		{Min: 1, Max: 1, Step: 0.1},
		{Min: 2, Max: 1, Step: 0.1},
		{Min: -1, Max: 1, Step: 0},
		{Min: -1, Max: 1, Step: -0.1},
		{Min: math.Inf(-1), Max: 1, Step: 0.1},
		{Min: -1, Max: math.NaN(), Step: 0.1},
		{Min: -1e308, Max: 1e308, Step: 1},
		{Min: -1e300, Max: 1e300, Step: 1e-300},
		{Min: 0, Max: 1e7, Step: 1},
	}
	for _, d := range tests {
		_, err := Analyze("x", d, AllOptions())
		assert.ErrorIs(t, err, ErrInvalidDomain, "%+v", d)
	}
}

func TestAnalyzeSampleLimit(t *testing.T) {
	tuning := DefaultTuning()
	tuning.MaxSamples = 20
	a := New(WithTuning(tuning))
	assert.Equal(t, 20, a.Tuning().MaxSamples)

	_, err := a.Analyze("x^2", Domain{Min: -5, Max: 5, Step: 0.5}, AllOptions())
	require.NoError(t, err)

	_, err = a.Analyze("x^2", Domain{Min: -5, Max: 5, Step: 0.25}, AllOptions())
	require.ErrorIs(t, err, ErrInvalidDomain)
	assert.Contains(t, err.Error(), "exceed the limit of 20")
}

func TestNumericError(t *testing.T) {
	err := &NumericError{Msg: "scan", Err: errors.New("boom")}
	assert.ErrorIs(t, err, ErrNumericAnalysis)
	assert.Equal(t, "numeric analysis failed: scan: boom", err.Error())
}

func TestAnalyzerIsReusable(t *testing.T) {
	a := New()
	first, err := a.Analyze("x^2", DefaultDomain(), AllOptions())
	require.NoError(t, err)
	second, err := a.Analyze("x^2", DefaultDomain(), AllOptions())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestShapeMessages(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"tan(x)", "Trigonometric function: the pattern repeats with period π."},
		{"sqrt(x)", "Irrational function: even roots are only defined for non-negative radicands."},
		{"x^0.5", "Irrational function: even roots are only defined for non-negative radicands."},
		{"1/(x-3)", "Rational function: vertical asymptotes may appear where the denominator is zero."},
		{"asin(x/10)", "Restricted domain: asin and acos are only defined for arguments in [-1, 1]."},
		{"exp(x)", "Exponential function: defined for every real x and never crosses its horizontal asymptote."},
		{"abs(x)", "Absolute value: corners where the argument changes sign have no derivative."},
	}
	for _, tt := range tests {
		res, err := Analyze(tt.expr, DefaultDomain(), AllOptions())
		require.NoError(t, err, tt.expr)
		assert.Contains(t, res.Messages, tt.want, tt.expr)
	}
}
