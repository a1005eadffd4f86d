package analysis

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// formatCoord rounds a coordinate to four decimals without printing -0.
func formatCoord(v float64) string {
	return decimal.NewFromFloat(v).Round(4).String()
}

func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// FormatInterval renders an interval as "(a, b)" with ∞ for open ends.
func FormatInterval(iv Interval) string {
	start, end := "-∞", "∞"
	if iv.Start != nil {
		start = fixed(*iv.Start, 2)
	}
	if iv.End != nil {
		end = fixed(*iv.End, 2)
	}
	return fmt.Sprintf("(%s, %s)", start, end)
}

// Summary renders the result as a plain-text report.
func (r *Result) Summary() string {
	var b strings.Builder

	if len(r.CriticalPoints) > 0 {
		b.WriteString("--- Critical points ---\n")
		for _, p := range r.CriticalPoints {
			fmt.Fprintf(&b, "  %s at (%s, %s)\n", p.Kind, fixed(p.X, 4), fixed(p.Y, 4))
		}
		b.WriteString("\n")
	}

	if len(r.InflectionPoints) > 0 {
		b.WriteString("--- Inflection points ---\n")
		for _, p := range r.InflectionPoints {
			fmt.Fprintf(&b, "  (%s, %s)\n", fixed(p.X, 4), fixed(p.Y, 4))
		}
		b.WriteString("\n")
	}

	sections := []struct {
		title string
		ivs   []Interval
	}{
		{"Increasing", r.Increasing},
		{"Decreasing", r.Decreasing},
		{"Concavity", r.Concavity},
	}
	for _, s := range sections {
		if len(s.ivs) == 0 {
			continue
		}
		fmt.Fprintf(&b, "--- %s ---\n", s.title)
		for _, iv := range s.ivs {
			fmt.Fprintf(&b, "  %s → %s\n", FormatInterval(iv), iv.Kind)
		}
		b.WriteString("\n")
	}

	if r.FirstDerivative != "" {
		b.WriteString("--- Derivatives ---\n")
		fmt.Fprintf(&b, "f'(x) = %s\n", r.FirstDerivative)
		if r.SecondDerivative != "" {
			fmt.Fprintf(&b, "f''(x) = %s\n", r.SecondDerivative)
		}
		b.WriteString("\n")
	}

	if len(r.Messages) > 0 {
		b.WriteString("--- Notes ---\n")
		for _, m := range r.Messages {
			fmt.Fprintf(&b, "  %s\n", m)
		}
		b.WriteString("\n")
	}

	if !r.HasResults() {
		b.WriteString("No critical points, inflection points or intervals were found in the domain.\n")
	}
	return b.String()
}
