package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"inflexpoint/app/analysis"
)

var (
	gutterColor    = color.New(color.FgHiBlack)
	resultColor    = color.New(color.FgCyan)
	resultErrColor = color.New(color.FgRed)
)

// gutterDigits returns the width of the line-number column for lineCount
// lines, never less than two.
func gutterDigits(lineCount int) int {
	digits := len(fmt.Sprintf("%d", lineCount))
	if digits < 2 {
		digits = 2
	}
	return digits
}

// WriteGutter prints every line of a batch with its line number in a
// left gutter, followed by the analysis outcome indented under it.
// Skipped lines are printed without an outcome.
func WriteGutter(w io.Writer, results []analysis.LineResult) {
	digits := gutterDigits(len(results))
	fmtStr := fmt.Sprintf("%%%dd │ ", digits)
	blank := strings.Repeat(" ", digits) + " │ "

	for _, r := range results {
		fmt.Fprintf(w, "%s%s\n", gutterColor.Sprintf(fmtStr, r.Line), Highlight(r.Text))

		switch {
		case r.Skipped:
		case r.Err != nil:
			fmt.Fprintf(w, "%s%s\n", gutterColor.Sprint(blank), resultErrColor.Sprint("error: "+r.Err.Error()))
		case r.Result != nil:
			for _, line := range strings.Split(strings.TrimRight(r.Result.Summary(), "\n"), "\n") {
				if line == "" {
					fmt.Fprintln(w, gutterColor.Sprint(strings.TrimRight(blank, " ")))
					continue
				}
				fmt.Fprintf(w, "%s%s\n", gutterColor.Sprint(blank), resultColor.Sprint(line))
			}
		}
	}
}
