package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"

	"inflexpoint/app/analysis"
)

var (
	headerColor  = color.New(color.FgHiWhite, color.Bold)
	sectionColor = color.New(color.FgYellow)
	noteColor    = color.New(color.FgHiBlack)
)

// batchEntry is the serialized form of one analyzed line.
type batchEntry struct {
	Line       int              `json:"line" yaml:"line"`
	Expression string           `json:"expression" yaml:"expression"`
	Result     *analysis.Result `json:"result,omitempty" yaml:"result,omitempty"`
	Error      string           `json:"error,omitempty" yaml:"error,omitempty"`
}

// encode writes v as YAML or indented JSON.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return fmt.Errorf("unknown format %q", format)
}

// writeResult renders one analysis in the requested format.
func writeResult(w io.Writer, format string, res *analysis.Result) error {
	if format != "text" {
		return encode(w, format, res)
	}

	fmt.Fprintf(w, "%s %s\n", headerColor.Sprint("f(x) ="), Highlight(res.Expression))
	fmt.Fprintf(w, "%s\n\n", noteColor.Sprintf("domain [%v, %v], step %v", res.Domain.Min, res.Domain.Max, res.Domain.Step))
	for _, line := range strings.Split(res.Summary(), "\n") {
		if strings.HasPrefix(line, "---") {
			fmt.Fprintln(w, sectionColor.Sprint(line))
			continue
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

// writeBatch renders the outcome of a batch run.
func writeBatch(w io.Writer, format string, results []analysis.LineResult) error {
	if format == "text" {
		WriteGutter(w, results)
		return nil
	}

	var entries []batchEntry
	for _, r := range results {
		if r.Skipped {
			continue
		}
		e := batchEntry{Line: r.Line, Expression: strings.TrimSpace(r.Text), Result: r.Result}
		if r.Err != nil {
			e.Error = r.Err.Error()
		}
		entries = append(entries, e)
	}
	return encode(w, format, entries)
}
