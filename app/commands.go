package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"

	"inflexpoint/app/analysis"
	"inflexpoint/app/config"
	"inflexpoint/app/lang"
	"inflexpoint/app/server"
)

// Sentinel errors for command operations
var (
	ErrNoPoints      = errors.New("at least one x value is required")
	ErrLinesRejected = errors.New("one or more lines failed to analyze")
)

// Context is shared by every command.
type Context struct {
	Config  *config.Config
	Logger  *slog.Logger
	Verbose bool
	Out     io.Writer
}

// Analyzer returns an analyzer tuned from the configuration.
func (c *Context) Analyzer() *analysis.Analyzer {
	return analysis.New(analysis.WithTuning(c.Config.Tuning()), analysis.WithLogger(c.Logger))
}

// DomainFlags override the configured scan domain.
type DomainFlags struct {
	Min  *float64 `help:"Domain start (default from config)."`
	Max  *float64 `help:"Domain end (default from config)."`
	Step *float64 `help:"Sampling step (default from config)."`
}

func (f DomainFlags) resolve(base analysis.Domain) analysis.Domain {
	if f.Min != nil {
		base.Min = *f.Min
	}
	if f.Max != nil {
		base.Max = *f.Max
	}
	if f.Step != nil {
		base.Step = *f.Step
	}
	return base
}

// optionsFor maps --only names to analysis options; no names selects all.
func optionsFor(only []string) analysis.Options {
	if len(only) == 0 {
		return analysis.AllOptions()
	}
	var o analysis.Options
	for _, name := range only {
		switch name {
		case "critical":
			o.CriticalPoints = true
		case "intervals":
			o.Intervals = true
		case "extrema":
			o.Extrema = true
		case "inflection":
			o.Inflection = true
		case "concavity":
			o.Concavity = true
		}
	}
	return o
}

// AnalyzeCmd analyzes one expression.
type AnalyzeCmd struct {
	Expression string   `arg:"" help:"Expression in x, e.g. \"x^3 - 3x\"."`
	Only       []string `help:"Restrict the analysis to these artifacts." enum:"critical,intervals,extrema,inflection,concavity" sep:","`
	Format     string   `help:"Output format." enum:"text,yaml,json" default:"text" short:"f"`

	DomainFlags `embed:""`
}

func (cmd *AnalyzeCmd) Run(ctx *Context) error {
	domain := cmd.resolve(ctx.Config.AnalysisDomain())
	res, err := ctx.Analyzer().Analyze(cmd.Expression, domain, optionsFor(cmd.Only))
	if err != nil {
		return describeError(cmd.Expression, err)
	}
	return writeResult(ctx.Out, cmd.Format, res)
}

// EvalCmd evaluates an expression at one or more points.
type EvalCmd struct {
	Expression string    `arg:"" help:"Expression in x."`
	X          []float64 `arg:"" name:"x" help:"Points to evaluate at; separate negative values with --." optional:""`
}

func (cmd *EvalCmd) Run(ctx *Context) error {
	if len(cmd.X) == 0 {
		return ErrNoPoints
	}
	ev, err := lang.Compile(cmd.Expression)
	if err != nil {
		return describeError(cmd.Expression, err)
	}
	for _, x := range cmd.X {
		y, err := ev.Evaluate(x)
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.Out, "f(%s) = %s\n", lang.FormatNumber(x), resultColor.Sprint(lang.FormatNumber(y)))
	}
	return nil
}

// DeriveCmd prints a symbolic derivative.
type DeriveCmd struct {
	Expression string `arg:"" help:"Expression in x."`
	Second     bool   `help:"Print the second derivative."`
	Latex      bool   `help:"Render as LaTeX."`
}

func (cmd *DeriveCmd) Run(ctx *Context) error {
	if _, err := lang.Compile(cmd.Expression); err != nil {
		return describeError(cmd.Expression, err)
	}

	order, label := 1, "f'(x)"
	text := lang.Differentiate(cmd.Expression)
	if cmd.Second {
		order, label = 2, "f''(x)"
		text = lang.DifferentiateTwice(cmd.Expression)
	}
	if cmd.Latex {
		if node, err := lang.DerivativeTree(cmd.Expression, order); err == nil {
			text = lang.FormatLatex(node)
		}
		fmt.Fprintln(ctx.Out, text)
		return nil
	}
	fmt.Fprintf(ctx.Out, "%s = %s\n", headerColor.Sprint(label), Highlight(text))
	return nil
}

// LatexCmd prints the LaTeX rendering of an expression.
type LatexCmd struct {
	Expression string `arg:"" help:"Expression in x."`
}

func (cmd *LatexCmd) Run(ctx *Context) error {
	if _, err := lang.Compile(cmd.Expression); err != nil {
		return describeError(cmd.Expression, err)
	}
	fmt.Fprintln(ctx.Out, lang.ToDisplayForm(cmd.Expression))
	return nil
}

// BatchCmd analyzes a file with one expression per line.
type BatchCmd struct {
	File   string   `arg:"" help:"File with one expression per line; // and ; start comments." type:"existingfile"`
	Only   []string `help:"Restrict the analysis to these artifacts." enum:"critical,intervals,extrema,inflection,concavity" sep:","`
	Format string   `help:"Output format." enum:"text,yaml,json" default:"text" short:"f"`
	Output string   `help:"Write the report to this file instead of stdout." short:"o" type:"path"`

	DomainFlags `embed:""`
}

func (cmd *BatchCmd) Run(ctx *Context) error {
	file, err := LoadFile(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cmd.File, err)
	}

	session := analysis.NewSession(ctx.Analyzer(), cmd.resolve(ctx.Config.AnalysisDomain()), optionsFor(cmd.Only))
	results := session.AnalyzeAll(file.Lines())
	ctx.Logger.Debug("batch analyzed", "file", file.Name(), "lines", file.LineCount(), "analyses", session.Analyses())

	out := ctx.Out
	var buf bytes.Buffer
	if cmd.Output != "" {
		out = &buf
		// Files never get escape codes.
		saved := color.NoColor
		color.NoColor = true
		defer func() { color.NoColor = saved }()
	}
	if err := writeBatch(out, cmd.Format, results); err != nil {
		return err
	}
	if cmd.Output != "" {
		if err := SaveReport(cmd.Output, buf.Bytes()); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		if ctx.Verbose {
			color.Green("Report written to %s", cmd.Output)
		}
	}

	for _, r := range results {
		if r.Err != nil {
			return ErrLinesRejected
		}
	}
	return nil
}

// ServeCmd runs the HTTP API.
type ServeCmd struct {
	Host string `help:"Listen host (default from config)."`
	Port int    `help:"Listen port (default from config)."`
}

func (cmd *ServeCmd) Run(ctx *Context) error {
	cfg := *ctx.Config
	if cmd.Host != "" {
		cfg.Server.Host = cmd.Host
	}
	if cmd.Port != 0 {
		cfg.Server.Port = cmd.Port
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return server.New(&cfg, ctx.Analyzer(), ctx.Logger).Run()
}

// describeError adds a caret under the failing position of an expression
// error.
func describeError(expr string, err error) error {
	var exprErr *lang.ExprError
	if !errors.As(err, &exprErr) || exprErr.Pos < 0 {
		return err
	}
	normalized := lang.Normalize(expr)
	pos := min(exprErr.Pos, len(normalized))
	return fmt.Errorf("%w\n  %s\n  %s^", err, normalized, bytes.Repeat([]byte(" "), pos))
}
