package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"inflexpoint/app/config"
)

// CLI represents the command-line interface
var CLI struct {
	Config  string `help:"Configuration file path." default:"inflexpoint.yaml" type:"path"`
	Verbose bool   `help:"Enable debug logging." short:"v"`
	NoColor bool   `help:"Disable colored output."`

	Analyze AnalyzeCmd `cmd:"" help:"Find critical points, intervals and concavity of an expression."`
	Eval    EvalCmd    `cmd:"" help:"Evaluate an expression at the given points."`
	Derive  DeriveCmd  `cmd:"" help:"Print the symbolic derivative of an expression."`
	Latex   LatexCmd   `cmd:"" help:"Print an expression as LaTeX."`
	Batch   BatchCmd   `cmd:"" help:"Analyze every line of a file."`
	Serve   ServeCmd   `cmd:"" help:"Serve the HTTP API."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("inflexpoint"),
		kong.Description("Analyze single-variable functions of x."),
		kong.UsageOnError(),
	)

	if CLI.NoColor {
		color.NoColor = true
	}

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
		os.Exit(1)
	}
	if CLI.Verbose {
		cfg.Log.Level = "debug"
	}
	logger := config.NewLogger(cfg.Log, os.Stderr)
	slog.SetDefault(logger)

	appCtx := &Context{
		Config:  cfg,
		Logger:  logger,
		Verbose: CLI.Verbose,
		Out:     os.Stdout,
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
		os.Exit(1)
	}
}
