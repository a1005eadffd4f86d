//go:build js && wasm

package main

import (
	"encoding/json"
	"math"
	"strings"
	"syscall/js"

	"inflexpoint/app/analysis"
	"inflexpoint/app/history"
	"inflexpoint/app/lang"
)

var (
	analyzer = analysis.New()
	session  = analysis.NewSession(analyzer, analysis.DefaultDomain(), analysis.AllOptions())
	entries  = history.New()
)

// errorObject returns {error: msg} for the page to display.
func errorObject(err error) js.Value {
	obj := js.Global().Get("Object").New()
	obj.Set("error", err.Error())
	return obj
}

// domainArgs reads optional (min, max, step) arguments starting at args[from].
func domainArgs(args []js.Value, from int) analysis.Domain {
	d := analysis.DefaultDomain()
	fields := []*float64{&d.Min, &d.Max, &d.Step}
	for i, f := range fields {
		if from+i < len(args) && args[from+i].Type() == js.TypeNumber {
			*f = args[from+i].Float()
		}
	}
	return d
}

func main() {
	// analyze(expr, min?, max?, step?) returns the result as a JSON string.
	js.Global().Set("analyze", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) < 1 {
			return nil
		}
		expr := args[0].String()
		res, err := analyzer.Analyze(expr, domainArgs(args, 1), analysis.AllOptions())
		if err != nil {
			return errorObject(err)
		}
		entries.Add(expr)
		data, err := json.Marshal(res)
		if err != nil {
			return errorObject(err)
		}
		return string(data)
	}))

	// evaluate(expr, x) returns f(x), or null where f is undefined.
	js.Global().Set("evaluate", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) < 2 {
			return nil
		}
		v, err := lang.Evaluate(args[0].String(), args[1].Float())
		if err != nil {
			return errorObject(err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return v
	}))

	js.Global().Set("differentiate", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) < 1 {
			return nil
		}
		return lang.Differentiate(args[0].String())
	}))

	js.Global().Set("differentiateTwice", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) < 1 {
			return nil
		}
		return lang.DifferentiateTwice(args[0].String())
	}))

	js.Global().Set("toDisplayForm", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) < 1 {
			return nil
		}
		return lang.ToDisplayForm(args[0].String())
	}))

	// analyzeLines(text, min?, max?, step?) analyzes one expression per line,
	// re-analyzing only the lines that changed since the last call.
	js.Global().Set("analyzeLines", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) < 1 {
			return nil
		}
		session.SetDomain(domainArgs(args, 1))
		results := session.AnalyzeAll(strings.Split(args[0].String(), "\n"))

		arr := js.Global().Get("Array").New(len(results))
		for i, r := range results {
			obj := js.Global().Get("Object").New()
			obj.Set("line", r.Line)
			obj.Set("skipped", r.Skipped)
			switch {
			case r.Err != nil:
				obj.Set("text", r.Err.Error())
				obj.Set("isErr", true)
			case r.Result != nil:
				obj.Set("text", r.Result.Summary())
				obj.Set("isErr", false)
			}
			arr.SetIndex(i, obj)
		}
		return arr
	}))

	js.Global().Set("history", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		exprs := entries.Expressions()
		arr := js.Global().Get("Array").New(len(exprs))
		for i, e := range exprs {
			arr.SetIndex(i, e)
		}
		return arr
	}))

	js.Global().Set("clearHistory", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		entries.Clear()
		return nil
	}))

	// Signal that WASM is ready
	js.Global().Set("_wasmReady", true)
	onReady := js.Global().Get("_onWasmReady")
	if !onReady.IsUndefined() && !onReady.IsNull() {
		onReady.Invoke()
	}

	// Block forever
	select {}
}
