package server

import "inflexpoint/app/analysis"

type AnalyzeRequest struct {
	Expression string            `json:"expression"`
	Domain     *analysis.Domain  `json:"domain,omitempty"`
	Options    *analysis.Options `json:"options,omitempty"`
}

type AnalyzeResponse struct {
	*analysis.Result
	Summary string `json:"summary"`
}

type EvaluateRequest struct {
	Expression string    `json:"expression"`
	X          []float64 `json:"x"`
}

// Point is one evaluation. Y is nil where the function is undefined.
type Point struct {
	X float64  `json:"x"`
	Y *float64 `json:"y"`
}

type EvaluateResponse struct {
	Expression string  `json:"expression"`
	Points     []Point `json:"points"`
}

type DerivativeRequest struct {
	Expression string `json:"expression"`
	Order      int    `json:"order,omitempty"` // 1 (default) or 2
}

type DerivativeResponse struct {
	Expression string `json:"expression"`
	Order      int    `json:"order"`
	Derivative string `json:"derivative"`
	Latex      string `json:"latex"`
	Display    string `json:"display"`
}

type ErrorResponse struct {
	Error    string `json:"error"`
	Position *int   `json:"position,omitempty"`
}
