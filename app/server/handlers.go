package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"inflexpoint/app/analysis"
	"inflexpoint/app/lang"
)

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !decode(w, r, &req) {
		return
	}

	domain := s.domain
	if req.Domain != nil {
		domain = *req.Domain
	}
	opts := analysis.AllOptions()
	if req.Options != nil {
		opts = *req.Options
	}

	s.logger.Debug("Received analysis request", "expression", req.Expression, "domain", domain)

	res, err := s.analyzer.Analyze(req.Expression, domain, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.history.Add(req.Expression)

	writeJSON(w, http.StatusOK, AnalyzeResponse{Result: res, Summary: res.Summary()})
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if !decode(w, r, &req) {
		return
	}

	ev, err := lang.Compile(req.Expression)
	if err != nil {
		s.writeError(w, err)
		return
	}

	points := lo.Map(req.X, func(x float64, _ int) Point {
		p := Point{X: x}
		if y := ev.At(x); !math.IsNaN(y) && !math.IsInf(y, 0) {
			p.Y = &y
		}
		return p
	})
	writeJSON(w, http.StatusOK, EvaluateResponse{Expression: ev.Expression(), Points: points})
}

func (s *Server) handleDerivative(w http.ResponseWriter, r *http.Request) {
	var req DerivativeRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Order == 0 {
		req.Order = 1
	}
	if req.Order != 1 && req.Order != 2 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("order must be 1 or 2, got %d", req.Order)})
		return
	}

	if _, err := lang.Compile(req.Expression); err != nil {
		s.writeError(w, err)
		return
	}

	resp := DerivativeResponse{
		Expression: req.Expression,
		Order:      req.Order,
		Display:    lang.ToDisplayForm(req.Expression),
	}
	if req.Order == 1 {
		resp.Derivative = lang.Differentiate(req.Expression)
	} else {
		resp.Derivative = lang.DifferentiateTwice(req.Expression)
	}
	resp.Latex = resp.Derivative
	if node, err := lang.DerivativeTree(req.Expression, req.Order); err == nil {
		resp.Latex = lang.FormatLatex(node)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.history.Entries())
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	s.history.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid id: %v", err)})
		return
	}
	if !s.history.RemoveID(id) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "no history entry " + id.String()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeError maps engine errors onto status codes: bad input is 400, a
// failed numeric scan is 422.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var exprErr *lang.ExprError
	switch {
	case errors.As(err, &exprErr):
		resp := ErrorResponse{Error: err.Error()}
		if exprErr.Pos >= 0 {
			resp.Position = &exprErr.Pos
		}
		writeJSON(w, http.StatusBadRequest, resp)
	case errors.Is(err, analysis.ErrInvalidDomain):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, analysis.ErrNumericAnalysis):
		s.logger.Warn("Analysis request failed", "error", err)
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	default:
		s.logger.Error("Request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("Invalid request: %v", err)})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
