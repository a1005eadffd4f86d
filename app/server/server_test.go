package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inflexpoint/app/analysis"
	"inflexpoint/app/config"
	"inflexpoint/app/history"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(config.Default(), analysis.New(analysis.WithLogger(logger)), logger)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAnalyze(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/v1/analyze",
		`{"expression":"x^2 - 4","domain":{"min":-5,"max":5,"step":0.1}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	res := decodeBody[AnalyzeResponse](t, rec)
	require.Len(t, res.CriticalPoints, 1)
	assert.Equal(t, analysis.KindMinimum, res.CriticalPoints[0].Kind)
	assert.Equal(t, "2*x", res.FirstDerivative)
	assert.Contains(t, res.Summary, "--- Critical points ---")

	assert.Equal(t, []string{"x^2 - 4"}, s.History().Expressions())
}

func TestAnalyzeOptions(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/api/v1/analyze",
		`{"expression":"x^3 - 3x","options":{"intervals":true}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeBody[AnalyzeResponse](t, rec)
	assert.Empty(t, res.CriticalPoints)
	assert.Len(t, res.Increasing, 2)
	assert.Empty(t, res.Concavity)
}

func TestAnalyzeBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"expression":`},
		{"syntax", `{"expression":"sin(x"}`},
		{"empty", `{"expression":""}`},
		{"undefined everywhere", `{"expression":"1/0"}`},
		{"domain", `{"expression":"x","domain":{"min":1,"max":1,"step":0.1}}`},
		{"doubled operator", `{"expression":"x--2"}`},
		{"too many samples", `{"expression":"x","domain":{"min":-1e300,"max":1e300,"step":1e-300}}`},
		{"above sample limit", `{"expression":"x","domain":{"min":0,"max":1e7,"step":1}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			rec := do(t, s, http.MethodPost, "/api/v1/analyze", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decodeBody[ErrorResponse](t, rec).Error)
			assert.Equal(t, 0, s.History().Len())
		})
	}
}

func TestErrorPosition(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/api/v1/evaluate", `{"expression":"x+)","x":[1]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)
	require.NotNil(t, resp.Position)
	assert.Equal(t, 2, *resp.Position)
}

func TestNumericFailureStatus(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.writeError(rec, &analysis.NumericError{Msg: "scan", Err: errors.New("boom")})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestEvaluate(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/api/v1/evaluate",
		`{"expression":"ln(x)","x":[1,-1]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[EvaluateResponse](t, rec)
	require.Len(t, resp.Points, 2)
	require.NotNil(t, resp.Points[0].Y)
	assert.InDelta(t, 0, *resp.Points[0].Y, 1e-12)
	assert.Nil(t, resp.Points[1].Y)
}

func TestDerivative(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/derivative", `{"expression":"x^2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[DerivativeResponse](t, rec)
	assert.Equal(t, 1, resp.Order)
	assert.Equal(t, "2*x", resp.Derivative)
	assert.Equal(t, "2x", resp.Latex)
	assert.Equal(t, "x^{2}", resp.Display)

	rec = do(t, s, http.MethodPost, "/api/v1/derivative", `{"expression":"x^3","order":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "6*x", decodeBody[DerivativeResponse](t, rec).Derivative)

	rec = do(t, s, http.MethodPost, "/api/v1/derivative", `{"expression":"x","order":3}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/v1/derivative", `{"expression":"x^^2"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryEndpoints(t *testing.T) {
	s := newTestServer(t)
	for _, expr := range []string{"x^2", "sin(x)"} {
		rec := do(t, s, http.MethodPost, "/api/v1/analyze", `{"expression":"`+expr+`"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := do(t, s, http.MethodGet, "/api/v1/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decodeBody[[]history.Entry](t, rec)
	require.Len(t, entries, 2)
	assert.Equal(t, "x^2", entries[0].Expression)

	rec = do(t, s, http.MethodDelete, "/api/v1/history/"+entries[0].ID.String(), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"sin(x)"}, s.History().Expressions())

	rec = do(t, s, http.MethodDelete, "/api/v1/history/"+entries[0].ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodDelete, "/api/v1/history/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodDelete, "/api/v1/history", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, s.History().Len())
}

func TestMethodNotAllowed(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/v1/analyze", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
