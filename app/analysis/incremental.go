package analysis

import "strings"

// CachedLine holds the cached state for a single line.
type CachedLine struct {
	Text    string
	Result  *Result
	Err     error
	IsEmpty bool // line was blank or comment
}

// LineResult is the outcome of analyzing one line of a buffer.
type LineResult struct {
	Line    int // 1-based
	Text    string
	Result  *Result
	Err     error
	Skipped bool // blank or comment
}

// Session analyzes a multi-line buffer, one expression per line, and
// re-analyzes only the lines whose text changed since the previous call.
// Changing the domain or the options drops the cache. A Session is not safe
// for concurrent use.
type Session struct {
	analyzer *Analyzer
	domain   Domain
	options  Options
	lines    []CachedLine
	analyses int
}

// NewSession returns an empty session analyzing with a over domain.
func NewSession(a *Analyzer, domain Domain, opts Options) *Session {
	return &Session{analyzer: a, domain: domain, options: opts}
}

// SetDomain changes the scan domain and invalidates every cached line.
func (s *Session) SetDomain(d Domain) {
	if d != s.domain {
		s.domain = d
		s.lines = nil
	}
}

// SetOptions changes the analysis options and invalidates every cached line.
func (s *Session) SetOptions(o Options) {
	if o != s.options {
		s.options = o
		s.lines = nil
	}
}

// Domain returns the session's scan domain.
func (s *Session) Domain() Domain { return s.domain }

// Analyses returns how many lines were analyzed from scratch so far.
func (s *Session) Analyses() int { return s.analyses }

// AnalyzeText splits text on newlines and analyzes every line.
func (s *Session) AnalyzeText(text string) []LineResult {
	return s.AnalyzeAll(strings.Split(text, "\n"))
}

// AnalyzeAll analyzes lines, reusing cached results for unchanged ones.
func (s *Session) AnalyzeAll(lines []string) []LineResult {
	results := make([]LineResult, len(lines))

	// Keep the cache for the common prefix of lines; new lines start dirty.
	if len(lines) != len(s.lines) {
		resized := make([]CachedLine, len(lines))
		copy(resized, s.lines)
		for i := len(s.lines); i < len(lines); i++ {
			resized[i].Text = "\x00" // force dirty
		}
		s.lines = resized
	}

	for i, line := range lines {
		cached := &s.lines[i]
		results[i] = LineResult{Line: i + 1, Text: line}

		if cached.Text == line {
			// Clean: emit the cached outcome
			results[i].Result = cached.Result
			results[i].Err = cached.Err
			results[i].Skipped = cached.IsEmpty
			continue
		}

		// Dirty: re-analyze
		cached.Text = line
		trimmed := strings.TrimSpace(line)
		cached.IsEmpty = trimmed == "" || strings.HasPrefix(trimmed, ";") || strings.HasPrefix(trimmed, "//")
		if cached.IsEmpty {
			cached.Result, cached.Err = nil, nil
			results[i].Skipped = true
			continue
		}

		cached.Result, cached.Err = s.analyzer.Analyze(trimmed, s.domain, s.options)
		s.analyses++
		results[i].Result = cached.Result
		results[i].Err = cached.Err
	}

	return results
}
