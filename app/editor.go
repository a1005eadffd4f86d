package main

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpressionFile is a text file holding one expression per line.
type ExpressionFile struct {
	Path string
	Text string
}

// LoadFile reads path with its line endings normalized to "\n".
func LoadFile(path string) (*ExpressionFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return &ExpressionFile{Path: path, Text: content}, nil
}

// Lines returns the buffer as a slice of lines. A trailing newline does not
// produce an extra empty line.
func (f *ExpressionFile) Lines() []string {
	t := strings.TrimSuffix(f.Text, "\n")
	if t == "" {
		return []string{""}
	}
	return strings.Split(t, "\n")
}

// LineCount returns the number of lines in the buffer.
func (f *ExpressionFile) LineCount() int {
	return len(f.Lines())
}

// Name returns the file name without its directory.
func (f *ExpressionFile) Name() string {
	if f.Path == "" {
		return "untitled"
	}
	return filepath.Base(f.Path)
}

// SaveReport writes a rendered batch report to path.
func SaveReport(path string, report []byte) error {
	return os.WriteFile(path, report, 0644)
}
