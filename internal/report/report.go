// Package report assembles per-file analysis results into the JSON quality
// report.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/schtschenok/aqc/internal/analysis"
)

// Files is an ordered mapping from relative file path to its analysis
// results. Insertion order is the order files were analyzed in, which the
// JSON output preserves.
type Files struct {
	paths   []string
	results map[string]*analysis.FileResult
}

// NewFiles returns an empty file-result collection.
func NewFiles() *Files {
	return &Files{results: make(map[string]*analysis.FileResult)}
}

// Set stores the results for one file. Last write wins, keeping the file's
// original position.
func (f *Files) Set(path string, fr *analysis.FileResult) {
	if _, ok := f.results[path]; !ok {
		f.paths = append(f.paths, path)
	}
	f.results[path] = fr
}

// Get returns the results for one file, if present.
func (f *Files) Get(path string) (*analysis.FileResult, bool) {
	fr, ok := f.results[path]
	return fr, ok
}

// Paths returns the file paths in insertion order.
func (f *Files) Paths() []string {
	out := make([]string, len(f.paths))
	copy(out, f.paths)
	return out
}

// Len reports the number of files with results.
func (f *Files) Len() int { return len(f.paths) }

// FailureCount sums explicit failures across all files.
func (f *Files) FailureCount() int {
	var n int
	for _, fr := range f.results {
		n += fr.FailureCount()
	}
	return n
}

// MarshalJSON serializes the files as an object in insertion order.
func (f *Files) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, path := range f.paths {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(path)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(f.results[path])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Report is the top-level document written to disk.
type Report struct {
	Date          string `json:"date"`
	BaseDirectory string `json:"base_directory"`
	Files         *Files `json:"files"`
}

// New creates a report stamped with the current local time.
func New(baseDir string) *Report {
	return &Report{
		Date:          time.Now().Format(time.RFC3339),
		BaseDirectory: baseDir,
		Files:         NewFiles(),
	}
}

// FailureCount reports the number of failing checks across the whole report.
func (r *Report) FailureCount() int {
	return r.Files.FailureCount()
}

// Write serializes the report to path as indented JSON.
func (r *Report) Write(path string) error {
	data, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
