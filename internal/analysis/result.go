package analysis

import (
	"bytes"
	"encoding/json"
)

// Units reported alongside metric values.
const (
	unitDB       = "dB"
	unitDBTP     = "dBTP"
	unitSeconds  = "Seconds"
	unitChannels = "Channels"
	unitNone     = ""
)

// Result is the outcome of one analyzer run on one file.
//
// Pass is tri-state: true/false when a bound or equality reference was
// supplied and checked, nil (JSON null) when no reference was given or the
// metric is structurally inapplicable to the file. Value is a number, string
// or nil.
type Result struct {
	Pass  *bool  `json:"pass"`
	Value any    `json:"value"`
	Unit  string `json:"unit"`
}

// inapplicable is the result for metrics that do not apply to the file at all
// (loudness on >2 channels, channel difference on mono).
func inapplicable(unit string) Result {
	return Result{Pass: nil, Value: nil, Unit: unit}
}

// FileResult accumulates analyzer results for one file, preserving the order
// in which analyzers were first added. Re-adding an existing analyzer replaces
// its result but keeps its original position.
type FileResult struct {
	names   []string
	results map[string]Result
}

// NewFileResult returns an empty result accumulator.
func NewFileResult() *FileResult {
	return &FileResult{results: make(map[string]Result)}
}

// Set stores the result for an analyzer. Last write wins.
func (fr *FileResult) Set(name string, r Result) {
	if _, ok := fr.results[name]; !ok {
		fr.names = append(fr.names, name)
	}
	fr.results[name] = r
}

// Get returns the result for an analyzer, if present.
func (fr *FileResult) Get(name string) (Result, bool) {
	r, ok := fr.results[name]
	return r, ok
}

// Names returns the analyzer names in insertion order.
func (fr *FileResult) Names() []string {
	out := make([]string, len(fr.names))
	copy(out, fr.names)
	return out
}

// Len reports the number of stored results.
func (fr *FileResult) Len() int { return len(fr.names) }

// FailureCount reports how many results have an explicit failing pass.
// Unknown (nil) passes are not failures.
func (fr *FileResult) FailureCount() int {
	var n int
	for _, r := range fr.results {
		if r.Pass != nil && !*r.Pass {
			n++
		}
	}
	return n
}

// MarshalJSON serializes results as an object keyed by analyzer name, in
// insertion order. encoding/json's map type would sort the keys instead.
func (fr *FileResult) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range fr.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(fr.results[name])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// passOf lifts a bool into the tri-state pass pointer.
func passOf(b bool) *bool {
	return &b
}
