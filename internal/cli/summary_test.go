package cli

import (
	"strings"
	"testing"

	"github.com/schtschenok/aqc/internal/analysis"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"float", -3.5, "-3.50"},
		{"integer", 2, "2"},
		{"string", "PCM_16", "PCM_16"},
		{"nil", nil, "-"},
		{"tiny", 0.00001, "1.00e-05"},
		{"zero", 0.0, "0.00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatValue(tc.value); got != tc.want {
				t.Errorf("formatValue(%v) = %q, want %q", tc.value, got, tc.want)
			}
		})
	}
}

func TestRenderResults(t *testing.T) {
	pass := true
	fail := false
	results := analysis.NewFileResult()
	results.Set("peak", analysis.Result{Pass: &pass, Value: -3.5, Unit: "dB"})
	results.Set("channel_count", analysis.Result{Pass: &fail, Value: 2, Unit: "Channels"})
	results.Set("lufs", analysis.Result{Pass: nil, Value: nil, Unit: "dB"})

	out := renderResults(results)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "peak") || !strings.Contains(lines[0], "-3.50") {
		t.Errorf("peak row malformed: %q", lines[0])
	}
	if !strings.Contains(lines[1], "FAIL") {
		t.Errorf("failing row should be marked: %q", lines[1])
	}
	if !strings.Contains(lines[2], "n/a") {
		t.Errorf("inapplicable row should show n/a: %q", lines[2])
	}

	if got := renderResults(analysis.NewFileResult()); got != "" {
		t.Errorf("empty results should render nothing, got %q", got)
	}
}
