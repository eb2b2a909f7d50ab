package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/schtschenok/aqc/internal/analysis"
	"github.com/schtschenok/aqc/internal/report"
)

// Status column styles
var (
	passStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00AA00"))

	failStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A40000"))

	skipStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	fileStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)
)

// MissingValue is the placeholder for values that cannot be displayed
const MissingValue = "-"

// PrintSummary writes an aligned per-file results table to stdout, one block
// per analyzed file, in report order.
func PrintSummary(rep *report.Report) {
	for _, path := range rep.Files.Paths() {
		results, ok := rep.Files.Get(path)
		if !ok {
			continue
		}
		fmt.Println(fileStyle.Render(path))
		fmt.Print(renderResults(results))
		fmt.Println()
	}
}

// renderResults renders one file's analyzer results with aligned columns:
// label left-aligned, value right-aligned, unit and status after.
func renderResults(results *analysis.FileResult) string {
	names := results.Names()
	if len(names) == 0 {
		return ""
	}

	labelWidth, valueWidth, unitWidth := 0, 0, 0
	values := make([]string, len(names))
	for i, name := range names {
		r, _ := results.Get(name)
		values[i] = formatValue(r.Value)
		if len(name) > labelWidth {
			labelWidth = len(name)
		}
		if len(values[i]) > valueWidth {
			valueWidth = len(values[i])
		}
		if len(r.Unit) > unitWidth {
			unitWidth = len(r.Unit)
		}
	}

	var sb strings.Builder
	for i, name := range names {
		r, _ := results.Get(name)
		sb.WriteString(fmt.Sprintf("  %-*s  %*s  %-*s  %s\n",
			labelWidth, name, valueWidth, values[i], unitWidth, r.Unit, statusMark(r.Pass)))
	}
	return sb.String()
}

// formatValue formats a result value for display. Numbers get two decimals,
// very small non-zero magnitudes switch to scientific notation, nil shows as
// the missing-value placeholder.
func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return MissingValue
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return MissingValue
		}
		if v != 0 && math.Abs(v) < 0.0001 {
			return fmt.Sprintf("%.2e", v)
		}
		return fmt.Sprintf("%.2f", v)
	case int:
		return fmt.Sprintf("%d", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// statusMark renders the tri-state pass column.
func statusMark(pass *bool) string {
	switch {
	case pass == nil:
		return skipStyle.Render("n/a")
	case *pass:
		return passStyle.Render("pass")
	default:
		return failStyle.Render("FAIL")
	}
}
