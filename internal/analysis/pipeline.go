package analysis

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/schtschenok/aqc/internal/audio"
	"github.com/schtschenok/aqc/internal/config"
)

// AnalyzeFile runs every configured analyzer against one buffer and collects
// their results in configuration order.
//
// Unknown analyzer names and parameters an analyzer does not accept are
// logged and skipped; the remaining analyzers still run. Any other analyzer
// failure aborts the file.
func AnalyzeFile(buf *audio.Buffer, cfg *config.Config, logger *log.Logger) (*FileResult, error) {
	engine := NewEngine(buf)
	results := NewFileResult()

	for _, entry := range cfg.Entries() {
		name := entry.Name
		if !Exists(name) {
			logger.Warn("analyzer does not exist, it won't be used", "analyzer", name)
			continue
		}

		params := make(Params)
		for param, value := range entry.Analyzer.Merged() {
			if !Accepts(name, param) {
				logger.Warn("parameter does not exist in analyzer, it won't be used",
					"analyzer", name, "parameter", param)
				continue
			}
			params[param] = value
		}

		logger.Debug("running analyzer", "analyzer", name, "file", buf.Path)
		result, err := Analyze(engine, name, params)
		if err != nil {
			return nil, fmt.Errorf("analyzer %s failed on %s: %w", name, buf.Path, err)
		}
		logger.Debug("analyzer finished",
			"analyzer", name, "file", buf.Path, "value", result.Value, "unit", result.Unit)

		results.Set(name, result)
	}

	return results, nil
}
