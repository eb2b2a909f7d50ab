package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/schtschenok/aqc/internal/analysis"
	"github.com/schtschenok/aqc/internal/audio"
	"github.com/schtschenok/aqc/internal/cli"
	"github.com/schtschenok/aqc/internal/config"
	"github.com/schtschenok/aqc/internal/discover"
	"github.com/schtschenok/aqc/internal/report"
)

var (
	version = "0.0.1"
)

// Exit codes: 0 when every check passed, 1 on a fatal error, 2 when the run
// completed but at least one check failed.
const (
	exitOK           = 0
	exitFatal        = 1
	exitFailedChecks = 2
)

// CLI defines the command-line interface
type CLI struct {
	Version bool     `short:"v" help:"Show version information"`
	Verbose bool     `help:"Enable debug logging"`
	Config  string   `short:"c" type:"path" help:"Path to TOML config file"`
	Inputs  []string `short:"i" type:"path" help:"WAV files or directories to analyze (repeatable)"`
	Output  string   `short:"o" type:"path" default:"aqc_report.json" help:"Path to the JSON report"`
}

func main() {
	os.Exit(run())
}

func run() int {
	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("aqc"),
		kong.Description("Audio quality control for WAV files"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	// Handle version flag
	if cliArgs.Version {
		cli.PrintVersion(version)
		return exitOK
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	if cliArgs.Verbose {
		logger.SetLevel(log.DebugLevel)
	}

	// Validate input
	if cliArgs.Config == "" {
		cli.PrintError("No config file specified")
		ctx.PrintUsage(false)
		return exitFatal
	}
	if len(cliArgs.Inputs) == 0 {
		cli.PrintError("No input files or directories specified")
		ctx.PrintUsage(false)
		return exitFatal
	}

	cfg, err := config.Load(cliArgs.Config)
	if err != nil {
		cli.PrintError(err.Error())
		return exitFatal
	}
	logger.Info("config loaded", "path", cliArgs.Config, "analyzers", cfg.Len())

	files, err := discover.Collect(cliArgs.Inputs, logger)
	if err != nil {
		cli.PrintError(err.Error())
		return exitFatal
	}
	base := discover.BaseDir(files)
	logger.Info("analyzing files", "count", len(files), "base", base)

	rep := report.New(base)
	for _, file := range files {
		logger.Debug("analyzing file", "file", file)
		buf, err := audio.Load(file)
		if err != nil {
			cli.PrintError(fmt.Sprintf("failed to load %s: %v", file, err))
			return exitFatal
		}

		results, err := analysis.AnalyzeFile(buf, cfg, logger)
		if err != nil {
			cli.PrintError(err.Error())
			return exitFatal
		}

		rel, err := filepath.Rel(base, file)
		if err != nil {
			rel = file
		}
		rep.Files.Set(rel, results)
	}

	cli.PrintSummary(rep)

	if err := rep.Write(cliArgs.Output); err != nil {
		cli.PrintError(err.Error())
		return exitFatal
	}
	outPath, err := filepath.Abs(cliArgs.Output)
	if err != nil {
		outPath = cliArgs.Output
	}
	fmt.Printf("%s %s\n", cli.KeyStyle.Render("Report:"), cli.ValueStyle.Render(outPath))

	if failures := rep.FailureCount(); failures > 0 {
		logger.Warn("some checks failed", "failures", failures)
		return exitFailedChecks
	}
	return exitOK
}
