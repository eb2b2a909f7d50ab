// Package discover resolves command-line input paths to the list of WAV
// files the pipeline will analyze.
package discover

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gabriel-vasile/mimetype"
)

// ErrNoInputs indicates that no usable WAV files remained after filtering.
var ErrNoInputs = errors.New("no valid WAV files found in inputs")

// wavMIMETypes are the WAV-family MIME types accepted by the pipeline.
// Anything else is skipped with a warning, even with a .wav extension.
var wavMIMETypes = []string{
	"audio/wav",
	"audio/wave",
	"audio/x-wav",
	"audio/vnd.wave",
}

// Collect expands the given input paths into a deduplicated, sorted list of
// absolute WAV file paths. Plain files are sniffed directly; directories are
// walked recursively for *.wav entries, which are sniffed too. Inputs that
// don't exist or aren't WAV are logged and skipped rather than failing the
// run.
func Collect(paths []string, logger *log.Logger) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			logger.Warn("cannot resolve path, skipping", "path", path, "error", err)
			return
		}
		if seen[abs] {
			return
		}
		if !isWAV(abs) {
			logger.Warn("not a WAV file, skipping", "path", path)
			return
		}
		seen[abs] = true
		files = append(files, abs)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			logger.Warn("input path does not exist, skipping", "path", path)
			continue
		}
		if !info.IsDir() {
			add(path)
			continue
		}
		err = filepath.WalkDir(path, func(entry string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Warn("cannot read directory entry, skipping", "path", entry, "error", err)
				return nil
			}
			if d.IsDir() || !strings.EqualFold(filepath.Ext(entry), ".wav") {
				return nil
			}
			add(entry)
			return nil
		})
		if err != nil {
			logger.Warn("failed to walk directory", "path", path, "error", err)
		}
	}

	if len(files) == 0 {
		return nil, ErrNoInputs
	}
	sort.Strings(files)
	return files, nil
}

// isWAV sniffs the file's content type and checks it against the WAV family.
func isWAV(path string) bool {
	mime, err := mimetype.DetectFile(path)
	if err != nil {
		return false
	}
	for _, want := range wavMIMETypes {
		if mime.Is(want) {
			return true
		}
	}
	return false
}

// BaseDir returns the deepest directory containing every file in the list.
// A single file's base is its own directory.
func BaseDir(files []string) string {
	if len(files) == 0 {
		return ""
	}
	base := filepath.Dir(files[0])
	for _, f := range files[1:] {
		for !contains(base, f) {
			parent := filepath.Dir(base)
			if parent == base {
				break
			}
			base = parent
		}
	}
	return base
}

// contains reports whether path sits under dir.
func contains(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
