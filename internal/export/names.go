package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// FileName derives an EDL file name from a project title. Runs of characters
// that are unsafe in a file name collapse into a single underscore, so
// "My Project" becomes "My_Project" rather than a string of punctuation.
// Titles that sanitize away entirely fall back to the given identifier.
func FileName(title, fallback string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '.' || r == '(' || r == ')' {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}

	name := strings.Trim(b.String(), "._")
	if runes := []rune(name); len(runes) > 80 {
		name = strings.Trim(string(runes[:80]), "._")
	}
	if name == "" {
		return fallback
	}
	return name
}

// clipName prepares a clip title for an EDL comment line. The line is free
// text, so only control characters go; editors show the rest as-is.
func clipName(title string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, title)
	cleaned = strings.TrimSpace(cleaned)
	if runes := []rune(cleaned); len(runes) > 160 {
		cleaned = string(runes[:160])
	}
	return cleaned
}

// ValidateOutputDir checks that the requested export destination is an
// existing directory. The caller supplies it verbatim over the API, so it
// must be absolute and already in clean form; anything else (relative paths,
// ".." segments, doubled separators) is rejected rather than normalized.
func ValidateOutputDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("output_dir is required")
	}
	if !filepath.IsAbs(dir) {
		return fmt.Errorf("output_dir must be an absolute path")
	}
	if filepath.Clean(dir) != dir {
		return fmt.Errorf("output_dir must be a clean absolute path")
	}

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("output_dir does not exist")
		}
		return fmt.Errorf("invalid output_dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output_dir is not a directory")
	}
	return nil
}
