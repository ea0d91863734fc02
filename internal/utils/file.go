package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"careernav/internal/extract"
)

// ValidateInputFile checks if a file exists and is readable
func ValidateInputFile(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	info, err := os.Stat(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", filename)
		}
		return fmt.Errorf("cannot access file %s: %w", filename, err)
	}

	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filename)
	}

	// Check if file is readable
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("cannot read file %s: %w", filename, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file %s: %w", filename, err)
	}

	return nil
}

// ValidateOutputFile checks if the output file path is valid
func ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout is valid
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		// Check if directory exists or can be created
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("cannot create directory %s: %w", dir, err)
			}
		}
	}

	return nil
}

// GetFileExtension returns the file extension in lowercase
func GetFileExtension(filename string) string {
	ext := filepath.Ext(filename)
	return strings.ToLower(ext)
}

// IsResumeFile checks if the file has an extension the extractor understands
func IsResumeFile(filename string) bool {
	return extract.IsSupportedFile(filename)
}

// ExpandInputs turns CLI arguments into a list of files. Arguments containing
// glob meta characters are expanded with ** support and keep only resume
// files; plain paths are passed through untouched so a bad path still
// surfaces as an error later. Duplicates are dropped, first occurrence wins.
func ExpandInputs(args []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			files = append(files, clean)
		}
	}

	for _, arg := range args {
		if !hasGlobMeta(arg) {
			add(arg)
			continue
		}

		base, pattern := doublestar.SplitPattern(filepath.ToSlash(arg))
		matches, err := doublestar.Glob(os.DirFS(base), pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("error evaluating pattern %s: %w", arg, err)
		}

		matched := 0
		for _, match := range matches {
			if !IsResumeFile(match) {
				continue
			}
			add(filepath.Join(filepath.FromSlash(base), filepath.FromSlash(match)))
			matched++
		}
		if matched == 0 {
			return nil, fmt.Errorf("no resume files match pattern %s", arg)
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no input files given")
	}
	return files, nil
}

func hasGlobMeta(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}

// ReportPath names the report written for a resume: <name>.report.<ext>,
// placed in outputDir or next to the resume when outputDir is empty.
func ReportPath(resumePath, outputDir, format string) string {
	dir := filepath.Dir(resumePath)
	if outputDir != "" {
		dir = outputDir
	}
	name := strings.TrimSuffix(filepath.Base(resumePath), filepath.Ext(resumePath))
	return filepath.Join(dir, name+".report."+FormatExtension(format))
}

// IsReportFile reports whether path looks like a report written by ReportPath
func IsReportFile(path string) bool {
	base := filepath.Base(path)
	return strings.Contains(base, ".report.")
}

// FormatExtension maps an output format to a file extension
func FormatExtension(format string) string {
	switch format {
	case "markdown":
		return "md"
	case "text":
		return "txt"
	default:
		return "json"
	}
}

// FormatFileSize returns a human-readable file size
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
