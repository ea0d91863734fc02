package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte("resume"), 0o600))
	}
}

func TestExpandInputs(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"a.txt",
		"b.pdf",
		"notes.md",
		"team/c.docx",
		"team/deep/d.txt",
		"team/deep/d.report.json",
	)

	t.Run("recursive glob keeps resume files", func(t *testing.T) {
		files, err := ExpandInputs([]string{filepath.Join(root, "**", "*")})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			filepath.Join(root, "a.txt"),
			filepath.Join(root, "b.pdf"),
			filepath.Join(root, "team", "c.docx"),
			filepath.Join(root, "team", "deep", "d.txt"),
		}, files)
	})

	t.Run("plain paths pass through in order", func(t *testing.T) {
		files, err := ExpandInputs([]string{
			filepath.Join(root, "b.pdf"),
			filepath.Join(root, "missing.txt"),
			filepath.Join(root, "b.pdf"),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(root, "b.pdf"),
			filepath.Join(root, "missing.txt"),
		}, files)
	})

	t.Run("glob with no matches", func(t *testing.T) {
		_, err := ExpandInputs([]string{filepath.Join(root, "*.html")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no resume files match pattern")
	})

	t.Run("no arguments", func(t *testing.T) {
		_, err := ExpandInputs(nil)
		assert.Error(t, err)
	})
}

func TestReportPath(t *testing.T) {
	tests := []struct {
		name      string
		resume    string
		outputDir string
		format    string
		want      string
	}{
		{"json next to resume", filepath.Join("inbox", "jane.pdf"), "", "json", filepath.Join("inbox", "jane.report.json")},
		{"markdown to output dir", filepath.Join("inbox", "jane.docx"), "out", "markdown", filepath.Join("out", "jane.report.md")},
		{"text", "jane.txt", "", "text", "jane.report.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReportPath(tt.resume, tt.outputDir, tt.format)
			assert.Equal(t, tt.want, got)
			assert.True(t, IsReportFile(got))
		})
	}
	assert.False(t, IsReportFile("jane.pdf"))
}

func TestValidateInputFile(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.txt")

	assert.NoError(t, ValidateInputFile(filepath.Join(root, "a.txt")))
	assert.ErrorContains(t, ValidateInputFile(""), "filename cannot be empty")
	assert.ErrorContains(t, ValidateInputFile(filepath.Join(root, "nope.txt")), "file does not exist")
	assert.ErrorContains(t, ValidateInputFile(root), "path is a directory")
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatFileSize(512))
	assert.Equal(t, "1.5 KB", FormatFileSize(1536))
	assert.Equal(t, "10.0 MB", FormatFileSize(10*1024*1024))
}
