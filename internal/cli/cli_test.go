package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careernav/internal/common"
	"careernav/internal/config"
	appErrors "careernav/internal/errors"
	"careernav/internal/types"
)

const janeResume = "Experienced Software Engineer. Email: jane@example.com. github.com/janedoe. " +
	"Developed and led a team, improved performance by 40%, reduced costs by $50,000. " +
	"Skills: Python, React, AWS, Docker."

func testConfig() *config.Config {
	return &config.Config{
		NLP: config.NLPConfig{Provider: "none"},
		App: config.AppConfig{
			LogLevel:         "error",
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "text", "markdown"},
			MaxFileSize:      1 << 20,
		},
	}
}

func execute(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	logger, err := appErrors.New("error")
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		analyzeConfig = common.CommandConfig{Concurrency: 4}
	})

	err = Execute(context.Background(), cfg, logger)
	return buf.String(), err
}

func TestAnalyzeCommandWritesReport(t *testing.T) {
	dir := t.TempDir()
	resume := filepath.Join(dir, "jane.txt")
	require.NoError(t, os.WriteFile(resume, []byte(janeResume), 0o600))
	out := filepath.Join(dir, "report.json")

	_, err := execute(t, testConfig(), "analyze", resume, "-o", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var report types.AnalysisReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, 46, report.Score)
	assert.Equal(t, "D", report.Grade)
	assert.Equal(t, []string{"python", "react", "aws", "docker", "github"}, report.Skills)
}

func TestAnalyzeCommandRejectsUnknownFormat(t *testing.T) {
	resume := filepath.Join(t.TempDir(), "jane.txt")
	require.NoError(t, os.WriteFile(resume, []byte(janeResume), 0o600))

	_, err := execute(t, testConfig(), "analyze", resume, "--format", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, testConfig(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "careernav version "+Version)
}

func TestOverrideString(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("port", "", "")
	cmd.Flags().String("host", "", "")
	cmd.Flags().Int("concurrency", 0, "")
	require.NoError(t, cmd.Flags().Set("port", "9090"))
	require.NoError(t, cmd.Flags().Set("concurrency", "8"))

	port, host, concurrency := "8080", "localhost", 2
	overrideString(cmd, "port", &port)
	overrideString(cmd, "host", &host)
	overrideInt(cmd, "concurrency", &concurrency)

	assert.Equal(t, "9090", port)
	assert.Equal(t, "localhost", host)
	assert.Equal(t, 8, concurrency)
}
