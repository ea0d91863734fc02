package formatters

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careernav/internal/types"
)

func sampleReport() types.AnalysisReport {
	return types.AnalysisReport{
		Score:       46,
		Grade:       "D",
		Skills:      []string{"python", "react"},
		Suggestions: []string{"Add quantifiable achievements with specific numbers, percentages, or metrics"},
		Summary:     "Analysis complete: 2 skills detected, 4 action verbs found, 2 quantifiable achievements identified across 24 words.",
		Details: types.ScoreDetails{
			ContactInfo: 10, ExperienceQuality: 8, SkillsRelevance: 17,
			Achievements: 6, Formatting: 3, Keywords: 2,
		},
	}
}

func TestJSONFormatterUsesReportFieldNames(t *testing.T) {
	out, err := GlobalRegistry.Format(sampleReport(), "json")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.EqualValues(t, 46, decoded["score"])
	details, ok := decoded["details"].(map[string]any)
	require.True(t, ok)
	for _, key := range []string{"contact_info", "experience_quality", "skills_relevance", "achievements", "formatting", "keywords"} {
		assert.Contains(t, details, key)
	}
	assert.True(t, strings.HasPrefix(out, "{\n  \""), "expected two space indentation")
}

func TestReportTextFormatter(t *testing.T) {
	report := sampleReport()

	for _, data := range []any{report, &report} {
		out, err := GlobalRegistry.Format(data, "text")
		require.NoError(t, err)
		assert.Contains(t, out, "=== RESUME ANALYSIS ===")
		assert.Contains(t, out, "46/100 (grade D)")
		assert.Contains(t, out, "Experience quality:")
		assert.Contains(t, out, "python, react")
		assert.Contains(t, out, "1. Add quantifiable achievements")
		assert.Contains(t, out, report.Summary)
	}
}

func TestReportTextFormatterEmptySkills(t *testing.T) {
	report := sampleReport()
	report.Skills = nil
	report.Suggestions = nil

	out, err := (&ReportTextFormatter{}).Format(report)
	require.NoError(t, err)
	assert.Contains(t, out, "No skills detected")
	assert.Contains(t, out, "None")
}

func TestReportMarkdownFormatter(t *testing.T) {
	out, err := GlobalRegistry.Format(sampleReport(), "markdown")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Resume Analysis"))
	assert.Contains(t, out, "| Skills relevance | 17 | 20 |")
	assert.Contains(t, out, "- react")
}

func TestBatchFormatters(t *testing.T) {
	report := sampleReport()
	batch := []types.FileReport{
		{File: "a.txt", Report: &report},
		{File: "b.pdf", Error: "EXTRACTION_FAILED: Error extracting text"},
	}

	text, err := GlobalRegistry.Format(batch, "text")
	require.NoError(t, err)
	assert.Contains(t, text, "##### a.txt #####")
	assert.Contains(t, text, "Error: EXTRACTION_FAILED")

	md, err := GlobalRegistry.Format(batch, "markdown")
	require.NoError(t, err)
	assert.Contains(t, md, "| a.txt | 46 | D |")
	assert.Contains(t, md, "| b.pdf | error | - |")
	assert.Contains(t, md, "### Resume Analysis")
}

func TestFormatterTypeMismatch(t *testing.T) {
	_, err := (&ReportTextFormatter{}).Format("not a report")
	assert.Error(t, err)

	_, err = (&BatchMarkdownFormatter{}).Format(sampleReport())
	assert.Error(t, err)
}

func TestUnknownFormat(t *testing.T) {
	_, err := GlobalRegistry.Format(sampleReport(), "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no formatter found for format 'xml'")
}

func TestGetSupportedFormats(t *testing.T) {
	assert.Equal(t, []string{"json", "markdown", "text"}, GlobalRegistry.GetSupportedFormats())
}
