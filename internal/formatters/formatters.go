package formatters

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"careernav/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "AnalysisReport", &ReportTextFormatter{})
	registry.RegisterFormatter("markdown", "AnalysisReport", &ReportMarkdownFormatter{})
	registry.RegisterFormatter("text", "FileReports", &BatchTextFormatter{})
	registry.RegisterFormatter("markdown", "FileReports", &BatchMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats, sorted
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.AnalysisReport, *types.AnalysisReport:
		return "AnalysisReport"
	case []types.FileReport:
		return "FileReports"
	default:
		return "any"
	}
}

func asReport(data any) (types.AnalysisReport, error) {
	switch r := data.(type) {
	case types.AnalysisReport:
		return r, nil
	case *types.AnalysisReport:
		if r == nil {
			return types.AnalysisReport{}, fmt.Errorf("nil AnalysisReport")
		}
		return *r, nil
	default:
		return types.AnalysisReport{}, fmt.Errorf("expected AnalysisReport, got %T", data)
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	goodStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	fairStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	poorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

func scoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 70:
		return goodStyle
	case score >= 50:
		return fairStyle
	default:
		return poorStyle
	}
}

type detailRow struct {
	label string
	value int
	max   int
}

func detailRows(d types.ScoreDetails) []detailRow {
	return []detailRow{
		{"Contact info", d.ContactInfo, 20},
		{"Experience quality", d.ExperienceQuality, 25},
		{"Skills relevance", d.SkillsRelevance, 20},
		{"Achievements", d.Achievements, 20},
		{"Formatting", d.Formatting, 10},
		{"Keywords", d.Keywords, 5},
	}
}

// ReportTextFormatter renders a report for terminals
type ReportTextFormatter struct{}

func (rtf *ReportTextFormatter) Format(data any) (string, error) {
	report, err := asReport(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder
	writeReportText(&output, report)
	return output.String(), nil
}

func (rtf *ReportTextFormatter) SupportedType() string {
	return "AnalysisReport"
}

func writeReportText(output *strings.Builder, report types.AnalysisReport) {
	output.WriteString(headingStyle.Render("=== RESUME ANALYSIS ===") + "\n")
	score := fmt.Sprintf("%d/100 (grade %s)", report.Score, report.Grade)
	output.WriteString("Score: " + scoreStyle(report.Score).Render(score) + "\n\n")

	output.WriteString(headingStyle.Render("=== SCORE BREAKDOWN ===") + "\n")
	for _, row := range detailRows(report.Details) {
		fmt.Fprintf(output, "%-20s %2d/%d\n", row.label+":", row.value, row.max)
	}
	output.WriteString("\n")

	output.WriteString(headingStyle.Render("=== SKILLS ===") + "\n")
	if len(report.Skills) == 0 {
		output.WriteString("No skills detected\n")
	} else {
		output.WriteString(strings.Join(report.Skills, ", ") + "\n")
	}
	output.WriteString("\n")

	output.WriteString(headingStyle.Render("=== SUGGESTIONS ===") + "\n")
	for i, suggestion := range report.Suggestions {
		fmt.Fprintf(output, "%d. %s\n", i+1, suggestion)
	}
	if len(report.Suggestions) == 0 {
		output.WriteString("None\n")
	}
	output.WriteString("\n")

	output.WriteString(headingStyle.Render("=== SUMMARY ===") + "\n")
	output.WriteString(report.Summary + "\n")
}

// ReportMarkdownFormatter renders a report as markdown
type ReportMarkdownFormatter struct{}

func (rmf *ReportMarkdownFormatter) Format(data any) (string, error) {
	report, err := asReport(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder
	writeReportMarkdown(&output, report, "#")
	return output.String(), nil
}

func (rmf *ReportMarkdownFormatter) SupportedType() string {
	return "AnalysisReport"
}

func writeReportMarkdown(output *strings.Builder, report types.AnalysisReport, level string) {
	output.WriteString(level + " Resume Analysis\n\n")
	fmt.Fprintf(output, "**Score:** %d/100 (grade %s)\n\n", report.Score, report.Grade)

	output.WriteString(level + "# Score Breakdown\n\n")
	output.WriteString("| Area | Score | Max |\n|---|---|---|\n")
	for _, row := range detailRows(report.Details) {
		fmt.Fprintf(output, "| %s | %d | %d |\n", row.label, row.value, row.max)
	}
	output.WriteString("\n")

	output.WriteString(level + "# Skills\n\n")
	if len(report.Skills) == 0 {
		output.WriteString("_No skills detected_\n")
	}
	for _, skill := range report.Skills {
		output.WriteString("- " + skill + "\n")
	}
	output.WriteString("\n")

	output.WriteString(level + "# Suggestions\n\n")
	for i, suggestion := range report.Suggestions {
		fmt.Fprintf(output, "%d. %s\n", i+1, suggestion)
	}
	output.WriteString("\n")

	output.WriteString(level + "# Summary\n\n")
	output.WriteString(report.Summary + "\n")
}

// BatchTextFormatter renders reports for several files
type BatchTextFormatter struct{}

func (btf *BatchTextFormatter) Format(data any) (string, error) {
	reports, ok := data.([]types.FileReport)
	if !ok {
		return "", fmt.Errorf("expected []FileReport, got %T", data)
	}

	var output strings.Builder
	for i, fr := range reports {
		if i > 0 {
			output.WriteString("\n")
		}
		output.WriteString(headingStyle.Render(fmt.Sprintf("##### %s #####", fr.File)) + "\n")
		if fr.Report == nil {
			output.WriteString(poorStyle.Render("Error: "+fr.Error) + "\n")
			continue
		}
		writeReportText(&output, *fr.Report)
	}
	return output.String(), nil
}

func (btf *BatchTextFormatter) SupportedType() string {
	return "FileReports"
}

// BatchMarkdownFormatter renders reports for several files as one document
type BatchMarkdownFormatter struct{}

func (bmf *BatchMarkdownFormatter) Format(data any) (string, error) {
	reports, ok := data.([]types.FileReport)
	if !ok {
		return "", fmt.Errorf("expected []FileReport, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Resume Analysis Batch\n\n")
	output.WriteString("| File | Score | Grade |\n|---|---|---|\n")
	for _, fr := range reports {
		if fr.Report == nil {
			fmt.Fprintf(&output, "| %s | error | - |\n", fr.File)
			continue
		}
		fmt.Fprintf(&output, "| %s | %d | %s |\n", fr.File, fr.Report.Score, fr.Report.Grade)
	}

	for _, fr := range reports {
		output.WriteString("\n## " + fr.File + "\n\n")
		if fr.Report == nil {
			output.WriteString("**Error:** " + fr.Error + "\n")
			continue
		}
		writeReportMarkdown(&output, *fr.Report, "###")
	}
	return output.String(), nil
}

func (bmf *BatchMarkdownFormatter) SupportedType() string {
	return "FileReports"
}

// GlobalRegistry is the default formatter registry instance
var GlobalRegistry = NewFormatterRegistry()
