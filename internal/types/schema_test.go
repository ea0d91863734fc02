package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validReport() *AnalysisReport {
	return &AnalysisReport{
		Score:       42,
		Grade:       "D",
		Skills:      []string{"python", "docker"},
		Suggestions: []string{"Add more technical skills relevant to your target position"},
		Summary:     "Analysis complete: 2 skills detected, 0 action verbs found, 0 quantifiable achievements identified across 12 words.",
		Details: ScoreDetails{
			ContactInfo:       10,
			ExperienceQuality: 8,
			SkillsRelevance:   10,
			Achievements:      6,
			Formatting:        5,
			Keywords:          3,
		},
	}
}

func TestScoreDetailsTotal(t *testing.T) {
	assert.Equal(t, 42, validReport().Details.Total())
	assert.Equal(t, 0, ScoreDetails{}.Total())
}

func TestValidateReport(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *AnalysisReport)
		wantErr bool
		field   string
	}{
		{name: "valid report", mutate: func(r *AnalysisReport) {}},
		{name: "empty skills allowed", mutate: func(r *AnalysisReport) { r.Skills = []string{} }},
		{name: "score above maximum", mutate: func(r *AnalysisReport) { r.Score = 101 }, wantErr: true, field: "score"},
		{name: "contact info above cap", mutate: func(r *AnalysisReport) { r.Details.ContactInfo = 25 }, wantErr: true, field: "details.contact_info"},
		{name: "keywords above cap", mutate: func(r *AnalysisReport) { r.Details.Keywords = 6 }, wantErr: true, field: "details.keywords"},
		{
			name: "too many suggestions",
			mutate: func(r *AnalysisReport) {
				r.Suggestions = []string{"a", "b", "c", "d", "e", "f", "g"}
			},
			wantErr: true,
			field:   "suggestions",
		},
		{
			name:    "duplicate skills",
			mutate:  func(r *AnalysisReport) { r.Skills = []string{"go", "go"} },
			wantErr: true,
			field:   "skills",
		},
		{name: "unknown grade", mutate: func(r *AnalysisReport) { r.Grade = "E" }, wantErr: true, field: "grade"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := validReport()
			tt.mutate(report)

			err := ValidateReport(report)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var schemaErr *SchemaError
			require.ErrorAs(t, err, &schemaErr)
			fields := make([]string, 0, len(schemaErr.Errors))
			for _, fe := range schemaErr.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestValidateReportJSONMissingDetails(t *testing.T) {
	err := ValidateReportJSON([]byte(`{"score": 10, "skills": [], "suggestions": [], "summary": "x"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "details")
}

func TestReportSchemaEmbedded(t *testing.T) {
	assert.Contains(t, ReportSchema(), `"contact_info"`)
}
