package scoring

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careernav/internal/catalog"
	appErrors "careernav/internal/errors"
	"careernav/internal/nlp"
	"careernav/internal/types"
)

const janeResume = "Experienced Software Engineer. Email: jane@example.com. github.com/janedoe. " +
	"Developed and led a team, improved performance by 40%, reduced costs by $50,000. " +
	"Skills: Python, React, AWS, Docker."

func newTestLogger() *appErrors.Logger {
	logger, _ := appErrors.New("error")
	return logger
}

func newTestEngine(tagger nlp.Tagger) *Engine {
	return NewEngine(catalog.MustDefault(), tagger, newTestLogger())
}

type stubTagger struct {
	tokens []nlp.Token
	err    error
	calls  int
}

func (s *stubTagger) Name() string { return "stub" }

func (s *stubTagger) Tag(ctx context.Context, text string) ([]nlp.Token, error) {
	s.calls++
	return s.tokens, s.err
}

func assertWithinBounds(t *testing.T, report types.AnalysisReport) {
	t.Helper()
	d := report.Details
	assert.True(t, d.ContactInfo >= 0 && d.ContactInfo <= MaxContactInfo, "contact_info %d", d.ContactInfo)
	assert.True(t, d.ExperienceQuality >= 0 && d.ExperienceQuality <= MaxExperienceQuality, "experience_quality %d", d.ExperienceQuality)
	assert.True(t, d.SkillsRelevance >= 0 && d.SkillsRelevance <= MaxSkillsRelevance, "skills_relevance %d", d.SkillsRelevance)
	assert.True(t, d.Achievements >= 0 && d.Achievements <= MaxAchievements, "achievements %d", d.Achievements)
	assert.True(t, d.Formatting >= 0 && d.Formatting <= MaxFormatting, "formatting %d", d.Formatting)
	assert.True(t, d.Keywords >= 0 && d.Keywords <= MaxKeywords, "keywords %d", d.Keywords)
	assert.Equal(t, d.Total(), report.Score)
	assert.True(t, report.Score >= 0 && report.Score <= 100)
	assert.LessOrEqual(t, len(report.Skills), MaxReportedSkills)
	assert.LessOrEqual(t, len(report.Suggestions), MaxSuggestions)

	seen := make(map[string]bool)
	for _, skill := range report.Skills {
		key := strings.ToLower(skill)
		assert.False(t, seen[key], "duplicate skill %q", skill)
		seen[key] = true
	}
}

func TestAnalyzeJaneScenario(t *testing.T) {
	engine := newTestEngine(nil)

	report, err := engine.Analyze(context.Background(), janeResume)
	require.NoError(t, err)
	assertWithinBounds(t, report)

	assert.Equal(t, types.ScoreDetails{
		ContactInfo:       10,
		ExperienceQuality: 8,
		SkillsRelevance:   17,
		Achievements:      6,
		Formatting:        3,
		Keywords:          2,
	}, report.Details)
	assert.Equal(t, 46, report.Score)
	assert.Equal(t, "D", report.Grade)
	assert.Equal(t, []string{"python", "react", "aws", "docker", "github"}, report.Skills)
	assert.Equal(t, []string{
		SuggestContactInfo,
		SuggestActionVerbs,
		SuggestAchievements,
		SuggestFormatting,
		SuggestExpand,
	}, report.Suggestions)
	assert.Equal(t, "Analysis complete: 5 skills detected, 4 action verbs found, "+
		"2 quantifiable achievements identified across 24 words.", report.Summary)
}

func TestAnalyzeEmptyInput(t *testing.T) {
	engine := newTestEngine(nil)

	for _, text := range []string{"", "   ", "\n\t \r\n"} {
		_, err := engine.Analyze(context.Background(), text)
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeEmptyInput), "text %q", text)
	}
}

func TestAnalyzeCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestEngine(nil).Analyze(ctx, janeResume)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeNoSignal(t *testing.T) {
	report, err := newTestEngine(nil).Analyze(context.Background(), "hello there friend")
	require.NoError(t, err)

	assert.Equal(t, 0, report.Score)
	assert.Equal(t, "F", report.Grade)
	assert.Empty(t, report.Skills)
	require.Len(t, report.Suggestions, MaxSuggestions)
	assert.Equal(t, []string{SuggestContactInfo, SuggestActionVerbs, SuggestSkillRange, SuggestAchievements},
		report.Suggestions[:4])
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	engine := newTestEngine(nil)

	first, err := engine.Analyze(context.Background(), janeResume)
	require.NoError(t, err)
	second, err := engine.Analyze(context.Background(), janeResume)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAnalyzeContactMonotonic(t *testing.T) {
	engine := newTestEngine(nil)
	base := "Senior engineer with experience building payment systems."

	before, err := engine.Analyze(context.Background(), base)
	require.NoError(t, err)
	after, err := engine.Analyze(context.Background(), base+" Contact: jane@example.com")
	require.NoError(t, err)

	assert.GreaterOrEqual(t, after.Details.ContactInfo, before.Details.ContactInfo)
	assert.Equal(t, before.Details.ContactInfo+5, after.Details.ContactInfo)
}

func TestAnalyzeWordCountBoundaries(t *testing.T) {
	engine := newTestEngine(nil)

	tests := []struct {
		words      int
		formatting int
	}{
		{99, 0},
		{100, 3},
		{800, 3},
		{801, 0},
	}

	for _, tt := range tests {
		text := strings.TrimSpace(strings.Repeat("lorem ", tt.words))
		report, err := engine.Analyze(context.Background(), text)
		require.NoError(t, err)
		assert.Equal(t, tt.formatting, report.Details.Formatting, "%d words", tt.words)
	}
}

func TestAnalyzeAchievementCap(t *testing.T) {
	report, err := newTestEngine(nil).Analyze(context.Background(), "10% 20% 30% 40% 50% 60% 70%")
	require.NoError(t, err)
	assert.Equal(t, MaxAchievements, report.Details.Achievements)
}

func TestAnalyzeCapsAndDeduplicatesSkills(t *testing.T) {
	text := "JavaScript TypeScript Python python PYTHON Java C++ C# PHP Ruby Go Rust Swift " +
		"Kotlin Scala R Matlab React Angular Vue"

	report, err := newTestEngine(nil).Analyze(context.Background(), text)
	require.NoError(t, err)
	assertWithinBounds(t, report)

	require.Len(t, report.Skills, MaxReportedSkills)
	assert.Equal(t, "javascript", report.Skills[0])
	assert.Equal(t, "matlab", report.Skills[14])
	assert.Contains(t, report.Summary, "18 skills detected")
}

func TestAnalyzeBoundsAcrossInputs(t *testing.T) {
	engine := newTestEngine(nil)
	inputs := []string{
		janeResume,
		strings.Repeat(janeResume+" ", 60),
		strings.Repeat("• Increased revenue 300% to $2,000,000 for 10k+ users 5x faster 2021\n", 40),
		"EXPERIENCE EDUCATION SKILLS PROJECTS SUMMARY OBJECTIVE",
		"achieved developed implemented managed led created designed built optimized improved " +
			"increased reduced streamlined automated delivered coordinated established launched",
		"c++ c# node.js asp.net ci/cd machine learning deep learning scikit-learn",
	}

	for i, text := range inputs {
		report, err := engine.Analyze(context.Background(), text)
		require.NoError(t, err, "input %d", i)
		assertWithinBounds(t, report)
	}
}

func TestAnalyzeAugmentsWithTagger(t *testing.T) {
	tagger := &stubTagger{tokens: []nlp.Token{
		{Text: "Built", POS: "X"},
		{Text: "GraphQL", POS: nlp.POSProperNoun},
		{Text: "APIs", POS: nlp.POSNoun},
		{Text: "with", POS: "X"},
		{Text: "NextJS", POS: nlp.POSProperNoun},
		{Text: "and", POS: "X"},
		{Text: "PostgreSQL", POS: nlp.POSProperNoun},
		{Text: "ui", POS: nlp.POSNoun},
		{Text: "nextjs", POS: nlp.POSNoun},
	}}
	engine := newTestEngine(tagger)
	assert.Equal(t, "stub", engine.DetectionMode())

	report, err := engine.Analyze(context.Background(), "Built GraphQL APIs with NextJS and PostgreSQL ui nextjs")
	require.NoError(t, err)
	assertWithinBounds(t, report)

	assert.Equal(t, []string{"postgresql", "graphql", "apis", "nextjs"}, report.Skills)
	assert.Equal(t, 1, tagger.calls)
}

func TestAnalyzeTaggerFailureFallsBack(t *testing.T) {
	tagger := &stubTagger{err: errors.New("model unavailable")}

	withTagger, err := newTestEngine(tagger).Analyze(context.Background(), janeResume)
	require.NoError(t, err)
	catalogOnly, err := newTestEngine(nil).Analyze(context.Background(), janeResume)
	require.NoError(t, err)

	assert.Equal(t, catalogOnly, withTagger)
	assert.Equal(t, nlp.ProviderNone, newTestEngine(nil).DetectionMode())
}

func TestGrade(t *testing.T) {
	tests := map[int]string{100: "A", 85: "A", 84: "B", 70: "B", 69: "C", 50: "C", 49: "D", 30: "D", 29: "F", 0: "F"}
	for score, want := range tests {
		assert.Equal(t, want, Grade(score), "score %d", score)
	}
}

func BenchmarkAnalyze(b *testing.B) {
	engine := NewEngine(catalog.MustDefault(), nil, nil)
	text := strings.Repeat(janeResume+"\n", 20)
	ctx := context.Background()

	for b.Loop() {
		_, _ = engine.Analyze(ctx, text)
	}
}
