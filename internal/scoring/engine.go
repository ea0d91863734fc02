// Package scoring implements the heuristic resume scorer: skill detection,
// six bounded sub-score analyzers, suggestion rules and report assembly.
package scoring

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"careernav/internal/catalog"
	"careernav/internal/errors"
	"careernav/internal/nlp"
	"careernav/internal/types"
)

// MaxReportedSkills bounds the skills list in a report.
const MaxReportedSkills = 15

// Engine scores resume text. It holds only immutable data after
// construction and can serve concurrent requests.
type Engine struct {
	catalog   *catalog.Catalog
	detector  *SkillDetector
	analyzers *Analyzers
	verbs     []string
	logger    *errors.Logger
}

// NewEngine builds an engine over cat. tagger may be nil.
func NewEngine(cat *catalog.Catalog, tagger nlp.Tagger, logger *errors.Logger) *Engine {
	return &Engine{
		catalog:   cat,
		detector:  NewSkillDetector(cat, tagger, logger),
		analyzers: NewAnalyzers(cat),
		verbs:     cat.ActionVerbs(),
		logger:    logger,
	}
}

// Catalog returns the catalog the engine was built with.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// DetectionMode names the skill detection strategy in use.
func (e *Engine) DetectionMode() string {
	return e.detector.Mode()
}

// Analyze scores text. Whitespace-only text is rejected with EMPTY_INPUT.
func (e *Engine) Analyze(ctx context.Context, text string) (types.AnalysisReport, error) {
	if strings.TrimSpace(text) == "" {
		return types.AnalysisReport{}, errors.NewValidationError(errors.ErrCodeEmptyInput,
			"No text content found in the file", nil)
	}
	if err := ctx.Err(); err != nil {
		return types.AnalysisReport{}, err
	}

	tracer := otel.Tracer("careernav.scoring")
	ctx, span := tracer.Start(ctx, "scoring.analyze")
	defer span.End()

	start := time.Now()
	skills := e.detector.Detect(ctx, text)

	var details types.ScoreDetails
	var g errgroup.Group
	g.Go(func() error { details.ContactInfo = e.analyzers.ContactInfo(text); return nil })
	g.Go(func() error { details.ExperienceQuality = e.analyzers.ExperienceQuality(text); return nil })
	g.Go(func() error { details.SkillsRelevance = e.analyzers.SkillsRelevance(skills); return nil })
	g.Go(func() error { details.Achievements = e.analyzers.Achievements(text); return nil })
	g.Go(func() error { details.Formatting = e.analyzers.Formatting(text); return nil })
	g.Go(func() error { details.Keywords = e.analyzers.Keywords(text); return nil })
	_ = g.Wait()

	words := countWords(text)
	total := details.Total()
	suggestions := GenerateSuggestions(SuggestionInput{
		Details:    details,
		SkillCount: len(skills),
		WordCount:  words,
	})
	report := types.AnalysisReport{
		Score:       total,
		Grade:       Grade(total),
		Skills:      capSkills(skills),
		Suggestions: suggestions,
		Summary:     e.summarize(text, len(skills), words),
		Details:     details,
	}

	span.SetAttributes(
		attribute.Int("resume.word_count", words),
		attribute.Int("resume.skill_count", len(skills)),
		attribute.Int("resume.score", total),
		attribute.String("resume.detection_mode", e.detector.Mode()),
	)

	if e.logger != nil {
		e.logger.Debug("Resume analyzed",
			"score", total,
			"skills", len(skills),
			"words", words,
			"duration_ms", time.Since(start).Milliseconds())
	}

	return report, nil
}

// summarize recounts verbs by plain substring presence and achievements with
// a coarser pattern than the Achievements analyzer.
func (e *Engine) summarize(text string, skillCount, wordCount int) string {
	lowered := strings.ToLower(text)
	verbCount := 0
	for _, verb := range e.verbs {
		if strings.Contains(lowered, verb) {
			verbCount++
		}
	}
	quantified := len(quantifiedPattern.FindAllStringIndex(text, -1))

	return fmt.Sprintf("Analysis complete: %d skills detected, %d action verbs found, "+
		"%d quantifiable achievements identified across %d words.",
		skillCount, verbCount, quantified, wordCount)
}

func capSkills(skills []string) []string {
	if len(skills) > MaxReportedSkills {
		skills = skills[:MaxReportedSkills]
	}
	out := make([]string, len(skills))
	copy(out, skills)
	return out
}

// Grade buckets a total score into a letter grade.
func Grade(score int) string {
	switch {
	case score >= 85:
		return "A"
	case score >= 70:
		return "B"
	case score >= 50:
		return "C"
	case score >= 30:
		return "D"
	default:
		return "F"
	}
}
