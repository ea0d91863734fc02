package scoring

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"careernav/internal/catalog"
	"careernav/internal/errors"
	"careernav/internal/nlp"
)

// Substrings that mark a tagged noun as a likely technical term
var techFragments = []string{"js", "sql", "api", "ui", "ux"}

const minAugmentedTokenLength = 3

type skillPattern struct {
	skill   string
	pattern *regexp.Regexp
}

// SkillDetector finds catalog skills in resume text, optionally extended
// with technical nouns reported by a part-of-speech tagger.
type SkillDetector struct {
	patterns []skillPattern
	tagger   nlp.Tagger
	logger   *errors.Logger
	augment  func(ctx context.Context, text string, found []string, seen map[string]bool) []string
}

// NewSkillDetector compiles a whole word pattern for every catalog skill.
// A nil tagger selects catalog-only detection.
func NewSkillDetector(cat *catalog.Catalog, tagger nlp.Tagger, logger *errors.Logger) *SkillDetector {
	skills := cat.AllSkills()
	d := &SkillDetector{
		patterns: make([]skillPattern, 0, len(skills)),
		tagger:   tagger,
		logger:   logger,
	}
	for _, skill := range skills {
		d.patterns = append(d.patterns, skillPattern{
			skill:   skill,
			pattern: regexp.MustCompile(wholeWordPattern(skill)),
		})
	}

	if tagger == nil {
		d.augment = catalogOnly
	} else {
		d.augment = d.augmentWithTagger
	}
	return d
}

// Mode names the active detection strategy.
func (d *SkillDetector) Mode() string {
	return nlp.TaggerName(d.tagger)
}

// Detect returns distinct lowercase skills in discovery order: catalog hits
// in catalog order, then tagger additions in text order.
func (d *SkillDetector) Detect(ctx context.Context, text string) []string {
	lowered := strings.ToLower(text)

	found := make([]string, 0, 16)
	seen := make(map[string]bool, 16)
	for _, sp := range d.patterns {
		if sp.pattern.MatchString(lowered) {
			found = append(found, sp.skill)
			seen[sp.skill] = true
		}
	}

	return d.augment(ctx, text, found, seen)
}

func catalogOnly(_ context.Context, _ string, found []string, _ map[string]bool) []string {
	return found
}

// augmentWithTagger fails open: tagger errors are logged and the catalog
// result is returned unchanged.
func (d *SkillDetector) augmentWithTagger(ctx context.Context, text string, found []string, seen map[string]bool) []string {
	tokens, err := d.tagger.Tag(ctx, text)
	if err != nil {
		if d.logger != nil {
			d.logger.Warn("Skill tagger failed, using catalog matches only",
				"tagger", d.tagger.Name(),
				"error", err.Error())
		}
		return found
	}

	for _, tok := range tokens {
		if !tok.IsNoun() || utf8.RuneCountInString(tok.Text) < minAugmentedTokenLength {
			continue
		}
		lowered := strings.ToLower(tok.Text)
		if seen[lowered] || !containsTechFragment(lowered) {
			continue
		}
		found = append(found, lowered)
		seen[lowered] = true
	}
	return found
}

func containsTechFragment(s string) bool {
	for _, frag := range techFragments {
		if strings.Contains(s, frag) {
			return true
		}
	}
	return false
}
