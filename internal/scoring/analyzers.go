package scoring

import (
	"regexp"

	"careernav/internal/catalog"
)

// Sub-score caps. They sum to 100.
const (
	MaxContactInfo       = 20
	MaxExperienceQuality = 25
	MaxSkillsRelevance   = 20
	MaxAchievements      = 20
	MaxFormatting        = 10
	MaxKeywords          = 5
)

const (
	contactSignalPoints   = 5
	actionVerbPoints      = 2
	categoryPoints        = 3
	maxSkillCountPoints   = 8
	achievementPoints     = 3
	headerPoints          = 3
	bulletPoints          = 2
	lengthPoints          = 3
	yearPoints            = 2
	minFormattedWordCount = 100
	maxFormattedWordCount = 800
)

// Analyzers computes the six sub-scores. All methods are pure and safe for
// concurrent use.
type Analyzers struct {
	verbPatterns    []*regexp.Regexp
	keywordPatterns []*regexp.Regexp
	categorySkills  []map[string]bool
}

func NewAnalyzers(cat *catalog.Catalog) *Analyzers {
	a := &Analyzers{
		verbPatterns:    compileTerms(cat.ActionVerbs()),
		keywordPatterns: compileTerms(cat.IndustryKeywords()),
	}
	for _, category := range cat.Categories() {
		set := make(map[string]bool, len(category.Skills))
		for _, skill := range category.Skills {
			set[skill] = true
		}
		a.categorySkills = append(a.categorySkills, set)
	}
	return a
}

// ContactInfo awards points for an email, a phone number, a LinkedIn
// profile and a GitHub profile.
func (a *Analyzers) ContactInfo(text string) int {
	score := 0
	for _, p := range []*regexp.Regexp{emailPattern, phonePattern, linkedInPattern, gitHubPattern} {
		if p.MatchString(text) {
			score += contactSignalPoints
		}
	}
	return min(score, MaxContactInfo)
}

// ExperienceQuality counts distinct action verbs.
func (a *Analyzers) ExperienceQuality(text string) int {
	return min(countMatching(a.verbPatterns, text)*actionVerbPoints, MaxExperienceQuality)
}

// SkillsRelevance rewards breadth across categories and the raw skill count.
// Skills outside the catalog only count toward the latter.
func (a *Analyzers) SkillsRelevance(skills []string) int {
	diversity := 0
	for _, set := range a.categorySkills {
		for _, skill := range skills {
			if set[skill] {
				diversity++
				break
			}
		}
	}
	return min(diversity*categoryPoints+min(len(skills), maxSkillCountPoints), MaxSkillsRelevance)
}

// Achievements counts quantified results. Matches are non-overlapping within
// a pattern and summed across patterns.
func (a *Analyzers) Achievements(text string) int {
	count := 0
	for _, p := range achievementPatterns {
		count += len(p.FindAllStringIndex(text, -1))
	}
	return min(count*achievementPoints, MaxAchievements)
}

func (a *Analyzers) Formatting(text string) int {
	score := 0
	if sectionHeaderPattern.MatchString(text) {
		score += headerPoints
	}
	if bulletPattern.MatchString(text) {
		score += bulletPoints
	}
	if words := countWords(text); words >= minFormattedWordCount && words <= maxFormattedWordCount {
		score += lengthPoints
	}
	if yearPattern.MatchString(text) {
		score += yearPoints
	}
	return min(score, MaxFormatting)
}

func (a *Analyzers) Keywords(text string) int {
	return min(countMatching(a.keywordPatterns, text), MaxKeywords)
}

func countMatching(patterns []*regexp.Regexp, text string) int {
	n := 0
	for _, p := range patterns {
		if p.MatchString(text) {
			n++
		}
	}
	return n
}
