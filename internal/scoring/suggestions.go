package scoring

import "careernav/internal/types"

// MaxSuggestions bounds the suggestion list, positive feedback included.
const MaxSuggestions = 6

const (
	excellentThreshold = 80
	goodThreshold      = 60
)

// Suggestion texts
const (
	SuggestContactInfo  = "Add complete contact information including email, phone, LinkedIn, and GitHub profiles"
	SuggestActionVerbs  = "Use stronger action verbs to describe your accomplishments (e.g., 'achieved', 'developed', 'led')"
	SuggestSkillRange   = "Include more relevant technical skills and diversify across different technology categories"
	SuggestAchievements = "Add quantifiable achievements with specific numbers, percentages, or metrics"
	SuggestFormatting   = "Improve resume structure with clear headers, bullet points, and consistent formatting"
	SuggestMoreSkills   = "Add more technical skills relevant to your target position"
	SuggestExpand       = "Expand your resume with more detailed descriptions of your experience and projects"
	SuggestCondense     = "Consider condensing your resume to focus on the most relevant and impactful information"
	PraiseExcellent     = "Excellent resume! Consider tailoring it further for specific job applications"
	PraiseGood          = "Good foundation! A few improvements will make your resume stand out"
)

// SuggestionInput is everything the suggestion rules look at
type SuggestionInput struct {
	Details    types.ScoreDetails
	SkillCount int
	WordCount  int
}

type suggestionRule struct {
	applies func(in SuggestionInput) bool
	message string
}

// Rules in priority order.
var suggestionRules = []suggestionRule{
	{func(in SuggestionInput) bool { return in.Details.ContactInfo < 15 }, SuggestContactInfo},
	{func(in SuggestionInput) bool { return in.Details.ExperienceQuality < 15 }, SuggestActionVerbs},
	{func(in SuggestionInput) bool { return in.Details.SkillsRelevance < 15 }, SuggestSkillRange},
	{func(in SuggestionInput) bool { return in.Details.Achievements < 12 }, SuggestAchievements},
	{func(in SuggestionInput) bool { return in.Details.Formatting < 7 }, SuggestFormatting},
	{func(in SuggestionInput) bool { return in.SkillCount < 5 }, SuggestMoreSkills},
	{func(in SuggestionInput) bool { return in.WordCount < minFormattedWordCount }, SuggestExpand},
	{func(in SuggestionInput) bool { return in.WordCount > maxFormattedWordCount }, SuggestCondense},
}

// GenerateSuggestions evaluates the rules in order. Positive feedback, when
// earned, takes the first slot and the lowest priority rules are dropped to
// stay within MaxSuggestions.
func GenerateSuggestions(in SuggestionInput) []string {
	suggestions := make([]string, 0, MaxSuggestions)

	switch total := in.Details.Total(); {
	case total >= excellentThreshold:
		suggestions = append(suggestions, PraiseExcellent)
	case total >= goodThreshold:
		suggestions = append(suggestions, PraiseGood)
	}

	for _, rule := range suggestionRules {
		if len(suggestions) == MaxSuggestions {
			break
		}
		if rule.applies(in) {
			suggestions = append(suggestions, rule.message)
		}
	}
	return suggestions
}
