package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"careernav/internal/types"
)

func TestGenerateSuggestions(t *testing.T) {
	tests := []struct {
		name string
		in   SuggestionInput
		want []string
	}{
		{
			name: "no signal truncates lowest priority",
			in:   SuggestionInput{WordCount: 3},
			want: []string{
				SuggestContactInfo, SuggestActionVerbs, SuggestSkillRange,
				SuggestAchievements, SuggestFormatting, SuggestMoreSkills,
			},
		},
		{
			name: "strong resume",
			in: SuggestionInput{
				Details: types.ScoreDetails{
					ContactInfo: 20, ExperienceQuality: 20, SkillsRelevance: 20,
					Achievements: 12, Formatting: 8, Keywords: 5,
				},
				SkillCount: 12,
				WordCount:  400,
			},
			want: []string{PraiseExcellent},
		},
		{
			name: "good foundation with a long resume",
			in: SuggestionInput{
				Details: types.ScoreDetails{
					ContactInfo: 15, ExperienceQuality: 16, SkillsRelevance: 15,
					Achievements: 12, Formatting: 5, Keywords: 5,
				},
				SkillCount: 9,
				WordCount:  900,
			},
			want: []string{PraiseGood, SuggestFormatting, SuggestCondense},
		},
		{
			name: "praise displaces lowest priority rule",
			in: SuggestionInput{
				Details: types.ScoreDetails{
					ContactInfo: 14, ExperienceQuality: 14, SkillsRelevance: 14,
					Achievements: 11, Formatting: 6, Keywords: 5,
				},
				SkillCount: 2,
				WordCount:  50,
			},
			want: []string{
				PraiseGood, SuggestContactInfo, SuggestActionVerbs,
				SuggestSkillRange, SuggestAchievements, SuggestFormatting,
			},
		},
		{
			name: "thresholds are exclusive",
			in: SuggestionInput{
				Details: types.ScoreDetails{
					ContactInfo: 15, ExperienceQuality: 15, SkillsRelevance: 15,
					Achievements: 12, Formatting: 7,
				},
				SkillCount: 5,
				WordCount:  100,
			},
			want: []string{PraiseGood},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateSuggestions(tt.in)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), MaxSuggestions)
		})
	}
}

func TestGenerateSuggestionsWordCountRules(t *testing.T) {
	base := types.ScoreDetails{ContactInfo: 20, ExperienceQuality: 25, SkillsRelevance: 20, Achievements: 20, Formatting: 10}

	assert.Contains(t, GenerateSuggestions(SuggestionInput{Details: base, SkillCount: 10, WordCount: 99}), SuggestExpand)
	assert.NotContains(t, GenerateSuggestions(SuggestionInput{Details: base, SkillCount: 10, WordCount: 800}), SuggestCondense)
	assert.Contains(t, GenerateSuggestions(SuggestionInput{Details: base, SkillCount: 10, WordCount: 801}), SuggestCondense)
}
