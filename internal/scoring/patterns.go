package scoring

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Patterns shared by every analysis. Catalog dependent patterns are compiled
// per Engine since the catalog can be replaced at startup.
var (
	emailPattern    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	phonePattern    = regexp.MustCompile(`(\+\d{1,3}[-.]?)?\(?\d{3}\)?[-.]?\d{3}[-.]?\d{4}`)
	linkedInPattern = regexp.MustCompile(`(?i)linkedin\.com/in/[\w-]+`)
	gitHubPattern   = regexp.MustCompile(`(?i)github\.com/[\w-]+`)

	achievementPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\d+%`),
		regexp.MustCompile(`(?i)\$[\d,]+`),
		regexp.MustCompile(`(?i)\d+\+`),
		regexp.MustCompile(`(?i)\d+k\+?`),
		regexp.MustCompile(`(?i)\d+m\+?`),
		regexp.MustCompile(`(?i)\d+x`),
		regexp.MustCompile(`(?i)\d+ (?:users?|customers?|clients?|projects?|teams?|people|years?)`),
	}

	sectionHeaderPattern = regexp.MustCompile(`(?i)\b(?:experience|education|skills|projects|work history|summary|objective)\b`)
	bulletPattern        = regexp.MustCompile(`[•*\-]`)
	yearPattern          = regexp.MustCompile(`\d{4}`)

	// Coarser recount used only in the report summary.
	quantifiedPattern = regexp.MustCompile(`\d+[%+]|[$][\d,]+`)
)

// isWordRune mirrors RE2's \b, where word characters are ASCII [0-9A-Za-z_].
func isWordRune(r rune) bool {
	return r == '_' || r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

// wholeWordPattern builds a pattern matching term as a whole word or phrase.
// Everything inside the term is literal. An edge made of a word character is
// anchored with \b; a punctuation edge (the "+" of "c++") must instead be
// followed or preceded by a non-word character or the text boundary.
func wholeWordPattern(term string) string {
	first, _ := utf8.DecodeRuneInString(term)
	last, _ := utf8.DecodeLastRuneInString(term)

	var b strings.Builder
	if isWordRune(first) {
		b.WriteString(`\b`)
	} else {
		b.WriteString(`(?:^|\W)`)
	}
	b.WriteString(regexp.QuoteMeta(term))
	if isWordRune(last) {
		b.WriteString(`\b`)
	} else {
		b.WriteString(`(?:\W|$)`)
	}
	return b.String()
}

// compileTerms compiles one case-insensitive whole word pattern per term.
func compileTerms(terms []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(terms))
	for _, term := range terms {
		patterns = append(patterns, regexp.MustCompile(`(?i)`+wholeWordPattern(term)))
	}
	return patterns
}

// countWords splits on runs of whitespace.
func countWords(text string) int {
	return len(strings.Fields(text))
}
