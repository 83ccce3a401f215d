package coverage

import "strings"

// Language selects the comment marker and test-case patterns used by the
// estimator. The zero value is Fallback.
type Language int

const (
	// Fallback covers any language tag the estimator has no rules for.
	// It uses "#" as the comment marker and never counts test cases.
	Fallback Language = iota
	Python
	JavaScript
)

type rules struct {
	tag           string
	commentMarker string
	testPatterns  []string
}

var languageRules = map[Language]rules{
	Fallback: {
		tag:           "",
		commentMarker: "#",
	},
	Python: {
		tag:           "python",
		commentMarker: "#",
		testPatterns:  []string{"def test_"},
	},
	JavaScript: {
		tag:           "javascript",
		commentMarker: "//",
		testPatterns:  []string{"test(", "it(", "test.each("},
	},
}

// Supported lists the languages with dedicated rules, in a stable order.
var Supported = []Language{Python, JavaScript}

// ParseLanguage maps a request tag to a Language. Matching is exact and
// case-sensitive; anything unrecognized maps to Fallback.
func ParseLanguage(tag string) Language {
	for _, lang := range Supported {
		if languageRules[lang].tag == tag {
			return lang
		}
	}
	return Fallback
}

// String returns the request tag for the language, or "fallback".
func (l Language) String() string {
	if r := l.rules(); r.tag != "" {
		return r.tag
	}
	return "fallback"
}

// CommentMarker returns the single-line comment prefix for the language.
func (l Language) CommentMarker() string {
	return l.rules().commentMarker
}

// TestPatterns returns the substrings counted as test cases.
func (l Language) TestPatterns() []string {
	patterns := l.rules().testPatterns
	out := make([]string, len(patterns))
	copy(out, patterns)
	return out
}

// CountTests sums the raw, non-overlapping occurrences of every test
// pattern in text. Patterns are counted independently, so text matching
// more than one pattern is counted more than once.
func (l Language) CountTests(text string) int {
	count := 0
	for _, p := range l.rules().testPatterns {
		count += strings.Count(text, p)
	}
	return count
}

func (l Language) rules() rules {
	if r, ok := languageRules[l]; ok {
		return r
	}
	return languageRules[Fallback]
}
