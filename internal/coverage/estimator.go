// Package coverage estimates how thoroughly generated tests exercise a code
// snippet. The estimate is a lexical heuristic built from line counts and
// substring matches; nothing is parsed or executed.
package coverage

import (
	"math"
	"strings"
)

const (
	// BaseCoverage is the score of a snippet with no test lines at all.
	BaseCoverage = 65

	// MaxCoverage caps every estimate.
	MaxCoverage = 95

	ratioWeight   = 20
	densityWeight = 10

	// linesPerTest is the number of code lines one test case is expected
	// to cover when computing test density.
	linesPerTest = 10
)

// Stats holds the intermediate counts behind an estimate. CodeLines is the
// floored count the ratio and density were divided by, so it is at least 1.
type Stats struct {
	CodeLines   int     `json:"code_lines"`
	TestLines   int     `json:"test_lines"`
	TestCount   int     `json:"test_count"`
	Ratio       float64 `json:"ratio"`
	TestDensity float64 `json:"test_density"`
	Coverage    int     `json:"coverage"`
}

// Estimate returns the coverage score for tests generated against code.
// It is deterministic and has no side effects.
func Estimate(code, tests string, lang Language) int {
	return Analyze(code, tests, lang).Coverage
}

// Analyze computes the estimate together with the counts it was derived
// from.
func Analyze(code, tests string, lang Language) Stats {
	// floor of 1 keeps the divisions defined for empty snippets
	codeLines := max(CountCodeLines(code, lang), 1)
	testLines := CountNonBlankLines(tests)
	testCount := lang.CountTests(tests)

	ratio := float64(testLines) / float64(codeLines)
	density := float64(testCount) / math.Max(float64(codeLines)/linesPerTest, 1)

	return Stats{
		CodeLines:   codeLines,
		TestLines:   testLines,
		TestCount:   testCount,
		Ratio:       ratio,
		TestDensity: density,
		Coverage:    score(ratio, density),
	}
}

func score(ratio, density float64) int {
	raw := math.Floor(BaseCoverage + ratio*ratioWeight + density*densityWeight)
	// clamp before converting so huge ratios cannot overflow int
	if raw > MaxCoverage {
		return MaxCoverage
	}
	return int(raw)
}

// CountCodeLines counts lines that are non-blank after trimming and do not
// start with the language's comment marker. Block comments and multi-line
// strings are not recognized.
func CountCodeLines(code string, lang Language) int {
	marker := lang.CommentMarker()
	count := 0
	for _, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, marker) {
			continue
		}
		count++
	}
	return count
}

// CountNonBlankLines counts lines with any non-whitespace content.
func CountNonBlankLines(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}
