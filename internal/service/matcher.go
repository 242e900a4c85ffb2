package service

import (
	"strings"
	"unicode"
)

// AnswerMatcher validates word-mode answers locally with fuzzy matching.
// Only answers it rejects are escalated to the LLM verifier.
type AnswerMatcher struct {
	threshold float64 // Similarity threshold (0.0 - 1.0)
}

// NewAnswerMatcher creates a new AnswerMatcher.
func NewAnswerMatcher() *AnswerMatcher {
	return &AnswerMatcher{
		threshold: 0.8, // 80% similarity required
	}
}

// Match checks if the user's answer matches the expected translation.
// A dictionary cell may hold several accepted variants separated by
// commas or slashes; any variant counts.
func (m *AnswerMatcher) Match(userAnswer, expected string) bool {
	user := m.normalize(userAnswer)

	for _, variant := range splitVariants(expected) {
		want := m.normalize(variant)
		if want == "" {
			continue
		}

		// Exact match
		if user == want {
			return true
		}

		// Fuzzy match using Levenshtein distance
		if m.similarity(user, want) >= m.threshold {
			return true
		}
	}

	return false
}

// normalize normalizes a string for comparison.
func (m *AnswerMatcher) normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	// Strip surrounding punctuation the user may have typed.
	s = strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})

	// Remove extra whitespace
	return strings.Join(strings.Fields(s), " ")
}

// similarity calculates the similarity between two strings using Levenshtein distance.
func (m *AnswerMatcher) similarity(s1, s2 string) float64 {
	distance := levenshteinDistance(s1, s2)
	maxLen := max(len([]rune(s1)), len([]rune(s2)))

	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(distance)/float64(maxLen)
}

// splitVariants splits a dictionary cell into accepted answer variants.
func splitVariants(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '/'
	})
}

// levenshteinDistance calculates the Levenshtein distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)

	rows := len(r1) + 1
	cols := len(r2) + 1

	// Use two rows instead of full matrix for space optimization
	prev := make([]int, cols)
	curr := make([]int, cols)

	for j := 0; j < cols; j++ {
		prev[j] = j
	}

	for i := 1; i < rows; i++ {
		curr[0] = i

		for j := 1; j < cols; j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}

			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}

		prev, curr = curr, prev
	}

	return prev[cols-1]
}
