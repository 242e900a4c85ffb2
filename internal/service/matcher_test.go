package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnswerMatcher_Match(t *testing.T) {
	m := NewAnswerMatcher()

	tests := []struct {
		name     string
		answer   string
		expected string
		want     bool
	}{
		{"exact", "gato", "gato", true},
		{"case and spaces", "  Gato ", "gato", true},
		{"trailing punctuation", "gato!", "gato", true},
		{"single typo", "gatto", "gato", true},
		{"variant after comma", "perro", "can, perro", true},
		{"variant after slash", "auto", "машина/авто", false},
		{"different word", "perro", "gato", false},
		{"empty answer", "", "gato", false},
		{"multi-word", "buenos dias", "Buenos días", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Match(tt.answer, tt.expected))
		})
	}
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("gato", "gato"))
	assert.Equal(t, 1, levenshteinDistance("gato", "gatto"))
	assert.Equal(t, 4, levenshteinDistance("", "gato"))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
}
