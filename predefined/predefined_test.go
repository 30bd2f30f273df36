package predefined

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testMatcher() *Matcher {
	return NewMatcher([]Entry{
		{Question: "What are the hours of operation?", Answer: "hours answer"},
		{Question: "How do I book a free trial?", Answer: "trial answer"},
		{Question: "Do you offer sibling discounts?", Answer: "discount answer"},
	})
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "What ARE The Hours", "what are the hours"},
		{"strips punctuation", "hours?!, of... operation", "hours of operation"},
		{"collapses whitespace", "  hours   of\toperation  ", "hours of operation"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestKeywords(t *testing.T) {
	got := Keywords("what are the hours of operation")
	assert.Equal(t, []string{"hours", "operation"}, got)
}

func TestMatcher_Match_Exact(t *testing.T) {
	m := testMatcher()

	answer, ok := m.Match("What are the hours of operation?")
	assert.True(t, ok)
	assert.Equal(t, "hours answer", answer)

	// Normalization differences still count as exact.
	answer, ok = m.Match("what are the HOURS of operation")
	assert.True(t, ok)
	assert.Equal(t, "hours answer", answer)
}

func TestMatcher_Match_Substring(t *testing.T) {
	m := testMatcher()

	answer, ok := m.Match("Hi, how do I book a free trial for my son?")
	assert.True(t, ok)
	assert.Equal(t, "trial answer", answer)
}

func TestMatcher_Match_Fuzzy(t *testing.T) {
	m := testMatcher()

	answer, ok := m.Match("do you offer any sibling discounts")
	assert.True(t, ok)
	assert.Equal(t, "discount answer", answer)
}

func TestMatcher_Match_Miss(t *testing.T) {
	m := testMatcher()

	tests := []struct {
		name     string
		question string
	}{
		{"unrelated question", "What is the meaning of life?"},
		{"too few common keywords", "hours"},
		{"empty question", ""},
		{"punctuation only", "?!?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := m.Match(tt.question)
			assert.False(t, ok)
		})
	}
}

func TestMatcher_Match_BestScoreWins(t *testing.T) {
	m := NewMatcher([]Entry{
		{Question: "summer camp schedule times", Answer: "first"},
		{Question: "summer camp schedule times dates", Answer: "second"},
	})

	// All four keywords overlap the second entry less completely than the
	// first, so the first entry's higher score should win.
	answer, ok := m.Match("camp summer times schedule")
	assert.True(t, ok)
	assert.Equal(t, "first", answer)
}
