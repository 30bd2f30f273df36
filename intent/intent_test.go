package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     Intent
	}{
		{"camps", "Are there any summer camps in July?", Camps},
		{"camps beat events", "What camp events do you have?", Camps},
		{"events", "Any tournaments coming up?", Events},
		{"clubs", "Do you have a robotics club?", Clubs},
		{"programs", "Tell me about the curriculum", Programs},
		{"facility", "What are your hours?", FacilityInfo},
		{"unknown", "Tell me a joke", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.question))
		})
	}
}

func TestCampFilter(t *testing.T) {
	tests := []struct {
		name     string
		question string
		year     int
		week     int
	}{
		{"year and week", "camps in 2026 week 3", 2026, 3},
		{"year only", "what camps run in 2025", 2025, 0},
		{"week only", "week 12 camps please", 0, 12},
		{"neither", "any camps soon", 0, 0},
		{"ignores non-year numbers", "camps for 12 year olds", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, week := CampFilter(tt.question)
			assert.Equal(t, tt.year, year)
			assert.Equal(t, tt.week, week)
		})
	}
}

func TestIntent_String(t *testing.T) {
	assert.Equal(t, "camps", Camps.String())
	assert.Equal(t, "unknown", Unknown.String())
}
