// Package intent classifies what kind of center data a question is after.
package intent

import (
	"regexp"
	"strconv"
	"strings"
)

type Intent int

const (
	Unknown Intent = iota
	Camps
	Events
	Clubs
	Programs
	FacilityInfo
)

func (i Intent) String() string {
	switch i {
	case Camps:
		return "camps"
	case Events:
		return "events"
	case Clubs:
		return "clubs"
	case Programs:
		return "programs"
	case FacilityInfo:
		return "facility"
	default:
		return "unknown"
	}
}

var (
	yearRe = regexp.MustCompile(`\b(20\d{2})\b`)
	weekRe = regexp.MustCompile(`(?i)\bweek\s+(\d+)\b`)
)

// Classify maps a question to the data category it asks about. Categories
// are checked in a fixed priority so "summer camp event" lands on camps.
func Classify(question string) Intent {
	q := strings.ToLower(question)

	switch {
	case containsAny(q, "camp", "camps", "summer", "winter break", "spring break"):
		return Camps
	case containsAny(q, "event", "events", "tournament", "parent's night", "parents night"):
		return Events
	case containsAny(q, "club", "clubs"):
		return Clubs
	case containsAny(q, "program", "programs", "curriculum", "create", "jr", "belt"):
		return Programs
	case containsAny(q, "hours", "address", "phone", "open", "location", "center", "contact", "where"):
		return FacilityInfo
	default:
		return Unknown
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// CampFilter extracts an optional year and week number from the question.
// Zero means unspecified.
func CampFilter(question string) (year, week int) {
	if m := yearRe.FindStringSubmatch(question); m != nil {
		year, _ = strconv.Atoi(m[1])
	}
	if m := weekRe.FindStringSubmatch(question); m != nil {
		week, _ = strconv.Atoi(m[1])
	}
	return year, week
}
