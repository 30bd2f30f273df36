// Package locate extracts place names from free-form questions so answers
// can be grounded in data for a specific center.
package locate

import (
	"regexp"
	"strings"
)

var (
	// Prepositional phrases like "in Ashburn", "near Katy TX",
	// "at the Frisco center".
	prepositionRe = regexp.MustCompile(
		`\b(?i:in|near|at|around|close to)\s+(?:[Tt]he\s+)?([A-Z][a-zA-Z]+(?:,?\s+[A-Z][a-zA-Z]*)*)`)

	zipRe = regexp.MustCompile(`\b(\d{5})(?:-\d{4})?\b`)

	// Runs of capitalized words, used as a fallback when no preposition
	// anchors the place name.
	capitalizedRe = regexp.MustCompile(
		`\b([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)*)\b`)
)

// excludedWords are capitalized tokens that look like place names but are
// not: brand words, question openers, program names.
var excludedWords = map[string]struct{}{
	"what": {}, "where": {}, "when": {}, "how": {}, "why": {}, "who": {},
	"which": {}, "can": {}, "do": {}, "does": {}, "is": {}, "are": {},
	"code": {}, "ninjas": {}, "ninja": {}, "create": {}, "jr": {},
	"camp": {}, "camps": {}, "center": {}, "centers": {}, "location": {},
	"locations": {}, "the": {}, "my": {}, "your": {}, "i": {}, "please": {},
	"monday": {}, "tuesday": {}, "wednesday": {}, "thursday": {},
	"friday": {}, "saturday": {}, "sunday": {},
	"january": {}, "february": {}, "march": {}, "april": {}, "may": {},
	"june": {}, "july": {}, "august": {}, "september": {}, "october": {},
	"november": {}, "december": {},
}

// contextKeywords suggest the question is about a particular place.
var contextKeywords = []string{
	"location", "center", "near", "nearby", "in my area", "local",
	"closest", "camp", "address", "directions", "zip",
}

// HasLocationContext reports whether the question even mentions anything
// place-like. Cheap gate before the heavier extraction.
func HasLocationContext(question string) bool {
	lower := strings.ToLower(question)
	for _, kw := range contextKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return zipRe.MatchString(question)
}

// ExtractLocation pulls the most likely place name out of the question.
// Returns "" when nothing credible is found.
func ExtractLocation(question string) string {
	if m := zipRe.FindStringSubmatch(question); m != nil {
		return m[1]
	}

	if m := prepositionRe.FindStringSubmatch(question); m != nil {
		if loc := cleanCandidate(m[1]); loc != "" {
			return loc
		}
	}

	// Fallback: a capitalized run close to a location keyword.
	lower := strings.ToLower(question)
	for _, m := range capitalizedRe.FindAllStringSubmatchIndex(question, -1) {
		candidate := question[m[2]:m[3]]
		loc := cleanCandidate(candidate)
		if loc == "" {
			continue
		}
		if nearKeyword(lower, m[2], 50) {
			return loc
		}
	}

	return ""
}

// cleanCandidate drops excluded tokens from the edges and rejects
// candidates that are nothing but excluded words.
func cleanCandidate(s string) string {
	words := strings.Fields(s)
	for len(words) > 0 {
		if _, bad := excludedWords[strings.ToLower(words[0])]; bad {
			words = words[1:]
			continue
		}
		break
	}
	for len(words) > 0 {
		if _, bad := excludedWords[strings.ToLower(words[len(words)-1])]; bad {
			words = words[:len(words)-1]
			continue
		}
		break
	}
	return strings.Join(words, " ")
}

// nearKeyword reports whether any context keyword appears within dist
// characters of position pos.
func nearKeyword(lower string, pos, dist int) bool {
	start := pos - dist
	if start < 0 {
		start = 0
	}
	end := pos + dist
	if end > len(lower) {
		end = len(lower)
	}
	window := lower[start:end]
	for _, kw := range contextKeywords {
		if strings.Contains(window, kw) {
			return true
		}
	}
	return false
}
