// Package predefined matches questions against a curated answer table
// before any model gets involved. Matching is keyword-based and cheap.
package predefined

import (
	"regexp"
	"strings"
)

var (
	punctRe      = regexp.MustCompile(`[^\w\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// stopwords are dropped before keyword comparison. Short function words
// only; domain words always count.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"do": {}, "does": {}, "did": {}, "can": {}, "could": {}, "will": {},
	"would": {}, "should": {}, "i": {}, "you": {}, "my": {}, "your": {},
	"we": {}, "they": {}, "it": {}, "this": {}, "that": {}, "of": {},
	"for": {}, "to": {}, "in": {}, "on": {}, "at": {}, "and": {}, "or": {},
	"what": {}, "when": {}, "where": {}, "how": {}, "why": {}, "who": {},
	"there": {}, "any": {}, "me": {}, "with": {}, "about": {}, "have": {},
	"has": {}, "be": {}, "if": {}, "get": {}, "much": {}, "many": {},
}

// Entry is a curated question with its canonical answer.
type Entry struct {
	Question string
	Answer   string
}

// Matcher holds the curated table with precomputed normalized forms.
type Matcher struct {
	entries    []Entry
	normalized []string
	keywords   [][]string
}

func NewMatcher(entries []Entry) *Matcher {
	m := &Matcher{entries: entries}
	for _, e := range entries {
		norm := Normalize(e.Question)
		m.normalized = append(m.normalized, norm)
		m.keywords = append(m.keywords, Keywords(norm))
	}
	return m
}

// Normalize lowercases, strips punctuation, and collapses whitespace.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = punctRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Keywords splits a normalized string and drops stopwords.
func Keywords(normalized string) []string {
	var out []string
	for _, w := range strings.Fields(normalized) {
		if _, skip := stopwords[w]; !skip {
			out = append(out, w)
		}
	}
	return out
}

// Match tries three strategies in order: exact normalized equality,
// substring containment backed by keyword overlap, then fuzzy keyword
// overlap with a best-score sweep. Returns the answer and whether anything
// matched.
func (m *Matcher) Match(question string) (string, bool) {
	norm := Normalize(question)
	if norm == "" {
		return "", false
	}
	qKeywords := Keywords(norm)

	// Exact match.
	for i, pn := range m.normalized {
		if pn == norm {
			return m.entries[i].Answer, true
		}
	}

	// Substring match. Requires that most of the predefined entry's
	// keywords appear in the question, so "do you have camps" does not
	// swallow "do you have camps in december for teens" spuriously.
	for i, pn := range m.normalized {
		if !strings.Contains(norm, pn) && !strings.Contains(pn, norm) {
			continue
		}
		pk := m.keywords[i]
		if len(pk) == 0 {
			continue
		}
		common := overlap(qKeywords, pk)
		if float64(common)/float64(len(pk)) >= 0.8 {
			return m.entries[i].Answer, true
		}
	}

	// Fuzzy keyword match: average of both overlap ratios, best score wins.
	if len(qKeywords) == 0 {
		return "", false
	}
	bestScore := 0.0
	bestIdx := -1
	for i, pk := range m.keywords {
		if len(pk) == 0 {
			continue
		}
		common := overlap(qKeywords, pk)
		if common < 3 {
			continue
		}
		score := (float64(common)/float64(len(qKeywords)) +
			float64(common)/float64(len(pk))) / 2
		if score >= 0.8 && score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx >= 0 {
		return m.entries[bestIdx].Answer, true
	}

	return "", false
}

func overlap(a, b []string) int {
	set := make(map[string]struct{}, len(a))
	for _, w := range a {
		set[w] = struct{}{}
	}
	n := 0
	for _, w := range b {
		if _, ok := set[w]; ok {
			n++
			delete(set, w)
		}
	}
	return n
}
