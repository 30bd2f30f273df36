// Package events covers event discovery for centers: prompting the model,
// parsing its tabular output, and writing CSV reports.
package events

import (
	"regexp"
	"strings"

	"faqbot/types"
)

// Parse extracts event rows from model output. It never fails: each pass
// is tried in order and the first one that yields events wins. An empty
// slice means the text held no recognizable events.
func Parse(raw string) []types.EventItem {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if events := parseMarkdownTable(raw); len(events) > 0 {
		return events
	}
	if events := parsePlainTable(raw); len(events) > 0 {
		return events
	}
	if events := parseAnchoredRows(raw); len(events) > 0 {
		return events
	}
	if events := parseListItems(raw); len(events) > 0 {
		return events
	}
	return parseKeyValueBlocks(raw)
}

var (
	separatorRe = regexp.MustCompile(`^[\|\s\-\:]+$`)
	dateRe      = regexp.MustCompile(`(?i)\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s*\d{4})?|\b\d{1,2}[/-]\d{1,2}(?:[/-]\d{2,4})?`)
	urlRe       = regexp.MustCompile(`https?://\S+|www\.\S+`)
	emailRe     = regexp.MustCompile(`[\w.+-]+@[\w-]+\.[\w.]+`)
	feeRe       = regexp.MustCompile(`(?i)\$\s?\d+(?:\.\d{2})?|\bfree\b|\bno charge\b`)
	listItemRe  = regexp.MustCompile(`^\s*(?:\d+[.)]\s+|[-*•]\s+)(.+)$`)
	phoneRe     = regexp.MustCompile(`\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}`)
)

// headerSynonyms maps normalized column header words to EventItem fields.
var headerSynonyms = map[string]string{
	"event":        "name",
	"event name":   "name",
	"name":         "name",
	"title":        "name",
	"date":         "date",
	"dates":        "date",
	"event date":   "date",
	"when":         "date",
	"url":          "url",
	"website":      "url",
	"link":         "url",
	"site":         "url",
	"location":     "location",
	"venue":        "location",
	"address":      "location",
	"where":        "location",
	"contact":      "contact",
	"organizer":    "contact",
	"email":        "contact",
	"phone":        "contact",
	"fee":          "fees",
	"fees":         "fees",
	"cost":         "fees",
	"price":        "fees",
	"admission":    "fees",
	"notes":        "notes",
	"details":      "notes",
	"description":  "notes",
	"info":         "notes",
	"other":        "notes",
	"additional":   "notes",
	"registration": "notes",
}

func mapHeader(cell string) string {
	key := strings.ToLower(strings.TrimSpace(cell))
	key = strings.Trim(key, "*_ ")
	if field, ok := headerSynonyms[key]; ok {
		return field
	}
	for word, field := range headerSynonyms {
		if strings.Contains(key, word) {
			return field
		}
	}
	return ""
}

// positionalFields is the assumed column order when headers map to nothing.
var positionalFields = []string{"name", "date", "url", "location", "contact", "fees", "notes"}

func assignField(e *types.EventItem, field, value string) {
	value = strings.TrimSpace(value)
	if value == "" || value == "-" || strings.EqualFold(value, "n/a") {
		return
	}
	switch field {
	case "name":
		e.EventName = value
	case "date":
		e.EventDate = value
	case "url":
		e.WebsiteURL = value
	case "location":
		e.Location = value
	case "contact":
		e.OrganizerContact = value
	case "fees":
		e.Fees = value
	case "notes":
		if e.Notes != "" {
			e.Notes += "; "
		}
		e.Notes += value
	}
}

// parseMarkdownTable handles the happy path: a pipe table with a separator
// row under the header.
func parseMarkdownTable(raw string) []types.EventItem {
	lines := strings.Split(raw, "\n")

	headerIdx := -1
	for i := 0; i < len(lines)-1; i++ {
		if strings.Contains(lines[i], "|") &&
			strings.Contains(lines[i+1], "|") &&
			separatorRe.MatchString(strings.TrimSpace(lines[i+1])) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil
	}

	fields := headerFields(splitPipeRow(lines[headerIdx]))

	var events []types.EventItem
	for _, line := range lines[headerIdx+2:] {
		if !strings.Contains(line, "|") {
			break
		}
		cells := splitPipeRow(line)
		if e, ok := rowToEvent(cells, fields); ok {
			events = append(events, e)
		}
	}
	return events
}

func splitPipeRow(line string) []string {
	line = strings.Trim(strings.TrimSpace(line), "|")
	parts := strings.Split(line, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func headerFields(cells []string) []string {
	fields := make([]string, len(cells))
	mapped := 0
	for i, c := range cells {
		fields[i] = mapHeader(c)
		if fields[i] != "" {
			mapped++
		}
	}
	// Headers that map to nothing get positional meaning instead.
	if mapped == 0 {
		for i := range fields {
			if i < len(positionalFields) {
				fields[i] = positionalFields[i]
			}
		}
	}
	return fields
}

// rowToEvent maps cells onto fields. Rows with no event name are dropped.
func rowToEvent(cells []string, fields []string) (types.EventItem, bool) {
	var e types.EventItem
	for i, c := range cells {
		if i >= len(fields) {
			break
		}
		field := fields[i]
		if field == "" {
			inferCell(&e, c)
			continue
		}
		assignField(&e, field, c)
	}
	if strings.TrimSpace(e.EventName) == "" {
		return e, false
	}
	return e, true
}

// inferCell guesses a field for an unmapped cell by content shape.
func inferCell(e *types.EventItem, cell string) {
	cell = strings.TrimSpace(cell)
	switch {
	case cell == "":
	case urlRe.MatchString(cell) && e.WebsiteURL == "":
		e.WebsiteURL = cell
	case emailRe.MatchString(cell) || phoneRe.MatchString(cell):
		if e.OrganizerContact == "" {
			e.OrganizerContact = cell
		}
	case dateRe.MatchString(cell) && e.EventDate == "":
		e.EventDate = cell
	case feeRe.MatchString(cell) && e.Fees == "":
		e.Fees = cell
	case e.EventName == "":
		e.EventName = cell
	default:
		assignField(e, "notes", cell)
	}
}

// parsePlainTable handles tab-separated or column-aligned text without
// pipes. Columns are split on tabs or runs of two or more spaces.
var columnSplitRe = regexp.MustCompile(`\t+| {2,}`)

func parsePlainTable(raw string) []types.EventItem {
	lines := strings.Split(raw, "\n")

	var rows [][]string
	headerIdx := -1
	for i, line := range lines {
		cells := columnSplitRe.Split(strings.TrimSpace(line), -1)
		if len(cells) < 2 {
			continue
		}
		if headerIdx < 0 && looksLikeHeader(cells) {
			headerIdx = i
			rows = append(rows, cells)
			continue
		}
		if headerIdx >= 0 {
			rows = append(rows, cells)
		}
	}
	if headerIdx < 0 || len(rows) < 2 {
		return nil
	}

	fields := headerFields(rows[0])
	var events []types.EventItem
	for _, cells := range rows[1:] {
		if e, ok := rowToEvent(cells, fields); ok {
			events = append(events, e)
		}
	}
	return events
}

func looksLikeHeader(cells []string) bool {
	mapped := 0
	for _, c := range cells {
		if mapHeader(c) != "" {
			mapped++
		}
	}
	return mapped >= 2
}

// parseAnchoredRows salvages pipe rows when the separator line is missing
// or mangled: the first pipe line with header words anchors the columns.
func parseAnchoredRows(raw string) []types.EventItem {
	lines := strings.Split(raw, "\n")

	headerIdx := -1
	var fields []string
	for i, line := range lines {
		if !strings.Contains(line, "|") {
			continue
		}
		cells := splitPipeRow(line)
		if looksLikeHeader(cells) {
			headerIdx = i
			fields = headerFields(cells)
			break
		}
	}
	if headerIdx < 0 {
		return nil
	}

	var events []types.EventItem
	for _, line := range lines[headerIdx+1:] {
		if !strings.Contains(line, "|") {
			continue
		}
		if separatorRe.MatchString(strings.TrimSpace(line)) {
			continue
		}
		if e, ok := rowToEvent(splitPipeRow(line), fields); ok {
			events = append(events, e)
		}
	}
	return events
}

// parseListItems salvages numbered or bulleted lists, inferring fields from
// content patterns inside each item.
func parseListItems(raw string) []types.EventItem {
	var events []types.EventItem
	for _, line := range strings.Split(raw, "\n") {
		m := listItemRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		item := m[1]

		var e types.EventItem
		if d := dateRe.FindString(item); d != "" {
			e.EventDate = d
		}
		if u := urlRe.FindString(item); u != "" {
			e.WebsiteURL = strings.TrimRight(u, ".,);")
		}
		if c := emailRe.FindString(item); c != "" {
			e.OrganizerContact = c
		} else if p := phoneRe.FindString(item); p != "" {
			e.OrganizerContact = p
		}
		if f := feeRe.FindString(item); f != "" {
			e.Fees = f
		}

		// The name is what precedes the first delimiter or pattern match.
		name := item
		for _, sep := range []string{" - ", " – ", ":", ","} {
			if idx := strings.Index(name, sep); idx > 0 {
				name = name[:idx]
				break
			}
		}
		name = urlRe.ReplaceAllString(name, "")
		name = dateRe.ReplaceAllString(name, "")
		name = strings.Trim(strings.TrimSpace(name), "-–:,.")
		if name == "" {
			continue
		}
		e.EventName = name
		events = append(events, e)
	}
	return events
}

// keyLabels maps "Label: value" prefixes to fields for the last-resort
// paragraph pass.
var keyLabels = map[string]string{
	"event": "name", "event name": "name", "name": "name", "title": "name",
	"date": "date", "dates": "date", "when": "date",
	"url": "url", "website": "url", "link": "url",
	"location": "location", "venue": "location", "where": "location",
	"address": "location",
	"contact": "contact", "organizer": "contact", "email": "contact",
	"phone": "contact",
	"fee": "fees", "fees": "fees", "cost": "fees", "price": "fees",
	"notes": "notes", "details": "notes", "description": "notes",
}

// parseKeyValueBlocks treats each blank-line-separated paragraph as one
// event described by "Label: value" lines.
func parseKeyValueBlocks(raw string) []types.EventItem {
	var events []types.EventItem
	for _, block := range strings.Split(raw, "\n\n") {
		var e types.EventItem
		matched := false
		for _, line := range strings.Split(block, "\n") {
			idx := strings.Index(line, ":")
			if idx <= 0 {
				continue
			}
			label := strings.ToLower(strings.Trim(strings.TrimSpace(line[:idx]), "*_- "))
			field, ok := keyLabels[label]
			if !ok {
				continue
			}
			matched = true
			assignField(&e, field, line[idx+1:])
		}
		if matched && strings.TrimSpace(e.EventName) != "" {
			events = append(events, e)
		}
	}
	return events
}
