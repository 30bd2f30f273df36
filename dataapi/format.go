package dataapi

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"faqbot/intent"
	"faqbot/types"
)

// Engine turns a classified question plus a location slug into a formatted
// answer built from live center data.
type Engine struct {
	client *Client
	log    *zap.Logger
}

func NewEngine(client *Client, log *zap.Logger) *Engine {
	return &Engine{client: client, log: log}
}

// Answer resolves a question against the data API. Returns "" with a nil
// error when the data exists but holds nothing relevant, and an error when
// the API itself failed.
func (e *Engine) Answer(ctx context.Context, question, location string) (string, error) {
	slug := NormalizeSlug(location)
	if slug == "" {
		return "", nil
	}

	in := intent.Classify(question)
	e.log.Debug("querying data api",
		zap.String("slug", slug), zap.String("intent", in.String()))

	switch in {
	case intent.Camps:
		return e.answerCamps(ctx, question, slug)
	case intent.Events:
		return e.answerEvents(ctx, slug)
	case intent.Clubs:
		return e.answerClubs(ctx, slug)
	case intent.Programs:
		return e.answerPrograms(ctx, question, slug)
	case intent.FacilityInfo:
		return e.answerFacility(ctx, slug)
	default:
		// No clear intent: lead with upcoming camps, the most asked-for data.
		return e.answerCamps(ctx, question, slug)
	}
}

// mentionsCreate reports whether the question asks about the CREATE
// curriculum specifically.
func mentionsCreate(question string) bool {
	return strings.Contains(strings.ToLower(question), "create")
}

func (e *Engine) answerCamps(ctx context.Context, question, slug string) (string, error) {
	year, week := intent.CampFilter(question)

	var camps []Camp
	var err error
	if year > 0 || week > 0 {
		camps, err = e.client.GetCamps(ctx, slug, year, week)
	} else {
		camps, err = e.client.GetUpcomingCamps(ctx, slug)
	}
	if err != nil {
		return "", err
	}

	// Asking about CREATE narrows the list to CREATE camps only.
	if mentionsCreate(question) {
		kept := camps[:0]
		for _, c := range camps {
			if strings.EqualFold(c.Program, "create") {
				kept = append(kept, c)
			}
		}
		camps = kept
	}
	if len(camps) == 0 {
		return "", nil
	}

	if len(camps) > 5 {
		camps = camps[:5]
	}

	var b strings.Builder
	b.WriteString("Here are the upcoming camps:\n")
	for _, c := range camps {
		b.WriteString(FormatCamp(c))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (e *Engine) answerEvents(ctx context.Context, slug string) (string, error) {
	f, err := e.client.GetFacility(ctx, slug)
	if err != nil {
		return "", err
	}
	list := make([]FacilityEvent, 0, len(f.Events)+len(f.UpcomingEvents))
	list = append(list, f.Events...)
	list = append(list, f.UpcomingEvents...)
	if len(list) == 0 {
		return "", nil
	}
	var b strings.Builder
	b.WriteString("Upcoming events at this center:\n")
	for _, ev := range list {
		b.WriteString(FormatEvent(ev))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (e *Engine) answerClubs(ctx context.Context, slug string) (string, error) {
	f, err := e.client.GetFacility(ctx, slug)
	if err != nil {
		return "", err
	}
	if len(f.Clubs) == 0 {
		return "", nil
	}
	var b strings.Builder
	b.WriteString("This center runs the following clubs:\n")
	for _, cl := range f.Clubs {
		b.WriteString(FormatClub(cl))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (e *Engine) answerPrograms(ctx context.Context, question, slug string) (string, error) {
	programs, err := e.client.GetPrograms(ctx, slug)
	if err != nil {
		return "", err
	}
	if mentionsCreate(question) {
		kept := programs[:0]
		for _, p := range programs {
			if strings.Contains(strings.ToLower(p.Name), "create") {
				kept = append(kept, p)
			}
		}
		programs = kept
	}
	if len(programs) == 0 {
		return "", nil
	}
	var b strings.Builder
	b.WriteString("This center offers:\n")
	for _, p := range programs {
		b.WriteString(FormatProgram(p))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (e *Engine) answerFacility(ctx context.Context, slug string) (string, error) {
	f, err := e.client.GetFacility(ctx, slug)
	if err != nil {
		return "", err
	}
	return FormatFacility(*f), nil
}

// FormatCamp renders one camp as a bullet line.
func FormatCamp(c Camp) string {
	var parts []string
	parts = append(parts, c.Name)
	if c.StartDate != "" {
		dates := c.StartDate
		if c.EndDate != "" {
			dates += " to " + c.EndDate
		}
		parts = append(parts, dates)
	}
	if c.AgeRange != "" {
		parts = append(parts, "ages "+c.AgeRange)
	}
	if c.Price != "" {
		parts = append(parts, c.Price)
	}
	return "- " + strings.Join(parts, ", ")
}

// FormatProgram renders one program as a bullet line.
func FormatProgram(p Program) string {
	line := "- " + p.Name
	if p.AgeRange != "" {
		line += " (ages " + p.AgeRange + ")"
	}
	if p.Schedule != "" {
		line += ": " + p.Schedule
	}
	if p.Description != "" {
		line += " - " + p.Description
	}
	return line
}

// FormatEvent renders one facility event as a bullet line.
func FormatEvent(ev FacilityEvent) string {
	line := "- " + ev.Name
	if ev.Date != "" {
		line += ", " + ev.Date
	}
	if ev.Description != "" {
		line += " - " + ev.Description
	}
	return line
}

// FormatClub renders one club as a bullet line.
func FormatClub(cl Club) string {
	line := "- " + cl.Name
	if cl.AgeRange != "" {
		line += " (ages " + cl.AgeRange + ")"
	}
	if cl.Schedule != "" {
		line += ": " + cl.Schedule
	}
	if cl.Description != "" {
		line += " - " + cl.Description
	}
	return line
}

// FormatFacility renders a center profile as a short card.
func FormatFacility(f Facility) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", f.Name)
	if f.Address != "" {
		fmt.Fprintf(&b, "Address: %s", f.Address)
		if f.City != "" {
			fmt.Fprintf(&b, ", %s", f.City)
		}
		if f.State != "" {
			fmt.Fprintf(&b, ", %s", f.State)
		}
		if f.ZipCode != "" {
			fmt.Fprintf(&b, " %s", f.ZipCode)
		}
		b.WriteString("\n")
	}
	if f.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", f.Phone)
	}
	if f.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", f.Email)
	}
	if f.Hours != "" {
		fmt.Fprintf(&b, "Hours: %s\n", f.Hours)
	}
	if f.Website != "" {
		fmt.Fprintf(&b, "Website: %s\n", f.Website)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FacilityFAQ converts a facility profile into FAQ entries that can be
// merged into a semantic query for one request.
func FacilityFAQ(f Facility) []types.FaqEntry {
	card := FormatFacility(f)
	entries := []types.FaqEntry{
		{Question: "Where is the " + f.Name + " center located?", Answer: card},
	}
	if f.Hours != "" {
		entries = append(entries, types.FaqEntry{
			Question: "What are the hours at " + f.Name + "?",
			Answer:   "Hours at " + f.Name + ": " + f.Hours,
		})
	}
	if f.Phone != "" || f.Email != "" {
		contact := strings.TrimSpace(strings.TrimPrefix(
			fmt.Sprintf("%s %s", f.Phone, f.Email), " "))
		entries = append(entries, types.FaqEntry{
			Question: "How do I contact " + f.Name + "?",
			Answer:   "You can reach " + f.Name + " at " + contact + ".",
		})
	}
	return entries
}
