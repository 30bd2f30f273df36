package events

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"faqbot/types"
)

var csvHeader = []string{
	"Event Name", "Event Date", "Website URL", "Location",
	"Organizer Contact", "Fees", "Notes",
}

var fileNameRe = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Generator writes per-center CSV reports into dated subdirectories.
type Generator struct {
	dir string
}

func NewGenerator(dir string) *Generator {
	return &Generator{dir: dir}
}

// Generate writes the events for a center and returns the file path.
func (g *Generator) Generate(centerName string, events []types.EventItem) (string, error) {
	path, f, err := g.create(centerName)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range events {
		row := []string{
			e.EventName, e.EventDate, e.WebsiteURL, e.Location,
			e.OrganizerContact, e.Fees, e.Notes,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return path, nil
}

// GenerateFallback writes a single-row CSV noting that discovery produced
// nothing, so every center in a batch ends up with a report file.
func (g *Generator) GenerateFallback(centerName, reason string) (string, error) {
	path, f, err := g.create(centerName)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	note := "No events were found for this center."
	if reason != "" {
		note += " " + reason
	}
	if err := w.Write([]string{"No events found", "", "", "", "", "", note}); err != nil {
		return "", fmt.Errorf("write csv row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return path, nil
}

func (g *Generator) create(centerName string) (string, *os.File, error) {
	date := time.Now().Format("2006-01-02")
	dir := filepath.Join(g.dir, date)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("create csv dir: %w", err)
	}

	name := fileNameRe.ReplaceAllString(strings.ReplaceAll(centerName, " ", "_"), "")
	if name == "" {
		name = "center"
	}
	path := filepath.Join(dir, fmt.Sprintf("Events_%s_%s.csv", name, date))

	f, err := os.Create(path)
	if err != nil {
		return "", nil, fmt.Errorf("create csv file: %w", err)
	}
	return path, f, nil
}
