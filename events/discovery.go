package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"faqbot/metrics"
	"faqbot/model"
	"faqbot/types"
)

// promptTemplate asks the model for community events near a center. The
// three placeholders are filled per center before sending.
const promptTemplate = `You are a research assistant for a Code Ninjas center. Find family-friendly community events happening within {{radius}} miles of {{ZIP code, postal code, or town}} in {{country}} over the next 60 days where the center could host a booth or activity. Focus on festivals, fairs, school events, library programs, farmers markets, and STEM or family expos.

Return the results as a markdown table with exactly these columns:
| Event Name | Event Date | Website URL | Location | Organizer Contact | Fees | Notes |

List up to 15 events. If you cannot find a value for a column, leave the cell empty. Do not invent events.`

// BuildPrompt fills the discovery template for one center. The anchor is
// the first usable piece of the center's address.
func BuildPrompt(center types.CenterInfo) string {
	anchor := firstNonEmpty(center.ZipCode, center.City, center.State)
	if anchor == "" {
		anchor = "Unknown"
	}

	p := strings.ReplaceAll(promptTemplate, "{{ZIP code, postal code, or town}}", anchor)
	p = strings.ReplaceAll(p, "{{radius}}", fmt.Sprint(center.Radius))
	p = strings.ReplaceAll(p, "{{country}}", center.Country)
	return p
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// Discoverer runs event discovery for a single center.
type Discoverer struct {
	generator model.Generator
	csv       *Generator
	log       *zap.Logger
}

func NewDiscoverer(generator model.Generator, csv *Generator, log *zap.Logger) *Discoverer {
	return &Discoverer{generator: generator, csv: csv, log: log}
}

// Discover asks the model for events, parses them, and writes the CSV
// report. The result always comes back non-nil; Status tells the caller
// whether the call failed, degraded, or succeeded.
func (d *Discoverer) Discover(ctx context.Context, center types.CenterInfo) *types.EventDiscoveryResult {
	start := time.Now()
	metrics.DiscoveryInFlight.Inc()
	defer func() {
		metrics.DiscoveryInFlight.Dec()
		metrics.DiscoveryDuration.Observe(time.Since(start).Seconds())
	}()

	center.ApplyDefaults()

	result := &types.EventDiscoveryResult{
		CenterID:    center.CenterID,
		CenterName:  center.CenterName,
		OwnerEmail:  center.OwnerEmail,
		GeneratedAt: time.Now(),
	}

	raw, genErr := d.generator.Generate(ctx, BuildPrompt(center))

	var parsed []types.EventItem
	if genErr == nil {
		parsed = Parse(raw)
	}

	result.Events = parsed
	result.EventCount = len(parsed)

	switch {
	case genErr != nil:
		result.Status = types.DiscoveryFailed
		result.Message = fmt.Sprintf("event discovery failed: %v", genErr)
		d.log.Error("discovery generation failed",
			zap.String("center_id", center.CenterID), zap.Error(genErr))
	case len(parsed) == 0:
		// The model answered but nothing parseable came back.
		result.Status = types.DiscoveryPartial
		result.Message = "model response contained no recognizable events"
		d.log.Warn("discovery returned no events",
			zap.String("center_id", center.CenterID),
			zap.Int("response_chars", len(raw)))
	default:
		result.Status = types.DiscoverySuccess
		result.Message = fmt.Sprintf("found %d events", len(parsed))
		d.log.Info("discovery complete",
			zap.String("center_id", center.CenterID),
			zap.Int("events", len(parsed)))
	}

	// Every center gets a report file, even on failure.
	if d.csv != nil {
		var path string
		var err error
		if len(parsed) > 0 {
			path, err = d.csv.Generate(center.CenterName, parsed)
		} else {
			path, err = d.csv.GenerateFallback(center.CenterName, result.Message)
		}
		if err != nil {
			d.log.Warn("could not write csv report",
				zap.String("center_id", center.CenterID), zap.Error(err))
		} else {
			result.CSVPath = path
		}
	}

	return result
}
