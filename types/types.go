package types

import (
	"time"
)

// FaqEntry is one question/answer pair of the static corpus. Entries are
// loaded once at startup; identity is the position in the corpus slice.
type FaqEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// CenterInfo describes one center a discovery run operates on. Radius is in
// miles and must stay within [1,50]; Country defaults to USA.
type CenterInfo struct {
	CenterID   string `json:"center_id"`
	CenterName string `json:"center_name"`
	ZipCode    string `json:"zip_code,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	Country    string `json:"country,omitempty"`
	Radius     int    `json:"radius,omitempty"`
	OwnerEmail string `json:"owner_email,omitempty"`
}

const (
	DefaultRadius  = 5
	DefaultCountry = "USA"
)

// ApplyDefaults fills Radius and Country when the caller left them empty.
func (c *CenterInfo) ApplyDefaults() {
	if c.Radius == 0 {
		c.Radius = DefaultRadius
	}
	if c.Country == "" {
		c.Country = DefaultCountry
	}
}

// EventItem is one event recovered from a text-generation response. Only the
// name is required; everything else is best effort.
type EventItem struct {
	EventName        string `json:"event_name"`
	EventDate        string `json:"event_date,omitempty"`
	WebsiteURL       string `json:"website_url,omitempty"`
	Location         string `json:"location,omitempty"`
	OrganizerContact string `json:"organizer_contact,omitempty"`
	Fees             string `json:"fees,omitempty"`
	Notes            string `json:"notes,omitempty"`
}

type DiscoveryStatus string

const (
	DiscoverySuccess DiscoveryStatus = "success"
	DiscoveryPartial DiscoveryStatus = "partial"
	DiscoveryFailed  DiscoveryStatus = "failed"
)

// EventDiscoveryResult is the terminal outcome of one center's discovery.
// Immutable once produced.
type EventDiscoveryResult struct {
	CenterID    string          `json:"center_id"`
	CenterName  string          `json:"center_name"`
	Events      []EventItem     `json:"events"`
	EventCount  int             `json:"event_count"`
	CSVPath     string          `json:"csv_path,omitempty"`
	OwnerEmail  string          `json:"owner_email,omitempty"`
	Status      DiscoveryStatus `json:"status"`
	Message     string          `json:"message"`
	GeneratedAt time.Time       `json:"generated_at"`
}

type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// BatchRun tracks one batch execution across many centers. Counters are
// mutated as centers complete; updates must go through a run store so
// concurrent completions never lose increments.
type BatchRun struct {
	RunID             string                 `json:"run_id"`
	Status            RunStatus              `json:"status"`
	TotalCenters      int                    `json:"total_centers"`
	ProcessedCenters  int                    `json:"processed_centers"`
	SuccessfulCenters int                    `json:"successful_centers"`
	FailedCenters     int                    `json:"failed_centers"`
	StartedAt         time.Time              `json:"started_at"`
	CompletedAt       *time.Time             `json:"completed_at,omitempty"`
	Errors            []string               `json:"errors"`
	Results           []EventDiscoveryResult `json:"results"`
}
