// Package dataapi talks to the center data API: facility profiles, camps,
// and programs keyed by location slug.
package dataapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"faqbot/types"
)

// Facility is a center profile. Field names tolerate the API's historical
// aliases. Events and clubs live on the profile itself rather than behind
// their own endpoints.
type Facility struct {
	Name           string          `json:"name"`
	Slug           string          `json:"slug"`
	Address        string          `json:"address"`
	City           string          `json:"city"`
	State          string          `json:"state"`
	ZipCode        string          `json:"zip_code"`
	Phone          string          `json:"phone"`
	Email          string          `json:"email"`
	Hours          string          `json:"hours"`
	Website        string          `json:"website"`
	Events         []FacilityEvent `json:"events"`
	UpcomingEvents []FacilityEvent `json:"upcomingEvents"`
	Clubs          []Club          `json:"clubs"`
}

type FacilityEvent struct {
	Name        string `json:"name"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

type Club struct {
	Name        string `json:"name"`
	Schedule    string `json:"schedule"`
	AgeRange    string `json:"age_range"`
	Description string `json:"description"`
}

type Camp struct {
	Name      string `json:"name"`
	Program   string `json:"program"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Week      int    `json:"week"`
	Year      int    `json:"year"`
	AgeRange  string `json:"age_range"`
	Price     string `json:"price"`
	Status    string `json:"status"`
}

type Program struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	AgeRange    string `json:"age_range"`
	Schedule    string `json:"schedule"`
}

// Client is the HTTP client for the data API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     *zap.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

var slugCleanRe = regexp.MustCompile(`[^a-z0-9-]`)

// NormalizeSlug turns a free-form location name into the API's slug form.
// A leading country prefix like "cn-" is dropped; state prefixes stay.
func NormalizeSlug(location string) string {
	s := strings.ToLower(strings.TrimSpace(location))
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "-")
	s = slugCleanRe.ReplaceAllString(s, "")
	s = strings.TrimPrefix(s, "cn-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-")
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return types.NewExternalServiceError(path, 0, err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return types.NewExternalServiceError(path, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 512))
		return types.NewExternalServiceError(path, resp.StatusCode, nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return types.NewExternalServiceError(path, resp.StatusCode,
			fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// GetFacility fetches a center profile. Tries the profile endpoint first and
// falls back to the plain facility endpoint, which older deployments expose.
func (c *Client) GetFacility(ctx context.Context, slug string) (*Facility, error) {
	var f Facility
	err := c.get(ctx, "/facility/profile/slug/"+url.PathEscape(slug), nil, &f)
	if err == nil {
		return &f, nil
	}

	c.log.Debug("profile endpoint failed, trying facility endpoint",
		zap.String("slug", slug), zap.Error(err))

	var fallback Facility
	if err2 := c.get(ctx, "/facility/"+url.PathEscape(slug), nil, &fallback); err2 != nil {
		return nil, err
	}
	return &fallback, nil
}

// GetUpcomingCamps lists camps that have not started yet.
func (c *Client) GetUpcomingCamps(ctx context.Context, slug string) ([]Camp, error) {
	var camps []Camp
	q := url.Values{"slug": {slug}}
	if err := c.get(ctx, "/facility/camps/upcoming", q, &camps); err != nil {
		return nil, err
	}
	return camps, nil
}

// GetCamps lists camps, optionally filtered by year and week.
func (c *Client) GetCamps(ctx context.Context, slug string, year, week int) ([]Camp, error) {
	q := url.Values{"slug": {slug}}
	if year > 0 {
		q.Set("year", fmt.Sprint(year))
	}
	if week > 0 {
		q.Set("week", fmt.Sprint(week))
	}
	var camps []Camp
	if err := c.get(ctx, "/facility/camps", q, &camps); err != nil {
		return nil, err
	}
	return camps, nil
}

// GetPrograms lists the programs a center runs.
func (c *Client) GetPrograms(ctx context.Context, slug string) ([]Program, error) {
	var programs []Program
	q := url.Values{"slug": {slug}}
	if err := c.get(ctx, "/facility/programs", q, &programs); err != nil {
		return nil, err
	}
	return programs, nil
}
