// Package centers keeps the local roster of centers in sync with the
// data API, so scheduled batch runs know who to run for.
package centers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"faqbot/dataapi"
	"faqbot/store"
	"faqbot/types"
)

// Service syncs center profiles from the data API into Postgres.
type Service struct {
	slugURL string
	client  *http.Client
	api     *dataapi.Client
	db      store.CenterStorer
	log     *zap.Logger
}

func NewService(slugURL string, api *dataapi.Client, db store.CenterStorer, log *zap.Logger) *Service {
	return &Service{
		slugURL: slugURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		api:     api,
		db:      db,
		log:     log,
	}
}

// slugList tolerates the shapes the slug endpoint has returned over time:
// a bare array of strings, an array of objects, or a wrapped array.
type slugList struct {
	slugs []string
}

func (l *slugList) UnmarshalJSON(data []byte) error {
	var plain []string
	if err := json.Unmarshal(data, &plain); err == nil {
		l.slugs = plain
		return nil
	}

	var objects []struct {
		Slug string `json:"slug"`
	}
	if err := json.Unmarshal(data, &objects); err == nil {
		for _, o := range objects {
			if o.Slug != "" {
				l.slugs = append(l.slugs, o.Slug)
			}
		}
		return nil
	}

	var wrapped struct {
		Data    json.RawMessage `json:"data"`
		Slugs   json.RawMessage `json:"slugs"`
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	for _, raw := range []json.RawMessage{wrapped.Data, wrapped.Slugs, wrapped.Results} {
		if raw == nil {
			continue
		}
		var inner slugList
		if err := inner.UnmarshalJSON(raw); err == nil && len(inner.slugs) > 0 {
			l.slugs = inner.slugs
			return nil
		}
	}
	return fmt.Errorf("unrecognized slug list shape")
}

// FetchSlugs lists every known center slug.
func (s *Service) FetchSlugs(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.slugURL, nil)
	if err != nil {
		return nil, types.NewExternalServiceError(s.slugURL, 0, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, types.NewExternalServiceError(s.slugURL, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 512))
		return nil, types.NewExternalServiceError(s.slugURL, resp.StatusCode, nil)
	}

	var list slugList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, types.NewExternalServiceError(s.slugURL, resp.StatusCode, err)
	}
	return list.slugs, nil
}

// Sync refreshes the roster: every slug's profile is fetched and upserted.
// Individual failures are logged and skipped, so one broken profile never
// blocks the rest. Returns the number of centers synced.
func (s *Service) Sync(ctx context.Context) (int, error) {
	slugs, err := s.FetchSlugs(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch slugs: %w", err)
	}

	synced := 0
	for _, slug := range slugs {
		f, err := s.api.GetFacility(ctx, slug)
		if err != nil {
			s.log.Warn("could not fetch center profile",
				zap.String("slug", slug), zap.Error(err))
			continue
		}

		center := types.CenterInfo{
			CenterID:   slug,
			CenterName: f.Name,
			ZipCode:    f.ZipCode,
			City:       f.City,
			State:      f.State,
			OwnerEmail: f.Email,
		}
		center.ApplyDefaults()

		if err := s.db.UpsertCenter(ctx, center); err != nil {
			s.log.Warn("could not upsert center",
				zap.String("slug", slug), zap.Error(err))
			continue
		}
		synced++
	}

	s.log.Info("center sync complete",
		zap.Int("slugs", len(slugs)), zap.Int("synced", synced))
	return synced, nil
}

// ListActive returns the synced roster for batch runs.
func (s *Service) ListActive(ctx context.Context) ([]types.CenterInfo, error) {
	return s.db.ListActiveCenters(ctx)
}
