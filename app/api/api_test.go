package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"faqbot/batch"
	"faqbot/events"
	"faqbot/predefined"
	"faqbot/resolver"
	"faqbot/retriever"
	"faqbot/runstore"
	"faqbot/types"
)

type stubSemantic struct{}

func (stubSemantic) Query(context.Context, string) (*retriever.Result, error) {
	return &retriever.Result{Entry: types.FaqEntry{Answer: "semantic"}, Score: 0.1}, nil
}

func (s stubSemantic) QueryWithExtras(ctx context.Context, q string, _ []types.FaqEntry) (*retriever.Result, error) {
	return s.Query(ctx, q)
}

func (stubSemantic) Threshold() float64 { return 0.5 }

type stubGenerator struct{ text string }

func (s stubGenerator) Generate(context.Context, string) (string, error) {
	return s.text, nil
}

func newTestApp(t *testing.T) (*fiber.App, runstore.Store) {
	t.Helper()
	log := zap.NewNop()

	matcher := predefined.NewMatcher([]predefined.Entry{
		{Question: "What are the hours of operation?", Answer: "open 3 to 8"},
	})
	res := resolver.New(matcher, stubSemantic{}, nil, nil, nil, nil, log)

	gen := stubGenerator{text: "| Event Name | Event Date |\n|---|---|\n| Fall Fest | Oct 12 |"}
	discoverer := events.NewDiscoverer(gen, events.NewGenerator(t.TempDir()), log)

	store := runstore.NewMemoryStore()
	coordinator := batch.NewCoordinator(store, discoverer, nil, 5, log)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(log)})
	faqHandler := NewFAQHandler(res, log)
	eventsHandler := NewEventsHandler(discoverer, coordinator, nil, log)

	app.Post("/faq", faqHandler.HandleFAQ)
	app.Post("/events/discover", eventsHandler.HandleDiscover)
	app.Post("/events/batch", eventsHandler.HandleBatch)
	app.Get("/events/status/:run_id", eventsHandler.HandleStatus)
	app.Post("/cron/sync-centers", eventsHandler.HandleSyncCenters)

	return app, store
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestHandleFAQ(t *testing.T) {
	app, _ := newTestApp(t)

	resp := postJSON(t, app, "/faq", `{"question":"What are the hours of operation?"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var ans resolver.Answer
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ans))
	assert.Equal(t, "open 3 to 8", ans.Text)
	assert.Equal(t, resolver.TierPredefined, ans.Tier)
}

func TestHandleFAQ_DefaultTier(t *testing.T) {
	app, _ := newTestApp(t)

	resp := postJSON(t, app, "/faq", `{"question":"something nobody knows"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var ans resolver.Answer
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ans))
	assert.Equal(t, resolver.TierDefault, ans.Tier)
	assert.Equal(t, resolver.DefaultAnswer, ans.Text)
}

func TestHandleFAQ_Validation(t *testing.T) {
	app, _ := newTestApp(t)

	resp := postJSON(t, app, "/faq", `{"question":""}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = postJSON(t, app, "/faq", `{invalid json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleDiscover(t *testing.T) {
	app, _ := newTestApp(t)

	resp := postJSON(t, app, "/events/discover",
		`{"center_id":"cn-1","center_name":"Frisco","zip_code":"75034"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result types.EventDiscoveryResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, types.DiscoverySuccess, result.Status)
	assert.Equal(t, 1, result.EventCount)
}

func TestHandleDiscover_Validation(t *testing.T) {
	app, _ := newTestApp(t)

	resp := postJSON(t, app, "/events/discover", `{"center_name":"no id"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestHandleBatch_AndStatus(t *testing.T) {
	app, store := newTestApp(t)

	resp := postJSON(t, app, "/events/batch",
		`{"centers":[{"center_id":"cn-1","center_name":"Frisco"},{"center_id":"cn-2","center_name":"Katy"}]}`)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	var accepted struct {
		RunID        string    `json:"run_id"`
		Message      string    `json:"message"`
		StartedAt    time.Time `json:"started_at"`
		TotalCenters int       `json:"total_centers"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&accepted))
	assert.NotEmpty(t, accepted.RunID)
	assert.Equal(t, "batch processing started", accepted.Message)
	assert.False(t, accepted.StartedAt.IsZero())
	assert.Equal(t, 2, accepted.TotalCenters)

	// Processing is asynchronous; poll until the run completes.
	deadline := time.Now().Add(5 * time.Second)
	for {
		run, err := store.Get(context.Background(), accepted.RunID)
		require.NoError(t, err)
		if run.Status != types.RunRunning {
			assert.Equal(t, types.RunCompleted, run.Status)
			assert.Equal(t, 2, run.ProcessedCenters)
			break
		}
		require.True(t, time.Now().Before(deadline), "batch did not complete in time")
		time.Sleep(10 * time.Millisecond)
	}

	req := httptest.NewRequest(http.MethodGet, "/events/status/"+accepted.RunID, nil)
	statusResp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, statusResp.StatusCode)

	var run types.BatchRun
	require.NoError(t, json.NewDecoder(statusResp.Body).Decode(&run))
	assert.Equal(t, 2, run.SuccessfulCenters)
}

func TestHandleStatus_NotFound(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/events/status/unknown-id", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandleSyncCenters_Unconfigured(t *testing.T) {
	app, _ := newTestApp(t)

	resp := postJSON(t, app, "/cron/sync-centers", `{}`)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
